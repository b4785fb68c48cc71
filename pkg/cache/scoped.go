package cache

// ScopedKeyer wraps a Keyer with a prefix so several datasets or tenants can
// share one backend without colliding.
//
//	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), "imagenet-subset:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// AugmentKey generates a prefixed key for augmented images.
func (k *ScopedKeyer) AugmentKey(imageHash string, opts AugmentKeyOpts) string {
	return k.prefix + k.inner.AugmentKey(imageHash, opts)
}
