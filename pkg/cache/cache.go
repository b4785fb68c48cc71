// Package cache stores augmentation results keyed by input content and
// operator configuration.
//
// Three backends implement [Cache]:
//   - [FileCache]: JSON entry files under a local directory, for the CLI
//   - [RedisCache]: a shared Redis instance, for multi-worker deployments
//   - [NullCache]: caching disabled
//
// Keys are built by a [Keyer] so backends never see raw parameters:
//
//	key := keyer.AugmentKey(cache.Hash(imageBytes), cache.AugmentKeyOpts{
//	    Operator: "rotate",
//	    Params:   op.Describe(),
//	    Seed:     seed,
//	    Format:   "jpeg",
//	})
package cache

import (
	"context"
	"time"
)

// TTLAugment is how long augmented images stay cached.
const TTLAugment = 7 * 24 * time.Hour

// Cache is a byte store with per-entry expiry.
type Cache interface {
	// Get returns the value for key and whether it was found.
	// Expired entries are reported as misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A non-positive ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// AugmentKeyOpts identifies one augmentation of one image.
type AugmentKeyOpts struct {
	Operator string `json:"operator"`
	Params   string `json:"params"`
	// Seed is the derived seed of a random operator, or 0 for deterministic ones.
	Seed   uint64 `json:"seed"`
	Format string `json:"format"`
}

// Keyer generates cache keys.
type Keyer interface {
	// AugmentKey returns the key of an augmented image.
	AugmentKey(imageHash string, opts AugmentKeyOpts) string
}

// DefaultKeyer builds keys of the form "augment:<sha256>".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// AugmentKey hashes the image hash together with every option.
func (DefaultKeyer) AugmentKey(imageHash string, opts AugmentKeyOpts) string {
	return hashKey("augment", imageHash, opts)
}
