package config

import (
	"context"

	"github.com/matzehuels/imgaug/pkg/cache"
	"github.com/matzehuels/imgaug/pkg/errors"
	"github.com/matzehuels/imgaug/pkg/store"
)

// OpenCache connects the configured result cache. The file backend
// defaults to cache.DefaultDir.
func (c *Config) OpenCache(ctx context.Context) (cache.Cache, error) {
	switch c.Cache.Backend {
	case BackendNone:
		return cache.NewNullCache(), nil
	case BackendRedis:
		rc, err := cache.NewRedisCache(ctx, c.Cache.RedisURL)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeNetwork, err, "connect cache")
		}
		return rc, nil
	default:
		dir := c.Cache.Dir
		if dir == "" {
			var err error
			if dir, err = cache.DefaultDir(); err != nil {
				return nil, err
			}
		}
		fc, err := cache.NewFileCache(dir)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "open cache dir %s", dir)
		}
		return fc, nil
	}
}

// Keyer returns the cache keyer, scoped by cache.prefix when set.
func (c *Config) Keyer() cache.Keyer {
	if c.Cache.Prefix == "" {
		return cache.NewDefaultKeyer()
	}
	return cache.NewScopedKeyer(cache.NewDefaultKeyer(), c.Cache.Prefix)
}

// OpenStore connects the configured run store. The file backend defaults
// to store.DefaultDir.
func (c *Config) OpenStore(ctx context.Context) (store.Store, error) {
	switch c.Store.Backend {
	case BackendNone:
		return store.NewNullStore(), nil
	case BackendMongo:
		ms, err := store.NewMongoStore(ctx, c.Store.MongoURI, c.Store.Database)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeNetwork, err, "connect run store")
		}
		return ms, nil
	default:
		dir := c.Store.Dir
		if dir == "" {
			var err error
			if dir, err = store.DefaultDir(); err != nil {
				return nil, err
			}
		}
		fs, err := store.NewFileStore(dir)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "open run store %s", dir)
		}
		return fs, nil
	}
}
