// Package config loads augmentation pipelines from TOML files.
//
// A pipeline file names the dataset, the seed and the list of augmentations,
// plus the cache and run-store backends:
//
//	image_dir = "./images"
//	seed = 42
//
//	[cache]
//	backend = "redis"
//	redis_url = "redis://localhost:6379/0"
//
//	[[augmentations]]
//	name = "rotate"
//	max_theta = 90.0
//
//	[[augmentations]]
//	name = "bandpass"
//
// Keys that do not map to a field are rejected, so a misspelled parameter
// never silently falls back to its default.
package config

import (
	"os"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/imgaug/pkg/augment"
	"github.com/matzehuels/imgaug/pkg/errors"
	"github.com/matzehuels/imgaug/pkg/pipeline"
)

// Backend names.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendMongo = "mongo"
	BackendNone  = "none"
)

// Config is a parsed pipeline file.
type Config struct {
	ImageDir     string  `toml:"image_dir"`
	Split        string  `toml:"split"`
	Seed         uint64  `toml:"seed"`
	Workers      int     `toml:"workers"`
	SubsamplePct float64 `toml:"subsample_pct"`
	Format       string  `toml:"format"`
	FFTBackend   string  `toml:"fft_backend"`
	FailFast     bool    `toml:"fail_fast"`

	Cache Cache `toml:"cache"`
	Store Store `toml:"store"`

	Augmentations []Augmentation `toml:"augmentations"`
}

// Cache selects the result cache.
type Cache struct {
	Backend  string        `toml:"backend"`
	Dir      string        `toml:"dir"`
	RedisURL string        `toml:"redis_url"`
	TTL      time.Duration `toml:"ttl"`
	// Prefix namespaces keys so several datasets can share one backend.
	Prefix string `toml:"prefix"`
}

// Store selects where run records are kept.
type Store struct {
	Backend  string `toml:"backend"`
	Dir      string `toml:"dir"`
	MongoURI string `toml:"mongo_uri"`
	Database string `toml:"database"`
}

// Augmentation is one [[augmentations]] entry. Operator parameters sit
// next to the name.
type Augmentation struct {
	Name string `toml:"name"`
	augment.Params
}

// Load reads and parses the pipeline file at path. Relative image
// directories stay relative to the working directory.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file not found: %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, errors.Wrap(errors.GetCode(err), err, "config %s", path)
	}
	return cfg, nil
}

// Parse decodes and validates a pipeline file.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse toml")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown keys: %s", strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks backend names and every augmentation.
func (c *Config) Validate() error {
	switch c.Cache.Backend {
	case "", BackendFile, BackendRedis, BackendNone:
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "invalid cache backend %q (must be one of: file, redis, none)", c.Cache.Backend)
	}
	if c.Cache.Backend == BackendRedis && c.Cache.RedisURL == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.redis_url is required for the redis backend")
	}
	if c.Cache.TTL < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.ttl must not be negative, got %s", c.Cache.TTL)
	}
	switch c.Store.Backend {
	case "", BackendFile, BackendMongo, BackendNone:
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "invalid store backend %q (must be one of: file, mongo, none)", c.Store.Backend)
	}
	if c.Store.Backend == BackendMongo && c.Store.MongoURI == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "store.mongo_uri is required for the mongo backend")
	}
	for i, a := range c.Augmentations {
		if err := errors.ValidateOperatorName(a.Name); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "augmentations[%d]", i)
		}
	}
	// image_dir may be supplied on the command line instead.
	opts := c.Pipeline()
	if opts.ImageDir == "" {
		opts.ImageDir = "."
	}
	return opts.ValidateAndSetDefaults()
}

// Pipeline converts the file into pipeline options. Image directory,
// seed and the other run settings may still be overridden by the caller.
func (c *Config) Pipeline() pipeline.Options {
	ops := make([]pipeline.Operation, len(c.Augmentations))
	for i, a := range c.Augmentations {
		ops[i] = pipeline.Operation{Name: a.Name, Params: a.Params}
	}
	return pipeline.Options{
		ImageDir:     c.ImageDir,
		Split:        c.Split,
		Operations:   ops,
		Seed:         c.Seed,
		Workers:      c.Workers,
		SubsamplePct: c.SubsamplePct,
		Format:       c.Format,
		Backend:      c.FFTBackend,
		FailFast:     c.FailFast,
	}
}
