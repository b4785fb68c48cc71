package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/imgaug/pkg/augment"
	"github.com/matzehuels/imgaug/pkg/cache"
	"github.com/matzehuels/imgaug/pkg/errors"
	"github.com/matzehuels/imgaug/pkg/pipeline"
	"github.com/matzehuels/imgaug/pkg/store"
)

const sample = `
image_dir = "./images"
seed = 7
workers = 4
subsample_pct = 50.0
fft_backend = "godsp"

[cache]
backend = "file"
ttl = "24h"

[store]
backend = "none"

[[augmentations]]
name = "rotate"
max_theta = 90.0
edge = "inclusive"

[[augmentations]]
name = "bandpass"
low_cutoff = [2.0, 10.0]

[[augmentations]]
name = "invert"
`

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(sample))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Cache.TTL != 24*time.Hour {
		t.Errorf("Cache.TTL = %v, want 24h", cfg.Cache.TTL)
	}

	want := pipeline.Options{
		ImageDir: "./images",
		Operations: []pipeline.Operation{
			{Name: "rotate", Params: augment.Params{MaxTheta: 90, Edge: "inclusive"}},
			{Name: "bandpass", Params: augment.Params{LowCutoff: [2]float64{2, 10}}},
			{Name: "invert"},
		},
		Seed:         7,
		Workers:      4,
		SubsamplePct: 50,
		Backend:      "godsp",
	}
	got := cfg.Pipeline()
	if diff := cmp.Diff(want, got, cmp.AllowUnexported(pipeline.Options{})); diff != "" {
		t.Errorf("Pipeline() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		code errors.Code
	}{
		{"syntax", `image_dir = `, errors.ErrCodeInvalidConfig},
		{"unknown key", "image_dir = \"x\"\nsede = 1\n[[augmentations]]\nname = \"invert\"", errors.ErrCodeInvalidConfig},
		{"unknown param", "[[augmentations]]\nname = \"rotate\"\nmax_thetta = 3.0", errors.ErrCodeInvalidConfig},
		{"no augmentations", `image_dir = "x"`, errors.ErrCodeInvalidConfig},
		{"unknown operator", "[[augmentations]]\nname = \"sharpen\"", errors.ErrCodeUnknownOperator},
		{"bad operator name", "[[augmentations]]\nname = \"Rot ate\"", errors.ErrCodeInvalidConfig},
		{"bad cache backend", "[cache]\nbackend = \"memcached\"\n[[augmentations]]\nname = \"invert\"", errors.ErrCodeInvalidConfig},
		{"redis without url", "[cache]\nbackend = \"redis\"\n[[augmentations]]\nname = \"invert\"", errors.ErrCodeInvalidConfig},
		{"mongo without uri", "[store]\nbackend = \"mongo\"\n[[augmentations]]\nname = \"invert\"", errors.ErrCodeInvalidConfig},
		{"bad edge", "[[augmentations]]\nname = \"rotate\"\nedge = \"wrap\"", errors.ErrCodeInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			if !errors.Is(err, tt.code) {
				t.Errorf("Parse() error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestParseWithoutImageDir(t *testing.T) {
	cfg, err := Parse([]byte("[[augmentations]]\nname = \"invert\""))
	if err != nil {
		t.Fatalf("image_dir should be optional in the file: %v", err)
	}
	if cfg.ImageDir != "" {
		t.Errorf("ImageDir = %q, want empty", cfg.ImageDir)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pipeline.toml")
	if err := os.WriteFile(path, []byte(sample), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.Augmentations) != 3 || cfg.Seed != 7 {
		t.Errorf("Load() = %+v", cfg)
	}

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Load(missing) error = %v, want %s", err, errors.ErrCodeFileNotFound)
	}
}

func TestOpenBackends(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	cfg := &Config{
		Cache: Cache{Backend: BackendFile, Dir: filepath.Join(dir, "cache")},
		Store: Store{Backend: BackendFile, Dir: filepath.Join(dir, "runs")},
	}
	c, err := cfg.OpenCache(ctx)
	if err != nil {
		t.Fatalf("OpenCache: %v", err)
	}
	if _, ok := c.(*cache.FileCache); !ok {
		t.Errorf("OpenCache() = %T, want *cache.FileCache", c)
	}
	s, err := cfg.OpenStore(ctx)
	if err != nil {
		t.Fatalf("OpenStore: %v", err)
	}
	if _, ok := s.(*store.FileStore); !ok {
		t.Errorf("OpenStore() = %T, want *store.FileStore", s)
	}

	if _, ok := cfg.Keyer().(cache.DefaultKeyer); !ok {
		t.Errorf("Keyer() = %T, want cache.DefaultKeyer", cfg.Keyer())
	}
	cfg.Cache.Prefix = "imagenet:"
	if _, ok := cfg.Keyer().(*cache.ScopedKeyer); !ok {
		t.Errorf("Keyer() with prefix = %T, want *cache.ScopedKeyer", cfg.Keyer())
	}

	cfg = &Config{Cache: Cache{Backend: BackendNone}, Store: Store{Backend: BackendNone}}
	if c, _ := cfg.OpenCache(ctx); c == nil {
		t.Error("OpenCache(none) returned nil")
	}
	if s, _ := cfg.OpenStore(ctx); s == nil {
		t.Error("OpenStore(none) returned nil")
	}
}
