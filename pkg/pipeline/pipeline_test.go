package pipeline

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/imgaug/pkg/augment"
	"github.com/matzehuels/imgaug/pkg/cache"
	"github.com/matzehuels/imgaug/pkg/dataset"
	"github.com/matzehuels/imgaug/pkg/errors"
	"github.com/matzehuels/imgaug/pkg/observability"
	"github.com/matzehuels/imgaug/pkg/raster"
	"github.com/matzehuels/imgaug/pkg/store"
)

// writeDataset creates root/original/train/<class>/<name>.png images.
func writeDataset(t *testing.T, root string, names ...string) {
	t.Helper()
	for i, name := range names {
		r := raster.New(6, 8, 3)
		for j := range r.Pix {
			r.Pix[j] = uint8(j*7 + i*31)
		}
		if err := dataset.Save(filepath.Join(root, "original", "train", filepath.FromSlash(name)), r); err != nil {
			t.Fatalf("Save(%s): %v", name, err)
		}
	}
}

func baseOptions(root string) Options {
	return Options{
		ImageDir: root,
		Operations: []Operation{
			{Name: augment.Invert},
			{Name: augment.Rotate, Params: augment.Params{MaxTheta: 90}},
		},
		Workers: 2,
	}
}

func TestOptionsDefaults(t *testing.T) {
	opts := Options{ImageDir: "images", Operations: []Operation{{Name: "invert"}}}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("Valid options should pass: %v", err)
	}
	if opts.Seed != DefaultSeed {
		t.Errorf("Seed should be %d, got %d", DefaultSeed, opts.Seed)
	}
	if opts.Split != DefaultSplit {
		t.Errorf("Split should be %q, got %q", DefaultSplit, opts.Split)
	}
	if opts.Workers != DefaultWorkers() {
		t.Errorf("Workers should be %d, got %d", DefaultWorkers(), opts.Workers)
	}
	if opts.SubsamplePct != DefaultSubsamplePct {
		t.Errorf("SubsamplePct should be %v, got %v", DefaultSubsamplePct, opts.SubsamplePct)
	}
	if opts.Logger == nil {
		t.Error("Logger should default to a discard logger")
	}

	// Idempotent
	opts.Seed = 7
	if err := opts.ValidateAndSetDefaults(); err != nil || opts.Seed != 7 {
		t.Errorf("second ValidateAndSetDefaults changed options: seed %d, err %v", opts.Seed, err)
	}
}

func TestOptionsValidate(t *testing.T) {
	ops := []Operation{{Name: "invert"}}
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"missing image dir", Options{Operations: ops}, errors.ErrCodeInvalidConfig},
		{"no operations", Options{ImageDir: "x"}, errors.ErrCodeInvalidConfig},
		{"unknown operation", Options{ImageDir: "x", Operations: []Operation{{Name: "sharpen"}}}, errors.ErrCodeUnknownOperator},
		{"duplicate operation", Options{ImageDir: "x", Operations: []Operation{{Name: "invert"}, {Name: "invert"}}}, errors.ErrCodeInvalidConfig},
		{"bad params", Options{ImageDir: "x", Operations: []Operation{{Name: "rotate", Params: augment.Params{Edge: "wrap"}}}}, errors.ErrCodeInvalidConfig},
		{"negative workers", Options{ImageDir: "x", Operations: ops, Workers: -1}, errors.ErrCodeInvalidConfig},
		{"subsample out of range", Options{ImageDir: "x", Operations: ops, SubsamplePct: 150}, errors.ErrCodeInvalidParams},
		{"bad format", Options{ImageDir: "x", Operations: ops, Format: "webp"}, errors.ErrCodeInvalidFormat},
		{"bad backend", Options{ImageDir: "x", Operations: ops, Backend: "fftw"}, errors.ErrCodeInvalidParams},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if !errors.Is(err, tt.code) {
				t.Errorf("ValidateAndSetDefaults() error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestExecute(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	writeDataset(t, root, "cat/a.png", "dog/b.png")

	runs, err := store.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	runner := NewRunner(fc, nil, runs, nil)

	var mu sync.Mutex
	var progress []Progress
	opts := baseOptions(root)
	opts.Progress = func(p Progress) {
		mu.Lock()
		progress = append(progress, p)
		mu.Unlock()
	}

	res, err := runner.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if res.Stats.Images != 2 || res.Stats.Outputs != 4 || res.Stats.CacheHits != 0 || res.Stats.Failures != 0 {
		t.Errorf("Stats = %+v, want 2 images, 4 outputs, no hits or failures", res.Stats)
	}
	if len(progress) != 2 || progress[0].Total != 2 || progress[0].Done+progress[1].Done != 3 {
		t.Errorf("progress = %+v, want reports 1/2 and 2/2", progress)
	}

	src, _ := dataset.Load(filepath.Join(root, "original", "train", "cat", "a.png"))
	inv, err := dataset.Load(filepath.Join(root, "invert", "train", "cat", "a.png"))
	if err != nil {
		t.Fatalf("Load invert output: %v", err)
	}
	for i := range src.Pix {
		if inv.Pix[i] != 255-src.Pix[i] {
			t.Fatalf("invert output Pix[%d] = %d, want %d", i, inv.Pix[i], 255-src.Pix[i])
		}
	}
	if _, err := os.Stat(filepath.Join(root, "rotate", "train", "dog", "b.png")); err != nil {
		t.Errorf("rotate output missing: %v", err)
	}

	saved, err := runs.Get(ctx, res.Run.ID)
	if err != nil {
		t.Fatalf("run not saved: %v", err)
	}
	if saved.Outputs != 4 || len(saved.Operators) != 2 || !saved.Succeeded() {
		t.Errorf("saved run = %+v", saved)
	}

	// Second run is served from cache with identical bytes.
	first, _ := os.ReadFile(filepath.Join(root, "rotate", "train", "cat", "a.png"))
	res, err = runner.Execute(ctx, baseOptions(root))
	if err != nil {
		t.Fatalf("Execute (cached): %v", err)
	}
	if res.Stats.CacheHits != 4 {
		t.Errorf("CacheHits = %d, want 4", res.Stats.CacheHits)
	}
	second, _ := os.ReadFile(filepath.Join(root, "rotate", "train", "cat", "a.png"))
	if !bytes.Equal(first, second) {
		t.Error("cached output differs from the computed one")
	}

	// Refresh recomputes.
	opts = baseOptions(root)
	opts.Refresh = true
	res, err = runner.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("Execute (refresh): %v", err)
	}
	if res.Stats.CacheHits != 0 || res.Stats.Outputs != 4 {
		t.Errorf("refresh Stats = %+v, want 4 outputs without hits", res.Stats)
	}
}

func TestExecuteDeterministicAcrossWorkers(t *testing.T) {
	ctx := context.Background()
	outputs := make([][]byte, 0, 2)
	for _, workers := range []int{1, 4} {
		root := t.TempDir()
		writeDataset(t, root, "cat/a.png", "cat/b.png", "dog/c.png")
		opts := baseOptions(root)
		opts.Workers = workers
		opts.Operations = []Operation{{Name: augment.Translate}, {Name: augment.LowPass}}
		if _, err := NewRunner(nil, nil, nil, nil).Execute(ctx, opts); err != nil {
			t.Fatalf("Execute(workers=%d): %v", workers, err)
		}
		var all []byte
		for _, p := range []string{"translate/train/cat/b.png", "lowpass/train/dog/c.png"} {
			data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(p)))
			if err != nil {
				t.Fatalf("read %s: %v", p, err)
			}
			all = append(all, data...)
		}
		outputs = append(outputs, all)
	}
	if !bytes.Equal(outputs[0], outputs[1]) {
		t.Error("outputs depend on the worker count")
	}
}

func TestExecuteFailures(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	writeDataset(t, root, "cat/a.png")
	bad := filepath.Join(root, "original", "train", "cat", "broken.png")
	if err := os.WriteFile(bad, []byte("not a png"), 0o644); err != nil {
		t.Fatal(err)
	}

	opts := baseOptions(root)
	opts.Workers = 1
	res, err := NewRunner(nil, nil, nil, nil).Execute(ctx, opts)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if res.Stats.Outputs != 2 || res.Stats.Failures != 2 {
		t.Errorf("Stats = %+v, want 2 outputs and 2 failures", res.Stats)
	}
	if res.Run.Succeeded() {
		t.Error("run with failures should not succeed")
	}

	opts = baseOptions(root)
	opts.Workers = 1
	opts.FailFast = true
	if _, err := NewRunner(nil, nil, nil, nil).Execute(ctx, opts); err == nil {
		t.Error("FailFast run should return an error")
	}
}

func TestExecuteSubsampleAndFormat(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	writeDataset(t, root, "cat/a.png", "cat/b.png", "cat/c.png", "cat/d.png")

	opts := Options{
		ImageDir:     root,
		Operations:   []Operation{{Name: augment.HistEq}},
		SubsamplePct: 50,
		Format:       "bmp",
	}
	res, err := NewRunner(nil, nil, nil, nil).Execute(ctx, opts)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if res.Stats.Images != 2 || res.Stats.Outputs != 2 {
		t.Errorf("Stats = %+v, want 2 images and outputs", res.Stats)
	}
	matches, _ := filepath.Glob(filepath.Join(root, "hist_eq", "train", "cat", "*.bmp"))
	if len(matches) != 2 {
		t.Errorf("found %d bmp outputs, want 2", len(matches))
	}
}

func TestExecuteCancelled(t *testing.T) {
	root := t.TempDir()
	writeDataset(t, root, "cat/a.png")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := NewRunner(nil, nil, nil, nil).Execute(ctx, baseOptions(root))
	if err != context.Canceled {
		t.Errorf("Execute() error = %v, want context.Canceled", err)
	}
	if res == nil || res.Run.FinishedAt.IsZero() {
		t.Error("cancelled run should still be finished and returned")
	}
}

type recordingHooks struct {
	observability.NoopPipelineHooks
	mu       sync.Mutex
	images   int
	augments int
	runs     int
}

func (h *recordingHooks) OnImageStart(context.Context, string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.images++
}

func (h *recordingHooks) OnAugmentComplete(context.Context, string, string, bool, time.Duration, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.augments++
}

func (h *recordingHooks) OnRunComplete(context.Context, string, int, int, time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.runs++
}

func TestExecuteHooks(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetPipelineHooks(hooks)
	defer observability.Reset()

	root := t.TempDir()
	writeDataset(t, root, "cat/a.png", "cat/b.png")
	if _, err := NewRunner(nil, nil, nil, nil).Execute(context.Background(), baseOptions(root)); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if hooks.images != 2 || hooks.augments != 4 || hooks.runs != 1 {
		t.Errorf("hooks saw %d images, %d augments, %d runs; want 2, 4, 1", hooks.images, hooks.augments, hooks.runs)
	}
}

func TestSeedFor(t *testing.T) {
	r := NewRunner(nil, nil, nil, nil)
	inv, _ := augment.New(augment.Invert, augment.Params{})
	rot, _ := augment.New(augment.Rotate, augment.Params{})

	if s := r.SeedFor(42, "cat/a.png", inv); s != 0 {
		t.Errorf("deterministic operator seed = %d, want 0", s)
	}
	a := r.SeedFor(42, "cat/a.png", rot)
	b := r.SeedFor(42, "cat/b.png", rot)
	if a == 0 || a == b {
		t.Errorf("random operator seeds should be per image: %d, %d", a, b)
	}
}
