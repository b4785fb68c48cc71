// Package pipeline runs augmentation over an image dataset.
//
// This package implements the scan → augment → store pipeline shared by the
// CLI and the HTTP API. By centralizing this logic, cache keys, derived seeds
// and output paths are identical across entry points.
//
// # Architecture
//
// For every image below <ImageDir>/original/<Split>:
//
//  1. Read: load the encoded bytes once and hash them
//  2. Augment: for each operation, derive a seed from (Seed, image, operator),
//     consult the cache, otherwise decode, apply and encode
//  3. Store: write the output next to the input, with "original" replaced by
//     the operator name, and record the outcome in the run
//
// Images are processed concurrently with a bounded worker count. Because each
// (image, operator) pair derives its own random stream, results do not depend
// on scheduling.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, runs, logger)
//	opts := pipeline.Options{
//	    ImageDir: "./images",
//	    Operations: []pipeline.Operation{
//	        {Name: "rotate", Params: augment.Params{MaxTheta: 90}},
//	        {Name: "bandpass"},
//	    },
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Run.ID, result.Stats.Outputs)
package pipeline

import (
	"io"
	"runtime"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/imgaug/pkg/augment"
	"github.com/matzehuels/imgaug/pkg/core/frequency"
	"github.com/matzehuels/imgaug/pkg/dataset"
	"github.com/matzehuels/imgaug/pkg/errors"
	"github.com/matzehuels/imgaug/pkg/store"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI, API, and Config
// =============================================================================

const (
	// DefaultSeed is the default random seed for reproducibility.
	DefaultSeed = uint64(42)

	// DefaultSplit is the dataset split that is augmented.
	DefaultSplit = dataset.DefaultSplit

	// DefaultSubsamplePct keeps every image.
	DefaultSubsamplePct = 100.0
)

// DefaultWorkers is the default number of images processed concurrently.
func DefaultWorkers() int {
	return runtime.GOMAXPROCS(0)
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Operation is one configured augmentation.
type Operation struct {
	Name   string         `json:"name"`
	Params augment.Params `json:"params"`
}

// Options contains all configuration for an augmentation run.
// This struct supports JSON serialization for API requests.
type Options struct {
	ImageDir     string      `json:"image_dir"`
	Split        string      `json:"split,omitempty"`
	Operations   []Operation `json:"operations"`

	// Seed is the base seed from which per-image seeds are derived.
	// Zero selects DefaultSeed, so a base seed of 0 cannot be requested.
	Seed uint64 `json:"seed,omitempty"`

	Workers      int     `json:"workers,omitempty"`
	SubsamplePct float64 `json:"subsample_pct,omitempty"`

	// Format overrides the output format ("png", "jpeg", ...).
	// Empty keeps the input file's extension.
	Format string `json:"format,omitempty"`

	// Backend is the FFT backend for operations that do not set one.
	Backend string `json:"backend,omitempty"`

	// Refresh ignores cached outputs but still writes new ones.
	Refresh bool `json:"refresh,omitempty"`

	// FailFast aborts the run on the first failed image.
	FailFast bool `json:"fail_fast,omitempty"`

	// Runtime options (not serialized)
	Logger   *log.Logger    `json:"-"`
	Progress func(Progress) `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Progress reports one finished image.
type Progress struct {
	Done  int
	Total int
	Path  string
	Err   error
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Run is the provenance record, as saved to the store.
	Run *store.Run

	// Stats contains counts and timing.
	Stats Stats
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Images    int
	Outputs   int
	CacheHits int
	Failures  int
	Duration  time.Duration
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.ImageDir == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "image_dir is required")
	}
	if len(o.Operations) == 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "at least one augmentation is required")
	}
	if err := o.validateOperations(); err != nil {
		return err
	}
	if o.Workers < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "workers must not be negative, got %d", o.Workers)
	}
	if o.SubsamplePct != 0 {
		if err := errors.ValidatePercent("subsample_pct", o.SubsamplePct); err != nil {
			return err
		}
	}
	if o.Format != "" {
		if _, err := dataset.ParseFormat(o.Format); err != nil {
			return err
		}
	}
	if _, err := frequency.ParseBackend(o.Backend); err != nil {
		return err
	}
	o.SetDefaults()
	o.validated = true
	return nil
}

func (o *Options) validateOperations() error {
	seen := make(map[string]bool, len(o.Operations))
	for _, op := range o.Operations {
		if _, ok := augment.Lookup(op.Name); !ok {
			return errors.New(errors.ErrCodeUnknownOperator, "unknown augmentation %q (available: %v)", op.Name, augment.Names())
		}
		if seen[op.Name] {
			return errors.New(errors.ErrCodeInvalidConfig, "augmentation %q is listed twice; outputs would collide", op.Name)
		}
		seen[op.Name] = true
		if err := op.Params.Validate(); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "augmentation %s", op.Name)
		}
	}
	return nil
}

// SetDefaults fills zero fields.
func (o *Options) SetDefaults() {
	if o.Split == "" {
		o.Split = DefaultSplit
	}
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	if o.Workers == 0 {
		o.Workers = DefaultWorkers()
	}
	if o.SubsamplePct == 0 {
		o.SubsamplePct = DefaultSubsamplePct
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Operators builds the configured operators. The pipeline-wide Backend fills
// operations without their own.
func (o *Options) Operators() (augment.Chain, error) {
	ops := make(augment.Chain, 0, len(o.Operations))
	for _, operation := range o.Operations {
		p := operation.Params
		if p.Backend == "" {
			p.Backend = o.Backend
		}
		op, err := augment.New(operation.Name, p)
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
	}
	return ops, nil
}
