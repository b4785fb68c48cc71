// Package store records the provenance of augmentation runs.
//
// Every pipeline execution produces one [Run]: which images were read, which
// operators were applied with which parameters and seed, how many outputs
// were written or served from cache, and which images failed. Runs are kept
// by a [Store]:
//   - [FileStore]: JSON files under ~/.local/share/imgaug/runs, for the CLI
//   - [MongoStore]: a MongoDB collection shared by several workers
//   - [NullStore]: provenance disabled
//
// # Usage
//
//	run := store.NewRun(imageDir, seed, operators)
//	// ... execute ...
//	run.Finish()
//	if err := st.Save(ctx, run); err != nil {
//	    return err
//	}
//
//	runs, err := st.List(ctx, 10) // newest first
package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/imgaug/pkg/errors"
)

// DefaultListLimit bounds [Store.List] when limit is not positive.
const DefaultListLimit = 20

// Failure is one image/operator pair that could not be augmented.
type Failure struct {
	Path     string `json:"path" bson:"path"`
	Operator string `json:"operator" bson:"operator"`
	Error    string `json:"error" bson:"error"`
}

// Run describes one pipeline execution.
type Run struct {
	ID         string    `json:"id" bson:"_id"`
	StartedAt  time.Time `json:"started_at" bson:"started_at"`
	FinishedAt time.Time `json:"finished_at,omitzero" bson:"finished_at,omitempty"`
	ImageDir   string    `json:"image_dir" bson:"image_dir"`
	Seed       uint64    `json:"seed" bson:"seed"`
	// Operators holds the configured operator descriptions, in order.
	Operators []string  `json:"operators" bson:"operators"`
	Images    int       `json:"images" bson:"images"`
	Outputs   int       `json:"outputs" bson:"outputs"`
	CacheHits int       `json:"cache_hits" bson:"cache_hits"`
	Failures  []Failure `json:"failures,omitempty" bson:"failures,omitempty"`
}

// NewRun starts a run record with a random ID.
func NewRun(imageDir string, seed uint64, operators []string) *Run {
	return &Run{
		ID:        uuid.NewString(),
		StartedAt: time.Now().UTC(),
		ImageDir:  imageDir,
		Seed:      seed,
		Operators: operators,
	}
}

// Finish stamps the completion time.
func (r *Run) Finish() {
	r.FinishedAt = time.Now().UTC()
}

// Duration returns the wall time of a finished run, or zero.
func (r *Run) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// Succeeded reports whether the run finished without failures.
func (r *Run) Succeeded() bool {
	return !r.FinishedAt.IsZero() && len(r.Failures) == 0
}

// Store persists runs.
type Store interface {
	// Save inserts or replaces a run.
	Save(ctx context.Context, run *Run) error

	// Get returns the run with the given ID, or an error with code
	// RUN_NOT_FOUND.
	Get(ctx context.Context, id string) (*Run, error)

	// List returns up to limit runs, newest first.
	List(ctx context.Context, limit int) ([]*Run, error)

	// Close releases backend resources.
	Close() error
}

// ValidateID checks that id is a run ID generated by [NewRun].
func ValidateID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid run id %q", id)
	}
	return nil
}

func notFound(id string) error {
	return errors.New(errors.ErrCodeRunNotFound, "run %s not found", id)
}

func listLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	return limit
}
