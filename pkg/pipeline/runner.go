package pipeline

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/disintegration/imaging"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/imgaug/pkg/augment"
	"github.com/matzehuels/imgaug/pkg/cache"
	"github.com/matzehuels/imgaug/pkg/dataset"
	"github.com/matzehuels/imgaug/pkg/errors"
	"github.com/matzehuels/imgaug/pkg/observability"
	"github.com/matzehuels/imgaug/pkg/raster"
	"github.com/matzehuels/imgaug/pkg/rng"
	"github.com/matzehuels/imgaug/pkg/store"
)

// cacheKeyType labels augmentation entries in cache hooks.
const cacheKeyType = "augment"

// Runner encapsulates pipeline execution with caching and run provenance.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for its backends - it doesn't store
// pipeline results. Multiple goroutines can safely use the same Runner with
// different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Store  store.Store
	Logger *log.Logger

	// TTL is the lifetime of cached outputs; zero means cache.TTLAugment.
	TTL time.Duration
}

// NewRunner creates a runner with the given backends.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
// If runs is nil, a NullStore is used (provenance disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, runs store.Store, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if runs == nil {
		runs = store.NewNullStore()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Store:  runs,
		Logger: logger,
	}
}

// Execute augments every image selected by opts and records the run.
//
// Per-image failures are recorded in the run and do not stop the pipeline
// unless FailFast is set. Cancelling ctx stops scheduling new images; the
// partial run is still saved and ctx.Err() is returned with the result.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, errors.Wrap(errors.GetCode(err), err, "invalid options")
	}
	logger := opts.Logger

	ops, err := opts.Operators()
	if err != nil {
		return nil, err
	}
	paths, err := r.selectImages(opts)
	if err != nil {
		return nil, err
	}

	descriptions := make([]string, len(ops))
	for i, op := range ops {
		descriptions[i] = op.Describe()
	}
	run := store.NewRun(opts.ImageDir, opts.Seed, descriptions)
	run.Images = len(paths)
	start := time.Now()

	logger.Info("starting run",
		"run", run.ID,
		"images", len(paths),
		"operators", ops.Names(),
		"workers", opts.Workers,
		"seed", opts.Seed)
	observability.Pipeline().OnRunStart(ctx, run.ID, len(paths), len(ops))

	var (
		mu   sync.Mutex
		done int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)

	for _, path := range paths {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			res := r.processImage(gctx, path, ops, opts)

			mu.Lock()
			run.Outputs += res.outputs
			run.CacheHits += res.cacheHits
			run.Failures = append(run.Failures, res.failures...)
			done++
			p := Progress{Done: done, Total: len(paths), Path: path, Err: res.err()}
			mu.Unlock()

			if opts.Progress != nil {
				opts.Progress(p)
			}
			if opts.FailFast && p.Err != nil {
				return p.Err
			}
			return nil
		})
	}
	runErr := g.Wait()
	if runErr == nil {
		runErr = ctx.Err()
	}

	run.Finish()
	if err := r.Store.Save(context.WithoutCancel(ctx), run); err != nil {
		logger.Warn("failed to save run", "run", run.ID, "error", err)
	}

	stats := Stats{
		Images:    run.Images,
		Outputs:   run.Outputs,
		CacheHits: run.CacheHits,
		Failures:  len(run.Failures),
		Duration:  time.Since(start),
	}
	observability.Pipeline().OnRunComplete(ctx, run.ID, stats.Outputs, stats.Failures, stats.Duration)
	logger.Info("finished run",
		"run", run.ID,
		"outputs", stats.Outputs,
		"cache_hits", stats.CacheHits,
		"failures", stats.Failures,
		"duration", stats.Duration)

	return &Result{Run: run, Stats: stats}, runErr
}

// selectImages scans the dataset and applies subsampling.
func (r *Runner) selectImages(opts Options) ([]string, error) {
	paths, err := dataset.Scan(opts.ImageDir, dataset.ScanOptions{Split: opts.Split})
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		opts.Logger.Warn("no images found", "dir", opts.ImageDir, "split", opts.Split)
		return nil, nil
	}
	if opts.SubsamplePct < 100 {
		kept, err := dataset.Subsample(paths, opts.SubsamplePct, rng.Derive(opts.Seed, "subsample"))
		if err != nil {
			return nil, err
		}
		opts.Logger.Debug("subsampled images", "kept", len(kept), "total", len(paths), "pct", opts.SubsamplePct)
		paths = kept
	}
	return paths, nil
}

// imageResult aggregates the outcome of one image across operators.
type imageResult struct {
	outputs   int
	cacheHits int
	failures  []store.Failure
}

func (res imageResult) err() error {
	if len(res.failures) == 0 {
		return nil
	}
	f := res.failures[0]
	return errors.New(errors.ErrCodeInternal, "%s: %s: %s", f.Path, f.Operator, f.Error)
}

func (r *Runner) processImage(ctx context.Context, path string, ops augment.Chain, opts Options) imageResult {
	var res imageResult
	fail := func(op string, err error) {
		res.failures = append(res.failures, store.Failure{Path: path, Operator: op, Error: errors.UserMessage(err)})
		opts.Logger.Error("augmentation failed", "path", path, "op", op, "error", err)
	}

	observability.Pipeline().OnImageStart(ctx, path)

	rel, err := filepath.Rel(opts.ImageDir, path)
	if err == nil {
		err = errors.ValidatePath(filepath.ToSlash(rel))
	}
	if err != nil {
		fail("", err)
		return res
	}
	data, err := dataset.Read(path)
	if err != nil {
		fail("", err)
		return res
	}
	img := &lazyImage{data: data, hash: cache.Hash(data)}

	for _, op := range ops {
		if ctx.Err() != nil {
			return res
		}
		start := time.Now()
		cached, err := r.augmentOne(ctx, img, filepath.ToSlash(rel), op, opts)
		observability.Pipeline().OnAugmentComplete(ctx, path, op.Name(), cached, time.Since(start), err)
		if err != nil {
			fail(op.Name(), err)
			continue
		}
		res.outputs++
		if cached {
			res.cacheHits++
		}
		opts.Logger.Debug("augmented image", "op", op.Name(), "path", path, "cached", cached)
	}
	return res
}

// augmentOne writes the output of op for one image, from cache when possible.
// Only rel, the path below ImageDir, is rewritten, so "original" elsewhere in
// ImageDir is left alone.
func (r *Runner) augmentOne(ctx context.Context, img *lazyImage, rel string, op augment.Operator, opts Options) (bool, error) {
	outRel, err := dataset.OutputPath(rel, op.Name())
	if err != nil {
		return false, err
	}
	outPath := filepath.Join(opts.ImageDir, outRel)
	if opts.Format != "" {
		outPath = strings.TrimSuffix(outPath, filepath.Ext(outPath)) + "." + strings.ToLower(opts.Format)
	}
	format, err := dataset.ParseFormat(filepath.Ext(outPath))
	if err != nil {
		return false, err
	}

	seed := r.SeedFor(opts.Seed, rel, op)
	out, cached, err := r.apply(ctx, img, op, seed, format, opts.Refresh)
	if err != nil {
		return false, err
	}
	if err := dataset.WriteFile(outPath, out); err != nil {
		return false, err
	}
	return cached, nil
}

// SeedFor derives the seed of op for the image at rel. Deterministic
// operators always get 0 so their cache entries are shared across seeds.
func (r *Runner) SeedFor(seed uint64, rel string, op augment.Operator) uint64 {
	if info, ok := augment.Lookup(op.Name()); ok && !info.Random {
		return 0
	}
	return rng.DeriveSeed(seed, rel, op.Name())
}

// ApplyBytes decodes an encoded image, applies op with seed and encodes
// the result in format, consulting the cache first unless refresh is set.
// It reports whether the result came from the cache.
func (r *Runner) ApplyBytes(ctx context.Context, data []byte, op augment.Operator, seed uint64, format imaging.Format, refresh bool) ([]byte, bool, error) {
	img := &lazyImage{data: data, hash: cache.Hash(data)}
	return r.apply(ctx, img, op, seed, format, refresh)
}

func (r *Runner) apply(ctx context.Context, img *lazyImage, op augment.Operator, seed uint64, format imaging.Format, refresh bool) ([]byte, bool, error) {
	key := r.Keyer.AugmentKey(img.hash, cache.AugmentKeyOpts{
		Operator: op.Name(),
		Params:   op.Describe(),
		Seed:     seed,
		Format:   format.String(),
	})

	if !refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, cacheKeyType)
			return data, true, nil
		} else if err != nil {
			r.Logger.Warn("cache read failed", "error", err)
		}
		observability.Cache().OnCacheMiss(ctx, cacheKeyType)
	}

	src, err := img.raster()
	if err != nil {
		return nil, false, err
	}
	out, err := ApplyImage(src, op, seed)
	if err != nil {
		return nil, false, err
	}
	data, err := dataset.EncodeBytes(out, format)
	if err != nil {
		return nil, false, err
	}

	ttl := r.TTL
	if ttl <= 0 {
		ttl = cache.TTLAugment
	}
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "error", err)
	} else {
		observability.Cache().OnCacheSet(ctx, cacheKeyType, len(data))
	}
	return data, false, nil
}

// ApplyImage applies op to r with a source seeded by seed.
func ApplyImage(r *raster.Raster, op augment.Operator, seed uint64) (*raster.Raster, error) {
	return op.Apply(r, rng.New(seed))
}

// Close releases resources held by the runner.
func (r *Runner) Close() error {
	var errs []error
	if r.Cache != nil {
		errs = append(errs, r.Cache.Close())
	}
	if r.Store != nil {
		errs = append(errs, r.Store.Close())
	}
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// lazyImage decodes on first use; cache hits never decode.
type lazyImage struct {
	data    []byte
	hash    string
	decoded *raster.Raster
	err     error
	once    sync.Once
}

func (l *lazyImage) raster() (*raster.Raster, error) {
	l.once.Do(func() {
		l.decoded, l.err = dataset.Decode(l.data)
	})
	return l.decoded, l.err
}
