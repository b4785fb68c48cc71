package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/matzehuels/imgaug/pkg/pipeline"
)

// maxListedFailures bounds the failures printed after a run.
const maxListedFailures = 10

// augmentFlags are command-line overrides of the pipeline file.
type augmentFlags struct {
	imageDir     string
	split        string
	seed         uint64
	workers      int
	subsamplePct float64
	format       string
	backend      string
	noCache      bool
	refresh      bool
	failFast     bool
	noTUI        bool
}

// apply copies every flag the user set onto opts.
func (f *augmentFlags) apply(cmd *cobra.Command, opts *pipeline.Options) {
	changed := cmd.Flags().Changed
	if changed("image-dir") {
		opts.ImageDir = f.imageDir
	}
	if changed("split") {
		opts.Split = f.split
	}
	if changed("seed") {
		opts.Seed = f.seed
	}
	if changed("workers") {
		opts.Workers = f.workers
	}
	if changed("subsample-pct") {
		opts.SubsamplePct = f.subsamplePct
	}
	if changed("format") {
		opts.Format = f.format
	}
	if changed("backend") {
		opts.Backend = f.backend
	}
	if changed("fail-fast") {
		opts.FailFast = f.failFast
	}
	opts.Refresh = f.refresh
}

// augmentCommand creates the augment command that runs a pipeline file.
func (c *CLI) augmentCommand() *cobra.Command {
	var flags augmentFlags

	cmd := &cobra.Command{
		Use:   "augment <pipeline.toml>",
		Short: "Augment an image dataset",
		Long: `Augment every image of a dataset with the augmentations of a pipeline file.

Images are read from <image_dir>/original/<split>/... and each augmentation
writes its output to <image_dir>/<augmentation>/<split>/... with the same
relative path. Random augmentations draw from a stream derived from the seed,
the image path and the augmentation name, so reruns reproduce the same
outputs regardless of the worker count.

Outputs are cached; rerunning an unchanged pipeline only rewrites files.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(args[0])
			if err != nil {
				return err
			}
			opts := cfg.Pipeline()
			flags.apply(cmd, &opts)

			runner, err := c.newRunner(cmd.Context(), cfg, flags.noCache)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			return c.runAugment(cmd.Context(), runner, opts, flags.noTUI)
		},
	}

	cmd.Flags().StringVar(&flags.imageDir, "image-dir", "", "dataset root (overrides image_dir)")
	cmd.Flags().StringVar(&flags.split, "split", pipeline.DefaultSplit, "dataset split to augment")
	cmd.Flags().Uint64Var(&flags.seed, "seed", pipeline.DefaultSeed, "random seed")
	cmd.Flags().IntVarP(&flags.workers, "workers", "j", pipeline.DefaultWorkers(), "images processed concurrently")
	cmd.Flags().Float64Var(&flags.subsamplePct, "subsample-pct", pipeline.DefaultSubsamplePct, "percentage of images to augment")
	cmd.Flags().StringVarP(&flags.format, "format", "f", "", "output format: jpeg, png, gif, tiff, bmp (default: keep input format)")
	cmd.Flags().StringVar(&flags.backend, "backend", "", "FFT backend: gonum (default), godsp")
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&flags.refresh, "refresh", false, "recompute cached outputs")
	cmd.Flags().BoolVar(&flags.failFast, "fail-fast", false, "stop at the first failed image")
	cmd.Flags().BoolVar(&flags.noTUI, "no-tui", false, "log progress instead of drawing a progress bar")

	return cmd
}

// runAugment executes the pipeline and prints a summary.
func (c *CLI) runAugment(ctx context.Context, runner *pipeline.Runner, opts pipeline.Options, noTUI bool) error {
	prog := newProgress(c.Logger)

	var (
		res *pipeline.Result
		err error
	)
	if !noTUI && isTerminal(os.Stderr) {
		res, err = runWithTUI(ctx, runner, opts)
	} else {
		opts.Progress = c.logProgress
		res, err = runner.Execute(ctx, opts)
	}
	if res == nil {
		return err
	}

	prog.done("finished augmentation", "run", res.Run.ID)
	printSuccess("Augmented %d images", res.Stats.Images)
	printStats(res.Stats)
	for i, f := range res.Run.Failures {
		if i == maxListedFailures {
			printDetail("... and %d more", len(res.Run.Failures)-maxListedFailures)
			break
		}
		printWarning("%s (%s): %s", f.Path, f.Operator, f.Error)
	}
	printNextStep("Inspect the run", appName+" runs show "+res.Run.ID)

	if err != nil {
		return err
	}
	if n := len(res.Run.Failures); n > 0 {
		return fmt.Errorf("%d augmentations failed", n)
	}
	return nil
}

// logProgress reports pipeline progress through the logger.
func (c *CLI) logProgress(p pipeline.Progress) {
	if p.Err != nil {
		c.Logger.Warn("image failed", "path", p.Path, "error", p.Err)
		return
	}
	c.Logger.Debug("image done", "path", p.Path, "done", p.Done, "total", p.Total)
}

// isTerminal reports whether f is an interactive terminal.
func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
