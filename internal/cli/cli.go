// Package cli implements the imgaug command-line interface.
package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/imgaug/pkg/buildinfo"
	"github.com/matzehuels/imgaug/pkg/cache"
	"github.com/matzehuels/imgaug/pkg/config"
	"github.com/matzehuels/imgaug/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for display.
	appName = "imgaug"

	// defaultAddr is the listen address of "imgaug serve".
	defaultAddr = ":8080"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "imgaug augments image datasets",
		Long:         `imgaug applies reproducible geometric, frequency-domain and intensity augmentations to image datasets, from the command line or over HTTP.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Register all subcommands
	root.AddCommand(c.augmentCommand())
	root.AddCommand(c.applyCommand())
	root.AddCommand(c.opsCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.runsCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner with the backends of cfg.
// A nil cfg selects the file cache and file run store.
func (c *CLI) newRunner(ctx context.Context, cfg *config.Config, noCache bool) (*pipeline.Runner, error) {
	if cfg == nil {
		cfg = &config.Config{}
	}
	var (
		results cache.Cache
		err     error
	)
	if noCache {
		results = cache.NewNullCache()
	} else if results, err = cfg.OpenCache(ctx); err != nil {
		return nil, err
	}
	runs, err := cfg.OpenStore(ctx)
	if err != nil {
		_ = results.Close()
		return nil, err
	}
	runner := pipeline.NewRunner(results, cfg.Keyer(), runs, c.Logger)
	runner.TTL = cfg.Cache.TTL
	return runner, nil
}

// loadConfig reads the pipeline file at path, or returns an empty
// configuration when path is empty.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return &config.Config{}, nil
	}
	return config.Load(path)
}
