package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/imgaug/pkg/server"
)

// serveCommand creates the serve command that runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr       string
		configPath string
		noCache    bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the augmentation API over HTTP",
		Long: `Serve the augmentation API over HTTP.

Endpoints:
  GET  /healthz
  GET  /v1/operators
  POST /v1/operators/{name}/apply?seed=42&format=png

The cache backend is taken from --config when given. Results are shared
with 'imgaug augment' runs using the same cache.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			runner, err := c.newRunner(cmd.Context(), cfg, noCache)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			return server.New(runner, c.Logger).ListenAndServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", defaultAddr, "listen address")
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "pipeline file with cache settings")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}
