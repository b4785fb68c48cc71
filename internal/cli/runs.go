package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/imgaug/pkg/store"
)

// runsCommand creates the runs command for inspecting run provenance.
func (c *CLI) runsCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Inspect recorded augmentation runs",
	}
	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "pipeline file with store settings")

	cmd.AddCommand(c.runsListCommand(&configPath))
	cmd.AddCommand(c.runsShowCommand(&configPath))

	return cmd
}

func (c *CLI) openStore(cmd *cobra.Command, configPath string) (store.Store, error) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return nil, err
	}
	return cfg.OpenStore(cmd.Context())
}

// runsListCommand creates the "runs list" subcommand.
func (c *CLI) runsListCommand(configPath *string) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runs, err := c.openStore(cmd, *configPath)
			if err != nil {
				return err
			}
			defer runs.Close()

			list, err := runs.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(list) == 0 {
				printInfo("No runs recorded")
				return nil
			}
			fmt.Println(renderRuns(list))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", store.DefaultListLimit, "number of runs to list")

	return cmd
}

// runsShowCommand creates the "runs show" subcommand.
func (c *CLI) runsShowCommand(configPath *string) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show one run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runs, err := c.openStore(cmd, *configPath)
			if err != nil {
				return err
			}
			defer runs.Close()

			run, err := runs.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(run)
			}
			printRun(run)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")

	return cmd
}

func printRun(run *store.Run) {
	fmt.Println(StyleTitle.Render("Run " + run.ID))
	printKeyValue("Started", run.StartedAt.Local().Format(time.RFC3339))
	printKeyValue("Duration", run.Duration().Round(time.Millisecond).String())
	printKeyValue("Images", run.ImageDir)
	printKeyValue("Seed", fmt.Sprint(run.Seed))
	printKeyValue("Operators", strings.Join(run.Operators, ", "))
	printKeyValue("Outputs", fmt.Sprintf("%d (%d cached) from %d images", run.Outputs, run.CacheHits, run.Images))
	if len(run.Failures) == 0 {
		printSuccess("No failures")
		return
	}
	printWarning("%d failures", len(run.Failures))
	for _, f := range run.Failures {
		printDetail("%s (%s): %s", f.Path, f.Operator, f.Error)
	}
}
