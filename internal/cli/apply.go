package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/imgaug/pkg/augment"
	"github.com/matzehuels/imgaug/pkg/dataset"
	"github.com/matzehuels/imgaug/pkg/errors"
	"github.com/matzehuels/imgaug/pkg/pipeline"
)

// applyOpts holds the flags of the apply command.
type applyOpts struct {
	seed    uint64
	params  string
	edge    string
	backend string
	noCache bool
	refresh bool
}

// operatorParams merges the JSON --params object with the dedicated flags.
func (o *applyOpts) operatorParams() (augment.Params, error) {
	var p augment.Params
	if o.params != "" {
		dec := json.NewDecoder(strings.NewReader(o.params))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&p); err != nil {
			return p, errors.Wrap(errors.ErrCodeInvalidParams, err, "parse --params")
		}
	}
	if o.edge != "" {
		p.Edge = o.edge
	}
	if o.backend != "" {
		p.Backend = o.backend
	}
	return p, nil
}

// applyCommand creates the apply command for augmenting a single image.
func (c *CLI) applyCommand() *cobra.Command {
	opts := applyOpts{seed: pipeline.DefaultSeed}

	cmd := &cobra.Command{
		Use:   "apply <operator> <input> <output>",
		Short: "Apply one augmentation to a single image",
		Long: `Apply one augmentation to a single image.

The output format follows the output file's extension. Operator parameters
are given as a JSON object, for example:

  imgaug apply rotate in.png out.png --params '{"max_theta": 30}'
  imgaug apply bandpass in.jpg out.jpg --params '{"low_cutoff": [2, 8]}' --seed 7

Run 'imgaug ops' to list the operators.`,
		Args: cobra.ExactArgs(3),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) == 0 {
				return augment.Names(), cobra.ShellCompDirectiveNoFileComp
			}
			return nil, cobra.ShellCompDirectiveDefault
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runApply(cmd.Context(), args[0], args[1], args[2], opts)
		},
	}

	cmd.Flags().Uint64Var(&opts.seed, "seed", opts.seed, "random seed")
	cmd.Flags().StringVarP(&opts.params, "params", "p", "", "operator parameters as a JSON object")
	cmd.Flags().StringVar(&opts.edge, "edge", "", "bounds policy of geometric operators: strict (default), inclusive")
	cmd.Flags().StringVar(&opts.backend, "backend", "", "FFT backend: gonum (default), godsp")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute a cached result")

	return cmd
}

func (c *CLI) runApply(ctx context.Context, name, input, output string, opts applyOpts) error {
	params, err := opts.operatorParams()
	if err != nil {
		return err
	}
	op, err := augment.New(name, params)
	if err != nil {
		return err
	}
	format, err := dataset.ParseFormat(filepath.Ext(output))
	if err != nil {
		return err
	}
	data, err := dataset.Read(input)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, nil, opts.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Applying %s...", op.Describe()))
	spinner.Start()

	out, cached, err := runner.ApplyBytes(ctx, data, op, opts.seed, format, opts.refresh)
	if err == nil {
		err = dataset.WriteFile(output, out)
	}
	if err != nil {
		if spinner.Cancelled() {
			spinner.Stop()
			return ctx.Err()
		}
		spinner.StopWithError("Augmentation failed")
		return err
	}

	status := iconFresh
	if cached {
		status = iconCached
	}
	spinner.StopWithSuccess(fmt.Sprintf("Applied %s (%s)", StyleHighlight.Render(op.Describe()), status))
	printFile(output)
	return nil
}
