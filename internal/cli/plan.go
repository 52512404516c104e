package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/dressup/pkg/pipeline"
	"github.com/matzehuels/dressup/pkg/render/sink"
)

// planCommand creates the plan command, which prints the render plan as JSON.
func (c *CLI) planCommand() *cobra.Command {
	var (
		sel    selectionFlags
		po     plannerOpts
		output string
	)

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Compute the layer plan for an outfit",
		Long: `Compute where each selected garment is drawn and print the result as JSON:
the outfit code, every layer with its position, scale and z-order, and the
garments that were omitted together with the reason.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, planner, err := c.runPlan(cmd.Context(), &sel, po, output != "")
			if err != nil {
				return err
			}
			defer planner.Session().Close()

			data, err := json.MarshalIndent(res, "", "  ")
			if err != nil {
				return err
			}
			data = append(data, '\n')
			if output == "" {
				_, err = c.Out.Write(data)
				return err
			}
			if err := writeFile(output, data); err != nil {
				return err
			}
			printFile(output)
			return nil
		},
	}

	sel.register(cmd, c.completeItems)
	po.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the plan to a file instead of stdout")
	return cmd
}

// renderOpts holds the flags of the render command.
type renderOpts struct {
	output     string
	format     string
	background string
}

// renderCommand creates the render command, which composites an outfit.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		sel  selectionFlags
		po   plannerOpts
		opts = renderOpts{output: "outfit.png", format: pipeline.FormatPNG}
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Composite an outfit to an image",
		Example: `  dressup render --hair long --dress sundress -o sundress.png
  dressup render --code 593 --background "#fff8f0" --width 300 --height 400`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := pipeline.ValidateFormat(opts.format); err != nil {
				return err
			}
			var sinkOpts []sink.Option
			if opts.background != "" {
				bg, err := sink.ParseColor(opts.background)
				if err != nil {
					return err
				}
				sinkOpts = append(sinkOpts, sink.WithBackground(bg))
			}

			ctx := cmd.Context()
			res, planner, err := c.runPlan(ctx, &sel, po, true)
			if err != nil {
				return err
			}
			defer planner.Session().Close()

			prog := newProgress(loggerFromContext(ctx))
			data, err := planner.Session().Render(ctx, res, opts.format, sinkOpts...)
			if err != nil {
				return err
			}
			prog.done("rendered outfit", "format", opts.format, "bytes", len(data))

			if err := writeFile(opts.output, data); err != nil {
				return err
			}
			printSuccess("Rendered outfit %s", StyleNumber.Render(fmt.Sprint(uint32(res.Code))))
			printFile(opts.output)
			printNextStep("Same outfit", fmt.Sprintf("%s render --code %d", appName, uint32(res.Code)))
			return nil
		},
	}

	sel.register(cmd, c.completeItems)
	po.register(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", opts.output, "output file")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: png (default), json")
	cmd.Flags().StringVar(&opts.background, "background", "", "background color as #rrggbb or #rrggbbaa (default transparent)")
	return cmd
}

// runPlan builds a planner and plans the flag selection. When status is
// true progress is reported on the terminal.
func (c *CLI) runPlan(ctx context.Context, sel *selectionFlags, po plannerOpts, status bool) (*pipeline.Result, *pipeline.Planner, error) {
	planner, err := c.newPlanner(ctx, po)
	if err != nil {
		return nil, nil, err
	}
	s, err := sel.selection(planner.Session().Catalog)
	if err != nil {
		planner.Session().Close()
		return nil, nil, err
	}

	var spinner *Spinner
	if status {
		spinner = newSpinnerWithContext(ctx, "Loading assets...")
		spinner.Start()
	}
	res, err := planner.Plan(ctx, s)
	if spinner != nil {
		if err != nil && !spinner.Cancelled() {
			spinner.StopWithError("Planning failed")
		} else {
			spinner.Stop()
		}
	}
	if err != nil {
		planner.Session().Close()
		return nil, nil, err
	}

	sess := planner.Session()
	loggerFromContext(ctx).Debug("planned outfit", "generation", res.Generation, "code", uint32(res.Code), "stats", res.Stats.String())
	if status {
		printPlanStats(len(res.Plan.Layers), len(res.Plan.Omitted), res.Stats, sess.Scans() == 0)
		printOmissions(res.Plan)
	}
	return res, planner, nil
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}
