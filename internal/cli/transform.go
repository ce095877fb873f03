package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dzazaleo/layerforge/pkg/pipeline"
)

// transformOpts holds the command-line flags for the transform command.
type transformOpts struct {
	target          string // target rect: "WxH" or "x,y,w,h"
	source          string // source rect override (defaults to document bounds)
	scale           float64
	strategy        string // strategy JSON file
	feedback        string // feedback JSON file
	output          string // output payload path
	owner           string
	slot            string
	allowGeneration bool
	noCache         bool
	refresh         bool
}

// transformCommand creates the transform command: map a design document into
// a target rectangle and write the resulting payload as JSON.
func (c *CLI) transformCommand() *cobra.Command {
	var opts transformOpts

	cmd := &cobra.Command{
		Use:   "transform [design.json]",
		Short: "Re-lay out a design document for a target rectangle",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runTransform(cmd, args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.target, "target", "t", "", "target rect: WxH or x,y,w,h (required)")
	cmd.Flags().StringVar(&opts.source, "source", "", "source rect override: WxH or x,y,w,h")
	cmd.Flags().Float64Var(&opts.scale, "scale", 0, "uniform size scale factor")
	cmd.Flags().StringVarP(&opts.strategy, "strategy", "s", "", "layout strategy JSON file")
	cmd.Flags().StringVar(&opts.feedback, "feedback", "", "feedback JSON file")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output payload path (default: input with .payload.json)")
	cmd.Flags().StringVar(&opts.owner, "owner", "", "owner id for the output slot")
	cmd.Flags().StringVar(&opts.slot, "slot", "", "output slot id")
	cmd.Flags().BoolVar(&opts.allowGeneration, "allow-generation", false, "permit generative fill for this slot")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute even when cached")
	_ = cmd.MarkFlagRequired("target")

	return cmd
}

func (c *CLI) runTransform(cmd *cobra.Command, input string, opts *transformOpts) error {
	ctx := cmd.Context()

	doc, strategy, feedback, err := loadInputs(input, opts.strategy, opts.feedback)
	if err != nil {
		return err
	}
	target, err := parseRect(opts.target)
	if err != nil {
		return err
	}
	src, err := parseRect(opts.source)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close(ctx)

	spin := newSpinnerWithContext(ctx, fmt.Sprintf("Transforming %s", doc.Name))
	spin.Start()

	result, err := runner.Execute(ctx, pipeline.Options{
		Document:          doc,
		Target:            target,
		Source:            src,
		Scale:             opts.scale,
		Strategy:          strategy,
		Feedback:          feedback,
		OwnerID:           opts.owner,
		SlotID:            opts.slot,
		GenerationAllowed: opts.allowGeneration,
		Formats:           []string{pipeline.FormatJSON},
		Refresh:           opts.refresh,
		Logger:            c.Logger,
	})
	if err != nil {
		spin.StopWithError("Transform failed")
		return err
	}
	spin.Stop()

	out := outputPath(opts.output, input, "payload.json")
	if err := os.WriteFile(out, result.Artifacts[pipeline.FormatJSON], 0644); err != nil {
		return err
	}

	printSuccess("Transformed %d layers into %s", result.Stats.LayerCount, target)
	printStats(result.Stats.LayerCount, len(result.Diagnostics), result.CacheInfo.TransformHit)
	for _, d := range result.Diagnostics {
		printWarning("%s", d)
	}
	printFile(out)
	printNextStep("Render the composite", fmt.Sprintf("layerforge render %s --target %s", input, opts.target))
	return nil
}
