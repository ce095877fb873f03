package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dzazaleo/layerforge/pkg/pipeline"
	"github.com/dzazaleo/layerforge/pkg/source"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	target          string
	scale           float64
	strategy        string
	feedback        string
	output          string
	pixelsDir       string // directory of per-layer PNG buffers
	formats         []string
	background      string
	owner           string
	slot            string
	allowGeneration bool
	noCache         bool
	refresh         bool
}

// renderCommand creates the render command: run the full pipeline and write
// the composited raster (and optionally the payload JSON) to disk.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	opts := renderOpts{background: "white"}

	cmd := &cobra.Command{
		Use:   "render [design.json]",
		Short: "Composite a re-laid-out design into an image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.formats); err != nil {
				return err
			}
			return c.runRender(cmd, args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.target, "target", "t", "", "target rect: WxH or x,y,w,h (required)")
	cmd.Flags().Float64Var(&opts.scale, "scale", 0, "uniform size scale factor")
	cmd.Flags().StringVarP(&opts.strategy, "strategy", "s", "", "layout strategy JSON file")
	cmd.Flags().StringVar(&opts.feedback, "feedback", "", "feedback JSON file")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: input with format extension)")
	cmd.Flags().StringVarP(&opts.pixelsDir, "pixels", "p", "", "directory of per-layer PNG buffers")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): png (default), json (comma-separated)")
	cmd.Flags().StringVar(&opts.background, "background", opts.background, "background fill: white, black, or none")
	cmd.Flags().StringVar(&opts.owner, "owner", "", "owner id for the output slot")
	cmd.Flags().StringVar(&opts.slot, "slot", "", "output slot id")
	cmd.Flags().BoolVar(&opts.allowGeneration, "allow-generation", false, "permit generative fill for this slot")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute even when cached")
	_ = cmd.MarkFlagRequired("target")

	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, input string, opts *renderOpts) error {
	ctx := cmd.Context()

	doc, strategy, feedback, err := loadInputs(input, opts.strategy, opts.feedback)
	if err != nil {
		return err
	}
	target, err := parseRect(opts.target)
	if err != nil {
		return err
	}

	pipelineOpts := pipeline.Options{
		Document:          doc,
		Target:            target,
		Scale:             opts.scale,
		Strategy:          strategy,
		Feedback:          feedback,
		OwnerID:           opts.owner,
		SlotID:            opts.slot,
		GenerationAllowed: opts.allowGeneration,
		Formats:           opts.formats,
		Background:        opts.background,
		Refresh:           opts.refresh,
		Logger:            c.Logger,
	}
	if opts.pixelsDir != "" {
		pipelineOpts.Pixels = source.NewDirSource(opts.pixelsDir)
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close(ctx)

	spin := newSpinnerWithContext(ctx, fmt.Sprintf("Compositing %s", doc.Name))
	spin.Start()

	result, err := runner.Execute(ctx, pipelineOpts)
	if err != nil {
		spin.StopWithError("Render failed")
		return err
	}
	spin.Stop()

	printSuccess("Composited %d layers into %s", result.Stats.LayerCount, target)
	printStats(result.Stats.LayerCount, len(result.Diagnostics), result.CacheInfo.CompositeHit)
	for _, d := range result.Diagnostics {
		printWarning("%s", d)
	}

	for _, format := range opts.formats {
		path := outputPath(opts.output, input, format)
		if len(opts.formats) > 1 {
			path = outputPath("", input, format)
		}
		if err := os.WriteFile(path, result.Artifacts[format], 0644); err != nil {
			return err
		}
		printFile(path)
	}
	return nil
}
