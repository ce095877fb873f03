package cli

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/dzazaleo/layerforge/pkg/design"
	"github.com/dzazaleo/layerforge/pkg/inspect"
)

// inspectOpts holds the command-line flags for the inspect command.
type inspectOpts struct {
	strategy string
	output   string
	format   string // dot, svg, or png
	detailed bool
	browse   bool
}

// inspectCommand creates the inspect command: render the layer tree as a
// diagram, or browse it interactively with --browse.
func (c *CLI) inspectCommand() *cobra.Command {
	var opts inspectOpts

	cmd := &cobra.Command{
		Use:   "inspect [design.json]",
		Short: "Visualize a design's layer tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInspect(args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.strategy, "strategy", "s", "", "layout strategy JSON file (annotates roles and anchors)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: input with format extension)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "svg", "output format: svg (default), png, dot")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "include bounds and opacity in labels")
	cmd.Flags().BoolVar(&opts.browse, "browse", false, "browse the layer tree interactively")

	return cmd
}

func (c *CLI) runInspect(input string, opts *inspectOpts) error {
	doc, strategy, _, err := loadInputs(input, opts.strategy, "")
	if err != nil {
		return err
	}

	var overrides []design.Override
	if strategy != nil {
		overrides = strategy.Overrides
	}

	if opts.browse {
		return browseLayers(doc, overrides)
	}

	dot := inspect.ToDOT(doc, inspect.Options{
		Detailed:  opts.detailed,
		Overrides: overrides,
	})

	var data []byte
	switch opts.format {
	case "dot":
		data = []byte(dot)
	case "svg":
		data, err = inspect.RenderSVG(dot)
	case "png":
		data, err = inspect.RenderPNG(dot)
	default:
		return fmt.Errorf("unknown format: %s (must be 'svg', 'png', or 'dot')", opts.format)
	}
	if err != nil {
		return err
	}

	path := outputPath(opts.output, input, opts.format)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return err
	}
	printSuccess("Inspected %d layers", doc.LayerCount())
	printFile(path)
	return nil
}

// browseLayers runs the interactive layer browser.
func browseLayers(doc *design.Document, overrides []design.Override) error {
	model := NewLayerListModel(doc, overrides)
	_, err := tea.NewProgram(model).Run()
	return err
}
