package inspect

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/dzazaleo/layerforge/pkg/design"
)

// Options configures layer-tree diagram rendering.
type Options struct {
	// Detailed includes bounds and opacity in node labels.
	// When false, only the layer ID is shown.
	Detailed bool

	// Overrides annotates layers with their roles and draws anchor edges.
	Overrides []design.Override
}

// ToDOT converts a document's layer tree to Graphviz DOT format. The
// resulting DOT string can be rendered with [RenderSVG] or [RenderPNG].
//
// Containment is drawn as solid edges, overlay→anchor links as dashed ones.
// Generative layers are rendered with dashed outlines and grey fill.
func ToDOT(d *design.Document, opts Options) string {
	byLayer := make(map[string]design.Override, len(opts.Overrides))
	for _, ov := range opts.Overrides {
		if _, ok := byLayer[ov.LayerID]; !ok {
			byLayer[ov.LayerID] = ov
		}
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=24, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	var anchors [][2]string
	for i := range d.Layers {
		d.Layers[i].Walk(func(l *design.Layer) bool {
			ov, hasOv := byLayer[l.ID]
			label := fmtLabel(l, ov, hasOv, opts.Detailed)
			attrs := fmtAttrs(l, label)
			fmt.Fprintf(&buf, "  %q [%s];\n", l.ID, strings.Join(attrs, ", "))

			if hasOv && ov.LayoutRole == design.RoleOverlay && ov.LinkedAnchorID != "" {
				anchors = append(anchors, [2]string{l.ID, ov.LinkedAnchorID})
			}
			return true
		})
	}

	buf.WriteString("\n")
	for i := range d.Layers {
		d.Layers[i].Walk(func(l *design.Layer) bool {
			for j := range l.Children {
				fmt.Fprintf(&buf, "  %q -> %q;\n", l.ID, l.Children[j].ID)
			}
			return true
		})
	}
	for _, a := range anchors {
		fmt.Fprintf(&buf, "  %q -> %q [style=dashed, color=grey, constraint=false];\n", a[0], a[1])
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(l *design.Layer, ov design.Override, hasOv, detailed bool) string {
	if !detailed {
		return l.ID
	}

	parts := []string{fmt.Sprintf("bounds: %s", l.Bounds), fmt.Sprintf("opacity: %.2f", l.Opacity)}
	if hasOv && ov.LayoutRole != design.RoleNone {
		parts = append(parts, fmt.Sprintf("role: %s", ov.LayoutRole))
	}
	return l.ID + "\n" + strings.Join(parts, "\n")
}

func fmtAttrs(l *design.Layer, label string) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	switch l.Kind {
	case design.KindGenerative:
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey", "fontcolor=black")
	case design.KindGroup:
		attrs = append(attrs, "fillcolor=lightyellow")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	return render(dot, graphviz.SVG)
}

// RenderPNG renders a DOT graph to PNG using Graphviz.
func RenderPNG(dot string) ([]byte, error) {
	return render(dot, graphviz.PNG)
}

func render(dot string, format graphviz.Format) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
