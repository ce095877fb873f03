package remap

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/dzazaleo/layerforge/pkg/design"
)

// Options configures a re-layout computation.
type Options struct {
	// Source is the source container rectangle. Zero value means "use the
	// document bounds".
	Source design.Rect

	// Target is the rectangle the tree is re-laid-out into. Required.
	Target design.Rect

	// Scale overrides the strategy's suggested scale when non-zero.
	Scale float64

	// Strategy is the analysis output. May be nil (identity strategy).
	Strategy *design.Strategy

	// Feedback carries reviewer overrides merged on top of the strategy.
	// May be nil.
	Feedback *design.Feedback

	// GenerationAllowed gates the generative replacement of
	// Strategy.ReplaceLayerID and is recorded on the payload for the
	// reconciler.
	GenerationAllowed bool

	// Logger receives solver diagnostics. Defaults to a discard logger.
	Logger *log.Logger
}

func (o *Options) setDefaults(doc *design.Document) {
	if o.Source.Empty() {
		o.Source = doc.Bounds
	}
	if o.Scale == 0 {
		o.Scale = o.Strategy.Scale()
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Transform computes a transformed payload for the document inside the
// target rectangle. It is a pure function of its inputs: rerunning with
// unchanged inputs yields bit-identical output.
//
// Lifecycle fields on the returned payload (preview, confirmation,
// generation id) are left at their zero values; the reconciler merges them
// against the persisted prior payload.
func Transform(doc *design.Document, opts Options) (*design.Payload, error) {
	opts.setDefaults(doc)

	if err := ValidateRects(opts.Source, opts.Target); err != nil {
		return nil, err
	}

	effective := ResolveOverrides(strategyOverrides(opts.Strategy), feedbackOverrides(opts.Feedback))
	idx := indexOverrides(effective)

	t := &transformer{
		source:    opts.Source,
		target:    opts.Target,
		scale:     opts.Scale,
		overrides: idx,
	}

	layers := make([]design.TransformedLayer, len(doc.Layers))
	for i := range doc.Layers {
		layers[i] = t.mapLayer(&doc.Layers[i])
	}

	requiresGeneration := opts.Strategy != nil && opts.Strategy.GenerativePrompt != ""
	if opts.Strategy != nil && opts.Strategy.ReplaceLayerID != "" && opts.GenerationAllowed {
		if replaceWithGenerative(layers, opts.Strategy.ReplaceLayerID, opts.Source, opts.Target) {
			requiresGeneration = true
		} else {
			opts.Logger.Warn("replace target not found in tree", "layer", opts.Strategy.ReplaceLayerID)
		}
	}

	anchors := solve(layers, solveInput{
		target:       opts.Target,
		scale:        opts.Scale,
		mode:         layoutMode(opts.Strategy),
		rules:        opts.Strategy.Rules(),
		overrides:    idx,
		feedbackIDs:  opts.Feedback.LayerIDs(),
		sourceBounds: sourceBoundsIndex(doc),
	})

	opts.Logger.Debug("transformed tree",
		"layers", doc.LayerCount(),
		"overrides", len(effective),
		"anchors", len(anchors))

	return &design.Payload{
		Status:             design.StatusSuccess,
		Layers:             layers,
		ScaleFactor:        opts.Scale,
		TargetBounds:       &opts.Target,
		Metrics:            design.Metrics{Source: opts.Source, Target: opts.Target},
		GenerationAllowed:  opts.GenerationAllowed,
		RequiresGeneration: requiresGeneration,
		Mandatory:          opts.Strategy.HasDirective(design.DirectiveMandatoryGenFill),
		Anchors:            anchors,
	}, nil
}

type transformer struct {
	source    design.Rect
	target    design.Rect
	scale     float64
	overrides map[string]design.Override
}

// mapLayer maps one layer and its subtree into target space. Every layer is
// mapped independently; an override replaces the mapped position with a
// target-origin-relative placement.
func (t *transformer) mapLayer(l *design.Layer) design.TransformedLayer {
	x, y := MapPosition(t.source, t.target, l.Bounds)

	scale := t.scale
	rotation := 0.0
	if ov, ok := t.overrides[l.ID]; ok {
		x = t.target.X + ov.XOffset
		y = t.target.Y + ov.YOffset
		if ov.IndividualScale != nil {
			scale *= *ov.IndividualScale
		}
		if ov.Rotation != nil {
			rotation = *ov.Rotation
		}
	}

	out := design.TransformedLayer{
		ID:      l.ID,
		Name:    l.Name,
		Kind:    l.Kind,
		Visible: l.Visible,
		Opacity: l.Opacity,
		Bounds: design.Rect{
			X: x,
			Y: y,
			W: l.Bounds.W * scale,
			H: l.Bounds.H * scale,
		},
		Transform: design.Transform{
			ScaleX:   scale,
			ScaleY:   scale,
			OffsetX:  x - l.Bounds.X,
			OffsetY:  y - l.Bounds.Y,
			Rotation: rotation,
		},
	}

	if len(l.Children) > 0 {
		out.Children = make([]design.TransformedLayer, len(l.Children))
		for i := range l.Children {
			out.Children[i] = t.mapLayer(&l.Children[i])
		}
	}
	return out
}

// replaceWithGenerative swaps the identified layer for a generative leaf
// covering the whole target rectangle. The subtree is discarded; generative
// layers have no children. Reports whether the layer was found.
func replaceWithGenerative(layers []design.TransformedLayer, id string, source, target design.Rect) bool {
	for i := range layers {
		l := &layers[i]
		if l.ID == id {
			src := l.Bounds
			l.Kind = design.KindGenerative
			l.Bounds = target
			l.Children = nil
			l.Transform = design.Transform{
				ScaleX:  safeRatio(target.W, src.W),
				ScaleY:  safeRatio(target.H, src.H),
				OffsetX: target.X - src.X,
				OffsetY: target.Y - src.Y,
			}
			return true
		}
		if replaceWithGenerative(l.Children, id, source, target) {
			return true
		}
	}
	return false
}

func safeRatio(a, b float64) float64 {
	if b == 0 {
		return 1
	}
	return a / b
}

func sourceBoundsIndex(doc *design.Document) map[string]design.Rect {
	idx := make(map[string]design.Rect, doc.LayerCount())
	for i := range doc.Layers {
		doc.Layers[i].Walk(func(l *design.Layer) bool {
			idx[l.ID] = l.Bounds
			return true
		})
	}
	return idx
}

func strategyOverrides(s *design.Strategy) []design.Override {
	if s == nil {
		return nil
	}
	return s.Overrides
}

func feedbackOverrides(f *design.Feedback) []design.Override {
	if f == nil {
		return nil
	}
	return f.Overrides
}

func layoutMode(s *design.Strategy) design.LayoutMode {
	if s == nil {
		return design.LayoutModeNone
	}
	return s.LayoutMode
}
