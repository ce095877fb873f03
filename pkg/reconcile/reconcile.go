package reconcile

import (
	"strings"

	"github.com/dzazaleo/layerforge/pkg/design"
)

// Reconcile decides what the persisted lifecycle state becomes given a
// freshly computed payload and the previously persisted one. current may be
// nil (first registration for the slot).
//
// The precedence rules are evaluated in order and the first match wins:
//
//  1. Idle without a generation id: the slot is being cleared, drop every
//     lifecycle field.
//  2. Generation disallowed: strip preview and provenance fields and remove
//     synthetic generative layers outright.
//  3. Mandatory generative fill: force success + confirmed, inheriting
//     cached fields from current when incoming lacks them.
//  4. Staleness guard: an incoming generation id older than the persisted
//     one discards the incoming payload entirely.
//  5. Idle with a generation id: clear preview and confirmation, keep the
//     rest.
//  6. Synthesizing: keep the current preview so the slot does not flicker
//     to empty while a new generation is in flight.
//  7. Default merge: inherit the preview/confirmation/generation bundle
//     from current when incoming carries no generation id, otherwise take
//     incoming's fields with per-field fallback.
//
// Neither input is mutated; callers may keep using them after the call.
func Reconcile(incoming, current *design.Payload) *design.Payload {
	if incoming == nil {
		return current.Clone()
	}
	if current == nil {
		current = &design.Payload{}
	}

	// Rule 4 returns current; every other rule returns a derivative of
	// incoming, so clone it once up front.
	out := incoming.Clone()

	switch {
	case incoming.Status == design.StatusIdle && incoming.GenerationID == 0:
		clearLifecycle(out)

	case !incoming.GenerationAllowed:
		clearPreview(out)
		out.SourceReference = ""
		out.PromptHash = ""
		out.Layers = dropSyntheticLayers(out.Layers)

	case incoming.Mandatory && incoming.RequiresGeneration:
		out.Status = design.StatusSuccess
		out.Confirmed = design.Bool(true)
		if out.PreviewURL == "" {
			out.PreviewURL = current.PreviewURL
		}
		if out.SourceReference == "" {
			out.SourceReference = current.SourceReference
		}
		if out.PromptHash == "" {
			out.PromptHash = current.PromptHash
		}
		if out.GenerationID == 0 {
			out.GenerationID = current.GenerationID
		}

	case incoming.GenerationID != 0 && current.GenerationID != 0 &&
		incoming.GenerationID < current.GenerationID:
		return current.Clone()

	case incoming.Status == design.StatusIdle:
		clearPreview(out)

	case incoming.Synthesizing:
		out.PreviewURL = current.PreviewURL
		out.Confirmed = copyConfirmed(current.Confirmed)
		out.GenerationID = current.GenerationID
		out.Synthesizing = true
		if out.SourceReference == "" {
			out.SourceReference = current.SourceReference
		}
		if out.PromptHash == "" {
			out.PromptHash = current.PromptHash
		}

	default:
		if out.GenerationID == 0 && current.GenerationID != 0 {
			// Geometry-only recomputation: the whole bundle survives.
			out.PreviewURL = current.PreviewURL
			out.Confirmed = copyConfirmed(current.Confirmed)
			out.GenerationID = current.GenerationID
			out.SourceReference = current.SourceReference
			out.PromptHash = current.PromptHash
		} else {
			// nil means no opinion; an explicit false stands on its own.
			if out.Confirmed == nil {
				out.Confirmed = copyConfirmed(current.Confirmed)
			}
			if out.SourceReference == "" {
				out.SourceReference = current.SourceReference
			}
			if out.PromptHash == "" {
				out.PromptHash = current.PromptHash
			}
			if out.GenerationID == 0 {
				out.GenerationID = current.GenerationID
			}
		}
		if out.Transient {
			out.Confirmed = design.Bool(false)
		}
	}

	return out
}

// NextGenerationID mints the id for a newly produced preview. Ids only ever
// move forward; the reconciler's staleness guard depends on that.
func NextGenerationID(current *design.Payload) int64 {
	if current == nil {
		return 1
	}
	return current.GenerationID + 1
}

func clearLifecycle(p *design.Payload) {
	p.PreviewURL = ""
	p.Confirmed = nil
	p.Transient = false
	p.Synthesizing = false
	p.GenerationID = 0
	p.SourceReference = ""
	p.PromptHash = ""
}

func clearPreview(p *design.Payload) {
	p.PreviewURL = ""
	p.Confirmed = nil
	p.Synthesizing = false
}

func copyConfirmed(v *bool) *bool {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

// dropSyntheticLayers removes generative layers carrying the synthetic id
// prefix at every depth. Generative layers the designer authored themselves
// keep their ids and survive.
func dropSyntheticLayers(layers []design.TransformedLayer) []design.TransformedLayer {
	out := layers[:0]
	for i := range layers {
		l := layers[i]
		if l.Kind == design.KindGenerative && strings.HasPrefix(l.ID, design.SyntheticIDPrefix) {
			continue
		}
		l.Children = dropSyntheticLayers(l.Children)
		out = append(out, l)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
