package remap

import "github.com/dzazaleo/layerforge/pkg/design"

// ResolveOverrides merges a strategy's base overrides with reviewer feedback
// into one effective override list. The merge is pure and deterministic.
//
// Rules:
//   - A base override whose layer id also appears in feedback keeps the
//     base's layout role, linked anchor, cited rule, and anchor index, but
//     takes the feedback's offsets and (when present) individual scale and
//     rotation. Manual geometry edits never silently alter semantic roles.
//   - A feedback override for a layer id absent from the base list is
//     appended verbatim as a new override.
//   - Empty feedback returns the base list unchanged.
//
// No entry is dropped or duplicated: base order is preserved, feedback-only
// entries follow in feedback order, and repeated ids within feedback collapse
// to the last occurrence.
func ResolveOverrides(base, feedback []design.Override) []design.Override {
	if len(feedback) == 0 {
		return base
	}

	fb := make(map[string]design.Override, len(feedback))
	for _, o := range feedback {
		fb[o.LayerID] = o
	}

	out := make([]design.Override, 0, len(base)+len(feedback))
	inBase := make(map[string]bool, len(base))

	for _, b := range base {
		inBase[b.LayerID] = true
		if f, ok := fb[b.LayerID]; ok {
			b.XOffset = f.XOffset
			b.YOffset = f.YOffset
			if f.IndividualScale != nil {
				b.IndividualScale = f.IndividualScale
			}
			if f.Rotation != nil {
				b.Rotation = f.Rotation
			}
		}
		out = append(out, b)
	}

	appended := make(map[string]bool)
	for _, f := range feedback {
		if inBase[f.LayerID] || appended[f.LayerID] {
			continue
		}
		appended[f.LayerID] = true
		out = append(out, fb[f.LayerID])
	}

	return out
}

// indexOverrides builds a lookup by layer id. The first occurrence wins,
// matching the order guarantee of [ResolveOverrides].
func indexOverrides(overrides []design.Override) map[string]design.Override {
	idx := make(map[string]design.Override, len(overrides))
	for _, o := range overrides {
		if _, ok := idx[o.LayerID]; !ok {
			idx[o.LayerID] = o
		}
	}
	return idx
}
