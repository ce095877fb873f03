package remap

import (
	"sort"

	"github.com/dzazaleo/layerforge/pkg/design"
)

// collisionPadding is the minimum horizontal gap, in pixels, enforced
// between colliding layers by the overlap sweep.
const collisionPadding = 10.0

// solveInput carries everything the physics passes need beyond the layers
// themselves. sourceBounds indexes the original (pre-transform) bounds by
// layer id; overlay anchoring uses it to recover source offsets.
type solveInput struct {
	target       design.Rect
	scale        float64
	mode         design.LayoutMode
	rules        design.PhysicsRules
	overrides    map[string]design.Override
	feedbackIDs  map[string]bool
	sourceBounds map[string]design.Rect
}

// solve applies the role-based physics rules to the root-level layers, in
// this fixed order: grid distribution, collision resolution, overlay
// anchoring, boundary clamping. Only root positions are solved; each root's
// resulting translation delta is inherited by its subtree afterwards.
//
// Returns the resolved overlay→anchor links for diagnostics.
func solve(layers []design.TransformedLayer, in solveInput) map[string]string {
	pre := make([]design.Rect, len(layers))
	for i := range layers {
		pre[i] = layers[i].Bounds
	}

	distribute(layers, in)
	resolveCollisions(layers, in)
	anchors := followAnchors(layers, in)
	clampToTarget(layers, in)

	// Children inherit the parent delta; the per-layer transform records
	// stay consistent with the final positions.
	for i := range layers {
		dx := layers[i].Bounds.X - pre[i].X
		dy := layers[i].Bounds.Y - pre[i].Y
		if dx == 0 && dy == 0 {
			continue
		}
		layers[i].Bounds = pre[i]
		layers[i].Translate(dx, dy)
	}

	return anchors
}

// role returns the effective layout role for a layer id.
func (in *solveInput) role(id string) design.Role {
	return in.overrides[id].LayoutRole
}

// distribute partitions the target into N equal slots, one per flow-role
// layer, and centers each candidate in its slot in original order. Layers
// outside the flow role set are unaffected.
func distribute(layers []design.TransformedLayer, in solveInput) {
	if in.mode != design.LayoutModeDistributeHorizontal && in.mode != design.LayoutModeDistributeVertical {
		return
	}

	var candidates []*design.TransformedLayer
	for i := range layers {
		if in.role(layers[i].ID) == design.RoleFlow {
			candidates = append(candidates, &layers[i])
		}
	}
	if len(candidates) == 0 {
		return
	}

	n := float64(len(candidates))
	for i, l := range candidates {
		if in.mode == design.LayoutModeDistributeHorizontal {
			slot := in.target.W / n
			center := in.target.X + (float64(i)+0.5)*slot
			l.Bounds.X = center - l.Bounds.W/2
		} else {
			slot := in.target.H / n
			center := in.target.Y + (float64(i)+0.5)*slot
			l.Bounds.Y = center - l.Bounds.H/2
		}
	}
}

// resolveCollisions runs a single left-to-right sweep over layers with the
// flow role or no role, sorted ascending by x. A candidate overlapping its
// left neighbor (within padding) is pushed right to exactly the neighbor's
// right edge plus padding. Vertical collisions are not resolved, and the
// sweep does not iterate to settle knock-on effects beyond the single pass.
func resolveCollisions(layers []design.TransformedLayer, in solveInput) {
	if !in.rules.PreventOverlap {
		return
	}

	var candidates []*design.TransformedLayer
	for i := range layers {
		switch in.role(layers[i].ID) {
		case design.RoleFlow, design.RoleNone:
			candidates = append(candidates, &layers[i])
		}
	}
	if len(candidates) < 2 {
		return
	}

	sort.SliceStable(candidates, func(a, b int) bool {
		return candidates[a].Bounds.X < candidates[b].Bounds.X
	})

	for i := 1; i < len(candidates); i++ {
		prev := candidates[i-1]
		minX := prev.Bounds.X + prev.Bounds.W + collisionPadding
		if candidates[i].Bounds.X < minX {
			candidates[i].Bounds.X = minX
		}
	}
}

// followAnchors repositions every overlay-role layer relative to its linked
// anchor: the source offset between overlay and anchor, scaled by the global
// scale factor, is added to the anchor's already-solved position. Overlays
// therefore track their anchor through arbitrary target-relative
// repositioning.
//
// A missing overlay or anchor (ids diverged from the source tree, or the
// anchor is not in the computed set) leaves the overlay's position as mapped,
// with no error raised.
func followAnchors(layers []design.TransformedLayer, in solveInput) map[string]string {
	byID := make(map[string]*design.TransformedLayer, len(layers))
	for i := range layers {
		byID[layers[i].ID] = &layers[i]
	}

	anchors := make(map[string]string)
	for i := range layers {
		l := &layers[i]
		ov, ok := in.overrides[l.ID]
		if !ok || ov.LayoutRole != design.RoleOverlay || ov.LinkedAnchorID == "" {
			continue
		}

		anchor, ok := byID[ov.LinkedAnchorID]
		if !ok {
			continue
		}
		overlaySrc, okO := in.sourceBounds[l.ID]
		anchorSrc, okA := in.sourceBounds[ov.LinkedAnchorID]
		if !okO || !okA {
			continue
		}

		l.Bounds.X = anchor.Bounds.X + (overlaySrc.X-anchorSrc.X)*in.scale
		l.Bounds.Y = anchor.Bounds.Y + (overlaySrc.Y-anchorSrc.Y)*in.scale
		anchors[l.ID] = ov.LinkedAnchorID
	}

	if len(anchors) == 0 {
		return nil
	}
	return anchors
}

// clampToTarget clamps layer positions into the target rectangle. Layers
// individually present in the feedback overrides are exempt: manual edits
// take precedence over automatic clipping avoidance. A layer wider or taller
// than the target has an inverted clamp range (min > max); it is pinned to
// the target origin on that axis.
func clampToTarget(layers []design.TransformedLayer, in solveInput) {
	if !in.rules.PreventClipping {
		return
	}

	for i := range layers {
		l := &layers[i]
		if in.feedbackIDs[l.ID] {
			continue
		}
		l.Bounds.X = clampAxis(l.Bounds.X, in.target.X, in.target.X+in.target.W-l.Bounds.W)
		l.Bounds.Y = clampAxis(l.Bounds.Y, in.target.Y, in.target.Y+in.target.H-l.Bounds.H)
	}
}

// clampAxis clamps v into [lo, hi]. When the range is inverted (the layer is
// larger than the target on this axis), the layer is pinned to lo.
func clampAxis(v, lo, hi float64) float64 {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
