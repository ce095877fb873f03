package remap

import (
	"testing"

	"github.com/dzazaleo/layerforge/pkg/design"
)

func layerAt(id string, x, y, w, h float64) design.TransformedLayer {
	return design.TransformedLayer{
		ID: id, Kind: design.KindPixel, Visible: true, Opacity: 1,
		Bounds: design.Rect{X: x, Y: y, W: w, H: h},
	}
}

func TestDistributeHorizontal(t *testing.T) {
	target := design.Rect{X: 0, Y: 0, W: 600, H: 400}
	layers := []design.TransformedLayer{
		layerAt("a", 0, 0, 100, 50),
		layerAt("static", 5, 5, 10, 10),
		layerAt("b", 0, 100, 100, 50),
		layerAt("c", 0, 200, 100, 50),
	}
	in := solveInput{
		target: target,
		scale:  1,
		mode:   design.LayoutModeDistributeHorizontal,
		overrides: map[string]design.Override{
			"a": {LayerID: "a", LayoutRole: design.RoleFlow},
			"b": {LayerID: "b", LayoutRole: design.RoleFlow},
			"c": {LayerID: "c", LayoutRole: design.RoleFlow},
		},
	}

	solve(layers, in)

	// Three 200-wide slots; each 100-wide candidate centered in its slot.
	wantX := []float64{50, 250, 450}
	got := []float64{layers[0].Bounds.X, layers[2].Bounds.X, layers[3].Bounds.X}
	for i := range wantX {
		if got[i] != wantX[i] {
			t.Errorf("candidate %d x = %g, want %g", i, got[i], wantX[i])
		}
	}
	if layers[1].Bounds.X != 5 {
		t.Errorf("non-flow layer moved: x = %g", layers[1].Bounds.X)
	}
	// Y untouched by horizontal distribution.
	if layers[2].Bounds.Y != 100 {
		t.Errorf("candidate y changed: %g", layers[2].Bounds.Y)
	}
}

func TestDistributeVertical(t *testing.T) {
	target := design.Rect{X: 0, Y: 0, W: 400, H: 900}
	layers := []design.TransformedLayer{
		layerAt("a", 10, 0, 50, 100),
		layerAt("b", 10, 0, 50, 100),
		layerAt("c", 10, 0, 50, 100),
	}
	in := solveInput{
		target: target,
		scale:  1,
		mode:   design.LayoutModeDistributeVertical,
		overrides: map[string]design.Override{
			"a": {LayoutRole: design.RoleFlow},
			"b": {LayoutRole: design.RoleFlow},
			"c": {LayoutRole: design.RoleFlow},
		},
	}

	solve(layers, in)

	wantY := []float64{100, 400, 700}
	for i := range layers {
		if layers[i].Bounds.Y != wantY[i] {
			t.Errorf("candidate %d y = %g, want %g", i, layers[i].Bounds.Y, wantY[i])
		}
	}
}

func TestCollisionSweep(t *testing.T) {
	layers := []design.TransformedLayer{
		layerAt("left", 0, 0, 100, 50),
		layerAt("right", 50, 0, 80, 50), // overlaps left
	}
	in := solveInput{
		target: design.Rect{X: 0, Y: 0, W: 1000, H: 1000},
		scale:  1,
		rules:  design.PhysicsRules{PreventOverlap: true},
		overrides: map[string]design.Override{
			"left":  {LayoutRole: design.RoleFlow},
			"right": {LayoutRole: design.RoleFlow},
		},
	}

	solve(layers, in)

	if got, want := layers[1].Bounds.X, layers[0].Bounds.X+layers[0].Bounds.W+collisionPadding; got != want {
		t.Errorf("right.x = %g, want exactly %g", got, want)
	}
}

func TestCollisionSweepSkipsRoledLayers(t *testing.T) {
	layers := []design.TransformedLayer{
		layerAt("a", 0, 0, 100, 50),
		layerAt("bg", 50, 0, 500, 500),
		layerAt("b", 60, 0, 100, 50),
	}
	in := solveInput{
		target: design.Rect{X: 0, Y: 0, W: 1000, H: 1000},
		scale:  1,
		rules:  design.PhysicsRules{PreventOverlap: true},
		overrides: map[string]design.Override{
			"bg": {LayoutRole: design.RoleBackground},
		},
	}

	solve(layers, in)

	if layers[1].Bounds.X != 50 {
		t.Errorf("background layer moved: x = %g", layers[1].Bounds.X)
	}
	// a and b (no role) still sweep against each other.
	if got, want := layers[2].Bounds.X, 110.0; got != want {
		t.Errorf("b.x = %g, want %g", got, want)
	}
}

func TestCollisionSweepSinglePass(t *testing.T) {
	// The sweep orders by original x and resolves in one pass: each layer is
	// placed relative to its (already-pushed) left neighbor.
	layers := []design.TransformedLayer{
		layerAt("a", 0, 0, 100, 10),
		layerAt("b", 10, 0, 100, 10),
		layerAt("c", 20, 0, 100, 10),
	}
	in := solveInput{
		target: design.Rect{X: 0, Y: 0, W: 10000, H: 100},
		scale:  1,
		rules:  design.PhysicsRules{PreventOverlap: true},
	}

	solve(layers, in)

	if layers[1].Bounds.X != 110 {
		t.Errorf("b.x = %g, want 110", layers[1].Bounds.X)
	}
	if layers[2].Bounds.X != 220 {
		t.Errorf("c.x = %g, want 220", layers[2].Bounds.X)
	}
}

func TestOverlayAnchoring(t *testing.T) {
	// Source: badge sits 20 right and 10 above its card anchor.
	layers := []design.TransformedLayer{
		layerAt("card", 300, 400, 200, 100),
		layerAt("badge", 0, 0, 30, 30),
	}
	in := solveInput{
		target: design.Rect{X: 0, Y: 0, W: 1000, H: 1000},
		scale:  2,
		overrides: map[string]design.Override{
			"badge": {LayoutRole: design.RoleOverlay, LinkedAnchorID: "card"},
		},
		sourceBounds: map[string]design.Rect{
			"card":  {X: 100, Y: 100, W: 100, H: 50},
			"badge": {X: 120, Y: 90, W: 15, H: 15},
		},
	}

	anchors := solve(layers, in)

	// Anchor's new position plus source offset (20, -10) scaled by 2.
	if layers[1].Bounds.X != 340 || layers[1].Bounds.Y != 380 {
		t.Errorf("badge at (%g, %g), want (340, 380)", layers[1].Bounds.X, layers[1].Bounds.Y)
	}
	if anchors["badge"] != "card" {
		t.Errorf("anchors = %v, want badge→card", anchors)
	}
}

func TestOverlayAnchorMissing(t *testing.T) {
	layers := []design.TransformedLayer{
		layerAt("badge", 77, 88, 30, 30),
	}
	in := solveInput{
		target: design.Rect{X: 0, Y: 0, W: 1000, H: 1000},
		scale:  1,
		overrides: map[string]design.Override{
			"badge": {LayoutRole: design.RoleOverlay, LinkedAnchorID: "gone"},
		},
		sourceBounds: map[string]design.Rect{"badge": {X: 1, Y: 1, W: 1, H: 1}},
	}

	anchors := solve(layers, in)

	// Missing anchor: position untouched, no error, no anchor recorded.
	if layers[0].Bounds.X != 77 || layers[0].Bounds.Y != 88 {
		t.Errorf("badge moved to (%g, %g)", layers[0].Bounds.X, layers[0].Bounds.Y)
	}
	if len(anchors) != 0 {
		t.Errorf("anchors = %v, want empty", anchors)
	}
}

func TestClampBoundary(t *testing.T) {
	target := design.Rect{X: 100, Y: 100, W: 500, H: 500}
	tests := []struct {
		name         string
		layer        design.TransformedLayer
		wantX, wantY float64
	}{
		{
			name:  "inside untouched",
			layer: layerAt("a", 200, 200, 50, 50),
			wantX: 200, wantY: 200,
		},
		{
			name:  "pushed back from right",
			layer: layerAt("a", 590, 200, 50, 50),
			wantX: 550, wantY: 200,
		},
		{
			name:  "pushed back from above",
			layer: layerAt("a", 200, 50, 50, 50),
			wantX: 200, wantY: 100,
		},
		{
			name:  "width equals target width lands on origin",
			layer: layerAt("a", 350, 200, 500, 50),
			wantX: 100, wantY: 200,
		},
		{
			name:  "wider than target pins to origin",
			layer: layerAt("a", 350, 200, 800, 50),
			wantX: 100, wantY: 200,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			layers := []design.TransformedLayer{tt.layer}
			solve(layers, solveInput{
				target: target,
				scale:  1,
				rules:  design.PhysicsRules{PreventClipping: true},
			})
			if layers[0].Bounds.X != tt.wantX || layers[0].Bounds.Y != tt.wantY {
				t.Errorf("clamped to (%g, %g), want (%g, %g)",
					layers[0].Bounds.X, layers[0].Bounds.Y, tt.wantX, tt.wantY)
			}
		})
	}
}

func TestClampExemptsFeedbackLayers(t *testing.T) {
	layers := []design.TransformedLayer{
		layerAt("manual", -500, -500, 50, 50),
	}
	solve(layers, solveInput{
		target:      design.Rect{X: 0, Y: 0, W: 100, H: 100},
		scale:       1,
		rules:       design.PhysicsRules{PreventClipping: true},
		feedbackIDs: map[string]bool{"manual": true},
	})

	if layers[0].Bounds.X != -500 {
		t.Error("feedback-edited layer must not be clamped")
	}
}

func TestSolveDeltaInheritedByChildren(t *testing.T) {
	group := layerAt("g", 590, 0, 50, 50)
	group.Kind = design.KindGroup
	group.Children = []design.TransformedLayer{
		layerAt("g/child", 600, 10, 20, 20),
	}
	layers := []design.TransformedLayer{group}

	solve(layers, solveInput{
		target: design.Rect{X: 0, Y: 0, W: 500, H: 500},
		scale:  1,
		rules:  design.PhysicsRules{PreventClipping: true},
	})

	// Root clamped from 590 to 450; child inherits the -140 delta.
	if layers[0].Bounds.X != 450 {
		t.Fatalf("root x = %g, want 450", layers[0].Bounds.X)
	}
	if layers[0].Children[0].Bounds.X != 460 {
		t.Errorf("child x = %g, want 460", layers[0].Children[0].Bounds.X)
	}
}
