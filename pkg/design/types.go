package design

import (
	"encoding/json"
	"fmt"
)

// =============================================================================
// Constants - Single Source of Truth
// =============================================================================

// Layer kinds. A layer is a group iff it was structurally a container in the
// source document, even when empty; the classification never depends on
// content, so descendant counting stays deterministic.
const (
	KindPixel      = "pixel"
	KindGroup      = "group"
	KindGenerative = "generative"
)

// SyntheticIDPrefix marks layer ids inserted by the generation pass rather
// than parsed from the source document. When generation is disabled, layers
// carrying this prefix are removed outright, not merely hidden.
const SyntheticIDPrefix = "synthetic/"

// =============================================================================
// Rect - Axis-Aligned Rectangle
// =============================================================================

// Rect is an axis-aligned rectangle in the single global coordinate space.
// Units are pixels throughout.
type Rect struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
	W float64 `json:"w" bson:"w"`
	H float64 `json:"h" bson:"h"`
}

// Empty reports whether the rectangle has no area. Empty source or target
// rectangles are precondition violations for the remap pipeline and must be
// rejected before any mapping division happens.
func (r Rect) Empty() bool { return r.W == 0 || r.H == 0 }

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 { return r.X + r.W }

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.H }

// CenterX returns the horizontal center.
func (r Rect) CenterX() float64 { return r.X + r.W/2 }

// CenterY returns the vertical center.
func (r Rect) CenterY() float64 { return r.Y + r.H/2 }

// String formats the rect as "x,y,w,h".
func (r Rect) String() string {
	return fmt.Sprintf("%g,%g,%g,%g", r.X, r.Y, r.W, r.H)
}

// =============================================================================
// Layer - Source Tree Node
// =============================================================================

// Layer is a node in a source design tree. IDs are path-like, unique within
// their document, and stable across recomputation; they are the only handle
// overrides and anchor links use to reference a layer.
type Layer struct {
	ID       string  `json:"id" bson:"id"`
	Name     string  `json:"name,omitempty" bson:"name,omitempty"`
	Kind     string  `json:"kind" bson:"kind"`
	Visible  bool    `json:"visible" bson:"visible"`
	Opacity  float64 `json:"opacity" bson:"opacity"`
	Bounds   Rect    `json:"bounds" bson:"bounds"`
	Children []Layer `json:"children,omitempty" bson:"children,omitempty"`
}

// IsGroup reports whether the layer is a structural container.
func (l *Layer) IsGroup() bool { return l.Kind == KindGroup }

// Walk visits the layer and all descendants depth-first in array order
// (bottom-most visual layer first). Returning false from fn stops descent
// into the current layer's children but continues with siblings.
func (l *Layer) Walk(fn func(*Layer) bool) {
	if !fn(l) {
		return
	}
	for i := range l.Children {
		l.Children[i].Walk(fn)
	}
}

// =============================================================================
// Document - Source Container
// =============================================================================

// Document is a parsed source design: a named rectangular container plus its
// layer tree. Layer arrays are stored bottom-first, matching painter's order.
type Document struct {
	Name   string  `json:"name,omitempty" bson:"name,omitempty"`
	Bounds Rect    `json:"bounds" bson:"bounds"`
	Layers []Layer `json:"layers" bson:"layers"`
}

// Index returns a lookup of every layer in the document by id.
// Later duplicates are ignored; Validate reports them.
func (d *Document) Index() map[string]*Layer {
	idx := make(map[string]*Layer)
	var walk func(ls []Layer)
	walk = func(ls []Layer) {
		for i := range ls {
			l := &ls[i]
			if _, ok := idx[l.ID]; !ok {
				idx[l.ID] = l
			}
			walk(l.Children)
		}
	}
	walk(d.Layers)
	return idx
}

// LayerCount returns the total number of layers in the tree.
func (d *Document) LayerCount() int {
	n := 0
	for i := range d.Layers {
		d.Layers[i].Walk(func(*Layer) bool { n++; return true })
	}
	return n
}

// Validate checks the structural invariants the remap pipeline relies on:
// a non-degenerate container, non-empty unique layer ids, known kinds, and
// opacities within [0,1]. Generative layers must not carry children.
func (d *Document) Validate() error {
	if d.Bounds.Empty() {
		return fmt.Errorf("document bounds %s have no area", d.Bounds)
	}
	seen := make(map[string]bool)
	var check func(l *Layer) error
	check = func(l *Layer) error {
		if l.ID == "" {
			return fmt.Errorf("layer %q has an empty id", l.Name)
		}
		if seen[l.ID] {
			return fmt.Errorf("duplicate layer id %q", l.ID)
		}
		seen[l.ID] = true
		switch l.Kind {
		case KindPixel, KindGroup, KindGenerative:
		default:
			return fmt.Errorf("layer %q has unknown kind %q", l.ID, l.Kind)
		}
		if l.Opacity < 0 || l.Opacity > 1 {
			return fmt.Errorf("layer %q opacity %g outside [0,1]", l.ID, l.Opacity)
		}
		if l.Kind == KindGenerative && len(l.Children) > 0 {
			return fmt.Errorf("generative layer %q has children", l.ID)
		}
		for i := range l.Children {
			if err := check(&l.Children[i]); err != nil {
				return err
			}
		}
		return nil
	}
	for i := range d.Layers {
		if err := check(&d.Layers[i]); err != nil {
			return err
		}
	}
	return nil
}

// UnmarshalDocument deserializes JSON bytes into a Document.
func UnmarshalDocument(data []byte) (*Document, error) {
	var d Document
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// MarshalDocument serializes a Document to indented JSON.
func MarshalDocument(d *Document) ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}
