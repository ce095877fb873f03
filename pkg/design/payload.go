package design

import "encoding/json"

// =============================================================================
// Payload Status
// =============================================================================

// Status describes the lifecycle state of a transformed payload.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusPending Status = "pending"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// =============================================================================
// Transform - Per-Layer Mapping Record
// =============================================================================

// Transform records how a layer's source bounds were mapped into target
// space. Offsets are the translation from source to target position;
// rotation is in degrees about the layer center.
type Transform struct {
	ScaleX   float64 `json:"scale_x" bson:"scale_x"`
	ScaleY   float64 `json:"scale_y" bson:"scale_y"`
	OffsetX  float64 `json:"offset_x" bson:"offset_x"`
	OffsetY  float64 `json:"offset_y" bson:"offset_y"`
	Rotation float64 `json:"rotation,omitempty" bson:"rotation,omitempty"`
}

// TransformedLayer is a layer whose bounds are expressed in the target
// coordinate space. The array order of Children is painter's order:
// bottom-most visual layer at index 0.
type TransformedLayer struct {
	ID        string             `json:"id" bson:"id"`
	Name      string             `json:"name,omitempty" bson:"name,omitempty"`
	Kind      string             `json:"kind" bson:"kind"`
	Visible   bool               `json:"visible" bson:"visible"`
	Opacity   float64            `json:"opacity" bson:"opacity"`
	Bounds    Rect               `json:"bounds" bson:"bounds"`
	Transform Transform          `json:"transform" bson:"transform"`
	Children  []TransformedLayer `json:"children,omitempty" bson:"children,omitempty"`
}

// Walk visits the layer and all descendants depth-first in array order.
func (l *TransformedLayer) Walk(fn func(*TransformedLayer) bool) {
	if !fn(l) {
		return
	}
	for i := range l.Children {
		l.Children[i].Walk(fn)
	}
}

// Translate shifts the layer and its whole subtree by (dx, dy), keeping the
// per-layer transform records consistent with the new positions.
func (l *TransformedLayer) Translate(dx, dy float64) {
	l.Walk(func(n *TransformedLayer) bool {
		n.Bounds.X += dx
		n.Bounds.Y += dy
		n.Transform.OffsetX += dx
		n.Transform.OffsetY += dy
		return true
	})
}

// =============================================================================
// Payload - Transformed Output
// =============================================================================

// Metrics records the source and target containers a payload was computed
// against. The compositor falls back to Target when TargetBounds is absent.
type Metrics struct {
	Source Rect `json:"source" bson:"source"`
	Target Rect `json:"target" bson:"target"`
}

// Payload is the computed output of a re-layout: the transformed tree plus
// the generation-lifecycle fields that carry memory across recomputation.
//
// Geometry fields are recomputed deterministically from (document, target,
// effective overrides) on every input change. The lifecycle fields
// (PreviewURL, Confirmed, GenerationID, SourceReference, PromptHash,
// Synthesizing) are owned by the reconciler: a fresh computation never
// writes them directly, it proposes values that reconcile.Reconcile merges
// against the persisted prior payload.
//
// GenerationID is a monotonically increasing token minted whenever a new
// preview image is produced; zero means absent. It is the sole tie-breaker
// for staleness between overlapping async generations.
//
// Confirmed is a tri-state: nil means the computation carries no opinion
// and the reconciler may inherit the persisted value, while an explicit
// false un-confirms the slot.
type Payload struct {
	Status             Status             `json:"status" bson:"status"`
	Layers             []TransformedLayer `json:"layers" bson:"layers"`
	ScaleFactor        float64            `json:"scale_factor" bson:"scale_factor"`
	TargetBounds       *Rect              `json:"target_bounds,omitempty" bson:"target_bounds,omitempty"`
	Metrics            Metrics            `json:"metrics" bson:"metrics"`
	PreviewURL         string             `json:"preview_url,omitempty" bson:"preview_url,omitempty"`
	Confirmed          *bool              `json:"confirmed,omitempty" bson:"confirmed,omitempty"`
	Transient          bool               `json:"transient,omitempty" bson:"transient,omitempty"`
	Synthesizing       bool               `json:"synthesizing,omitempty" bson:"synthesizing,omitempty"`
	GenerationID       int64              `json:"generation_id,omitempty" bson:"generation_id,omitempty"`
	GenerationAllowed  bool               `json:"generation_allowed" bson:"generation_allowed"`
	SourceReference    string             `json:"source_reference,omitempty" bson:"source_reference,omitempty"`
	PromptHash         string             `json:"prompt_hash,omitempty" bson:"prompt_hash,omitempty"`
	RequiresGeneration bool               `json:"requires_generation,omitempty" bson:"requires_generation,omitempty"`
	Mandatory          bool               `json:"mandatory,omitempty" bson:"mandatory,omitempty"`
	Anchors            map[string]string  `json:"anchors,omitempty" bson:"anchors,omitempty"`
}

// Bool returns a pointer to v, for populating optional payload fields.
func Bool(v bool) *bool { return &v }

// IsConfirmed reports whether the payload is explicitly confirmed.
func (p *Payload) IsConfirmed() bool {
	return p.Confirmed != nil && *p.Confirmed
}

// Target returns the rectangle the payload was computed for: TargetBounds
// when present, otherwise the recorded metrics target.
func (p *Payload) Target() Rect {
	if p.TargetBounds != nil {
		return *p.TargetBounds
	}
	return p.Metrics.Target
}

// Clone returns a deep copy. Reconciliation works on copies so that neither
// the incoming nor the persisted payload is ever mutated in place.
func (p *Payload) Clone() *Payload {
	if p == nil {
		return nil
	}
	out := *p
	if p.TargetBounds != nil {
		tb := *p.TargetBounds
		out.TargetBounds = &tb
	}
	if p.Confirmed != nil {
		c := *p.Confirmed
		out.Confirmed = &c
	}
	out.Layers = cloneLayers(p.Layers)
	if p.Anchors != nil {
		out.Anchors = make(map[string]string, len(p.Anchors))
		for k, v := range p.Anchors {
			out.Anchors[k] = v
		}
	}
	return &out
}

func cloneLayers(ls []TransformedLayer) []TransformedLayer {
	if ls == nil {
		return nil
	}
	out := make([]TransformedLayer, len(ls))
	for i := range ls {
		out[i] = ls[i]
		out[i].Children = cloneLayers(ls[i].Children)
	}
	return out
}

// FindLayer returns the first layer in the tree with the given id.
func (p *Payload) FindLayer(id string) *TransformedLayer {
	var found *TransformedLayer
	for i := range p.Layers {
		p.Layers[i].Walk(func(l *TransformedLayer) bool {
			if found != nil {
				return false
			}
			if l.ID == id {
				found = l
				return false
			}
			return true
		})
	}
	return found
}

// UnmarshalPayload deserializes JSON bytes into a Payload.
func UnmarshalPayload(data []byte) (*Payload, error) {
	var p Payload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// MarshalPayload serializes a Payload to JSON.
func MarshalPayload(p *Payload) ([]byte, error) {
	return json.Marshal(p)
}
