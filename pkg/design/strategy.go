package design

import "slices"

// =============================================================================
// Layout Roles
// =============================================================================

// Role tags a layer with the physics rule, if any, that applies to it.
type Role string

// Layout roles. The zero value means "no role": the layer takes its mapped
// position and participates only in collision resolution.
const (
	RoleNone       Role = ""
	RoleFlow       Role = "flow"
	RoleStatic     Role = "static"
	RoleOverlay    Role = "overlay"
	RoleBackground Role = "background"
)

// Valid reports whether the role is one of the known tags.
func (r Role) Valid() bool {
	switch r {
	case RoleNone, RoleFlow, RoleStatic, RoleOverlay, RoleBackground:
		return true
	}
	return false
}

// =============================================================================
// Override - Per-Layer Adjustment
// =============================================================================

// Override is a declarative per-layer adjustment, produced by the analysis
// pass or by manual review. XOffset/YOffset are placements relative to the
// target rectangle's origin: an override positions the layer at
// (target.X+XOffset, target.Y+YOffset), replacing the mapped position.
//
// Optional fields are pointers so that "absent" and "zero" stay distinct
// through serialization. LinkedAnchorID is only meaningful when LayoutRole is
// RoleOverlay and names another layer id in the same tree; it is a non-owning
// reference resolved by lookup at solve time.
type Override struct {
	LayerID         string   `json:"layer_id" bson:"layer_id"`
	XOffset         float64  `json:"x_offset" bson:"x_offset"`
	YOffset         float64  `json:"y_offset" bson:"y_offset"`
	IndividualScale *float64 `json:"individual_scale,omitempty" bson:"individual_scale,omitempty"`
	Rotation        *float64 `json:"rotation,omitempty" bson:"rotation,omitempty"`
	CitedRule       string   `json:"cited_rule,omitempty" bson:"cited_rule,omitempty"`
	AnchorIndex     *int     `json:"anchor_index,omitempty" bson:"anchor_index,omitempty"`
	LayoutRole      Role     `json:"layout_role,omitempty" bson:"layout_role,omitempty"`
	LinkedAnchorID  string   `json:"linked_anchor_id,omitempty" bson:"linked_anchor_id,omitempty"`
}

// =============================================================================
// Strategy - Analysis Output
// =============================================================================

// Layout modes for the grid distribution rule.
type LayoutMode string

const (
	LayoutModeNone                 LayoutMode = ""
	LayoutModeDistributeHorizontal LayoutMode = "DISTRIBUTE_HORIZONTAL"
	LayoutModeDistributeVertical   LayoutMode = "DISTRIBUTE_VERTICAL"
)

// PhysicsRules selects which physics passes run during solving.
type PhysicsRules struct {
	PreventOverlap  bool `json:"prevent_overlap" bson:"prevent_overlap"`
	PreventClipping bool `json:"prevent_clipping" bson:"prevent_clipping"`
}

// Strategy directives.
const (
	// DirectiveMandatoryGenFill forces the generative fill to stay confirmed
	// across recomputations that are merely missing cached preview fields.
	DirectiveMandatoryGenFill = "MANDATORY_GEN_FILL"
)

// Strategy is the output of the external layout analysis pass. It is
// immutable input to the remap pipeline and replaced wholesale on
// re-analysis.
type Strategy struct {
	SuggestedScale   float64       `json:"suggested_scale,omitempty" bson:"suggested_scale,omitempty"`
	Anchor           string        `json:"anchor,omitempty" bson:"anchor,omitempty"`
	Overrides        []Override    `json:"overrides,omitempty" bson:"overrides,omitempty"`
	LayoutMode       LayoutMode    `json:"layout_mode,omitempty" bson:"layout_mode,omitempty"`
	Physics          *PhysicsRules `json:"physics_rules,omitempty" bson:"physics_rules,omitempty"`
	ReplaceLayerID   string        `json:"replace_layer_id,omitempty" bson:"replace_layer_id,omitempty"`
	GenerativePrompt string        `json:"generative_prompt,omitempty" bson:"generative_prompt,omitempty"`
	Directives       []string      `json:"directives,omitempty" bson:"directives,omitempty"`
}

// Scale returns the suggested uniform scale factor, defaulting to 1.0.
func (s *Strategy) Scale() float64 {
	if s == nil || s.SuggestedScale == 0 {
		return 1.0
	}
	return s.SuggestedScale
}

// HasDirective reports whether the strategy carries the named directive.
func (s *Strategy) HasDirective(d string) bool {
	return s != nil && slices.Contains(s.Directives, d)
}

// Rules returns the physics rules, defaulting to all-off.
func (s *Strategy) Rules() PhysicsRules {
	if s == nil || s.Physics == nil {
		return PhysicsRules{}
	}
	return *s.Physics
}

// =============================================================================
// Feedback - Reviewer Corrections
// =============================================================================

// Feedback carries manual overrides captured from human review. It has the
// same override shape as a Strategy and is merged on top of it; it persists
// until explicitly reset.
type Feedback struct {
	Overrides []Override `json:"overrides,omitempty" bson:"overrides,omitempty"`
	Committed bool       `json:"committed" bson:"committed"`
}

// LayerIDs returns the set of layer ids the feedback touches. Layers in this
// set are exempt from automatic boundary clamping: manual placement wins over
// clipping avoidance.
func (f *Feedback) LayerIDs() map[string]bool {
	if f == nil {
		return nil
	}
	ids := make(map[string]bool, len(f.Overrides))
	for _, o := range f.Overrides {
		ids[o.LayerID] = true
	}
	return ids
}
