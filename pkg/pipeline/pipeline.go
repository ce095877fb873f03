// Package pipeline provides the core re-layout pipeline for Layerforge.
//
// This package implements the complete transform → reconcile → composite
// pipeline that can be used by CLI, API, and worker components. By
// centralizing this logic, we ensure consistent behavior across all entry
// points and avoid code duplication.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Transform: map the source layer tree into the target rectangle,
//     applying overrides and the physics solver
//  2. Reconcile: merge the fresh payload's generation lifecycle against the
//     previously persisted payload for the same output slot
//  3. Composite: rasterize the reconciled payload into the requested formats
//
// Transform and composite results are cached; reconciliation never is, since
// it depends on the store's current state.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, store, generator, logger)
//	opts := pipeline.Options{
//	    Document: doc,
//	    Strategy: strategy,
//	    Target:   design.Rect{W: 300, H: 600},
//	    Formats:  []string{"png"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	raster := result.Artifacts["png"]
package pipeline

import (
	"encoding/json"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/dzazaleo/layerforge/pkg/cache"
	"github.com/dzazaleo/layerforge/pkg/compositor"
	"github.com/dzazaleo/layerforge/pkg/design"
	"github.com/dzazaleo/layerforge/pkg/errors"
)

// =============================================================================
// Defaults - Single Source of Truth for CLI, API, and Worker
// =============================================================================

const (
	// DefaultOwnerID scopes slots for unauthenticated CLI runs.
	DefaultOwnerID = "local"
)

// Format constants for output formats.
const (
	FormatPNG  = "png"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatPNG:  true,
	FormatJSON: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one pipeline run.
// The serializable subset supports JSON for API requests.
type Options struct {
	// Transform inputs
	Target   design.Rect      `json:"target"`
	Source   design.Rect      `json:"source,omitempty"`
	Scale    float64          `json:"scale,omitempty"`
	Strategy *design.Strategy `json:"strategy,omitempty"`
	Feedback *design.Feedback `json:"feedback,omitempty"`

	// Slot identity
	OwnerID string `json:"owner_id,omitempty"`
	SlotID  string `json:"slot_id,omitempty"`

	// Generation
	GenerationAllowed bool `json:"generation_allowed,omitempty"`

	// Composite options. Background names the canvas matte (white, black,
	// or none); empty uses the compositor's opaque white default.
	Formats    []string `json:"formats,omitempty"`
	Background string   `json:"background,omitempty"`

	// Cache control
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Document *design.Document       `json:"-"`
	Pixels   compositor.PixelSource `json:"-"`
	Logger   *log.Logger            `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Payload is the reconciled payload persisted for the slot.
	Payload *design.Payload

	// PayloadHash is the content hash of the reconciled payload.
	PayloadHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Diagnostics lists non-fatal issues surfaced while compositing.
	Diagnostics []string

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	LayerCount    int
	TransformTime time.Duration
	GenerateTime  time.Duration
	CompositeTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	TransformHit bool // Whether the computed payload came from cache
	CompositeHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: png, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent - calling it multiple times has the same effect
// as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Document == nil {
		return errors.New(errors.ErrCodeInvalidInput, "document is required")
	}
	if err := o.Document.Validate(); err != nil {
		return err
	}
	if o.Target.Empty() {
		return errors.New(errors.ErrCodeDegenerateRect, "target rect %s has no area", o.Target)
	}
	if o.Source.Empty() {
		o.Source = o.Document.Bounds
	}
	if o.OwnerID == "" {
		o.OwnerID = DefaultOwnerID
	}
	if o.SlotID == "" {
		// One slot per (source, target) pairing by default.
		o.SlotID = o.Source.String() + "->" + o.Target.String()
	}
	if err := errors.ValidateSlotID(o.SlotID); err != nil {
		return err
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatPNG}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// TransformKeyOpts returns cache key options for the transform stage.
func (o *Options) TransformKeyOpts() cache.TransformKeyOpts {
	return cache.TransformKeyOpts{
		Target:            o.Target.String(),
		Scale:             o.Scale,
		StrategyHash:      hashJSON(o.Strategy),
		FeedbackHash:      hashJSON(o.Feedback),
		GenerationAllowed: o.GenerationAllowed,
	}
}

// CompositeKeyOpts returns cache key options for one composite format.
func (o *Options) CompositeKeyOpts(format, generatedRef string) cache.CompositeKeyOpts {
	return cache.CompositeKeyOpts{
		Format:     format,
		Background: o.Background,
		Generated:  generatedRef,
	}
}

func hashJSON(v any) string {
	if v == nil {
		return ""
	}
	data, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return cache.Hash(data)
}
