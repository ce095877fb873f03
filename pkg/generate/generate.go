package generate

import (
	"context"
	"image"

	"github.com/google/uuid"

	"github.com/dzazaleo/layerforge/pkg/errors"
)

// Request describes one generation attempt.
type Request struct {
	// Prompt is the generation instruction. Required.
	Prompt string

	// Reference optionally seeds generation with an existing raster, when
	// the backend supports image-to-image.
	Reference image.Image

	// Width and Height are the requested output dimensions in pixels. The
	// backend may snap them to its supported grid.
	Width, Height int
}

// Result is a completed generation.
type Result struct {
	Image image.Image

	// SourceReference identifies this generation for provenance tracking;
	// it is persisted alongside the payload's generation id.
	SourceReference string
}

// Generator turns a prompt into an image. Implementations must be safe for
// concurrent use.
type Generator interface {
	Generate(ctx context.Context, req Request) (*Result, error)
}

// NewSourceReference mints a provenance id for a generation attempt.
func NewSourceReference() string {
	return "gen-" + uuid.NewString()
}

func validate(req Request) error {
	if req.Prompt == "" {
		return errors.New(errors.ErrCodeInvalidInput, "generation request has no prompt")
	}
	return nil
}

// Null is a Generator that always fails with GENERATION_FAILED. It backs
// deployments where generation is disabled: callers still get a typed error
// they can reconcile rather than a nil panic.
type Null struct{}

func (Null) Generate(context.Context, Request) (*Result, error) {
	return nil, errors.New(errors.ErrCodeGeneration, "generation is disabled")
}
