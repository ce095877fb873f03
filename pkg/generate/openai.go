package generate

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	"github.com/charmbracelet/log"
	openai "github.com/sashabaranov/go-openai"

	"github.com/dzazaleo/layerforge/pkg/errors"
)

// OpenAIGenerator produces images through the OpenAI images API.
type OpenAIGenerator struct {
	client *openai.Client
	model  string
	logger *log.Logger
}

// NewOpenAIGenerator builds a generator from an explicit API key, falling
// back to OPENAI_API_KEY when key is empty.
func NewOpenAIGenerator(key, model string, logger *log.Logger) (*OpenAIGenerator, error) {
	if key == "" {
		key = os.Getenv("OPENAI_API_KEY")
	}
	if key == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"no OpenAI API key configured and OPENAI_API_KEY is unset")
	}
	if model == "" {
		model = openai.CreateImageModelDallE3
	}
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &OpenAIGenerator{
		client: openai.NewClient(key),
		model:  model,
		logger: logger,
	}, nil
}

// Generate requests a single image for the prompt. One attempt, no retry:
// the pipeline decides whether a changed prompt warrants another call.
func (g *OpenAIGenerator) Generate(ctx context.Context, req Request) (*Result, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	g.logger.Debug("requesting generation", "model", g.model, "size", sizeFor(req))

	resp, err := g.client.CreateImage(ctx, openai.ImageRequest{
		Prompt:         req.Prompt,
		Model:          g.model,
		N:              1,
		Size:           sizeFor(req),
		ResponseFormat: openai.CreateImageResponseFormatB64JSON,
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, errors.Wrap(errors.ErrCodeTimeout, err, "generation cancelled")
		}
		return nil, errors.Wrap(errors.ErrCodeGeneration, err, "image generation failed")
	}
	if len(resp.Data) == 0 {
		return nil, errors.New(errors.ErrCodeGeneration, "generation returned no images")
	}

	raw, err := base64.StdEncoding.DecodeString(resp.Data[0].B64JSON)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeGeneration, err, "decoding generated image")
	}
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeGeneration, err, "decoding generated image")
	}

	return &Result{Image: img, SourceReference: NewSourceReference()}, nil
}

// sizeFor snaps the requested dimensions onto the API's supported sizes,
// picking by aspect ratio.
func sizeFor(req Request) string {
	switch {
	case req.Width == 0 || req.Height == 0:
		return openai.CreateImageSize1024x1024
	case req.Width > req.Height*4/3:
		return openai.CreateImageSize1792x1024
	case req.Height > req.Width*4/3:
		return openai.CreateImageSize1024x1792
	default:
		return openai.CreateImageSize1024x1024
	}
}
