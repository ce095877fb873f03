package compositor

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"io"
	"math"

	"github.com/charmbracelet/log"
	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/dzazaleo/layerforge/pkg/design"
	"github.com/dzazaleo/layerforge/pkg/errors"
)

// PixelSource resolves a layer id to its original pixel buffer.
type PixelSource interface {
	Pixels(id string) (image.Image, bool)
}

// PixelSourceFunc adapts a lookup function to the PixelSource interface.
type PixelSourceFunc func(id string) (image.Image, bool)

func (f PixelSourceFunc) Pixels(id string) (image.Image, bool) { return f(id) }

// Options configures a composite.
type Options struct {
	// Pixels resolves original per-layer pixel buffers. May be nil, in
	// which case every pixel leaf surfaces a diagnostic.
	Pixels PixelSource

	// Generated is the single proxy image shared by every generative leaf
	// in the payload. Nil means "not generated yet"; generative leaves
	// then paint a labeled placeholder.
	Generated image.Image

	// Background fills the canvas matte before painting. Nil defaults to
	// opaque white so exports always have a defined background; pass
	// color.Transparent to keep the canvas see-through.
	Background color.Color

	// Logger receives per-layer diagnostics. Defaults to a discard logger.
	Logger *log.Logger
}

func (o *Options) setDefaults() {
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if o.Background == nil {
		o.Background = color.White
	}
}

// Render paints the payload's layer tree into a raster the size of its
// target rectangle. Skipped layers (missing pixel buffers) are reported in
// the returned diagnostics; only unusable inputs produce an error.
func Render(p *design.Payload, opts Options) (image.Image, []string, error) {
	opts.setDefaults()

	target := p.Target()
	if target.Empty() {
		return nil, nil, errors.New(errors.ErrCodeDegenerateRect,
			"payload has no target rectangle to rasterize into")
	}

	dc := gg.NewContext(pixelDim(target.W), pixelDim(target.H))
	dc.SetColor(opts.Background)
	dc.Clear()

	c := &compositor{dc: dc, target: target, opts: opts}
	for i := range p.Layers {
		c.paint(&p.Layers[i], 1.0)
	}
	return dc.Image(), c.diagnostics, nil
}

// RenderPNG composites the payload and encodes the raster as PNG.
func RenderPNG(p *design.Payload, opts Options) ([]byte, []string, error) {
	img, diags, err := Render(p, opts)
	if err != nil {
		return nil, diags, err
	}
	data, err := encodePNG(img)
	if err != nil {
		return nil, diags, errors.Wrap(errors.ErrCodeInternal, err, "encoding composite")
	}
	return data, diags, nil
}

type compositor struct {
	dc          *gg.Context
	target      design.Rect
	opts        Options
	diagnostics []string
}

// paint draws one layer and its subtree. parentAlpha is the accumulated
// group opacity above this layer.
func (c *compositor) paint(l *design.TransformedLayer, parentAlpha float64) {
	if !l.Visible {
		return
	}

	if l.Kind == design.KindGroup {
		alpha := parentAlpha * clamp01(l.Opacity)
		for i := range l.Children {
			c.paint(&l.Children[i], alpha)
		}
		return
	}

	alpha := parentAlpha * c.leafAlpha(l)
	if alpha <= 0 {
		return
	}

	var src image.Image
	switch l.Kind {
	case design.KindGenerative:
		src = c.opts.Generated
		if src == nil {
			c.paintPlaceholder(l, alpha)
			return
		}
	default:
		if c.opts.Pixels != nil {
			src, _ = c.opts.Pixels.Pixels(l.ID)
		}
		if src == nil {
			c.skip(l, "no pixel buffer")
			return
		}
	}

	c.paintImage(l, src, alpha)
}

// leafAlpha returns the opacity a leaf is painted with. A recorded opacity
// of exactly zero is coerced to fully opaque: upstream documents routinely
// carry invisible-by-opacity layers that reviewers still need to see in the
// composite, and the coercion is logged so exports are explainable.
func (c *compositor) leafAlpha(l *design.TransformedLayer) float64 {
	if l.Opacity == 0 {
		c.opts.Logger.Warn("zero-opacity leaf forced visible", "layer", l.ID)
		return 1
	}
	return clamp01(l.Opacity)
}

// paintImage draws src scaled to the leaf's bounds, rotated about its
// center. Context state is saved and restored per leaf so one layer's
// rotation never leaks into the next.
func (c *compositor) paintImage(l *design.TransformedLayer, src image.Image, alpha float64) {
	w, h := pixelDim(l.Bounds.W), pixelDim(l.Bounds.H)
	scaled := imaging.Resize(src, w, h, imaging.Lanczos)

	x := l.Bounds.X - c.target.X
	y := l.Bounds.Y - c.target.Y

	c.dc.Push()
	if rot := l.Transform.Rotation; rot != 0 {
		cx := x + l.Bounds.W/2
		cy := y + l.Bounds.H/2
		c.dc.RotateAbout(gg.Radians(rot), cx, cy)
	}
	c.dc.DrawImage(fade(scaled, alpha), int(math.Round(x)), int(math.Round(y)))
	c.dc.Pop()
}

// paintPlaceholder stands in for a generative leaf before its image exists:
// a tinted rectangle with a centered label.
func (c *compositor) paintPlaceholder(l *design.TransformedLayer, alpha float64) {
	x := l.Bounds.X - c.target.X
	y := l.Bounds.Y - c.target.Y

	c.dc.Push()
	c.dc.SetRGBA(0.55, 0.45, 0.85, 0.6*alpha)
	c.dc.DrawRectangle(x, y, l.Bounds.W, l.Bounds.H)
	c.dc.Fill()

	if face := placeholderFace(l.Bounds.H); face != nil {
		c.dc.SetFontFace(face)
		c.dc.SetRGBA(1, 1, 1, alpha)
		c.dc.DrawStringAnchored("generating…", x+l.Bounds.W/2, y+l.Bounds.H/2, 0.5, 0.5)
	}
	c.dc.Pop()
}

func (c *compositor) skip(l *design.TransformedLayer, reason string) {
	msg := fmt.Sprintf("layer %q skipped: %s", l.ID, reason)
	c.diagnostics = append(c.diagnostics, msg)
	c.opts.Logger.Warn("layer skipped", "layer", l.ID, "reason", reason)
}

// fade premultiplies an image by a global alpha. Full opacity returns the
// input untouched.
func fade(img image.Image, alpha float64) image.Image {
	if alpha >= 1 {
		return img
	}
	b := img.Bounds()
	out := image.NewRGBA(b)
	mask := image.NewUniform(color.Alpha{A: uint8(math.Round(alpha * 255))})
	draw.DrawMask(out, b, img, b.Min, mask, image.Point{}, draw.Over)
	return out
}

func placeholderFace(boxHeight float64) font.Face {
	f, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil
	}
	size := math.Min(24, math.Max(10, boxHeight/8))
	return truetype.NewFace(f, &truetype.Options{Size: size, DPI: 72})
}

func pixelDim(v float64) int {
	n := int(math.Round(v))
	if n < 1 {
		return 1
	}
	return n
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
