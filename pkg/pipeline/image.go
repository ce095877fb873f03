package pipeline

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"strings"
)

func encodeImagePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decodePNG(data []byte) (image.Image, error) {
	return png.Decode(bytes.NewReader(data))
}

// parseBackground maps a named background to a color. Empty or unknown
// names return nil, which the compositor resolves to its opaque white
// matte; "none" explicitly requests a transparent canvas.
func parseBackground(name string) color.Color {
	switch strings.ToLower(name) {
	case "white":
		return color.White
	case "black":
		return color.Black
	case "none", "transparent":
		return color.Transparent
	default:
		return nil
	}
}
