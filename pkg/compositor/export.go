package compositor

import (
	"bytes"
	"image"
	"image/png"
	"io"
	"os"

	"github.com/dzazaleo/layerforge/pkg/errors"
)

// WritePNG encodes img as PNG to w. PNG is the only composite format: it is
// lossless and keeps the alpha channel.
func WritePNG(img image.Image, w io.Writer) error {
	if err := png.Encode(w, img); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encoding PNG")
	}
	return nil
}

// SavePNG writes the composite to a file.
func SavePNG(img image.Image, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "creating %s", path)
	}
	defer f.Close()

	if err := WritePNG(img, f); err != nil {
		return err
	}
	return f.Close()
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
