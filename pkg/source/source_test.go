package source

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dzazaleo/layerforge/pkg/design"
	"github.com/dzazaleo/layerforge/pkg/errors"
)

const sampleDocument = `{
  "name": "banner",
  "bounds": {"x": 0, "y": 0, "w": 1000, "h": 500},
  "layers": [
    {"id": "bg", "kind": "pixel", "visible": true, "opacity": 1,
     "bounds": {"x": 0, "y": 0, "w": 1000, "h": 500}},
    {"id": "hero", "kind": "group", "visible": true, "opacity": 1,
     "bounds": {"x": 100, "y": 50, "w": 400, "h": 400},
     "children": [
       {"id": "hero/photo", "kind": "pixel", "visible": true, "opacity": 0.9,
        "bounds": {"x": 100, "y": 50, "w": 400, "h": 400}}
     ]}
  ]
}`

func TestReadDocument(t *testing.T) {
	d, err := ReadDocument(strings.NewReader(sampleDocument))
	if err != nil {
		t.Fatalf("ReadDocument: %v", err)
	}
	if d.Name != "banner" || len(d.Layers) != 2 {
		t.Errorf("decoded %q with %d layers", d.Name, len(d.Layers))
	}
	if d.Layers[1].Children[0].ID != "hero/photo" {
		t.Error("nested layer lost")
	}
}

func TestReadDocumentRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		in   string
		code errors.Code
	}{
		{
			name: "malformed json",
			in:   `{"name": `,
			code: errors.ErrCodeInvalidFormat,
		},
		{
			name: "degenerate bounds",
			in:   `{"bounds": {"x":0,"y":0,"w":0,"h":100}, "layers": [{"id":"a","kind":"pixel","visible":true,"opacity":1}]}`,
			code: errors.ErrCodeDegenerateRect,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadDocument(strings.NewReader(tt.in))
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestDocumentFileRoundTrip(t *testing.T) {
	d, err := ReadDocument(strings.NewReader(sampleDocument))
	if err != nil {
		t.Fatalf("ReadDocument: %v", err)
	}

	path := filepath.Join(t.TempDir(), "doc.json")
	if err := ExportDocument(d, path); err != nil {
		t.Fatalf("ExportDocument: %v", err)
	}
	back, err := ImportDocument(path)
	if err != nil {
		t.Fatalf("ImportDocument: %v", err)
	}
	if back.LayerCount() != d.LayerCount() {
		t.Errorf("round trip lost layers: %d != %d", back.LayerCount(), d.LayerCount())
	}
}

func TestImportDocumentMissingFile(t *testing.T) {
	_, err := ImportDocument(filepath.Join(t.TempDir(), "nope.json"))
	if !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("error = %v, want NOT_FOUND", err)
	}
}

func TestImportStrategy(t *testing.T) {
	path := filepath.Join(t.TempDir(), "strategy.json")
	body := `{
	  "suggested_scale": 0.75,
	  "layout_mode": "DISTRIBUTE_HORIZONTAL",
	  "overrides": [{"layer_id": "hero", "x_offset": 10, "y_offset": 20, "layout_role": "flow"}],
	  "some_future_field": true
	}`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := ImportStrategy(path)
	if err != nil {
		t.Fatalf("ImportStrategy: %v", err)
	}
	if s.SuggestedScale != 0.75 || s.LayoutMode != design.LayoutModeDistributeHorizontal {
		t.Errorf("decoded %+v", s)
	}
	if len(s.Overrides) != 1 || s.Overrides[0].LayoutRole != design.RoleFlow {
		t.Errorf("overrides = %+v", s.Overrides)
	}
}

func TestFileNameForLayer(t *testing.T) {
	tests := []struct{ id, want string }{
		{"bg", "bg.png"},
		{"hero/photo", "hero__photo.png"},
		{design.SyntheticIDPrefix + "fill-1", "synthetic__fill-1.png"},
	}
	for _, tt := range tests {
		if got := FileNameForLayer(tt.id); got != tt.want {
			t.Errorf("FileNameForLayer(%q) = %q, want %q", tt.id, got, tt.want)
		}
	}
}

func TestDirSource(t *testing.T) {
	dir := t.TempDir()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})
	f, err := os.Create(filepath.Join(dir, "hero__photo.png"))
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	f.Close()

	s := NewDirSource(dir)

	got, ok := s.Pixels("hero/photo")
	if !ok || got == nil {
		t.Fatal("expected pixels for hero/photo")
	}
	if b := got.Bounds(); b.Dx() != 4 || b.Dy() != 4 {
		t.Errorf("image = %dx%d, want 4x4", b.Dx(), b.Dy())
	}

	if _, ok := s.Pixels("missing"); ok {
		t.Error("missing file should report false")
	}
	// Second lookup hits the negative cache; still false.
	if _, ok := s.Pixels("missing"); ok {
		t.Error("cached missing file should report false")
	}
}
