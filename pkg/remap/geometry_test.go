package remap

import (
	"testing"

	"github.com/dzazaleo/layerforge/pkg/design"
	"github.com/dzazaleo/layerforge/pkg/errors"
)

func TestMapPosition(t *testing.T) {
	tests := []struct {
		name           string
		source, target design.Rect
		bounds         design.Rect
		wantX, wantY   float64
	}{
		{
			name:   "identity",
			source: design.Rect{X: 0, Y: 0, W: 1000, H: 1000},
			target: design.Rect{X: 0, Y: 0, W: 1000, H: 1000},
			bounds: design.Rect{X: 100, Y: 100, W: 200, H: 200},
			wantX:  100, wantY: 100,
		},
		{
			name:   "narrower taller target",
			source: design.Rect{X: 0, Y: 0, W: 1000, H: 1000},
			target: design.Rect{X: 0, Y: 0, W: 500, H: 2000},
			bounds: design.Rect{X: 100, Y: 100, W: 200, H: 200},
			wantX:  50, wantY: 200,
		},
		{
			name:   "offset source and target origins",
			source: design.Rect{X: 100, Y: 100, W: 800, H: 800},
			target: design.Rect{X: 50, Y: 50, W: 400, H: 400},
			bounds: design.Rect{X: 500, Y: 500, W: 10, H: 10},
			wantX:  250, wantY: 250,
		},
		{
			name:   "layer left of source origin",
			source: design.Rect{X: 0, Y: 0, W: 100, H: 100},
			target: design.Rect{X: 0, Y: 0, W: 200, H: 200},
			bounds: design.Rect{X: -50, Y: 0, W: 10, H: 10},
			wantX:  -100, wantY: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := MapPosition(tt.source, tt.target, tt.bounds)
			if x != tt.wantX || y != tt.wantY {
				t.Errorf("MapPosition() = (%g, %g), want (%g, %g)", x, y, tt.wantX, tt.wantY)
			}
		})
	}
}

func TestMapPositionIdempotent(t *testing.T) {
	source := design.Rect{X: 13, Y: 7, W: 977, H: 613}
	target := design.Rect{X: -4, Y: 9, W: 333, H: 1201}
	bounds := design.Rect{X: 141.5, Y: 76.25, W: 50, H: 50}

	x1, y1 := MapPosition(source, target, bounds)
	for i := 0; i < 100; i++ {
		x2, y2 := MapPosition(source, target, bounds)
		if x1 != x2 || y1 != y2 {
			t.Fatalf("run %d diverged: (%v,%v) != (%v,%v)", i, x2, y2, x1, y1)
		}
	}
}

func TestValidateRects(t *testing.T) {
	valid := design.Rect{X: 0, Y: 0, W: 100, H: 100}
	tests := []struct {
		name           string
		source, target design.Rect
		wantErr        bool
	}{
		{name: "both valid", source: valid, target: valid},
		{name: "zero source width", source: design.Rect{X: 0, Y: 0, W: 0, H: 100}, target: valid, wantErr: true},
		{name: "zero source height", source: design.Rect{X: 0, Y: 0, W: 100, H: 0}, target: valid, wantErr: true},
		{name: "zero target width", source: valid, target: design.Rect{X: 0, Y: 0, W: 0, H: 100}, wantErr: true},
		{name: "zero target height", source: valid, target: design.Rect{X: 0, Y: 0, W: 100, H: 0}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRects(tt.source, tt.target)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateRects() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errors.ErrCodeDegenerateRect) {
				t.Errorf("error code = %q, want DEGENERATE_RECT", errors.GetCode(err))
			}
		})
	}
}
