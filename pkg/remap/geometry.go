package remap

import (
	"github.com/dzazaleo/layerforge/pkg/design"
	"github.com/dzazaleo/layerforge/pkg/errors"
)

// MapPosition maps a source layer position into the target rectangle. The
// layer's position relative to the source container is expressed as a
// fraction of the container and reapplied as the same fraction of the target:
//
//	relX = (bounds.x - source.x) / source.w
//	geomX = target.x + relX * target.w
//
// This is applied per layer, not by rigidly scaling a subtree as one image,
// so each leaf keeps its relative position inside the source container.
//
// Callers must reject empty source rectangles first; see [ValidateRects].
func MapPosition(source, target design.Rect, bounds design.Rect) (x, y float64) {
	relX := (bounds.X - source.X) / source.W
	relY := (bounds.Y - source.Y) / source.H
	x = target.X + relX*target.W
	y = target.Y + relY*target.H
	return x, y
}

// ValidateRects checks the mapping preconditions: both rectangles must have
// area. A zero-dimension source would divide by zero in [MapPosition]; it is
// rejected here instead of silently producing NaN geometry.
func ValidateRects(source, target design.Rect) error {
	if source.Empty() {
		return errors.New(errors.ErrCodeDegenerateRect, "source rect %s has no area", source)
	}
	if target.Empty() {
		return errors.New(errors.ErrCodeDegenerateRect, "target rect %s has no area", target)
	}
	return nil
}
