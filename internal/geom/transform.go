// Package geom holds the coordinate math shared by the board, the pointer
// controller and the minimap. Canvas space is the notes' authoritative
// coordinate system; viewport space is what the pointer device reports.
package geom

import "math"

const (
	MinScale = 0.25
	MaxScale = 2.0

	// WheelStep is the scale change applied per modifier-wheel event.
	WheelStep = 0.1
	// PinchSensitivity converts a change in inter-touch distance (viewport
	// pixels) into a scale delta.
	PinchSensitivity = 0.005

	// VirtualExtent is the nominal side length of the board in canvas units,
	// centered on the origin. Panning is unbounded; the extent only frames
	// the minimap projection and exports.
	VirtualExtent = 3000.0
)

type Point struct {
	X float64
	Y float64
}

// Transform places the canvas-space origin in viewport space: a canvas point
// maps to viewport space as point*Scale + Offset.
type Transform struct {
	OffsetX float64
	OffsetY float64
	Scale   float64
}

func Identity() Transform {
	return Transform{Scale: 1}
}

func (t Transform) ToCanvas(vx, vy float64) (float64, float64) {
	return (vx - t.OffsetX) / t.Scale, (vy - t.OffsetY) / t.Scale
}

func (t Transform) ToViewport(cx, cy float64) (float64, float64) {
	return cx*t.Scale + t.OffsetX, cy*t.Scale + t.OffsetY
}

func ClampScale(s float64) float64 {
	return math.Min(math.Max(s, MinScale), MaxScale)
}

// ZoomAt rescales the transform so that the canvas point currently under the
// viewport anchor stays under the anchor. Any host-side extent clamping has
// to happen after this correction, never inside it.
func (t Transform) ZoomAt(anchorX, anchorY, newScale float64) Transform {
	ns := ClampScale(newScale)
	factor := ns / t.Scale
	return Transform{
		OffsetX: anchorX - (anchorX-t.OffsetX)*factor,
		OffsetY: anchorY - (anchorY-t.OffsetY)*factor,
		Scale:   ns,
	}
}

// CenterOn pans the transform so the given canvas point sits at the center of
// a viewport of the given size. Used by minimap navigation.
func (t Transform) CenterOn(cx, cy, viewportW, viewportH float64) Transform {
	t.OffsetX = viewportW/2 - cx*t.Scale
	t.OffsetY = viewportH/2 - cy*t.Scale
	return t
}

// Snap rounds a value to the nearest multiple of the grid size. Values pass
// through unchanged when the grid size is not positive.
func Snap(v, grid float64) float64 {
	if grid <= 0 {
		return v
	}
	return math.Round(v/grid) * grid
}

// Finite reports whether every value is a usable coordinate. Gestures that
// produce anything else are discarded rather than written to a note.
func Finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
