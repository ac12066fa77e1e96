// Package minimap projects the virtual canvas onto a small overview square
// and maps clicks on it back to canvas coordinates.
package minimap

import (
	"stickpad/internal/board"
	"stickpad/internal/geom"
)

// Rect is an axis-aligned box in minimap coordinates.
type Rect struct {
	X, Y          float64
	Width, Height float64
}

func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// Model fixes the projection: a square of Size pixels covering an Extent by
// Extent region of the canvas centered on the origin.
type Model struct {
	Size   float64
	Extent float64
}

func New() Model {
	return Model{Size: 150, Extent: geom.VirtualExtent}
}

// Project maps a canvas point into minimap space. The canvas origin lands at
// the center of the square; points outside the extent project outside it.
func (m Model) Project(p geom.Point) geom.Point {
	return geom.Point{
		X: (p.X + m.Extent/2) / m.Extent * m.Size,
		Y: (p.Y + m.Extent/2) / m.Extent * m.Size,
	}
}

// CanvasPoint inverts Project.
func (m Model) CanvasPoint(x, y float64) geom.Point {
	return geom.Point{
		X: x/m.Size*m.Extent - m.Extent/2,
		Y: y/m.Size*m.Extent - m.Extent/2,
	}
}

// NoteRect projects a note's footprint. Degenerate boxes stay visible as a
// single-pixel marker so far-out notes can still be clicked.
func (m Model) NoteRect(n board.Note) Rect {
	tl := m.Project(geom.Point{X: n.Position.X, Y: n.Position.Y})
	w := n.Size.Width / m.Extent * m.Size
	h := n.Size.Height / m.Extent * m.Size
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return Rect{X: tl.X, Y: tl.Y, Width: w, Height: h}
}

// ViewportRect shows which slice of the canvas the given transform has on
// screen, in minimap coordinates.
func (m Model) ViewportRect(t geom.Transform, viewportW, viewportH float64) Rect {
	cx, cy := t.ToCanvas(0, 0)
	tl := m.Project(geom.Point{X: cx, Y: cy})
	return Rect{
		X:      tl.X,
		Y:      tl.Y,
		Width:  viewportW / t.Scale / m.Extent * m.Size,
		Height: viewportH / t.Scale / m.Extent * m.Size,
	}
}
