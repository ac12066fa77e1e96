package minimap

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"stickpad/internal/board"
	"stickpad/internal/geom"
)

func TestProjectCentersOrigin(t *testing.T) {
	m := New()

	p := m.Project(geom.Point{X: 0, Y: 0})
	assert.Equal(t, 75.0, p.X)
	assert.Equal(t, 75.0, p.Y)

	corner := m.Project(geom.Point{X: -m.Extent / 2, Y: -m.Extent / 2})
	assert.Equal(t, 0.0, corner.X)
	assert.Equal(t, 0.0, corner.Y)
}

func TestProjectRoundTrip(t *testing.T) {
	m := New()
	for _, p := range []geom.Point{
		{X: 0, Y: 0},
		{X: 400, Y: -750},
		{X: -1500, Y: 1500},
	} {
		mp := m.Project(p)
		back := m.CanvasPoint(mp.X, mp.Y)
		assert.InDelta(t, p.X, back.X, 1e-9)
		assert.InDelta(t, p.Y, back.Y, 1e-9)
	}
}

func TestNoteRectNeverVanishes(t *testing.T) {
	m := New()
	n := board.Note{
		Position: board.Point{X: 0, Y: 0},
		Size:     board.Size{Width: 5, Height: 5},
	}

	r := m.NoteRect(n)
	assert.Equal(t, 1.0, r.Width)
	assert.Equal(t, 1.0, r.Height)
}

func TestViewportRectAtIdentity(t *testing.T) {
	m := New()

	r := m.ViewportRect(geom.Identity(), 1200, 800)

	// Identity puts the viewport's top-left at the canvas origin.
	assert.InDelta(t, 75.0, r.X, 1e-9)
	assert.InDelta(t, 75.0, r.Y, 1e-9)
	assert.InDelta(t, 1200.0/m.Extent*m.Size, r.Width, 1e-9)
	assert.InDelta(t, 800.0/m.Extent*m.Size, r.Height, 1e-9)
}

func TestViewportRectShrinksWhenZoomedIn(t *testing.T) {
	m := New()
	zoomed := geom.Identity().ZoomAt(0, 0, 2)

	r1 := m.ViewportRect(geom.Identity(), 1000, 1000)
	r2 := m.ViewportRect(zoomed, 1000, 1000)

	assert.InDelta(t, r1.Width/2, r2.Width, 1e-9)
	assert.InDelta(t, r1.Height/2, r2.Height, 1e-9)
}

func TestRectContains(t *testing.T) {
	r := Rect{X: 10, Y: 10, Width: 20, Height: 10}
	assert.True(t, r.Contains(10, 10))
	assert.True(t, r.Contains(29, 19))
	assert.False(t, r.Contains(30, 15))
	assert.False(t, r.Contains(9, 15))
}
