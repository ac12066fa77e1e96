package ui

import (
	"sort"

	"stickpad/internal/board"
	"stickpad/internal/geom"
	"stickpad/internal/input"
)

// Pixel dimensions of one terminal cell. Mouse events arrive in cells; the
// transform and the PNG exporter both work in pixels.
const (
	CellWidth  = 8.0
	CellHeight = 16.0
)

func cellToViewport(cx, cy int) (float64, float64) {
	return float64(cx) * CellWidth, float64(cy) * CellHeight
}

// noteViewportRect is a note's on-screen footprint in viewport pixels,
// after the transform.
func noteViewportRect(n board.Note, t geom.Transform) (x, y, w, h float64) {
	vx, vy := t.ToViewport(n.Position.X, n.Position.Y)
	return vx, vy, n.Size.Width * t.Scale, n.Size.Height * t.Scale
}

// hitTest resolves a viewport point to what the pointer landed on. Notes are
// probed top of the stack first. The header is the note's top terminal row
// and the resize handle its bottom-right cell.
func hitTest(notes []board.Note, t geom.Transform, vx, vy float64) (input.Target, string) {
	ordered := append([]board.Note(nil), notes...)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].ZIndex > ordered[j].ZIndex })

	for _, n := range ordered {
		x, y, w, h := noteViewportRect(n, t)
		if vx < x || vx >= x+w || vy < y || vy >= y+h {
			continue
		}
		if vx >= x+w-CellWidth && vy >= y+h-CellHeight {
			return input.TargetNoteResize, n.ID
		}
		if vy < y+CellHeight {
			return input.TargetNoteHeader, n.ID
		}
		return input.TargetNoteBody, n.ID
	}
	return input.TargetCanvas, ""
}
