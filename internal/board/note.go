// Package board is the single source of truth for note state: the note
// entity, the ordered in-memory store, and the bounded snapshot history.
package board

import (
	"fmt"
	"time"

	"stickpad/internal/geom"
)

type Color string

const (
	ColorYellow Color = "yellow"
	ColorGreen  Color = "green"
	ColorBlue   Color = "blue"
	ColorPurple Color = "purple"
	ColorPink   Color = "pink"
	ColorOrange Color = "orange"

	DefaultColor = ColorYellow
)

// Palette is the fixed set of note colors, in picker order.
var Palette = []Color{ColorYellow, ColorGreen, ColorBlue, ColorPurple, ColorPink, ColorOrange}

func (c Color) Valid() bool {
	for _, p := range Palette {
		if c == p {
			return true
		}
	}
	return false
}

// Next returns the color following c in the palette, wrapping around.
func (c Color) Next() Color {
	for i, p := range Palette {
		if c == p {
			return Palette[(i+1)%len(Palette)]
		}
	}
	return DefaultColor
}

// Interactive size bounds. They constrain drag-resize only; sizes written
// through the store directly may fall outside them.
const (
	MinWidth  = 150.0
	MaxWidth  = 500.0
	MinHeight = 120.0
	MaxHeight = 500.0

	DefaultWidth  = 220.0
	DefaultHeight = 200.0
)

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Note is a freeform content box positioned in canvas space. JSON field names
// match the persisted blob schema.
type Note struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Position  Point     `json:"position"`
	Size      Size      `json:"size"`
	Color     Color     `json:"color"`
	ZIndex    int       `json:"zIndex"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Validate reports whether a record loaded from storage is usable. Invalid
// records are dropped on load, never fatal.
func (n Note) Validate() error {
	if n.ID == "" {
		return fmt.Errorf("note has no id")
	}
	if !geom.Finite(n.Position.X, n.Position.Y) {
		return fmt.Errorf("note %q: non-finite position", n.ID)
	}
	if !geom.Finite(n.Size.Width, n.Size.Height) || n.Size.Width <= 0 || n.Size.Height <= 0 {
		return fmt.Errorf("note %q: bad size %gx%g", n.ID, n.Size.Width, n.Size.Height)
	}
	if !n.Color.Valid() {
		return fmt.Errorf("note %q: unknown color %q", n.ID, n.Color)
	}
	return nil
}

// ClampSize constrains a size to the interactive resize bounds.
func ClampSize(s Size) Size {
	if s.Width < MinWidth {
		s.Width = MinWidth
	}
	if s.Width > MaxWidth {
		s.Width = MaxWidth
	}
	if s.Height < MinHeight {
		s.Height = MinHeight
	}
	if s.Height > MaxHeight {
		s.Height = MaxHeight
	}
	return s
}
