// Package export renders a board to a PNG image.
package export

import (
	"fmt"
	"image/color"
	"sort"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"

	"stickpad/internal/board"
)

// Note fill and header colors per palette entry.
var fills = map[board.Color]color.RGBA{
	board.ColorYellow: {R: 0xFE, G: 0xF3, B: 0xC7, A: 0xFF},
	board.ColorGreen:  {R: 0xD1, G: 0xFA, B: 0xE5, A: 0xFF},
	board.ColorBlue:   {R: 0xDB, G: 0xEA, B: 0xFE, A: 0xFF},
	board.ColorPurple: {R: 0xED, G: 0xE9, B: 0xFE, A: 0xFF},
	board.ColorPink:   {R: 0xFC, G: 0xE7, B: 0xF3, A: 0xFF},
	board.ColorOrange: {R: 0xFF, G: 0xED, B: 0xD5, A: 0xFF},
}

var headers = map[board.Color]color.RGBA{
	board.ColorYellow: {R: 0xFD, G: 0xE6, B: 0x8A, A: 0xFF},
	board.ColorGreen:  {R: 0xA7, G: 0xF3, B: 0xD0, A: 0xFF},
	board.ColorBlue:   {R: 0xBF, G: 0xDB, B: 0xFE, A: 0xFF},
	board.ColorPurple: {R: 0xDD, G: 0xD6, B: 0xFE, A: 0xFF},
	board.ColorPink:   {R: 0xFB, G: 0xCF, B: 0xE8, A: 0xFF},
	board.ColorOrange: {R: 0xFE, G: 0xD7, B: 0xAA, A: 0xFF},
}

const (
	padding      = 40.0
	cornerRadius = 8.0
	headerHeight = 28.0
	fontSize     = 13.0
)

// ToPNG renders every note at its canvas position and writes the image to
// filename. Notes draw in z order, lowest first.
func ToPNG(filename string, notes []board.Note) error {
	if len(notes) == 0 {
		return fmt.Errorf("nothing to export")
	}

	// Bounds over all notes
	minX, minY := notes[0].Position.X, notes[0].Position.Y
	maxX := notes[0].Position.X + notes[0].Size.Width
	maxY := notes[0].Position.Y + notes[0].Size.Height
	for _, n := range notes[1:] {
		if n.Position.X < minX {
			minX = n.Position.X
		}
		if n.Position.Y < minY {
			minY = n.Position.Y
		}
		if n.Position.X+n.Size.Width > maxX {
			maxX = n.Position.X + n.Size.Width
		}
		if n.Position.Y+n.Size.Height > maxY {
			maxY = n.Position.Y + n.Size.Height
		}
	}
	minX -= padding
	minY -= padding
	maxX += padding
	maxY += padding

	dc := gg.NewContext(int(maxX-minX), int(maxY-minY))
	dc.SetColor(color.White)
	dc.Clear()

	ttfFont, err := truetype.Parse(gomono.TTF)
	if err != nil {
		return fmt.Errorf("failed to parse font: %v", err)
	}
	face := truetype.NewFace(ttfFont, &truetype.Options{
		Size:    fontSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	dc.SetFontFace(face)

	for _, n := range sortedByZ(notes) {
		drawNote(dc, n, minX, minY)
	}

	return dc.SavePNG(filename)
}

func sortedByZ(notes []board.Note) []board.Note {
	out := append([]board.Note(nil), notes...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].ZIndex < out[j].ZIndex })
	return out
}

func drawNote(dc *gg.Context, n board.Note, minX, minY float64) {
	x := n.Position.X - minX
	y := n.Position.Y - minY
	w, h := n.Size.Width, n.Size.Height

	fill, ok := fills[n.Color]
	if !ok {
		fill = fills[board.DefaultColor]
	}
	header, ok := headers[n.Color]
	if !ok {
		header = headers[board.DefaultColor]
	}

	// Body
	dc.SetColor(fill)
	dc.DrawRoundedRectangle(x, y, w, h, cornerRadius)
	dc.Fill()

	// Header band
	dc.SetColor(header)
	dc.DrawRoundedRectangle(x, y, w, headerHeight, cornerRadius)
	dc.Fill()
	dc.SetColor(header)
	dc.DrawRectangle(x, y+headerHeight/2, w, headerHeight/2)
	dc.Fill()

	// Border
	dc.SetLineWidth(1.0)
	dc.SetColor(color.Black)
	dc.DrawRoundedRectangle(x, y, w, h, cornerRadius)
	dc.Stroke()

	dc.SetColor(color.Black)
	if n.Title != "" {
		dc.DrawString(n.Title, x+10, y+headerHeight-9)
	}
	if n.Content != "" {
		dc.DrawStringWrapped(n.Content, x+10, y+headerHeight+6, 0, 0, w-20, 1.4, gg.AlignLeft)
	}
}
