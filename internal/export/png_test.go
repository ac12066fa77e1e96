package export

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stickpad/internal/board"
)

func TestToPNGEmptyBoard(t *testing.T) {
	err := ToPNG(filepath.Join(t.TempDir(), "out.png"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nothing to export")
}

func TestToPNGWritesDecodableImage(t *testing.T) {
	notes := []board.Note{
		{
			ID:       "a",
			Title:    "left",
			Content:  "some longer content that should wrap onto multiple lines",
			Position: board.Point{X: 0, Y: 0},
			Size:     board.Size{Width: 220, Height: 200},
			Color:    board.ColorYellow,
			ZIndex:   11,
		},
		{
			ID:       "b",
			Title:    "right",
			Position: board.Point{X: 400, Y: 120},
			Size:     board.Size{Width: 220, Height: 200},
			Color:    board.ColorBlue,
			ZIndex:   12,
		},
	}

	path := filepath.Join(t.TempDir(), "board.png")
	require.NoError(t, ToPNG(path, notes))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	img, err := png.Decode(f)
	require.NoError(t, err)

	// 0..620 content plus 40px padding on each side.
	assert.Equal(t, 700, img.Bounds().Dx())
	assert.Equal(t, 400, img.Bounds().Dy())
}

func TestSortedByZDrawsBottomFirst(t *testing.T) {
	notes := []board.Note{
		{ID: "top", ZIndex: 30},
		{ID: "bottom", ZIndex: 10},
		{ID: "middle", ZIndex: 20},
	}

	out := sortedByZ(notes)
	assert.Equal(t, "bottom", out[0].ID)
	assert.Equal(t, "middle", out[1].ID)
	assert.Equal(t, "top", out[2].ID)
	// Input order is untouched.
	assert.Equal(t, "top", notes[0].ID)
}
