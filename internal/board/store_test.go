package board

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateDefaults(t *testing.T) {
	s := NewStore()

	n := s.Create(Patch{})

	assert.NotEmpty(t, n.ID)
	assert.Equal(t, DefaultColor, n.Color)
	assert.Equal(t, Size{Width: DefaultWidth, Height: DefaultHeight}, n.Size)
	assert.Equal(t, 1, n.ZIndex)
	assert.False(t, n.CreatedAt.IsZero())
	assert.Equal(t, n.CreatedAt, n.UpdatedAt)
}

func TestCreateAssignsIncreasingZ(t *testing.T) {
	s := NewStore()

	a := s.Create(Patch{})
	b := s.Create(Patch{})
	c := s.Create(Patch{})

	assert.Less(t, a.ZIndex, b.ZIndex)
	assert.Less(t, b.ZIndex, c.ZIndex)
}

func TestUpdateMergesAndRefreshesTimestamp(t *testing.T) {
	s := NewStore()
	n := s.Create(Patch{})

	title := "groceries"
	pos := Point{X: 40, Y: 60}
	got, ok := s.Update(n.ID, Patch{Title: &title, Position: &pos})

	require.True(t, ok)
	assert.Equal(t, "groceries", got.Title)
	assert.Equal(t, pos, got.Position)
	assert.Equal(t, n.Content, got.Content)
	assert.False(t, got.UpdatedAt.Before(n.UpdatedAt))
}

func TestUpdateMissingIDIsSilentNoop(t *testing.T) {
	s := NewStore()
	s.Create(Patch{})

	_, ok := s.Update("no-such-note", Patch{Title: strp("x")})

	assert.False(t, ok)
	assert.Equal(t, 1, s.Len())
}

func TestUpdateRejectsNonFinitePosition(t *testing.T) {
	s := NewStore()
	n := s.Create(Patch{Position: &Point{X: 5, Y: 5}})

	for _, bad := range []Point{
		{X: math.NaN(), Y: 0},
		{X: 0, Y: math.Inf(1)},
	} {
		bad := bad
		_, ok := s.Update(n.ID, Patch{Position: &bad})
		assert.False(t, ok)
	}

	got, _ := s.Get(n.ID)
	assert.Equal(t, Point{X: 5, Y: 5}, got.Position)
}

func TestUpdateIgnoresInvalidColor(t *testing.T) {
	s := NewStore()
	n := s.Create(Patch{})

	bad := Color("chartreuse")
	got, ok := s.Update(n.ID, Patch{Color: &bad})

	assert.True(t, ok)
	assert.Equal(t, DefaultColor, got.Color)
}

func TestBringToFrontIsStrictlyAboveAllOthers(t *testing.T) {
	s := NewStore()
	a := s.Create(Patch{})
	b := s.Create(Patch{})
	c := s.Create(Patch{})

	for _, id := range []string{a.ID, c.ID, b.ID, a.ID} {
		s.BringToFront(id)
		raised, _ := s.Get(id)
		for _, other := range s.Notes() {
			if other.ID == id {
				continue
			}
			assert.Greater(t, raised.ZIndex, other.ZIndex)
		}
	}
}

func TestClearResetsZCounter(t *testing.T) {
	s := NewStore()
	s.Create(Patch{})
	s.Create(Patch{})

	s.Clear()
	assert.Equal(t, 0, s.Len())

	n := s.Create(Patch{})
	assert.Equal(t, 1, n.ZIndex)
}

func TestNotesOrderedByZ(t *testing.T) {
	s := NewStore()
	a := s.Create(Patch{})
	b := s.Create(Patch{})
	s.BringToFront(a.ID)

	notes := s.Notes()
	require.Len(t, notes, 2)
	assert.Equal(t, b.ID, notes[0].ID)
	assert.Equal(t, a.ID, notes[1].ID)
}

func TestReplaceFloorsZCounterAtTen(t *testing.T) {
	s := NewStore()
	s.Replace([]Note{{ID: "a", ZIndex: 3}})

	n := s.Create(Patch{})
	assert.Equal(t, 11, n.ZIndex)

	// Replacing with nothing resets the counter entirely.
	s.Replace(nil)
	n = s.Create(Patch{})
	assert.Equal(t, 1, n.ZIndex)
}

func TestObserverSignificance(t *testing.T) {
	s := NewStore()
	var changes []Change
	s.Observe(func(c Change) { changes = append(changes, c) })

	n := s.Create(Patch{})
	s.Update(n.ID, Patch{Content: strp("typing...")})
	s.Update(n.ID, Patch{Position: &Point{X: 1, Y: 2}})
	s.BringToFront(n.ID)
	s.Delete(n.ID)

	require.Len(t, changes, 5)
	assert.True(t, changes[0].Significant)  // create
	assert.False(t, changes[1].Significant) // content keystrokes
	assert.True(t, changes[2].Significant)  // move
	assert.False(t, changes[3].Significant) // z bump only
	assert.True(t, changes[4].Significant)  // delete
}

func TestColorNextCycles(t *testing.T) {
	c := DefaultColor
	seen := map[Color]bool{}
	for range Palette {
		seen[c] = true
		c = c.Next()
	}
	assert.Equal(t, DefaultColor, c)
	assert.Len(t, seen, len(Palette))
}

func strp(s string) *string { return &s }
