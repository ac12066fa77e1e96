package board

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stateNamed(name string) []Note {
	return []Note{{ID: name}}
}

func TestCommitUndoRedo(t *testing.T) {
	h := NewHistory(0)

	h.Commit(stateNamed("a"))
	h.Commit(stateNamed("b"))
	h.Commit(stateNamed("c"))

	assert.True(t, h.CanUndo())
	assert.False(t, h.CanRedo())

	notes, ok := h.Undo()
	require.True(t, ok)
	assert.Equal(t, "b", notes[0].ID)
	assert.True(t, h.CanRedo())

	notes, ok = h.Undo()
	require.True(t, ok)
	assert.Equal(t, "a", notes[0].ID)
	assert.False(t, h.CanUndo())

	_, ok = h.Undo()
	assert.False(t, ok)

	notes, ok = h.Redo()
	require.True(t, ok)
	assert.Equal(t, "b", notes[0].ID)
}

func TestUndoRedoAreInverse(t *testing.T) {
	h := NewHistory(0)
	for i := 0; i < 6; i++ {
		h.Commit(stateNamed(fmt.Sprintf("s%d", i)))
	}

	for h.CanUndo() {
		before := h.snapshots[h.index][0].ID
		_, ok := h.Undo()
		require.True(t, ok)
		after, ok := h.Redo()
		require.True(t, ok)
		assert.Equal(t, before, after[0].ID)
		h.Undo()
	}
}

func TestCommitDiscardsRedoTail(t *testing.T) {
	h := NewHistory(0)
	h.Commit(stateNamed("a"))
	h.Commit(stateNamed("b"))
	h.Commit(stateNamed("c"))

	h.Undo()
	h.Undo()
	h.Commit(stateNamed("fork"))

	assert.False(t, h.CanRedo())
	assert.Equal(t, 2, h.Len())

	notes, ok := h.Undo()
	require.True(t, ok)
	assert.Equal(t, "a", notes[0].ID)
}

func TestBoundedRingDropsOldest(t *testing.T) {
	const limit = 5
	h := NewHistory(limit)
	for i := 0; i < limit+3; i++ {
		h.Commit(stateNamed(fmt.Sprintf("s%d", i)))
	}

	assert.Equal(t, limit, h.Len())

	// Walking all the way back lands on the oldest retained state, never
	// beyond it.
	var last []Note
	steps := 0
	for h.CanUndo() {
		last, _ = h.Undo()
		steps++
	}
	assert.Equal(t, limit-1, steps)
	assert.Equal(t, "s3", last[0].ID)
}

func TestResetCollapsesTimeline(t *testing.T) {
	h := NewHistory(0)
	for i := 0; i < 5; i++ {
		h.Commit(stateNamed(fmt.Sprintf("s%d", i)))
	}

	h.Reset(nil)

	assert.Equal(t, 1, h.Len())
	assert.False(t, h.CanUndo())
	assert.False(t, h.CanRedo())
}

func TestSnapshotsAreIsolated(t *testing.T) {
	h := NewHistory(0)
	state := stateNamed("a")
	h.Commit(state)

	state[0].ID = "mutated"
	h.Commit(state)

	h.Undo()
	notes, _ := h.Redo()
	assert.Equal(t, "mutated", notes[0].ID)
	first, _ := h.Undo()
	assert.Equal(t, "a", first[0].ID)
}
