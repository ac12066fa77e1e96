package ui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stickpad/internal/board"
	"stickpad/internal/input"
	"stickpad/internal/persist"
)

func newModel(t *testing.T) (Model, *board.Store) {
	t.Helper()
	st := board.NewStore()
	sess := board.NewSession(st, board.NewHistory(0))
	ctrl := input.NewController(st, input.Config{GridSize: 20})
	bridge := persist.NewBridge(st, &persist.MemBlob{}, time.Hour)

	m := New(sess, ctrl, bridge)
	sized, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return sized.(Model), st
}

func press(t *testing.T, m Model, r rune) Model {
	t.Helper()
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	return next.(Model)
}

func TestNewNoteKeySelectsIt(t *testing.T) {
	m, st := newModel(t)

	m = press(t, m, 'n')

	require.Equal(t, 1, st.Len())
	assert.Equal(t, st.Notes()[0].ID, m.selected)
}

func TestDeleteKeyRemovesSelected(t *testing.T) {
	m, st := newModel(t)
	m = press(t, m, 'n')

	m = press(t, m, 'd')

	assert.Equal(t, 0, st.Len())
	assert.Empty(t, m.selected)
}

func TestColorKeyCyclesSelected(t *testing.T) {
	m, st := newModel(t)
	m = press(t, m, 'n')

	m = press(t, m, 'c')

	n, _ := st.Get(m.selected)
	assert.Equal(t, board.DefaultColor.Next(), n.Color)
}

func TestUndoKeyRevertsCreate(t *testing.T) {
	m, st := newModel(t)
	m = press(t, m, 'n')
	m = press(t, m, 'n')
	require.Equal(t, 2, st.Len())

	m = press(t, m, 'u')
	assert.Equal(t, 1, st.Len())

	m = press(t, m, 'r')
	assert.Equal(t, 2, st.Len())
}

func TestGridAndHandToggles(t *testing.T) {
	m, _ := newModel(t)

	m = press(t, m, 'g')
	assert.True(t, m.ctrl.Config().SnapGrid)
	m = press(t, m, 'g')
	assert.False(t, m.ctrl.Config().SnapGrid)

	m = press(t, m, 'h')
	assert.True(t, m.ctrl.Config().HandTool)
}

func mouse(t *testing.T, m Model, msg tea.MouseMsg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

func TestClickSelectsNoteUnderPointer(t *testing.T) {
	m, st := newModel(t)
	pos := board.Point{X: 0, Y: 0}
	n := st.Create(board.Patch{Position: &pos})

	m = mouse(t, m, tea.MouseMsg{X: 5, Y: 3, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	assert.Equal(t, n.ID, m.selected)

	m = mouse(t, m, tea.MouseMsg{X: 5, Y: 3, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
	assert.Equal(t, input.Idle, m.ctrl.State())
}

func TestMouseDragMovesNote(t *testing.T) {
	m, st := newModel(t)
	pos := board.Point{X: 0, Y: 0}
	n := st.Create(board.Patch{Position: &pos})

	// Cell motion tracking reports drag steps with the held button, so the
	// legacy Type field stays MouseLeft for the whole gesture.
	m = mouse(t, m, tea.MouseMsg{X: 2, Y: 0, Type: tea.MouseLeft, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	m = mouse(t, m, tea.MouseMsg{X: 7, Y: 3, Type: tea.MouseLeft, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	m = mouse(t, m, tea.MouseMsg{X: 12, Y: 5, Type: tea.MouseLeft, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	m = mouse(t, m, tea.MouseMsg{X: 12, Y: 5, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})

	got, _ := st.Get(n.ID)
	assert.Equal(t, board.Point{X: 10 * CellWidth, Y: 5 * CellHeight}, got.Position)
	assert.Equal(t, input.Idle, m.ctrl.State())
}

func TestMouseDragPansCanvas(t *testing.T) {
	m, _ := newModel(t)

	m = mouse(t, m, tea.MouseMsg{X: 40, Y: 20, Type: tea.MouseLeft, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	m = mouse(t, m, tea.MouseMsg{X: 43, Y: 22, Type: tea.MouseLeft, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	m = mouse(t, m, tea.MouseMsg{X: 43, Y: 22, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})

	v := m.ctrl.View()
	assert.Equal(t, 3*CellWidth, v.OffsetX)
	assert.Equal(t, 2*CellHeight, v.OffsetY)
}

func TestEditCommitsContentOnce(t *testing.T) {
	m, st := newModel(t)
	m = press(t, m, 'n')
	id := m.selected
	before := m.session.History.Len()

	m = press(t, m, 'e')
	require.Equal(t, id, m.editingID)

	m = press(t, m, 'x')
	m = press(t, m, 'y')
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEscape})
	m = next.(Model)

	assert.Empty(t, m.editingID)
	n, _ := st.Get(id)
	assert.Equal(t, "xy", n.Content)
	// Content edits never grow history.
	assert.Equal(t, before, m.session.History.Len())
}

func TestHelpToggleRenders(t *testing.T) {
	m, _ := newModel(t)

	m = press(t, m, '?')
	assert.True(t, m.showHelp)
	assert.NotEmpty(t, m.View())

	m = press(t, m, '?')
	assert.False(t, m.showHelp)
}

func TestViewRendersStatusLine(t *testing.T) {
	m, _ := newModel(t)
	m = press(t, m, 'n')

	out := m.View()
	assert.Contains(t, out, "1 notes")
	assert.Contains(t, out, "100%")
}

func TestMinimapClickOutsideViewportJumps(t *testing.T) {
	m, _ := newModel(t)
	m = press(t, m, 'm')
	require.True(t, m.showMinimap)

	before := m.ctrl.View()
	ox, oy := m.minimapOrigin()
	// (ox+1, oy+1) projects well outside the identity viewport rectangle.
	m = mouse(t, m, tea.MouseMsg{X: ox + 1, Y: oy + 1, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})

	assert.NotEqual(t, before, m.ctrl.View())
	// A minimap click navigates; it must not start a drag or pan.
	assert.Equal(t, input.Idle, m.ctrl.State())
}

func TestMinimapViewportDragFollowsPointer(t *testing.T) {
	m, _ := newModel(t)
	m = press(t, m, 'm')
	require.True(t, m.showMinimap)

	// At identity the viewport rectangle's top-left projects to minimap
	// pixel (75, 75), which is cell (ox+12, oy+6) of the 24x12 block.
	before := m.ctrl.View()
	ox, oy := m.minimapOrigin()
	m = mouse(t, m, tea.MouseMsg{X: ox + 12, Y: oy + 6, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	require.True(t, m.minimapDrag)
	assert.Equal(t, before, m.ctrl.View())

	m = mouse(t, m, tea.MouseMsg{X: ox + 14, Y: oy + 7, Type: tea.MouseLeft, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	assert.NotEqual(t, before, m.ctrl.View())
	assert.Equal(t, input.Idle, m.ctrl.State())

	m = mouse(t, m, tea.MouseMsg{X: ox + 14, Y: oy + 7, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
	assert.False(t, m.minimapDrag)
}
