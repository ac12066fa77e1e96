// Package ui is the terminal front end: a pannable, zoomable board of sticky
// notes driven by the gesture controller and rendered as a cell grid.
package ui

import (
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"stickpad/internal/board"
	"stickpad/internal/export"
	"stickpad/internal/geom"
	"stickpad/internal/input"
	"stickpad/internal/minimap"
	"stickpad/internal/persist"
	"stickpad/internal/share"
)

const shareBaseURL = "https://stickpad.app/board"

type Model struct {
	session *board.Session
	ctrl    *input.Controller
	bridge  *persist.Bridge
	mini    minimap.Model
	keys    KeyMap
	help    help.Model
	editor  textarea.Model

	width, height int
	selected      string // note the keyboard ops act on
	editingID     string // non-empty while the content editor is open
	editBackup    string
	showHelp      bool
	showMinimap   bool
	minimapDrag   bool // viewport rectangle is being dragged on the minimap
	status        string
}

func New(session *board.Session, ctrl *input.Controller, bridge *persist.Bridge) Model {
	ta := textarea.New()
	ta.Placeholder = "Write something..."
	ta.CharLimit = 0

	return Model{
		session: session,
		ctrl:    ctrl,
		bridge:  bridge,
		mini:    minimap.New(),
		keys:    DefaultKeyMap(),
		help:    help.New(),
		editor:  ta,
	}
}

// ReloadMsg asks the model to re-read the board from storage. The file
// watcher sends it when another process rewrites the blob.
type ReloadMsg struct{}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if m.editingID != "" {
			return m.updateEditor(msg)
		}
		return m.updateBoard(msg)

	case tea.MouseMsg:
		if m.editingID != "" {
			return m, nil
		}
		return m.updateMouse(msg)

	case ReloadMsg:
		if err := m.bridge.Load(); err != nil {
			m.status = "reload failed: " + err.Error()
		} else {
			m.status = "board reloaded from disk"
		}
		return m, nil
	}
	return m, nil
}

func (m Model) updateEditor(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case keyMatches(msg, m.keys.Save):
		// Commit the content once on exit, not per keystroke; history only
		// snapshots significant mutations anyway.
		content := m.editor.Value()
		m.session.Store.Update(m.editingID, board.Patch{Content: &content})
		m.editingID = ""
		m.editor.Blur()
		return m, nil
	case keyMatches(msg, m.keys.Cancel):
		m.session.Store.Update(m.editingID, board.Patch{Content: &m.editBackup})
		m.editingID = ""
		m.editor.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	return m, cmd
}

func (m Model) updateBoard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status = ""
	keys := m.keys

	switch {
	case keyMatches(msg, keys.Quit):
		if err := m.bridge.Close(); err != nil {
			m.status = "save failed: " + err.Error()
		}
		return m, tea.Quit

	case keyMatches(msg, keys.Help):
		m.showHelp = !m.showHelp
		return m, nil

	case keyMatches(msg, keys.Minimap):
		m.showMinimap = !m.showMinimap
		return m, nil

	case keyMatches(msg, keys.New):
		ccx, ccy := m.ctrl.View().ToCanvas(m.viewportW()/2, m.viewportH()/2)
		pos := board.Point{X: ccx, Y: ccy}
		if cfg := m.ctrl.Config(); cfg.SnapGrid {
			pos.X = geom.Snap(pos.X, cfg.GridSize)
			pos.Y = geom.Snap(pos.Y, cfg.GridSize)
		}
		if pos.X < 0 {
			pos.X = 0
		}
		if pos.Y < 0 {
			pos.Y = 0
		}
		n := m.session.Store.Create(board.Patch{Position: &pos})
		m.selected = n.ID
		return m, nil

	case keyMatches(msg, keys.Edit):
		if n, ok := m.session.Store.Get(m.selected); ok {
			m.editingID = n.ID
			m.editBackup = n.Content
			m.editor.SetValue(n.Content)
			m.editor.SetWidth(noteEditorWidth)
			m.editor.SetHeight(noteEditorHeight)
			m.editor.Focus()
		}
		return m, nil

	case keyMatches(msg, keys.Delete):
		if m.selected != "" {
			m.session.Store.Delete(m.selected)
			m.selected = ""
		}
		return m, nil

	case keyMatches(msg, keys.Color):
		if n, ok := m.session.Store.Get(m.selected); ok {
			next := n.Color.Next()
			m.session.Store.Update(n.ID, board.Patch{Color: &next})
		}
		return m, nil

	case keyMatches(msg, keys.Copy):
		if n, ok := m.session.Store.Get(m.selected); ok {
			link, err := share.Link(shareBaseURL, n)
			if err == nil {
				err = clipboard.WriteAll(link)
			}
			if err != nil {
				m.status = "copy failed: " + err.Error()
			} else {
				m.status = "share link copied"
			}
		}
		return m, nil

	case keyMatches(msg, keys.Paste):
		raw, err := clipboard.ReadAll()
		if err != nil {
			m.status = "paste failed: " + err.Error()
			return m, nil
		}
		patch, found, err := share.FromURL(raw)
		if !found || err != nil {
			if patch, err = share.Decode(raw); err != nil {
				m.status = "clipboard has no share link"
				return m, nil
			}
		}
		n := m.session.Store.Create(patch)
		m.selected = n.ID
		m.status = "imported shared note"
		return m, nil

	case keyMatches(msg, keys.Undo):
		if !m.session.Undo() {
			m.status = "nothing to undo"
		}
		return m, nil

	case keyMatches(msg, keys.Redo):
		if !m.session.Redo() {
			m.status = "nothing to redo"
		}
		return m, nil

	case keyMatches(msg, keys.Clear):
		m.session.Store.Clear()
		m.selected = ""
		m.status = "board cleared"
		return m, nil

	case keyMatches(msg, keys.Export):
		if err := export.ToPNG("board.png", m.session.Store.Notes()); err != nil {
			m.status = "export failed: " + err.Error()
		} else {
			m.status = "exported board.png"
		}
		return m, nil

	case keyMatches(msg, keys.Grid):
		cfg := m.ctrl.Config()
		cfg.SnapGrid = !cfg.SnapGrid
		m.ctrl.SetConfig(cfg)
		return m, nil

	case keyMatches(msg, keys.Hand):
		cfg := m.ctrl.Config()
		cfg.HandTool = !cfg.HandTool
		m.ctrl.SetConfig(cfg)
		return m, nil

	case keyMatches(msg, keys.PanUp):
		m.panBy(0, CellHeight*2)
		return m, nil
	case keyMatches(msg, keys.PanDown):
		m.panBy(0, -CellHeight*2)
		return m, nil
	case keyMatches(msg, keys.PanLeft):
		m.panBy(CellWidth*4, 0)
		return m, nil
	case keyMatches(msg, keys.PanRight):
		m.panBy(-CellWidth*4, 0)
		return m, nil

	case keyMatches(msg, keys.ZoomIn):
		m.zoomAtCenter(geom.WheelStep)
		return m, nil
	case keyMatches(msg, keys.ZoomOut):
		m.zoomAtCenter(-geom.WheelStep)
		return m, nil

	case keyMatches(msg, keys.ResetView):
		m.ctrl.Reset()
		return m, nil
	}
	return m, nil
}

func (m *Model) panBy(dx, dy float64) {
	v := m.ctrl.View()
	v.OffsetX += dx
	v.OffsetY += dy
	m.ctrl.SetView(v)
}

func (m *Model) zoomAtCenter(delta float64) {
	v := m.ctrl.View()
	m.ctrl.SetView(v.ZoomAt(m.viewportW()/2, m.viewportH()/2, v.Scale+delta))
}

// updateMouse dispatches on Action, not the legacy Type field: with cell
// motion tracking the terminal only reports motion while a button is held,
// and those events carry the held button, so Type stays MouseLeft for the
// whole drag.
func (m Model) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	vx, vy := cellToViewport(msg.X, msg.Y)

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		if msg.Ctrl {
			m.ctrl.Handle(input.Event{Kind: input.Wheel, X: vx, Y: vy, Wheel: 1, Zoom: true})
		} else {
			m.panBy(0, CellHeight)
		}
		return m, nil

	case tea.MouseButtonWheelDown:
		if msg.Ctrl {
			m.ctrl.Handle(input.Event{Kind: input.Wheel, X: vx, Y: vy, Wheel: -1, Zoom: true})
		} else {
			m.panBy(0, -CellHeight)
		}
		return m, nil
	}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		if m.showMinimap {
			if mx, my, ok := m.minimapCell(msg.X, msg.Y); ok {
				return m.minimapPress(mx, my), nil
			}
		}
		target, id := hitTest(m.session.Store.Notes(), m.ctrl.View(), vx, vy)
		if id != "" {
			m.selected = id
		}
		m.ctrl.Handle(input.Event{Kind: input.Down, X: vx, Y: vy, Target: target, NoteID: id})

	case tea.MouseActionMotion:
		if m.minimapDrag {
			if mx, my, ok := m.minimapCell(msg.X, msg.Y); ok {
				p := m.mini.CanvasPoint(mx, my)
				m.ctrl.NavigateTo(p.X, p.Y, m.viewportW(), m.viewportH())
			}
			return m, nil
		}
		m.ctrl.Handle(input.Event{Kind: input.Move, X: vx, Y: vy})

	case tea.MouseActionRelease:
		if m.minimapDrag {
			m.minimapDrag = false
			return m, nil
		}
		m.ctrl.Handle(input.Event{Kind: input.Up, X: vx, Y: vy})
	}
	return m, nil
}

// minimapPress starts a viewport drag when the press lands inside the
// viewport rectangle; anywhere else on the minimap is a single jump.
func (m Model) minimapPress(mx, my float64) Model {
	vr := m.mini.ViewportRect(m.ctrl.View(), m.viewportW(), m.viewportH())
	if vr.Contains(mx, my) {
		m.minimapDrag = true
		return m
	}
	p := m.mini.CanvasPoint(mx, my)
	m.ctrl.NavigateTo(p.X, p.Y, m.viewportW(), m.viewportH())
	return m
}

func (m Model) viewportW() float64 { return float64(m.width) * CellWidth }

// viewportH excludes the status line.
func (m Model) viewportH() float64 {
	h := m.height - 1
	if h < 1 {
		h = 1
	}
	return float64(h) * CellHeight
}

func (m Model) statusLine() string {
	cfg := m.ctrl.Config()
	tool := "select"
	if cfg.HandTool {
		tool = "hand"
	}
	grid := "off"
	if cfg.SnapGrid {
		grid = fmt.Sprintf("%.0f", cfg.GridSize)
	}
	left := fmt.Sprintf(" %d notes | zoom %.0f%% | tool: %s | grid: %s",
		m.session.Store.Len(), m.ctrl.View().Scale*100, tool, grid)
	if m.status != "" {
		left += " | " + m.status
	}
	return left
}
