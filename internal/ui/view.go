package ui

import (
	"math"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"stickpad/internal/board"
)

const (
	noteEditorWidth  = 48
	noteEditorHeight = 10

	minimapCols = 24
	minimapRows = 12
)

func keyMatches(msg tea.KeyMsg, b key.Binding) bool {
	return key.Matches(msg, b)
}

var colorStyles = map[board.Color]lipgloss.Style{
	board.ColorYellow: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
	board.ColorGreen:  lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	board.ColorBlue:   lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
	board.ColorPurple: lipgloss.NewStyle().Foreground(lipgloss.Color("13")),
	board.ColorPink:   lipgloss.NewStyle().Foreground(lipgloss.Color("205")),
	board.ColorOrange: lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
}

var (
	gridStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Bold(true)
	minimapStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	statusStyle   = lipgloss.NewStyle().Reverse(true)
)

// cellGrid is a rune buffer with one style reference per cell.
type cellGrid struct {
	w, h   int
	runes  []rune
	styles []*lipgloss.Style
}

func newCellGrid(w, h int) *cellGrid {
	g := &cellGrid{w: w, h: h, runes: make([]rune, w*h), styles: make([]*lipgloss.Style, w*h)}
	for i := range g.runes {
		g.runes[i] = ' '
	}
	return g
}

func (g *cellGrid) set(x, y int, r rune, style *lipgloss.Style) {
	if x < 0 || x >= g.w || y < 0 || y >= g.h {
		return
	}
	g.runes[y*g.w+x] = r
	g.styles[y*g.w+x] = style
}

func (g *cellGrid) text(x, y int, s string, style *lipgloss.Style) {
	for i, r := range []rune(s) {
		g.set(x+i, y, r, style)
	}
}

// String renders the grid, grouping runs of equally styled cells so each row
// costs a handful of escape sequences instead of one per cell.
func (g *cellGrid) String() string {
	var b strings.Builder
	for y := 0; y < g.h; y++ {
		x := 0
		for x < g.w {
			style := g.styles[y*g.w+x]
			end := x
			for end < g.w && g.styles[y*g.w+end] == style {
				end++
			}
			run := string(g.runes[y*g.w+x : y*g.w+end])
			if style != nil {
				b.WriteString(style.Render(run))
			} else {
				b.WriteString(run)
			}
			x = end
		}
		if y < g.h-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m Model) View() string {
	if m.width < 1 || m.height < 2 {
		return "loading..."
	}
	if m.showHelp {
		m.help.ShowAll = true
		return m.help.View(m.keys)
	}

	rows := m.height - 1
	grid := newCellGrid(m.width, rows)

	cfg := m.ctrl.Config()
	if cfg.SnapGrid {
		m.drawGridDots(grid, cfg.GridSize)
	}

	// Notes() is already bottom-to-top; the active gesture's transient
	// geometry replaces the stored values for that one note.
	activeID, activePos, activeSize, hasActive := m.ctrl.Active()
	for _, n := range m.session.Store.Notes() {
		if hasActive && n.ID == activeID {
			n.Position = activePos
			n.Size = activeSize
		}
		m.drawNote(grid, n)
	}

	if m.showMinimap {
		m.drawMinimap(grid)
	}

	if m.editingID != "" {
		return m.editorView(grid)
	}

	status := m.statusLine()
	if len(status) < m.width {
		status += strings.Repeat(" ", m.width-len(status))
	}
	return grid.String() + "\n" + statusStyle.Render(status[:m.width])
}

func (m Model) drawGridDots(g *cellGrid, gridSize float64) {
	t := m.ctrl.View()
	left, top := t.ToCanvas(0, 0)
	right, bottom := t.ToCanvas(m.viewportW(), m.viewportH())

	startX := math.Floor(left/gridSize) * gridSize
	startY := math.Floor(top/gridSize) * gridSize
	for cy := startY; cy <= bottom; cy += gridSize {
		for cx := startX; cx <= right; cx += gridSize {
			vx, vy := t.ToViewport(cx, cy)
			g.set(int(vx/CellWidth), int(vy/CellHeight), '·', &gridStyle)
		}
	}
}

func (m Model) drawNote(g *cellGrid, n board.Note) {
	x, y, w, h := noteViewportRect(n, m.ctrl.View())
	cx := int(math.Round(x / CellWidth))
	cy := int(math.Round(y / CellHeight))
	cw := int(math.Round(w / CellWidth))
	ch := int(math.Round(h / CellHeight))
	if cw < 3 {
		cw = 3
	}
	if ch < 2 {
		ch = 2
	}

	style, ok := colorStyles[n.Color]
	if !ok {
		style = colorStyles[board.DefaultColor]
	}
	border := &style
	tl, tr, bl, hor, ver := '┌', '┐', '└', '─', '│'
	if n.ID == m.selected {
		border = &selectedStyle
		tl, tr, bl, hor, ver = '╔', '╗', '╚', '═', '║'
	}

	// Frame
	g.set(cx, cy, tl, border)
	g.set(cx+cw-1, cy, tr, border)
	g.set(cx, cy+ch-1, bl, border)
	for i := 1; i < cw-1; i++ {
		g.set(cx+i, cy, hor, border)
		g.set(cx+i, cy+ch-1, hor, border)
	}
	for i := 1; i < ch-1; i++ {
		g.set(cx, cy+i, ver, border)
		g.set(cx+cw-1, cy+i, ver, border)
	}
	// Resize handle on the bottom-right corner
	g.set(cx+cw-1, cy+ch-1, '◢', border)

	// Interior
	for yy := 1; yy < ch-1; yy++ {
		for xx := 1; xx < cw-1; xx++ {
			g.set(cx+xx, cy+yy, ' ', nil)
		}
	}

	// Title sits in the header row
	title := n.Title
	if title == "" {
		title = "untitled"
	}
	g.text(cx+1, cy, clip(" "+title+" ", cw-2), border)

	// Content fills the body, clipped to the frame
	lines := strings.Split(n.Content, "\n")
	for i, line := range lines {
		if i+1 >= ch-1 {
			break
		}
		g.text(cx+1, cy+1+i, clip(line, cw-2), &style)
	}
}

func clip(s string, max int) string {
	if max <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max == 1 {
		return "…"
	}
	return string(r[:max-1]) + "…"
}

// minimapOrigin is the top-left cell of the minimap block.
func (m Model) minimapOrigin() (int, int) {
	return m.width - minimapCols - 1, 1
}

// minimapCell maps a terminal cell inside the minimap block to minimap pixel
// coordinates.
func (m Model) minimapCell(cx, cy int) (float64, float64, bool) {
	ox, oy := m.minimapOrigin()
	if cx < ox || cx >= ox+minimapCols || cy < oy || cy >= oy+minimapRows {
		return 0, 0, false
	}
	mx := float64(cx-ox) / float64(minimapCols) * m.mini.Size
	my := float64(cy-oy) / float64(minimapRows) * m.mini.Size
	return mx, my, true
}

func (m Model) drawMinimap(g *cellGrid) {
	ox, oy := m.minimapOrigin()

	for yy := 0; yy < minimapRows; yy++ {
		for xx := 0; xx < minimapCols; xx++ {
			g.set(ox+xx, oy+yy, '░', &minimapStyle)
		}
	}

	// Viewport footprint
	vr := m.mini.ViewportRect(m.ctrl.View(), m.viewportW(), m.viewportH())
	for yy := 0; yy < minimapRows; yy++ {
		for xx := 0; xx < minimapCols; xx++ {
			mx := float64(xx) / float64(minimapCols) * m.mini.Size
			my := float64(yy) / float64(minimapRows) * m.mini.Size
			if vr.Contains(mx, my) {
				g.set(ox+xx, oy+yy, '▒', &minimapStyle)
			}
		}
	}

	// Note markers on top
	for _, n := range m.session.Store.Notes() {
		r := m.mini.NoteRect(n)
		xx := int(r.X / m.mini.Size * float64(minimapCols))
		yy := int(r.Y / m.mini.Size * float64(minimapRows))
		if xx >= 0 && xx < minimapCols && yy >= 0 && yy < minimapRows {
			style, ok := colorStyles[n.Color]
			if !ok {
				style = colorStyles[board.DefaultColor]
			}
			g.set(ox+xx, oy+yy, '■', &style)
		}
	}
}

func (m Model) editorView(g *cellGrid) string {
	n, _ := m.session.Store.Get(m.editingID)
	title := n.Title
	if title == "" {
		title = "untitled"
	}
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1).
		Render(title + "\n\n" + m.editor.View())

	overlay := lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, box)
	status := " editing | esc: done | ctrl+q: discard"
	if len(status) < m.width {
		status += strings.Repeat(" ", m.width-len(status))
	}
	return overlay + "\n" + statusStyle.Render(status[:m.width])
}
