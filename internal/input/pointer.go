// Package input turns raw pointer traffic into board and transform calls.
// Mouse and touch are unified behind one event model: a position, an optional
// second point for pinch, and start/move/end/cancel kinds.
package input

import (
	"math"

	"stickpad/internal/board"
	"stickpad/internal/geom"
	"stickpad/pkg/logger"
)

type Kind int

const (
	Down Kind = iota
	Move
	Up
	// Cancel is treated exactly like Up: losing pointer capture commits the
	// transient state instead of abandoning the note mid-gesture.
	Cancel
	Wheel
)

// Target identifies what the pointer landed on; hit testing is the caller's
// job since only the renderer knows the layout.
type Target int

const (
	TargetCanvas Target = iota
	TargetNoteHeader
	TargetNoteBody
	TargetNoteResize
)

type Event struct {
	Kind   Kind
	X      float64
	Y      float64
	Second *geom.Point // second touch point; enables pinch zoom
	Wheel  float64     // wheel steps, positive zooms in
	Zoom   bool        // zoom modifier (ctrl/meta) held
	Target Target
	NoteID string
}

type State int

const (
	Idle State = iota
	PanningCanvas
	DraggingNote
	ResizingNote
	PinchZooming
)

type Config struct {
	GridSize float64
	SnapGrid bool
	// HandTool forces pointer-downs to pan the canvas even over notes.
	HandTool bool
}

// Controller is the gesture state machine. It owns the viewport transform
// and writes committed gestures to the store on pointer-up; during a gesture
// the transient position/size is exposed via Active for rendering only.
type Controller struct {
	store *board.Store
	view  geom.Transform
	cfg   Config

	state  State
	noteID string

	startX, startY float64     // pointer position at gesture start (viewport)
	panOX, panOY   float64     // pointer-to-offset at pan start
	origin         board.Point // note position at drag start
	originSize     board.Size  // note size at resize start
	pending        board.Point
	pendingSize    board.Size
	moved          bool
	pinchDist      float64
}

func NewController(store *board.Store, cfg Config) *Controller {
	if cfg.GridSize <= 0 {
		cfg.GridSize = 20
	}
	return &Controller{store: store, view: geom.Identity(), cfg: cfg}
}

func (c *Controller) View() geom.Transform     { return c.view }
func (c *Controller) SetView(t geom.Transform) { c.view = t }
func (c *Controller) Config() Config           { return c.cfg }
func (c *Controller) SetConfig(cfg Config)     { c.cfg = cfg }
func (c *Controller) State() State             { return c.state }

// Active reports the note under manipulation and its transient geometry.
// The store still holds the last committed values until the gesture ends.
func (c *Controller) Active() (id string, pos board.Point, size board.Size, ok bool) {
	if c.state != DraggingNote && c.state != ResizingNote {
		return "", board.Point{}, board.Size{}, false
	}
	return c.noteID, c.pending, c.pendingSize, true
}

// NavigateTo pans the view so a canvas point sits at the viewport center.
func (c *Controller) NavigateTo(cx, cy, viewportW, viewportH float64) {
	c.view = c.view.CenterOn(cx, cy, viewportW, viewportH)
}

// Reset drops any in-flight gesture and restores the identity transform.
// This is the recovery path after a rendering error; note data is untouched.
func (c *Controller) Reset() {
	c.state = Idle
	c.view = geom.Identity()
}

func (c *Controller) Handle(ev Event) {
	switch ev.Kind {
	case Down:
		c.handleDown(ev)
	case Move:
		c.handleMove(ev)
	case Up, Cancel:
		c.handleUp()
	case Wheel:
		c.handleWheel(ev)
	}
}

func (c *Controller) handleDown(ev Event) {
	if c.state != Idle {
		return
	}
	if ev.Second != nil && (ev.Target == TargetCanvas || c.cfg.HandTool) {
		c.state = PinchZooming
		c.pinchDist = dist(ev.X, ev.Y, ev.Second.X, ev.Second.Y)
		return
	}
	if c.cfg.HandTool || ev.Target == TargetCanvas {
		c.state = PanningCanvas
		c.panOX = ev.X - c.view.OffsetX
		c.panOY = ev.Y - c.view.OffsetY
		return
	}

	switch ev.Target {
	case TargetNoteHeader:
		n, ok := c.store.Get(ev.NoteID)
		if !ok {
			return
		}
		c.store.BringToFront(ev.NoteID)
		c.state = DraggingNote
		c.noteID = ev.NoteID
		c.startX, c.startY = ev.X, ev.Y
		// Captured once from live state, never re-derived from the renderer.
		c.origin = n.Position
		c.pending = n.Position
		c.pendingSize = n.Size
		c.moved = false
	case TargetNoteResize:
		n, ok := c.store.Get(ev.NoteID)
		if !ok {
			return
		}
		c.store.BringToFront(ev.NoteID)
		c.state = ResizingNote
		c.noteID = ev.NoteID
		c.startX, c.startY = ev.X, ev.Y
		c.originSize = n.Size
		c.pending = n.Position
		c.pendingSize = n.Size
		c.moved = false
	case TargetNoteBody:
		c.store.BringToFront(ev.NoteID)
	}
}

func (c *Controller) handleMove(ev Event) {
	switch c.state {
	case PanningCanvas:
		c.view.OffsetX = ev.X - c.panOX
		c.view.OffsetY = ev.Y - c.panOY

	case DraggingNote:
		// A viewport delta tracks the pointer 1:1 only after dividing by the
		// current scale.
		dx := (ev.X - c.startX) / c.view.Scale
		dy := (ev.Y - c.startY) / c.view.Scale
		nx, ny := c.origin.X+dx, c.origin.Y+dy
		if c.cfg.SnapGrid {
			nx = geom.Snap(nx, c.cfg.GridSize)
			ny = geom.Snap(ny, c.cfg.GridSize)
		}
		// Notes never go negative; panning covers the rest of the plane.
		if nx < 0 {
			nx = 0
		}
		if ny < 0 {
			ny = 0
		}
		if !geom.Finite(nx, ny) {
			logger.Sugar.Warnw("discarding drag update", "note", c.noteID)
			return
		}
		c.pending = board.Point{X: nx, Y: ny}
		c.moved = true

	case ResizingNote:
		dx := (ev.X - c.startX) / c.view.Scale
		dy := (ev.Y - c.startY) / c.view.Scale
		w, h := c.originSize.Width+dx, c.originSize.Height+dy
		if c.cfg.SnapGrid {
			w = geom.Snap(w, c.cfg.GridSize)
			h = geom.Snap(h, c.cfg.GridSize)
		}
		if !geom.Finite(w, h) {
			logger.Sugar.Warnw("discarding resize update", "note", c.noteID)
			return
		}
		c.pendingSize = board.ClampSize(board.Size{Width: w, Height: h})
		c.moved = true

	case PinchZooming:
		if ev.Second == nil {
			return
		}
		midX := (ev.X + ev.Second.X) / 2
		midY := (ev.Y + ev.Second.Y) / 2
		d := dist(ev.X, ev.Y, ev.Second.X, ev.Second.Y)
		delta := (d - c.pinchDist) * geom.PinchSensitivity
		c.view = c.view.ZoomAt(midX, midY, c.view.Scale+delta)
		c.pinchDist = d
	}
}

func (c *Controller) handleUp() {
	switch c.state {
	case DraggingNote:
		if c.moved {
			pos := c.pending
			c.store.Update(c.noteID, board.Patch{Position: &pos})
		}
	case ResizingNote:
		if c.moved {
			size := c.pendingSize
			c.store.Update(c.noteID, board.Patch{Size: &size})
		}
	}
	c.state = Idle
	c.noteID = ""
}

func (c *Controller) handleWheel(ev Event) {
	if !ev.Zoom {
		return
	}
	c.view = c.view.ZoomAt(ev.X, ev.Y, c.view.Scale+ev.Wheel*geom.WheelStep)
}

func dist(x1, y1, x2, y2 float64) float64 {
	return math.Hypot(x2-x1, y2-y1)
}
