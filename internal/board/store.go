package board

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"stickpad/internal/geom"
	"stickpad/pkg/logger"
)

type Op int

const (
	OpCreate Op = iota
	OpUpdate
	OpDelete
	OpClear
	// OpRestore is fired by Replace when history or an external reload swaps
	// the whole note set in. Observers must not feed it back into history.
	OpRestore
)

// Change describes a committed store mutation. Significant marks mutations
// the history manager snapshots: structural changes and position/size/color
// edits, but not content keystrokes or z-index bumps.
type Change struct {
	Op          Op
	NoteID      string
	Significant bool
}

// Patch is a partial note update; nil fields are left untouched.
type Patch struct {
	Title    *string `json:"title,omitempty"`
	Content  *string `json:"content,omitempty"`
	Position *Point  `json:"position,omitempty"`
	Size     *Size   `json:"size,omitempty"`
	Color    *Color  `json:"color,omitempty"`
	ZIndex   *int    `json:"zIndex,omitempty"`
}

// Store is the in-memory note collection. All mutations run on the event
// loop, so there is no locking; observers are invoked synchronously after
// each committed mutation.
type Store struct {
	notes     map[string]*Note
	maxZ      int
	observers []func(Change)
	now       func() time.Time
}

func NewStore() *Store {
	return &Store{
		notes: make(map[string]*Note),
		now:   time.Now,
	}
}

// Observe registers a callback fired after every committed mutation, in
// registration order.
func (s *Store) Observe(fn func(Change)) {
	s.observers = append(s.observers, fn)
}

func (s *Store) notify(c Change) {
	for _, fn := range s.observers {
		fn(c)
	}
}

func (s *Store) Len() int {
	return len(s.notes)
}

func (s *Store) Get(id string) (Note, bool) {
	n, ok := s.notes[id]
	if !ok {
		return Note{}, false
	}
	return *n, true
}

// Notes returns a copy of all notes in ascending z order (render order).
func (s *Store) Notes() []Note {
	out := make([]Note, 0, len(s.notes))
	for _, n := range s.notes {
		out = append(out, *n)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ZIndex != out[j].ZIndex {
			return out[i].ZIndex < out[j].ZIndex
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// MaxZ returns the highest z-index handed out so far.
func (s *Store) MaxZ() int {
	return s.maxZ
}

// Create adds a note. Zero-value fields get defaults: yellow color, the
// default size, and a z-index one above the current maximum.
func (s *Store) Create(p Patch) Note {
	now := s.now()
	n := Note{
		ID:        uuid.NewString(),
		Position:  Point{},
		Size:      Size{Width: DefaultWidth, Height: DefaultHeight},
		Color:     DefaultColor,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.apply(&n, p)
	if p.ZIndex == nil {
		s.maxZ++
		n.ZIndex = s.maxZ
	} else if n.ZIndex > s.maxZ {
		s.maxZ = n.ZIndex
	}
	s.notes[n.ID] = &n

	s.notify(Change{Op: OpCreate, NoteID: n.ID, Significant: true})
	return n
}

// Update merges a patch into an existing note. A missing id is a silent
// no-op. Non-finite positions are rejected without mutating state.
func (s *Store) Update(id string, p Patch) (Note, bool) {
	n, ok := s.notes[id]
	if !ok {
		return Note{}, false
	}
	if p.Position != nil && !geom.Finite(p.Position.X, p.Position.Y) {
		logger.Sugar.Warnw("dropping note update with non-finite position", "id", id)
		return *n, false
	}
	if p.Size != nil && !geom.Finite(p.Size.Width, p.Size.Height) {
		logger.Sugar.Warnw("dropping note update with non-finite size", "id", id)
		return *n, false
	}

	significant := p.Position != nil || p.Size != nil || p.Color != nil
	s.apply(n, p)
	n.UpdatedAt = s.now()
	if n.ZIndex > s.maxZ {
		s.maxZ = n.ZIndex
	}

	s.notify(Change{Op: OpUpdate, NoteID: id, Significant: significant})
	return *n, true
}

func (s *Store) apply(n *Note, p Patch) {
	if p.Title != nil {
		n.Title = *p.Title
	}
	if p.Content != nil {
		n.Content = *p.Content
	}
	if p.Position != nil {
		n.Position = *p.Position
	}
	if p.Size != nil {
		n.Size = *p.Size
	}
	if p.Color != nil && p.Color.Valid() {
		n.Color = *p.Color
	}
	if p.ZIndex != nil {
		n.ZIndex = *p.ZIndex
	}
}

// Delete removes a note; missing ids are a no-op.
func (s *Store) Delete(id string) {
	if _, ok := s.notes[id]; !ok {
		return
	}
	delete(s.notes, id)
	s.notify(Change{Op: OpDelete, NoteID: id, Significant: true})
}

// Clear empties the store and resets the z-index counter.
func (s *Store) Clear() {
	s.notes = make(map[string]*Note)
	s.maxZ = 0
	s.notify(Change{Op: OpClear, Significant: true})
}

// BringToFront raises a note above every other note's current z-index.
func (s *Store) BringToFront(id string) {
	if _, ok := s.notes[id]; !ok {
		return
	}
	top := s.maxZ + 1
	s.Update(id, Patch{ZIndex: &top})
}

// Replace swaps in a full note set, as loaded from storage or restored from
// history. The z counter resumes above the highest loaded index, with a
// floor of 10 for non-empty sets so freshly loaded boards leave headroom
// under notes created before z tracking existed.
func (s *Store) Replace(notes []Note) {
	s.notes = make(map[string]*Note, len(notes))
	s.maxZ = 0
	if len(notes) > 0 {
		s.maxZ = 10
	}
	for i := range notes {
		n := notes[i]
		s.notes[n.ID] = &n
		if n.ZIndex > s.maxZ {
			s.maxZ = n.ZIndex
		}
	}
	s.notify(Change{Op: OpRestore, Significant: false})
}
