package board

// Session ties a store to its history: it observes committed mutations,
// snapshots the significant ones, and routes undo/redo back into the store.
type Session struct {
	Store   *Store
	History *History

	restoring bool
}

func NewSession(store *Store, history *History) *Session {
	s := &Session{Store: store, History: history}
	store.Observe(s.onChange)
	return s
}

func (s *Session) onChange(c Change) {
	if s.restoring {
		return
	}
	switch {
	case c.Op == OpClear:
		s.History.Reset(s.Store.Notes())
	case c.Op == OpRestore:
		// Initial load: seed the timeline so the loaded state is undo floor.
		if s.History.Len() == 0 {
			s.History.Commit(s.Store.Notes())
		}
	case c.Significant:
		s.History.Commit(s.Store.Notes())
	}
}

func (s *Session) Undo() bool {
	notes, ok := s.History.Undo()
	if !ok {
		return false
	}
	s.restore(notes)
	return true
}

func (s *Session) Redo() bool {
	notes, ok := s.History.Redo()
	if !ok {
		return false
	}
	s.restore(notes)
	return true
}

func (s *Session) restore(notes []Note) {
	s.restoring = true
	s.Store.Replace(notes)
	s.restoring = false
}
