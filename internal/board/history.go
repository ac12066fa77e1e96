package board

// HistoryCap bounds the snapshot ring; oldest entries are evicted first.
const HistoryCap = 50

// History is a linear, gapless timeline of full note-set snapshots. The
// index always refers to the live state; entries beyond it are redo states,
// discarded by the next commit.
type History struct {
	snapshots [][]Note
	index     int
	cap       int
}

func NewHistory(capacity int) *History {
	if capacity <= 0 {
		capacity = HistoryCap
	}
	return &History{index: -1, cap: capacity}
}

// Commit truncates any redo tail, appends a copy of the state, and drops the
// oldest snapshots once the ring is full, keeping the index on the entry just
// appended.
func (h *History) Commit(notes []Note) {
	h.snapshots = append(h.snapshots[:h.index+1], snapshot(notes))
	h.index = len(h.snapshots) - 1
	if over := len(h.snapshots) - h.cap; over > 0 {
		h.snapshots = h.snapshots[over:]
		h.index -= over
	}
}

// Reset collapses the timeline to a single snapshot. Clearing the board goes
// through here instead of Commit so a bulk wipe cannot be undone back into a
// long-dead note set.
func (h *History) Reset(notes []Note) {
	h.snapshots = [][]Note{snapshot(notes)}
	h.index = 0
}

func (h *History) Undo() ([]Note, bool) {
	if !h.CanUndo() {
		return nil, false
	}
	h.index--
	return snapshot(h.snapshots[h.index]), true
}

func (h *History) Redo() ([]Note, bool) {
	if !h.CanRedo() {
		return nil, false
	}
	h.index++
	return snapshot(h.snapshots[h.index]), true
}

func (h *History) CanUndo() bool {
	return h.index > 0
}

func (h *History) CanRedo() bool {
	return h.index >= 0 && h.index < len(h.snapshots)-1
}

func (h *History) Len() int {
	return len(h.snapshots)
}

func snapshot(notes []Note) []Note {
	return append([]Note(nil), notes...)
}
