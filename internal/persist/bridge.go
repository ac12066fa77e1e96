package persist

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"stickpad/internal/board"
	"stickpad/pkg/logger"
)

// DefaultDebounce batches the write bursts a drag or typing session produces.
const DefaultDebounce = 500 * time.Millisecond

// Bridge observes a store and mirrors every committed mutation into a blob,
// debounced. Loading goes the other way: blob to store, with per-record
// validation so one bad entry never takes the board down.
type Bridge struct {
	store *board.Store
	blob  BlobStore
	delay time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	dirty   bool
	pending []board.Note
}

func NewBridge(store *board.Store, blob BlobStore, delay time.Duration) *Bridge {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	b := &Bridge{store: store, blob: blob, delay: delay}
	// The snapshot is taken here, on the mutating side: the store is
	// single-threaded and the timer goroutine must never read it directly.
	store.Observe(func(board.Change) { b.schedule(store.Notes()) })
	return b
}

// Load reads the blob into the store. A missing blob is an empty board. A
// corrupt blob also yields an empty board, with the error returned so the
// caller can surface a notice instead of silently losing data.
func (b *Bridge) Load() error {
	data, ok, err := b.blob.Get()
	if err != nil {
		return fmt.Errorf("load board: %w", err)
	}
	if !ok {
		b.quietReplace(nil)
		return nil
	}
	var notes []board.Note
	if err := json.Unmarshal(data, &notes); err != nil {
		b.quietReplace(nil)
		return fmt.Errorf("load board: corrupt blob: %w", err)
	}

	kept := notes[:0]
	for _, n := range notes {
		if verr := n.Validate(); verr != nil {
			logger.Sugar.Warnw("dropping invalid note on load", "id", n.ID, "error", verr)
			continue
		}
		kept = append(kept, n)
	}
	b.quietReplace(kept)
	return nil
}

// quietReplace loads notes without marking the bridge dirty; a load is not
// a mutation worth writing straight back out.
func (b *Bridge) quietReplace(notes []board.Note) {
	b.store.Replace(notes)
	b.mu.Lock()
	b.dirty = false
	if b.timer != nil {
		b.timer.Stop()
	}
	b.mu.Unlock()
}

func (b *Bridge) schedule(snapshot []board.Note) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.dirty = true
	b.pending = snapshot
	if b.timer == nil {
		b.timer = time.AfterFunc(b.delay, b.flushAsync)
		return
	}
	b.timer.Reset(b.delay)
}

// flushAsync is the timer callback; failures are logged, not surfaced, since
// nobody is waiting on the write.
func (b *Bridge) flushAsync() {
	if err := b.Flush(); err != nil {
		logger.Sugar.Errorw("background save failed", "error", err)
	}
}

// Flush writes the last captured board state out immediately if anything
// changed since the last write.
func (b *Bridge) Flush() error {
	b.mu.Lock()
	if !b.dirty {
		b.mu.Unlock()
		return nil
	}
	b.dirty = false
	if b.timer != nil {
		b.timer.Stop()
	}
	snapshot := b.pending
	b.mu.Unlock()

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("save board: %w", err)
	}
	if err := b.blob.Set(data); err != nil {
		return fmt.Errorf("save board: %w", err)
	}
	return nil
}

// Close stops the debounce timer and performs a final flush.
func (b *Bridge) Close() error {
	b.mu.Lock()
	if b.timer != nil {
		b.timer.Stop()
	}
	b.mu.Unlock()
	return b.Flush()
}
