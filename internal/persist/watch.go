package persist

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"stickpad/pkg/logger"
)

// Watcher signals when the blob file changes on disk underneath us, so a
// running session can offer to reload edits made by another process.
type Watcher struct {
	fw     *fsnotify.Watcher
	path   string
	events chan struct{}
	done   chan struct{}
}

// WatchFile watches the blob at path. The containing directory is watched
// rather than the file itself; editors and atomic writers replace the inode.
func WatchFile(path string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(path)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(path), err)
	}
	w := &Watcher{
		fw:     fw,
		path:   filepath.Clean(path),
		events: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
	go w.run()
	return w, nil
}

// Events delivers at most one pending notification; bursts coalesce.
func (w *Watcher) Events() <-chan struct{} { return w.events }

func (w *Watcher) run() {
	// A short settle window so a write burst produces one notification.
	var settle *time.Timer
	fire := func() {
		select {
		case w.events <- struct{}{}:
		default:
		}
	}
	for {
		select {
		case <-w.done:
			if settle != nil {
				settle.Stop()
			}
			return
		case ev, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if !ev.Op.Has(fsnotify.Write) && !ev.Op.Has(fsnotify.Create) && !ev.Op.Has(fsnotify.Rename) {
				continue
			}
			if settle == nil {
				settle = time.AfterFunc(100*time.Millisecond, fire)
			} else {
				settle.Reset(100 * time.Millisecond)
			}
		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			logger.Sugar.Warnw("file watcher error", "error", err)
		}
	}
}

func (w *Watcher) Close() error {
	close(w.done)
	return w.fw.Close()
}
