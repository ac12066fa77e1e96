// Package persist moves board state between the store and durable storage:
// a JSON blob on disk, with debounced writes and change detection.
package persist

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileName is the fixed blob name inside the storage directory.
const FileName = "stickyNotes.json"

// BlobStore abstracts the raw byte storage underneath the bridge. The bool
// on Get reports whether a blob exists at all.
type BlobStore interface {
	Get() ([]byte, bool, error)
	Set(data []byte) error
	Clear() error
}

// FileBlob stores the blob as a single file under a directory.
type FileBlob struct {
	path string
}

func NewFileBlob(dir string) *FileBlob {
	return &FileBlob{path: filepath.Join(dir, FileName)}
}

func (f *FileBlob) Path() string { return f.path }

func (f *FileBlob) Get() ([]byte, bool, error) {
	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read %s: %w", f.path, err)
	}
	return data, true, nil
}

func (f *FileBlob) Set(data []byte) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0755); err != nil {
		return fmt.Errorf("create storage dir: %w", err)
	}
	// Write-then-rename keeps a concurrent reader from seeing a torn blob.
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("rename %s: %w", tmp, err)
	}
	return nil
}

func (f *FileBlob) Clear() error {
	err := os.Remove(f.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove %s: %w", f.path, err)
	}
	return nil
}

// MemBlob keeps the blob in memory. Tests use it in place of FileBlob.
type MemBlob struct {
	mu   sync.Mutex
	data []byte
	set  bool

	// Err, when non-nil, is returned by every operation.
	Err error
}

func (m *MemBlob) Get() ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, false, m.Err
	}
	if !m.set {
		return nil, false, nil
	}
	return append([]byte(nil), m.data...), true, nil
}

func (m *MemBlob) Set(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.data = append([]byte(nil), data...)
	m.set = true
	return nil
}

func (m *MemBlob) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.data, m.set = nil, false
	return nil
}
