// Package history persists terminal command results, bounded FIFO.
package history

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/doeshing/hangwatch/internal/domain"
	"github.com/doeshing/hangwatch/internal/pkg/filesystem"
	"github.com/doeshing/hangwatch/internal/ports"
)

// FileStore keeps the most recent results in a JSON array file.
type FileStore struct {
	path string
	cap  int
	mu   sync.Mutex
}

// NewFileStore creates a store at the given path (defaults to
// ~/.hangwatch/history/history.json) holding at most cap entries.
func NewFileStore(path string, capacity int) *FileStore {
	if path == "" {
		path = filepath.Join(filesystem.UserHomeDir(), ".hangwatch", "history", "history.json")
	}
	if capacity <= 0 {
		capacity = domain.DefaultHistoryCap
	}
	return &FileStore{path: path, cap: capacity}
}

// Append implements ports.HistoryRepository. Insertion beyond capacity
// evicts the oldest entry first.
func (f *FileStore) Append(result domain.CommandResult) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	records, err := f.load()
	if err != nil {
		return err
	}
	records = append(records, result)
	if len(records) > f.cap {
		records = records[len(records)-f.cap:]
	}
	return f.write(records)
}

// Records implements ports.HistoryRepository.
func (f *FileStore) Records() ([]domain.CommandResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.load()
}

// Clear implements ports.HistoryRepository.
func (f *FileStore) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Path returns the backing file path.
func (f *FileStore) Path() string {
	return f.path
}

func (f *FileStore) load() ([]domain.CommandResult, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var records []domain.CommandResult
	if err := json.Unmarshal(data, &records); err != nil {
		// A corrupt history file must never block execution; start fresh.
		return nil, nil
	}
	return records, nil
}

func (f *FileStore) write(records []domain.CommandResult) error {
	if err := os.MkdirAll(filepath.Dir(f.path), domain.DirectoryPermissions); err != nil {
		return err
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(f.path, data, 0o644)
}

var _ ports.HistoryRepository = (*FileStore)(nil)
