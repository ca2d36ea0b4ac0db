package store

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/AnneKitsune/inventory-managoat/internal/inventory"
)

// FileSystemStore keeps each named inventory as a JSON document
// <dataDir>/<name>.json. Saves are atomic: the document is written to a
// temp file in the same directory and renamed over the old one.
type FileSystemStore struct {
	dataDir string
}

// NewFileSystemStore creates a filesystem store rooted at dataDir,
// creating the directory if needed.
func NewFileSystemStore(dataDir string) (*FileSystemStore, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &FileSystemStore{dataDir: dataDir}, nil
}

func (s *FileSystemStore) documentPath(name string) string {
	return filepath.Join(s.dataDir, name+".json")
}

// Load reads the named inventory document. A name that was never saved
// yields an empty snapshot.
func (s *FileSystemStore) Load(name string) (*inventory.Snapshot, error) {
	f, err := os.Open(s.documentPath(name))
	if err != nil {
		if os.IsNotExist(err) {
			return inventory.EmptySnapshot(), nil
		}
		return nil, fmt.Errorf("opening inventory document: %w", err)
	}
	defer f.Close()

	snapshot, err := decodeSnapshot(f)
	if err != nil {
		return nil, fmt.Errorf("reading inventory %q: %w", name, err)
	}
	return snapshot, nil
}

// Save atomically replaces the named inventory document.
func (s *FileSystemStore) Save(name string, snapshot *inventory.Snapshot) error {
	// Create temp file in the same directory to ensure atomic rename works
	tmpFile, err := os.CreateTemp(s.dataDir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	// Clean up temp file on failure
	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if err := encodeSnapshot(tmpFile, snapshot); err != nil {
		tmpFile.Close()
		return err
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, s.documentPath(name)); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	success = true
	return nil
}

// Close is a no-op for the filesystem store.
func (s *FileSystemStore) Close() error { return nil }

// Compile-time check that FileSystemStore implements inventory.Store
var _ inventory.Store = (*FileSystemStore)(nil)
