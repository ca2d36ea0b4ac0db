package store

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileSystemStore_RoundTrip(t *testing.T) {
	s, err := NewFileSystemStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileSystemStore() error = %v", err)
	}
	roundTrip(t, s)
}

func TestNewFileSystemStore_CreatesDataDir(t *testing.T) {
	dataDir := filepath.Join(t.TempDir(), "inv", "data")

	if _, err := NewFileSystemStore(dataDir); err != nil {
		t.Fatalf("NewFileSystemStore() error = %v", err)
	}

	info, err := os.Stat(dataDir)
	if err != nil {
		t.Fatalf("data directory not created: %v", err)
	}
	if !info.IsDir() {
		t.Errorf("data dir is not a directory")
	}
}

func TestFileSystemStore_DocumentPerName(t *testing.T) {
	dataDir := t.TempDir()
	s, err := NewFileSystemStore(dataDir)
	if err != nil {
		t.Fatalf("NewFileSystemStore() error = %v", err)
	}

	if err := s.Save("groceries", sampleSnapshot()); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	if _, err := os.Stat(filepath.Join(dataDir, "groceries.json")); err != nil {
		t.Errorf("document file not created: %v", err)
	}

	// No leftover temp files after a successful save.
	entries, err := os.ReadDir(dataDir)
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}
	for _, e := range entries {
		if e.Name() != "groceries.json" {
			t.Errorf("unexpected file in data dir: %s", e.Name())
		}
	}
}

func TestFileSystemStore_CorruptDocument(t *testing.T) {
	dataDir := t.TempDir()
	s, err := NewFileSystemStore(dataDir)
	if err != nil {
		t.Fatalf("NewFileSystemStore() error = %v", err)
	}

	if err := os.WriteFile(filepath.Join(dataDir, "bad.json"), []byte("{nope"), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	if _, err := s.Load("bad"); err == nil {
		t.Error("Load() expected error for corrupt document")
	}
}
