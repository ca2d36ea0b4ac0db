package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestManager_ReadWrite(t *testing.T) {
	cfg := NewConfig("/data/inv")
	cfg.Store = StoreConfig{
		Type:     "s3",
		S3Bucket: "my-bucket",
		S3Prefix: "inventories/",
		S3Region: "eu-west-1",
	}

	m := &Manager{}
	var buf bytes.Buffer
	if err := m.Write(&buf, cfg); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	got, err := m.Read(&buf)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	if got.DefaultInventory != "default" {
		t.Errorf("DefaultInventory = %q, want %q", got.DefaultInventory, "default")
	}
	if got.DataDir != "/data/inv" {
		t.Errorf("DataDir = %q, want %q", got.DataDir, "/data/inv")
	}
	if got.LogDir != filepath.Join("/data/inv", "log") {
		t.Errorf("LogDir = %q, want %q", got.LogDir, filepath.Join("/data/inv", "log"))
	}
	if got.Store != cfg.Store {
		t.Errorf("Store = %+v, want %+v", got.Store, cfg.Store)
	}
}

func TestManager_ReadInvalid(t *testing.T) {
	m := &Manager{}
	if _, err := m.Read(strings.NewReader("not [valid toml")); err == nil {
		t.Error("Read() expected error for invalid toml")
	}
}

func TestInit(t *testing.T) {
	t.Run("creates config file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "conf", "inv.toml")
		cfg := NewConfig("/data/inv")

		if err := Init(path, cfg); err != nil {
			t.Fatalf("Init() error = %v", err)
		}

		got, err := ReadFromFile(path)
		if err != nil {
			t.Fatalf("ReadFromFile() error = %v", err)
		}
		if got.DataDir != cfg.DataDir {
			t.Errorf("DataDir = %q, want %q", got.DataDir, cfg.DataDir)
		}
		if got.Store.Type != "filesystem" {
			t.Errorf("Store.Type = %q, want filesystem", got.Store.Type)
		}
	})

	t.Run("refuses to overwrite existing config", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "inv.toml")
		if err := os.WriteFile(path, []byte("data_dir = \"/keep\"\n"), 0644); err != nil {
			t.Fatalf("WriteFile() error = %v", err)
		}

		if err := Init(path, NewConfig("/data/inv")); err == nil {
			t.Error("Init() expected error for existing config")
		}

		got, err := ReadFromFile(path)
		if err != nil {
			t.Fatalf("ReadFromFile() error = %v", err)
		}
		if got.DataDir != "/keep" {
			t.Errorf("DataDir = %q, want untouched %q", got.DataDir, "/keep")
		}
	})
}

func TestReadFromFile_Missing(t *testing.T) {
	if _, err := ReadFromFile(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("ReadFromFile() expected error for missing file")
	}
}
