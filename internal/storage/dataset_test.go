package storage

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestReadDataset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "treks.json")
	if err := os.WriteFile(path, []byte(`[{"id": 1}]`), 0644); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}

	content, err := ReadDataset(path)
	if err != nil {
		t.Fatalf("ReadDataset() error = %v", err)
	}

	if content != `[{"id": 1}]` {
		t.Errorf("Expected fixture content, got %q", content)
	}
}

func TestReadDataset_Missing(t *testing.T) {
	_, err := ReadDataset(filepath.Join(t.TempDir(), "absent.json"))
	if !errors.Is(err, ErrReadDataset) {
		t.Errorf("Expected ErrReadDataset, got %v", err)
	}
}

func TestWriteDataset(t *testing.T) {
	tests := []struct {
		name string
		opts WriteOptions
	}{
		{"plain", WriteOptions{}},
		{"atomic", WriteOptions{Atomic: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "treks.json")

			backup, err := WriteDataset(path, `[{"id": 1}]`, tt.opts)
			if err != nil {
				t.Fatalf("WriteDataset() error = %v", err)
			}

			if backup != "" {
				t.Errorf("Expected no backup without a previous file, got %q", backup)
			}

			data, err := os.ReadFile(path)
			if err != nil {
				t.Fatalf("Failed to read back: %v", err)
			}

			if string(data) != `[{"id": 1}]` {
				t.Errorf("Expected written content, got %q", data)
			}
		})
	}
}

func TestWriteDataset_Overwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "treks.json")
	if err := os.WriteFile(path, []byte("old"), 0644); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}

	if _, err := WriteDataset(path, "new", WriteOptions{Atomic: true}); err != nil {
		t.Fatalf("WriteDataset() error = %v", err)
	}

	data, _ := os.ReadFile(path)
	if string(data) != "new" {
		t.Errorf("Expected overwritten content, got %q", data)
	}
}

func TestWriteDataset_Backup(t *testing.T) {
	path := filepath.Join(t.TempDir(), "treks.json")
	if err := os.WriteFile(path, []byte("previous version"), 0644); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}

	backup, err := WriteDataset(path, "next version", WriteOptions{Backup: true, Atomic: true})
	if err != nil {
		t.Fatalf("WriteDataset() error = %v", err)
	}

	if backup == "" {
		t.Fatal("Expected backup path")
	}

	if !strings.HasPrefix(backup, path+".") || !strings.HasSuffix(backup, ".bak") {
		t.Errorf("Expected timestamped sibling backup, got %q", backup)
	}

	data, err := os.ReadFile(backup)
	if err != nil {
		t.Fatalf("Failed to read backup: %v", err)
	}

	if string(data) != "previous version" {
		t.Errorf("Expected previous content in backup, got %q", data)
	}
}

func TestWriteDataset_BackupSkippedForNewFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "treks.json")

	backup, err := WriteDataset(path, "first version", WriteOptions{Backup: true})
	if err != nil {
		t.Fatalf("WriteDataset() error = %v", err)
	}

	if backup != "" {
		t.Errorf("Expected no backup for a file that did not exist, got %q", backup)
	}
}

func TestWriteDataset_NoTempLeftover(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "treks.json")

	if _, err := WriteDataset(path, "content", WriteOptions{Atomic: true}); err != nil {
		t.Fatalf("WriteDataset() error = %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("Failed to list dir: %v", err)
	}

	if len(entries) != 1 {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}

		t.Errorf("Expected only the dataset file, got %v", names)
	}
}

func TestWriteDataset_MissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope", "treks.json")

	_, err := WriteDataset(path, "content", WriteOptions{Atomic: true})
	if !errors.Is(err, ErrWriteDataset) {
		t.Errorf("Expected ErrWriteDataset, got %v", err)
	}
}

func TestBackupPath(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 30, 45, 0, time.UTC)

	got := BackupPath("data/treks.json", now)
	if got != "data/treks.json.20240601-123045.bak" {
		t.Errorf("Expected timestamped backup name, got %q", got)
	}
}
