// Package storage handles dataset file access and the seed database.
package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Dataset access errors.
var (
	ErrReadDataset  = errors.New("failed to read dataset")
	ErrWriteDataset = errors.New("failed to write dataset")
)

// WriteOptions control how a repaired dataset lands on disk.
type WriteOptions struct {
	Backup bool
	Atomic bool
}

// ReadDataset returns the dataset file content as text.
func ReadDataset(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrReadDataset, err)
	}

	return string(data), nil
}

// WriteDataset writes content to path. With Backup set, the previous version
// is copied aside first and the backup path is returned. With Atomic set,
// the content goes to a temp file in the same directory and is renamed into
// place, so readers never observe a half-written dataset.
func WriteDataset(path, content string, opts WriteOptions) (string, error) {
	backupPath := ""

	if opts.Backup {
		previous, err := os.ReadFile(path)
		if err == nil {
			backupPath = BackupPath(path, time.Now().UTC())
			if werr := os.WriteFile(backupPath, previous, 0644); werr != nil {
				return "", fmt.Errorf("%w: backup: %v", ErrWriteDataset, werr)
			}
		}
	}

	if !opts.Atomic {
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			return backupPath, fmt.Errorf("%w: %v", ErrWriteDataset, err)
		}

		return backupPath, nil
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return backupPath, fmt.Errorf("%w: %v", ErrWriteDataset, err)
	}

	tmpName := tmp.Name()

	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		os.Remove(tmpName)

		return backupPath, fmt.Errorf("%w: %v", ErrWriteDataset, err)
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)

		return backupPath, fmt.Errorf("%w: %v", ErrWriteDataset, err)
	}

	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)

		return backupPath, fmt.Errorf("%w: %v", ErrWriteDataset, err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)

		return backupPath, fmt.Errorf("%w: %v", ErrWriteDataset, err)
	}

	return backupPath, nil
}

// BackupPath derives a timestamped sibling name for path.
func BackupPath(path string, now time.Time) string {
	return fmt.Sprintf("%s.%s.bak", path, now.Format("20060102-150405"))
}
