// Package manifest writes and verifies integrity sidecars for dataset files.
// A manifest records the checksum of the dataset as of its last successful
// repair, so later stages can detect hand edits and truncation.
package manifest

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"time"

	"trekdata/pkg/jsonx"
)

// Suffix is appended to the dataset path to name its manifest.
const Suffix = ".manifest.json"

// Manifest verification errors.
var (
	ErrNoManifest   = errors.New("no manifest found")
	ErrHashMismatch = errors.New("hash mismatch")
)

// Manifest records the state of a dataset at its last successful repair.
type Manifest struct {
	SHA256    string    `json:"sha256"`
	Records   int       `json:"records"`
	RunID     string    `json:"runId"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// PathFor returns the manifest path for a dataset path.
func PathFor(datasetPath string) string {
	return datasetPath + Suffix
}

// CalculateHash computes the SHA-256 hash of dataset content.
func CalculateHash(content string) string {
	hash := sha256.Sum256([]byte(content))

	return hex.EncodeToString(hash[:])
}

// Write stores a fresh manifest next to the dataset.
func Write(datasetPath, content string, records int, runID string) error {
	m := Manifest{
		SHA256:    CalculateHash(content),
		Records:   records,
		RunID:     runID,
		UpdatedAt: time.Now().UTC(),
	}

	data, err := jsonx.JSON.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}

	if err := os.WriteFile(PathFor(datasetPath), append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}

	return nil
}

// Load reads the manifest for a dataset, if present.
func Load(datasetPath string) (*Manifest, error) {
	data, err := os.ReadFile(PathFor(datasetPath))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoManifest
		}

		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var m Manifest
	if err := jsonx.JSON.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}

	return &m, nil
}

// Verify checks dataset content against its stored manifest.
func Verify(datasetPath, content string) error {
	m, err := Load(datasetPath)
	if err != nil {
		return err
	}

	calculated := CalculateHash(content)
	if calculated != m.SHA256 {
		return fmt.Errorf("%w: expected %s, got %s", ErrHashMismatch, m.SHA256, calculated)
	}

	return nil
}
