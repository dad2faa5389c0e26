package models

import (
	"errors"
	"fmt"

	"trekdata/pkg/jsonx"
)

// Trek validation errors.
var (
	ErrTrekMissingID   = errors.New("trek id is required")
	ErrTrekMissingName = errors.New("trek name is required")
)

// Trek represents a single trekking route in the dataset.
type Trek struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	Region        string  `json:"region,omitempty"`
	DistanceKm    float64 `json:"distanceKm,omitempty"`
	DurationDays  int     `json:"durationDays,omitempty"`
	Difficulty    string  `json:"difficulty,omitempty"`
	ImageFilename string  `json:"imageFilename,omitempty"`
	Description   string  `json:"description,omitempty"`
}

// Validate checks the fields a trek needs before it can be stored.
func (t *Trek) Validate() error {
	if t.ID == 0 {
		return ErrTrekMissingID
	}

	if t.Name == "" {
		return ErrTrekMissingName
	}

	return nil
}

// String returns a short human-readable description.
func (t *Trek) String() string {
	return fmt.Sprintf("Trek{ID: %d, Name: %s}", t.ID, t.Name)
}

// DecodeTreks parses dataset text into typed trek records. The repair tools
// deliberately work on untyped records instead; this is for consumers that
// need a clean, already-repaired dataset.
func DecodeTreks(text string) ([]Trek, error) {
	var treks []Trek
	if err := jsonx.JSON.Unmarshal([]byte(text), &treks); err != nil {
		return nil, fmt.Errorf("failed to decode treks: %w", err)
	}

	return treks, nil
}
