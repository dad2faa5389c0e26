package models

import (
	"errors"
	"testing"
)

func TestTrek_Validate(t *testing.T) {
	tests := []struct {
		name    string
		trek    Trek
		wantErr error
	}{
		{"valid", Trek{ID: 1, Name: "West Highland Way"}, nil},
		{"missing id", Trek{Name: "West Highland Way"}, ErrTrekMissingID},
		{"missing name", Trek{ID: 1}, ErrTrekMissingName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.trek.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestDecodeTreks(t *testing.T) {
	text := `[
  {"id": 1, "name": "West Highland Way", "region": "Scotland", "distanceKm": 154, "imageFilename": "whw"},
  {"id": 2, "name": "Great Glen Way", "distanceKm": 125.5}
]`

	treks, err := DecodeTreks(text)
	if err != nil {
		t.Fatalf("DecodeTreks failed: %v", err)
	}

	if len(treks) != 2 {
		t.Fatalf("Expected 2 treks, got %d", len(treks))
	}

	if treks[0].ImageFilename != "whw" {
		t.Errorf("Expected imageFilename 'whw', got '%s'", treks[0].ImageFilename)
	}

	if treks[1].DistanceKm != 125.5 {
		t.Errorf("Expected distance 125.5, got %v", treks[1].DistanceKm)
	}
}

func TestDecodeTreks_Invalid(t *testing.T) {
	_, err := DecodeTreks(`[{"id": 1},]`)
	if err == nil {
		t.Fatal("Expected error for malformed JSON, got nil")
	}
}
