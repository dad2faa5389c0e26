package sanitize

import (
	"testing"

	"trekdata/internal/config"
)

func TestClean_StripBOM(t *testing.T) {
	cfg := config.SanitizeConfig{StripBOM: true}

	out, stats := Clean("\uFEFF[]", cfg)
	if out != "[]" {
		t.Errorf("Expected BOM stripped, got %q", out)
	}

	if !stats.BOMStripped {
		t.Error("Expected BOMStripped stat to be set")
	}
}

func TestClean_StripControlChars(t *testing.T) {
	cfg := config.SanitizeConfig{StripControlChars: true}

	out, stats := Clean("[\x00{\"id\": 1}\x1f]", cfg)
	if out != `[{"id": 1}]` {
		t.Errorf("Expected control characters removed, got %q", out)
	}

	if stats.ControlsRemoved != 2 {
		t.Errorf("Expected 2 removals, got %d", stats.ControlsRemoved)
	}
}

func TestClean_KeepsWhitespaceControls(t *testing.T) {
	cfg := config.SanitizeConfig{StripControlChars: true}

	input := "[\n\t{\"id\": 1}\r\n]"

	out, stats := Clean(input, cfg)
	if out != input {
		t.Errorf("Expected tabs and newlines preserved, got %q", out)
	}

	if stats.Changed() {
		t.Error("Expected no change reported")
	}
}

func TestClean_NormalizeUnicode(t *testing.T) {
	cfg := config.SanitizeConfig{NormalizeUnicode: true}

	// "e" followed by a combining acute accent composes to a single rune.
	out, stats := Clean("[{\"name\": \"Béal\"}]", cfg)
	if out != "[{\"name\": \"Béal\"}]" {
		t.Errorf("Expected NFC composition, got %q", out)
	}

	if !stats.Normalized {
		t.Error("Expected Normalized stat to be set")
	}
}

func TestClean_AllDisabled(t *testing.T) {
	input := "\uFEFF[\x00]"

	out, stats := Clean(input, config.SanitizeConfig{})
	if out != input {
		t.Errorf("Expected input unchanged, got %q", out)
	}

	if stats.Changed() {
		t.Error("Expected no change reported")
	}
}
