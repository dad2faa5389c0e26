// Package sanitize cleans raw dataset text before it reaches the JSON parsers.
package sanitize

import (
	"regexp"
	"strings"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"trekdata/internal/config"
)

// controlChars matches control characters that are never legal inside JSON
// outside of escape sequences. Tab, newline and carriage return stay.
var controlChars = regexp.MustCompile(`[\x00-\x08\x0B\x0C\x0E-\x1F]`)

// Stats records what Clean changed.
type Stats struct {
	BOMStripped     bool
	ControlsRemoved int
	Normalized      bool
}

// Changed reports whether any cleanup step fired.
func (s Stats) Changed() bool {
	return s.BOMStripped || s.ControlsRemoved > 0 || s.Normalized
}

// Clean applies the configured cleanup steps to raw dataset text.
func Clean(text string, cfg config.SanitizeConfig) (string, Stats) {
	var stats Stats

	if cfg.StripBOM {
		stripped := strings.TrimPrefix(text, "\uFEFF")
		if stripped != text {
			stats.BOMStripped = true
			text = stripped
		}
	}

	if cfg.StripControlChars {
		matches := controlChars.FindAllStringIndex(text, -1)
		if len(matches) > 0 {
			stats.ControlsRemoved = len(matches)
			text = controlChars.ReplaceAllString(text, "")
		}
	}

	if cfg.NormalizeUnicode {
		normalized, _, err := transform.String(norm.NFC, text)
		if err == nil && normalized != text {
			stats.Normalized = true
			text = normalized
		}
	}

	return text, stats
}
