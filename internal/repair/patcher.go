// Package repair implements the dataset repair pipeline: textual patches for
// known corruption patterns, escalating parse strategies, duplicate removal,
// and a scan recovery for datasets nothing else can parse.
package repair

import (
	"fmt"
	"regexp"

	"trekdata/internal/config"
)

// Separator damage every dataset gets checked for, independent of config.
var (
	danglingSeparator = regexp.MustCompile(`,\s*}`)
	doubleSeparator   = regexp.MustCompile(`,\s*,`)
)

// PatchStat records how often one patch rule fired.
type PatchStat struct {
	Rule  string
	Count int
}

// Patcher applies textual patches to raw dataset text before any parsing is
// attempted. Patches are ordered: separator insertion runs first, so a comma
// added at the end of an object gets cleaned up again by the dangling strip.
type Patcher struct {
	separators []separatorRule
}

type separatorRule struct {
	name string
	re   *regexp.Regexp
}

// NewPatcher builds a patcher from the configured separator rules.
func NewPatcher(rules []config.SeparatorRule) *Patcher {
	p := &Patcher{}

	for _, rule := range rules {
		// Matches the quoted field/value pair ending its line without a
		// comma. A pair that already has one is left alone.
		pattern := `("` + regexp.QuoteMeta(rule.Field) + `"\s*:\s*"` + regexp.QuoteMeta(rule.Value) + `")(\r?\n)`

		p.separators = append(p.separators, separatorRule{
			name: fmt.Sprintf("missing_separator(%s=%s)", rule.Field, rule.Value),
			re:   regexp.MustCompile(pattern),
		})
	}

	return p
}

// Apply runs all patches and reports how often each fired.
func (p *Patcher) Apply(text string) (string, []PatchStat) {
	var stats []PatchStat

	for _, rule := range p.separators {
		count := len(rule.re.FindAllStringIndex(text, -1))
		if count > 0 {
			text = rule.re.ReplaceAllString(text, "$1,$2")
		}

		stats = append(stats, PatchStat{Rule: rule.name, Count: count})
	}

	// The two strips can feed each other (",,}" needs both), so they run
	// until the text stops changing.
	dangling := 0
	doubles := 0

	for {
		before := text

		var n int

		text, n = StripDanglingSeparators(text)
		dangling += n

		text, n = collapseDoubleSeparators(text)
		doubles += n

		if text == before {
			break
		}
	}

	stats = append(stats,
		PatchStat{Rule: "dangling_separator", Count: dangling},
		PatchStat{Rule: "double_separator", Count: doubles},
	)

	return text, stats
}

// StripDanglingSeparators removes commas sitting directly before a closing
// brace. The scan recovery applies the same strip to each extracted span.
func StripDanglingSeparators(text string) (string, int) {
	count := len(danglingSeparator.FindAllStringIndex(text, -1))
	if count > 0 {
		text = danglingSeparator.ReplaceAllString(text, "}")
	}

	return text, count
}

// collapseDoubleSeparators folds each run of two commas into one.
func collapseDoubleSeparators(text string) (string, int) {
	count := len(doubleSeparator.FindAllStringIndex(text, -1))
	if count > 0 {
		text = doubleSeparator.ReplaceAllString(text, ",")
	}

	return text, count
}
