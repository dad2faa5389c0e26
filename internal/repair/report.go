package repair

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-runewidth"

	"trekdata/internal/sanitize"
)

// Parse strategy names, in escalation order.
const (
	StrategyDirect      = "direct"
	StrategyStandardize = "standardize"
	StrategyLenient     = "lenient"
	StrategyScan        = "scan"
)

// Run outcomes.
const (
	OutcomeClean     = "clean"
	OutcomeRepaired  = "repaired"
	OutcomeRecovered = "recovered"
	OutcomeFailed    = "failed"
)

// Report describes a single repair run.
type Report struct {
	RunID      string
	Source     string
	Strategy   string
	Outcome    string
	Records    int
	Duplicates int
	Patches    []PatchStat
	Sanitize   sanitize.Stats
	Scan       *ScanStats
	ParseError string
	Changed    bool
	Written    bool
	DryRun     bool
	BackupPath string
	Duration   time.Duration
}

// NewReport starts a report for one source file.
func NewReport(source string, dryRun bool) *Report {
	return &Report{
		RunID:  uuid.NewString(),
		Source: source,
		DryRun: dryRun,
	}
}

// PatchSummary folds the patch stats into one line, listing only rules that
// fired.
func (r *Report) PatchSummary() string {
	var fired []string

	for _, stat := range r.Patches {
		if stat.Count > 0 {
			fired = append(fired, fmt.Sprintf("%s=%d", stat.Rule, stat.Count))
		}
	}

	if len(fired) == 0 {
		return "none"
	}

	return strings.Join(fired, ", ")
}

// String returns a one-line form of the report.
func (r *Report) String() string {
	return fmt.Sprintf(
		"%s | Strategy: %s | Records: %d | Duplicates: %d | Changed: %v",
		r.Outcome,
		r.Strategy,
		r.Records,
		r.Duplicates,
		r.Changed,
	)
}

// Summary renders the report as an aligned two-column table. Column widths
// use display width so values with wide characters keep the pipes straight.
func (r *Report) Summary() string {
	rows := [][2]string{
		{"Run", r.RunID},
		{"Source", r.Source},
		{"Outcome", r.Outcome},
		{"Strategy", r.Strategy},
		{"Records", fmt.Sprintf("%d", r.Records)},
		{"Duplicates", fmt.Sprintf("%d", r.Duplicates)},
		{"Patches", r.PatchSummary()},
	}

	if r.Sanitize.Changed() {
		rows = append(rows, [2]string{
			"Sanitized",
			fmt.Sprintf("bom=%v controls=%d nfc=%v", r.Sanitize.BOMStripped, r.Sanitize.ControlsRemoved, r.Sanitize.Normalized),
		})
	}

	if r.Scan != nil {
		rows = append(rows, [2]string{
			"Scan",
			fmt.Sprintf("spans=%d recovered=%d unparseable=%d duplicates=%d", r.Scan.Spans, r.Scan.Recovered, r.Scan.Unparseable, r.Scan.Duplicates),
		})
	}

	if r.BackupPath != "" {
		rows = append(rows, [2]string{"Backup", r.BackupPath})
	}

	if r.DryRun {
		rows = append(rows, [2]string{"Mode", "dry-run"})
	}

	rows = append(rows, [2]string{"Duration", r.Duration.Round(time.Microsecond).String()})

	keyWidth := runewidth.StringWidth("Field")
	valWidth := runewidth.StringWidth("Value")

	for _, row := range rows {
		if w := runewidth.StringWidth(row[0]); w > keyWidth {
			keyWidth = w
		}

		if w := runewidth.StringWidth(row[1]); w > valWidth {
			valWidth = w
		}
	}

	var sb strings.Builder

	writeRow := func(key, val string) {
		sb.WriteString("| ")
		sb.WriteString(key)
		sb.WriteString(strings.Repeat(" ", keyWidth-runewidth.StringWidth(key)))
		sb.WriteString(" | ")
		sb.WriteString(val)
		sb.WriteString(strings.Repeat(" ", valWidth-runewidth.StringWidth(val)))
		sb.WriteString(" |\n")
	}

	writeRow("Field", "Value")
	sb.WriteString("|")
	sb.WriteString(strings.Repeat("-", keyWidth+2))
	sb.WriteString("|")
	sb.WriteString(strings.Repeat("-", valWidth+2))
	sb.WriteString("|\n")

	for _, row := range rows {
		writeRow(row[0], row[1])
	}

	return sb.String()
}
