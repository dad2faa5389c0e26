package repair

import (
	"errors"
	"fmt"
	"time"

	"trekdata/internal/config"
	"trekdata/internal/logger"
	"trekdata/internal/sanitize"
	"trekdata/internal/storage"
	"trekdata/pkg/jsonx"
	"trekdata/pkg/manifest"
)

// Pipeline errors.
var (
	ErrInvalidRecord    = errors.New("invalid record")
	ErrNothingRecovered = errors.New("no recoverable records found")
)

// Engine drives the repair of dataset files. One engine handles any number
// of files; per-run state lives in the Report.
type Engine struct {
	cfg     *config.Config
	logger  *logger.Logger
	patcher *Patcher
	scan    *ScanRecovery
}

// NewEngine creates an engine from configuration.
func NewEngine(cfg *config.Config, log *logger.Logger) *Engine {
	return &Engine{
		cfg:     cfg,
		logger:  log,
		patcher: NewPatcher(cfg.Repair.Patches.MissingSeparatorAfter),
		scan:    NewScanRecovery(cfg.Repair.IDField),
	}
}

// Run repairs the dataset file at source. The returned report is filled in
// as far as the run got, also when an error is returned.
func (e *Engine) Run(source string, dryRun bool) (*Report, error) {
	report := NewReport(source, dryRun)
	start := time.Now()

	defer func() {
		report.Duration = time.Since(start)
	}()

	original, err := storage.ReadDataset(source)
	if err != nil {
		report.Outcome = OutcomeFailed

		return report, err
	}

	output, err := e.RepairText(original, report)
	if err != nil {
		report.Outcome = OutcomeFailed

		return report, err
	}

	report.Changed = output != original

	switch {
	case report.Strategy == StrategyScan:
		report.Outcome = OutcomeRecovered
	case report.Changed:
		report.Outcome = OutcomeRepaired
	default:
		report.Outcome = OutcomeClean
	}

	if !report.Changed {
		e.logger.Info(fmt.Sprintf("Dataset already clean: %s (%d records)", source, report.Records))

		return report, nil
	}

	if dryRun {
		e.logger.Info(fmt.Sprintf("Dry run, not writing %s (%d records via %s)", source, report.Records, report.Strategy))

		return report, nil
	}

	backupPath, err := storage.WriteDataset(source, output, storage.WriteOptions{
		Backup: e.cfg.Repair.CreateBackup,
		Atomic: e.cfg.Repair.AtomicWrite,
	})
	if err != nil {
		report.Outcome = OutcomeFailed

		return report, err
	}

	report.Written = true
	report.BackupPath = backupPath

	if e.cfg.Repair.WriteManifest {
		if err := manifest.Write(source, output, report.Records, report.RunID); err != nil {
			e.logger.Warn(fmt.Sprintf("Failed to write manifest for %s: %v", source, err))
		}
	}

	e.logger.Info(fmt.Sprintf("Wrote %s: %d records via %s", source, report.Records, report.Strategy))

	return report, nil
}

// RepairText runs the text pipeline on its own, without touching disk, and
// returns the output that belongs in the dataset file. The report records
// which strategy produced it.
//
// Strategies escalate: a strict parse of the patched text is authoritative,
// and an invalid record there fails the run. The later strategies only get
// a say once the document as a whole refuses to parse.
func (e *Engine) RepairText(text string, report *Report) (string, error) {
	cleaned, sanitizeStats := sanitize.Clean(text, e.cfg.Repair.Sanitize)
	report.Sanitize = sanitizeStats

	if sanitizeStats.Changed() {
		e.logger.Debug(fmt.Sprintf("Sanitized input: bom=%v controls=%d nfc=%v",
			sanitizeStats.BOMStripped, sanitizeStats.ControlsRemoved, sanitizeStats.Normalized))
	}

	patched, patchStats := e.patcher.Apply(cleaned)
	report.Patches = patchStats

	if summary := report.PatchSummary(); summary != "none" {
		e.logger.Info(fmt.Sprintf("Applied textual patches: %s", summary))
	}

	seen := NewSeen()

	// Strategy 1: strict parse of the patched text.
	records, parseErr := jsonx.DecodeArray(patched)
	if parseErr == nil {
		unique, dropped, err := Dedupe(records, e.cfg.Repair.IDField, seen)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrInvalidRecord, err)
		}

		report.Strategy = StrategyDirect
		report.Records = len(unique)
		report.Duplicates = dropped

		return e.encode(unique)
	}

	report.ParseError = parseErr.Error()
	e.logger.Warn(fmt.Sprintf("Strict parse failed: %v", parseErr))

	// Strategy 2: rewrite almost-JSON into strict JSON.
	if std, ok := jsonx.Standardize(patched); ok {
		if records, err := jsonx.DecodeArray(std); err == nil {
			if unique, dropped, derr := Dedupe(records, e.cfg.Repair.IDField, NewSeen()); derr == nil {
				report.Strategy = StrategyStandardize
				report.Records = len(unique)
				report.Duplicates = dropped

				e.logger.Info(fmt.Sprintf("Standardize strategy parsed %d records", len(records)))

				return e.encode(unique)
			}
		}
	}

	// Strategy 3: lenient parse for human-edited variants.
	if records, err := jsonx.LenientDecodeArray(patched); err == nil {
		if unique, dropped, derr := Dedupe(records, e.cfg.Repair.IDField, NewSeen()); derr == nil {
			report.Strategy = StrategyLenient
			report.Records = len(unique)
			report.Duplicates = dropped

			e.logger.Info(fmt.Sprintf("Lenient strategy parsed %d records", len(records)))

			return e.encode(unique)
		}
	}

	// Strategy 4: scan recovery. Degraded mode, whatever it returns is a
	// subset of the document.
	e.logger.Warn("All whole-document strategies failed, scanning for individual records")

	recovered, scanStats := e.scan.Recover(patched, seen)
	report.Scan = &scanStats

	if len(recovered) == 0 {
		return "", fmt.Errorf("%w: %s", ErrNothingRecovered, report.ParseError)
	}

	report.Strategy = StrategyScan
	report.Records = len(recovered)
	report.Duplicates = scanStats.Duplicates

	e.logger.Info(fmt.Sprintf("Scan recovered %d of %d spans", scanStats.Recovered, scanStats.Spans))

	return e.encode(recovered)
}

// encode renders the final record list.
func (e *Engine) encode(records []map[string]interface{}) (string, error) {
	if e.cfg.Repair.PrettyPrint {
		return jsonx.EncodeArrayIndent(records)
	}

	out, err := jsonx.JSON.MarshalToString(records)
	if err != nil {
		return "", fmt.Errorf("failed to encode records: %w", err)
	}

	return out, nil
}
