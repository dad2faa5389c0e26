package repair

import (
	"regexp"

	"trekdata/pkg/jsonx"
)

// flatObject matches brace-delimited spans with no nested braces. Records
// containing nested objects fall outside what the scan can see; that is the
// accepted limit of this strategy.
var flatObject = regexp.MustCompile(`\{[^{}]+\}`)

// ScanStats describes what one scan pass looked at and kept.
type ScanStats struct {
	Spans       int
	Recovered   int
	Unparseable int
	MissingID   int
	Unkeyable   int
	Duplicates  int
}

// ScanRecovery extracts individually parseable records from text that no
// whole-document strategy could parse. It trades completeness for progress:
// whatever parses in isolation and carries an unseen identifier survives,
// everything else is dropped.
type ScanRecovery struct {
	idField string
}

// NewScanRecovery creates a scan recovery keyed on the given identifier field.
func NewScanRecovery(idField string) *ScanRecovery {
	return &ScanRecovery{idField: idField}
}

// Recover scans text for flat object spans and returns the survivors in
// document order. seen carries identifiers committed by earlier phases and
// is updated as records are kept.
func (r *ScanRecovery) Recover(text string, seen Seen) ([]map[string]interface{}, ScanStats) {
	var stats ScanStats

	var recovered []map[string]interface{}

	for _, span := range flatObject.FindAllString(text, -1) {
		stats.Spans++

		cleaned, _ := StripDanglingSeparators(span)

		var record map[string]interface{}
		if err := jsonx.JSON.Unmarshal([]byte(cleaned), &record); err != nil {
			stats.Unparseable++

			continue
		}

		id, present := record[r.idField]
		if !present {
			stats.MissingID++

			continue
		}

		key, keyable := IDKey(id)
		if !keyable {
			stats.Unkeyable++

			continue
		}

		if seen.Has(key) {
			stats.Duplicates++

			continue
		}

		seen.Add(key)
		recovered = append(recovered, record)
		stats.Recovered++
	}

	return recovered, stats
}
