package repair

import (
	"testing"
)

func TestScanRecovery_ExtractsRecordsInOrder(t *testing.T) {
	r := NewScanRecovery("id")

	text := `[
  {"id": 1, "name": "Alpha"},
  GARBAGE THAT PARSES NOWHERE
  {"id": 2, "name": "Beta"},
  {"id": 3, "name": "Gamma"}
`

	recovered, stats := r.Recover(text, NewSeen())
	if len(recovered) != 3 {
		t.Fatalf("Expected 3 recovered records, got %d", len(recovered))
	}

	for i, want := range []float64{1, 2, 3} {
		if got := recovered[i]["id"]; got != want {
			t.Errorf("Record %d: expected id %v, got %v", i, want, got)
		}
	}

	if stats.Spans != 3 || stats.Recovered != 3 {
		t.Errorf("Expected 3 spans and 3 recovered, got %+v", stats)
	}
}

func TestScanRecovery_StripsDanglingSeparatorPerSpan(t *testing.T) {
	r := NewScanRecovery("id")

	recovered, stats := r.Recover(`{"id": 1, "name": "Alpha",}`, NewSeen())
	if len(recovered) != 1 {
		t.Fatalf("Expected span repaired and recovered, got %+v", stats)
	}

	if got := recovered[0]["name"]; got != "Alpha" {
		t.Errorf("Expected name Alpha, got %v", got)
	}
}

func TestScanRecovery_SkipsDuplicates(t *testing.T) {
	r := NewScanRecovery("id")

	text := `{"id": 1, "name": "kept"} {"id": 2, "name": "kept"} {"id": 1, "name": "dropped"}`

	recovered, stats := r.Recover(text, NewSeen())
	if len(recovered) != 2 {
		t.Fatalf("Expected 2 recovered records, got %d", len(recovered))
	}

	if stats.Duplicates != 1 {
		t.Errorf("Expected 1 duplicate, got %d", stats.Duplicates)
	}
}

func TestScanRecovery_RespectsExistingSeen(t *testing.T) {
	r := NewScanRecovery("id")

	seen := NewSeen()
	seen.Add(float64(1))

	recovered, stats := r.Recover(`{"id": 1, "name": "committed earlier"} {"id": 2, "name": "new"}`, seen)
	if len(recovered) != 1 {
		t.Fatalf("Expected 1 recovered record, got %d", len(recovered))
	}

	if got := recovered[0]["id"]; got != float64(2) {
		t.Errorf("Expected id 2, got %v", got)
	}

	if stats.Duplicates != 1 {
		t.Errorf("Expected 1 duplicate against prior seen, got %d", stats.Duplicates)
	}
}

func TestScanRecovery_SkipsSpansWithoutIdentifier(t *testing.T) {
	r := NewScanRecovery("id")

	recovered, stats := r.Recover(`{"name": "anonymous"} {"id": 5, "name": "kept"}`, NewSeen())
	if len(recovered) != 1 {
		t.Fatalf("Expected 1 recovered record, got %d", len(recovered))
	}

	if stats.MissingID != 1 {
		t.Errorf("Expected 1 span without identifier, got %d", stats.MissingID)
	}
}

func TestScanRecovery_SkipsUnparseableSpans(t *testing.T) {
	r := NewScanRecovery("id")

	recovered, stats := r.Recover(`{"id": 1, "name": } {"id": 2, "name": "fine"}`, NewSeen())
	if len(recovered) != 1 {
		t.Fatalf("Expected 1 recovered record, got %d", len(recovered))
	}

	if stats.Unparseable != 1 {
		t.Errorf("Expected 1 unparseable span, got %d", stats.Unparseable)
	}
}

func TestScanRecovery_NestedBracesFallOutside(t *testing.T) {
	r := NewScanRecovery("id")

	// The span match cannot cross a nested brace, so the outer record is
	// lost and only the inner object is inspected.
	recovered, stats := r.Recover(`{"id": 9, "nested": {"depth": 1}}`, NewSeen())
	if len(recovered) != 0 {
		t.Fatalf("Expected nested record lost, got %d recovered", len(recovered))
	}

	if stats.Spans != 1 || stats.MissingID != 1 {
		t.Errorf("Expected inner span inspected and skipped, got %+v", stats)
	}
}

func TestScanRecovery_NothingToRecover(t *testing.T) {
	r := NewScanRecovery("id")

	recovered, stats := r.Recover(`[no braces complete here`, NewSeen())
	if len(recovered) != 0 {
		t.Fatalf("Expected nothing recovered, got %d", len(recovered))
	}

	if stats.Spans != 0 {
		t.Errorf("Expected 0 spans, got %d", stats.Spans)
	}
}

func TestScanRecovery_UnkeyableIdentifier(t *testing.T) {
	r := NewScanRecovery("id")

	recovered, stats := r.Recover(`{"id": [1, 2], "name": "listy"}`, NewSeen())
	if len(recovered) != 0 {
		t.Fatalf("Expected unkeyable record skipped, got %d", len(recovered))
	}

	if stats.Unkeyable != 1 {
		t.Errorf("Expected 1 unkeyable span, got %d", stats.Unkeyable)
	}
}
