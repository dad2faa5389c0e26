package storage

import (
	"path/filepath"
	"testing"

	"trekdata/internal/models"
)

func testDB(t *testing.T) *DB {
	t.Helper()

	db, err := OpenDB(filepath.Join(t.TempDir(), "treks.db"))
	if err != nil {
		t.Fatalf("OpenDB() error = %v", err)
	}

	t.Cleanup(func() { db.Close() })

	if err := db.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	return db
}

func sampleTreks() []models.Trek {
	return []models.Trek{
		{
			ID:            1,
			Name:          "West Highland Way",
			Region:        "Highlands",
			DistanceKm:    154,
			DurationDays:  7,
			Difficulty:    "moderate",
			ImageFilename: "whw",
			Description:   "Milngavie to Fort William.",
		},
		{
			ID:           2,
			Name:         "Great Glen Way",
			Region:       "Highlands",
			DistanceKm:   125.5,
			DurationDays: 6,
		},
	}
}

func TestDB_UpsertTreks_Insert(t *testing.T) {
	db := testDB(t)

	inserted, updated, err := db.UpsertTreks(sampleTreks())
	if err != nil {
		t.Fatalf("UpsertTreks() error = %v", err)
	}

	if inserted != 2 || updated != 0 {
		t.Errorf("Expected 2 inserted and 0 updated, got %d and %d", inserted, updated)
	}

	count, err := db.CountTreks()
	if err != nil {
		t.Fatalf("CountTreks() error = %v", err)
	}

	if count != 2 {
		t.Errorf("Expected 2 treks stored, got %d", count)
	}
}

func TestDB_UpsertTreks_Update(t *testing.T) {
	db := testDB(t)

	if _, _, err := db.UpsertTreks(sampleTreks()); err != nil {
		t.Fatalf("UpsertTreks() error = %v", err)
	}

	changed := sampleTreks()
	changed[0].Name = "West Highland Way (revised)"

	inserted, updated, err := db.UpsertTreks(changed)
	if err != nil {
		t.Fatalf("UpsertTreks() error = %v", err)
	}

	if inserted != 0 || updated != 2 {
		t.Errorf("Expected 0 inserted and 2 updated, got %d and %d", inserted, updated)
	}

	treks, err := db.ListTreks()
	if err != nil {
		t.Fatalf("ListTreks() error = %v", err)
	}

	if treks[0].Name != "West Highland Way (revised)" {
		t.Errorf("Expected updated name, got %q", treks[0].Name)
	}

	count, _ := db.CountTreks()
	if count != 2 {
		t.Errorf("Expected no extra rows after update, got %d", count)
	}
}

func TestDB_ListTreks_OrderedByID(t *testing.T) {
	db := testDB(t)

	treks := sampleTreks()
	treks[0], treks[1] = treks[1], treks[0]

	if _, _, err := db.UpsertTreks(treks); err != nil {
		t.Fatalf("UpsertTreks() error = %v", err)
	}

	stored, err := db.ListTreks()
	if err != nil {
		t.Fatalf("ListTreks() error = %v", err)
	}

	if len(stored) != 2 {
		t.Fatalf("Expected 2 treks, got %d", len(stored))
	}

	if stored[0].ID != 1 || stored[1].ID != 2 {
		t.Errorf("Expected treks ordered by id, got %d then %d", stored[0].ID, stored[1].ID)
	}

	if stored[0].DistanceKm != 154 {
		t.Errorf("Expected distance preserved, got %v", stored[0].DistanceKm)
	}
}

func TestDB_ListTreks_Empty(t *testing.T) {
	db := testDB(t)

	treks, err := db.ListTreks()
	if err != nil {
		t.Fatalf("ListTreks() error = %v", err)
	}

	if len(treks) != 0 {
		t.Errorf("Expected empty list, got %d treks", len(treks))
	}
}

func TestDB_InitIsIdempotent(t *testing.T) {
	db := testDB(t)

	if err := db.Init(); err != nil {
		t.Fatalf("Second Init() error = %v", err)
	}

	if _, _, err := db.UpsertTreks(sampleTreks()); err != nil {
		t.Fatalf("UpsertTreks() after re-init error = %v", err)
	}

	if err := db.Init(); err != nil {
		t.Fatalf("Init() on populated database error = %v", err)
	}

	count, err := db.CountTreks()
	if err != nil {
		t.Fatalf("CountTreks() error = %v", err)
	}

	if count != 2 {
		t.Errorf("Expected data to survive re-init, got %d treks", count)
	}
}
