package store

import (
	"testing"
	"time"
)

func TestInsertAndListEntries(t *testing.T) {
	db := testDB(t)
	if _, err := db.GetOrCreateUser("u1"); err != nil {
		t.Fatalf("create user: %v", err)
	}

	base := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC).UnixMilli()
	pct := 22.5
	first := Entry{
		UserID: "u1", ProductType: "flower", Strain: "Blue Dream", Amount: 0.5,
		THCPercent: &pct, Method: "smoke", AbsorbedMg: 30.94, EffectRating: 4,
		Symptom: "pain", Notes: "evening", ConsumedAt: base,
	}
	if err := db.InsertEntry(&first); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if first.ID == 0 {
		t.Error("insert did not assign an ID")
	}

	second := Entry{
		UserID: "u1", ProductType: "edible", Amount: 0.01, Method: "edible",
		AbsorbedMg: 1.2, ConsumedAt: base + 3_600_000,
	}
	if err := db.InsertEntry(&second); err != nil {
		t.Fatalf("insert: %v", err)
	}

	entries, err := db.ListEntries("u1", 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].ID != second.ID {
		t.Errorf("list order: got entry %d first, want most recent (%d)", entries[0].ID, second.ID)
	}

	got := entries[1]
	if got.Strain != "Blue Dream" || got.Symptom != "pain" || got.EffectRating != 4 {
		t.Errorf("round trip mismatch: %+v", got)
	}
	if got.THCPercent == nil || *got.THCPercent != 22.5 {
		t.Errorf("THCPercent = %v, want 22.5", got.THCPercent)
	}

	// Nullable columns come back as zero values, not errors.
	if entries[0].Strain != "" || entries[0].EffectRating != 0 || entries[0].THCPercent != nil {
		t.Errorf("nullable fields should be zero: %+v", entries[0])
	}
}

func TestListEntriesLimit(t *testing.T) {
	db := testDB(t)
	if _, err := db.GetOrCreateUser("u1"); err != nil {
		t.Fatalf("create user: %v", err)
	}

	for i := 0; i < 5; i++ {
		e := Entry{
			UserID: "u1", ProductType: "flower", Amount: 1, Method: "smoke",
			AbsorbedMg: 10, ConsumedAt: int64(1000 * (i + 1)),
		}
		if err := db.InsertEntry(&e); err != nil {
			t.Fatalf("insert %d: %v", i, err)
		}
	}

	entries, err := db.ListEntries("u1", 3)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 3 {
		t.Errorf("got %d entries, want 3", len(entries))
	}
}

func TestEntriesSince(t *testing.T) {
	db := testDB(t)
	if _, err := db.GetOrCreateUser("u1"); err != nil {
		t.Fatalf("create user: %v", err)
	}

	for _, ts := range []int64{1000, 2000, 3000} {
		e := Entry{UserID: "u1", ProductType: "flower", Amount: 1, Method: "smoke",
			AbsorbedMg: 10, ConsumedAt: ts}
		if err := db.InsertEntry(&e); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	entries, err := db.EntriesSince("u1", 2000)
	if err != nil {
		t.Fatalf("since: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].ConsumedAt != 2000 || entries[1].ConsumedAt != 3000 {
		t.Errorf("EntriesSince not ascending: %d, %d", entries[0].ConsumedAt, entries[1].ConsumedAt)
	}
}

func TestAbsorbedSince(t *testing.T) {
	db := testDB(t)
	if _, err := db.GetOrCreateUser("u1"); err != nil {
		t.Fatalf("create user: %v", err)
	}

	for _, e := range []Entry{
		{UserID: "u1", ProductType: "flower", Amount: 1, Method: "smoke", AbsorbedMg: 25, ConsumedAt: 1000},
		{UserID: "u1", ProductType: "flower", Amount: 1, Method: "smoke", AbsorbedMg: 30, ConsumedAt: 5000},
	} {
		e := e
		if err := db.InsertEntry(&e); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	total, err := db.AbsorbedSince("u1", 2000)
	if err != nil {
		t.Fatalf("absorbed since: %v", err)
	}
	if total != 30 {
		t.Errorf("total = %g, want 30", total)
	}

	total, err = db.AbsorbedSince("u1", 999_999)
	if err != nil {
		t.Fatalf("absorbed since: %v", err)
	}
	if total != 0 {
		t.Errorf("total with no rows = %g, want 0", total)
	}
}
