package store

import "testing"

func TestLowStashWarnings(t *testing.T) {
	db := testDB(t)

	if _, err := db.AddLowStashAlert("u1", "flower", 3.0, ""); err != nil {
		t.Fatalf("add alert: %v", err)
	}
	if _, err := db.AddStash("u1", "flower", "Blue Dream", 5.0, nil, ""); err != nil {
		t.Fatalf("add stash: %v", err)
	}

	warnings, err := db.LowStashWarnings("u1")
	if err != nil {
		t.Fatalf("warnings: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("above threshold: got %v, want none", warnings)
	}

	if _, err := db.RemoveStash("u1", "flower", "Blue Dream", 3.0); err != nil {
		t.Fatalf("remove: %v", err)
	}
	warnings, err = db.LowStashWarnings("u1")
	if err != nil {
		t.Fatalf("warnings: %v", err)
	}
	if len(warnings) != 1 {
		t.Fatalf("below threshold: got %d warnings, want 1", len(warnings))
	}
}

func TestLowStashWarningsCustomMessage(t *testing.T) {
	db := testDB(t)

	if _, err := db.AddLowStashAlert("u1", "edible", 50, "restock gummies"); err != nil {
		t.Fatalf("add alert: %v", err)
	}

	// No stash at all counts as zero on hand.
	warnings, err := db.LowStashWarnings("u1")
	if err != nil {
		t.Fatalf("warnings: %v", err)
	}
	if len(warnings) != 1 || warnings[0] != "restock gummies" {
		t.Errorf("warnings = %v, want the custom message", warnings)
	}
}

func TestListAlerts(t *testing.T) {
	db := testDB(t)

	if _, err := db.AddLowStashAlert("u1", "flower", 2, ""); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := db.AddLowStashAlert("u1", "cart", 0.2, ""); err != nil {
		t.Fatalf("add: %v", err)
	}

	alerts, err := db.ListAlerts("u1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(alerts) != 2 {
		t.Fatalf("got %d alerts, want 2", len(alerts))
	}
	if alerts[0].TargetType != "flower" || alerts[1].TargetType != "cart" {
		t.Errorf("alerts out of insertion order: %+v", alerts)
	}
}
