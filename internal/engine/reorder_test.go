package engine

import (
	"testing"
	"time"
)

func TestSuggestReorderTiming(t *testing.T) {
	cfg := DefaultConfig()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	predictions := []DepletionPrediction{
		{ProductType: "dab", DaysRemaining: 3},     // lead 5: overdue
		{ProductType: "flower", DaysRemaining: 5},  // lead 3: 2 days out
		{ProductType: "flower", DaysRemaining: 30}, // lead 3: plenty
	}

	got := SuggestReorderTiming(cfg, predictions, now)
	if len(got) != 3 {
		t.Fatalf("got %d suggestions, want 3", len(got))
	}

	if got[0].Action != ActionReorderNow || got[0].ReorderInDays != 0 {
		t.Errorf("overdue item: got %s in %g days, want reorder_now in 0",
			got[0].Action, got[0].ReorderInDays)
	}
	if got[1].Action != ActionReorderSoon || got[1].ReorderInDays != 2 {
		t.Errorf("near item: got %s in %g days, want reorder_soon in 2",
			got[1].Action, got[1].ReorderInDays)
	}
	if got[2].Action != ActionMonitor || got[2].ReorderInDays != 27 {
		t.Errorf("far item: got %s in %g days, want monitor in 27",
			got[2].Action, got[2].ReorderInDays)
	}

	if !got[0].ReorderDate.Equal(now) {
		t.Errorf("overdue ReorderDate = %v, want now", got[0].ReorderDate)
	}
	if want := now.AddDate(0, 0, 2); !got[1].ReorderDate.Equal(want) {
		t.Errorf("near ReorderDate = %v, want %v", got[1].ReorderDate, want)
	}
}

func TestSuggestReorderTimingUnknownTypeUsesDefaultLead(t *testing.T) {
	cfg := DefaultConfig()
	now := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	got := SuggestReorderTiming(cfg, []DepletionPrediction{
		{ProductType: "mystery", DaysRemaining: 10},
	}, now)
	if len(got) != 1 {
		t.Fatalf("got %d suggestions, want 1", len(got))
	}
	if got[0].ReorderInDays != 5 {
		t.Errorf("ReorderInDays = %g, want 5 (10 days minus default 5-day lead)", got[0].ReorderInDays)
	}
}

func TestSuggestReorderTimingEmpty(t *testing.T) {
	got := SuggestReorderTiming(DefaultConfig(), nil, time.Now())
	if len(got) != 0 {
		t.Errorf("got %d suggestions for empty input, want 0", len(got))
	}
}
