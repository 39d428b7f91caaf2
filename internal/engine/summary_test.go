package engine

import (
	"reflect"
	"testing"
	"time"

	"github.com/mossline/stashtrack/internal/store"
)

func TestSummarize(t *testing.T) {
	now := time.Date(2026, 3, 10, 18, 0, 0, 0, time.UTC)

	entries := []store.Entry{
		{AbsorbedMg: 55, Amount: 1.0, EffectRating: 4, Method: MethodSmoke, Strain: "Blue Dream",
			ConsumedAt: now.Add(-2 * time.Hour).UnixMilli()},
		{AbsorbedMg: 24, Amount: 0.5, EffectRating: 0, Method: MethodEdible, Strain: "",
			ConsumedAt: now.Add(-6 * time.Hour).UnixMilli()},
		{AbsorbedMg: 999, Amount: 9, EffectRating: 5, Method: MethodDab, Strain: "Old",
			ConsumedAt: now.AddDate(0, 0, -3).UnixMilli()}, // outside a 1-day period
	}

	s := Summarize(entries, 1, now)
	if s.Sessions != 2 {
		t.Fatalf("Sessions = %d, want 2", s.Sessions)
	}
	if s.TotalAbsorbedMg != 79 {
		t.Errorf("TotalAbsorbedMg = %g, want 79", s.TotalAbsorbedMg)
	}
	if s.TotalAmount != 1.5 {
		t.Errorf("TotalAmount = %g, want 1.5", s.TotalAmount)
	}
	if s.RatedSessions != 1 || s.MeanEffect != 4 {
		t.Errorf("rated = %d mean %g, want 1 / 4", s.RatedSessions, s.MeanEffect)
	}
	if !reflect.DeepEqual(s.Methods, []string{MethodEdible, MethodSmoke}) {
		t.Errorf("Methods = %v, want sorted [edible smoke]", s.Methods)
	}
	if !reflect.DeepEqual(s.Strains, []string{"Blue Dream"}) {
		t.Errorf("Strains = %v, want [Blue Dream] (empty strain skipped)", s.Strains)
	}
}

func TestSummarizeEmptyPeriod(t *testing.T) {
	s := Summarize(nil, 7, time.Now())
	if s.Sessions != 0 || s.RatedSessions != 0 || s.MeanEffect != 0 {
		t.Errorf("empty period should zero out, got %+v", s)
	}
}

func TestCheckDailyLimit(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		name          string
		consumed      float64
		limit         float64
		wantState     string
		wantRemaining float64
	}{
		{"no limit configured", 500, 0, LimitOK, 0},
		{"well under", 50, 100, LimitOK, 50},
		{"at warn threshold", 80, 100, LimitOK, 20},
		{"past warn threshold", 85, 100, LimitApproaching, 15},
		{"over the cap", 120, 100, LimitExceeded, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CheckDailyLimit(cfg, tt.consumed, tt.limit)
			if got.State != tt.wantState {
				t.Errorf("State = %s, want %s", got.State, tt.wantState)
			}
			if got.RemainingMg != tt.wantRemaining {
				t.Errorf("RemainingMg = %g, want %g", got.RemainingMg, tt.wantRemaining)
			}
		})
	}
}
