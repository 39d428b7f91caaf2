package engine

import (
	"math"
	"testing"
)

func TestSuggestBreak(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		dailyMg       float64
		wantDays      int
		wantIntensity string
	}{
		{150, 7, "full"},
		{100.01, 7, "full"},
		{100, 5, "moderate"},
		{60, 5, "moderate"},
		{30, 3, "mild"},
		{25, 2, "minimal"},
		{10, 2, "minimal"},
		{0, 2, "minimal"},
	}
	for _, tt := range tests {
		got := SuggestBreak(cfg, tt.dailyMg)
		if got.SuggestedDays != tt.wantDays || got.Intensity != tt.wantIntensity {
			t.Errorf("SuggestBreak(%g) = %d days %s, want %d days %s",
				tt.dailyMg, got.SuggestedDays, got.Intensity, tt.wantDays, tt.wantIntensity)
		}
		if got.AvgDailyDoseMg != tt.dailyMg {
			t.Errorf("AvgDailyDoseMg = %g, want %g", got.AvgDailyDoseMg, tt.dailyMg)
		}
	}
}

func TestSuggestDoseAdjustment(t *testing.T) {
	tests := []struct {
		name           string
		ratings        []float64
		wantRec        string
		wantMultiplier float64
	}{
		{"no data", nil, AdjustStartLow, 1.0},
		{"weak effect", []float64{2.0, 2.2, 1.8}, AdjustIncrease, 1.2},
		{"strong effect", []float64{4.5, 4.8, 4.2}, AdjustMaintain, 1.0},
		{"middling effect", []float64{3.0, 3.5}, AdjustSlightIncrease, 1.1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SuggestDoseAdjustment(tt.ratings)
			if got.Recommendation != tt.wantRec || got.Multiplier != tt.wantMultiplier {
				t.Errorf("got %s x%g, want %s x%g",
					got.Recommendation, got.Multiplier, tt.wantRec, tt.wantMultiplier)
			}
		})
	}
}

func TestSuggestDoseAdjustmentConfidence(t *testing.T) {
	got := SuggestDoseAdjustment([]float64{3, 3})
	if want := 2.0 / 7.0; math.Abs(got.Confidence-want) > 1e-9 {
		t.Errorf("Confidence = %g, want %g", got.Confidence, want)
	}

	full := SuggestDoseAdjustment([]float64{3, 3, 3, 3, 3, 3, 3, 3, 3})
	if full.Confidence != 1 {
		t.Errorf("Confidence = %g, want capped at 1", full.Confidence)
	}
}
