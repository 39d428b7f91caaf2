package engine

// SuggestBreak maps an average daily absorbed dose to a suggested
// tolerance break. The rule ladder is evaluated in order; the last rule
// (MinDailyMg 0) catches everything below the lowest threshold.
func SuggestBreak(cfg Config, avgDailyDoseMg float64) BreakSuggestion {
	s := BreakSuggestion{AvgDailyDoseMg: avgDailyDoseMg}
	for _, rule := range cfg.BreakRules {
		if avgDailyDoseMg > rule.MinDailyMg || rule.MinDailyMg == 0 {
			s.SuggestedDays = rule.SuggestedDays
			s.Intensity = rule.Intensity
			return s
		}
	}
	return s
}

// SuggestDoseAdjustment derives a coarse dosage hint from the mean effect
// rating of recent rated windows. With no ratings at all the only honest
// answer is "start low and track".
func SuggestDoseAdjustment(recentRatings []float64) DoseAdjustment {
	if len(recentRatings) == 0 {
		return DoseAdjustment{Recommendation: AdjustStartLow, Multiplier: 1.0}
	}

	sum := 0.0
	for _, r := range recentRatings {
		sum += r
	}
	mean := sum / float64(len(recentRatings))

	adj := DoseAdjustment{
		RecentEffect: mean,
		Confidence:   float64(len(recentRatings)) / 7,
	}
	if adj.Confidence > 1 {
		adj.Confidence = 1
	}

	switch {
	case mean < 2.5:
		adj.Recommendation, adj.Multiplier = AdjustIncrease, 1.2
	case mean > 4.0:
		adj.Recommendation, adj.Multiplier = AdjustMaintain, 1.0
	default:
		adj.Recommendation, adj.Multiplier = AdjustSlightIncrease, 1.1
	}
	return adj
}
