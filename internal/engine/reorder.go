package engine

import "time"

// SuggestReorderTiming converts depletion predictions into lead-time-
// adjusted reorder recommendations. It is a pure transformation of the
// predictor's output and keeps its soonest-first ordering.
func SuggestReorderTiming(cfg Config, predictions []DepletionPrediction, now time.Time) []ReorderSuggestion {
	suggestions := make([]ReorderSuggestion, 0, len(predictions))
	for _, p := range predictions {
		lead := cfg.leadTimeFor(p.ProductType)

		reorderIn := p.DaysRemaining - lead
		if reorderIn < 0 {
			reorderIn = 0
		}

		action := ActionMonitor
		switch {
		case reorderIn == 0:
			action = ActionReorderNow
		case reorderIn <= 2:
			action = ActionReorderSoon
		}

		suggestions = append(suggestions, ReorderSuggestion{
			Strain:          p.Strain,
			ProductType:     p.ProductType,
			RemainingAmount: p.RemainingAmount,
			DaysUntilEmpty:  p.DaysRemaining,
			ReorderInDays:   reorderIn,
			ReorderDate:     now.Add(time.Duration(reorderIn * float64(24*time.Hour))),
			Action:          action,
		})
	}
	return suggestions
}
