package engine

import (
	"sort"
	"time"

	"github.com/mossline/stashtrack/internal/store"
)

// PredictDepletion projects when each stash item runs out, given the
// average absorbed dose per day over the recent usage period. Items with
// nothing remaining are skipped. The report is ordered soonest-first.
//
// A zero dose rate or an empty stash are normal states: the report comes
// back with the matching status and no predictions rather than an error.
func PredictDepletion(cfg Config, items []store.StashItem, avgDailyDoseMg float64, now time.Time) DepletionReport {
	report := DepletionReport{AvgDailyDoseMg: avgDailyDoseMg}

	held := 0
	for _, it := range items {
		if it.Amount > 0 {
			held++
		}
	}
	if held == 0 {
		report.Status = DepletionEmptyStash
		return report
	}
	if avgDailyDoseMg <= 0 {
		report.Status = DepletionNoUsage
		return report
	}

	for _, it := range items {
		if it.Amount <= 0 {
			continue
		}

		daily := estimatedDailyUse(cfg, it, avgDailyDoseMg)
		if daily <= 0 {
			continue
		}

		days := it.Amount / daily
		report.Predictions = append(report.Predictions, DepletionPrediction{
			Strain:            it.Strain,
			ProductType:       it.ProductType,
			RemainingAmount:   it.Amount,
			EstimatedDailyUse: daily,
			DaysRemaining:     days,
			EmptyDate:         now.Add(time.Duration(days * float64(24*time.Hour))),
			Urgency:           urgencyFor(cfg, days),
		})
	}

	sort.SliceStable(report.Predictions, func(i, j int) bool {
		return report.Predictions[i].DaysRemaining < report.Predictions[j].DaysRemaining
	})

	report.Status = DepletionOK
	return report
}

// estimatedDailyUse converts the item's share of the daily absorbed dose
// into stash units: grams of product for mass-based types, or THC-mass
// equivalents for mg-dosed types (edibles and the like).
func estimatedDailyUse(cfg Config, it store.StashItem, avgDailyDoseMg float64) float64 {
	alloc := cfg.allocationFor(it.ProductType)
	share := avgDailyDoseMg * alloc.Fraction

	if alloc.MgDosed {
		return share / 1000
	}

	pct := alloc.AssumedConcentrationPct
	if it.THCPercent != nil && *it.THCPercent > 0 {
		pct = *it.THCPercent
	}
	if pct <= 0 {
		return 0
	}
	return share / (pct * 10)
}

// urgencyFor walks the ordered tier ladder; the first ceiling the
// projection fits under wins, with "low" as the catch-all.
func urgencyFor(cfg Config, daysRemaining float64) string {
	for _, tier := range cfg.UrgencyTiers {
		if daysRemaining < tier.MaxDays {
			return tier.Urgency
		}
	}
	return UrgencyLow
}
