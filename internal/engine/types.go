package engine

import "time"

// Derived analytics results. None of these are persisted; they exist only
// as the return values of the pure functions in this package.

// Trend statuses produced by AnalyzeTrend.
const (
	TrendIncreasing     = "increasing"
	TrendSlightIncrease = "slight_increase"
	TrendStable         = "stable"
	TrendImproving      = "improving"
)

// Urgency tiers for depletion predictions.
const (
	UrgencyCritical = "critical"
	UrgencyHigh     = "high"
	UrgencyMedium   = "medium"
	UrgencyLow      = "low"
)

// Reorder actions.
const (
	ActionReorderNow  = "reorder_now"
	ActionReorderSoon = "reorder_soon"
	ActionMonitor     = "monitor"
)

// Depletion report statuses. The empty states are normal results, not
// errors — callers branch on Status.
const (
	DepletionOK         = "ok"
	DepletionNoUsage    = "no_usage_data"
	DepletionEmptyStash = "empty_stash"
)

// WindowSummary aggregates one calendar window of consumption.
// MeanEffect is only meaningful when RatedSessions > 0; an unrated window
// reports MeanEffect 0 but is distinguishable from a genuinely low score
// (ratings are 1–5, so a real mean can never be 0).
type WindowSummary struct {
	Start         time.Time `json:"start"`
	End           time.Time `json:"end"`
	TotalDoseMg   float64   `json:"total_dose_mg"`
	Sessions      int       `json:"sessions"`
	MeanEffect    float64   `json:"mean_effect"`
	RatedSessions int       `json:"rated_sessions"`
	Methods       []string  `json:"methods"`
}

// Rated reports whether the window has any effect-rating data.
func (w WindowSummary) Rated() bool { return w.RatedSessions > 0 }

// TrendAssessment classifies the tolerance signal between the early and
// recent halves of a window series.
type TrendAssessment struct {
	Status              string  `json:"status"`
	Severity            string  `json:"severity"`
	EffectivenessChange float64 `json:"effectiveness_change"`
	DosageChangePct     float64 `json:"dosage_change_pct"`
	EarlyEffect         float64 `json:"early_effect"`
	RecentEffect        float64 `json:"recent_effect"`
	EarlyDoseMg         float64 `json:"early_dose_mg"`
	RecentDoseMg        float64 `json:"recent_dose_mg"`
}

// RiskAssessment projects how soon a tolerance break will be needed,
// comparing the most recent week of daily windows against the week before.
type RiskAssessment struct {
	Risk                string  `json:"risk"` // high, medium, low, minimal
	BreakNeededInDays   int     `json:"break_needed_in_days"`
	DosageChangePct     float64 `json:"dosage_change_pct"`
	EffectivenessChange float64 `json:"effectiveness_change"`
	RecentDailyDoseMg   float64 `json:"recent_daily_dose_mg"`
	PreviousDailyDoseMg float64 `json:"previous_daily_dose_mg"`
}

// DepletionPrediction projects when one stash item runs out.
type DepletionPrediction struct {
	Strain            string    `json:"strain,omitempty"`
	ProductType       string    `json:"product_type"`
	RemainingAmount   float64   `json:"remaining_amount"`
	EstimatedDailyUse float64   `json:"estimated_daily_use"`
	DaysRemaining     float64   `json:"days_remaining"`
	EmptyDate         time.Time `json:"empty_date"`
	Urgency           string    `json:"urgency"`
}

// DepletionReport wraps the predictions with a status so that "no usage
// history" and "empty stash" are explicit rather than empty slices of
// ambiguous meaning.
type DepletionReport struct {
	Status         string                `json:"status"`
	AvgDailyDoseMg float64               `json:"avg_daily_dose_mg"`
	Predictions    []DepletionPrediction `json:"predictions"`
}

// ReorderSuggestion is the lead-time-adjusted action for one stash item.
type ReorderSuggestion struct {
	Strain          string    `json:"strain,omitempty"`
	ProductType     string    `json:"product_type"`
	RemainingAmount float64   `json:"remaining_amount"`
	DaysUntilEmpty  float64   `json:"days_until_empty"`
	ReorderInDays   float64   `json:"reorder_in_days"`
	ReorderDate     time.Time `json:"reorder_date"`
	Action          string    `json:"action"`
}

// BreakSuggestion is the advised tolerance break for a usage level.
type BreakSuggestion struct {
	SuggestedDays  int     `json:"suggested_days"`
	Intensity      string  `json:"intensity"`
	AvgDailyDoseMg float64 `json:"avg_daily_dose_mg"`
}

// DoseResult carries a computed absorbed dose plus the concentration that
// was actually used, so callers can surface the assumed-default warning.
type DoseResult struct {
	AbsorbedMg           float64 `json:"absorbed_mg"`
	ConcentrationPct     float64 `json:"concentration_pct"`
	AssumedConcentration bool    `json:"assumed_concentration"`
}

// Summary is the aggregate view of a consumption period.
type Summary struct {
	Sessions        int      `json:"sessions"`
	TotalAbsorbedMg float64  `json:"total_absorbed_mg"`
	TotalAmount     float64  `json:"total_amount"`
	MeanEffect      float64  `json:"mean_effect"`
	RatedSessions   int      `json:"rated_sessions"`
	Methods         []string `json:"methods"`
	Strains         []string `json:"strains"`
}

// Daily limit states.
const (
	LimitOK          = "ok"
	LimitApproaching = "approaching"
	LimitExceeded    = "exceeded"
)

// LimitStatus reports where today's consumption sits against a daily cap.
type LimitStatus struct {
	State       string  `json:"state"`
	ConsumedMg  float64 `json:"consumed_mg"`
	LimitMg     float64 `json:"limit_mg"`
	RemainingMg float64 `json:"remaining_mg"`
}

// Dose adjustment recommendations.
const (
	AdjustIncrease       = "increase"
	AdjustSlightIncrease = "slight_increase"
	AdjustMaintain       = "maintain"
	AdjustStartLow       = "start_low"
)

// DoseAdjustment is a coarse hint derived from recent effect ratings.
type DoseAdjustment struct {
	Recommendation string  `json:"recommendation"`
	Multiplier     float64 `json:"multiplier"`
	RecentEffect   float64 `json:"recent_effect"`
	Confidence     float64 `json:"confidence"`
}
