package engine

// Config holds every tunable constant the analytics functions use.
// The tables are data on purpose: callers inject a Config (usually
// DefaultConfig) so thresholds can be tuned and tested without touching
// the classification logic.
type Config struct {
	// Bioavailability is the absorbed fraction per consumption method.
	Bioavailability map[string]float64

	// DefaultConcentrationPct is substituted when a log entry carries no
	// concentration and the stash has none either.
	DefaultConcentrationPct float64

	// Allocations maps a product type to its assumed share of total daily
	// dose and the concentration assumed when the stash item has none.
	Allocations map[string]Allocation

	// FallbackAllocation is used for product types not in Allocations.
	FallbackAllocation Allocation

	// LeadTimeDays is the reorder lead time per product type.
	LeadTimeDays map[string]float64

	// DefaultLeadTimeDays applies to product types not in LeadTimeDays.
	DefaultLeadTimeDays float64

	// TrendMinWindows is the minimum number of rated windows required
	// before trend analysis will run.
	TrendMinWindows int

	// Trend holds the effectiveness-change thresholds for tolerance
	// classification.
	Trend TrendThresholds

	// UrgencyTiers is the ordered urgency ladder for depletion
	// predictions: first tier whose MaxDays exceeds the projection wins.
	UrgencyTiers []UrgencyTier

	// BreakRules is the ordered step function mapping average daily dose
	// to a suggested tolerance break. The last rule is the catch-all.
	BreakRules []BreakRule

	// LimitWarnFraction is the fraction of the daily limit at which an
	// "approaching limit" warning fires.
	LimitWarnFraction float64
}

// Allocation describes how a product type participates in depletion
// forecasting.
type Allocation struct {
	// Fraction of the total daily absorbed dose attributed to this type.
	Fraction float64

	// AssumedConcentrationPct is used when the stash item has no
	// concentration of its own. Ignored for mg-dosed products.
	AssumedConcentrationPct float64

	// MgDosed is true for products whose stash amount is already a
	// THC-mass equivalent (edibles, tinctures, capsules) rather than a
	// raw product mass in grams.
	MgDosed bool
}

// TrendThresholds are the effectiveness/dosage deltas used by
// AnalyzeTrend. See trend.go for the evaluation order.
type TrendThresholds struct {
	Drop       float64 // effectiveness drop that, with rising dosage, means tolerance
	SevereDrop float64 // drop beyond which severity is high
	SlightDrop float64 // drop classified as slight_increase
	Gain       float64 // gain classified as improving
}

// UrgencyTier maps a days-remaining ceiling to an urgency label.
type UrgencyTier struct {
	MaxDays float64
	Urgency string
}

// BreakRule maps a minimum average daily dose to a suggested break.
type BreakRule struct {
	MinDailyMg    float64
	SuggestedDays int
	Intensity     string
}

// Consumption methods accepted by the dose calculator.
const (
	MethodSmoke     = "smoke"
	MethodVaporizer = "vaporizer"
	MethodDab       = "dab"
	MethodEdible    = "edible"
	MethodTincture  = "tincture"
	MethodCapsule   = "capsule"
)

// DefaultConfig returns the stock constant tables.
func DefaultConfig() Config {
	return Config{
		Bioavailability: map[string]float64{
			MethodSmoke:     0.275,
			MethodVaporizer: 0.30,
			MethodDab:       0.65,
			MethodEdible:    0.12,
			MethodTincture:  0.275,
			MethodCapsule:   0.12,
		},
		DefaultConcentrationPct: 20.0,
		Allocations: map[string]Allocation{
			"flower":      {Fraction: 0.6, AssumedConcentrationPct: 20},
			"dab":         {Fraction: 0.3, AssumedConcentrationPct: 70},
			"cart":        {Fraction: 0.3, AssumedConcentrationPct: 70},
			"concentrate": {Fraction: 0.3, AssumedConcentrationPct: 70},
			"edible":      {Fraction: 0.1, MgDosed: true},
			"tincture":    {Fraction: 0.1, MgDosed: true},
			"capsule":     {Fraction: 0.1, MgDosed: true},
		},
		// rate/(pct*20), expressed as a half share over pct*10 grams.
		FallbackAllocation: Allocation{Fraction: 0.5, AssumedConcentrationPct: 20},
		LeadTimeDays: map[string]float64{
			"flower":      3,
			"dab":         5,
			"cart":        5,
			"concentrate": 5,
			"edible":      7,
		},
		DefaultLeadTimeDays: 5,
		TrendMinWindows:     7,
		Trend: TrendThresholds{
			Drop:       -0.5,
			SevereDrop: -1.0,
			SlightDrop: -0.3,
			Gain:       0.3,
		},
		UrgencyTiers: []UrgencyTier{
			{MaxDays: 3, Urgency: UrgencyCritical},
			{MaxDays: 7, Urgency: UrgencyHigh},
			{MaxDays: 14, Urgency: UrgencyMedium},
		},
		BreakRules: []BreakRule{
			{MinDailyMg: 100, SuggestedDays: 7, Intensity: "full"},
			{MinDailyMg: 50, SuggestedDays: 5, Intensity: "moderate"},
			{MinDailyMg: 25, SuggestedDays: 3, Intensity: "mild"},
			{MinDailyMg: 0, SuggestedDays: 2, Intensity: "minimal"},
		},
		LimitWarnFraction: 0.8,
	}
}

// allocationFor returns the allocation table entry for a product type.
func (c Config) allocationFor(productType string) Allocation {
	if a, ok := c.Allocations[productType]; ok {
		return a
	}
	return c.FallbackAllocation
}

// leadTimeFor returns the reorder lead time for a product type.
func (c Config) leadTimeFor(productType string) float64 {
	if d, ok := c.LeadTimeDays[productType]; ok {
		return d
	}
	return c.DefaultLeadTimeDays
}
