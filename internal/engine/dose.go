package engine

import (
	"fmt"
	"math"
)

// AbsorbedDose converts a raw consumption input into an absorbed-dose
// estimate in mg. amount is the product mass in grams (or a pre-converted
// THC-mass equivalent in grams for mg-dosed products). concentration is
// the potency percentage, or nil when unknown — the configured default is
// substituted and flagged on the result so the caller can warn.
//
// The estimate is amount × concentration, normalized to mg, times the
// per-method bioavailability fraction, rounded to two decimals.
func AbsorbedDose(cfg Config, amount float64, concentration *float64, method string) (DoseResult, error) {
	if amount <= 0 {
		return DoseResult{}, fmt.Errorf("%w: got %g", ErrInvalidAmount, amount)
	}

	bio, ok := cfg.Bioavailability[method]
	if !ok {
		return DoseResult{}, fmt.Errorf("%w: %q", ErrInvalidMethod, method)
	}

	pct := cfg.DefaultConcentrationPct
	assumed := true
	if concentration != nil {
		if *concentration < 0 || *concentration > 100 {
			return DoseResult{}, fmt.Errorf("%w: got %g", ErrInvalidConcentration, *concentration)
		}
		pct = *concentration
		assumed = false
	}

	thcMg := amount * (pct / 100) * 1000 // grams to mg
	absorbed := round2(thcMg * bio)

	return DoseResult{
		AbsorbedMg:           absorbed,
		ConcentrationPct:     pct,
		AssumedConcentration: assumed,
	}, nil
}

// ValidateRating checks an effect rating. Zero means "not rated" and is
// accepted; anything else must be in 1..5.
func ValidateRating(rating int) error {
	if rating == 0 {
		return nil
	}
	if rating < 1 || rating > 5 {
		return fmt.Errorf("%w: got %d", ErrInvalidRating, rating)
	}
	return nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
