package engine

import "errors"

// Validation errors are raised at the call boundary; callers match them
// with errors.Is. "Not enough history" is also a sentinel because it is an
// expected, recoverable state the caller must branch on, not a fault.
var (
	ErrInvalidAmount        = errors.New("amount must be greater than zero")
	ErrInvalidMethod        = errors.New("unknown consumption method")
	ErrInvalidConcentration = errors.New("concentration must be between 0 and 100")
	ErrInvalidRating        = errors.New("effect rating must be between 1 and 5")
	ErrInsufficientData     = errors.New("not enough rated data for analysis")
)
