package core

import (
	"errors"
	"fmt"
	"math"
)

// Error kinds shared by every analysis stage. Callers match them with
// errors.Is; stages wrap them with context.
var (
	// ErrInvalidConfiguration reports a parameter outside its valid domain
	// (non-positive rates, durations or capacities, a confidence level
	// outside (0,1), non-positive degrees of freedom, unknown channels).
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrInsufficientData reports an empty signal at analysis time.
	ErrInsufficientData = errors.New("insufficient data")

	// ErrComputation reports a non-finite value reaching a transform or
	// quantile computation.
	ErrComputation = errors.New("computation error")
)

// CheckFinite returns an error wrapping ErrComputation for the first NaN or
// Inf in data.
func CheckFinite(data []float64) error {
	for i, v := range data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: non-finite value %v at index %d", ErrComputation, v, i)
		}
	}
	return nil
}

// RequirePositive returns an error wrapping ErrInvalidConfiguration when v
// is not a finite value > 0.
func RequirePositive(name string, v float64) error {
	if !(v > 0) || math.IsInf(v, 1) {
		return fmt.Errorf("%w: %s must be > 0: %v", ErrInvalidConfiguration, name, v)
	}
	return nil
}
