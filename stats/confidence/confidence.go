// Package confidence derives a chi-squared confidence band around an
// auto spectral density estimate.
//
// The band scales every bin by the same factor:
//
//	chi2  = ChiSquaredQuantile(level, dof)
//	lower = asd * (1 - chi2/2)
//	upper = asd * (1 + chi2/2)
//
// For the default dof = 2 and any level above 1 - 1/e the quantile exceeds
// 2 and the lower bound is negative. The band is reported as computed.
package confidence

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/cwbudde/algo-vibration/dsp/core"
)

// Interval is the band for one ASD estimate. Lower and Upper are
// index-aligned with the ASD they were computed from.
type Interval struct {
	Level            float64
	DegreesOfFreedom float64
	ChiSquared       float64
	Lower            []float64
	Upper            []float64
}

// Len returns the number of bins.
func (iv Interval) Len() int {
	return len(iv.Lower)
}

// Head returns a copy of the first n bins.
func (iv Interval) Head(n int) Interval {
	n = max(0, min(n, iv.Len()))
	out := iv
	out.Lower = append([]float64(nil), iv.Lower[:n]...)
	out.Upper = append([]float64(nil), iv.Upper[:n]...)
	return out
}

// ChiSquaredQuantile returns the value x with P(X <= x) = p for a
// chi-squared distribution with dof degrees of freedom.
func ChiSquaredQuantile(p, dof float64) (float64, error) {
	if err := validate(p, dof); err != nil {
		return 0, err
	}
	q := distuv.ChiSquared{K: dof}.Quantile(p)
	if math.IsNaN(q) || math.IsInf(q, 0) {
		return 0, fmt.Errorf("confidence: %w: chi-squared quantile(%v, %v) = %v", core.ErrComputation, p, dof, q)
	}
	return q, nil
}

// Bounds computes the band for asd at the given confidence level.
func Bounds(asd []float64, level, dof float64) (Interval, error) {
	chi2, err := ChiSquaredQuantile(level, dof)
	if err != nil {
		return Interval{}, err
	}
	if err := core.CheckFinite(asd); err != nil {
		return Interval{}, fmt.Errorf("confidence: %w", err)
	}

	lowerScale := 1 - chi2/2
	upperScale := 1 + chi2/2

	iv := Interval{
		Level:            level,
		DegreesOfFreedom: dof,
		ChiSquared:       chi2,
		Lower:            make([]float64, len(asd)),
		Upper:            make([]float64, len(asd)),
	}
	for k, v := range asd {
		iv.Lower[k] = v * lowerScale
		iv.Upper[k] = v * upperScale
	}
	return iv, nil
}

func validate(level, dof float64) error {
	if !(level > 0 && level < 1) {
		return fmt.Errorf("confidence: %w: level must be in (0,1): %v", core.ErrInvalidConfiguration, level)
	}
	if err := core.RequirePositive("degrees of freedom", dof); err != nil {
		return fmt.Errorf("confidence: %w", err)
	}
	return nil
}
