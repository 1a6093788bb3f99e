// Package time computes time-domain statistics of a sensor channel.
//
// Variance and standard deviation use the population form (divisor n), the
// convention for describing a complete recorded window rather than
// estimating a wider population.
package time

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-vibration/dsp/core"
)

// Summary holds time-domain signal statistics.
type Summary struct {
	Length     int
	Mean       float64
	StdDev     float64 // population standard deviation
	Variance   float64 // population variance
	RMS        float64
	Min        float64
	MinPos     int
	Max        float64
	MaxPos     int
	PeakToPeak float64 // max - min
	Peak       float64 // max(|max|, |min|)
	// CrestFactor is Peak/RMS, zero for an all-zero signal.
	CrestFactor float64
	Skewness    float64
	Kurtosis    float64 // excess kurtosis
}

// StdDev returns the population standard deviation of signal.
func StdDev(signal []float64) (float64, error) {
	if len(signal) == 0 {
		return 0, fmt.Errorf("time: %w: empty signal", core.ErrInsufficientData)
	}
	if err := core.CheckFinite(signal); err != nil {
		return 0, fmt.Errorf("time: %w", err)
	}
	_, variance, _, _ := Moments(signal)
	return math.Sqrt(variance), nil
}

// Summarize computes every statistic in a single pass.
func Summarize(signal []float64) (Summary, error) {
	if len(signal) == 0 {
		return Summary{}, fmt.Errorf("time: %w: empty signal", core.ErrInsufficientData)
	}
	if err := core.CheckFinite(signal); err != nil {
		return Summary{}, fmt.Errorf("time: %w", err)
	}
	var acc Accumulator
	acc.Update(signal)
	return acc.Result(), nil
}

// Moments returns the mean, population variance, skewness, and excess kurtosis
// of the signal using Welford's online algorithm for numerical stability.
func Moments(signal []float64) (mean, variance, skewness, kurtosis float64) {
	n := len(signal)
	if n == 0 {
		return 0, 0, 0, 0
	}

	var m2, m3, m4 float64

	for i, x := range signal {
		ni := float64(i + 1)
		delta := x - mean
		deltaN := delta / ni
		deltaN2 := deltaN * deltaN
		term1 := delta * deltaN * float64(i)

		// M4 must be updated before M3, and M3 before M2.
		m4 += term1*deltaN2*(ni*ni-3*ni+3) + 6*deltaN2*m2 - 4*deltaN*m3
		m3 += term1*deltaN*(float64(i)-1) - 3*deltaN*m2
		m2 += term1
		mean += deltaN
	}

	nf := float64(n)

	variance = m2 / nf
	if variance > 0 {
		skewness = (m3 / nf) / (variance * math.Sqrt(variance))
		kurtosis = (m4/nf)/(variance*variance) - 3
	}

	return mean, variance, skewness, kurtosis
}

// Accumulator collects time-domain statistics incrementally, one sample or
// block at a time. It is not safe for concurrent use.
type Accumulator struct {
	n      int
	mean   float64
	m2     float64
	m3     float64
	m4     float64
	sumSq  float64
	maxVal float64
	maxPos int
	minVal float64
	minPos int
}

// Add adds one sample.
func (a *Accumulator) Add(x float64) {
	a.n++
	ni := float64(a.n)

	delta := x - a.mean
	deltaN := delta / ni
	deltaN2 := deltaN * deltaN
	term1 := delta * deltaN * float64(a.n-1)

	a.m4 += term1*deltaN2*(ni*ni-3*ni+3) + 6*deltaN2*a.m2 - 4*deltaN*a.m3
	a.m3 += term1*deltaN*(float64(a.n-1)-1) - 3*deltaN*a.m2
	a.m2 += term1
	a.mean += deltaN

	a.sumSq += x * x

	if a.n == 1 || x > a.maxVal {
		a.maxVal = x
		a.maxPos = a.n - 1
	}
	if a.n == 1 || x < a.minVal {
		a.minVal = x
		a.minPos = a.n - 1
	}
}

// Update adds a block of samples.
func (a *Accumulator) Update(samples []float64) {
	for _, x := range samples {
		a.Add(x)
	}
}

// Count returns the number of samples added so far.
func (a *Accumulator) Count() int {
	return a.n
}

// Result returns the statistics of every sample added so far. The zero
// Summary is returned before the first sample.
func (a *Accumulator) Result() Summary {
	if a.n == 0 {
		return Summary{}
	}

	nf := float64(a.n)
	variance := a.m2 / nf
	rms := math.Sqrt(a.sumSq / nf)
	peak := math.Max(math.Abs(a.maxVal), math.Abs(a.minVal))

	s := Summary{
		Length:     a.n,
		Mean:       a.mean,
		StdDev:     math.Sqrt(variance),
		Variance:   variance,
		RMS:        rms,
		Min:        a.minVal,
		MinPos:     a.minPos,
		Max:        a.maxVal,
		MaxPos:     a.maxPos,
		PeakToPeak: a.maxVal - a.minVal,
		Peak:       peak,
	}
	if rms > 0 {
		s.CrestFactor = peak / rms
	}
	if variance > 0 {
		s.Skewness = (a.m3 / nf) / (variance * math.Sqrt(variance))
		s.Kurtosis = (a.m4/nf)/(variance*variance) - 3
	}
	return s
}

// Reset clears all accumulated data.
func (a *Accumulator) Reset() {
	*a = Accumulator{}
}
