// Package outlier flags time-domain samples outside Tukey's interquartile
// fences.
//
// Quartiles use linear interpolation between closest ranks: the p-th
// percentile of n sorted values sits at fractional rank p/100*(n-1).
// Samples strictly below Q1 - k*IQR or strictly above Q3 + k*IQR are
// outliers, with k = 1.5 unless configured otherwise.
package outlier

import (
	"fmt"
	"math"
	"slices"

	"github.com/cwbudde/algo-vibration/dsp/core"
)

// DefaultFenceFactor is Tukey's fence multiplier.
const DefaultFenceFactor = 1.5

// Report summarizes the outliers of one signal.
type Report struct {
	Q1         float64
	Q3         float64
	IQR        float64
	LowerFence float64
	UpperFence float64
	// Outliers holds the flagged values in signal order; Indices holds
	// their positions.
	Outliers   []float64
	Indices    []int
	Count      int
	Percentage float64
}

// Option configures Detect.
type Option func(*config)

type config struct {
	factor float64
}

// WithFenceFactor sets the IQR multiplier. Values <= 0 are ignored.
func WithFenceFactor(k float64) Option {
	return func(c *config) {
		if k > 0 {
			c.factor = k
		}
	}
}

// Percentile returns the p-th percentile (0..100) of sorted, using linear
// interpolation between the two closest ranks. sorted must be ascending
// and non-empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 1 {
		return sorted[0]
	}
	rank := p / 100 * float64(n-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	lo = max(0, min(lo, n-1))
	hi = max(0, min(hi, n-1))
	frac := rank - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}

// Quartiles returns the 25th and 75th percentiles of signal.
func Quartiles(signal []float64) (q1, q3 float64, err error) {
	if len(signal) == 0 {
		return 0, 0, fmt.Errorf("outlier: %w: empty signal", core.ErrInsufficientData)
	}
	if err := core.CheckFinite(signal); err != nil {
		return 0, 0, fmt.Errorf("outlier: %w", err)
	}
	sorted := slices.Clone(signal)
	slices.Sort(sorted)
	return Percentile(sorted, 25), Percentile(sorted, 75), nil
}

// Detect computes the quartile fences of signal and returns the samples
// outside them. It fails with core.ErrInsufficientData for an empty signal
// and core.ErrComputation for NaN or Inf samples.
func Detect(signal []float64, opts ...Option) (Report, error) {
	cfg := config{factor: DefaultFenceFactor}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	q1, q3, err := Quartiles(signal)
	if err != nil {
		return Report{}, err
	}

	iqr := q3 - q1
	r := Report{
		Q1:         q1,
		Q3:         q3,
		IQR:        iqr,
		LowerFence: q1 - cfg.factor*iqr,
		UpperFence: q3 + cfg.factor*iqr,
	}
	for i, v := range signal {
		if v < r.LowerFence || v > r.UpperFence {
			r.Outliers = append(r.Outliers, v)
			r.Indices = append(r.Indices, i)
		}
	}
	r.Count = len(r.Outliers)
	r.Percentage = 100 * float64(r.Count) / float64(len(signal))
	return r, nil
}
