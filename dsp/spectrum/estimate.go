package spectrum

import (
	"fmt"

	"github.com/cwbudde/algo-vibration/dsp/core"
	"github.com/cwbudde/algo-vibration/dsp/transform"
)

// Result is a periodogram estimate. Frequencies, PSD and ASD are
// index-aligned and have the same length.
type Result struct {
	SampleRate  float64
	Frequencies []float64
	PSD         []float64
	ASD         []float64
}

// Len returns the number of bins.
func (r Result) Len() int {
	return len(r.ASD)
}

// Resolution returns the bin spacing in Hz of the transform that produced
// r. It is zero for an empty result.
func (r Result) Resolution() float64 {
	if len(r.Frequencies) < 2 {
		return 0
	}
	return r.Frequencies[1] - r.Frequencies[0]
}

// Half returns a copy of the first floor(n/2) bins of a full n-bin result.
// Calling Half on an already halved result halves it again.
func (r Result) Half() Result {
	h := core.HalfLen(r.Len())
	return Result{
		SampleRate:  r.SampleRate,
		Frequencies: append([]float64(nil), r.Frequencies[:h]...),
		PSD:         append([]float64(nil), r.PSD[:h]...),
		ASD:         append([]float64(nil), r.ASD[:h]...),
	}
}

// Option configures Estimate.
type Option func(*options)

type options struct {
	backend transform.Backend
}

// WithBackend selects the FFT implementation.
func WithBackend(b transform.Backend) Option {
	return func(o *options) {
		o.backend = b
	}
}

// Estimate computes the full n-bin periodogram of signal sampled at
// sampleRate Hz.
//
// It fails with core.ErrInsufficientData for an empty signal,
// core.ErrInvalidConfiguration for a non-positive sample rate and
// core.ErrComputation for NaN or Inf samples. The signal is not modified.
func Estimate(signal []float64, sampleRate float64, opts ...Option) (Result, error) {
	if len(signal) == 0 {
		return Result{}, fmt.Errorf("spectrum: %w: empty signal", core.ErrInsufficientData)
	}
	if err := core.RequirePositive("sample rate", sampleRate); err != nil {
		return Result{}, fmt.Errorf("spectrum: %w", err)
	}

	var o options
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	bins, err := transform.Forward(signal, o.backend)
	if err != nil {
		return Result{}, fmt.Errorf("spectrum: %w", err)
	}

	n := float64(len(signal))
	psd := Power(bins)
	asd := make([]float64, len(psd))
	for k := range psd {
		psd[k] /= n
		asd[k] = psd[k] / sampleRate
	}

	return Result{
		SampleRate:  sampleRate,
		Frequencies: Frequencies(len(signal), sampleRate),
		PSD:         psd,
		ASD:         asd,
	}, nil
}
