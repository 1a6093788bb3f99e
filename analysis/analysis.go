package analysis

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/cwbudde/algo-vibration/dsp/core"
	"github.com/cwbudde/algo-vibration/dsp/spectrum"
	"github.com/cwbudde/algo-vibration/dsp/transform"
	"github.com/cwbudde/algo-vibration/stats/confidence"
	"github.com/cwbudde/algo-vibration/stats/frequency"
	"github.com/cwbudde/algo-vibration/stats/outlier"
	timestats "github.com/cwbudde/algo-vibration/stats/time"
)

// Report is the noise characterization of one observation window.
//
// Spectrum and Confidence cover only the first floor(n/2) bins. A Report is
// never modified after Analyze returns it.
type Report struct {
	Samples    int
	SampleRate float64
	StdDev     float64
	Spectrum   spectrum.Result
	Confidence confidence.Interval
	Outliers   outlier.Report
	Time       timestats.Summary
	Frequency  frequency.Summary
}

// Options configures Analyze. The zero value is not valid; start from
// DefaultOptions.
type Options struct {
	core.ProcessorConfig
	Backend     transform.Backend
	FenceFactor float64
}

// DefaultOptions returns the acceptance-test defaults: 500 Hz, 90 % band
// with two degrees of freedom, automatic FFT backend, 1.5 IQR fences.
func DefaultOptions() Options {
	return Options{
		ProcessorConfig: core.DefaultProcessorConfig(),
		Backend:         transform.BackendAuto,
		FenceFactor:     outlier.DefaultFenceFactor,
	}
}

// Analyze computes the Report of signal. The signal must not be modified
// while Analyze runs.
func Analyze(ctx context.Context, signal []float64, opts Options) (*Report, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("analysis: %w", err)
	}
	if len(signal) == 0 {
		return nil, fmt.Errorf("analysis: %w: no samples collected", core.ErrInsufficientData)
	}

	var (
		full       spectrum.Result
		band       confidence.Interval
		outliers   outlier.Report
		specErr    error
		bandErr    error
		outlierErr error
	)

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("analysis: %w", err)
	}

	// Stage errors are kept apart from the group so that the reported error
	// does not depend on which goroutine finishes first.
	var g errgroup.Group
	g.Go(func() error {
		full, specErr = spectrum.Estimate(signal, opts.SampleRate, spectrum.WithBackend(opts.Backend))
		if specErr != nil {
			return specErr
		}
		band, bandErr = confidence.Bounds(full.ASD, opts.ConfidenceLevel, opts.DegreesOfFreedom)
		return bandErr
	})
	g.Go(func() error {
		outliers, outlierErr = outlier.Detect(signal, outlier.WithFenceFactor(opts.FenceFactor))
		return outlierErr
	})
	_ = g.Wait()

	for _, err := range []error{specErr, bandErr, outlierErr} {
		if err != nil {
			return nil, fmt.Errorf("analysis: %w", err)
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("analysis: %w", err)
	}

	stdDev, err := timestats.StdDev(signal)
	if err != nil {
		return nil, fmt.Errorf("analysis: %w", err)
	}
	summary, err := timestats.Summarize(signal)
	if err != nil {
		return nil, fmt.Errorf("analysis: %w", err)
	}

	half := full.Half()
	freqSummary := frequency.Summary{}
	if half.Len() > 0 {
		freqSummary, err = frequency.Summarize(half.Frequencies, half.ASD)
		if err != nil {
			return nil, fmt.Errorf("analysis: %w", err)
		}
	}

	return &Report{
		Samples:    len(signal),
		SampleRate: opts.SampleRate,
		StdDev:     stdDev,
		Spectrum:   half,
		Confidence: band.Head(half.Len()),
		Outliers:   outliers,
		Time:       summary,
		Frequency:  freqSummary,
	}, nil
}
