// Package frequency summarizes the exposed half of an auto spectral density
// estimate: where the energy peaks, where its centroid lies and how much
// broadband noise it integrates to.
//
// Inputs are index-aligned frequency (Hz) and ASD slices as produced by
// spectrum.Result.Half, with uniformly spaced, non-negative frequencies.
package frequency

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-vibration/dsp/core"
)

// Summary holds frequency-domain statistics of a half spectrum.
type Summary struct {
	BinCount   int
	Resolution float64 // bin spacing (Hz)
	// Peak excludes the DC bin whenever there is another bin, so a sensor
	// bias does not mask the dominant vibration.
	PeakBin       int
	PeakFrequency float64
	PeakASD       float64
	Centroid      float64 // ASD-weighted mean frequency (Hz), DC excluded
	// BandPower integrates the one-sided ASD over the non-DC bins; NoiseRMS
	// is its square root.
	BandPower float64
	NoiseRMS  float64
}

// Summarize computes every statistic of the half spectrum.
func Summarize(freqs, asd []float64) (Summary, error) {
	if len(freqs) != len(asd) {
		return Summary{}, fmt.Errorf("frequency: length mismatch: %d != %d", len(freqs), len(asd))
	}
	if len(asd) == 0 {
		return Summary{}, fmt.Errorf("frequency: %w: empty spectrum", core.ErrInsufficientData)
	}
	if err := core.CheckFinite(asd); err != nil {
		return Summary{}, fmt.Errorf("frequency: %w", err)
	}

	s := Summary{BinCount: len(asd)}
	if len(freqs) > 1 {
		s.Resolution = freqs[1] - freqs[0]
	}

	s.PeakBin = PeakBin(asd)
	s.PeakFrequency = freqs[s.PeakBin]
	s.PeakASD = asd[s.PeakBin]
	s.Centroid = Centroid(freqs, asd)
	s.BandPower = BandPower(freqs, asd, math.Inf(-1), math.Inf(1))
	s.NoiseRMS = math.Sqrt(s.BandPower)
	return s, nil
}

// PeakBin returns the index of the largest ASD value, skipping bin 0 when
// there is more than one bin. Ties resolve to the lowest index.
func PeakBin(asd []float64) int {
	if len(asd) < 2 {
		return 0
	}
	peak := 1
	for i := 2; i < len(asd); i++ {
		if asd[i] > asd[peak] {
			peak = i
		}
	}
	return peak
}

// Centroid returns the spectral centroid in Hz over the non-DC bins.
//
//	centroid = sum(f_i * ASD_i) / sum(ASD_i)
//
// It is zero when those bins hold no energy.
func Centroid(freqs, asd []float64) float64 {
	if len(asd) < 2 {
		return 0
	}
	var sum, weighted float64
	for i := 1; i < len(asd); i++ {
		sum += asd[i]
		weighted += freqs[i] * asd[i]
	}
	if sum == 0 {
		return 0
	}
	return weighted / sum
}

// BandPower integrates the one-sided ASD between lo and hi Hz inclusive.
//
// The two-sided estimate is folded onto positive frequencies by doubling
// every non-DC bin, so for a full, odd-length spectrum the result equals
// the signal variance. The DC bin is never included.
func BandPower(freqs, asd []float64, lo, hi float64) float64 {
	if len(asd) < 2 {
		return 0
	}
	df := freqs[1] - freqs[0]
	var sum float64
	for i := 1; i < len(asd); i++ {
		if freqs[i] >= lo && freqs[i] <= hi {
			sum += asd[i]
		}
	}
	return 2 * sum * df
}
