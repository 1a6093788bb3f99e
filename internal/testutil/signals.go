package testutil

import (
	"math"
	"math/cmplx"
	"math/rand"
)

// DeterministicSine generates a deterministic sine wave.
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out
}

// DeterministicNoise generates white noise with a fixed seed for reproducibility.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// GaussianNoise generates zero-mean normal noise with standard deviation
// sigma, offset by bias, the usual model of a resting accelerometer axis.
func GaussianNoise(seed int64, bias, sigma float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = bias + sigma*rng.NormFloat64()
	}
	return out
}

// DC generates a constant-valued signal.
func DC(value float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = value
	}
	return out
}

// NaiveDFT is the O(n^2) reference transform used to check FFT backends.
func NaiveDFT(x []float64) []complex128 {
	n := len(x)
	out := make([]complex128, n)
	for k := range out {
		var sum complex128
		for t, v := range x {
			angle := -2 * math.Pi * float64(k) * float64(t) / float64(n)
			sum += complex(v, 0) * cmplx.Exp(complex(0, angle))
		}
		out[k] = sum
	}
	return out
}
