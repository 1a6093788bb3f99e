// Package spectrum estimates the power and auto spectral density of a
// finite, uniformly sampled signal.
//
// The estimate is the raw periodogram of the whole signal: no window, no
// averaging, no detrending. For an n-sample signal x sampled at fs Hz:
//
//	PSD[k] = |X[k]|^2 / n
//	ASD[k] = PSD[k] / fs
//
// where X is the n-point DFT. All three outputs (frequencies, PSD, ASD) keep
// the full n-bin layout of the DFT; [Result.Half] drops the mirrored
// negative-frequency half.
package spectrum
