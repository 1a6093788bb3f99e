// Package transform computes the forward discrete Fourier transform of a
// real signal through one of several FFT backends.
//
// Every backend returns the full, unnormalized n-point DFT
//
//	X[k] = sum_{t=0}^{n-1} x[t] * exp(-2*pi*i*k*t/n)
//
// so results are interchangeable up to floating-point rounding. The default
// backend uses a planned transform for power-of-two lengths from 16 up and
// a mixed-radix transform for every other length, keeping the cost at
// O(n log n) for the buffer sizes seen in practice.
package transform
