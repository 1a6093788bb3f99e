package transform

import (
	"fmt"
	"strings"

	algofft "github.com/MeKo-Christian/algo-fft"
	godsp "github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/cwbudde/algo-vibration/dsp/core"
)

// minPlannedSize is the smallest length BackendAuto hands to algo-fft.
const minPlannedSize = 16

// Backend selects the FFT implementation.
type Backend int

const (
	// BackendAuto picks BackendAlgoFFT for power-of-two lengths of at
	// least 16 and BackendGonum otherwise.
	BackendAuto Backend = iota
	// BackendAlgoFFT uses algo-fft plans. Power-of-two lengths only.
	BackendAlgoFFT
	// BackendGonum uses gonum's mixed-radix complex FFT.
	BackendGonum
	// BackendGoDSP uses go-dsp, which falls back to Bluestein's algorithm
	// for lengths that are not a power of two.
	BackendGoDSP
)

var backendNames = map[Backend]string{
	BackendAuto:    "auto",
	BackendAlgoFFT: "algofft",
	BackendGonum:   "gonum",
	BackendGoDSP:   "godsp",
}

// String returns the configuration name of b.
func (b Backend) String() string {
	if name, ok := backendNames[b]; ok {
		return name
	}
	return fmt.Sprintf("Backend(%d)", int(b))
}

// ParseBackend resolves a configuration name. The empty string selects
// BackendAuto.
func ParseBackend(name string) (Backend, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return BackendAuto, nil
	}
	for b, n := range backendNames {
		if n == name {
			return b, nil
		}
	}
	return BackendAuto, fmt.Errorf("transform: %w: unknown FFT backend %q", core.ErrInvalidConfiguration, name)
}

// Backends lists every selectable backend in declaration order.
func Backends() []Backend {
	return []Backend{BackendAuto, BackendAlgoFFT, BackendGonum, BackendGoDSP}
}

// Resolve returns the concrete backend used for an n-point transform.
func (b Backend) Resolve(n int) Backend {
	if b != BackendAuto {
		return b
	}
	if n >= minPlannedSize && core.IsPowerOfTwo(n) {
		return BackendAlgoFFT
	}
	return BackendGonum
}

// Forward returns the n-point DFT of signal. The input is not modified.
func Forward(signal []float64, backend Backend) ([]complex128, error) {
	n := len(signal)
	if n == 0 {
		return nil, fmt.Errorf("transform: %w: empty signal", core.ErrInsufficientData)
	}
	if err := core.CheckFinite(signal); err != nil {
		return nil, fmt.Errorf("transform: %w", err)
	}

	switch backend.Resolve(n) {
	case BackendAlgoFFT:
		return forwardAlgoFFT(signal)
	case BackendGonum:
		return forwardGonum(signal), nil
	case BackendGoDSP:
		return godsp.FFTReal(signal), nil
	default:
		return nil, fmt.Errorf("transform: %w: unknown FFT backend %v", core.ErrInvalidConfiguration, backend)
	}
}

func toComplex(signal []float64) []complex128 {
	out := make([]complex128, len(signal))
	for i, v := range signal {
		out[i] = complex(v, 0)
	}
	return out
}

func forwardAlgoFFT(signal []float64) ([]complex128, error) {
	n := len(signal)
	if !core.IsPowerOfTwo(n) {
		return nil, fmt.Errorf("transform: %w: algofft backend requires a power-of-two length: %d",
			core.ErrInvalidConfiguration, n)
	}

	plan, err := algofft.NewPlan64(n)
	if err != nil {
		return nil, fmt.Errorf("transform: failed to create FFT plan: %w", err)
	}

	out := make([]complex128, n)
	if err := plan.Forward(out, toComplex(signal)); err != nil {
		return nil, fmt.Errorf("transform: forward FFT: %w", err)
	}
	return out, nil
}

func forwardGonum(signal []float64) []complex128 {
	return fourier.NewCmplxFFT(len(signal)).Coefficients(nil, toComplex(signal))
}
