package transform

import (
	"errors"
	"math"
	"strconv"
	"testing"

	"github.com/cwbudde/algo-vibration/dsp/core"
	"github.com/cwbudde/algo-vibration/internal/testutil"
)

func TestForwardMatchesNaiveDFT(t *testing.T) {
	tests := []struct {
		name    string
		backend Backend
		n       int
	}{
		{"auto/pow2", BackendAuto, 64},
		{"auto/odd", BackendAuto, 45},
		{"algofft", BackendAlgoFFT, 32},
		{"gonum/pow2", BackendGonum, 16},
		{"gonum/mixed", BackendGonum, 60},
		{"gonum/prime", BackendGonum, 17},
		{"godsp/pow2", BackendGoDSP, 16},
		{"godsp/bluestein", BackendGoDSP, 30},
		{"single", BackendGonum, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x := testutil.DeterministicNoise(int64(tt.n), 1, tt.n)
			got, err := Forward(x, tt.backend)
			if err != nil {
				t.Fatalf("Forward() error = %v", err)
			}
			testutil.RequireComplexNearlyEqual(t, got, testutil.NaiveDFT(x), 1e-9)
		})
	}
}

func TestBackendsAgree(t *testing.T) {
	x := testutil.GaussianNoise(3, 0.1, 1, 256)
	ref, err := Forward(x, BackendGonum)
	if err != nil {
		t.Fatal(err)
	}
	for _, b := range Backends() {
		got, err := Forward(x, b)
		if err != nil {
			t.Fatalf("%v: %v", b, err)
		}
		testutil.RequireComplexNearlyEqual(t, got, ref, 1e-9)
	}
}

func TestForwardDoesNotModifyInput(t *testing.T) {
	x := []float64{0, 1, 0, -1, 0, 1, 0, -1}
	orig := append([]float64(nil), x...)
	if _, err := Forward(x, BackendAuto); err != nil {
		t.Fatal(err)
	}
	testutil.RequireSliceNearlyEqual(t, x, orig, 0)
}

func TestForwardErrors(t *testing.T) {
	if _, err := Forward(nil, BackendAuto); !errors.Is(err, core.ErrInsufficientData) {
		t.Fatalf("empty: error = %v, want ErrInsufficientData", err)
	}
	if _, err := Forward([]float64{1, math.NaN()}, BackendAuto); !errors.Is(err, core.ErrComputation) {
		t.Fatalf("NaN: error = %v, want ErrComputation", err)
	}
	if _, err := Forward([]float64{1, math.Inf(1)}, BackendGonum); !errors.Is(err, core.ErrComputation) {
		t.Fatalf("Inf: error = %v, want ErrComputation", err)
	}
	if _, err := Forward(make([]float64, 12), BackendAlgoFFT); !errors.Is(err, core.ErrInvalidConfiguration) {
		t.Fatalf("algofft n=12: error = %v, want ErrInvalidConfiguration", err)
	}
	if _, err := Forward([]float64{1}, Backend(42)); !errors.Is(err, core.ErrInvalidConfiguration) {
		t.Fatalf("unknown backend: error = %v, want ErrInvalidConfiguration", err)
	}
}

func TestResolve(t *testing.T) {
	if got := BackendAuto.Resolve(1024); got != BackendAlgoFFT {
		t.Fatalf("Resolve(1024) = %v, want algofft", got)
	}
	if got := BackendAuto.Resolve(8); got != BackendGonum {
		t.Fatalf("Resolve(8) = %v, want gonum", got)
	}
	if got := BackendAuto.Resolve(10000); got != BackendGonum {
		t.Fatalf("Resolve(10000) = %v, want gonum", got)
	}
	if got := BackendGoDSP.Resolve(1024); got != BackendGoDSP {
		t.Fatalf("Resolve(1024) = %v, want godsp", got)
	}
}

func TestParseBackend(t *testing.T) {
	for _, b := range Backends() {
		got, err := ParseBackend(b.String())
		if err != nil || got != b {
			t.Fatalf("ParseBackend(%q) = %v, %v", b.String(), got, err)
		}
	}
	if got, err := ParseBackend(" GoNum "); err != nil || got != BackendGonum {
		t.Fatalf("ParseBackend(\" GoNum \") = %v, %v", got, err)
	}
	if got, err := ParseBackend(""); err != nil || got != BackendAuto {
		t.Fatalf("ParseBackend(\"\") = %v, %v", got, err)
	}
	if _, err := ParseBackend("fftw"); !errors.Is(err, core.ErrInvalidConfiguration) {
		t.Fatalf("ParseBackend(\"fftw\") error = %v", err)
	}
}

func BenchmarkForward(b *testing.B) {
	for _, n := range []int{8192, 10000} {
		x := testutil.DeterministicNoise(1, 1, n)
		for _, backend := range Backends() {
			if backend.Resolve(n) == BackendAlgoFFT && !core.IsPowerOfTwo(n) {
				continue
			}
			b.Run(backend.String()+"/"+strconv.Itoa(n), func(b *testing.B) {
				b.ReportAllocs()
				for i := 0; i < b.N; i++ {
					_, _ = Forward(x, backend)
				}
			})
		}
	}
}
