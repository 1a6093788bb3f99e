package spectrum

import (
	"sync"

	"github.com/cwbudde/algo-vecmath"
)

// scratchBuf holds pooled scratch memory for complex-to-real unpacking.
type scratchBuf struct {
	data []float64
}

var scratchPool = sync.Pool{
	New: func() any { return &scratchBuf{} },
}

func getScratch(n int) (re, im []float64, buf *scratchBuf) {
	buf = scratchPool.Get().(*scratchBuf)
	need := 2 * n
	if cap(buf.data) < need {
		buf.data = make([]float64, need)
	} else {
		buf.data = buf.data[:need]
	}
	return buf.data[:n], buf.data[n:need], buf
}

func putScratch(buf *scratchBuf) {
	scratchPool.Put(buf)
}

// Power returns |X[k]|^2 for each complex spectrum bin.
//
// The squared magnitudes are computed with SIMD kernels when available.
// Scratch buffers are pooled, so in steady state this allocates only the
// output slice.
func Power(in []complex128) []float64 {
	if len(in) == 0 {
		return nil
	}

	out := make([]float64, len(in))
	re, im, buf := getScratch(len(in))

	for i, c := range in {
		re[i] = real(c)
		im[i] = imag(c)
	}

	vecmath.Power(out, re, im)
	putScratch(buf)
	return out
}

// Frequencies returns the center frequency in Hz of each bin of an n-point
// DFT sampled at sampleRate, in standard FFT order: bins 0..(n-1)/2 hold
// the non-negative frequencies k*fs/n, the remaining n/2 bins hold the
// negative frequencies -(n/2)*fs/n .. -fs/n. For even n the Nyquist bin
// n/2 is reported as negative.
func Frequencies(n int, sampleRate float64) []float64 {
	if n <= 0 {
		return nil
	}
	out := make([]float64, n)
	spacing := sampleRate / float64(n)
	positive := (n-1)/2 + 1
	for k := 0; k < positive; k++ {
		out[k] = float64(k) * spacing
	}
	for k := positive; k < n; k++ {
		out[k] = float64(k-n) * spacing
	}
	return out
}
