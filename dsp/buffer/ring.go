package buffer

import (
	"fmt"
	"sync"

	"github.com/cwbudde/algo-vibration/dsp/core"
)

// Ring is a fixed-capacity FIFO of samples. When full, Push evicts the
// oldest sample. Push and Snapshot may be called from different goroutines.
type Ring struct {
	mu      sync.Mutex
	data    []float64
	head    int // index of the oldest sample
	size    int
	pushed  uint64
	evicted uint64
}

// NewRing returns an empty Ring holding at most capacity samples.
func NewRing(capacity int) (*Ring, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("buffer: %w: capacity must be > 0: %d", core.ErrInvalidConfiguration, capacity)
	}
	return &Ring{data: make([]float64, capacity)}, nil
}

// Push appends v, dropping the oldest sample first when the ring is full.
func (r *Ring) Push(v float64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.pushed++
	if r.size == len(r.data) {
		r.data[r.head] = v
		r.head = (r.head + 1) % len(r.data)
		r.evicted++
		return
	}
	r.data[(r.head+r.size)%len(r.data)] = v
	r.size++
}

// Snapshot returns a copy of the current contents, oldest first.
func (r *Ring) Snapshot() []float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]float64, r.size)
	n := copy(out, r.data[r.head:min(r.head+r.size, len(r.data))])
	copy(out[n:], r.data[:r.size-n])
	return out
}

// Len returns the number of stored samples.
func (r *Ring) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.size
}

// Cap returns the fixed capacity.
func (r *Ring) Cap() int {
	return len(r.data)
}

// Pushed returns the total number of Push calls.
func (r *Ring) Pushed() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pushed
}

// Evicted returns how many samples were dropped to make room.
func (r *Ring) Evicted() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.evicted
}
