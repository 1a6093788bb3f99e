package buffer

import (
	"errors"
	"slices"
	"sync"
	"testing"

	"github.com/cwbudde/algo-vibration/dsp/core"
)

func TestNewRingRejectsNonPositiveCapacity(t *testing.T) {
	for _, c := range []int{0, -1} {
		if _, err := NewRing(c); !errors.Is(err, core.ErrInvalidConfiguration) {
			t.Fatalf("NewRing(%d) error = %v, want ErrInvalidConfiguration", c, err)
		}
	}
}

func TestRingEvictsOldest(t *testing.T) {
	r, err := NewRing(3)
	if err != nil {
		t.Fatal(err)
	}
	for _, v := range []float64{1, 2, 3, 4} {
		r.Push(v)
	}
	got := r.Snapshot()
	want := []float64{2, 3, 4}
	if !slices.Equal(got, want) {
		t.Fatalf("Snapshot() = %v, want %v", got, want)
	}
	if r.Evicted() != 1 || r.Pushed() != 4 {
		t.Fatalf("Evicted() = %d, Pushed() = %d, want 1, 4", r.Evicted(), r.Pushed())
	}
}

func TestRingKeepsLastN(t *testing.T) {
	for capacity := 1; capacity <= 7; capacity++ {
		for pushes := 0; pushes <= 20; pushes++ {
			r, _ := NewRing(capacity)
			all := make([]float64, pushes)
			for i := range all {
				all[i] = float64(i)
				r.Push(all[i])
			}

			want := all
			if pushes > capacity {
				want = all[pushes-capacity:]
			}
			got := r.Snapshot()
			if !slices.Equal(got, want) {
				t.Fatalf("cap=%d pushes=%d: Snapshot() = %v, want %v", capacity, pushes, got, want)
			}
			if r.Len() != len(want) || r.Len() > r.Cap() {
				t.Fatalf("cap=%d pushes=%d: Len() = %d", capacity, pushes, r.Len())
			}
		}
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	r, _ := NewRing(2)
	r.Push(1)
	r.Push(2)
	s := r.Snapshot()
	s[0] = 99
	r.Push(3)
	if got := r.Snapshot(); !slices.Equal(got, []float64{2, 3}) {
		t.Fatalf("Snapshot() = %v, want [2 3]", got)
	}
	if s[1] != 2 {
		t.Fatal("earlier snapshot changed after Push")
	}
}

func TestSnapshotDoesNotMutate(t *testing.T) {
	r, _ := NewRing(4)
	r.Push(5)
	_ = r.Snapshot()
	_ = r.Snapshot()
	if r.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", r.Len())
	}
}

func TestRingConcurrentPushSnapshot(t *testing.T) {
	const capacity = 64
	r, _ := NewRing(capacity)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 10000; i++ {
			r.Push(float64(i))
		}
	}()

	for i := 0; i < 200; i++ {
		s := r.Snapshot()
		if len(s) > capacity {
			t.Fatalf("len(Snapshot()) = %d exceeds capacity", len(s))
		}
		for j := 1; j < len(s); j++ {
			if s[j] != s[j-1]+1 {
				t.Fatalf("torn snapshot at %d: %v then %v", j, s[j-1], s[j])
			}
		}
	}
	wg.Wait()

	if r.Pushed() != 10000 || r.Len() != capacity {
		t.Fatalf("Pushed() = %d Len() = %d", r.Pushed(), r.Len())
	}
}

func BenchmarkRingPush(b *testing.B) {
	r, _ := NewRing(10000)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		r.Push(float64(i))
	}
}
