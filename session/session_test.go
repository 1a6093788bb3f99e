package session_test

import (
	"context"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/cwbudde/algo-vibration/dsp/core"
	"github.com/cwbudde/algo-vibration/imu"
	"github.com/cwbudde/algo-vibration/session"
)

func newSession(t *testing.T, mutate func(*session.Config)) *session.Session {
	t.Helper()

	cfg := session.DefaultConfig()
	if mutate != nil {
		mutate(&cfg)
	}
	s, err := session.New(cfg, zaptest.NewLogger(t))
	require.NoError(t, err)
	return s
}

func TestNew_RejectsInvalidConfig(t *testing.T) {
	t.Parallel()

	tests := map[string]func(*session.Config){
		"zero capacity":     func(c *session.Config) { c.Capacity = 0 },
		"negative duration": func(c *session.Config) { c.Duration = -time.Second },
		"zero duration":     func(c *session.Config) { c.Duration = 0 },
		"unknown channel":   func(c *session.Config) { c.Channel = imu.Channel(99) },
		"zero sample rate":  func(c *session.Config) { c.Analysis.SampleRate = 0 },
		"level of one":      func(c *session.Config) { c.Analysis.ConfidenceLevel = 1 },
	}
	for name, mutate := range tests {
		cfg := session.DefaultConfig()
		mutate(&cfg)
		_, err := session.New(cfg, nil)
		assert.ErrorIs(t, err, core.ErrInvalidConfiguration, name)
	}
}

func TestSession_Lifecycle(t *testing.T) {
	t.Parallel()

	s := newSession(t, nil)
	assert.NotEmpty(t, s.ID())
	assert.Equal(t, session.StateCollecting, s.State())

	_, err := s.Analyze(context.Background())
	require.ErrorIs(t, err, session.ErrNotClosed)

	for _, v := range []float64{2, 4, 4, 4, 5, 5, 7, 9} {
		s.Push(v)
	}

	signal := s.Close()
	assert.Equal(t, []float64{2, 4, 4, 4, 5, 5, 7, 9}, signal)
	assert.Equal(t, session.StateClosed, s.State())

	s.Push(100)
	assert.Equal(t, signal, s.Close(), "close must be idempotent")

	report, err := s.Analyze(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 2.0, report.StdDev, 1e-12)
	assert.Equal(t, session.StateAnalyzed, s.State())

	again, err := s.Analyze(context.Background())
	require.NoError(t, err)
	assert.Same(t, report, again)

	stats := s.Stats()
	assert.Equal(t, uint64(8), stats.Received)
	assert.Equal(t, uint64(1), stats.Dropped)
	assert.Equal(t, 8, stats.Buffered)
}

func TestSession_CloseReturnsCopy(t *testing.T) {
	t.Parallel()

	s := newSession(t, nil)
	s.Push(1)
	s.Push(2)

	first := s.Close()
	first[0] = 42
	assert.Equal(t, []float64{1, 2}, s.Close())
}

func TestSession_AcceptExtractsChannel(t *testing.T) {
	t.Parallel()

	s := newSession(t, func(c *session.Config) { c.Channel = imu.GyroZ })
	s.Accept(imu.Message{AngularVelocity: imu.Vector3{Z: 0.5}, LinearAcceleration: imu.Vector3{X: 9}})
	s.Accept(imu.Message{AngularVelocity: imu.Vector3{Z: -0.5}})

	assert.Equal(t, []float64{0.5, -0.5}, s.Close())
}

func TestSession_EvictsOldest(t *testing.T) {
	t.Parallel()

	s := newSession(t, func(c *session.Config) { c.Capacity = 3 })
	for i := 1; i <= 5; i++ {
		s.Push(float64(i))
	}

	stats := s.Stats()
	assert.Equal(t, uint64(2), stats.Evicted)
	assert.Equal(t, 3, stats.Buffered)
	assert.InDelta(t, 3.0, stats.Live.Mean, 1e-12)
	assert.Equal(t, []float64{3, 4, 5}, s.Close())
}

func TestSession_EmptyWindowErrorIsCached(t *testing.T) {
	t.Parallel()

	s := newSession(t, nil)
	s.Close()

	_, err := s.Analyze(context.Background())
	require.ErrorIs(t, err, core.ErrInsufficientData)

	_, err = s.Analyze(context.Background())
	require.ErrorIs(t, err, core.ErrInsufficientData)
	assert.Equal(t, session.StateClosed, s.State())
}

func TestSession_NonFiniteSample(t *testing.T) {
	t.Parallel()

	s := newSession(t, nil)
	s.Push(1)
	s.Push(math.Inf(1))
	s.Close()

	report, err := s.Analyze(context.Background())
	require.ErrorIs(t, err, core.ErrComputation)
	assert.Nil(t, report)
}

func TestSession_CanceledAnalyzeIsRetried(t *testing.T) {
	t.Parallel()

	s := newSession(t, nil)
	s.Push(1)
	s.Push(2)
	s.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.Analyze(ctx)
	require.ErrorIs(t, err, context.Canceled)

	report, err := s.Analyze(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, report.Samples)
}

func TestSession_Run(t *testing.T) {
	t.Parallel()

	s := newSession(t, func(c *session.Config) { c.Duration = 20 * time.Millisecond })

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			s.Push(float64(i % 7))
		}
	}()
	wg.Wait()

	report, err := s.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 100, report.Samples)
	assert.Equal(t, 50, report.Spectrum.Len())
	assert.Equal(t, session.StateAnalyzed, s.State())
}

func TestSession_RunCanceled(t *testing.T) {
	t.Parallel()

	s := newSession(t, func(c *session.Config) { c.Duration = time.Hour })
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, session.StateCollecting, s.State())
}

func TestSession_ConcurrentPushAndClose(t *testing.T) {
	t.Parallel()

	s := newSession(t, func(c *session.Config) { c.Capacity = 64 })

	var wg sync.WaitGroup
	for g := 0; g < 4; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 1000; i++ {
				s.Push(1)
			}
		}()
	}
	time.Sleep(time.Millisecond)
	signal := s.Close()
	wg.Wait()

	stats := s.Stats()
	assert.Equal(t, uint64(4000), stats.Received+stats.Dropped)
	assert.LessOrEqual(t, len(signal), 64)
}

var _ session.Sink = (*session.Session)(nil)
