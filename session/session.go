// Package session owns one observation window: it collects channel samples
// into a bounded ring, freezes them once, and analyzes the frozen signal.
//
// A session moves Collecting → Closed → Analyzed and never back. Samples
// arriving after Close are counted as dropped.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cwbudde/algo-vibration/analysis"
	"github.com/cwbudde/algo-vibration/dsp/buffer"
	"github.com/cwbudde/algo-vibration/dsp/core"
	"github.com/cwbudde/algo-vibration/imu"
	timestats "github.com/cwbudde/algo-vibration/stats/time"
)

// Default window parameters.
const (
	DefaultDuration = 30 * time.Second
	DefaultCapacity = 10000
)

// ErrNotClosed is returned by Analyze while the session is still collecting.
var ErrNotClosed = errors.New("session: window not closed")

// Sink accepts raw samples. It is the only capability a producer needs.
type Sink interface {
	Push(v float64)
}

// State is the lifecycle position of a session.
type State int

// States.
const (
	StateCollecting State = iota
	StateClosed
	StateAnalyzed
)

func (s State) String() string {
	switch s {
	case StateCollecting:
		return "collecting"
	case StateClosed:
		return "closed"
	case StateAnalyzed:
		return "analyzed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Config describes one observation window.
type Config struct {
	Channel  imu.Channel
	Duration time.Duration
	Capacity int
	Analysis analysis.Options
}

// DefaultConfig returns a 30 s, 10000 sample window on accel-x.
func DefaultConfig() Config {
	return Config{
		Channel:  imu.AccelX,
		Duration: DefaultDuration,
		Capacity: DefaultCapacity,
		Analysis: analysis.DefaultOptions(),
	}
}

// Validate reports the first invalid field, wrapping core.ErrInvalidConfiguration.
func (c Config) Validate() error {
	if c.Capacity <= 0 {
		return fmt.Errorf("session: %w: capacity must be positive: %d", core.ErrInvalidConfiguration, c.Capacity)
	}
	if c.Duration <= 0 {
		return fmt.Errorf("session: %w: duration must be positive: %v", core.ErrInvalidConfiguration, c.Duration)
	}
	if c.Channel < imu.AccelX || c.Channel > imu.Yaw {
		return fmt.Errorf("session: %w: unknown channel %v", core.ErrInvalidConfiguration, c.Channel)
	}
	if err := c.Analysis.Validate(); err != nil {
		return fmt.Errorf("session: %w", err)
	}
	return nil
}

// Stats is a point-in-time view of a session's counters.
type Stats struct {
	ID       string
	State    State
	Received uint64
	Buffered int
	Evicted  uint64
	Dropped  uint64
	Live     timestats.Summary
}

// Session collects and analyzes one window. All methods are safe for
// concurrent use.
type Session struct {
	id     string
	cfg    Config
	logger *zap.Logger
	ring   *buffer.Ring

	mu      sync.Mutex
	state   State
	live    timestats.Accumulator
	dropped uint64
	signal  []float64

	analyzeMu sync.Mutex
	report    *analysis.Report
	err       error
}

// New validates cfg and returns a collecting session. A nil logger
// disables logging.
func New(cfg Config, logger *zap.Logger) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	ring, err := buffer.NewRing(cfg.Capacity)
	if err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	id := uuid.NewString()
	s := &Session{
		id:     id,
		cfg:    cfg,
		logger: logger.With(zap.String("session_id", id), zap.Stringer("channel", cfg.Channel)),
		ring:   ring,
	}
	s.logger.Debug("session created",
		zap.Int("capacity", cfg.Capacity),
		zap.Duration("duration", cfg.Duration),
		zap.Float64("sample_rate", cfg.Analysis.SampleRate))
	return s, nil
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Config returns the configuration the session was created with.
func (s *Session) Config() Config { return s.cfg }

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Push appends a raw sample. Once closed it only increments the drop count.
func (s *Session) Push(v float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateCollecting {
		s.dropped++
		return
	}
	s.ring.Push(v)
	s.live.Add(v)
}

// Accept extracts the configured channel from msg and pushes it.
func (s *Session) Accept(msg imu.Message) {
	s.Push(s.cfg.Channel.Extract(msg))
}

// Close freezes the buffered samples. It is idempotent and always returns
// a copy of the frozen signal.
func (s *Session) Close() []float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateCollecting {
		s.signal = s.ring.Snapshot()
		s.state = StateClosed
		s.logger.Info("window closed",
			zap.Int("samples", len(s.signal)),
			zap.Uint64("received", s.ring.Pushed()),
			zap.Uint64("evicted", s.ring.Evicted()))
	}
	return append([]float64(nil), s.signal...)
}

// Analyze computes the report of the frozen signal. The first completed
// analysis is cached; a context error is returned but not cached.
func (s *Session) Analyze(ctx context.Context) (*analysis.Report, error) {
	s.mu.Lock()
	state, signal := s.state, s.signal
	s.mu.Unlock()
	if state == StateCollecting {
		return nil, ErrNotClosed
	}

	s.analyzeMu.Lock()
	defer s.analyzeMu.Unlock()
	if s.report != nil || s.err != nil {
		return s.report, s.err
	}

	report, err := analysis.Analyze(ctx, signal, s.cfg.Analysis)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		s.err = err
		s.logger.Error("analysis failed", zap.Error(err))
		return nil, err
	}

	s.report = report
	s.mu.Lock()
	s.state = StateAnalyzed
	s.mu.Unlock()

	s.logger.Info("analysis complete",
		zap.Int("samples", report.Samples),
		zap.Float64("std_dev", report.StdDev),
		zap.Int("outliers", report.Outliers.Count),
		zap.Float64("outlier_pct", report.Outliers.Percentage),
		zap.Float64("peak_hz", report.Frequency.PeakFrequency))
	return report, nil
}

// Run collects for the configured duration, then closes and analyzes the
// window. Cancelling ctx during collection returns ctx.Err() and leaves the
// session collecting; callers wanting an early report call Close and
// Analyze themselves.
func (s *Session) Run(ctx context.Context) (*analysis.Report, error) {
	s.logger.Info("collecting", zap.Duration("duration", s.cfg.Duration))

	timer := time.NewTimer(s.cfg.Duration)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-timer.C:
	}

	s.Close()
	return s.Analyze(ctx)
}

// Stats returns the session's counters and running time-domain summary.
func (s *Session) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Stats{
		ID:       s.id,
		State:    s.state,
		Received: s.ring.Pushed(),
		Buffered: s.ring.Len(),
		Evicted:  s.ring.Evicted(),
		Dropped:  s.dropped,
		Live:     s.live.Result(),
	}
}
