// Package replay feeds recorded IMU messages, one JSON object per line,
// into an Acceptor. It drives offline analysis of captured sessions.
package replay

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/cwbudde/algo-vibration/imu"
)

// maxLineSize bounds one encoded message.
const maxLineSize = 1 << 20

// Acceptor receives decoded messages.
type Acceptor interface {
	Accept(msg imu.Message)
}

// Result counts what a replay delivered.
type Result struct {
	Lines     int
	Delivered int
	Skipped   int
}

// Option configures a replay.
type Option func(*config)

type config struct {
	skipMalformed bool
	limit         int
}

// WithSkipMalformed counts undecodable lines instead of failing on them.
func WithSkipMalformed() Option {
	return func(c *config) { c.skipMalformed = true }
}

// WithLimit stops after n delivered messages. n <= 0 means no limit.
func WithLimit(n int) Option {
	return func(c *config) { c.limit = n }
}

// Replay decodes r line by line and delivers each message to sink. Blank
// lines are ignored. ctx is checked between lines.
func Replay(ctx context.Context, r io.Reader, sink Acceptor, opts ...Option) (Result, error) {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}

	var res Result
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		res.Lines++

		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}

		msg, err := imu.Decode(line)
		if err != nil {
			if cfg.skipMalformed {
				res.Skipped++
				continue
			}
			return res, fmt.Errorf("replay: line %d: %w", res.Lines, err)
		}

		sink.Accept(msg)
		res.Delivered++
		if cfg.limit > 0 && res.Delivered >= cfg.limit {
			break
		}
	}
	if err := sc.Err(); err != nil {
		return res, fmt.Errorf("replay: %w", err)
	}
	return res, nil
}

// ReplayFile opens path and replays it.
func ReplayFile(ctx context.Context, path string, sink Acceptor, opts ...Option) (Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return Result{}, fmt.Errorf("replay: %w", err)
	}
	defer f.Close()

	return Replay(ctx, f, sink, opts...)
}
