// Package logging builds the zap loggers used by the command and the
// session layer. Library packages under dsp/ and stats/ do not log.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Supported encoder formats.
const (
	FormatJSON    = "json"
	FormatConsole = "console"
)

// Option adjusts the logger configuration before it is built.
type Option func(*settings)

type settings struct {
	out    io.Writer
	fields []zap.Field
}

// WithOutput redirects log output, stderr by default.
func WithOutput(w io.Writer) Option {
	return func(s *settings) {
		if w != nil {
			s.out = w
		}
	}
}

// WithFields attaches fields to every log line.
func WithFields(fields ...zap.Field) Option {
	return func(s *settings) {
		s.fields = append(s.fields, fields...)
	}
}

// ParseLevel maps a level name to a zap level. Unknown names are an error.
func ParseLevel(name string) (zapcore.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return zapcore.DebugLevel, nil
	case "", "info":
		return zapcore.InfoLevel, nil
	case "warn", "warning":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("logging: unknown level %q", name)
	}
}

// New builds a logger writing level and above in the given format.
func New(level, format string, opts ...Option) (*zap.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	s := settings{out: os.Stderr}
	for _, opt := range opts {
		opt(&s)
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var enc zapcore.Encoder
	switch strings.ToLower(format) {
	case "", FormatJSON:
		enc = zapcore.NewJSONEncoder(encCfg)
	case FormatConsole:
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		enc = zapcore.NewConsoleEncoder(encCfg)
	default:
		return nil, fmt.Errorf("logging: unknown format %q", format)
	}

	core := zapcore.NewCore(enc, zapcore.AddSync(s.out), zap.NewAtomicLevelAt(lvl))
	return zap.New(core, zap.AddCaller()).With(s.fields...), nil
}
