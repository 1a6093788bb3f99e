package core

import "fmt"

// Analysis defaults.
const (
	DefaultSampleRate       = 500.0
	DefaultConfidenceLevel  = 0.9
	DefaultDegreesOfFreedom = 2.0
)

// ProcessorConfig defines the numeric settings shared by the spectral and
// confidence stages.
type ProcessorConfig struct {
	SampleRate       float64
	ConfidenceLevel  float64
	DegreesOfFreedom float64
}

// ProcessorOption mutates a ProcessorConfig.
type ProcessorOption func(*ProcessorConfig)

// DefaultProcessorConfig returns the acceptance-test defaults.
func DefaultProcessorConfig() ProcessorConfig {
	return ProcessorConfig{
		SampleRate:       DefaultSampleRate,
		ConfidenceLevel:  DefaultConfidenceLevel,
		DegreesOfFreedom: DefaultDegreesOfFreedom,
	}
}

// WithSampleRate sets the sampling rate in Hz.
//
// Unlike most options in this module the value is stored even when invalid,
// so that Validate can report it instead of silently using the default.
func WithSampleRate(sampleRate float64) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		cfg.SampleRate = sampleRate
	}
}

// WithConfidenceLevel sets the two-sided band confidence level.
func WithConfidenceLevel(level float64) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		cfg.ConfidenceLevel = level
	}
}

// WithDegreesOfFreedom sets the chi-squared degrees of freedom.
func WithDegreesOfFreedom(dof float64) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		cfg.DegreesOfFreedom = dof
	}
}

// ApplyProcessorOptions applies zero or more options to the default config.
func ApplyProcessorOptions(opts ...ProcessorOption) ProcessorConfig {
	cfg := DefaultProcessorConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// Validate checks every field and returns an error wrapping
// ErrInvalidConfiguration for the first invalid one.
func (c ProcessorConfig) Validate() error {
	if err := RequirePositive("sample rate", c.SampleRate); err != nil {
		return err
	}
	if !(c.ConfidenceLevel > 0 && c.ConfidenceLevel < 1) {
		return fmt.Errorf("%w: confidence level must be in (0,1): %v", ErrInvalidConfiguration, c.ConfidenceLevel)
	}
	return RequirePositive("degrees of freedom", c.DegreesOfFreedom)
}
