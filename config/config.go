// Package config loads the imuvib configuration from defaults, an optional
// YAML file and IMUVIB_ environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/cwbudde/algo-vibration/analysis"
	"github.com/cwbudde/algo-vibration/dsp/core"
	"github.com/cwbudde/algo-vibration/dsp/transform"
	"github.com/cwbudde/algo-vibration/imu"
	"github.com/cwbudde/algo-vibration/internal/logging"
	"github.com/cwbudde/algo-vibration/session"
)

// Defaults.
const (
	DefaultSamplingRate     = core.DefaultSampleRate
	DefaultDuration         = session.DefaultDuration
	DefaultBufferCapacity   = session.DefaultCapacity
	DefaultConfidenceLevel  = core.DefaultConfidenceLevel
	DefaultDegreesOfFreedom = core.DefaultDegreesOfFreedom
	DefaultChannel          = "accel-x"
	DefaultFFTBackend       = "auto"
	DefaultLogLevel         = "info"
	DefaultLogFormat        = logging.FormatJSON
	DefaultMQTTBroker       = "tcp://localhost:1883"
	DefaultMQTTTopic        = "/imu"
	DefaultOutputFormat     = FormatTable
)

// Output formats.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// Config is the top-level configuration. Field tags use mapstructure for
// viper unmarshalling.
type Config struct {
	SamplingRate     float64       `mapstructure:"sampling_rate"`
	Duration         time.Duration `mapstructure:"duration"`
	BufferCapacity   int           `mapstructure:"buffer_capacity"`
	ConfidenceLevel  float64       `mapstructure:"confidence_level"`
	DegreesOfFreedom float64       `mapstructure:"degrees_of_freedom"`
	Channel          string        `mapstructure:"channel"`
	FFTBackend       string        `mapstructure:"fft_backend"`
	Log              LogConfig     `mapstructure:"log"`
	MQTT             MQTTConfig    `mapstructure:"mqtt"`
	Metrics          MetricsConfig `mapstructure:"metrics"`
	Output           OutputConfig  `mapstructure:"output"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// MQTTConfig holds broker connection settings. An empty ClientID is
// replaced by a generated one at connect time.
type MQTTConfig struct {
	Broker   string `mapstructure:"broker"`
	Topic    string `mapstructure:"topic"`
	QoS      int    `mapstructure:"qos"`
	ClientID string `mapstructure:"client_id"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

// MetricsConfig holds the Prometheus listener. An empty Listen disables it.
type MetricsConfig struct {
	Listen string `mapstructure:"listen"`
}

// OutputConfig selects how the report is printed and where the ASD plot goes.
type OutputConfig struct {
	Format   string `mapstructure:"format"`
	Plot     string `mapstructure:"plot"`
	Spectrum bool   `mapstructure:"spectrum"`
}

// Validate checks Config invariants and returns the first error found,
// wrapping core.ErrInvalidConfiguration.
func (c *Config) Validate() error {
	if _, err := c.Session(); err != nil {
		return err
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("config: %w: %v", core.ErrInvalidConfiguration, err)
	}
	switch c.Log.Format {
	case "", logging.FormatJSON, logging.FormatConsole:
	default:
		return fmt.Errorf("config: %w: log.format %q", core.ErrInvalidConfiguration, c.Log.Format)
	}
	if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
		return fmt.Errorf("config: %w: mqtt.qos must be 0, 1 or 2: %d", core.ErrInvalidConfiguration, c.MQTT.QoS)
	}
	switch c.Output.Format {
	case "", FormatTable, FormatJSON, FormatYAML:
	default:
		return fmt.Errorf("config: %w: output.format %q", core.ErrInvalidConfiguration, c.Output.Format)
	}
	return nil
}

// Analysis converts the analysis keys into analysis.Options.
func (c *Config) Analysis() (analysis.Options, error) {
	backend, err := transform.ParseBackend(c.FFTBackend)
	if err != nil {
		return analysis.Options{}, fmt.Errorf("config: %w", err)
	}

	opts := analysis.DefaultOptions()
	opts.ProcessorConfig = core.ApplyProcessorOptions(
		core.WithSampleRate(c.SamplingRate),
		core.WithConfidenceLevel(c.ConfidenceLevel),
		core.WithDegreesOfFreedom(c.DegreesOfFreedom),
	)
	opts.Backend = backend
	if err := opts.Validate(); err != nil {
		return analysis.Options{}, fmt.Errorf("config: %w", err)
	}
	return opts, nil
}

// Session converts the window keys into a session.Config.
func (c *Config) Session() (session.Config, error) {
	channel, err := imu.ParseChannel(c.Channel)
	if err != nil {
		return session.Config{}, fmt.Errorf("config: %w", err)
	}
	opts, err := c.Analysis()
	if err != nil {
		return session.Config{}, err
	}

	cfg := session.Config{
		Channel:  channel,
		Duration: c.Duration,
		Capacity: c.BufferCapacity,
		Analysis: opts,
	}
	if err := cfg.Validate(); err != nil {
		return session.Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}
