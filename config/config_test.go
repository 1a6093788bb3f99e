package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-vibration/config"
	"github.com/cwbudde/algo-vibration/dsp/core"
	"github.com/cwbudde/algo-vibration/dsp/transform"
	"github.com/cwbudde/algo-vibration/imu"
)

func validConfig() config.Config {
	return config.Config{
		SamplingRate:     500,
		Duration:         30 * time.Second,
		BufferCapacity:   10000,
		ConfidenceLevel:  0.9,
		DegreesOfFreedom: 2,
		Channel:          "accel-x",
		FFTBackend:       "auto",
		Log:              config.LogConfig{Level: "info", Format: "json"},
		MQTT:             config.MQTTConfig{Broker: "tcp://localhost:1883", Topic: "/imu"},
		Output:           config.OutputConfig{Format: config.FormatTable},
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "imuvib.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestValidate_ValidConfig_NoError(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	require.NoError(t, cfg.Validate())
}

func TestValidate_InvalidFields_WrapInvalidConfiguration(t *testing.T) {
	t.Parallel()

	tests := map[string]func(*config.Config){
		"sampling rate":   func(c *config.Config) { c.SamplingRate = 0 },
		"capacity":        func(c *config.Config) { c.BufferCapacity = -1 },
		"level":           func(c *config.Config) { c.ConfidenceLevel = 1.2 },
		"dof":             func(c *config.Config) { c.DegreesOfFreedom = -2 },
		"channel":         func(c *config.Config) { c.Channel = "mag-x" },
		"backend":         func(c *config.Config) { c.FFTBackend = "fftw" },
		"log level":       func(c *config.Config) { c.Log.Level = "chatty" },
		"log format":      func(c *config.Config) { c.Log.Format = "xml" },
		"qos":             func(c *config.Config) { c.MQTT.QoS = 3 },
		"output format":   func(c *config.Config) { c.Output.Format = "csv" },
		"negative window": func(c *config.Config) { c.Duration = -time.Second },
		"zero window":     func(c *config.Config) { c.Duration = 0 },
	}
	for name, mutate := range tests {
		cfg := validConfig()
		mutate(&cfg)
		assert.ErrorIs(t, cfg.Validate(), core.ErrInvalidConfiguration, name)
	}
}

func TestSession_ConvertsFields(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.Channel = "yaw"
	cfg.FFTBackend = "gonum"
	cfg.SamplingRate = 200

	sc, err := cfg.Session()
	require.NoError(t, err)
	assert.Equal(t, imu.Yaw, sc.Channel)
	assert.Equal(t, 10000, sc.Capacity)
	assert.Equal(t, 30*time.Second, sc.Duration)
	assert.Equal(t, transform.BackendGonum, sc.Analysis.Backend)
	assert.InDelta(t, 200.0, sc.Analysis.SampleRate, 0)
	assert.InDelta(t, 0.9, sc.Analysis.ConfidenceLevel, 0)
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.InDelta(t, config.DefaultSamplingRate, cfg.SamplingRate, 0)
	assert.Equal(t, config.DefaultDuration, cfg.Duration)
	assert.Equal(t, config.DefaultBufferCapacity, cfg.BufferCapacity)
	assert.Equal(t, "accel-x", cfg.Channel)
	assert.Equal(t, "/imu", cfg.MQTT.Topic)
	assert.Equal(t, config.FormatTable, cfg.Output.Format)
	assert.Empty(t, cfg.Metrics.Listen)
	assert.False(t, cfg.Output.Spectrum)
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := writeConfig(t, `
sampling_rate: 1000
duration: 5s
channel: gyro-z
mqtt:
  broker: tcp://broker:1883
  qos: 1
degrees_of_freedom: 4
output:
  format: yaml
  spectrum: true
`)
	t.Setenv("IMUVIB_MQTT_TOPIC", "/robot/imu")
	t.Setenv("IMUVIB_BUFFER_CAPACITY", "2048")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.InDelta(t, 1000.0, cfg.SamplingRate, 0)
	assert.Equal(t, 5*time.Second, cfg.Duration)
	assert.Equal(t, "gyro-z", cfg.Channel)
	assert.Equal(t, "tcp://broker:1883", cfg.MQTT.Broker)
	assert.Equal(t, 1, cfg.MQTT.QoS)
	assert.Equal(t, "/robot/imu", cfg.MQTT.Topic)
	assert.Equal(t, 2048, cfg.BufferCapacity)
	assert.Equal(t, config.FormatYAML, cfg.Output.Format)
	assert.True(t, cfg.Output.Spectrum)
	assert.InDelta(t, 4.0, cfg.DegreesOfFreedom, 0)
}

func TestLoad_InvalidValue(t *testing.T) {
	path := writeConfig(t, "confidence_level: 0\n")

	_, err := config.Load(path)
	require.ErrorIs(t, err, core.ErrInvalidConfiguration)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}
