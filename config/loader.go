package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// configName is the config file name without extension.
const configName = ".imuvib"

// configType is the config file format.
const configType = "yaml"

// envPrefix is the environment variable prefix, e.g. IMUVIB_MQTT_BROKER.
const envPrefix = "IMUVIB"

// Load reads configuration from defaults, the config file and the
// environment. An explicit configPath must exist; otherwise .imuvib.yaml is
// searched in the working directory and $HOME and may be absent.
func Load(configPath string) (*Config, error) {
	return LoadViper(viper.New(), configPath)
}

// LoadViper is Load on a caller-provided viper instance, which lets the
// command bind flags before reading.
func LoadViper(v *viper.Viper, configPath string) (*Config, error) {
	applyDefaults(v)

	v.SetConfigType(configType)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName(configName)
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: read: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyDefaults(v *viper.Viper) {
	v.SetDefault("sampling_rate", DefaultSamplingRate)
	v.SetDefault("duration", DefaultDuration)
	v.SetDefault("buffer_capacity", DefaultBufferCapacity)
	v.SetDefault("confidence_level", DefaultConfidenceLevel)
	v.SetDefault("degrees_of_freedom", DefaultDegreesOfFreedom)
	v.SetDefault("channel", DefaultChannel)
	v.SetDefault("fft_backend", DefaultFFTBackend)

	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("log.format", DefaultLogFormat)

	v.SetDefault("mqtt.broker", DefaultMQTTBroker)
	v.SetDefault("mqtt.topic", DefaultMQTTTopic)
	v.SetDefault("mqtt.qos", 0)
	v.SetDefault("mqtt.client_id", "")
	v.SetDefault("mqtt.username", "")
	v.SetDefault("mqtt.password", "")

	v.SetDefault("metrics.listen", "")

	v.SetDefault("output.format", DefaultOutputFormat)
	v.SetDefault("output.plot", "")
	v.SetDefault("output.spectrum", false)
}
