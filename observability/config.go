package observability

import (
	"fmt"
	"time"
)

// TracingConfig is the tracing section of the service config.
type TracingConfig struct {
	Enabled    bool    `yaml:"enabled" mapstructure:"enabled"`
	Endpoint   string  `yaml:"endpoint" mapstructure:"endpoint"`
	Insecure   bool    `yaml:"insecure" mapstructure:"insecure"`
	SampleRate float64 `yaml:"sample_rate" mapstructure:"sample_rate"`
}

// MetricsConfig is the metrics section of the service config.
type MetricsConfig struct {
	Enabled  bool          `yaml:"enabled" mapstructure:"enabled"`
	Endpoint string        `yaml:"endpoint" mapstructure:"endpoint"`
	Insecure bool          `yaml:"insecure" mapstructure:"insecure"`
	Interval time.Duration `yaml:"interval" mapstructure:"interval"`
}

// ApplyDefaults fills unset tracing fields.
func (c *TracingConfig) ApplyDefaults() {
	if c.Endpoint == "" {
		c.Endpoint = "localhost:4318"
	}
	if c.SampleRate == 0 {
		c.SampleRate = 1.0
	}
}

// Validate checks the tracing section.
func (c *TracingConfig) Validate() error {
	if c.SampleRate < 0 || c.SampleRate > 1 {
		return fmt.Errorf("tracing.sample_rate must be within [0, 1] (got: %v)", c.SampleRate)
	}
	return nil
}

// ApplyDefaults fills unset metrics fields.
func (c *MetricsConfig) ApplyDefaults() {
	if c.Endpoint == "" {
		c.Endpoint = "localhost:4318"
	}
	if c.Interval == 0 {
		c.Interval = 15 * time.Second
	}
}

// TracerConfig builds the exporter settings for the given service identity.
func (c TracingConfig) TracerConfig(service, version, environment string) *TracerConfig {
	return &TracerConfig{
		ServiceName:    service,
		ServiceVersion: version,
		Environment:    environment,
		Endpoint:       c.Endpoint,
		Insecure:       c.Insecure,
		SampleRate:     c.SampleRate,
	}
}

// MeterConfig builds the exporter settings for the given service identity.
func (c MetricsConfig) MeterConfig(service, version, environment string) *MeterConfig {
	return &MeterConfig{
		ServiceName:    service,
		ServiceVersion: version,
		Environment:    environment,
		Endpoint:       c.Endpoint,
		Insecure:       c.Insecure,
		Interval:       c.Interval,
	}
}
