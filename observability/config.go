package observability

import (
	"fmt"
	"time"

	"github.com/kbukum/appkit/validation"
	"github.com/kbukum/appkit/version"
)

// Section is the configuration section read by the component.
const Section = "tracing"

// Config configures the tracer and meter providers. Without an endpoint
// the providers record in-process only.
type Config struct {
	ServiceName    string  `yaml:"service_name" mapstructure:"service_name"`
	ServiceVersion string  `yaml:"service_version" mapstructure:"service_version"`
	Environment    string  `yaml:"environment" mapstructure:"environment"`
	Endpoint       string  `yaml:"endpoint" mapstructure:"endpoint" validate:"omitempty,hostname_port"`
	Insecure       bool    `yaml:"insecure" mapstructure:"insecure"`
	SampleRate     float64 `yaml:"sample_rate" mapstructure:"sample_rate" validate:"gte=0,lte=1"`
	MetricInterval string  `yaml:"metric_interval" mapstructure:"metric_interval"`
	Metrics        bool    `yaml:"metrics" mapstructure:"metrics"`
}

// DefaultConfig returns the values used before the section is decoded.
func DefaultConfig() Config {
	return Config{SampleRate: 1.0, Metrics: true}
}

// ApplyDefaults fills unset descriptive fields.
func (c *Config) ApplyDefaults() {
	if c.ServiceName == "" {
		c.ServiceName = "app"
	}
	if c.ServiceVersion == "" {
		c.ServiceVersion = version.Short()
	}
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.MetricInterval == "" {
		c.MetricInterval = "15s"
	}
}

// Validate checks ranges and the export interval.
func (c *Config) Validate(section string) error {
	if err := validation.Section(section, c); err != nil {
		return err
	}
	d, err := time.ParseDuration(c.MetricInterval)
	return validation.New().
		Custom(err == nil && d > 0, "metric_interval", fmt.Sprintf("invalid interval %q", c.MetricInterval)).
		Validate(section)
}

func (c *Config) interval() time.Duration {
	d, _ := time.ParseDuration(c.MetricInterval)
	return d
}
