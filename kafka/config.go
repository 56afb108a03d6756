package kafka

import (
	"fmt"
	"time"

	"github.com/kbukum/appkit/security"
	"github.com/kbukum/appkit/validation"
)

// Section is the default configuration section of the producer.
const Section = "kafka.producer"

// ProducerConfig holds Kafka connection and producer configuration.
type ProducerConfig struct {
	// Brokers is the list of Kafka broker addresses.
	Brokers []string `mapstructure:"brokers" validate:"required,min=1,dive,hostname_port"`

	// ClientID identifies the producer in broker logs.
	ClientID string `mapstructure:"client_id"`

	// Acks is the required acknowledgement level: "0", "1" or "all".
	Acks string `mapstructure:"acks" validate:"omitempty,oneof=0 1 all"`

	// Retries is the number of write attempts per message.
	Retries int `mapstructure:"retries" validate:"gte=0"`

	// RetryBackoff is the minimum wait between attempts (e.g. "100ms").
	RetryBackoff string `mapstructure:"retry_backoff"`

	// Compression is one of none, gzip, snappy, lz4, zstd.
	Compression string `mapstructure:"compression" validate:"omitempty,oneof=none gzip snappy lz4 zstd"`

	// BatchSize and BatchTimeout bound how long the writer buffers.
	BatchSize    int    `mapstructure:"batch_size" validate:"gte=0"`
	BatchTimeout string `mapstructure:"batch_timeout"`

	// WriteTimeout bounds a single write to a broker.
	WriteTimeout string `mapstructure:"write_timeout"`

	// FlushTimeout bounds one Send from hand-off to acknowledgement.
	FlushTimeout string `mapstructure:"flush_timeout"`

	TLS security.TLSConfig `mapstructure:"tls"`

	// SASL
	EnableSASL    bool   `mapstructure:"enable_sasl"`
	SASLMechanism string `mapstructure:"sasl_mechanism" validate:"omitempty,oneof=PLAIN SCRAM-SHA-256 SCRAM-SHA-512"`
	Username      string `mapstructure:"username"`
	Password      string `mapstructure:"password"`

	// Connection settings
	IdleTimeout string `mapstructure:"idle_timeout"`
	MetadataTTL string `mapstructure:"metadata_ttl"`
}

// ApplyDefaults sets sensible defaults for zero-valued fields.
func (c *ProducerConfig) ApplyDefaults() {
	if c.Acks == "" {
		c.Acks = "1"
	}
	if c.Compression == "" {
		c.Compression = "snappy"
	}
	if c.Retries <= 0 {
		c.Retries = 3
	}
	if c.RetryBackoff == "" {
		c.RetryBackoff = "100ms"
	}
	if c.BatchSize <= 0 {
		c.BatchSize = 1
	}
	if c.BatchTimeout == "" {
		c.BatchTimeout = "10ms"
	}
	if c.WriteTimeout == "" {
		c.WriteTimeout = "10s"
	}
	if c.FlushTimeout == "" {
		c.FlushTimeout = "5s"
	}
	if c.IdleTimeout == "" {
		c.IdleTimeout = "30s"
	}
	if c.MetadataTTL == "" {
		c.MetadataTTL = "6s"
	}
	if c.SASLMechanism == "" && c.EnableSASL {
		c.SASLMechanism = "PLAIN"
	}
}

// Validate checks tags, durations, SASL credentials and the TLS pair.
func (c *ProducerConfig) Validate(section string) error {
	if err := validation.Section(section, c); err != nil {
		return err
	}
	v := validation.New()
	for _, d := range []struct{ field, value string }{
		{"retry_backoff", c.RetryBackoff},
		{"batch_timeout", c.BatchTimeout},
		{"write_timeout", c.WriteTimeout},
		{"flush_timeout", c.FlushTimeout},
		{"idle_timeout", c.IdleTimeout},
		{"metadata_ttl", c.MetadataTTL},
	} {
		_, err := time.ParseDuration(d.value)
		v.Custom(err == nil, d.field, fmt.Sprintf("invalid duration %q", d.value))
	}
	if c.EnableSASL {
		v.Required("username", c.Username)
	}
	if err := c.TLS.Validate(); err != nil {
		v.Custom(false, "tls", err.Error())
	}
	return v.Validate(section)
}

// ParseDuration parses a duration string, returning zero on empty input.
func ParseDuration(s string) time.Duration {
	d, _ := time.ParseDuration(s)
	return d
}
