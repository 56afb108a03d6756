package kafka

import (
	"fmt"

	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl"
	"github.com/segmentio/kafka-go/sasl/plain"
	"github.com/segmentio/kafka-go/sasl/scram"
)

// CreateTransport builds a kafka.Transport with optional TLS/SASL.
func CreateTransport(cfg *ProducerConfig) (*kafka.Transport, error) {
	transport := &kafka.Transport{
		ClientID:    cfg.ClientID,
		IdleTimeout: ParseDuration(cfg.IdleTimeout),
		MetadataTTL: ParseDuration(cfg.MetadataTTL),
	}

	tc, err := cfg.TLS.Build()
	if err != nil {
		return nil, err
	}
	transport.TLS = tc

	if cfg.EnableSASL {
		m, err := buildSASLMechanism(cfg)
		if err != nil {
			return nil, fmt.Errorf("SASL config: %w", err)
		}
		transport.SASL = m
	}

	return transport, nil
}

func buildSASLMechanism(cfg *ProducerConfig) (sasl.Mechanism, error) {
	switch cfg.SASLMechanism {
	case "PLAIN":
		return plain.Mechanism{
			Username: cfg.Username,
			Password: cfg.Password,
		}, nil
	case "SCRAM-SHA-256":
		return scram.Mechanism(scram.SHA256, cfg.Username, cfg.Password)
	case "SCRAM-SHA-512":
		return scram.Mechanism(scram.SHA512, cfg.Username, cfg.Password)
	default:
		return nil, fmt.Errorf("unsupported SASL mechanism: %s", cfg.SASLMechanism)
	}
}

// ResolveCompression maps a compression name to a kafka.Compression codec.
func ResolveCompression(name string) kafka.Compression {
	switch name {
	case "gzip":
		return kafka.Gzip
	case "lz4":
		return kafka.Lz4
	case "zstd":
		return kafka.Zstd
	case "snappy":
		return kafka.Snappy
	case "none":
		return 0
	default:
		return kafka.Snappy
	}
}

// ResolveAcks maps an acks setting to kafka.RequiredAcks.
func ResolveAcks(acks string) kafka.RequiredAcks {
	switch acks {
	case "0":
		return kafka.RequireNone
	case "all":
		return kafka.RequireAll
	default:
		return kafka.RequireOne
	}
}

// NewWriter builds the kafka-go Writer described by cfg.
func NewWriter(cfg *ProducerConfig) (*kafka.Writer, error) {
	transport, err := CreateTransport(cfg)
	if err != nil {
		return nil, err
	}
	return &kafka.Writer{
		Addr:            kafka.TCP(cfg.Brokers...),
		Transport:       transport,
		Balancer:        &kafka.Hash{},
		MaxAttempts:     cfg.Retries,
		WriteBackoffMin: ParseDuration(cfg.RetryBackoff),
		BatchSize:       cfg.BatchSize,
		BatchTimeout:    ParseDuration(cfg.BatchTimeout),
		RequiredAcks:    ResolveAcks(cfg.Acks),
		Compression:     ResolveCompression(cfg.Compression),
		WriteTimeout:    ParseDuration(cfg.WriteTimeout),
	}, nil
}
