package kafka

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/kbukum/appkit/component"
	"github.com/kbukum/appkit/config"
	"github.com/kbukum/appkit/errors"
	"github.com/kbukum/appkit/logger"
	"github.com/kbukum/appkit/shutdown"
)

// ErrProducerClosed is returned by sends after Shutdown began.
var ErrProducerClosed = stderrors.New("kafka producer is closed")

// MessageWriter is the part of *kafkago.Writer the producer uses.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// WriterFactory builds the writer for a validated configuration.
type WriterFactory func(cfg *ProducerConfig) (MessageWriter, error)

// Message is a single record to publish. An empty Key sends the record
// without a key.
type Message struct {
	Topic   string
	Key     string
	Payload []byte
	Headers map[string]string
}

type request struct {
	ctx     context.Context
	msg     kafkago.Message
	respond chan error
}

// Option configures a Producer.
type Option func(*Producer)

// WithSection reads the configuration from section instead of `kafka.producer`.
func WithSection(section string) Option {
	return func(p *Producer) { p.section = section }
}

// WithWriterFactory replaces the kafka-go writer, mainly for tests.
func WithWriterFactory(fn WriterFactory) Option {
	return func(p *Producer) { p.newWriter = fn }
}

// WithLogger overrides the logger.
func WithLogger(l *logger.Logger) Option {
	return func(p *Producer) { p.log = l }
}

// Producer is the Kafka producer component. One goroutine owns the
// writer; senders communicate with it over a channel.
type Producer struct {
	section   string
	newWriter WriterFactory
	log       *logger.Logger
	cfg       ProducerConfig
	writer    MessageWriter
	requests  chan request
	stop      *shutdown.Token
	started   atomic.Bool
}

var (
	_ component.Component     = (*Producer)(nil)
	_ component.HealthChecker = (*Producer)(nil)
	_ component.Describable   = (*Producer)(nil)
)

// Factory returns a factory that builds the producer and its writer from
// configuration.
func Factory(label string, opts ...Option) component.Factory {
	return component.NewFactory(label, func(bc *component.BuildContext, _ string) (*Producer, error) {
		return NewProducer(bc.Config(), opts...)
	})
}

// NewProducer reads and validates the producer section and builds the
// writer. The actor starts at Init.
func NewProducer(cfg *config.Config, opts ...Option) (*Producer, error) {
	p := &Producer{
		section: Section,
		newWriter: func(c *ProducerConfig) (MessageWriter, error) {
			return NewWriter(c)
		},
		requests: make(chan request),
		stop:     shutdown.New(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.log == nil {
		p.log = logger.WithComponent("kafka.producer")
	}

	if err := cfg.Section(p.section, &p.cfg); err != nil {
		return nil, err
	}
	p.cfg.ApplyDefaults()
	if err := p.cfg.Validate(p.section); err != nil {
		return nil, err
	}

	w, err := p.newWriter(&p.cfg)
	if err != nil {
		return nil, errors.InvalidConfig(p.section, err)
	}
	p.writer = w
	return p, nil
}

// Init starts the actor goroutine.
func (p *Producer) Init(context.Context, *config.Config, string) error {
	if !p.started.CompareAndSwap(false, true) {
		return nil
	}
	go p.run()
	p.log.Info("Kafka producer started", map[string]interface{}{
		"brokers": p.cfg.Brokers,
		"acks":    p.cfg.Acks,
	})
	return nil
}

// run handles one request at a time until stop is requested, then closes
// the writer and acknowledges.
func (p *Producer) run() {
	defer p.stop.Acknowledge()
	for {
		select {
		case req := <-p.requests:
			req.respond <- p.write(req)
		case <-p.stop.Requested():
			if err := p.writer.Close(); err != nil {
				p.log.Error("Closing Kafka writer failed", map[string]interface{}{"error": err.Error()})
			}
			p.log.Info("Kafka producer stopped")
			return
		}
	}
}

func (p *Producer) write(req request) error {
	ctx, cancel := context.WithTimeout(req.ctx, ParseDuration(p.cfg.FlushTimeout))
	defer cancel()

	if err := p.writer.WriteMessages(ctx, req.msg); err != nil {
		if IsConnectionError(err) {
			return errors.Unavailable("kafka", err)
		}
		return fmt.Errorf("kafka send to %s: %w", req.msg.Topic, err)
	}
	return nil
}

// Send publishes payload to topic under a generated UUID key.
func (p *Producer) Send(ctx context.Context, topic string, payload []byte) error {
	return p.SendMessage(ctx, Message{Topic: topic, Key: uuid.NewString(), Payload: payload})
}

// SendWithKey publishes payload to topic under key.
func (p *Producer) SendWithKey(ctx context.Context, topic, key string, payload []byte) error {
	return p.SendMessage(ctx, Message{Topic: topic, Key: key, Payload: payload})
}

// SendMessage hands msg to the actor and waits for the write result.
func (p *Producer) SendMessage(ctx context.Context, msg Message) error {
	if !p.started.Load() || p.stop.IsRequested() {
		return ErrProducerClosed
	}

	req := request{ctx: ctx, msg: toKafka(msg), respond: make(chan error, 1)}
	select {
	case p.requests <- req:
	case <-p.stop.Requested():
		return ErrProducerClosed
	case <-ctx.Done():
		return ctx.Err()
	}
	// A received request is always answered.
	return <-req.respond
}

func toKafka(msg Message) kafkago.Message {
	km := kafkago.Message{Topic: msg.Topic, Value: msg.Payload}
	if msg.Key != "" {
		km.Key = []byte(msg.Key)
	}
	for k, v := range msg.Headers {
		km.Headers = append(km.Headers, kafkago.Header{Key: k, Value: []byte(v)})
	}
	return km
}

// Shutdown stops the actor and waits until the writer is closed. A
// producer that never started closes its writer directly.
func (p *Producer) Shutdown(ctx context.Context) error {
	if !p.started.Load() {
		p.stop.Request()
		p.stop.Acknowledge()
		return p.writer.Close()
	}
	return p.stop.RequestAndWait(ctx)
}

// Config returns the producer configuration with defaults applied.
func (p *Producer) Config() ProducerConfig { return p.cfg }

// Metrics reports writer statistics when the writer is a kafka-go Writer.
func (p *Producer) Metrics() WriterMetrics {
	if w, ok := p.writer.(interface{ Stats() kafkago.WriterStats }); ok {
		return CollectWriterMetrics(w.Stats())
	}
	return WriterMetrics{}
}

// Health reports whether the actor is accepting messages.
func (p *Producer) Health(context.Context) component.Health {
	h := component.Health{Name: "kafka.producer", Status: component.StatusHealthy}
	switch {
	case !p.started.Load():
		h.Status, h.Message = component.StatusUnhealthy, "not started"
	case p.stop.IsRequested():
		h.Status, h.Message = component.StatusUnhealthy, "stopped"
	}
	return h
}

// Describe returns infrastructure summary info for the bootstrap display.
func (p *Producer) Describe() component.Description {
	return component.Description{
		Name: "Kafka Producer",
		Type: "kafka",
		Details: fmt.Sprintf("%s acks=%s compression=%s",
			strings.Join(p.cfg.Brokers, ","), p.cfg.Acks, p.cfg.Compression),
	}
}
