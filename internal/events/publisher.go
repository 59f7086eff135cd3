// Package events publishes scored-debate events for downstream consumers.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"

	"debate-scoring-service/internal/observability/metrics"
)

// ScoredEvent is emitted once per successfully processed debate.
type ScoredEvent struct {
	EventType   string `json:"eventType"`
	FileID      string `json:"fileId"`
	WinningTeam int32  `json:"winningTeam"`
	Speakers    int    `json:"speakers"`
	Timestamp   int64  `json:"timestamp"`
}

// Config holds Kafka publisher configuration.
type Config struct {
	Enabled bool
	Brokers []string
	Topic   string
}

// Publisher writes scored events to Kafka. When disabled, or when no
// brokers are configured, publishes degrade to debug logs so the worker can
// run without a broker.
type Publisher struct {
	writer  *kafka.Writer
	topic   string
	enabled bool
	metrics *metrics.Metrics
}

// New creates a publisher from the configuration. A nil config disables
// publishing entirely.
func New(cfg *Config) *Publisher {
	m := metrics.DefaultMetrics

	if cfg == nil || !cfg.Enabled || len(cfg.Brokers) == 0 {
		log.Info().Msg("Kafka disabled, scored events will be logged only")
		p := &Publisher{enabled: false, metrics: m}
		if cfg != nil {
			p.topic = cfg.Topic
		}
		return p
	}

	dialer := &kafka.Dialer{
		Timeout:   10 * time.Second,
		DualStack: true,
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
		WriteTimeout: 10 * time.Second,
		RequiredAcks: kafka.RequireOne,
		Transport:    &kafka.Transport{Dial: dialer.DialFunc},
	}

	log.Info().
		Strs("brokers", cfg.Brokers).
		Str("topic", cfg.Topic).
		Msg("Kafka publisher initialized")

	return &Publisher{
		writer:  writer,
		topic:   cfg.Topic,
		enabled: true,
		metrics: m,
	}
}

// PublishScored publishes the event keyed by file id. Errors are returned
// for logging but never fail the job that produced the event.
func (p *Publisher) PublishScored(ctx context.Context, ev ScoredEvent) error {
	start := time.Now()

	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	log.Debug().
		Str("topic", p.topic).
		Str("fileId", ev.FileID).
		RawJSON("payload", payload).
		Msg("Publishing scored event")

	if !p.enabled || p.writer == nil {
		p.metrics.RecordPublish(p.topic, nil, time.Since(start).Seconds())
		return nil
	}

	msg := kafka.Message{
		Key:   []byte(ev.FileID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "eventType", Value: []byte(ev.EventType)},
		},
	}

	err = p.writer.WriteMessages(ctx, msg)
	p.metrics.RecordPublish(p.topic, err, time.Since(start).Seconds())
	if err != nil {
		log.Error().
			Err(err).
			Str("topic", p.topic).
			Str("fileId", ev.FileID).
			Msg("Failed to write scored event to Kafka")
		return err
	}
	return nil
}

// Close closes the underlying writer.
func (p *Publisher) Close() error {
	if p.writer == nil {
		return nil
	}
	return p.writer.Close()
}
