// Package events publishes search events to Kafka for downstream analytics.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/heartmarshall/wordlookup/internal/config"
	"github.com/heartmarshall/wordlookup/internal/domain"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes one JSON message per search, keyed by the
// normalized word so that a word always lands on the same partition.
//
// Publishing sits on the search path, so a write gets a single attempt
// bounded by the publish timeout. A slow or unreachable broker costs a
// search at most that long and the event is dropped.
type KafkaPublisher struct {
	writer  messageWriter
	timeout time.Duration
	log     *slog.Logger
}

// NewKafkaPublisher creates a publisher for cfg.Topic.
func NewKafkaPublisher(cfg config.EventsConfig, logger *slog.Logger) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		BatchSize:    1,
		BatchTimeout: time.Millisecond,
		MaxAttempts:  1,
		WriteTimeout: cfg.PublishTimeout,
		RequiredAcks: kafka.RequireOne,
	}
	return newPublisher(w, cfg.PublishTimeout, logger.With("adapter", "kafka", "topic", cfg.Topic))
}

func newPublisher(w messageWriter, timeout time.Duration, logger *slog.Logger) *KafkaPublisher {
	return &KafkaPublisher{writer: w, timeout: timeout, log: logger}
}

// PublishSearch writes a single search event.
func (p *KafkaPublisher) PublishSearch(ctx context.Context, ev domain.SearchEvent) error {
	value, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal search event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(ev.Normalized),
		Value: value,
	}
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish search event: %w", err)
	}

	p.log.Debug("search event published", slog.String("word", ev.Normalized), slog.Int("results", ev.Results))
	return nil
}

// Close flushes pending writes and closes the writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
