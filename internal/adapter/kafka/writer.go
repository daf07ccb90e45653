// Package kafka publishes the change feed: every event that reaches the
// store is also emitted to a topic so downstream consumers can react without
// polling the table.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/quakewatch/quake-data-ingest/internal/config"
	"github.com/quakewatch/quake-data-ingest/internal/domain"
	"github.com/quakewatch/quake-data-ingest/internal/observability"
	kafkago "github.com/segmentio/kafka-go"
)

// Writer produces normalized events to the change-feed topic.
// It implements pipeline.Publisher.
type Writer struct {
	writer  *kafkago.Writer
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewWriter creates a producer for the configured change-feed topic.
func NewWriter(cfg *config.Config, metrics *observability.Metrics, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, metrics: metrics, logger: logger}
}

// PublishBatch serializes and publishes events in a single WriteMessages
// call. Messages are keyed by event id so updates to the same quake land on
// one partition in order.
func (w *Writer) PublishBatch(ctx context.Context, events []domain.QuakeEvent) error {
	if len(events) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(events))
	for i := range events {
		msg, err := serializeToMessage(events[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("publish change feed: %w", err)
	}
	w.metrics.ChangeFeedPublished.Add(float64(len(events)))
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a QuakeEvent into a Kafka message.
func serializeToMessage(event domain.QuakeEvent) (kafkago.Message, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize quake event: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(event.ID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "event_type", Value: []byte(event.EventType)},
			{Key: "processed_at", Value: []byte(event.ProcessedAt.Format(time.RFC3339))},
		},
	}, nil
}
