// Package kafka publishes sighting updates for downstream consumers such as
// the alerting service.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/lci-slovakia/sighting-map-service/internal/domain"
)

// Writer produces sighting-update messages to a Kafka topic.
// It implements feed.UpdatePublisher.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured update topic.
func NewWriter(brokers []string, topic string, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// PublishSightings serializes and publishes newly seen sightings in a single
// WriteMessages call.
func (w *Writer) PublishSightings(ctx context.Context, sightings []domain.Sighting) error {
	if len(sightings) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(sightings))
	for i := range sightings {
		msg, err := serializeToMessage(sightings[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	return w.writer.WriteMessages(ctx, msgs...)
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a Sighting into a Kafka message. The key is
// the coordinate pair so consumers partitioning by location see a stable key
// per place.
func serializeToMessage(s domain.Sighting) (kafkago.Message, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize sighting: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(fmt.Sprintf("%.6f,%.6f", s.Latitude, s.Longitude)),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "category", Value: []byte(s.Category)},
			{Key: "fetched_at", Value: []byte(s.FetchedAt.Format(time.RFC3339))},
		},
	}, nil
}
