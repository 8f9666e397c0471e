package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kgo"
)

// Kafka publishes events to a Kafka topic. Produces are asynchronous;
// delivery failures are logged by the produce callback, so Send itself only
// fails on marshalling.
type Kafka struct {
	client *kgo.Client
	topic  string
	logger *slog.Logger
}

func NewKafka(brokers []string, topic string, logger *slog.Logger) (*Kafka, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	return &Kafka{client: client, topic: topic, logger: logger}, nil
}

func (k *Kafka) Send(ctx context.Context, ev Event) error {
	payload, err := json.Marshal(map[string]any{
		"source":      ev.Source,
		"detail-type": ev.DetailType,
		"detail":      ev.Detail,
	})
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	record := &kgo.Record{
		Topic: k.topic,
		Key:   []byte(ev.DetailType),
		Value: payload,
	}
	k.client.Produce(ctx, record, func(r *kgo.Record, err error) {
		if err != nil {
			k.logger.Error("event delivery failed",
				"topic", r.Topic,
				"detail_type", ev.DetailType,
				"error", err,
			)
		}
	})
	return nil
}

// Close flushes pending produces and releases the client.
func (k *Kafka) Close(ctx context.Context) error {
	if err := k.client.Flush(ctx); err != nil {
		return fmt.Errorf("flush events: %w", err)
	}
	k.client.Close()
	return nil
}
