package kafka

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"

	"github.com/mvargascr/fondo-server/internal/events"
)

// Topic carrying the movement change feed.
const Topic = "fund_movements"

// Publisher writes movement events to Kafka, keyed by company so all changes
// to one company's funds stay ordered within a partition.
type Publisher struct {
	writer *kafka.Writer
}

// NewPublisher creates a publisher for the given brokers.
func NewPublisher(brokers []string) *Publisher {
	return &Publisher{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    Topic,
			Balancer: &kafka.LeastBytes{},
		},
	}
}

func (p *Publisher) Publish(ctx context.Context, event events.MovementEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.Company),
		Value: data,
	})
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}
