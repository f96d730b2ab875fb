package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// Publisher writes JSON encoded events to a single Kafka topic, keyed by the
// event's logical topic so consumers can route on the message key.
type Publisher struct {
	writer *kafka.Writer
}

func NewPublisher(brokers []string, topic string) *Publisher {
	return &Publisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
			BatchTimeout: 50 * time.Millisecond,
		},
	}
}

func (p *Publisher) Publish(ctx context.Context, topic string, event any) error {
	return p.PublishBatch(ctx, topic, []any{event})
}

// PublishBatch writes all events with a single WriteMessages call.
func (p *Publisher) PublishBatch(ctx context.Context, topic string, events []any) error {
	if len(events) == 0 {
		return nil
	}

	msgs, err := messages(topic, events, time.Now())
	if err != nil {
		return err
	}

	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("writing %d %s events: %w", len(msgs), topic, err)
	}

	return nil
}

func messages(topic string, events []any, now time.Time) ([]kafka.Message, error) {
	msgs := make([]kafka.Message, 0, len(events))

	for i, event := range events {
		data, err := json.Marshal(event)
		if err != nil {
			return nil, fmt.Errorf("encoding event %d: %w", i, err)
		}

		msgs = append(msgs, kafka.Message{
			Key:   []byte(topic),
			Value: data,
			Time:  now,
		})
	}

	return msgs, nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}
