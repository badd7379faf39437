package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"
)

// MessageWriter is the subset of *kafka.Writer used by KafkaForwarder.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaForwarder mirrors domain events onto a Kafka topic for downstream consumers.
// Subscribe it with Wildcard to forward everything.
type KafkaForwarder struct {
	writer MessageWriter
}

// NewKafkaWriter builds the producer used by the forwarder.
func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		RequiredAcks:           kafka.RequireOne,
		Async:                  true,
		AllowAutoTopicCreation: true,
	}
}

// NewKafkaForwarder wraps writer.
func NewKafkaForwarder(writer MessageWriter) *KafkaForwarder {
	return &KafkaForwarder{writer: writer}
}

type envelope struct {
	Name       string `json:"name"`
	OccurredAt string `json:"occurred_at"`
	Payload    Event  `json:"payload"`
}

// Handle serializes event and writes it keyed by event name.
func (f *KafkaForwarder) Handle(ctx context.Context, event Event) error {
	data, err := json.Marshal(envelope{
		Name:       event.EventName(),
		OccurredAt: event.OccurredAt().Format("2006-01-02T15:04:05.000Z07:00"),
		Payload:    event,
	})
	if err != nil {
		return fmt.Errorf("encode event %s: %w", event.EventName(), err)
	}

	msg := kafka.Message{
		Key:   []byte(event.EventName()),
		Value: data,
		Time:  event.OccurredAt(),
	}
	if err := f.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("forward event %s: %w", event.EventName(), err)
	}
	return nil
}

// Close flushes and closes the underlying writer.
func (f *KafkaForwarder) Close() error {
	return f.writer.Close()
}

var _ Handler = (*KafkaForwarder)(nil)
