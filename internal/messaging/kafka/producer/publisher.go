package producer

import (
	"context"
	"encoding/json"
	"time"

	"go-otta/internal/events"

	kafkago "github.com/segmentio/kafka-go"
)

type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
}

// Publisher is a replication sink that hands envelopes to Kafka; the
// consumer binary forwards them to the spreadsheet web-app.
type Publisher struct {
	writer MessageWriter
	topic  string
}

func NewPublisher(writer MessageWriter, topic string) *Publisher {
	if topic == "" {
		topic = events.ReplicationTopic
	}
	return &Publisher{writer: writer, topic: topic}
}

func (p *Publisher) Send(ctx context.Context, env events.ReplicationEnvelope) error {
	payload, err := json.Marshal(env)
	if err != nil {
		return err
	}

	occurredAt := env.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now()
	}

	msg := kafkago.Message{
		Topic: p.topic,
		Key:   []byte(env.Key),
		Value: payload,
		Headers: []kafkago.Header{
			{Key: "event_type", Value: []byte(env.Action)},
			{Key: "occurred_at", Value: []byte(occurredAt.UTC().Format(time.RFC3339Nano))},
		},
	}

	return p.writer.WriteMessages(ctx, msg)
}
