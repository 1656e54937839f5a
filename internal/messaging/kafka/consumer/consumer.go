package consumer

import (
	"context"
	"encoding/json"
	"time"

	"go-otta/internal/events"
	"go-otta/internal/metrics"
	"go-otta/internal/replication"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type MessageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
}

const sendAttempts = 3

// sendBackoff is the pause before the second attempt; it doubles after that.
var sendBackoff = time.Second

// ConsumeReplication forwards replication envelopes to sink. A message is
// tried up to sendAttempts times and then committed either way: the group
// offset only moves forward, so a skipped message could never be redelivered.
func ConsumeReplication(
	ctx context.Context,
	reader MessageReader,
	sink replication.Sink,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.replication")
	log.Info("replication consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("replication consumer stopped")
				return
			}
			log.Error("fetch replication message failed", zap.Error(err))
			continue
		}

		var env events.ReplicationEnvelope
		if err := json.Unmarshal(msg.Value, &env); err != nil || env.Action == "" {
			log.Error("decode replication envelope failed",
				zap.Int64("offset", msg.Offset),
				zap.Error(err),
			)
			_ = reader.CommitMessages(ctx, msg)
			continue
		}
		env.Key = string(msg.Key)

		if err := sendWithRetry(ctx, sink, env); err != nil {
			if ctx.Err() != nil {
				log.Info("replication consumer stopped")
				return
			}
			metrics.ReplicationTotal.WithLabelValues(env.Action, "failed").Inc()
			log.Error("forward replication envelope failed, dropping",
				zap.String("action", env.Action),
				zap.String("key", env.Key),
				zap.Int64("offset", msg.Offset),
				zap.Error(err),
			)
		} else {
			metrics.ReplicationTotal.WithLabelValues(env.Action, "sent").Inc()
			log.Info("replication envelope forwarded",
				zap.String("action", env.Action),
				zap.String("key", env.Key),
			)
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit replication message failed", zap.Error(err))
		}
	}
}

func sendWithRetry(ctx context.Context, sink replication.Sink, env events.ReplicationEnvelope) error {
	backoff := sendBackoff
	var err error
	for attempt := 1; attempt <= sendAttempts; attempt++ {
		if err = sink.Send(ctx, env); err == nil {
			return nil
		}
		if attempt == sendAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}
	return err
}
