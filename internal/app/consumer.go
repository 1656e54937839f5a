package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go-otta/internal/config"
	"go-otta/internal/messaging/kafka/consumer"
	"go-otta/internal/replication"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// RunConsumer forwards replication envelopes from Kafka to the spreadsheet
// web-app until SIGINT or SIGTERM.
func RunConsumer(cfg *config.Config) error {
	logger := zap.L().Named("app.consumer")

	if cfg.Kafka.Broker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}
	if cfg.Replication.SheetsURL == "" {
		return fmt.Errorf("SHEETS_SCRIPT_URL is required")
	}

	sink := replication.NewHTTPSink(cfg.Replication.SheetsURL, cfg.Replication.Timeout)

	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        []string{cfg.Kafka.Broker},
		Topic:          cfg.Kafka.ReplicationTopic,
		GroupID:        cfg.Kafka.ConsumerGroup,
		CommitInterval: 0,
		StartOffset:    kafkago.FirstOffset,
	})
	defer reader.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go consumer.ConsumeReplication(ctx, reader, sink, logger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("consumer shutting down")
	cancel()

	return nil
}
