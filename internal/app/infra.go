package app

import (
	"context"
	"fmt"

	"go-otta/internal/config"
	"go-otta/internal/messaging/kafka/producer"
	"go-otta/internal/replication"
	"go-otta/internal/shared/connection"
	"go-otta/internal/storage"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const connectRetries = 5

// closer releases an infrastructure handle on shutdown.
type closer func()

// openStore connects the configured ledger backend. The redis client is
// returned too so idempotent check-in can share it; it is nil for other
// backends unless REDIS_ADDR is set.
func openStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (storage.Store, *redis.Client, []closer, error) {
	var (
		rdb     *redis.Client
		closers []closer
		err     error
	)

	if cfg.Redis.Addr != "" {
		rdb, err = connection.ConnectRedisWithRetry(cfg.Redis.Addr, cfg.Redis.DB, connectRetries)
		if err != nil {
			return nil, nil, nil, err
		}
		closers = append(closers, func() { _ = rdb.Close() })
		logger.Info("redis connection established", zap.String("addr", cfg.Redis.Addr))
	}

	switch cfg.Ledger.Backend {
	case config.BackendRedis:
		return storage.NewRedisStore(rdb, cfg.Ledger.KeyPrefix, logger), rdb, closers, nil

	case config.BackendPostgres:
		dsn := cfg.PostgresDSN()
		gormDB, err := connection.ConnectGORMWithRetry(dsn, connectRetries)
		if err != nil {
			return nil, nil, closers, err
		}
		sqlDB, err := gormDB.DB()
		if err != nil {
			return nil, nil, closers, err
		}
		closers = append(closers, func() { _ = sqlDB.Close() })

		pool, err := connection.ConnectPgxPoolWithRetry(ctx, dsn, connectRetries)
		if err != nil {
			return nil, nil, closers, err
		}
		closers = append(closers, pool.Close)

		store := storage.NewPostgresStore(gormDB, pool, logger)
		if err := store.Migrate(ctx); err != nil {
			return nil, nil, closers, fmt.Errorf("migrate ledger: %w", err)
		}
		logger.Info("postgres ledger ready")
		return store, rdb, closers, nil

	default:
		return storage.NewMemoryStore(), rdb, closers, nil
	}
}

// openSink picks the replication transport. A nil sink disables replication.
func openSink(cfg *config.Config, logger *zap.Logger) (replication.Sink, []closer, error) {
	switch cfg.Replication.Mode {
	case config.ReplicationHTTP:
		if cfg.Replication.SheetsURL == "" {
			logger.Warn("replication mode is http but SHEETS_SCRIPT_URL is empty, replication disabled")
			return nil, nil, nil
		}
		return replication.NewHTTPSink(cfg.Replication.SheetsURL, cfg.Replication.Timeout), nil, nil

	case config.ReplicationKafka:
		writer, err := connection.ConnectKafkaWithRetry(cfg.Kafka.Broker, connectRetries)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("kafka writer ready", zap.String("topic", cfg.Kafka.ReplicationTopic))
		return producer.NewPublisher(writer, cfg.Kafka.ReplicationTopic), []closer{func() { _ = writer.Close() }}, nil

	default:
		return nil, nil, nil
	}
}
