package config

import (
	"context"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"

	ReplicationOff   = "off"
	ReplicationHTTP  = "http"
	ReplicationKafka = "kafka"
)

type Config struct {
	Port      string `env:"PORT, default=3000"`
	AppEnv    string `env:"APP_ENV, default=development"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`
	LogFormat string `env:"LOG_FORMAT, default=console"`

	Ledger      LedgerConfig
	Postgres    PostgresConfig
	Redis       RedisConfig
	Kafka       KafkaConfig
	Replication ReplicationConfig
	Insight     InsightConfig
	RateLimit   RateLimitConfig
}

type LedgerConfig struct {
	Backend   string        `env:"LEDGER_BACKEND, default=memory"`
	Timezone  string        `env:"LEDGER_TIMEZONE, default=Local"`
	KeyPrefix string        `env:"LEDGER_KEY_PREFIX, default=otta_"`
	Recency   time.Duration `env:"NOTIFY_RECENCY, default=5s"`
}

type PostgresConfig struct {
	Host     string `env:"DB_HOST, default=localhost"`
	User     string `env:"DB_USER, default=postgres"`
	Password string `env:"DB_PASSWORD"`
	Name     string `env:"DB_NAME, default=otta"`
	Port     string `env:"DB_PORT, default=5432"`
	SSLMode  string `env:"DB_SSLMODE, default=disable"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR"`
	DB   int    `env:"REDIS_DB, default=0"`
}

type KafkaConfig struct {
	Broker           string `env:"KAFKA_BROKER"`
	ReplicationTopic string `env:"KAFKA_REPLICATION_TOPIC, default=otta.replication.v1"`
	ConsumerGroup    string `env:"KAFKA_CONSUMER_GROUP, default=go-otta-sheets"`
}

type ReplicationConfig struct {
	Mode      string        `env:"REPLICATION_MODE, default=off"`
	SheetsURL string        `env:"SHEETS_SCRIPT_URL"`
	Timeout   time.Duration `env:"REPLICATION_TIMEOUT, default=10s"`
	QueueSize int           `env:"REPLICATION_QUEUE_SIZE, default=256"`
}

type InsightConfig struct {
	APIKey  string        `env:"INSIGHT_API_KEY"`
	Model   string        `env:"INSIGHT_MODEL, default=gemini-2.5-flash"`
	BaseURL string        `env:"INSIGHT_BASE_URL, default=https://generativelanguage.googleapis.com/v1beta"`
	Timeout time.Duration `env:"INSIGHT_TIMEOUT, default=30s"`
}

type RateLimitConfig struct {
	RPS   float64 `env:"RATE_LIMIT_RPS, default=5"`
	Burst int     `env:"RATE_LIMIT_BURST, default=10"`
}

// Load reads .env (when present) and then the process environment.
func Load(ctx context.Context) (*Config, error) {
	_ = godotenv.Load()
	return Process(ctx, envconfig.OsLookuper())
}

func Process(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Ledger.Backend {
	case BackendMemory, BackendRedis, BackendPostgres:
	default:
		return fmt.Errorf("config: unknown LEDGER_BACKEND %q", c.Ledger.Backend)
	}
	if c.Ledger.Backend == BackendRedis && c.Redis.Addr == "" {
		return fmt.Errorf("config: REDIS_ADDR is required for the redis backend")
	}
	switch c.Replication.Mode {
	case ReplicationOff, ReplicationHTTP:
	case ReplicationKafka:
		if c.Kafka.Broker == "" {
			return fmt.Errorf("config: KAFKA_BROKER is required for kafka replication")
		}
	default:
		return fmt.Errorf("config: unknown REPLICATION_MODE %q", c.Replication.Mode)
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("config: LEDGER_TIMEZONE: %w", err)
	}
	return nil
}

// Location resolves the zone used to assign calendar days to entries.
func (c *Config) Location() (*time.Location, error) {
	if c.Ledger.Timezone == "" || c.Ledger.Timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Ledger.Timezone)
}

func (c *Config) PostgresDSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		c.Postgres.Host, c.Postgres.User, c.Postgres.Password, c.Postgres.Name, c.Postgres.Port, c.Postgres.SSLMode,
	)
}

// NewLogger builds the process logger from LOG_LEVEL and LOG_FORMAT.
func (c *Config) NewLogger() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("config: LOG_LEVEL: %w", err)
	}

	zc := zap.NewProductionConfig()
	if c.LogFormat == "console" {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}
