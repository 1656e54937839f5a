package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const notifyChannel = "ledger_changes"

var ErrNotMigrated = errors.New("storage: ledger_entries table missing, run migrations")

type LedgerEntry struct {
	Key       string         `gorm:"column:key;type:text;primaryKey"`
	Value     datatypes.JSON `gorm:"column:value;type:jsonb;not null"`
	Origin    string         `gorm:"column:origin;type:text"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

func (LedgerEntry) TableName() string {
	return "ledger_entries"
}

// notification is the pg_notify payload. Values are re-read from the table
// because NOTIFY payloads are capped at 8000 bytes.
type notification struct {
	Key    string `json:"key"`
	Origin string `json:"origin"`
}

// PostgresStore stores each key as one row. Writes announce themselves with
// pg_notify inside the same transaction, so listeners only hear committed
// values.
type PostgresStore struct {
	db     *gorm.DB
	pool   *pgxpool.Pool
	origin string
	logger *zap.Logger

	mu       sync.Mutex
	snapshot map[string][]byte
}

func NewPostgresStore(db *gorm.DB, pool *pgxpool.Pool, logger ...*zap.Logger) *PostgresStore {
	l := zap.L().Named("storage.postgres")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("storage.postgres")
	}
	return &PostgresStore{
		db:       db,
		pool:     pool,
		origin:   newOrigin(),
		logger:   l,
		snapshot: make(map[string][]byte),
	}
}

func (s *PostgresStore) Origin() string { return s.origin }

func (s *PostgresStore) Migrate(ctx context.Context) error {
	return s.db.WithContext(ctx).AutoMigrate(&LedgerEntry{})
}

func (s *PostgresStore) Get(ctx context.Context, key string) ([]byte, error) {
	var row struct {
		Value datatypes.JSON `gorm:"column:value"`
	}
	res := s.db.WithContext(ctx).
		Raw(`SELECT value FROM ledger_entries WHERE key = ?`, key).
		Scan(&row)
	if res.Error != nil {
		if isUndefinedTable(res.Error) {
			return nil, ErrNotMigrated
		}
		return nil, fmt.Errorf("postgres get %s: %w", key, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return []byte(row.Value), nil
}

func (s *PostgresStore) Set(ctx context.Context, key string, value []byte) error {
	payload, err := json.Marshal(notification{Key: key, Origin: s.origin})
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(
			`INSERT INTO ledger_entries (key, value, origin, updated_at) VALUES (?, ?, ?, ?)
			 ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, origin = EXCLUDED.origin, updated_at = EXCLUDED.updated_at`,
			key, datatypes.JSON(value), s.origin, time.Now().UTC(),
		).Error; err != nil {
			return err
		}
		return tx.Exec(`SELECT pg_notify(?, ?)`, notifyChannel, string(payload)).Error
	})
	if err != nil {
		if isUndefinedTable(err) {
			return ErrNotMigrated
		}
		return fmt.Errorf("postgres set %s: %w", key, err)
	}

	s.remember(key, value)
	return nil
}

// Watch holds one pooled connection in LISTEN mode. Old snapshots come from
// the values this handle last saw for each key, primed from the table.
func (s *PostgresStore) Watch(ctx context.Context) (<-chan ChangeEvent, error) {
	if s.pool == nil {
		return nil, ErrWatchClosed
	}
	if err := s.prime(ctx); err != nil {
		return nil, err
	}

	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWatchClosed, err)
	}
	if _, err := conn.Exec(ctx, "LISTEN "+notifyChannel); err != nil {
		conn.Release()
		return nil, fmt.Errorf("%w: %v", ErrWatchClosed, err)
	}

	out := make(chan ChangeEvent, watchBuffer)
	go func() {
		defer close(out)
		defer conn.Release()

		for {
			n, err := conn.Conn().WaitForNotification(ctx)
			if err != nil {
				if ctx.Err() == nil {
					s.logger.Error("wait for notification failed", zap.Error(err))
				}
				return
			}
			ev, ok := s.handleNotification(ctx, n.Payload)
			if !ok {
				continue
			}
			select {
			case out <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

func (s *PostgresStore) prime(ctx context.Context) error {
	var rows []LedgerEntry
	if err := s.db.WithContext(ctx).Raw(`SELECT key, value FROM ledger_entries`).Scan(&rows).Error; err != nil {
		if isUndefinedTable(err) {
			return ErrNotMigrated
		}
		return err
	}
	for _, r := range rows {
		s.remember(r.Key, r.Value)
	}
	return nil
}

// handleNotification re-reads the announced key and pairs it with the last
// known value. Own writes refresh the snapshot but are not emitted.
func (s *PostgresStore) handleNotification(ctx context.Context, payload string) (ChangeEvent, bool) {
	var n notification
	if err := json.Unmarshal([]byte(payload), &n); err != nil || n.Key == "" {
		s.logger.Warn("malformed notification", zap.String("payload", payload))
		return ChangeEvent{}, false
	}

	current, err := s.Get(ctx, n.Key)
	if err != nil {
		s.logger.Warn("read notified key failed", zap.String("key", n.Key), zap.Error(err))
		return ChangeEvent{}, false
	}

	old := s.remember(n.Key, current)
	if n.Origin == s.origin {
		return ChangeEvent{}, false
	}
	return ChangeEvent{Key: n.Key, Old: old, New: current, Origin: n.Origin}, true
}

// remember stores value as the latest snapshot and returns the previous one.
func (s *PostgresStore) remember(key string, value []byte) []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	old := s.snapshot[key]
	s.snapshot[key] = cloneBytes(value)
	return old
}

func isUndefinedTable(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "42P01"
}
