package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisStore keeps each key as a plain string and announces every write on
// a pub/sub channel. SET ... GET returns the previous value atomically, so
// the announced Old snapshot is exact.
type RedisStore struct {
	rdb     *redis.Client
	channel string
	origin  string
	logger  *zap.Logger
}

func NewRedisStore(rdb *redis.Client, keyPrefix string, logger ...*zap.Logger) *RedisStore {
	l := zap.L().Named("storage.redis")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("storage.redis")
	}
	return &RedisStore{
		rdb:     rdb,
		channel: keyPrefix + "changes",
		origin:  newOrigin(),
		logger:  l,
	}
}

func (s *RedisStore) Origin() string { return s.origin }

func (s *RedisStore) Channel() string { return s.channel }

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	v, err := s.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	return []byte(v), nil
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte) error {
	var old []byte
	prev, err := s.rdb.SetArgs(ctx, key, string(value), redis.SetArgs{Get: true}).Result()
	switch {
	case errors.Is(err, redis.Nil):
	case err != nil:
		return fmt.Errorf("redis set %s: %w", key, err)
	default:
		old = []byte(prev)
	}

	payload, err := json.Marshal(ChangeEvent{Key: key, Old: old, New: value, Origin: s.origin})
	if err != nil {
		return err
	}
	// The value is already stored; a lost announcement only delays other
	// handles until the next write.
	if err := s.rdb.Publish(ctx, s.channel, string(payload)).Err(); err != nil {
		s.logger.Warn("publish change failed", zap.String("key", key), zap.Error(err))
	}
	return nil
}

func (s *RedisStore) Watch(ctx context.Context) (<-chan ChangeEvent, error) {
	sub := s.rdb.Subscribe(ctx, s.channel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("%w: %v", ErrWatchClosed, err)
	}

	out := make(chan ChangeEvent, watchBuffer)
	go func() {
		defer close(out)
		defer sub.Close()

		msgs := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				ev, ok := s.decode(msg.Payload)
				if !ok {
					continue
				}
				select {
				case out <- ev:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

// decode drops malformed payloads and this handle's own writes.
func (s *RedisStore) decode(payload string) (ChangeEvent, bool) {
	var ev ChangeEvent
	if err := json.Unmarshal([]byte(payload), &ev); err != nil {
		s.logger.Warn("malformed change payload", zap.Error(err))
		return ChangeEvent{}, false
	}
	if ev.Origin == s.origin {
		return ChangeEvent{}, false
	}
	return ev, true
}
