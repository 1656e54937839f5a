package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"go-otta/internal/domain"
	ledgererrors "go-otta/internal/ledger/errors"
	"go-otta/internal/storage"

	"go.uber.org/zap"
)

//go:generate mockgen -source=ledger_repo.go -destination=mock/ledger_repo_mock.go -package=mock
type Repository interface {
	GetUsers(ctx context.Context) ([]domain.User, error)
	AddUser(ctx context.Context, u domain.User) error
	// RemoveUser does not touch the user's logs. Unknown ids are a no-op.
	RemoveUser(ctx context.Context, id string) error

	GetLogs(ctx context.Context) ([]domain.TimeLog, error)
	// SaveLog replaces the entry with the same id in place, or appends.
	SaveLog(ctx context.Context, log domain.TimeLog) error
	GetActiveLog(ctx context.Context, userID string) (*domain.TimeLog, error)

	GetSession(ctx context.Context) (*domain.User, error)
	SaveSession(ctx context.Context, u domain.User) error
	ClearSession(ctx context.Context) error

	GetTheme(ctx context.Context) (domain.Theme, error)
	SaveTheme(ctx context.Context, t domain.Theme) error

	Keys() Keys
}

type repository struct {
	store  storage.Store
	keys   Keys
	logger *zap.Logger

	// serializes read-modify-write cycles issued by this process; writers in
	// other processes still race and the last full write wins
	mu sync.Mutex
}

func NewRepository(store storage.Store, keys Keys, logger ...*zap.Logger) Repository {
	l := zap.L().Named("ledger.repo")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("ledger.repo")
	}
	return &repository{store: store, keys: keys, logger: l}
}

func (r *repository) Keys() Keys { return r.keys }

func (r *repository) GetUsers(ctx context.Context) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loadUsers(ctx)
}

func (r *repository) loadUsers(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	found, err := r.read(ctx, r.keys.Users, &users)
	if err != nil {
		return nil, err
	}
	if !found {
		users = SeedUsers()
		if err := r.write(ctx, r.keys.Users, users); err != nil {
			return nil, err
		}
		r.logger.Info("seeded built-in users", zap.Int("count", len(users)))
	}
	if users == nil {
		users = []domain.User{}
	}
	return users, nil
}

func (r *repository) AddUser(ctx context.Context, u domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.loadUsers(ctx)
	if err != nil {
		return err
	}
	for _, existing := range users {
		if existing.ID == u.ID {
			return ledgererrors.ErrUserExists
		}
	}
	return r.write(ctx, r.keys.Users, append(users, u))
}

func (r *repository) RemoveUser(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.loadUsers(ctx)
	if err != nil {
		return err
	}
	kept := make([]domain.User, 0, len(users))
	for _, u := range users {
		if u.ID != id {
			kept = append(kept, u)
		}
	}
	if len(kept) == len(users) {
		return nil
	}
	return r.write(ctx, r.keys.Users, kept)
}

func (r *repository) GetLogs(ctx context.Context) ([]domain.TimeLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loadLogs(ctx)
}

func (r *repository) loadLogs(ctx context.Context) ([]domain.TimeLog, error) {
	var logs []domain.TimeLog
	if _, err := r.read(ctx, r.keys.Logs, &logs); err != nil {
		return nil, err
	}
	if logs == nil {
		logs = []domain.TimeLog{}
	}
	return logs, nil
}

func (r *repository) SaveLog(ctx context.Context, log domain.TimeLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	logs, err := r.loadLogs(ctx)
	if err != nil {
		return err
	}

	replaced := false
	for i := range logs {
		if logs[i].ID == log.ID {
			logs[i] = log
			replaced = true
			break
		}
	}
	if !replaced {
		logs = append(logs, log)
	}

	r.logger.Debug("save log",
		zap.String("log_id", log.ID),
		zap.String("user_id", log.UserID),
		zap.String("status", string(log.Status)),
		zap.Bool("replaced", replaced),
	)
	return r.write(ctx, r.keys.Logs, logs)
}

func (r *repository) GetActiveLog(ctx context.Context, userID string) (*domain.TimeLog, error) {
	logs, err := r.GetLogs(ctx)
	if err != nil {
		return nil, err
	}
	return FindActive(logs, userID), nil
}

// FindActive returns the first active entry of userID, or nil.
func FindActive(logs []domain.TimeLog, userID string) *domain.TimeLog {
	for i := range logs {
		if logs[i].UserID == userID && logs[i].IsActive() {
			l := logs[i]
			return &l
		}
	}
	return nil
}

func (r *repository) GetSession(ctx context.Context) (*domain.User, error) {
	var u *domain.User
	if _, err := r.read(ctx, r.keys.Session, &u); err != nil {
		return nil, err
	}
	return u, nil
}

func (r *repository) SaveSession(ctx context.Context, u domain.User) error {
	return r.write(ctx, r.keys.Session, u)
}

// ClearSession writes null; the port has no delete.
func (r *repository) ClearSession(ctx context.Context) error {
	return r.write(ctx, r.keys.Session, nil)
}

func (r *repository) GetTheme(ctx context.Context) (domain.Theme, error) {
	var t domain.Theme
	found, err := r.read(ctx, r.keys.Theme, &t)
	if err != nil {
		// a garbled preference is not worth failing over
		if errors.Is(err, ledgererrors.ErrCorruptPayload) {
			return domain.ThemeDark, nil
		}
		return "", err
	}
	if !found || !t.Valid() {
		return domain.ThemeDark, nil
	}
	return t, nil
}

func (r *repository) SaveTheme(ctx context.Context, t domain.Theme) error {
	if !t.Valid() {
		return ledgererrors.ErrInvalidTheme
	}
	return r.write(ctx, r.keys.Theme, t)
}

// read decodes key into dst and reports whether the key held a value.
func (r *repository) read(ctx context.Context, key string, dst any) (bool, error) {
	raw, err := r.store.Get(ctx, key)
	if errors.Is(err, storage.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		r.logger.Error("storage read failed", zap.String("key", key), zap.Error(err))
		return false, ledgererrors.ErrStorageUnavailable.WithCause(err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		r.logger.Warn("malformed payload", zap.String("key", key), zap.Error(err))
		return false, fmt.Errorf("%w: %s: %v", ledgererrors.ErrCorruptPayload, key, err)
	}
	return true, nil
}

func (r *repository) write(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if err := r.store.Set(ctx, key, raw); err != nil {
		r.logger.Error("storage write failed", zap.String("key", key), zap.Error(err))
		return ledgererrors.ErrStorageUnavailable.WithCause(err)
	}
	return nil
}
