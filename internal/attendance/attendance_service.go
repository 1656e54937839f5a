package attendance

import (
	"context"
	"errors"
	"sync"

	attendanceerrors "go-otta/internal/attendance/errors"
	"go-otta/internal/domain"
	"go-otta/internal/ledger"
	"go-otta/internal/metrics"
	"go-otta/internal/shared/contextutil"

	"go.uber.org/zap"
)

// ChangeNotifier is told about every saved entry, synchronously.
type ChangeNotifier interface {
	NotifySaved(log domain.TimeLog)
}

// Replicator queues an entry for outbound sync. It must not block.
type Replicator interface {
	EnqueueLog(log domain.TimeLog, email string)
}

type Service interface {
	CheckIn(ctx context.Context, userID string) (TimeLogResponse, error)
	CheckOut(ctx context.Context, userID string) (TimeLogResponse, error)
	ManualEntry(ctx context.Context, userID string, req ManualEntryRequest) (TimeLogResponse, error)
	GetActive(ctx context.Context, userID string) (*TimeLogResponse, error)
	ListByUser(ctx context.Context, userID string) ([]TimeLogResponse, error)
	Today(ctx context.Context, userID string) (TodayResponse, error)
}

type service struct {
	repo       ledger.Repository
	engine     *Engine
	notifier   ChangeNotifier
	replicator Replicator
	logger     *zap.Logger

	// check-in reads the ledger and writes back; one mutation at a time
	mu sync.Mutex
}

func NewService(repo ledger.Repository, engine *Engine, notifier ChangeNotifier, replicator Replicator, logger ...*zap.Logger) Service {
	l := zap.L().Named("attendance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendance.service")
	}
	return &service{
		repo:       repo,
		engine:     engine,
		notifier:   notifier,
		replicator: replicator,
		logger:     l,
	}
}

func (s *service) CheckIn(ctx context.Context, userID string) (TimeLogResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)
	log.Debug("check in requested", zap.String("user_id", userID))

	s.mu.Lock()
	defer s.mu.Unlock()

	user, err := s.findUser(ctx, userID)
	if err != nil {
		return TimeLogResponse{}, err
	}
	logs, err := s.repo.GetLogs(ctx)
	if err != nil {
		log.Error("check in load logs failed", zap.Error(err))
		return TimeLogResponse{}, err
	}

	entry, err := s.engine.CheckIn(logs, user)
	if err != nil {
		log.Warn("check in rejected", zap.String("user_id", userID), zap.Error(err))
		metrics.RejectedTotal.WithLabelValues("already_checked_in").Inc()
		return TimeLogResponse{}, err
	}

	if err := s.commit(ctx, entry, user.Email); err != nil {
		log.Error("check in persist failed", zap.Error(err))
		return TimeLogResponse{}, err
	}
	metrics.EntriesTotal.WithLabelValues("check_in", string(entry.Type)).Inc()
	log.Info("check in success",
		zap.String("log_id", entry.ID),
		zap.String("user_id", userID),
		zap.String("date", entry.Date),
	)
	return mapToResponse(entry), nil
}

func (s *service) CheckOut(ctx context.Context, userID string) (TimeLogResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)
	log.Debug("check out requested", zap.String("user_id", userID))

	s.mu.Lock()
	defer s.mu.Unlock()

	active, err := s.repo.GetActiveLog(ctx, userID)
	if err != nil {
		log.Error("check out load active failed", zap.Error(err))
		return TimeLogResponse{}, err
	}

	entry, err := s.engine.CheckOut(active)
	if err != nil {
		log.Warn("check out rejected", zap.String("user_id", userID), zap.Error(err))
		metrics.RejectedTotal.WithLabelValues("no_active_entry").Inc()
		return TimeLogResponse{}, err
	}

	// the user may have been removed while checked in; the entry must still close
	email := ""
	user, err := s.findUser(ctx, userID)
	switch {
	case err == nil:
		email = user.Email
	case errors.Is(err, attendanceerrors.ErrUserNotFound):
		log.Warn("closing entry of removed user", zap.String("user_id", userID))
	default:
		return TimeLogResponse{}, err
	}

	if err := s.commit(ctx, entry, email); err != nil {
		log.Error("check out persist failed", zap.Error(err))
		return TimeLogResponse{}, err
	}
	metrics.EntriesTotal.WithLabelValues("check_out", string(entry.Type)).Inc()
	log.Info("check out success",
		zap.String("log_id", entry.ID),
		zap.String("user_id", userID),
		zap.Int("duration_minutes", entry.Minutes()),
	)
	return mapToResponse(entry), nil
}

func (s *service) ManualEntry(ctx context.Context, userID string, req ManualEntryRequest) (TimeLogResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)
	log.Debug("manual entry requested",
		zap.String("user_id", userID),
		zap.String("date", req.Date),
		zap.String("type", req.Type),
	)

	s.mu.Lock()
	defer s.mu.Unlock()

	user, err := s.findUser(ctx, userID)
	if err != nil {
		return TimeLogResponse{}, err
	}

	entry, err := s.engine.ManualEntry(user, ManualEntry{
		Date:      req.Date,
		Type:      domain.LogType(req.Type),
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Notes:     req.Notes,
	})
	if err != nil {
		log.Warn("manual entry validation failed", zap.Error(err))
		metrics.RejectedTotal.WithLabelValues("validation").Inc()
		return TimeLogResponse{}, err
	}

	if err := s.commit(ctx, entry, user.Email); err != nil {
		log.Error("manual entry persist failed", zap.Error(err))
		return TimeLogResponse{}, err
	}
	metrics.EntriesTotal.WithLabelValues("manual", string(entry.Type)).Inc()
	log.Info("manual entry success",
		zap.String("log_id", entry.ID),
		zap.String("user_id", userID),
		zap.String("type", string(entry.Type)),
	)
	return mapToResponse(entry), nil
}

func (s *service) GetActive(ctx context.Context, userID string) (*TimeLogResponse, error) {
	active, err := s.repo.GetActiveLog(ctx, userID)
	if err != nil {
		return nil, err
	}
	if active == nil {
		return nil, nil
	}
	resp := mapToResponse(*active)
	return &resp, nil
}

func (s *service) ListByUser(ctx context.Context, userID string) ([]TimeLogResponse, error) {
	logs, err := s.repo.GetLogs(ctx)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(UserLogs(logs, userID)), nil
}

func (s *service) Today(ctx context.Context, userID string) (TodayResponse, error) {
	logs, err := s.repo.GetLogs(ctx)
	if err != nil {
		return TodayResponse{}, err
	}
	return mapToTodayResponse(s.engine.Summarize(logs, userID)), nil
}

// commit persists first; notification and replication run only after the
// write succeeded and cannot undo it.
func (s *service) commit(ctx context.Context, entry domain.TimeLog, email string) error {
	if err := s.repo.SaveLog(ctx, entry); err != nil {
		return err
	}
	if s.notifier != nil {
		s.notifier.NotifySaved(entry)
	}
	if s.replicator != nil {
		s.replicator.EnqueueLog(entry, email)
	}
	return nil
}

func (s *service) findUser(ctx context.Context, userID string) (domain.User, error) {
	users, err := s.repo.GetUsers(ctx)
	if err != nil {
		contextutil.GetLogger(ctx, s.logger).Error("load users failed", zap.Error(err))
		return domain.User{}, err
	}
	for _, u := range users {
		if u.ID == userID {
			return u, nil
		}
	}
	return domain.User{}, attendanceerrors.ErrUserNotFound
}
