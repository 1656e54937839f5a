package analytics

import (
	"context"
	"time"

	"go-otta/internal/ledger"
	"go-otta/internal/shared/contextutil"

	"go.uber.org/zap"
)

type Service interface {
	Summary(ctx context.Context) (SummaryResponse, error)
	Activity(ctx context.Context, limit int) ([]ActivityResponse, error)
}

type service struct {
	repo   ledger.Repository
	loc    *time.Location
	logger *zap.Logger
}

func NewService(repo ledger.Repository, loc *time.Location, logger ...*zap.Logger) Service {
	l := zap.L().Named("analytics.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("analytics.service")
	}
	return &service{repo: repo, loc: loc, logger: l}
}

func (s *service) Summary(ctx context.Context) (SummaryResponse, error) {
	logs, err := s.repo.GetLogs(ctx)
	if err != nil {
		contextutil.GetLogger(ctx, s.logger).Error("load logs failed", zap.Error(err))
		return SummaryResponse{}, err
	}
	return mapToSummaryResponse(Summarize(logs, s.loc)), nil
}

func (s *service) Activity(ctx context.Context, limit int) ([]ActivityResponse, error) {
	logs, err := s.repo.GetLogs(ctx)
	if err != nil {
		contextutil.GetLogger(ctx, s.logger).Error("load logs failed", zap.Error(err))
		return nil, err
	}

	recent := Activity(logs, limit)
	res := make([]ActivityResponse, len(recent))
	for i, l := range recent {
		res[i] = mapToActivityResponse(l)
	}
	return res, nil
}
