package report

import (
	"context"
	"errors"
	"time"

	"go-otta/internal/ledger"
	"go-otta/internal/metrics"
	reporterrors "go-otta/internal/report/errors"
	"go-otta/internal/shared/contextutil"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type Service interface {
	Export(ctx context.Context, start, end string) (Export, error)
	Preview(ctx context.Context, start, end string) (PreviewResponse, error)
}

type service struct {
	repo   ledger.Repository
	loc    *time.Location
	sf     singleflight.Group
	logger *zap.Logger
}

func NewService(repo ledger.Repository, loc *time.Location, logger ...*zap.Logger) Service {
	l := zap.L().Named("report.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("report.service")
	}
	return &service{repo: repo, loc: loc, logger: l}
}

// Export coalesces concurrent downloads of the same range into one render.
func (s *service) Export(ctx context.Context, start, end string) (Export, error) {
	log := contextutil.GetLogger(ctx, s.logger)
	key := start + "|" + end

	// the render is shared by every waiter, so one client leaving must not cancel it
	renderCtx := context.WithoutCancel(ctx)

	v, err, shared := s.sf.Do(key, func() (interface{}, error) {
		began := time.Now()
		sheets, err := s.compile(renderCtx, start, end)
		if err != nil {
			return nil, err
		}
		buf, err := WriteWorkbook(sheets)
		if err != nil {
			log.Error("render workbook failed", zap.Error(err))
			return nil, reporterrors.ErrRenderFailed.WithCause(err)
		}
		metrics.ReportDuration.WithLabelValues("xlsx").Observe(time.Since(began).Seconds())
		log.Info("report generated",
			zap.String("start", start),
			zap.String("end", end),
			zap.Int("sheets", len(sheets)),
			zap.Int("bytes", buf.Len()),
		)
		return buf.Bytes(), nil
	})
	if err != nil {
		return Export{}, err
	}
	if shared {
		log.Debug("report render shared", zap.String("key", key))
	}
	return Export{FileName: FileName(start, end), Body: v.([]byte)}, nil
}

func (s *service) Preview(ctx context.Context, start, end string) (PreviewResponse, error) {
	began := time.Now()
	sheets, err := s.compile(ctx, start, end)
	if err != nil {
		return PreviewResponse{}, err
	}
	metrics.ReportDuration.WithLabelValues("json").Observe(time.Since(began).Seconds())
	return PreviewResponse{
		FileName: FileName(start, end),
		Start:    start,
		End:      end,
		Sheets:   sheets,
	}, nil
}

func (s *service) compile(ctx context.Context, start, end string) ([]Sheet, error) {
	logs, err := s.repo.GetLogs(ctx)
	if err != nil {
		contextutil.GetLogger(ctx, s.logger).Error("load logs failed", zap.Error(err))
		return nil, err
	}
	sheets, err := Compile(logs, start, end, s.loc)
	if err != nil && !errors.Is(err, reporterrors.ErrNoReportData) {
		contextutil.GetLogger(ctx, s.logger).Warn("report rejected", zap.Error(err))
	}
	return sheets, err
}
