package insight

import (
	"context"

	"go-otta/internal/ledger"
	"go-otta/internal/metrics"
	"go-otta/internal/shared/contextutil"

	"go.uber.org/zap"
)

const (
	MessageMissingKey  = "Insight API key is missing. Please check your configuration."
	MessageUnavailable = "Unable to generate insights at this moment. Please try again later."
	MessageNoInsights  = "No insights available."
)

type Service interface {
	Analyze(ctx context.Context) (InsightResponse, error)
}

type service struct {
	repo      ledger.Repository
	generator Generator
	logger    *zap.Logger
}

// NewService accepts a nil generator; Analyze then reports the missing key.
func NewService(repo ledger.Repository, generator Generator, logger ...*zap.Logger) Service {
	l := zap.L().Named("insight.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("insight.service")
	}
	return &service{repo: repo, generator: generator, logger: l}
}

// Analyze only errors when the ledger cannot be read. Upstream failures
// become placeholder text.
func (s *service) Analyze(ctx context.Context) (InsightResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)

	if s.generator == nil {
		log.Warn("insight api key not configured")
		metrics.InsightRequestsTotal.WithLabelValues("unconfigured").Inc()
		return InsightResponse{Text: MessageMissingKey, Generated: false}, nil
	}

	logs, err := s.repo.GetLogs(ctx)
	if err != nil {
		log.Error("load logs failed", zap.Error(err))
		return InsightResponse{}, err
	}

	sample := Sample(logs)
	prompt, err := BuildPrompt(sample)
	if err != nil {
		log.Error("build prompt failed", zap.Error(err))
		return InsightResponse{Text: MessageUnavailable}, nil
	}

	text, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		log.Warn("insight generation failed", zap.Error(err))
		metrics.InsightRequestsTotal.WithLabelValues("failed").Inc()
		return InsightResponse{Text: MessageUnavailable, SampleSize: len(sample)}, nil
	}
	if text == "" {
		text = MessageNoInsights
	}

	metrics.InsightRequestsTotal.WithLabelValues("ok").Inc()
	log.Info("insight generated", zap.Int("sample_size", len(sample)), zap.Int("length", len(text)))
	return InsightResponse{Text: text, Generated: true, SampleSize: len(sample)}, nil
}
