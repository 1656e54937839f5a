package notification

import (
	"context"
	"time"

	"go-otta/internal/metrics"
	"go-otta/internal/storage"

	"go.uber.org/zap"
)

// Relay turns storage change events for the logs key into remote events on
// the bus.
type Relay struct {
	store     storage.Store
	bus       *Bus
	logsKey   string
	threshold time.Duration
	now       func() time.Time
	logger    *zap.Logger
}

func NewRelay(store storage.Store, bus *Bus, logsKey string, threshold time.Duration, logger ...*zap.Logger) *Relay {
	l := zap.L().Named("notification.relay")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.relay")
	}
	if threshold <= 0 {
		threshold = DefaultRecency
	}
	return &Relay{
		store:     store,
		bus:       bus,
		logsKey:   logsKey,
		threshold: threshold,
		now:       time.Now,
		logger:    l,
	}
}

// Run blocks until ctx is done or the change feed closes.
func (r *Relay) Run(ctx context.Context) error {
	events, err := r.store.Watch(ctx)
	if err != nil {
		return err
	}
	r.logger.Info("relay started", zap.String("key", r.logsKey), zap.Duration("recency", r.threshold))

	for ev := range events {
		r.handle(ev)
	}

	r.logger.Info("relay stopped")
	return ctx.Err()
}

func (r *Relay) handle(ev storage.ChangeEvent) bool {
	if ev.Key != r.logsKey {
		return false
	}

	log, ok := DetectChangedLog(ev.Old, ev.New, r.now(), r.threshold)
	if !ok {
		metrics.NotificationsTotal.WithLabelValues(string(SourceRemote), "suppressed").Inc()
		r.logger.Debug("change suppressed", zap.String("origin", ev.Origin))
		return false
	}

	metrics.NotificationsTotal.WithLabelValues(string(SourceRemote), "delivered").Inc()
	r.bus.Publish(Event{Log: log, Kind: Classify(log), Source: SourceRemote})
	return true
}
