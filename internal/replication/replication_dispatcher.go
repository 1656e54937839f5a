package replication

import (
	"context"
	"sync"
	"time"

	"go-otta/internal/domain"
	"go-otta/internal/events"
	"go-otta/internal/metrics"

	"go.uber.org/zap"
)

const defaultQueueSize = 256

// Dispatcher sends envelopes to a Sink in the background. Each envelope is
// attempted once; failures are logged and dropped. Enqueue never blocks.
type Dispatcher struct {
	sink    Sink
	queue   chan events.ReplicationEnvelope
	timeout time.Duration
	now     func() time.Time
	logger  *zap.Logger

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

// NewDispatcher with a nil sink returns a dispatcher that discards
// everything, for deployments without replication.
func NewDispatcher(sink Sink, queueSize int, timeout time.Duration, logger ...*zap.Logger) *Dispatcher {
	l := zap.L().Named("replication.dispatcher")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("replication.dispatcher")
	}
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Dispatcher{
		sink:    sink,
		queue:   make(chan events.ReplicationEnvelope, queueSize),
		timeout: timeout,
		now:     time.Now,
		logger:  l,
		done:    make(chan struct{}),
	}
}

func (d *Dispatcher) EnqueueLog(log domain.TimeLog, email string) {
	if d.sink == nil {
		return
	}
	env, err := NewLogEnvelope(log, email, d.now())
	if err != nil {
		d.logger.Error("build log envelope failed", zap.String("log_id", log.ID), zap.Error(err))
		return
	}
	d.enqueue(env)
}

func (d *Dispatcher) EnqueueUser(u domain.User) {
	if d.sink == nil {
		return
	}
	env, err := NewUserEnvelope(u, d.now())
	if err != nil {
		d.logger.Error("build user envelope failed", zap.String("user_id", u.ID), zap.Error(err))
		return
	}
	d.enqueue(env)
}

func (d *Dispatcher) enqueue(env events.ReplicationEnvelope) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		metrics.ReplicationTotal.WithLabelValues(env.Action, "dropped").Inc()
		return
	}

	select {
	case d.queue <- env:
		metrics.ReplicationQueueDepth.Set(float64(len(d.queue)))
	default:
		metrics.ReplicationTotal.WithLabelValues(env.Action, "dropped").Inc()
		d.logger.Warn("replication queue full, envelope dropped",
			zap.String("action", env.Action),
			zap.String("key", env.Key),
		)
	}
}

// Run drains the queue until Close is called and the queue is empty. ctx
// bounds individual sends only.
func (d *Dispatcher) Run(ctx context.Context) {
	defer close(d.done)
	if d.sink == nil {
		return
	}
	d.logger.Info("replication dispatcher started", zap.Int("capacity", cap(d.queue)))

	for env := range d.queue {
		metrics.ReplicationQueueDepth.Set(float64(len(d.queue)))
		d.send(ctx, env)
	}
	d.logger.Info("replication dispatcher stopped")
}

func (d *Dispatcher) send(ctx context.Context, env events.ReplicationEnvelope) {
	sendCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	if err := d.sink.Send(sendCtx, env); err != nil {
		metrics.ReplicationTotal.WithLabelValues(env.Action, "failed").Inc()
		d.logger.Warn("replication failed",
			zap.String("action", env.Action),
			zap.String("key", env.Key),
			zap.Error(err),
		)
		return
	}
	metrics.ReplicationTotal.WithLabelValues(env.Action, "sent").Inc()
	d.logger.Debug("replicated", zap.String("action", env.Action), zap.String("key", env.Key))
}

// Close stops intake and waits for Run to flush what is queued, or for ctx.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	if d.sink == nil {
		return nil
	}
	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
