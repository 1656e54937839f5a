package notification

import (
	"sync"

	"go-otta/internal/domain"
	"go-otta/internal/metrics"

	"go.uber.org/zap"
)

// Subscriber receives bus events.
type Subscriber func(Event)

// Bus delivers every published event to every subscriber exactly once, in
// subscription order, on the publisher's goroutine.
type Bus struct {
	mu     sync.RWMutex
	subs   []subscription
	nextID uint64
	logger *zap.Logger
}

type subscription struct {
	id uint64
	fn Subscriber
}

func NewBus(logger ...*zap.Logger) *Bus {
	l := zap.L().Named("notification.bus")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.bus")
	}
	return &Bus{logger: l}
}

// Subscribe registers fn and returns a func that removes it. Calling the
// returned func more than once is harmless.
func (b *Bus) Subscribe(fn Subscriber) (unsubscribe func()) {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.subs = append(b.subs, subscription{id: id, fn: fn})
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			for i, s := range b.subs {
				if s.id == id {
					b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
					return
				}
			}
		})
	}
}

func (b *Bus) Publish(ev Event) {
	b.mu.RLock()
	subs := make([]subscription, len(b.subs))
	copy(subs, b.subs)
	b.mu.RUnlock()

	for _, s := range subs {
		b.deliver(s, ev)
	}
}

// NotifySaved publishes a locally saved entry.
func (b *Bus) NotifySaved(l domain.TimeLog) {
	metrics.NotificationsTotal.WithLabelValues(string(SourceLocal), "delivered").Inc()
	b.Publish(Event{Log: l, Kind: Classify(l), Source: SourceLocal})
}

func (b *Bus) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

func (b *Bus) deliver(s subscription, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("subscriber panicked",
				zap.Uint64("subscription", s.id),
				zap.String("log_id", ev.Log.ID),
				zap.Any("panic", r),
			)
		}
	}()
	s.fn(ev)
}
