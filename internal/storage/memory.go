package storage

import (
	"context"
	"sync"
)

const watchBuffer = 64

// SharedMemory is one in-process backing shared by several handles, the way
// tabs of a browser share one local storage area.
type SharedMemory struct {
	mu       sync.RWMutex
	data     map[string][]byte
	watchers map[*memoryWatcher]struct{}
}

func NewSharedMemory() *SharedMemory {
	return &SharedMemory{
		data:     make(map[string][]byte),
		watchers: make(map[*memoryWatcher]struct{}),
	}
}

// Handle opens a new handle with its own origin.
func (m *SharedMemory) Handle() *MemoryStore {
	return &MemoryStore{shared: m, origin: newOrigin()}
}

type MemoryStore struct {
	shared *SharedMemory
	origin string
}

func NewMemoryStore() *MemoryStore {
	return NewSharedMemory().Handle()
}

func (s *MemoryStore) Origin() string { return s.origin }

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	s.shared.mu.RLock()
	defer s.shared.mu.RUnlock()

	v, ok := s.shared.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneBytes(v), nil
}

func (s *MemoryStore) Set(_ context.Context, key string, value []byte) error {
	s.shared.mu.Lock()
	old := s.shared.data[key]
	s.shared.data[key] = cloneBytes(value)
	targets := make([]*memoryWatcher, 0, len(s.shared.watchers))
	for w := range s.shared.watchers {
		if w.origin != s.origin {
			targets = append(targets, w)
		}
	}
	s.shared.mu.Unlock()

	for _, w := range targets {
		w.send(ChangeEvent{
			Key:    key,
			Old:    cloneBytes(old),
			New:    cloneBytes(value),
			Origin: s.origin,
		})
	}
	return nil
}

func (s *MemoryStore) Watch(ctx context.Context) (<-chan ChangeEvent, error) {
	w := &memoryWatcher{
		origin: s.origin,
		ch:     make(chan ChangeEvent, watchBuffer),
		done:   make(chan struct{}),
	}

	s.shared.mu.Lock()
	s.shared.watchers[w] = struct{}{}
	s.shared.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.shared.mu.Lock()
		delete(s.shared.watchers, w)
		s.shared.mu.Unlock()
		w.close()
	}()

	return w.ch, nil
}

type memoryWatcher struct {
	origin string
	ch     chan ChangeEvent
	done   chan struct{}

	mu     sync.Mutex
	closed bool
}

// send blocks while the buffer is full; closing the watcher releases it.
func (w *memoryWatcher) send(ev ChangeEvent) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	select {
	case w.ch <- ev:
	case <-w.done:
	}
}

func (w *memoryWatcher) close() {
	close(w.done)
	w.mu.Lock()
	w.closed = true
	close(w.ch)
	w.mu.Unlock()
}
