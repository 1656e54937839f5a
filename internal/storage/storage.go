// Package storage is the key-value port the ledger persists through. Values
// are opaque serialized blobs; every adapter also exposes a change feed that
// reports writes made by other handles as full before/after snapshots.
package storage

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrNotFound    = errors.New("storage: key not found")
	ErrWatchClosed = errors.New("storage: watch unavailable")
)

// ChangeEvent mirrors a native "value changed" signal. Old is nil when the
// key did not exist (or its prior value is unknown to the watcher).
type ChangeEvent struct {
	Key    string `json:"key"`
	Old    []byte `json:"old,omitempty"`
	New    []byte `json:"new,omitempty"`
	Origin string `json:"origin"`
}

//go:generate mockgen -source=storage.go -destination=mock/storage_mock.go -package=mock
type Store interface {
	// Get returns ErrNotFound when the key has never been written.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	// Watch streams changes written through other handles until ctx is done.
	Watch(ctx context.Context) (<-chan ChangeEvent, error)
	// Origin identifies this handle on the change feed.
	Origin() string
}

func newOrigin() string {
	return uuid.NewString()
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
