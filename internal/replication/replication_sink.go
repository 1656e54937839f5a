package replication

import (
	"context"

	"go-otta/internal/events"
)

//go:generate mockgen -source=replication_sink.go -destination=mock/replication_sink_mock.go -package=mock
type Sink interface {
	Send(ctx context.Context, env events.ReplicationEnvelope) error
}
