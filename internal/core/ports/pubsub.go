package ports

import (
	"context"

	"github.com/BelizeChain/gem/internal/core/domain"
)

// EventSink is the append-only log where committed domain events are
// published.
type EventSink interface {
	Publish(ctx context.Context, event domain.Event) error
}
