package eventsink

import (
	"context"

	"github.com/BelizeChain/gem/internal/core/domain"
	"github.com/BelizeChain/gem/internal/core/ports"
	"golang.org/x/sync/errgroup"
)

// FanOut delivers every event to all its sinks concurrently.
type FanOut struct {
	sinks []ports.EventSink
}

func NewFanOut(sinks ...ports.EventSink) *FanOut {
	return &FanOut{sinks}
}

// Publish returns the first error returned by any sink, after all of them
// have been served.
func (f *FanOut) Publish(ctx context.Context, event domain.Event) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, s := range f.sinks {
		s := s
		g.Go(func() error {
			return s.Publish(gctx, event)
		})
	}
	return g.Wait()
}
