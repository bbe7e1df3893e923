package eventsink

import (
	"context"
	"sync"

	"github.com/BelizeChain/gem/internal/core/domain"
)

// Recorder keeps every published event in memory.
type Recorder struct {
	lock   *sync.RWMutex
	events []domain.Event
}

func NewRecorder() *Recorder {
	return &Recorder{lock: &sync.RWMutex{}}
}

func (r *Recorder) Publish(_ context.Context, event domain.Event) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	r.events = append(r.events, event)
	return nil
}

// Events returns the recorded events in publication order.
func (r *Recorder) Events() []domain.Event {
	r.lock.RLock()
	defer r.lock.RUnlock()

	return append([]domain.Event(nil), r.events...)
}

// Types returns the types of the recorded events in publication order.
func (r *Recorder) Types() []string {
	events := r.Events()
	types := make([]string, 0, len(events))
	for _, e := range events {
		types = append(types, e.Type())
	}
	return types
}

// Reset drops all recorded events.
func (r *Recorder) Reset() {
	r.lock.Lock()
	defer r.lock.Unlock()

	r.events = nil
}
