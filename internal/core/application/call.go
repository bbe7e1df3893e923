package application

import (
	"context"
	"sync"

	"github.com/BelizeChain/gem/internal/core/domain"
	"github.com/BelizeChain/gem/internal/core/ports"
	log "github.com/sirupsen/logrus"
)

type eventsKey struct{}

type eventBuffer struct {
	events []domain.Event
}

// runner runs every operation in a transaction of the repo manager. The
// outermost operation of a call collects the events emitted by all the
// nested ones and publishes them only once the transaction is committed.
type runner struct {
	repoManager ports.RepoManager
	sink        ports.EventSink
}

func (r runner) run(
	ctx context.Context, readOnly bool,
	handler func(ctx context.Context) (interface{}, error),
) (interface{}, error) {
	if _, ok := ctx.Value(eventsKey{}).(*eventBuffer); ok {
		return r.repoManager.RunTransaction(ctx, readOnly, handler)
	}

	buf := &eventBuffer{}
	res, err := r.repoManager.RunTransaction(
		context.WithValue(ctx, eventsKey{}, buf), readOnly, handler,
	)
	if err != nil {
		return nil, err
	}

	if r.sink != nil {
		for _, e := range buf.events {
			if err := r.sink.Publish(ctx, e); err != nil {
				log.WithError(err).Warnf("failed to publish %s event", e.Type())
			}
		}
	}
	return res, nil
}

func emit(ctx context.Context, events ...domain.Event) {
	if buf, ok := ctx.Value(eventsKey{}).(*eventBuffer); ok {
		buf.events = append(buf.events, events...)
	}
}

// lockTable holds the reentrancy locks of pairs. A pair is locked for the
// whole duration of any operation mutating it.
type lockTable struct {
	lock   *sync.Mutex
	locked map[domain.Address]struct{}
}

func newLockTable() *lockTable {
	return &lockTable{
		lock:   &sync.Mutex{},
		locked: make(map[domain.Address]struct{}),
	}
}

// acquire locks the given pair and returns the function to release it, or
// ErrReentrant if the pair is already locked.
func (t *lockTable) acquire(pair domain.Address) (func(), error) {
	t.lock.Lock()
	defer t.lock.Unlock()

	if _, ok := t.locked[pair]; ok {
		return nil, domain.ErrReentrant
	}
	t.locked[pair] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			t.lock.Lock()
			defer t.lock.Unlock()
			delete(t.locked, pair)
		})
	}, nil
}

func (t *lockTable) isLocked(pair domain.Address) bool {
	t.lock.Lock()
	defer t.lock.Unlock()

	_, ok := t.locked[pair]
	return ok
}
