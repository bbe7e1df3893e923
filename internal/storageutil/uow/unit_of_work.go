package uow

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrAborted is returned when committing a unit of work that a nested
	// handler has already failed.
	ErrAborted = errors.New("transaction aborted by a nested call")
	// ErrReadOnly is returned when writing within a read-only unit of work.
	ErrReadOnly = errors.New("write attempted within a read-only transaction")
)

// Transactional begins a transaction
type Transactional interface {
	Begin(readOnly bool) (Tx, error)
}

// Tx represents an all-or-nothing transaction, by committing or rolling back
// a set of read/write operations
type Tx interface {
	Commit() error
	Rollback() error
}

// ContextProvider returns a context key
type ContextProvider interface {
	ContextKey() interface{}
}

// UnitOfWork is the transaction shared by a handler and all the handlers it
// calls in turn.
type UnitOfWork struct {
	tx       Tx
	readOnly bool
	err      error
}

// Tx returns the underlying transaction.
func (u *UnitOfWork) Tx() Tx {
	return u.tx
}

// ReadOnly returns whether the outermost handler opened a read-only
// transaction.
func (u *UnitOfWork) ReadOnly() bool {
	return u.readOnly
}

// FromContext returns the unit of work opened by the given Transactional, if
// any.
func FromContext(ctx context.Context, t Transactional) (*UnitOfWork, bool) {
	u, ok := ctx.Value(contextKey(t)).(*UnitOfWork)
	return u, ok
}

// Writable returns ErrReadOnly if the context carries a read-only unit of
// work opened by t. Writes made outside of any unit of work are allowed.
func Writable(ctx context.Context, t Transactional) error {
	if u, ok := FromContext(ctx, t); ok && u.ReadOnly() {
		return ErrReadOnly
	}
	return nil
}

// Run executes the given handler within a transaction begun by t. If the
// context already carries a unit of work of t, the handler joins it: its
// changes are committed or rolled back together with the outermost
// handler's, and a failure makes the whole unit of work fail even if the
// caller recovers from it. Otherwise, Run begins a new transaction and makes
// sure it's either committed, or rolled back if any error or panic occur.
func Run(
	ctx context.Context, t Transactional, readOnly bool,
	handler func(ctx context.Context) (interface{}, error),
) (res interface{}, err error) {
	if u, ok := FromContext(ctx, t); ok {
		if u.err != nil {
			return nil, fmt.Errorf("%w: %s", ErrAborted, u.err)
		}
		res, err = handler(ctx)
		if err != nil {
			u.err = err
		}
		return res, err
	}

	tx, err := t.Begin(readOnly)
	if err != nil {
		return nil, err
	}
	u := &UnitOfWork{tx: tx, readOnly: readOnly}

	defer func() {
		if err == nil {
			return
		}
		if _err := tx.Rollback(); _err != nil {
			err = fmt.Errorf("%s, rollback failed: %w", err, _err)
		}
	}()

	defer func() {
		if err != nil {
			return
		}
		if u.err != nil {
			res, err = nil, fmt.Errorf("%w: %s", ErrAborted, u.err)
			return
		}
		if _err := tx.Commit(); _err != nil {
			res, err = nil, _err
		}
	}()

	defer func() {
		// panicking returns an error that causes tx rollback
		if rec := recover(); rec != nil {
			res, err = nil, fmt.Errorf("recovered: %v", rec)
		}
	}()

	return handler(context.WithValue(ctx, contextKey(t), u))
}

func contextKey(t Transactional) interface{} {
	if cp, ok := t.(ContextProvider); ok {
		return cp.ContextKey()
	}
	return t
}
