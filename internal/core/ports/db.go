package ports

import (
	"context"

	"github.com/BelizeChain/gem/internal/core/domain"
)

// RepoManager interface defines the methods for pairs and factory
// repositories and for running atomic operations over them.
type RepoManager interface {
	PairRepository() domain.PairRepository
	FactoryRepository() domain.FactoryRepository

	// RunTransaction runs the given handler in a transaction. A handler
	// calling RunTransaction with the received context joins the outer
	// transaction instead of opening a new one.
	RunTransaction(
		ctx context.Context,
		readOnly bool,
		handler func(ctx context.Context) (interface{}, error),
	) (interface{}, error)

	Close()
}
