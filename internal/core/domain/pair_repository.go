package domain

import "context"

// PairRepository is the abstraction for any kind of database intended to
// persist Pairs.
type PairRepository interface {
	// AddPair adds a new pair to the repository.
	AddPair(ctx context.Context, pair *Pair) error
	// GetPair returns the pair with the given address.
	GetPair(ctx context.Context, address Address) (*Pair, error)
	// GetAllPairs returns all pairs.
	GetAllPairs(ctx context.Context) ([]Pair, error)
	// UpdatePair updates the state of a pair. The closure function let's to
	// commit multiple changes to a certain pair in a transactional way.
	UpdatePair(
		ctx context.Context,
		address Address, updateFn func(p *Pair) (*Pair, error),
	) error
}
