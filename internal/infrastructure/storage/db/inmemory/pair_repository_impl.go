package inmemory

import (
	"context"
	"sort"

	"github.com/BelizeChain/gem/internal/core/domain"
	"github.com/BelizeChain/gem/internal/storageutil/uow"
)

// PairRepositoryImpl represents an in memory storage
type PairRepositoryImpl struct {
	db *db
}

// NewPairRepositoryImpl returns a new empty PairRepositoryImpl
func NewPairRepositoryImpl(db *db) *PairRepositoryImpl {
	return &PairRepositoryImpl{db}
}

func (r *PairRepositoryImpl) AddPair(ctx context.Context, pair *domain.Pair) error {
	if err := uow.Writable(ctx, r.db); err != nil {
		return err
	}
	if pair == nil {
		return ErrPairInvalidRequest
	}

	r.db.lock.Lock()
	defer r.db.lock.Unlock()

	if _, ok := r.db.state.pairs[pair.Address]; ok {
		return domain.ErrPairExists
	}
	r.db.state.pairs[pair.Address] = pair.Clone()
	return nil
}

func (r *PairRepositoryImpl) GetPair(
	_ context.Context, address domain.Address,
) (*domain.Pair, error) {
	r.db.lock.RLock()
	defer r.db.lock.RUnlock()

	return r.getPair(address)
}

// GetAllPairs returns all pairs sorted by address.
func (r *PairRepositoryImpl) GetAllPairs(_ context.Context) ([]domain.Pair, error) {
	r.db.lock.RLock()
	defer r.db.lock.RUnlock()

	pairs := make([]domain.Pair, 0, len(r.db.state.pairs))
	for _, p := range r.db.state.pairs {
		pairs = append(pairs, *p.Clone())
	}
	sort.SliceStable(pairs, func(i, j int) bool {
		return pairs[i].Address.Less(pairs[j].Address)
	})
	return pairs, nil
}

// UpdatePair updates the pair with the given address passing an update
// function. The lock is not held while running updateFn, so that it can
// make use of other repositories.
func (r *PairRepositoryImpl) UpdatePair(
	ctx context.Context,
	address domain.Address,
	updateFn func(p *domain.Pair) (*domain.Pair, error),
) error {
	if err := uow.Writable(ctx, r.db); err != nil {
		return err
	}

	r.db.lock.RLock()
	pair, err := r.getPair(address)
	r.db.lock.RUnlock()
	if err != nil {
		return err
	}

	updatedPair, err := updateFn(pair)
	if err != nil {
		return err
	}
	if updatedPair == nil {
		return ErrPairInvalidRequest
	}

	r.db.lock.Lock()
	defer r.db.lock.Unlock()

	r.db.state.pairs[address] = updatedPair.Clone()
	return nil
}

func (r *PairRepositoryImpl) getPair(address domain.Address) (*domain.Pair, error) {
	pair, ok := r.db.state.pairs[address]
	if !ok {
		return nil, domain.ErrPairNotFound
	}
	return pair.Clone(), nil
}
