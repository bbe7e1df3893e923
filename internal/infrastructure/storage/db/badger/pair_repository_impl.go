package dbbadger

import (
	"context"
	"sort"

	"github.com/BelizeChain/gem/internal/core/domain"
	"github.com/timshannon/badgerhold/v4"
)

type pairRepositoryImpl struct {
	db *RepoManager
}

// NewPairRepositoryImpl initialize a badger implementation of the
// domain.PairRepository
func NewPairRepositoryImpl(db *RepoManager) domain.PairRepository {
	return pairRepositoryImpl{db}
}

func (r pairRepositoryImpl) AddPair(ctx context.Context, pair *domain.Pair) error {
	if pair == nil {
		return ErrPairInvalidRequest
	}

	dto := MapDomainPairToInfraPair(*pair)
	if err := r.db.insert(ctx, dto.Address, *dto); err != nil {
		if err == badgerhold.ErrKeyExists {
			return domain.ErrPairExists
		}
		return err
	}
	return nil
}

func (r pairRepositoryImpl) GetPair(
	ctx context.Context, address domain.Address,
) (*domain.Pair, error) {
	return r.getPair(ctx, address)
}

func (r pairRepositoryImpl) GetAllPairs(ctx context.Context) ([]domain.Pair, error) {
	var dtos []Pair
	if err := r.db.find(ctx, &dtos, nil); err != nil {
		return nil, err
	}

	pairs := make([]domain.Pair, 0, len(dtos))
	for _, dto := range dtos {
		p, err := MapInfraPairToDomainPair(dto)
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, *p)
	}
	sort.SliceStable(pairs, func(i, j int) bool {
		return pairs[i].Address.Less(pairs[j].Address)
	})
	return pairs, nil
}

func (r pairRepositoryImpl) UpdatePair(
	ctx context.Context,
	address domain.Address,
	updateFn func(p *domain.Pair) (*domain.Pair, error),
) error {
	pair, err := r.getPair(ctx, address)
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

	dto := MapDomainPairToInfraPair(*updatedPair)
	return r.db.upsert(ctx, address.String(), *dto)
}

func (r pairRepositoryImpl) getPair(
	ctx context.Context, address domain.Address,
) (*domain.Pair, error) {
	var dto Pair
	if err := r.db.get(ctx, address.String(), &dto); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, domain.ErrPairNotFound
		}
		return nil, err
	}
	return MapInfraPairToDomainPair(dto)
}
