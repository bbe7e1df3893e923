package dbbadger

import (
	"context"

	"github.com/BelizeChain/gem/internal/core/domain"
	"github.com/timshannon/badgerhold/v4"
)

const factoryKey = "factory"

type factoryRepositoryImpl struct {
	db *RepoManager
}

// NewFactoryRepositoryImpl initialize a badger implementation of the
// domain.FactoryRepository
func NewFactoryRepositoryImpl(db *RepoManager) domain.FactoryRepository {
	return factoryRepositoryImpl{db}
}

func (r factoryRepositoryImpl) AddFactory(
	ctx context.Context, factory *domain.Factory,
) error {
	if factory == nil {
		return ErrFactoryInvalidRequest
	}

	dto := MapDomainFactoryToInfraFactory(*factory)
	if err := r.db.insert(ctx, factoryKey, *dto); err != nil {
		if err == badgerhold.ErrKeyExists {
			return domain.ErrFactoryAlreadyInitialized
		}
		return err
	}
	return nil
}

func (r factoryRepositoryImpl) GetFactory(ctx context.Context) (*domain.Factory, error) {
	return r.getFactory(ctx)
}

func (r factoryRepositoryImpl) UpdateFactory(
	ctx context.Context,
	updateFn func(f *domain.Factory) (*domain.Factory, error),
) error {
	factory, err := r.getFactory(ctx)
	if err != nil {
		return err
	}

	updatedFactory, err := updateFn(factory)
	if err != nil {
		return err
	}
	if updatedFactory == nil {
		return ErrFactoryInvalidRequest
	}

	dto := MapDomainFactoryToInfraFactory(*updatedFactory)
	return r.db.upsert(ctx, factoryKey, *dto)
}

func (r factoryRepositoryImpl) getFactory(ctx context.Context) (*domain.Factory, error) {
	var dto Factory
	if err := r.db.get(ctx, factoryKey, &dto); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, domain.ErrFactoryNotInitialized
		}
		return nil, err
	}
	return MapInfraFactoryToDomainFactory(dto)
}
