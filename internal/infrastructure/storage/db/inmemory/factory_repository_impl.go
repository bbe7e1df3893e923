package inmemory

import (
	"context"

	"github.com/BelizeChain/gem/internal/core/domain"
	"github.com/BelizeChain/gem/internal/storageutil/uow"
)

// FactoryRepositoryImpl represents an in memory storage
type FactoryRepositoryImpl struct {
	db *db
}

// NewFactoryRepositoryImpl returns a new empty FactoryRepositoryImpl
func NewFactoryRepositoryImpl(db *db) *FactoryRepositoryImpl {
	return &FactoryRepositoryImpl{db}
}

func (r *FactoryRepositoryImpl) AddFactory(
	ctx context.Context, factory *domain.Factory,
) error {
	if err := uow.Writable(ctx, r.db); err != nil {
		return err
	}
	if factory == nil {
		return ErrFactoryInvalidRequest
	}

	r.db.lock.Lock()
	defer r.db.lock.Unlock()

	if r.db.state.factory != nil {
		return domain.ErrFactoryAlreadyInitialized
	}
	r.db.state.factory = factory.Clone()
	return nil
}

func (r *FactoryRepositoryImpl) GetFactory(_ context.Context) (*domain.Factory, error) {
	r.db.lock.RLock()
	defer r.db.lock.RUnlock()

	return r.getFactory()
}

func (r *FactoryRepositoryImpl) UpdateFactory(
	ctx context.Context,
	updateFn func(f *domain.Factory) (*domain.Factory, error),
) error {
	if err := uow.Writable(ctx, r.db); err != nil {
		return err
	}

	r.db.lock.RLock()
	factory, err := r.getFactory()
	r.db.lock.RUnlock()
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

	r.db.lock.Lock()
	defer r.db.lock.Unlock()

	r.db.state.factory = updatedFactory.Clone()
	return nil
}

func (r *FactoryRepositoryImpl) getFactory() (*domain.Factory, error) {
	if r.db.state.factory == nil {
		return nil, domain.ErrFactoryNotInitialized
	}
	return r.db.state.factory.Clone(), nil
}
