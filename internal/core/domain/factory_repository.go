package domain

import "context"

// FactoryRepository persists the singleton Factory.
type FactoryRepository interface {
	// AddFactory stores the factory, it fails if one already exists.
	AddFactory(ctx context.Context, factory *Factory) error
	// GetFactory returns the factory or ErrFactoryNotInitialized.
	GetFactory(ctx context.Context) (*Factory, error)
	// UpdateFactory updates the state of the factory in a transactional way.
	UpdateFactory(
		ctx context.Context, updateFn func(f *Factory) (*Factory, error),
	) error
}
