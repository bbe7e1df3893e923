package inmemory

import "errors"

var (
	// ErrPairInvalidRequest ...
	ErrPairInvalidRequest = errors.New("requested pair is null")
	// ErrFactoryInvalidRequest ...
	ErrFactoryInvalidRequest = errors.New("requested factory is null")
)
