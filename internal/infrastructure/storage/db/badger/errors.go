package dbbadger

import "errors"

var (
	// ErrPairInvalidRequest ...
	ErrPairInvalidRequest = errors.New("requested pair is null")
	// ErrFactoryInvalidRequest ...
	ErrFactoryInvalidRequest = errors.New("requested factory is null")
	// ErrMalformedAmount is returned when a stored amount can't be decoded.
	ErrMalformedAmount = errors.New("malformed stored amount")
)
