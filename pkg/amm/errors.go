package amm

import "errors"

var (
	// ErrOverflow is returned when an intermediate result does not fit into
	// 256 bits or a subtraction would go below zero.
	ErrOverflow = errors.New("arithmetic overflow")
	// ErrInsufficientLiquidity ...
	ErrInsufficientLiquidity = errors.New("insufficient liquidity")
	// ErrInsufficientInputAmount ...
	ErrInsufficientInputAmount = errors.New("insufficient input amount")
	// ErrInsufficientOutputAmount ...
	ErrInsufficientOutputAmount = errors.New("insufficient output amount")
	// ErrZeroAmount is returned by Quote if the given amount is zero.
	ErrZeroAmount = errors.New("amount must be greater than zero")
	// ErrZeroElapsed is returned when averaging a price over an empty window.
	ErrZeroElapsed = errors.New("observation window must be greater than zero")
)
