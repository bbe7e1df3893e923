package domain

import (
	"errors"

	"github.com/BelizeChain/gem/pkg/amm"
)

// validation errors
var (
	// ErrIdenticalTokens is returned when both tokens of a pair are the same.
	ErrIdenticalTokens = errors.New("tokens must be different")
	// ErrZeroToken is returned when any token of a pair is the null address.
	ErrZeroToken = errors.New("token must not be the null address")
	// ErrZeroAddress ...
	ErrZeroAddress = errors.New("address must not be null")
	// ErrTokensNotSorted is returned when creating a pair with tokens not in
	// canonical order.
	ErrTokensNotSorted = errors.New("tokens must be sorted")
	// ErrTokenNotInPair ...
	ErrTokenNotInPair = errors.New("token does not belong to pair")
	// ErrMalformedAddress ...
	ErrMalformedAddress = errors.New("malformed address")
	// ErrInvalidRecipient is returned when the recipient of a pair operation
	// is the null address or one of the pair's tokens.
	ErrInvalidRecipient = errors.New("invalid recipient")
	// ErrInvalidPath is returned for a swap path made of less than 2 tokens.
	ErrInvalidPath = errors.New("path must contain at least 2 tokens")
	// ErrZeroAmount ...
	ErrZeroAmount = amm.ErrZeroAmount
)

// registry errors
var (
	// ErrPairExists ...
	ErrPairExists = errors.New("pair already exists")
	// ErrPairNotFound ...
	ErrPairNotFound = errors.New("pair not found")
	// ErrFactoryAlreadyInitialized ...
	ErrFactoryAlreadyInitialized = errors.New("factory is already initialized")
	// ErrFactoryNotInitialized ...
	ErrFactoryNotInitialized = errors.New("factory must be initialized")
	// ErrNotAuthorized is returned when the caller of an administrative
	// operation is not the fee administrator.
	ErrNotAuthorized = errors.New("caller is not authorized")
)

// economic and invariant errors
var (
	// ErrReentrant is returned when a pair is called while it's already
	// serving another call.
	ErrReentrant = errors.New("pair is locked by an ongoing call")
	// ErrInsufficientLiquidityMinted ...
	ErrInsufficientLiquidityMinted = errors.New("insufficient liquidity minted")
	// ErrInsufficientLiquidityBurned ...
	ErrInsufficientLiquidityBurned = errors.New("insufficient liquidity burned")
	// ErrInsufficientLiquidity ...
	ErrInsufficientLiquidity = amm.ErrInsufficientLiquidity
	// ErrInsufficientInputAmount ...
	ErrInsufficientInputAmount = amm.ErrInsufficientInputAmount
	// ErrInsufficientOutputAmount ...
	ErrInsufficientOutputAmount = amm.ErrInsufficientOutputAmount
	// ErrInvariantViolated is returned if a swap would decrease the
	// fee-adjusted constant product of a pair.
	ErrInvariantViolated = errors.New("constant product invariant violated")
	// ErrOverflow ...
	ErrOverflow = amm.ErrOverflow
	// ErrExpired is returned when a call is served after its deadline.
	ErrExpired = errors.New("deadline expired")
	// ErrSlippageExceeded is returned if a swap would return less than the
	// minimum amount requested.
	ErrSlippageExceeded = errors.New("output amount below minimum")
	// ErrExcessiveInput is returned if a swap would require more than the
	// maximum input amount allowed.
	ErrExcessiveInput = errors.New("input amount above maximum")
	// ErrInsufficientAAmount ...
	ErrInsufficientAAmount = errors.New("insufficient amount of token A")
	// ErrInsufficientBAmount ...
	ErrInsufficientBAmount = errors.New("insufficient amount of token B")
)

// liquidity share errors
var (
	// ErrInsufficientBalance ...
	ErrInsufficientBalance = errors.New("insufficient share balance")
	// ErrInsufficientAllowance ...
	ErrInsufficientAllowance = errors.New("insufficient share allowance")
)

// integration errors
var (
	// ErrTransferFailed wraps any failure of a token ledger transfer.
	ErrTransferFailed = errors.New("token transfer failed")
	// ErrCallFailed wraps any failure of a token ledger query.
	ErrCallFailed = errors.New("token ledger call failed")
)
