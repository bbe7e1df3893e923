package application

import (
	"fmt"

	"github.com/BelizeChain/gem/internal/core/domain"
	"github.com/holiman/uint256"
)

// CallContext identifies who is invoking an operation and when.
type CallContext struct {
	// Caller is the account invoking the operation.
	Caller domain.Address
	// Now is the current unix time in seconds.
	Now uint64
}

// validate makes sure the call is made by a real account. The null address
// owns the locked minimum liquidity, nobody can act on its behalf.
func (c CallContext) validate() error {
	if c.Caller.IsZero() {
		return fmt.Errorf("caller: %w", domain.ErrZeroAddress)
	}
	return nil
}

// AddLiquidityRequest ...
type AddLiquidityRequest struct {
	TokenA         domain.Address
	TokenB         domain.Address
	AmountADesired *uint256.Int
	AmountBDesired *uint256.Int
	AmountAMin     *uint256.Int
	AmountBMin     *uint256.Int
	Recipient      domain.Address
	Deadline       uint64
}

// AddLiquidityResult ...
type AddLiquidityResult struct {
	Pair    domain.Address
	AmountA *uint256.Int
	AmountB *uint256.Int
	Shares  *uint256.Int
}

// RemoveLiquidityRequest ...
type RemoveLiquidityRequest struct {
	TokenA     domain.Address
	TokenB     domain.Address
	Shares     *uint256.Int
	AmountAMin *uint256.Int
	AmountBMin *uint256.Int
	Recipient  domain.Address
	Deadline   uint64
}

// RemoveLiquidityResult ...
type RemoveLiquidityResult struct {
	Pair    domain.Address
	AmountA *uint256.Int
	AmountB *uint256.Int
}

func zeroIfNil(amount *uint256.Int) *uint256.Int {
	if amount == nil {
		return new(uint256.Int)
	}
	return amount
}
