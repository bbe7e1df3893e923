package ports

import (
	"context"

	"github.com/BelizeChain/gem/internal/core/domain"
	"github.com/holiman/uint256"
)

// TokenLedger is the external fungible-token contract of a single token.
type TokenLedger interface {
	// BalanceOf returns the balance of the given account.
	BalanceOf(ctx context.Context, account domain.Address) (*uint256.Int, error)
	// Transfer moves the given amount of the account's own funds.
	Transfer(ctx context.Context, from, to domain.Address, amount *uint256.Int) error
	// TransferFrom moves the funds of an account on behalf of spender, that
	// must have been previously approved.
	TransferFrom(
		ctx context.Context, spender, from, to domain.Address, amount *uint256.Int,
	) error
}

// LedgerProvider returns the ledger of any token.
type LedgerProvider interface {
	Ledger(token domain.Address) TokenLedger
}
