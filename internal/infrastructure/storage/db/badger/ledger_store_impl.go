package dbbadger

import (
	"context"

	"github.com/BelizeChain/gem/internal/core/domain"
	"github.com/holiman/uint256"
	"github.com/timshannon/badgerhold/v4"
)

// LedgerStore persists the balances and allowances of the reference token
// ledger in the same badger store of pairs, so that both are committed in a
// single transaction.
type LedgerStore struct {
	db *RepoManager
}

func NewLedgerStore(db *RepoManager) *LedgerStore {
	return &LedgerStore{db}
}

func (s *LedgerStore) GetBalance(
	ctx context.Context, token, account domain.Address,
) (*uint256.Int, error) {
	var dto Balance
	if err := s.db.get(ctx, balanceKey(token, account), &dto); err != nil {
		if err == badgerhold.ErrNotFound {
			return new(uint256.Int), nil
		}
		return nil, err
	}
	return parseAmount(dto.Amount)
}

func (s *LedgerStore) SetBalance(
	ctx context.Context, token, account domain.Address, amount *uint256.Int,
) error {
	key := balanceKey(token, account)
	if amount.IsZero() {
		return s.db.delete(ctx, key, Balance{})
	}
	return s.db.upsert(ctx, key, Balance{
		Token:   token.String(),
		Account: account.String(),
		Amount:  amount.Dec(),
	})
}

func (s *LedgerStore) GetAllowance(
	ctx context.Context, token, owner, spender domain.Address,
) (*uint256.Int, error) {
	var dto Allowance
	if err := s.db.get(ctx, allowanceKey(token, owner, spender), &dto); err != nil {
		if err == badgerhold.ErrNotFound {
			return new(uint256.Int), nil
		}
		return nil, err
	}
	return parseAmount(dto.Amount)
}

func (s *LedgerStore) SetAllowance(
	ctx context.Context, token, owner, spender domain.Address, amount *uint256.Int,
) error {
	key := allowanceKey(token, owner, spender)
	if amount.IsZero() {
		return s.db.delete(ctx, key, Allowance{})
	}
	return s.db.upsert(ctx, key, Allowance{
		Token:   token.String(),
		Owner:   owner.String(),
		Spender: spender.String(),
		Amount:  amount.Dec(),
	})
}

func balanceKey(token, account domain.Address) string {
	return token.String() + "/" + account.String()
}

func allowanceKey(token, owner, spender domain.Address) string {
	return token.String() + "/" + owner.String() + "/" + spender.String()
}
