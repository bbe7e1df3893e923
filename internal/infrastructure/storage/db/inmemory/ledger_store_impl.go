package inmemory

import (
	"context"

	"github.com/BelizeChain/gem/internal/core/domain"
	"github.com/BelizeChain/gem/internal/storageutil/uow"
	"github.com/holiman/uint256"
)

// LedgerStore keeps token balances and allowances in memory.
type LedgerStore struct {
	db *db
}

func NewLedgerStore(db *db) *LedgerStore {
	return &LedgerStore{db}
}

func (s *LedgerStore) GetBalance(
	_ context.Context, token, account domain.Address,
) (*uint256.Int, error) {
	s.db.lock.RLock()
	defer s.db.lock.RUnlock()

	if b, ok := s.db.state.balances[balanceKey{token, account}]; ok {
		return b.Clone(), nil
	}
	return new(uint256.Int), nil
}

func (s *LedgerStore) SetBalance(
	ctx context.Context, token, account domain.Address, amount *uint256.Int,
) error {
	if err := uow.Writable(ctx, s.db); err != nil {
		return err
	}

	s.db.lock.Lock()
	defer s.db.lock.Unlock()

	key := balanceKey{token, account}
	if amount.IsZero() {
		delete(s.db.state.balances, key)
		return nil
	}
	s.db.state.balances[key] = amount.Clone()
	return nil
}

func (s *LedgerStore) GetAllowance(
	_ context.Context, token, owner, spender domain.Address,
) (*uint256.Int, error) {
	s.db.lock.RLock()
	defer s.db.lock.RUnlock()

	if a, ok := s.db.state.allowances[allowanceKey{token, owner, spender}]; ok {
		return a.Clone(), nil
	}
	return new(uint256.Int), nil
}

func (s *LedgerStore) SetAllowance(
	ctx context.Context, token, owner, spender domain.Address, amount *uint256.Int,
) error {
	if err := uow.Writable(ctx, s.db); err != nil {
		return err
	}

	s.db.lock.Lock()
	defer s.db.lock.Unlock()

	key := allowanceKey{token, owner, spender}
	if amount.IsZero() {
		delete(s.db.state.allowances, key)
		return nil
	}
	s.db.state.allowances[key] = amount.Clone()
	return nil
}
