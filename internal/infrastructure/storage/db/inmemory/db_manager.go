package inmemory

import (
	"context"
	"sync"

	"github.com/BelizeChain/gem/internal/core/domain"
	"github.com/BelizeChain/gem/internal/core/ports"
	"github.com/BelizeChain/gem/internal/storageutil/uow"
	"github.com/holiman/uint256"
)

type balanceKey struct {
	token   domain.Address
	account domain.Address
}

type allowanceKey struct {
	token   domain.Address
	owner   domain.Address
	spender domain.Address
}

// state is the whole content of the in-memory database.
type state struct {
	pairs      map[domain.Address]*domain.Pair
	factory    *domain.Factory
	balances   map[balanceKey]*uint256.Int
	allowances map[allowanceKey]*uint256.Int
}

func newState() *state {
	return &state{
		pairs:      make(map[domain.Address]*domain.Pair),
		balances:   make(map[balanceKey]*uint256.Int),
		allowances: make(map[allowanceKey]*uint256.Int),
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.pairs {
		c.pairs[k] = v.Clone()
	}
	if s.factory != nil {
		c.factory = s.factory.Clone()
	}
	for k, v := range s.balances {
		c.balances[k] = v.Clone()
	}
	for k, v := range s.allowances {
		c.allowances[k] = v.Clone()
	}
	return c
}

// db is shared by all repositories. Transactions are serialized and a
// rollback restores the snapshot taken when the transaction began.
type db struct {
	lock   *sync.RWMutex
	txLock *sync.Mutex
	state  *state
}

func (d *db) Begin(readOnly bool) (uow.Tx, error) {
	d.txLock.Lock()

	t := &tx{db: d}
	if !readOnly {
		d.lock.RLock()
		t.snapshot = d.state.clone()
		d.lock.RUnlock()
	}
	return t, nil
}

type tx struct {
	db       *db
	snapshot *state
	done     bool
}

func (t *tx) Commit() error {
	if t.done {
		return nil
	}
	t.done = true
	t.db.txLock.Unlock()
	return nil
}

func (t *tx) Rollback() error {
	if t.done {
		return nil
	}
	t.done = true
	if t.snapshot != nil {
		t.db.lock.Lock()
		t.db.state = t.snapshot
		t.db.lock.Unlock()
	}
	t.db.txLock.Unlock()
	return nil
}

// RepoManager is the in-memory implementation of ports.RepoManager. It also
// exposes the store of the reference token ledger.
type RepoManager struct {
	db                *db
	pairRepository    domain.PairRepository
	factoryRepository domain.FactoryRepository
	ledgerStore       *LedgerStore
}

func NewRepoManager() *RepoManager {
	d := &db{
		lock:   &sync.RWMutex{},
		txLock: &sync.Mutex{},
		state:  newState(),
	}

	return &RepoManager{
		db:                d,
		pairRepository:    NewPairRepositoryImpl(d),
		factoryRepository: NewFactoryRepositoryImpl(d),
		ledgerStore:       NewLedgerStore(d),
	}
}

func (r *RepoManager) PairRepository() domain.PairRepository {
	return r.pairRepository
}

func (r *RepoManager) FactoryRepository() domain.FactoryRepository {
	return r.factoryRepository
}

func (r *RepoManager) LedgerStore() *LedgerStore {
	return r.ledgerStore
}

func (r *RepoManager) RunTransaction(
	ctx context.Context,
	readOnly bool,
	handler func(ctx context.Context) (interface{}, error),
) (interface{}, error) {
	return uow.Run(ctx, r.db, readOnly, handler)
}

func (r *RepoManager) Close() {}

var _ ports.RepoManager = (*RepoManager)(nil)
