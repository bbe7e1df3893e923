package application_test

import (
	"context"
	"testing"

	"github.com/BelizeChain/gem/internal/core/application"
	"github.com/BelizeChain/gem/internal/core/domain"
	"github.com/BelizeChain/gem/internal/core/ports"
	"github.com/BelizeChain/gem/internal/infrastructure/eventsink"
	"github.com/BelizeChain/gem/internal/infrastructure/ledger"
	dbbadger "github.com/BelizeChain/gem/internal/infrastructure/storage/db/badger"
	"github.com/BelizeChain/gem/internal/infrastructure/storage/db/inmemory"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
)

var (
	ctx = context.Background()

	admin      = domain.NamedAddress("admin")
	feeTo      = domain.NamedAddress("fee-to")
	alice      = domain.NamedAddress("alice")
	bob        = domain.NamedAddress("bob")
	routerAddr = domain.NamedAddress("router")
	tokenA     = domain.NamedAddress("token-a")
	tokenB     = domain.NamedAddress("token-b")
	tokenC     = domain.NamedAddress("token-c")
	wrapped    = domain.NamedAddress("wrapped-native")

	now      = uint64(1700000000)
	deadline = now + 600
	maxUint  = new(uint256.Int).SetAllOne()
)

type testEnv struct {
	name    string
	factory application.FactoryService
	pairs   application.PairService
	router  application.RouterService
	ledger  *ledger.Ledger
	events  *eventsink.Recorder
}

func newTestEnv(t *testing.T, name string, repoManager ports.RepoManager, store ledger.Store) *testEnv {
	t.Helper()

	events := eventsink.NewRecorder()
	l := ledger.New(store)
	cfg := &application.Config{
		RepoManager:   repoManager,
		Ledgers:       l,
		EventSink:     events,
		RouterAddress: routerAddr,
		WrappedNative: wrapped,
	}
	require.NoError(t, cfg.Validate())
	require.NoError(t, cfg.FactoryService().Init(ctx, admin))
	events.Reset()

	return &testEnv{
		name:    name,
		factory: cfg.FactoryService(),
		pairs:   cfg.PairService(),
		router:  cfg.RouterService(),
		ledger:  l,
		events:  events,
	}
}

// newTestEnvs returns an environment for each storage backend.
func newTestEnvs(t *testing.T) []*testEnv {
	t.Helper()

	inmemoryRepoManager := inmemory.NewRepoManager()
	badgerRepoManager, err := dbbadger.NewRepoManager(t.TempDir(), nil)
	require.NoError(t, err)
	t.Cleanup(badgerRepoManager.Close)

	return []*testEnv{
		newTestEnv(t, "inmemory", inmemoryRepoManager, inmemoryRepoManager.LedgerStore()),
		newTestEnv(t, "badger", badgerRepoManager, badgerRepoManager.LedgerStore()),
	}
}

func newInMemoryEnv(t *testing.T) *testEnv {
	t.Helper()

	repoManager := inmemory.NewRepoManager()
	return newTestEnv(t, "inmemory", repoManager, repoManager.LedgerStore())
}

func u(n uint64) *uint256.Int {
	return uint256.NewInt(n)
}

func call(caller domain.Address) application.CallContext {
	return application.CallContext{Caller: caller, Now: now}
}

func (e *testEnv) mint(t *testing.T, token, account domain.Address, amount uint64) {
	t.Helper()
	require.NoError(t, e.ledger.Mint(ctx, token, account, u(amount)))
}

func (e *testEnv) transfer(
	t *testing.T, token, from, to domain.Address, amount uint64,
) {
	t.Helper()
	require.NoError(t, e.ledger.Ledger(token).Transfer(ctx, from, to, u(amount)))
}

func (e *testEnv) balance(t *testing.T, token, account domain.Address) uint64 {
	t.Helper()
	balance, err := e.ledger.BalanceOf(ctx, token, account)
	require.NoError(t, err)
	return balance.Uint64()
}

func (e *testEnv) shares(t *testing.T, pair, holder domain.Address) uint64 {
	t.Helper()
	balance, err := e.pairs.ShareBalance(ctx, pair, holder)
	require.NoError(t, err)
	return balance.Uint64()
}

func (e *testEnv) reserves(t *testing.T, pair domain.Address) (uint64, uint64) {
	t.Helper()
	reserve0, reserve1, _, err := e.pairs.Reserves(ctx, pair)
	require.NoError(t, err)
	return reserve0.Uint64(), reserve1.Uint64()
}

func (e *testEnv) approveRouter(t *testing.T, owner domain.Address, tokens ...domain.Address) {
	t.Helper()
	for _, token := range tokens {
		require.NoError(t, e.ledger.Approve(ctx, token, owner, routerAddr, maxUint))
	}
}

// createFundedPair creates the pair of the sorted tokens and provides the
// given amounts of liquidity on behalf of alice.
func (e *testEnv) createFundedPair(
	t *testing.T, amount0, amount1 uint64,
) (domain.Address, domain.Address, domain.Address) {
	t.Helper()

	token0, token1, err := domain.SortTokens(tokenA, tokenB)
	require.NoError(t, err)
	pair, err := e.factory.CreatePair(ctx, tokenA, tokenB)
	require.NoError(t, err)

	e.mint(t, token0, alice, amount0)
	e.mint(t, token1, alice, amount1)
	e.transfer(t, token0, alice, pair, amount0)
	e.transfer(t, token1, alice, pair, amount1)
	_, err = e.pairs.ProvideLiquidity(ctx, call(alice), pair, alice)
	require.NoError(t, err)

	e.events.Reset()
	return pair, token0, token1
}
