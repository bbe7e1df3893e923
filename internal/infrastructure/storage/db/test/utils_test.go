package db_test

import (
	"context"
	"crypto/rand"
	"testing"

	"github.com/BelizeChain/gem/internal/core/domain"
	"github.com/BelizeChain/gem/internal/core/ports"
	"github.com/BelizeChain/gem/internal/infrastructure/ledger"
	dbbadger "github.com/BelizeChain/gem/internal/infrastructure/storage/db/badger"
	"github.com/BelizeChain/gem/internal/infrastructure/storage/db/inmemory"
	"github.com/stretchr/testify/require"
)

var (
	readOnly = true
	ctx      = context.Background()
)

type repoManager struct {
	Name        string
	RepoManager ports.RepoManager
	LedgerStore ledger.Store
}

func (r repoManager) read(
	query func(context.Context) (interface{}, error),
) (interface{}, error) {
	return r.RepoManager.RunTransaction(ctx, readOnly, query)
}

func (r repoManager) write(
	query func(context.Context) (interface{}, error),
) (interface{}, error) {
	return r.RepoManager.RunTransaction(ctx, !readOnly, query)
}

func createRepoManagers(t *testing.T) []repoManager {
	inmemoryRepoManager := inmemory.NewRepoManager()
	badgerRepoManager, err := dbbadger.NewRepoManager(t.TempDir(), nil)
	require.NoError(t, err)
	t.Cleanup(badgerRepoManager.Close)

	return []repoManager{
		{
			Name:        "badger",
			RepoManager: badgerRepoManager,
			LedgerStore: badgerRepoManager.LedgerStore(),
		},
		{
			Name:        "inmemory",
			RepoManager: inmemoryRepoManager,
			LedgerStore: inmemoryRepoManager.LedgerStore(),
		},
	}
}

func randomAddress() domain.Address {
	var a domain.Address
	//nolint
	rand.Read(a[:])
	return a
}

func makeRandomPair(t *testing.T) *domain.Pair {
	token0, token1, err := domain.SortTokens(randomAddress(), randomAddress())
	require.NoError(t, err)
	pair, err := domain.NewPair(token0, token1)
	require.NoError(t, err)
	return pair
}
