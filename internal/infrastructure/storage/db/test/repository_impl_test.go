package db_test

import (
	"context"
	"errors"
	"testing"

	"github.com/BelizeChain/gem/internal/core/domain"
	"github.com/BelizeChain/gem/internal/storageutil/uow"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
)

func TestRepositoryImplementations(t *testing.T) {
	repositories := createRepoManagers(t)

	for i := range repositories {
		repo := repositories[i]

		t.Run(repo.Name, func(t *testing.T) {
			t.Run("testAddGetPair", func(t *testing.T) {
				testAddGetPair(t, repo)
			})

			t.Run("testUpdatePair", func(t *testing.T) {
				testUpdatePair(t, repo)
			})

			t.Run("testFactory", func(t *testing.T) {
				testFactory(t, repo)
			})

			t.Run("testLedgerStore", func(t *testing.T) {
				testLedgerStore(t, repo)
			})

			t.Run("testWriteRollback", func(t *testing.T) {
				testWriteRollback(t, repo)
			})

			t.Run("testNestedTransaction", func(t *testing.T) {
				testNestedTransaction(t, repo)
			})

			t.Run("testReadOnlyTransaction", func(t *testing.T) {
				testReadOnlyTransaction(t, repo)
			})
		})
	}
}

func testAddGetPair(t *testing.T, repo repoManager) {
	pair := makeRandomPair(t)
	pair.Reserve0 = uint256.NewInt(1000)
	pair.Reserve1 = uint256.NewInt(4000)
	pair.TotalShares = uint256.NewInt(2000)
	pair.Shares[domain.ZeroAddress] = uint256.NewInt(1000)
	pair.Shares[pair.Token0] = uint256.NewInt(1000)
	pair.Allowances[pair.Token0] = map[domain.Address]*uint256.Int{
		pair.Token1: new(uint256.Int).SetAllOne(),
	}
	pair.BlockTimestampLast = 1700000000
	pair.Price0CumulativeLast = new(uint256.Int).Lsh(uint256.NewInt(4), 112)

	_, err := repo.read(func(ctx context.Context) (interface{}, error) {
		return repo.RepoManager.PairRepository().GetPair(ctx, pair.Address)
	})
	require.ErrorIs(t, err, domain.ErrPairNotFound)

	_, err = repo.write(func(ctx context.Context) (interface{}, error) {
		return nil, repo.RepoManager.PairRepository().AddPair(ctx, pair)
	})
	require.NoError(t, err)

	_, err = repo.write(func(ctx context.Context) (interface{}, error) {
		return nil, repo.RepoManager.PairRepository().AddPair(ctx, pair)
	})
	require.ErrorIs(t, err, domain.ErrPairExists)

	iPair, err := repo.read(func(ctx context.Context) (interface{}, error) {
		return repo.RepoManager.PairRepository().GetPair(ctx, pair.Address)
	})
	require.NoError(t, err)
	gotPair := iPair.(*domain.Pair)
	require.Equal(t, pair.Token0, gotPair.Token0)
	require.Equal(t, pair.Token1, gotPair.Token1)
	require.Equal(t, pair.Reserve0.Dec(), gotPair.Reserve0.Dec())
	require.Equal(t, pair.Reserve1.Dec(), gotPair.Reserve1.Dec())
	require.Equal(t, pair.TotalShares.Dec(), gotPair.TotalShares.Dec())
	require.Equal(t, pair.BlockTimestampLast, gotPair.BlockTimestampLast)
	require.Equal(t, pair.Price0CumulativeLast.Dec(), gotPair.Price0CumulativeLast.Dec())
	require.Equal(t, "1000", gotPair.ShareBalance(pair.Token0).Dec())
	require.Equal(t, "1000", gotPair.ShareBalance(domain.ZeroAddress).Dec())
	require.Equal(
		t, new(uint256.Int).SetAllOne().Dec(),
		gotPair.ShareAllowance(pair.Token0, pair.Token1).Dec(),
	)

	iPairs, err := repo.read(func(ctx context.Context) (interface{}, error) {
		return repo.RepoManager.PairRepository().GetAllPairs(ctx)
	})
	require.NoError(t, err)
	found := false
	for _, p := range iPairs.([]domain.Pair) {
		if p.Address == pair.Address {
			found = true
		}
	}
	require.True(t, found)
}

func testUpdatePair(t *testing.T, repo repoManager) {
	pair := makeRandomPair(t)
	_, err := repo.write(func(ctx context.Context) (interface{}, error) {
		return nil, repo.RepoManager.PairRepository().AddPair(ctx, pair)
	})
	require.NoError(t, err)

	_, err = repo.write(func(ctx context.Context) (interface{}, error) {
		return nil, repo.RepoManager.PairRepository().UpdatePair(
			ctx, pair.Address, func(p *domain.Pair) (*domain.Pair, error) {
				if err := p.Sync(uint256.NewInt(10), uint256.NewInt(20), 5); err != nil {
					return nil, err
				}
				return p, nil
			},
		)
	})
	require.NoError(t, err)

	iPair, err := repo.read(func(ctx context.Context) (interface{}, error) {
		return repo.RepoManager.PairRepository().GetPair(ctx, pair.Address)
	})
	require.NoError(t, err)
	gotPair := iPair.(*domain.Pair)
	require.Equal(t, uint64(10), gotPair.Reserve0.Uint64())
	require.Equal(t, uint64(20), gotPair.Reserve1.Uint64())
	require.Equal(t, uint64(5), gotPair.BlockTimestampLast)

	_, err = repo.write(func(ctx context.Context) (interface{}, error) {
		return nil, repo.RepoManager.PairRepository().UpdatePair(
			ctx, randomAddress(), func(p *domain.Pair) (*domain.Pair, error) {
				return p, nil
			},
		)
	})
	require.ErrorIs(t, err, domain.ErrPairNotFound)
}

func testFactory(t *testing.T, repo repoManager) {
	admin := randomAddress()
	factoryRepo := repo.RepoManager.FactoryRepository()

	_, err := repo.read(func(ctx context.Context) (interface{}, error) {
		return factoryRepo.GetFactory(ctx)
	})
	require.ErrorIs(t, err, domain.ErrFactoryNotInitialized)

	factory, err := domain.NewFactory(admin)
	require.NoError(t, err)
	_, err = repo.write(func(ctx context.Context) (interface{}, error) {
		return nil, factoryRepo.AddFactory(ctx, factory)
	})
	require.NoError(t, err)

	_, err = repo.write(func(ctx context.Context) (interface{}, error) {
		return nil, factoryRepo.AddFactory(ctx, factory)
	})
	require.ErrorIs(t, err, domain.ErrFactoryAlreadyInitialized)

	pair := makeRandomPair(t)
	feeTo := randomAddress()
	_, err = repo.write(func(ctx context.Context) (interface{}, error) {
		return nil, factoryRepo.UpdateFactory(
			ctx, func(f *domain.Factory) (*domain.Factory, error) {
				if _, err := f.RegisterPair(pair.Token0, pair.Token1, pair.Address); err != nil {
					return nil, err
				}
				if err := f.SetFeeTo(admin, feeTo); err != nil {
					return nil, err
				}
				return f, nil
			},
		)
	})
	require.NoError(t, err)

	iFactory, err := repo.read(func(ctx context.Context) (interface{}, error) {
		return factoryRepo.GetFactory(ctx)
	})
	require.NoError(t, err)
	gotFactory := iFactory.(*domain.Factory)
	require.Equal(t, admin, gotFactory.FeeToSetter)
	require.Equal(t, feeTo, gotFactory.FeeTo)
	require.Equal(t, []domain.Address{pair.Address}, gotFactory.AllPairs)
	got, ok := gotFactory.LookupPair(pair.Token1, pair.Token0)
	require.True(t, ok)
	require.Equal(t, pair.Address, got)
}

func testLedgerStore(t *testing.T, repo repoManager) {
	token, owner, spender := randomAddress(), randomAddress(), randomAddress()
	store := repo.LedgerStore

	_, err := repo.write(func(ctx context.Context) (interface{}, error) {
		balance, err := store.GetBalance(ctx, token, owner)
		if err != nil {
			return nil, err
		}
		require.True(t, balance.IsZero())

		if err := store.SetBalance(ctx, token, owner, uint256.NewInt(100)); err != nil {
			return nil, err
		}
		return nil, store.SetAllowance(ctx, token, owner, spender, uint256.NewInt(7))
	})
	require.NoError(t, err)

	_, err = repo.read(func(ctx context.Context) (interface{}, error) {
		balance, err := store.GetBalance(ctx, token, owner)
		if err != nil {
			return nil, err
		}
		require.Equal(t, uint64(100), balance.Uint64())

		allowance, err := store.GetAllowance(ctx, token, owner, spender)
		if err != nil {
			return nil, err
		}
		require.Equal(t, uint64(7), allowance.Uint64())

		other, err := store.GetBalance(ctx, token, spender)
		if err != nil {
			return nil, err
		}
		require.True(t, other.IsZero())
		return nil, nil
	})
	require.NoError(t, err)

	_, err = repo.write(func(ctx context.Context) (interface{}, error) {
		return nil, store.SetBalance(ctx, token, owner, new(uint256.Int))
	})
	require.NoError(t, err)

	_, err = repo.read(func(ctx context.Context) (interface{}, error) {
		balance, err := store.GetBalance(ctx, token, owner)
		if err != nil {
			return nil, err
		}
		require.True(t, balance.IsZero())
		return nil, nil
	})
	require.NoError(t, err)
}

func testWriteRollback(t *testing.T, repo repoManager) {
	pair := makeRandomPair(t)
	token, account := randomAddress(), randomAddress()
	boom := errors.New("boom")

	_, err := repo.write(func(ctx context.Context) (interface{}, error) {
		if err := repo.RepoManager.PairRepository().AddPair(ctx, pair); err != nil {
			return nil, err
		}
		if err := repo.LedgerStore.SetBalance(ctx, token, account, uint256.NewInt(1)); err != nil {
			return nil, err
		}
		return nil, boom
	})
	require.ErrorIs(t, err, boom)

	_, err = repo.read(func(ctx context.Context) (interface{}, error) {
		return repo.RepoManager.PairRepository().GetPair(ctx, pair.Address)
	})
	require.ErrorIs(t, err, domain.ErrPairNotFound)

	iBalance, err := repo.read(func(ctx context.Context) (interface{}, error) {
		return repo.LedgerStore.GetBalance(ctx, token, account)
	})
	require.NoError(t, err)
	require.True(t, iBalance.(*uint256.Int).IsZero())
}

func testNestedTransaction(t *testing.T, repo repoManager) {
	pair := makeRandomPair(t)
	other := makeRandomPair(t)

	_, err := repo.write(func(ctx context.Context) (interface{}, error) {
		if err := repo.RepoManager.PairRepository().AddPair(ctx, pair); err != nil {
			return nil, err
		}
		// the nested write joins the outer transaction and sees its changes
		return repo.RepoManager.RunTransaction(ctx, false, func(ctx context.Context) (interface{}, error) {
			if _, err := repo.RepoManager.PairRepository().GetPair(ctx, pair.Address); err != nil {
				return nil, err
			}
			return nil, repo.RepoManager.PairRepository().AddPair(ctx, other)
		})
	})
	require.NoError(t, err)

	for _, p := range []*domain.Pair{pair, other} {
		_, err := repo.read(func(ctx context.Context) (interface{}, error) {
			return repo.RepoManager.PairRepository().GetPair(ctx, p.Address)
		})
		require.NoError(t, err)
	}

	// a nested failure aborts the outer transaction even if recovered
	third := makeRandomPair(t)
	_, err = repo.write(func(ctx context.Context) (interface{}, error) {
		if err := repo.RepoManager.PairRepository().AddPair(ctx, third); err != nil {
			return nil, err
		}
		_, _ = repo.RepoManager.RunTransaction(ctx, false, func(ctx context.Context) (interface{}, error) {
			return nil, repo.RepoManager.PairRepository().AddPair(ctx, pair)
		})
		return nil, nil
	})
	require.ErrorIs(t, err, uow.ErrAborted)

	_, err = repo.read(func(ctx context.Context) (interface{}, error) {
		return repo.RepoManager.PairRepository().GetPair(ctx, third.Address)
	})
	require.ErrorIs(t, err, domain.ErrPairNotFound)
}

func testReadOnlyTransaction(t *testing.T, repo repoManager) {
	pair := makeRandomPair(t)
	token, account := randomAddress(), randomAddress()

	_, err := repo.read(func(ctx context.Context) (interface{}, error) {
		return nil, repo.RepoManager.PairRepository().AddPair(ctx, pair)
	})
	require.ErrorIs(t, err, uow.ErrReadOnly)

	_, err = repo.read(func(ctx context.Context) (interface{}, error) {
		return nil, repo.LedgerStore.SetBalance(ctx, token, account, uint256.NewInt(1))
	})
	require.ErrorIs(t, err, uow.ErrReadOnly)

	_, err = repo.read(func(ctx context.Context) (interface{}, error) {
		return repo.RepoManager.PairRepository().GetPair(ctx, pair.Address)
	})
	require.ErrorIs(t, err, domain.ErrPairNotFound)

	// reads committed one after the other must not hold back later writes
	for i := 0; i < 3; i++ {
		_, err = repo.read(func(ctx context.Context) (interface{}, error) {
			return repo.LedgerStore.GetBalance(ctx, token, account)
		})
		require.NoError(t, err)
	}
	_, err = repo.write(func(ctx context.Context) (interface{}, error) {
		return nil, repo.RepoManager.PairRepository().AddPair(ctx, pair)
	})
	require.NoError(t, err)
}
