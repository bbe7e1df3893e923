package domain_test

import (
	"testing"

	"github.com/BelizeChain/gem/internal/core/domain"
	"github.com/stretchr/testify/require"
)

func TestNewFactory(t *testing.T) {
	t.Parallel()

	f, err := domain.NewFactory(alice)
	require.NoError(t, err)
	require.Equal(t, alice, f.FeeToSetter)
	require.False(t, f.FeeOn())
	require.Empty(t, f.AllPairs)

	_, err = domain.NewFactory(domain.ZeroAddress)
	require.ErrorIs(t, err, domain.ErrZeroAddress)
}

func TestFactoryRegisterPair(t *testing.T) {
	t.Parallel()

	f, err := domain.NewFactory(alice)
	require.NoError(t, err)

	token0, token1, err := domain.SortTokens(tokenA, tokenB)
	require.NoError(t, err)
	pair := domain.PairAddress(token0, token1)

	index, err := f.RegisterPair(tokenB, tokenA, pair)
	require.NoError(t, err)
	require.Zero(t, index)

	got, ok := f.LookupPair(tokenA, tokenB)
	require.True(t, ok)
	require.Equal(t, pair, got)
	got, ok = f.LookupPair(tokenB, tokenA)
	require.True(t, ok)
	require.Equal(t, pair, got)

	_, ok = f.LookupPair(tokenA, tokenA)
	require.False(t, ok)

	_, err = f.RegisterPair(tokenA, tokenB, pair)
	require.ErrorIs(t, err, domain.ErrPairExists)
	_, err = f.RegisterPair(tokenB, tokenA, pair)
	require.ErrorIs(t, err, domain.ErrPairExists)

	byIndex, err := f.PairByIndex(0)
	require.NoError(t, err)
	require.Equal(t, pair, byIndex)
	_, err = f.PairByIndex(1)
	require.ErrorIs(t, err, domain.ErrPairNotFound)

	clone := f.Clone()
	_, err = clone.RegisterPair(tokenA, alice, domain.PairAddress(tokenA, alice))
	require.NoError(t, err)
	require.Len(t, f.AllPairs, 1)
	require.Len(t, clone.AllPairs, 2)
}

func TestFactoryFeeAdministration(t *testing.T) {
	t.Parallel()

	f, err := domain.NewFactory(alice)
	require.NoError(t, err)

	require.ErrorIs(t, f.SetFeeTo(bob, bob), domain.ErrNotAuthorized)
	require.NoError(t, f.SetFeeTo(alice, bob))
	require.True(t, f.FeeOn())
	require.NoError(t, f.SetFeeTo(alice, domain.ZeroAddress))
	require.False(t, f.FeeOn())

	require.ErrorIs(t, f.SetFeeToSetter(bob, bob), domain.ErrNotAuthorized)
	require.ErrorIs(t, f.SetFeeToSetter(alice, domain.ZeroAddress), domain.ErrZeroAddress)
	require.NoError(t, f.SetFeeToSetter(alice, bob))
	require.Equal(t, bob, f.FeeToSetter)
	require.ErrorIs(t, f.SetFeeTo(alice, alice), domain.ErrNotAuthorized)
}
