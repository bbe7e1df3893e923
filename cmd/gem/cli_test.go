package main

import (
	"testing"

	"github.com/BelizeChain/gem/internal/core/domain"
	"github.com/stretchr/testify/require"
)

func TestParsePath(t *testing.T) {
	tokenC := domain.NamedAddress("token-c")

	path, err := parsePath("token-a, token-b," + tokenC.String())
	require.NoError(t, err)
	require.Equal(t, []domain.Address{
		domain.NamedAddress("token-a"),
		domain.NamedAddress("token-b"),
		tokenC,
	}, path)

	_, err = parsePath("token-a,,token-b")
	require.ErrorIs(t, err, domain.ErrMalformedAddress)
}

func TestParseAmount(t *testing.T) {
	amount, err := parseAmount("1000")
	require.NoError(t, err)
	require.Equal(t, uint64(1000), amount.Uint64())

	amount, err = parseAmount("max")
	require.NoError(t, err)
	require.Equal(t, 256, amount.BitLen())

	_, err = parseAmount("-1")
	require.Error(t, err)

	_, err = parseAmount("1e3")
	require.Error(t, err)
}
