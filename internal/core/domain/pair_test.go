package domain_test

import (
	"testing"

	"github.com/BelizeChain/gem/internal/core/domain"
	"github.com/BelizeChain/gem/pkg/amm"
	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func u(n uint64) *uint256.Int {
	return uint256.NewInt(n)
}

func newTestPair(t *testing.T) *domain.Pair {
	token0, token1, err := domain.SortTokens(tokenA, tokenB)
	require.NoError(t, err)
	p, err := domain.NewPair(token0, token1)
	require.NoError(t, err)
	return p
}

// newFundedPair returns a pair with the given reserves where alice holds all
// the shares but the locked ones.
func newFundedPair(t *testing.T, reserve0, reserve1 uint64) *domain.Pair {
	p := newTestPair(t)
	_, err := p.Mint(u(reserve0), u(reserve1), alice, domain.ZeroAddress, 100)
	require.NoError(t, err)
	return p
}

func TestNewPair(t *testing.T) {
	t.Parallel()

	p := newTestPair(t)
	require.Equal(t, domain.PairAddress(p.Token0, p.Token1), p.Address)
	require.True(t, p.Token0.Less(p.Token1))
	require.True(t, p.Reserve0.IsZero())
	require.True(t, p.Reserve1.IsZero())
	require.True(t, p.TotalShares.IsZero())
	require.True(t, p.KLast.IsZero())

	_, err := domain.NewPair(p.Token1, p.Token0)
	require.ErrorIs(t, err, domain.ErrTokensNotSorted)
	_, err = domain.NewPair(p.Token0, p.Token0)
	require.ErrorIs(t, err, domain.ErrIdenticalTokens)
	_, err = domain.NewPair(domain.ZeroAddress, p.Token0)
	require.ErrorIs(t, err, domain.ErrZeroToken)
}

func TestPairMint(t *testing.T) {
	t.Parallel()

	t.Run("first_provision", func(t *testing.T) {
		t.Parallel()

		p := newTestPair(t)
		res, err := p.Mint(u(2000), u(2000), alice, domain.ZeroAddress, 100)
		require.NoError(t, err)
		require.Equal(t, uint64(1000), res.Shares.Uint64())
		require.Equal(t, uint64(2000), res.Amount0.Uint64())
		require.Equal(t, uint64(2000), res.Amount1.Uint64())
		require.True(t, res.ProtocolFee.IsZero())

		require.Equal(t, uint64(1000), p.ShareBalance(alice).Uint64())
		require.Equal(t, uint64(amm.MinimumLiquidity), p.ShareBalance(domain.ZeroAddress).Uint64())
		require.Equal(t, uint64(2000), p.TotalShares.Uint64())
		require.Equal(t, uint64(2000), p.Reserve0.Uint64())
		require.Equal(t, uint64(2000), p.Reserve1.Uint64())
		require.Equal(t, uint64(100), p.BlockTimestampLast)
	})

	t.Run("proportional_provision", func(t *testing.T) {
		t.Parallel()

		p := newFundedPair(t, 1000, 4000)
		// skewed deposit, the excess of token1 is donated
		res, err := p.Mint(u(1100), u(5000), bob, domain.ZeroAddress, 101)
		require.NoError(t, err)
		require.Equal(t, uint64(200), res.Shares.Uint64())
		require.Equal(t, uint64(200), p.ShareBalance(bob).Uint64())
		require.Equal(t, uint64(2200), p.TotalShares.Uint64())
		require.Equal(t, uint64(5000), p.Reserve1.Uint64())
	})

	t.Run("failing", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			name          string
			pair          func(t *testing.T) *domain.Pair
			balance0      uint64
			balance1      uint64
			recipient     domain.Address
			expectedError error
		}{
			{
				name:          "null_recipient",
				pair:          newTestPair,
				balance0:      2000,
				balance1:      2000,
				recipient:     domain.ZeroAddress,
				expectedError: domain.ErrInvalidRecipient,
			},
			{
				name:          "root_equal_to_minimum",
				pair:          newTestPair,
				balance0:      1000,
				balance1:      1000,
				recipient:     alice,
				expectedError: domain.ErrInsufficientLiquidityMinted,
			},
			{
				name:          "root_below_minimum",
				pair:          newTestPair,
				balance0:      10,
				balance1:      100000,
				recipient:     alice,
				expectedError: domain.ErrInsufficientLiquidityMinted,
			},
			{
				name: "nothing_deposited",
				pair: func(t *testing.T) *domain.Pair {
					return newFundedPair(t, 2000, 2000)
				},
				balance0:      2000,
				balance1:      2000,
				recipient:     alice,
				expectedError: domain.ErrInsufficientLiquidityMinted,
			},
		}
		for _, tt := range tests {
			tt := tt
			t.Run(tt.name, func(t *testing.T) {
				p := tt.pair(t)
				_, err := p.Mint(u(tt.balance0), u(tt.balance1), tt.recipient, domain.ZeroAddress, 100)
				require.ErrorIs(t, err, tt.expectedError)
			})
		}
	})
}

func TestPairBurn(t *testing.T) {
	t.Parallel()

	p := newFundedPair(t, 1000, 4000)
	require.Equal(t, uint64(2000), p.TotalShares.Uint64())

	_, err := p.Burn(domain.ZeroAddress)
	require.ErrorIs(t, err, domain.ErrInsufficientLiquidityBurned)

	require.NoError(t, p.TransferShares(alice, p.Address, u(500)))
	res, err := p.Burn(domain.ZeroAddress)
	require.NoError(t, err)
	require.Equal(t, uint64(250), res.Amount0.Uint64())
	require.Equal(t, uint64(1000), res.Amount1.Uint64())
	require.Equal(t, uint64(500), res.Shares.Uint64())
	require.False(t, res.FeeOn)
	require.Equal(t, uint64(1500), p.TotalShares.Uint64())
	require.True(t, p.ShareBalance(p.Address).IsZero())

	require.NoError(t, p.SettleBurn(u(750), u(3000), res.FeeOn, 200))
	require.Equal(t, uint64(750), p.Reserve0.Uint64())
	require.Equal(t, uint64(3000), p.Reserve1.Uint64())
}

func TestPairSwap(t *testing.T) {
	t.Parallel()

	t.Run("validate", func(t *testing.T) {
		t.Parallel()

		p := newFundedPair(t, 1000, 1000)
		tests := []struct {
			name          string
			out0          uint64
			out1          uint64
			recipient     domain.Address
			expectedError error
		}{
			{"no_output", 0, 0, bob, domain.ErrInsufficientOutputAmount},
			{"null_recipient", 0, 10, domain.ZeroAddress, domain.ErrInvalidRecipient},
			{"token_recipient", 0, 10, p.Token0, domain.ErrInvalidRecipient},
			{"drain_reserve0", 1000, 0, bob, domain.ErrInsufficientLiquidity},
			{"drain_reserve1", 0, 1001, bob, domain.ErrInsufficientLiquidity},
		}
		for _, tt := range tests {
			tt := tt
			t.Run(tt.name, func(t *testing.T) {
				err := p.ValidateSwap(u(tt.out0), u(tt.out1), tt.recipient)
				require.ErrorIs(t, err, tt.expectedError)
			})
		}
		require.NoError(t, p.ValidateSwap(u(0), u(90), bob))
	})

	t.Run("settle", func(t *testing.T) {
		t.Parallel()

		p := newFundedPair(t, 1000, 1000)
		in0, in1, err := p.SettleSwap(u(0), u(90), u(1100), u(910), 110)
		require.NoError(t, err)
		require.Equal(t, uint64(100), in0.Uint64())
		require.True(t, in1.IsZero())
		require.Equal(t, uint64(1100), p.Reserve0.Uint64())
		require.Equal(t, uint64(910), p.Reserve1.Uint64())
	})

	t.Run("invariant_violated", func(t *testing.T) {
		t.Parallel()

		p := newFundedPair(t, 1000, 1000)
		_, _, err := p.SettleSwap(u(0), u(91), u(1100), u(909), 110)
		require.ErrorIs(t, err, domain.ErrInvariantViolated)
		require.Equal(t, uint64(1000), p.Reserve0.Uint64())
	})

	t.Run("no_input", func(t *testing.T) {
		t.Parallel()

		p := newFundedPair(t, 1000, 1000)
		_, _, err := p.SettleSwap(u(0), u(90), u(1000), u(910), 110)
		require.ErrorIs(t, err, domain.ErrInsufficientInputAmount)
	})
}

func TestPairPriceAccumulators(t *testing.T) {
	t.Parallel()

	p := newFundedPair(t, 1000, 4000)
	require.True(t, p.Price0CumulativeLast.IsZero())

	require.NoError(t, p.Sync(u(1000), u(4000), 110))
	want0 := new(uint256.Int).Lsh(u(40), amm.Resolution)
	want1 := new(uint256.Int).Lsh(u(10), amm.Resolution)
	want1.Div(want1, u(4))
	require.Equal(t, want0.Dec(), p.Price0CumulativeLast.Dec())
	require.Equal(t, want1.Dec(), p.Price1CumulativeLast.Dec())
	require.Equal(t, uint64(110), p.BlockTimestampLast)

	// same timestamp, nothing accumulated
	require.NoError(t, p.Sync(u(2000), u(4000), 110))
	require.Equal(t, want0.Dec(), p.Price0CumulativeLast.Dec())

	price, err := amm.AveragePrice(new(uint256.Int), p.Price0CumulativeLast, 10)
	require.NoError(t, err)
	require.True(t, decimal.NewFromInt(4).Equal(price))

	tooBig := new(uint256.Int).AddUint64(amm.MaxReserve, 1)
	require.ErrorIs(t, p.Sync(tooBig, u(1), 120), domain.ErrOverflow)
}

func TestPairProtocolFee(t *testing.T) {
	t.Parallel()

	feeTo := domain.NamedAddress("treasury")
	p := newTestPair(t)

	_, err := p.Mint(u(2000), u(2000), alice, feeTo, 100)
	require.NoError(t, err)
	require.Equal(t, uint64(4000000), p.KLast.Uint64())

	// k grows to 3000*3000 without any new share
	require.NoError(t, p.Sync(u(3000), u(3000), 101))

	res, err := p.Mint(u(3300), u(3300), bob, feeTo, 102)
	require.NoError(t, err)
	require.Equal(t, uint64(117), res.ProtocolFee.Uint64())
	require.Equal(t, uint64(117), p.ShareBalance(feeTo).Uint64())
	require.Equal(t, uint64(211), res.Shares.Uint64())
	require.Equal(t, uint64(3300*3300), p.KLast.Uint64())

	// disabling the fee resets kLast at the next liquidity event
	require.NoError(t, p.TransferShares(bob, p.Address, u(211)))
	_, err = p.Burn(domain.ZeroAddress)
	require.NoError(t, err)
	require.True(t, p.KLast.IsZero())
}

func TestPairShares(t *testing.T) {
	t.Parallel()

	p := newFundedPair(t, 2000, 2000)

	require.ErrorIs(t, p.TransferShares(alice, bob, u(1001)), domain.ErrInsufficientBalance)
	require.ErrorIs(t, p.TransferShares(alice, domain.ZeroAddress, u(1)), domain.ErrZeroAddress)
	require.NoError(t, p.TransferShares(alice, bob, u(400)))
	require.Equal(t, uint64(600), p.ShareBalance(alice).Uint64())
	require.Equal(t, uint64(400), p.ShareBalance(bob).Uint64())

	spender := domain.NamedAddress("router")
	require.ErrorIs(t, p.ApproveShares(bob, domain.ZeroAddress, u(1)), domain.ErrZeroAddress)
	require.NoError(t, p.ApproveShares(bob, spender, u(100)))
	require.Equal(t, uint64(100), p.ShareAllowance(bob, spender).Uint64())

	require.ErrorIs(
		t, p.TransferSharesFrom(spender, bob, alice, u(101)), domain.ErrInsufficientAllowance,
	)
	require.NoError(t, p.TransferSharesFrom(spender, bob, alice, u(60)))
	require.Equal(t, uint64(40), p.ShareAllowance(bob, spender).Uint64())
	require.Equal(t, uint64(660), p.ShareBalance(alice).Uint64())

	allowance := new(uint256.Int).SetAllOne()
	require.NoError(t, p.ApproveShares(alice, spender, allowance))
	require.NoError(t, p.TransferSharesFrom(spender, alice, bob, u(10)))
	require.Equal(
		t, new(uint256.Int).SubUint64(allowance, 10).Dec(), p.ShareAllowance(alice, spender).Dec(),
	)

	require.ErrorIs(
		t, p.TransferShares(domain.ZeroAddress, bob, u(1)), domain.ErrZeroAddress,
	)
	require.ErrorIs(
		t, p.ApproveShares(domain.ZeroAddress, spender, u(1)), domain.ErrZeroAddress,
	)
	require.ErrorIs(
		t, p.TransferSharesFrom(spender, domain.ZeroAddress, bob, u(1)),
		domain.ErrInsufficientAllowance,
	)
	require.Equal(t, uint64(1000), p.ShareBalance(domain.ZeroAddress).Uint64())

	clone := p.Clone()
	require.NoError(t, clone.TransferShares(alice, bob, u(1)))
	require.Equal(t, uint64(650), p.ShareBalance(alice).Uint64())
	require.Equal(t, uint64(649), clone.ShareBalance(alice).Uint64())
}

func TestPairSpotPrices(t *testing.T) {
	t.Parallel()

	p := newFundedPair(t, 1000, 4000)
	price0, price1 := p.SpotPrices()
	require.True(t, decimal.NewFromInt(4).Equal(price0))
	require.True(t, decimal.NewFromFloat(0.25).Equal(price1))

	in, out, err := p.ReservesFor(p.Token1)
	require.NoError(t, err)
	require.Equal(t, uint64(4000), in.Uint64())
	require.Equal(t, uint64(1000), out.Uint64())

	_, _, err = p.ReservesFor(alice)
	require.ErrorIs(t, err, domain.ErrTokenNotInPair)
}
