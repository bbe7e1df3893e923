package domain

import (
	"github.com/BelizeChain/gem/pkg/amm"
	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
)

// Pair defines the constant-product pool entity holding the reserves of two
// tokens and the ledger of its liquidity shares.
type Pair struct {
	// Address of the pair, derived from its tokens.
	Address Address
	// Token0 is always lower than Token1.
	Token0 Address
	Token1 Address
	// Last known balances of the pair's tokens.
	Reserve0 *uint256.Int
	Reserve1 *uint256.Int
	// Supply of liquidity shares.
	TotalShares *uint256.Int
	// Shares held by every account, their sum is TotalShares.
	Shares map[Address]*uint256.Int
	// Allowances indexed by owner and spender.
	Allowances map[Address]map[Address]*uint256.Int
	// Unix time of the last reserves update.
	BlockTimestampLast uint64
	// Time-weighted price accumulators, 112.112 fixed point.
	Price0CumulativeLast *uint256.Int
	Price1CumulativeLast *uint256.Int
	// Reserve0*Reserve1 as of the last liquidity event, zero if protocol fees
	// are off.
	KLast *uint256.Int
}

// MintResult is the outcome of a successful liquidity provision.
type MintResult struct {
	Amount0     *uint256.Int
	Amount1     *uint256.Int
	Shares      *uint256.Int
	ProtocolFee *uint256.Int
}

// BurnResult is the outcome of burning the shares held by a pair.
type BurnResult struct {
	Amount0     *uint256.Int
	Amount1     *uint256.Int
	Shares      *uint256.Int
	ProtocolFee *uint256.Int
	FeeOn       bool
}

// NewPair returns an empty pair for the given tokens. Tokens are expected to
// be already sorted.
func NewPair(token0, token1 Address) (*Pair, error) {
	t0, t1, err := SortTokens(token0, token1)
	if err != nil {
		return nil, err
	}
	if t0 != token0 {
		return nil, ErrTokensNotSorted
	}

	return &Pair{
		Address:              PairAddress(t0, t1),
		Token0:               t0,
		Token1:               t1,
		Reserve0:             new(uint256.Int),
		Reserve1:             new(uint256.Int),
		TotalShares:          new(uint256.Int),
		Shares:               make(map[Address]*uint256.Int),
		Allowances:           make(map[Address]map[Address]*uint256.Int),
		Price0CumulativeLast: new(uint256.Int),
		Price1CumulativeLast: new(uint256.Int),
		KLast:                new(uint256.Int),
	}, nil
}

// Clone returns a deep copy of the pair.
func (p *Pair) Clone() *Pair {
	shares := make(map[Address]*uint256.Int, len(p.Shares))
	for k, v := range p.Shares {
		shares[k] = v.Clone()
	}
	allowances := make(map[Address]map[Address]*uint256.Int, len(p.Allowances))
	for owner, spenders := range p.Allowances {
		m := make(map[Address]*uint256.Int, len(spenders))
		for spender, v := range spenders {
			m[spender] = v.Clone()
		}
		allowances[owner] = m
	}

	return &Pair{
		Address:              p.Address,
		Token0:               p.Token0,
		Token1:               p.Token1,
		Reserve0:             p.Reserve0.Clone(),
		Reserve1:             p.Reserve1.Clone(),
		TotalShares:          p.TotalShares.Clone(),
		Shares:               shares,
		Allowances:           allowances,
		BlockTimestampLast:   p.BlockTimestampLast,
		Price0CumulativeLast: p.Price0CumulativeLast.Clone(),
		Price1CumulativeLast: p.Price1CumulativeLast.Clone(),
		KLast:                p.KLast.Clone(),
	}
}

// Reserves returns a copy of the pair's reserves.
func (p *Pair) Reserves() (*uint256.Int, *uint256.Int, uint64) {
	return p.Reserve0.Clone(), p.Reserve1.Clone(), p.BlockTimestampLast
}

// ReservesFor returns the reserves oriented as (tokenIn, tokenOut).
func (p *Pair) ReservesFor(tokenIn Address) (*uint256.Int, *uint256.Int, error) {
	switch tokenIn {
	case p.Token0:
		return p.Reserve0.Clone(), p.Reserve1.Clone(), nil
	case p.Token1:
		return p.Reserve1.Clone(), p.Reserve0.Clone(), nil
	default:
		return nil, nil, ErrTokenNotInPair
	}
}

// SpotPrices returns the price of token0 expressed in token1 and vice versa.
func (p *Pair) SpotPrices() (decimal.Decimal, decimal.Decimal) {
	return amm.SpotPrice(p.Reserve0, p.Reserve1), amm.SpotPrice(p.Reserve1, p.Reserve0)
}

// ValidateRecipient makes sure tokens leaving the pair are not sent to the
// null address or to the tokens themselves.
func (p *Pair) ValidateRecipient(recipient Address) error {
	if recipient.IsZero() || recipient == p.Token0 || recipient == p.Token1 {
		return ErrInvalidRecipient
	}
	return nil
}

// Mint credits the recipient with new shares in exchange of the tokens
// deposited since the last reserves update, ie. the difference between the
// given balances and the current reserves. If feeTo is not null, the
// protocol fee accrued since the last liquidity event is minted first.
func (p *Pair) Mint(
	balance0, balance1 *uint256.Int, recipient, feeTo Address, now uint64,
) (*MintResult, error) {
	if recipient.IsZero() {
		return nil, ErrInvalidRecipient
	}

	amount0, err := amm.Sub(balance0, p.Reserve0)
	if err != nil {
		return nil, err
	}
	amount1, err := amm.Sub(balance1, p.Reserve1)
	if err != nil {
		return nil, err
	}

	fee, err := p.mintProtocolFee(feeTo)
	if err != nil {
		return nil, err
	}

	var shares *uint256.Int
	if p.TotalShares.IsZero() {
		product, err := amm.Mul(amount0, amount1)
		if err != nil {
			return nil, err
		}
		root := amm.Sqrt(product)
		minimum := uint256.NewInt(amm.MinimumLiquidity)
		if !root.Gt(minimum) {
			return nil, ErrInsufficientLiquidityMinted
		}
		shares = new(uint256.Int).Sub(root, minimum)
		if err := p.mintShares(ZeroAddress, minimum); err != nil {
			return nil, err
		}
	} else {
		shares0, err := amm.MulDiv(amount0, p.TotalShares, p.Reserve0)
		if err != nil {
			return nil, err
		}
		shares1, err := amm.MulDiv(amount1, p.TotalShares, p.Reserve1)
		if err != nil {
			return nil, err
		}
		shares = amm.Min(shares0, shares1)
	}
	if shares.IsZero() {
		return nil, ErrInsufficientLiquidityMinted
	}

	if err := p.mintShares(recipient, shares); err != nil {
		return nil, err
	}
	if err := p.Sync(balance0, balance1, now); err != nil {
		return nil, err
	}
	if err := p.refreshKLast(!feeTo.IsZero()); err != nil {
		return nil, err
	}

	return &MintResult{
		Amount0:     amount0,
		Amount1:     amount1,
		Shares:      shares,
		ProtocolFee: fee,
	}, nil
}

// Burn destroys the shares held by the pair itself and returns the amounts
// of tokens owed for them. The caller is expected to transfer the amounts
// out and then to settle the pair with SettleBurn.
func (p *Pair) Burn(feeTo Address) (*BurnResult, error) {
	fee, err := p.mintProtocolFee(feeTo)
	if err != nil {
		return nil, err
	}

	shares := p.ShareBalance(p.Address)
	if shares.IsZero() {
		return nil, ErrInsufficientLiquidityBurned
	}

	amount0, err := amm.MulDiv(shares, p.Reserve0, p.TotalShares)
	if err != nil {
		return nil, err
	}
	amount1, err := amm.MulDiv(shares, p.Reserve1, p.TotalShares)
	if err != nil {
		return nil, err
	}
	if amount0.IsZero() || amount1.IsZero() {
		return nil, ErrInsufficientLiquidityBurned
	}

	if err := p.burnShares(p.Address, shares); err != nil {
		return nil, err
	}

	return &BurnResult{
		Amount0:     amount0,
		Amount1:     amount1,
		Shares:      shares,
		ProtocolFee: fee,
		FeeOn:       !feeTo.IsZero(),
	}, nil
}

// SettleBurn updates the reserves to the balances left after the burnt
// amounts have been transferred out.
func (p *Pair) SettleBurn(balance0, balance1 *uint256.Int, feeOn bool, now uint64) error {
	if err := p.Sync(balance0, balance1, now); err != nil {
		return err
	}
	return p.refreshKLast(feeOn)
}

// ValidateSwap checks the requested outputs of a swap before any token is
// transferred out.
func (p *Pair) ValidateSwap(amount0Out, amount1Out *uint256.Int, recipient Address) error {
	if amount0Out.IsZero() && amount1Out.IsZero() {
		return ErrInsufficientOutputAmount
	}
	if err := p.ValidateRecipient(recipient); err != nil {
		return err
	}
	if !amount0Out.Lt(p.Reserve0) || !amount1Out.Lt(p.Reserve1) {
		return ErrInsufficientLiquidity
	}
	return nil
}

// SettleSwap infers the amounts paid in from the balances observed after the
// outputs have been transferred, enforces the fee-adjusted constant product
// invariant and updates the reserves.
func (p *Pair) SettleSwap(
	amount0Out, amount1Out, balance0, balance1 *uint256.Int, now uint64,
) (*uint256.Int, *uint256.Int, error) {
	amount0In, err := inputAmount(balance0, p.Reserve0, amount0Out)
	if err != nil {
		return nil, nil, err
	}
	amount1In, err := inputAmount(balance1, p.Reserve1, amount1Out)
	if err != nil {
		return nil, nil, err
	}
	if amount0In.IsZero() && amount1In.IsZero() {
		return nil, nil, ErrInsufficientInputAmount
	}

	adjusted0, err := amm.AdjustedBalance(balance0, amount0In)
	if err != nil {
		return nil, nil, err
	}
	adjusted1, err := amm.AdjustedBalance(balance1, amount1In)
	if err != nil {
		return nil, nil, err
	}
	ok, err := amm.InvariantHolds(adjusted0, adjusted1, p.Reserve0, p.Reserve1)
	if err != nil {
		return nil, nil, err
	}
	if !ok {
		return nil, nil, ErrInvariantViolated
	}

	if err := p.Sync(balance0, balance1, now); err != nil {
		return nil, nil, err
	}
	return amount0In, amount1In, nil
}

// Excess returns the part of the given balances exceeding the reserves.
func (p *Pair) Excess(balance0, balance1 *uint256.Int) (*uint256.Int, *uint256.Int, error) {
	excess0, err := amm.Sub(balance0, p.Reserve0)
	if err != nil {
		return nil, nil, err
	}
	excess1, err := amm.Sub(balance1, p.Reserve1)
	if err != nil {
		return nil, nil, err
	}
	return excess0, excess1, nil
}

// Sync sets the reserves to the given balances and, if time has passed since
// the last update, accumulates the prices observed over that period.
func (p *Pair) Sync(balance0, balance1 *uint256.Int, now uint64) error {
	if balance0.Gt(amm.MaxReserve) || balance1.Gt(amm.MaxReserve) {
		return ErrOverflow
	}

	if now > p.BlockTimestampLast {
		elapsed := now - p.BlockTimestampLast
		p.Price0CumulativeLast = amm.Accumulate(
			p.Price0CumulativeLast, p.Reserve1, p.Reserve0, elapsed,
		)
		p.Price1CumulativeLast = amm.Accumulate(
			p.Price1CumulativeLast, p.Reserve0, p.Reserve1, elapsed,
		)
		p.BlockTimestampLast = now
	}

	p.Reserve0 = balance0.Clone()
	p.Reserve1 = balance1.Clone()
	return nil
}

// mintProtocolFee mints to feeTo the 1/6th of the growth of sqrt(k) since the
// last liquidity event, expressed as shares:
// S * (sqrt(k) - sqrt(kLast)) / (5 * sqrt(k) + sqrt(kLast)).
func (p *Pair) mintProtocolFee(feeTo Address) (*uint256.Int, error) {
	minted := new(uint256.Int)
	if feeTo.IsZero() {
		if !p.KLast.IsZero() {
			p.KLast = new(uint256.Int)
		}
		return minted, nil
	}
	if p.KLast.IsZero() {
		return minted, nil
	}

	k, err := amm.Mul(p.Reserve0, p.Reserve1)
	if err != nil {
		return nil, err
	}
	rootK := amm.Sqrt(k)
	rootKLast := amm.Sqrt(p.KLast)
	if !rootK.Gt(rootKLast) {
		return minted, nil
	}

	numerator, err := amm.Mul(p.TotalShares, new(uint256.Int).Sub(rootK, rootKLast))
	if err != nil {
		return nil, err
	}
	denominator, err := amm.Mul(rootK, uint256.NewInt(5))
	if err != nil {
		return nil, err
	}
	if denominator, err = amm.Add(denominator, rootKLast); err != nil {
		return nil, err
	}
	minted = numerator.Div(numerator, denominator)
	if minted.IsZero() {
		return minted, nil
	}
	if err := p.mintShares(feeTo, minted); err != nil {
		return nil, err
	}
	return minted, nil
}

func (p *Pair) refreshKLast(feeOn bool) error {
	if !feeOn {
		return nil
	}
	k, err := amm.Mul(p.Reserve0, p.Reserve1)
	if err != nil {
		return err
	}
	p.KLast = k
	return nil
}

func inputAmount(balance, reserve, amountOut *uint256.Int) (*uint256.Int, error) {
	expected, err := amm.Sub(reserve, amountOut)
	if err != nil {
		return nil, err
	}
	if !balance.Gt(expected) {
		return new(uint256.Int), nil
	}
	return new(uint256.Int).Sub(balance, expected), nil
}
