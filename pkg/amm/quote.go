package amm

import "github.com/holiman/uint256"

// QuoteOutput returns the amount of the other asset a pool with the given
// reserves releases in exchange for amountIn, net of the swap fee.
func QuoteOutput(amountIn, reserveIn, reserveOut *uint256.Int) (*uint256.Int, error) {
	if amountIn.IsZero() {
		return nil, ErrInsufficientInputAmount
	}
	if reserveIn.IsZero() || reserveOut.IsZero() {
		return nil, ErrInsufficientLiquidity
	}

	amountInWithFee, err := Mul(amountIn, feeMultiplier)
	if err != nil {
		return nil, err
	}
	numerator, err := Mul(amountInWithFee, reserveOut)
	if err != nil {
		return nil, err
	}
	scaledReserveIn, err := Mul(reserveIn, feeDenominator)
	if err != nil {
		return nil, err
	}
	denominator, err := Add(scaledReserveIn, amountInWithFee)
	if err != nil {
		return nil, err
	}
	return numerator.Div(numerator, denominator), nil
}

// QuoteInput returns the amount of asset that must be sent to a pool with the
// given reserves to receive exactly amountOut. The result is rounded up so the
// pool never loses from the rounding.
func QuoteInput(amountOut, reserveIn, reserveOut *uint256.Int) (*uint256.Int, error) {
	if amountOut.IsZero() {
		return nil, ErrInsufficientOutputAmount
	}
	if reserveIn.IsZero() || reserveOut.IsZero() || !amountOut.Lt(reserveOut) {
		return nil, ErrInsufficientLiquidity
	}

	numerator, err := Mul(reserveIn, amountOut)
	if err != nil {
		return nil, err
	}
	if numerator, err = Mul(numerator, feeDenominator); err != nil {
		return nil, err
	}
	remaining := new(uint256.Int).Sub(reserveOut, amountOut)
	denominator, err := Mul(remaining, feeMultiplier)
	if err != nil {
		return nil, err
	}
	amountIn := numerator.Div(numerator, denominator)
	return Add(amountIn, uint256.NewInt(1))
}

// Quote returns the amount of B equivalent to amountA at the current pool
// ratio, without any fee applied.
func Quote(amountA, reserveA, reserveB *uint256.Int) (*uint256.Int, error) {
	if amountA.IsZero() {
		return nil, ErrZeroAmount
	}
	if reserveA.IsZero() || reserveB.IsZero() {
		return nil, ErrInsufficientLiquidity
	}
	return MulDiv(amountA, reserveB, reserveA)
}

// AdjustedBalance returns balance*1000 - amountIn*3, the fee-adjusted balance
// used by the invariant check after a swap.
func AdjustedBalance(balance, amountIn *uint256.Int) (*uint256.Int, error) {
	scaled, err := Mul(balance, feeDenominator)
	if err != nil {
		return nil, err
	}
	fee, err := Mul(amountIn, feeNumerator)
	if err != nil {
		return nil, err
	}
	return Sub(scaled, fee)
}

// InvariantHolds reports whether adjusted0*adjusted1 >= reserve0*reserve1*1000^2.
func InvariantHolds(adjusted0, adjusted1, reserve0, reserve1 *uint256.Int) (bool, error) {
	left, err := Mul(adjusted0, adjusted1)
	if err != nil {
		return false, err
	}
	right, err := Mul(reserve0, reserve1)
	if err != nil {
		return false, err
	}
	scale := uint256.NewInt(FeeDenominator * FeeDenominator)
	if right, err = Mul(right, scale); err != nil {
		return false, err
	}
	return !left.Lt(right), nil
}
