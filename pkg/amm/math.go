// Package amm defines the pure constant-product arithmetic shared by pairs and
// routers. All amounts are unsigned 256-bit integers and every operation that
// may overflow is checked, except for the saturating helpers meant for the
// price accumulators.
package amm

import "github.com/holiman/uint256"

const (
	// MinimumLiquidity is the amount of shares permanently locked at the first
	// liquidity provision.
	MinimumLiquidity = 1000
	// FeeDenominator is the scale used to express the swap fee.
	FeeDenominator = 1000
	// FeeNumerator is the part of FeeDenominator retained by the pool (0.3%).
	FeeNumerator = 3
	// Resolution is the number of fractional bits of the encoded prices.
	Resolution = 112
)

var (
	// MaxReserve is the biggest reserve a pair can hold, it makes sure that
	// encoded prices and invariant checks never exceed 256 bits.
	MaxReserve = new(uint256.Int).SubUint64(
		new(uint256.Int).Lsh(uint256.NewInt(1), Resolution), 1,
	)

	feeDenominator = uint256.NewInt(FeeDenominator)
	feeMultiplier  = uint256.NewInt(FeeDenominator - FeeNumerator)
	feeNumerator   = uint256.NewInt(FeeNumerator)
	maxUint256     = new(uint256.Int).SetAllOne()
)

// Add returns x + y or ErrOverflow.
func Add(x, y *uint256.Int) (*uint256.Int, error) {
	z, overflow := new(uint256.Int).AddOverflow(x, y)
	if overflow {
		return nil, ErrOverflow
	}
	return z, nil
}

// Sub returns x - y or ErrOverflow if y > x.
func Sub(x, y *uint256.Int) (*uint256.Int, error) {
	z, underflow := new(uint256.Int).SubOverflow(x, y)
	if underflow {
		return nil, ErrOverflow
	}
	return z, nil
}

// Mul returns x * y or ErrOverflow.
func Mul(x, y *uint256.Int) (*uint256.Int, error) {
	z, overflow := new(uint256.Int).MulOverflow(x, y)
	if overflow {
		return nil, ErrOverflow
	}
	return z, nil
}

// MulDiv returns floor(x * y / d). The product is checked, d must not be zero.
func MulDiv(x, y, d *uint256.Int) (*uint256.Int, error) {
	if d.IsZero() {
		return nil, ErrInsufficientLiquidity
	}
	p, err := Mul(x, y)
	if err != nil {
		return nil, err
	}
	return p.Div(p, d), nil
}

// Min returns a copy of the smaller between x and y.
func Min(x, y *uint256.Int) *uint256.Int {
	if x.Lt(y) {
		return x.Clone()
	}
	return y.Clone()
}

// SaturatingAdd returns x + y clamped to the max 256-bit value.
func SaturatingAdd(x, y *uint256.Int) *uint256.Int {
	z, overflow := new(uint256.Int).AddOverflow(x, y)
	if overflow {
		return maxUint256.Clone()
	}
	return z
}

// SaturatingMul returns x * y clamped to the max 256-bit value.
func SaturatingMul(x, y *uint256.Int) *uint256.Int {
	z, overflow := new(uint256.Int).MulOverflow(x, y)
	if overflow {
		return maxUint256.Clone()
	}
	return z
}

// Sqrt returns floor(sqrt(y)) computed with the babylonian method.
func Sqrt(y *uint256.Int) *uint256.Int {
	if y.GtUint64(3) {
		z := y.Clone()
		x := new(uint256.Int).Rsh(y, 1)
		x.AddUint64(x, 1)
		for x.Lt(z) {
			z.Set(x)
			t := new(uint256.Int).Div(y, x)
			x.Add(t, x)
			x.Rsh(x, 1)
		}
		return z
	}
	if y.IsZero() {
		return new(uint256.Int)
	}
	return uint256.NewInt(1)
}
