package amm

import (
	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
)

var (
	q112 = new(uint256.Int).Lsh(uint256.NewInt(1), Resolution)
	// decimal representation of 2^112.
	q112Dec = decimal.NewFromBigInt(q112.ToBig(), 0)
)

// EncodePrice returns numerator/denominator as an unsigned 112.112 fixed point
// number. Both values are expected to be at most MaxReserve and the
// denominator must not be zero.
func EncodePrice(numerator, denominator *uint256.Int) *uint256.Int {
	z := new(uint256.Int).Lsh(numerator, Resolution)
	return z.Div(z, denominator)
}

// Accumulate returns the cumulative price after `elapsed` seconds have passed
// at the price reserveNum/reserveDen. The result wraps to the max value
// instead of overflowing.
func Accumulate(cumulative, reserveNum, reserveDen *uint256.Int, elapsed uint64) *uint256.Int {
	if elapsed == 0 || reserveNum.IsZero() || reserveDen.IsZero() {
		return cumulative.Clone()
	}
	delta := SaturatingMul(EncodePrice(reserveNum, reserveDen), uint256.NewInt(elapsed))
	return SaturatingAdd(cumulative, delta)
}

// AveragePrice returns the time-weighted average price between two
// observations of the same cumulative price as a decimal number.
func AveragePrice(startCumulative, endCumulative *uint256.Int, elapsed uint64) (decimal.Decimal, error) {
	if elapsed == 0 {
		return decimal.Zero, ErrZeroElapsed
	}
	diff, err := Sub(endCumulative, startCumulative)
	if err != nil {
		return decimal.Zero, err
	}
	avg := diff.Div(diff, uint256.NewInt(elapsed))
	return decimal.NewFromBigInt(avg.ToBig(), 0).Div(q112Dec), nil
}

// SpotPrice returns reserveOut/reserveIn as a decimal, zero if any reserve is
// empty. It is meant for reporting only.
func SpotPrice(reserveIn, reserveOut *uint256.Int) decimal.Decimal {
	if reserveIn.IsZero() || reserveOut.IsZero() {
		return decimal.Zero
	}
	in := decimal.NewFromBigInt(reserveIn.ToBig(), 0)
	out := decimal.NewFromBigInt(reserveOut.ToBig(), 0)
	return out.Div(in)
}
