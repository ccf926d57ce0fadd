package activator

import "math/big"

// ComputeFee applies a safety margin to an estimated activation data fee:
// final = base + base*bumpPercent/100, with truncating integer division.
// Integer math only; fee values are wei and must not drift across calls.
func ComputeFee(base *big.Int, bumpPercent uint64) *big.Int {
	bump := new(big.Int).Mul(base, new(big.Int).SetUint64(bumpPercent))
	bump.Div(bump, big.NewInt(100))
	return bump.Add(bump, base)
}
