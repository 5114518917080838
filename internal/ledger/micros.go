package ledger

import "math/big"

// microsPerUnit scales native (non-tick) amounts to the integer minor unit
// balances are kept in. Carrying balances as int64 micro-units instead of
// float64 eliminates the rounding drift a floating-point ledger would
// otherwise accumulate across many fills.
const microsPerUnit = 1_000_000

// costMicros converts quantityTicks at priceTick (both scaled by
// tickMultiplier) into micro-USD: (quantityTicks/M) * (priceTick/M), in
// micro units. big.Int avoids overflow from the intermediate product.
func costMicros(quantityTicks, priceTick, tickMultiplier uint64) int64 {
	num := new(big.Int).SetUint64(quantityTicks)
	num.Mul(num, new(big.Int).SetUint64(priceTick))
	num.Mul(num, big.NewInt(microsPerUnit))

	denom := new(big.Int).SetUint64(tickMultiplier)
	denom.Mul(denom, denom)

	num.Quo(num, denom)
	return num.Int64()
}

// baseMicros converts quantityTicks (scaled by tickMultiplier) into
// micro-units of the base asset: quantityTicks/M.
func baseMicros(quantityTicks, tickMultiplier uint64) int64 {
	num := new(big.Int).SetUint64(quantityTicks)
	num.Mul(num, big.NewInt(microsPerUnit))
	num.Quo(num, new(big.Int).SetUint64(tickMultiplier))
	return num.Int64()
}
