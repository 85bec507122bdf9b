package generator

import (
	"slices"

	"github.com/shopspring/decimal"
)

// rateScale is the number of decimal places kept from a float rate.
const rateScale = 12

// ChargebackSet is the set of row seeds promoted into the chargeback table.
type ChargebackSet map[uint64]struct{}

// Contains reports whether seed was selected.
func (s ChargebackSet) Contains(seed uint64) bool {
	_, ok := s[seed]
	return ok
}

// Seeds returns the selected seeds in ascending order.
func (s ChargebackSet) Seeds() []uint64 {
	out := make([]uint64, 0, len(s))
	for seed := range s {
		out = append(out, seed)
	}
	slices.Sort(out)
	return out
}

// ChargebackCount returns how many of total rows become chargebacks at pct.
func ChargebackCount(total int, pct float64) int {
	if total <= 0 || pct <= 0 {
		return 0
	}
	if pct >= 1 {
		return total
	}
	rate := decimal.NewFromFloat(pct).Round(rateScale)
	n := int(decimal.NewFromInt(int64(total)).Mul(rate).Ceil().IntPart())
	return min(n, total)
}

// SelectChargebackSeeds samples ceil(len(seeds)*pct) seeds without
// replacement. The sample depends only on the inputs.
func SelectChargebackSeeds(seeds []uint64, pct float64, jobIndex, threadID int) ChargebackSet {
	n := ChargebackCount(len(seeds), pct)
	selected := make(ChargebackSet, n)
	if n == 0 {
		return selected
	}

	g := NewRand(HashSeed(uint64(jobIndex), uint64(threadID)))

	// partial Fisher-Yates over a scratch copy
	pool := slices.Clone(seeds)
	for i := 0; i < n; i++ {
		j := i + g.IntN(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
		selected[pool[i]] = struct{}{}
	}
	return selected
}
