package strategy

import (
	"github.com/shopspring/decimal"

	"main/internal/model/enum"
)

// levelRange is the number of ladder levels generated on each side of the
// floor-aligned base.
const levelRange = 5

// round3 normalizes a price to 3 decimals. Every stored checkpoint and
// every comparison in this package goes through it, so exact-level
// matches stay exact instead of drifting on float jitter.
func round3(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(3).Float64()
	return f
}

func add3(a, b float64) float64 {
	f, _ := decimal.NewFromFloat(a).Add(decimal.NewFromFloat(b)).Round(3).Float64()
	return f
}

func sub3(a, b float64) float64 {
	f, _ := decimal.NewFromFloat(a).Sub(decimal.NewFromFloat(b)).Round(3).Float64()
	return f
}

// ladder computes the gap-spaced level sequences around price: levelRange
// levels below and above the floor-aligned base floor(price/gap)*gap.
// Both slices are ordered ascending.
func ladder(price, gap float64) (prevs, nexts []float64) {
	p := decimal.NewFromFloat(price)
	g := decimal.NewFromFloat(gap)
	base := p.Div(g).Floor().Mul(g)

	prevs = make([]float64, levelRange)
	nexts = make([]float64, levelRange)
	for i := 1; i <= levelRange; i++ {
		step := g.Mul(decimal.NewFromInt(int64(i)))
		lo, _ := base.Sub(step).Round(3).Float64()
		hi, _ := base.Add(step).Round(3).Float64()
		prevs[levelRange-i] = lo
		nexts[i-1] = hi
	}
	return prevs, nexts
}

// findClosestLevel classifies price against the ladder. Upper levels
// resolve to BUY, lower levels to SELL; prices outside the ladder clamp
// to its edge. The boolean reports whether any level applies.
func findClosestLevel(price float64, prevs, nexts []float64) (float64, enum.Direction, bool) {
	for _, n := range nexts {
		if price == n {
			return n, enum.DirectionBuy, true
		}
	}
	for _, p := range prevs {
		if price == p {
			return p, enum.DirectionSell, true
		}
	}

	if price < prevs[0] {
		return prevs[0], enum.DirectionSell, true
	}
	if price > nexts[len(nexts)-1] {
		return nexts[len(nexts)-1], enum.DirectionBuy, true
	}

	for i := len(nexts) - 1; i >= 0; i-- {
		if nexts[i] < price {
			return nexts[i], enum.DirectionBuy, true
		}
	}
	for _, p := range prevs {
		if p > price {
			return p, enum.DirectionSell, true
		}
	}
	return 0, enum.DirectionNone, false
}
