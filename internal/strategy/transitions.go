package strategy

import (
	"main/internal/model"
	"main/internal/model/enum"
)

// transition is the outcome of one post-initial evaluation. Exactly one
// of trade/skip is set when ok; a skip advances the checkpoint without
// emitting a command.
type transition struct {
	trade     bool
	price     float64
	direction enum.Direction
	current   float64
}

// staticNext fires a trade whenever the bid crosses the fixed checkpoint
// against the last direction. The checkpoint level itself never moves.
func staticNext(cp model.Checkpoint, price, buyPrice float64) (transition, bool) {
	switch {
	case price > cp.Current && cp.Direction != enum.DirectionBuy:
		return transition{trade: true, price: buyPrice, direction: enum.DirectionBuy, current: cp.Current}, true
	case price < cp.Current && cp.Direction != enum.DirectionSell:
		return transition{trade: true, price: price, direction: enum.DirectionSell, current: cp.Current}, true
	default:
		return transition{}, false
	}
}

// trailingNext advances the checkpoint silently along the ladder while
// the trend holds, and trades only when price crosses back through the
// checkpoint.
func trailingNext(cp model.Checkpoint, price, buyPrice, gap float64) (transition, bool) {
	prevs, nexts := ladder(cp.Current, gap)
	level, levelDir, ok := findClosestLevel(price, prevs, nexts)

	switch cp.Direction {
	case enum.DirectionBuy:
		if ok && levelDir == enum.DirectionBuy && level > cp.Current {
			return transition{price: buyPrice, direction: enum.DirectionBuy, current: level}, true
		}
		if price < cp.Current {
			return transition{trade: true, price: price, direction: enum.DirectionSell, current: price}, true
		}
	case enum.DirectionSell:
		if ok && levelDir == enum.DirectionSell && level < cp.Current {
			return transition{price: price, direction: enum.DirectionSell, current: level}, true
		}
		if buyPrice > cp.Current {
			return transition{trade: true, price: buyPrice, direction: enum.DirectionBuy, current: buyPrice}, true
		}
	}
	return transition{}, false
}

// reversalNext flips when price reaches the armed band and rearms one gap
// past the fill; otherwise it tightens the band toward a new favorable
// extreme. The band never loosens.
func reversalNext(cp model.Checkpoint, price, buyPrice, gap float64) (transition, bool) {
	switch cp.Direction {
	case enum.DirectionBuy:
		if price <= cp.Current {
			return transition{trade: true, price: price, direction: enum.DirectionSell, current: add3(price, gap)}, true
		}
		if cand := sub3(price, gap); cand > cp.Current {
			return transition{price: price, direction: enum.DirectionBuy, current: cand}, true
		}
	case enum.DirectionSell:
		if buyPrice >= cp.Current {
			return transition{trade: true, price: buyPrice, direction: enum.DirectionBuy, current: sub3(buyPrice, gap)}, true
		}
		if cand := add3(price, gap); cand < cp.Current {
			return transition{price: price, direction: enum.DirectionSell, current: cand}, true
		}
	}
	return transition{}, false
}
