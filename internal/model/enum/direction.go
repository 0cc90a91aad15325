package enum

// Direction is the last trade/trend direction of a checkpoint.
// The zero value means the symbol has not traded yet.
type Direction string

const (
	DirectionNone Direction = ""
	DirectionBuy  Direction = "BUY"
	DirectionSell Direction = "SELL"
)

func (d Direction) IsAvailable() bool {
	return d == DirectionBuy || d == DirectionSell
}

// Opposite flips BUY to SELL and back. None stays None.
func (d Direction) Opposite() Direction {
	switch d {
	case DirectionBuy:
		return DirectionSell
	case DirectionSell:
		return DirectionBuy
	default:
		return DirectionNone
	}
}
