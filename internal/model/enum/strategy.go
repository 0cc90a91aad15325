package enum

// Strategy selects the checkpoint transition rules for a symbol.
type Strategy string

const (
	StrategyUnknown  Strategy = ""
	StrategyStatic   Strategy = "STATIC"
	StrategyTrailing Strategy = "TRAILING"
	StrategyReversal Strategy = "REVERSAL"
)

func (s Strategy) IsAvailable() bool {
	switch s {
	case StrategyStatic, StrategyTrailing, StrategyReversal:
		return true
	default:
		return false
	}
}
