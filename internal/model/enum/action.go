package enum

// Action tags a trade event. SKIP marks a checkpoint-only transition
// that produced no outbound trade.
type Action string

const (
	ActionBuy  Action = "BUY"
	ActionSell Action = "SELL"
	ActionSkip Action = "SKIP"
)

func (a Action) IsAvailable() bool {
	switch a {
	case ActionBuy, ActionSell, ActionSkip:
		return true
	default:
		return false
	}
}

// ActionFor maps a trade direction to its action.
func ActionFor(d Direction) Action {
	if d == DirectionSell {
		return ActionSell
	}
	return ActionBuy
}
