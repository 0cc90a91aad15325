package enum

// Reason distinguishes the first trade of a subscription from later signals.
type Reason string

const (
	ReasonInitial Reason = "initial"
	ReasonSignal  Reason = "signal"
)

func (r Reason) IsAvailable() bool {
	return r == ReasonInitial || r == ReasonSignal
}
