package bot

// State is the driver's position in an account run
type State int

const (
	StateIdle State = iota
	StateCheckingBalance
	StatePlayingRound
	StateWaiting
	StateClaiming
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateCheckingBalance:
		return "CheckingBalance"
	case StatePlayingRound:
		return "PlayingRound"
	case StateWaiting:
		return "Waiting"
	case StateClaiming:
		return "Claiming"
	case StateDone:
		return "Done"
	case StateFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// Terminal reports whether no further transitions happen from s
func (s State) Terminal() bool {
	return s == StateDone || s == StateFailed
}
