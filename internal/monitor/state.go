package monitor

// State is the lifecycle of a Monitor. It only moves forward.
type State int32

const (
	Running State = iota
	ShuttingDown
	Stopped
)

var stateNames = []string{"running", "shutting_down", "stopped"}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}
