package process

// State represents the state of a process. The declaration order is the sort order.
type State int

const (
	StateRunning  State = iota // R
	StateSleeping              // S, interruptible wait
	StateWaiting               // D, uninterruptible disk sleep
	StateZombie                // Z
	StateStopped               // T, stopped on a signal
	StateTracing               // t, tracing stop
	StateDead                  // X
	StateWakeKill              // K
	StateWaking                // W
	StateParked                // P
	StateIdle                  // I
	StateUnknown
)

var stateNames = [...]string{
	StateRunning:  "Running",
	StateSleeping: "Sleeping",
	StateWaiting:  "Waiting",
	StateZombie:   "Zombie",
	StateStopped:  "Stopped",
	StateTracing:  "Tracing",
	StateDead:     "Dead",
	StateWakeKill: "WakeKill",
	StateWaking:   "Waking",
	StateParked:   "Parked",
	StateIdle:     "Idle",
	StateUnknown:  "Unknown",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return stateNames[StateUnknown]
	}
	return stateNames[s]
}

// StateFromCode maps the single letter state found in /proc/<pid>/stat
func StateFromCode(code byte) State {
	switch code {
	case 'R':
		return StateRunning
	case 'S':
		return StateSleeping
	case 'D':
		return StateWaiting
	case 'Z':
		return StateZombie
	case 'T':
		return StateStopped
	case 't':
		return StateTracing
	case 'X', 'x':
		return StateDead
	case 'K':
		return StateWakeKill
	case 'W':
		return StateWaking
	case 'P':
		return StateParked
	case 'I':
		return StateIdle
	default:
		return StateUnknown
	}
}
