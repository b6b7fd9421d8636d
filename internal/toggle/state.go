package toggle

// State is a step of a toggle run.
type State int

const (
	StateIdle State = iota
	StateProbing
	StateProbed
	StateProbeFailed
	StateRewriting
	StateRewriteFailed
	StateApplying
	StateApplyFailed
	StateDone
)

var stateNames = map[State]string{
	StateIdle:          "idle",
	StateProbing:       "probing",
	StateProbed:        "probed",
	StateProbeFailed:   "probe-failed",
	StateRewriting:     "rewriting",
	StateRewriteFailed: "rewrite-failed",
	StateApplying:      "applying",
	StateApplyFailed:   "apply-failed",
	StateDone:          "done",
}

// String returns the state name.
func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

// Terminal reports whether a run ends in this state.
func (s State) Terminal() bool {
	switch s {
	case StateProbeFailed, StateRewriteFailed, StateApplyFailed, StateDone:
		return true
	default:
		return false
	}
}
