package flowruns

// State is the lifecycle state of a flow run.
type State string

// Run states. A run enters the catalog as scheduled or pending, moves
// through running, and settles in exactly one terminal state.
const (
	StateScheduled State = "scheduled"
	StatePending   State = "pending"
	StateRunning   State = "running"
	StateCompleted State = "completed"
	StateFailed    State = "failed"
	StateCancelled State = "cancelled"
	StateCrashed   State = "crashed"
)

// States lists every valid run state in lifecycle order.
var States = []State{
	StateScheduled,
	StatePending,
	StateRunning,
	StateCompleted,
	StateFailed,
	StateCancelled,
	StateCrashed,
}

// IsValid reports whether s names a known run state.
func (s State) IsValid() bool {
	switch s {
	case StateScheduled, StatePending, StateRunning,
		StateCompleted, StateFailed, StateCancelled, StateCrashed:
		return true
	}
	return false
}

// IsTerminal reports whether s is a settled state. Terminal runs are
// frozen; no further state changes are accepted.
func (s State) IsTerminal() bool {
	switch s {
	case StateCompleted, StateFailed, StateCancelled, StateCrashed:
		return true
	}
	return false
}
