package flowruns

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Run is a recorded execution of a flow. The catalog tracks run identity,
// state, and timing; it does not schedule or execute anything.
type Run struct {
	ID           uuid.UUID       `json:"id"`
	FlowID       uuid.UUID       `json:"flow_id"`
	Name         string          `json:"name"`
	State        State           `json:"state"`
	StateMessage string          `json:"state_message"`
	Parameters   json.RawMessage `json:"parameters"`
	StartedAt    *time.Time      `json:"started_at"`
	EndedAt      *time.Time      `json:"ended_at"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// CreateCommand carries the fields accepted when recording a run.
// An empty Name is replaced with a generated one; an empty State
// defaults to scheduled.
type CreateCommand struct {
	FlowID     uuid.UUID       `json:"flow_id"`
	Name       string          `json:"name"`
	State      State           `json:"state"`
	Parameters json.RawMessage `json:"parameters"`
}

// SetStateCommand carries the target state for a run transition and an
// optional message describing it.
type SetStateCommand struct {
	State   State  `json:"state"`
	Message string `json:"message"`
}

func (c *CreateCommand) normalize() error {
	if c.FlowID == uuid.Nil {
		return ErrInvalidFlowID
	}
	if c.Name == "" {
		c.Name = GenerateName()
	}
	if c.State == "" {
		c.State = StateScheduled
	}
	if !c.State.IsValid() {
		return ErrInvalidState
	}
	if len(c.Parameters) == 0 {
		c.Parameters = json.RawMessage("{}")
	}
	return nil
}
