package flowruns

import (
	"net/url"

	"github.com/google/uuid"

	"github.com/derkuci/prefect/pkg/query"
	"github.com/derkuci/prefect/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "flow_runs", "fr").
	Project("id", "ID").
	Project("flow_id", "FlowID").
	Project("name", "Name").
	Project("state", "State").
	Project("state_message", "StateMessage").
	Project("parameters", "Parameters").
	Project("started_at", "StartedAt").
	Project("ended_at", "EndedAt").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

var defaultSort = query.SortField{Field: "CreatedAt", Descending: true}

// Filters contains optional filtering criteria for run queries.
// Name uses case-insensitive contains matching; FlowID and State use
// exact matching.
type Filters struct {
	FlowID *uuid.UUID `json:"flow_id,omitempty"`
	State  *State     `json:"state,omitempty"`
	Name   *string    `json:"name,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("FlowID", f.FlowID).
		WhereEquals("State", f.State).
		WhereContains("Name", f.Name)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if v := values.Get("flow_id"); v != "" {
		if id, err := uuid.Parse(v); err == nil {
			f.FlowID = &id
		}
	}
	if v := values.Get("state"); v != "" {
		s := State(v)
		if s.IsValid() {
			f.State = &s
		}
	}
	if v := values.Get("name"); v != "" {
		f.Name = &v
	}

	return f
}

func scanRun(s repository.Scanner) (Run, error) {
	var (
		run    Run
		params []byte
	)

	err := s.Scan(
		&run.ID,
		&run.FlowID,
		&run.Name,
		&run.State,
		&run.StateMessage,
		&params,
		&run.StartedAt,
		&run.EndedAt,
		&run.CreatedAt,
		&run.UpdatedAt,
	)
	if err != nil {
		return run, err
	}

	run.Parameters = params
	return run, nil
}
