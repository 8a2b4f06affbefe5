package capabilities

import (
	"net/url"
	"strconv"

	"github.com/derkuci/prefect/pkg/query"
	"github.com/derkuci/prefect/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "capability_sets", "cs").
	Project("id", "ID").
	Project("subject", "Subject").
	Project("work_pools", "WorkPools").
	Project("read_work_pool", "ReadWorkPool").
	Project("artifacts", "Artifacts").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

var defaultSort = query.SortField{Field: "Subject"}

// Filters contains optional filtering criteria for capability queries.
// Nil fields are ignored. Subject uses case-insensitive contains matching;
// the flag filters use exact matching.
type Filters struct {
	Subject      *string `json:"subject,omitempty"`
	WorkPools    *bool   `json:"work_pools,omitempty"`
	ReadWorkPool *bool   `json:"read_work_pool,omitempty"`
	Artifacts    *bool   `json:"artifacts,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereContains("Subject", f.Subject).
		WhereEquals("WorkPools", f.WorkPools).
		WhereEquals("ReadWorkPool", f.ReadWorkPool).
		WhereEquals("Artifacts", f.Artifacts)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if s := values.Get("subject"); s != "" {
		f.Subject = &s
	}
	if v := values.Get("work_pools"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			f.WorkPools = &b
		}
	}
	if v := values.Get("read_work_pool"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			f.ReadWorkPool = &b
		}
	}
	if v := values.Get("artifacts"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			f.Artifacts = &b
		}
	}

	return f
}

func scanCapabilitySet(s repository.Scanner) (CapabilitySet, error) {
	var cs CapabilitySet
	err := s.Scan(
		&cs.ID,
		&cs.Subject,
		&cs.WorkPools,
		&cs.ReadWorkPool,
		&cs.Artifacts,
		&cs.CreatedAt,
		&cs.UpdatedAt,
	)
	return cs, err
}
