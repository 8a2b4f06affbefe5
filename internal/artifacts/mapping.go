package artifacts

import (
	"net/url"

	"github.com/google/uuid"

	"github.com/derkuci/prefect/pkg/query"
	"github.com/derkuci/prefect/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "artifacts", "a").
	Project("id", "ID").
	Project("key", "Key").
	Project("description", "Description").
	Project("content_type", "ContentType").
	Project("size_bytes", "SizeBytes").
	Project("flow_run_id", "FlowRunID").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

var defaultSort = query.SortField{Field: "CreatedAt", Descending: true}

// Filters contains optional filtering criteria for artifact queries.
// Key uses case-insensitive contains matching; FlowRunID uses exact
// matching.
type Filters struct {
	Key       *string    `json:"key,omitempty"`
	FlowRunID *uuid.UUID `json:"flow_run_id,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereContains("Key", f.Key).
		WhereEquals("FlowRunID", f.FlowRunID)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if v := values.Get("key"); v != "" {
		f.Key = &v
	}
	if v := values.Get("flow_run_id"); v != "" {
		if id, err := uuid.Parse(v); err == nil {
			f.FlowRunID = &id
		}
	}

	return f
}

func scanArtifact(s repository.Scanner) (Artifact, error) {
	var a Artifact
	err := s.Scan(
		&a.ID,
		&a.Key,
		&a.Description,
		&a.ContentType,
		&a.SizeBytes,
		&a.FlowRunID,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	return a, err
}
