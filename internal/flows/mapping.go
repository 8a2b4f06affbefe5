package flows

import (
	"encoding/json"
	"net/url"

	"github.com/derkuci/prefect/pkg/query"
	"github.com/derkuci/prefect/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "flows", "f").
	Project("id", "ID").
	Project("name", "Name").
	Project("description", "Description").
	Project("tags", "Tags").
	Project("retries", "Retries").
	Project("retry_delay_seconds", "RetryDelaySeconds").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

var defaultSort = query.SortField{Field: "Name"}

// Filters contains optional filtering criteria for flow queries.
// Name uses case-insensitive contains matching; Tag matches flows whose
// tag list contains the given value.
type Filters struct {
	Name *string `json:"name,omitempty"`
	Tag  *string `json:"tag,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	b.WhereContains("Name", f.Name)
	if f.Tag != nil {
		if tag, err := json.Marshal([]string{*f.Tag}); err == nil {
			b.WhereJSONContains("Tags", string(tag))
		}
	}
	return b
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if v := values.Get("name"); v != "" {
		f.Name = &v
	}
	if v := values.Get("tag"); v != "" {
		f.Tag = &v
	}

	return f
}

func scanFlow(s repository.Scanner) (Flow, error) {
	var (
		f    Flow
		tags []byte
	)

	err := s.Scan(
		&f.ID,
		&f.Name,
		&f.Description,
		&tags,
		&f.Retries,
		&f.RetryDelaySeconds,
		&f.CreatedAt,
		&f.UpdatedAt,
	)
	if err != nil {
		return f, err
	}

	if err := json.Unmarshal(tags, &f.Tags); err != nil {
		return f, err
	}
	if f.Tags == nil {
		f.Tags = []string{}
	}

	return f, nil
}

func encodeTags(tags []string) ([]byte, error) {
	if tags == nil {
		tags = []string{}
	}
	return json.Marshal(tags)
}
