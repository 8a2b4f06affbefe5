package variables

import (
	"encoding/json"
	"net/url"

	"github.com/derkuci/prefect/pkg/query"
	"github.com/derkuci/prefect/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "variables", "v").
	Project("id", "ID").
	Project("name", "Name").
	Project("value", "Value").
	Project("tags", "Tags").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

var defaultSort = query.SortField{Field: "Name"}

// Filters contains optional filtering criteria for variable queries.
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

func scanVariable(s repository.Scanner) (Variable, error) {
	var (
		v    Variable
		tags []byte
	)

	err := s.Scan(
		&v.ID,
		&v.Name,
		&v.Value,
		&tags,
		&v.CreatedAt,
		&v.UpdatedAt,
	)
	if err != nil {
		return v, err
	}

	if err := json.Unmarshal(tags, &v.Tags); err != nil {
		return v, err
	}
	if v.Tags == nil {
		v.Tags = []string{}
	}

	return v, nil
}

func encodeTags(tags []string) ([]byte, error) {
	if tags == nil {
		tags = []string{}
	}
	return json.Marshal(tags)
}
