package query_test

import (
	"strings"
	"testing"

	"github.com/derkuci/prefect/pkg/query"
)

func testProjection() *query.ProjectionMap {
	return query.
		NewProjectionMap("public", "flows", "f").
		Project("id", "ID").
		Project("name", "Name").
		Project("tags", "Tags").
		Project("created_at", "CreatedAt")
}

func TestBuild(t *testing.T) {
	t.Run("no conditions", func(t *testing.T) {
		sql, args := query.NewBuilder(testProjection()).Build()

		want := "SELECT f.id, f.name, f.tags, f.created_at FROM public.flows f"
		if sql != want {
			t.Errorf("sql = %q, want %q", sql, want)
		}
		if len(args) != 0 {
			t.Errorf("args = %v, want none", args)
		}
	})

	t.Run("conditions numbered in order", func(t *testing.T) {
		name := "etl"
		sql, args := query.NewBuilder(testProjection()).
			WhereEquals("ID", "abc").
			WhereContains("Name", &name).
			Build()

		if !strings.Contains(sql, "WHERE f.id = $1 AND f.name ILIKE $2") {
			t.Errorf("sql = %q, want numbered conditions", sql)
		}
		if len(args) != 2 {
			t.Fatalf("args = %v, want 2", args)
		}
		if args[1] != "%etl%" {
			t.Errorf("args[1] = %v, want %%etl%%", args[1])
		}
	})

	t.Run("nil values skipped", func(t *testing.T) {
		var nilStr *string
		sql, args := query.NewBuilder(testProjection()).
			WhereEquals("ID", nilStr).
			WhereContains("Name", nil).
			Build()

		if strings.Contains(sql, "WHERE") {
			t.Errorf("sql = %q, want no WHERE", sql)
		}
		if len(args) != 0 {
			t.Errorf("args = %v, want none", args)
		}
	})

	t.Run("json containment", func(t *testing.T) {
		sql, args := query.NewBuilder(testProjection()).
			WhereJSONContains("Tags", `["etl"]`).
			Build()

		if !strings.Contains(sql, "f.tags @> $1::jsonb") {
			t.Errorf("sql = %q, want jsonb containment", sql)
		}
		if len(args) != 1 || args[0] != `["etl"]` {
			t.Errorf("args = %v, want json text", args)
		}
	})

	t.Run("search spans fields", func(t *testing.T) {
		search := "report"
		sql, args := query.NewBuilder(testProjection()).
			WhereSearch(&search, "Name", "ID").
			Build()

		if !strings.Contains(sql, "(f.name ILIKE $1 OR f.id ILIKE $2)") {
			t.Errorf("sql = %q, want OR group", sql)
		}
		if len(args) != 2 {
			t.Errorf("args = %v, want 2", args)
		}
	})
}

func TestBuildOrdering(t *testing.T) {
	t.Run("default sort applies", func(t *testing.T) {
		sql, _ := query.NewBuilder(testProjection(), query.SortField{Field: "Name"}).Build()

		if !strings.HasSuffix(sql, "ORDER BY f.name ASC") {
			t.Errorf("sql = %q, want default order", sql)
		}
	})

	t.Run("explicit sort overrides default", func(t *testing.T) {
		sql, _ := query.NewBuilder(testProjection(), query.SortField{Field: "Name"}).
			OrderByFields([]query.SortField{{Field: "CreatedAt", Descending: true}}).
			Build()

		if !strings.HasSuffix(sql, "ORDER BY f.created_at DESC") {
			t.Errorf("sql = %q, want explicit order", sql)
		}
	})
}

func TestBuildCount(t *testing.T) {
	name := "etl"
	sql, args := query.NewBuilder(testProjection()).
		WhereContains("Name", &name).
		BuildCount()

	want := "SELECT COUNT(*) FROM public.flows f WHERE f.name ILIKE $1"
	if sql != want {
		t.Errorf("sql = %q, want %q", sql, want)
	}
	if len(args) != 1 {
		t.Errorf("args = %v, want 1", args)
	}
}

func TestBuildPage(t *testing.T) {
	sql, _ := query.NewBuilder(testProjection(), query.SortField{Field: "Name"}).
		BuildPage(3, 25)

	if !strings.HasSuffix(sql, "LIMIT 25 OFFSET 50") {
		t.Errorf("sql = %q, want limit and offset", sql)
	}
}

func TestBuildSingle(t *testing.T) {
	sql, args := query.NewBuilder(testProjection()).BuildSingle("ID", "abc")

	if !strings.HasSuffix(sql, "WHERE f.id = $1") {
		t.Errorf("sql = %q, want id match", sql)
	}
	if len(args) != 1 || args[0] != "abc" {
		t.Errorf("args = %v, want [abc]", args)
	}
}

func TestBuildSingleOrNull(t *testing.T) {
	name := "etl-orders"
	sql, args := query.NewBuilder(testProjection()).
		WhereEquals("Name", &name).
		BuildSingleOrNull()

	if !strings.HasSuffix(sql, "WHERE f.name = $1 LIMIT 1") {
		t.Errorf("sql = %q, want single row", sql)
	}
	if len(args) != 1 {
		t.Errorf("args = %v, want 1", args)
	}
}

func TestParseSortFields(t *testing.T) {
	tests := []struct {
		input string
		want  []query.SortField
	}{
		{"", nil},
		{"name", []query.SortField{{Field: "name"}}},
		{"-created_at", []query.SortField{{Field: "created_at", Descending: true}}},
		{"name,-created_at", []query.SortField{
			{Field: "name"},
			{Field: "created_at", Descending: true},
		}},
		{" name , ", []query.SortField{{Field: "name"}}},
	}

	for _, tt := range tests {
		got := query.ParseSortFields(tt.input)
		if len(got) != len(tt.want) {
			t.Errorf("ParseSortFields(%q) = %v, want %v", tt.input, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("ParseSortFields(%q)[%d] = %v, want %v", tt.input, i, got[i], tt.want[i])
			}
		}
	}
}
