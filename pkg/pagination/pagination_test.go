package pagination_test

import (
	"encoding/json"
	"net/url"
	"testing"

	"github.com/derkuci/prefect/pkg/pagination"
)

var testConfig = pagination.Config{DefaultPageSize: 20, MaxPageSize: 100}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		req      pagination.PageRequest
		page     int
		pageSize int
	}{
		{"zero values", pagination.PageRequest{}, 1, 20},
		{"negative page", pagination.PageRequest{Page: -1, PageSize: 10}, 1, 10},
		{"oversized page size clamped", pagination.PageRequest{Page: 2, PageSize: 500}, 2, 100},
		{"valid values kept", pagination.PageRequest{Page: 3, PageSize: 50}, 3, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.req.Normalize(testConfig)
			if tt.req.Page != tt.page {
				t.Errorf("page = %d, want %d", tt.req.Page, tt.page)
			}
			if tt.req.PageSize != tt.pageSize {
				t.Errorf("page size = %d, want %d", tt.req.PageSize, tt.pageSize)
			}
		})
	}
}

func TestOffset(t *testing.T) {
	req := pagination.PageRequest{Page: 3, PageSize: 25}
	if got := req.Offset(); got != 50 {
		t.Errorf("offset = %d, want 50", got)
	}
}

func TestPageRequestFromQuery(t *testing.T) {
	t.Run("parses all parameters", func(t *testing.T) {
		values := url.Values{
			"page":      {"2"},
			"page_size": {"30"},
			"search":    {"etl"},
			"sort":      {"name,-created_at"},
		}

		req := pagination.PageRequestFromQuery(values, testConfig)

		if req.Page != 2 || req.PageSize != 30 {
			t.Errorf("page = %d/%d, want 2/30", req.Page, req.PageSize)
		}
		if req.Search == nil || *req.Search != "etl" {
			t.Errorf("search = %v, want etl", req.Search)
		}
		if len(req.Sort) != 2 || !req.Sort[1].Descending {
			t.Errorf("sort = %v, want name asc, created_at desc", req.Sort)
		}
	})

	t.Run("empty query normalized", func(t *testing.T) {
		req := pagination.PageRequestFromQuery(url.Values{}, testConfig)

		if req.Page != 1 || req.PageSize != 20 {
			t.Errorf("page = %d/%d, want 1/20", req.Page, req.PageSize)
		}
		if req.Search != nil {
			t.Errorf("search = %v, want nil", req.Search)
		}
	})
}

func TestSortFieldsUnmarshal(t *testing.T) {
	t.Run("compact string form", func(t *testing.T) {
		var req pagination.PageRequest
		if err := json.Unmarshal([]byte(`{"sort":"name,-created_at"}`), &req); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if len(req.Sort) != 2 || req.Sort[0].Field != "name" || !req.Sort[1].Descending {
			t.Errorf("sort = %v", req.Sort)
		}
	})

	t.Run("object array form", func(t *testing.T) {
		var req pagination.PageRequest
		body := `{"sort":[{"field":"name"},{"field":"created_at","descending":true}]}`
		if err := json.Unmarshal([]byte(body), &req); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if len(req.Sort) != 2 || !req.Sort[1].Descending {
			t.Errorf("sort = %v", req.Sort)
		}
	})
}

func TestNewPageResult(t *testing.T) {
	t.Run("computes total pages", func(t *testing.T) {
		result := pagination.NewPageResult([]int{1, 2, 3}, 45, 1, 20)

		if result.TotalPages != 3 {
			t.Errorf("total pages = %d, want 3", result.TotalPages)
		}
	})

	t.Run("empty result keeps one page", func(t *testing.T) {
		result := pagination.NewPageResult([]int{}, 0, 1, 20)

		if result.TotalPages != 1 {
			t.Errorf("total pages = %d, want 1", result.TotalPages)
		}
	})

	t.Run("nil data becomes empty slice", func(t *testing.T) {
		result := pagination.NewPageResult[int](nil, 0, 1, 20)

		if result.Data == nil {
			t.Error("data = nil, want empty slice")
		}

		body, err := json.Marshal(result)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		if string(body) == "" || !json.Valid(body) {
			t.Fatalf("invalid json: %s", body)
		}
		var decoded map[string]any
		json.Unmarshal(body, &decoded)
		if _, ok := decoded["data"].([]any); !ok {
			t.Errorf("data serialized as %T, want array", decoded["data"])
		}
	})
}
