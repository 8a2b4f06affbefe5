package flows_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/derkuci/prefect/internal/flows"
	"github.com/derkuci/prefect/pkg/pagination"
)

type mockSystem struct {
	listFn       func(ctx context.Context, page pagination.PageRequest, filters flows.Filters) (*pagination.PageResult[flows.Flow], error)
	findFn       func(ctx context.Context, id uuid.UUID) (*flows.Flow, error)
	findByNameFn func(ctx context.Context, name string) (*flows.Flow, error)
	createFn     func(ctx context.Context, cmd flows.CreateCommand) (*flows.Flow, error)
	updateFn     func(ctx context.Context, id uuid.UUID, cmd flows.UpdateCommand) (*flows.Flow, error)
	deleteFn     func(ctx context.Context, id uuid.UUID) error
}

func (m *mockSystem) Handler() *flows.Handler {
	return newTestHandler(m)
}

func (m *mockSystem) List(ctx context.Context, page pagination.PageRequest, filters flows.Filters) (*pagination.PageResult[flows.Flow], error) {
	return m.listFn(ctx, page, filters)
}

func (m *mockSystem) Find(ctx context.Context, id uuid.UUID) (*flows.Flow, error) {
	return m.findFn(ctx, id)
}

func (m *mockSystem) FindByName(ctx context.Context, name string) (*flows.Flow, error) {
	return m.findByNameFn(ctx, name)
}

func (m *mockSystem) Create(ctx context.Context, cmd flows.CreateCommand) (*flows.Flow, error) {
	return m.createFn(ctx, cmd)
}

func (m *mockSystem) Update(ctx context.Context, id uuid.UUID, cmd flows.UpdateCommand) (*flows.Flow, error) {
	return m.updateFn(ctx, id, cmd)
}

func (m *mockSystem) Delete(ctx context.Context, id uuid.UUID) error {
	return m.deleteFn(ctx, id)
}

func newTestHandler(sys *mockSystem) *flows.Handler {
	return flows.NewHandler(
		sys,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		pagination.Config{DefaultPageSize: 20, MaxPageSize: 100},
	)
}

func setupMux(h *flows.Handler) *http.ServeMux {
	mux := http.NewServeMux()
	group := h.Routes()
	for _, route := range group.Routes {
		pattern := route.Method + " " + group.Prefix + route.Pattern
		mux.HandleFunc(pattern, route.Handler)
	}
	return mux
}

func sampleFlow() flows.Flow {
	now := time.Now().Truncate(time.Second)
	return flows.Flow{
		ID:                uuid.MustParse("550e8400-e29b-41d4-a716-446655440000"),
		Name:              "etl-orders",
		Description:       "Nightly order sync",
		Tags:              []string{"etl", "orders"},
		Retries:           3,
		RetryDelaySeconds: 60,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

func TestHandlerList(t *testing.T) {
	flow := sampleFlow()

	t.Run("returns paginated list", func(t *testing.T) {
		sys := &mockSystem{
			listFn: func(_ context.Context, _ pagination.PageRequest, _ flows.Filters) (*pagination.PageResult[flows.Flow], error) {
				result := pagination.NewPageResult([]flows.Flow{flow}, 1, 1, 20)
				return &result, nil
			},
		}
		mux := setupMux(newTestHandler(sys))

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/flows", nil)
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}

		var result pagination.PageResult[flows.Flow]
		if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if len(result.Data) != 1 || result.Data[0].Name != flow.Name {
			t.Errorf("data = %+v, want one flow named %s", result.Data, flow.Name)
		}
	})

	t.Run("passes name and tag filters", func(t *testing.T) {
		var captured flows.Filters
		sys := &mockSystem{
			listFn: func(_ context.Context, _ pagination.PageRequest, f flows.Filters) (*pagination.PageResult[flows.Flow], error) {
				captured = f
				result := pagination.NewPageResult([]flows.Flow{}, 0, 1, 20)
				return &result, nil
			},
		}
		mux := setupMux(newTestHandler(sys))

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/flows?name=etl&tag=orders", nil)
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if captured.Name == nil || *captured.Name != "etl" {
			t.Errorf("name filter = %v, want etl", captured.Name)
		}
		if captured.Tag == nil || *captured.Tag != "orders" {
			t.Errorf("tag filter = %v, want orders", captured.Tag)
		}
	})
}

func TestHandlerSearch(t *testing.T) {
	t.Run("accepts filters in body", func(t *testing.T) {
		var captured flows.Filters
		var capturedPage pagination.PageRequest
		sys := &mockSystem{
			listFn: func(_ context.Context, page pagination.PageRequest, f flows.Filters) (*pagination.PageResult[flows.Flow], error) {
				captured = f
				capturedPage = page
				result := pagination.NewPageResult([]flows.Flow{}, 0, 1, 20)
				return &result, nil
			},
		}
		mux := setupMux(newTestHandler(sys))

		body := []byte(`{"page":2,"page_size":10,"name":"etl"}`)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/flows/search", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if captured.Name == nil || *captured.Name != "etl" {
			t.Errorf("name filter = %v, want etl", captured.Name)
		}
		if capturedPage.Page != 2 || capturedPage.PageSize != 10 {
			t.Errorf("page = %+v, want page 2 size 10", capturedPage)
		}
	})

	t.Run("invalid json returns 400", func(t *testing.T) {
		mux := setupMux(newTestHandler(&mockSystem{}))

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/flows/search", bytes.NewReader([]byte("not json")))
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})
}

func TestHandlerFind(t *testing.T) {
	flow := sampleFlow()

	t.Run("returns a flow", func(t *testing.T) {
		sys := &mockSystem{
			findFn: func(_ context.Context, id uuid.UUID) (*flows.Flow, error) {
				if id != flow.ID {
					t.Errorf("id = %v, want %v", id, flow.ID)
				}
				return &flow, nil
			},
		}
		mux := setupMux(newTestHandler(sys))

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/flows/"+flow.ID.String(), nil)
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
	})

	t.Run("invalid uuid returns 400", func(t *testing.T) {
		mux := setupMux(newTestHandler(&mockSystem{}))

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/flows/not-a-uuid", nil)
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("not found returns 404", func(t *testing.T) {
		sys := &mockSystem{
			findFn: func(_ context.Context, _ uuid.UUID) (*flows.Flow, error) {
				return nil, flows.ErrNotFound
			},
		}
		mux := setupMux(newTestHandler(sys))

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/flows/"+uuid.New().String(), nil)
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
	})
}

func TestHandlerFindByName(t *testing.T) {
	flow := sampleFlow()
	sys := &mockSystem{
		findByNameFn: func(_ context.Context, name string) (*flows.Flow, error) {
			if name != flow.Name {
				return nil, flows.ErrNotFound
			}
			return &flow, nil
		},
	}
	mux := setupMux(newTestHandler(sys))

	t.Run("returns the named flow", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/flows/name/"+flow.Name, nil)
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}

		var got flows.Flow
		if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if got.ID != flow.ID {
			t.Errorf("id = %v, want %v", got.ID, flow.ID)
		}
	})

	t.Run("unknown name returns 404", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/flows/name/missing", nil)
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
	})
}

func TestHandlerCreate(t *testing.T) {
	flow := sampleFlow()

	t.Run("registers a flow", func(t *testing.T) {
		var captured flows.CreateCommand
		sys := &mockSystem{
			createFn: func(_ context.Context, cmd flows.CreateCommand) (*flows.Flow, error) {
				captured = cmd
				return &flow, nil
			},
		}
		mux := setupMux(newTestHandler(sys))

		body, _ := json.Marshal(flows.CreateCommand{
			Name:    flow.Name,
			Tags:    flow.Tags,
			Retries: 3,
		})

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/flows", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("status = %d, want 201", rec.Code)
		}
		if captured.Name != flow.Name {
			t.Errorf("name = %s, want %s", captured.Name, flow.Name)
		}
	})

	t.Run("duplicate name returns 409", func(t *testing.T) {
		sys := &mockSystem{
			createFn: func(_ context.Context, _ flows.CreateCommand) (*flows.Flow, error) {
				return nil, flows.ErrDuplicate
			},
		}
		mux := setupMux(newTestHandler(sys))

		body, _ := json.Marshal(flows.CreateCommand{Name: flow.Name})

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/flows", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusConflict {
			t.Errorf("status = %d, want 409", rec.Code)
		}
	})

	t.Run("empty name returns 400", func(t *testing.T) {
		sys := &mockSystem{
			createFn: func(_ context.Context, _ flows.CreateCommand) (*flows.Flow, error) {
				return nil, flows.ErrInvalidName
			},
		}
		mux := setupMux(newTestHandler(sys))

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/flows", bytes.NewReader([]byte(`{}`)))
		req.Header.Set("Content-Type", "application/json")
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})
}

func TestHandlerUpdate(t *testing.T) {
	flow := sampleFlow()

	t.Run("updates mutable fields", func(t *testing.T) {
		var captured flows.UpdateCommand
		sys := &mockSystem{
			updateFn: func(_ context.Context, id uuid.UUID, cmd flows.UpdateCommand) (*flows.Flow, error) {
				if id != flow.ID {
					t.Errorf("id = %v, want %v", id, flow.ID)
				}
				captured = cmd
				return &flow, nil
			},
		}
		mux := setupMux(newTestHandler(sys))

		body, _ := json.Marshal(flows.UpdateCommand{
			Description: "updated",
			Retries:     5,
		})

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("PUT", "/flows/"+flow.ID.String(), bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if captured.Description != "updated" || captured.Retries != 5 {
			t.Errorf("cmd = %+v, want updated description and 5 retries", captured)
		}
	})

	t.Run("negative retries returns 400", func(t *testing.T) {
		sys := &mockSystem{
			updateFn: func(_ context.Context, _ uuid.UUID, _ flows.UpdateCommand) (*flows.Flow, error) {
				return nil, flows.ErrInvalidRetryPolicy
			},
		}
		mux := setupMux(newTestHandler(sys))

		body, _ := json.Marshal(flows.UpdateCommand{Retries: -1})

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("PUT", "/flows/"+flow.ID.String(), bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})
}

func TestHandlerDelete(t *testing.T) {
	t.Run("deletes a flow", func(t *testing.T) {
		sys := &mockSystem{
			deleteFn: func(_ context.Context, _ uuid.UUID) error { return nil },
		}
		mux := setupMux(newTestHandler(sys))

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("DELETE", "/flows/"+uuid.New().String(), nil)
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusNoContent {
			t.Errorf("status = %d, want 204", rec.Code)
		}
	})

	t.Run("not found returns 404", func(t *testing.T) {
		sys := &mockSystem{
			deleteFn: func(_ context.Context, _ uuid.UUID) error {
				return flows.ErrNotFound
			},
		}
		mux := setupMux(newTestHandler(sys))

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("DELETE", "/flows/"+uuid.New().String(), nil)
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
	})
}
