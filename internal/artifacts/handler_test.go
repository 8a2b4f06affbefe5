package artifacts_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/derkuci/prefect/internal/artifacts"
	"github.com/derkuci/prefect/pkg/pagination"
)

type mockSystem struct {
	listFn        func(ctx context.Context, page pagination.PageRequest, filters artifacts.Filters) (*pagination.PageResult[artifacts.Artifact], error)
	findFn        func(ctx context.Context, id uuid.UUID) (*artifacts.Artifact, error)
	uploadFn      func(ctx context.Context, cmd artifacts.UploadCommand) (*artifacts.Artifact, error)
	uploadBatchFn func(ctx context.Context, cmds []artifacts.UploadCommand) ([]artifacts.Artifact, error)
	downloadFn    func(ctx context.Context, id uuid.UUID) (*artifacts.Artifact, io.ReadCloser, error)
	deleteFn      func(ctx context.Context, id uuid.UUID) error
}

func (m *mockSystem) Handler() *artifacts.Handler {
	return newTestHandler(m)
}

func (m *mockSystem) List(ctx context.Context, page pagination.PageRequest, filters artifacts.Filters) (*pagination.PageResult[artifacts.Artifact], error) {
	return m.listFn(ctx, page, filters)
}

func (m *mockSystem) Find(ctx context.Context, id uuid.UUID) (*artifacts.Artifact, error) {
	return m.findFn(ctx, id)
}

func (m *mockSystem) Upload(ctx context.Context, cmd artifacts.UploadCommand) (*artifacts.Artifact, error) {
	return m.uploadFn(ctx, cmd)
}

func (m *mockSystem) UploadBatch(ctx context.Context, cmds []artifacts.UploadCommand) ([]artifacts.Artifact, error) {
	return m.uploadBatchFn(ctx, cmds)
}

func (m *mockSystem) Download(ctx context.Context, id uuid.UUID) (*artifacts.Artifact, io.ReadCloser, error) {
	return m.downloadFn(ctx, id)
}

func (m *mockSystem) Delete(ctx context.Context, id uuid.UUID) error {
	return m.deleteFn(ctx, id)
}

func newTestHandler(sys *mockSystem) *artifacts.Handler {
	return artifacts.NewHandler(
		sys,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		pagination.Config{DefaultPageSize: 20, MaxPageSize: 100},
		1<<20,
	)
}

func setupMux(h *artifacts.Handler) *http.ServeMux {
	mux := http.NewServeMux()
	group := h.Routes()
	for _, route := range group.Routes {
		pattern := route.Method + " " + group.Prefix + route.Pattern
		mux.HandleFunc(pattern, route.Handler)
	}
	return mux
}

func sampleArtifact() artifacts.Artifact {
	now := time.Now().Truncate(time.Second)
	return artifacts.Artifact{
		ID:          uuid.MustParse("550e8400-e29b-41d4-a716-446655440000"),
		Key:         "report.csv",
		Description: "Daily report",
		ContentType: "text/csv",
		SizeBytes:   42,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func multipartBody(t *testing.T, field string, files map[string]string, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	for name, content := range files {
		part, err := writer.CreateFormFile(field, name)
		if err != nil {
			t.Fatalf("create part: %v", err)
		}
		if _, err := part.Write([]byte(content)); err != nil {
			t.Fatalf("write part: %v", err)
		}
	}

	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}

	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	return &buf, writer.FormDataContentType()
}

func TestHandlerList(t *testing.T) {
	artifact := sampleArtifact()

	t.Run("returns paginated list", func(t *testing.T) {
		sys := &mockSystem{
			listFn: func(_ context.Context, _ pagination.PageRequest, _ artifacts.Filters) (*pagination.PageResult[artifacts.Artifact], error) {
				result := pagination.NewPageResult([]artifacts.Artifact{artifact}, 1, 1, 20)
				return &result, nil
			},
		}
		mux := setupMux(newTestHandler(sys))

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/artifacts", nil)
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}

		var result pagination.PageResult[artifacts.Artifact]
		if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if len(result.Data) != 1 || result.Data[0].Key != artifact.Key {
			t.Errorf("data = %+v, want one artifact keyed %s", result.Data, artifact.Key)
		}
	})

	t.Run("passes flow run filter", func(t *testing.T) {
		runID := uuid.New()
		var captured artifacts.Filters
		sys := &mockSystem{
			listFn: func(_ context.Context, _ pagination.PageRequest, f artifacts.Filters) (*pagination.PageResult[artifacts.Artifact], error) {
				captured = f
				result := pagination.NewPageResult([]artifacts.Artifact{}, 0, 1, 20)
				return &result, nil
			},
		}
		mux := setupMux(newTestHandler(sys))

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/artifacts?flow_run_id="+runID.String(), nil)
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if captured.FlowRunID == nil || *captured.FlowRunID != runID {
			t.Errorf("flow run filter = %v, want %v", captured.FlowRunID, runID)
		}
	})
}

func TestHandlerUpload(t *testing.T) {
	artifact := sampleArtifact()

	t.Run("uploads a file", func(t *testing.T) {
		var captured artifacts.UploadCommand
		var payload []byte
		sys := &mockSystem{
			uploadFn: func(_ context.Context, cmd artifacts.UploadCommand) (*artifacts.Artifact, error) {
				captured = cmd
				payload, _ = io.ReadAll(cmd.Payload)
				return &artifact, nil
			},
		}
		mux := setupMux(newTestHandler(sys))

		body, contentType := multipartBody(t,
			"file",
			map[string]string{"report.csv": "a,b,c"},
			map[string]string{"description": "Daily report"},
		)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/artifacts", body)
		req.Header.Set("Content-Type", contentType)
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("status = %d, want 201", rec.Code)
		}
		if captured.Key != "report.csv" {
			t.Errorf("key = %s, want report.csv", captured.Key)
		}
		if captured.Description != "Daily report" {
			t.Errorf("description = %s, want Daily report", captured.Description)
		}
		if string(payload) != "a,b,c" {
			t.Errorf("payload = %q, want a,b,c", payload)
		}
	})

	t.Run("explicit key overrides file name", func(t *testing.T) {
		var captured artifacts.UploadCommand
		sys := &mockSystem{
			uploadFn: func(_ context.Context, cmd artifacts.UploadCommand) (*artifacts.Artifact, error) {
				captured = cmd
				return &artifact, nil
			},
		}
		mux := setupMux(newTestHandler(sys))

		body, contentType := multipartBody(t,
			"file",
			map[string]string{"upload.bin": "data"},
			map[string]string{"key": "renamed.bin"},
		)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/artifacts", body)
		req.Header.Set("Content-Type", contentType)
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("status = %d, want 201", rec.Code)
		}
		if captured.Key != "renamed.bin" {
			t.Errorf("key = %s, want renamed.bin", captured.Key)
		}
	})

	t.Run("invalid flow run id returns 400", func(t *testing.T) {
		mux := setupMux(newTestHandler(&mockSystem{}))

		body, contentType := multipartBody(t,
			"file",
			map[string]string{"report.csv": "a,b,c"},
			map[string]string{"flow_run_id": "not-a-uuid"},
		)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/artifacts", body)
		req.Header.Set("Content-Type", contentType)
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("missing file returns 400", func(t *testing.T) {
		mux := setupMux(newTestHandler(&mockSystem{}))

		body, contentType := multipartBody(t, "file", nil, map[string]string{"key": "empty"})

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/artifacts", body)
		req.Header.Set("Content-Type", contentType)
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("oversized payload returns 413", func(t *testing.T) {
		sys := &mockSystem{
			uploadFn: func(_ context.Context, _ artifacts.UploadCommand) (*artifacts.Artifact, error) {
				return nil, artifacts.ErrTooLarge
			},
		}
		mux := setupMux(newTestHandler(sys))

		body, contentType := multipartBody(t,
			"file",
			map[string]string{"big.bin": "payload"},
			nil,
		)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/artifacts", body)
		req.Header.Set("Content-Type", contentType)
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusRequestEntityTooLarge {
			t.Errorf("status = %d, want 413", rec.Code)
		}
	})
}

func TestHandlerUploadBatch(t *testing.T) {
	t.Run("uploads every file keyed by name", func(t *testing.T) {
		var captured []artifacts.UploadCommand
		sys := &mockSystem{
			uploadBatchFn: func(_ context.Context, cmds []artifacts.UploadCommand) ([]artifacts.Artifact, error) {
				captured = cmds
				created := make([]artifacts.Artifact, len(cmds))
				for i, cmd := range cmds {
					created[i] = artifacts.Artifact{ID: uuid.New(), Key: cmd.Key}
				}
				return created, nil
			},
		}
		mux := setupMux(newTestHandler(sys))

		body, contentType := multipartBody(t,
			"files",
			map[string]string{"one.txt": "1", "two.txt": "2"},
			nil,
		)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/artifacts/batch", body)
		req.Header.Set("Content-Type", contentType)
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("status = %d, want 201", rec.Code)
		}
		if len(captured) != 2 {
			t.Fatalf("command count = %d, want 2", len(captured))
		}

		keys := map[string]bool{}
		for _, cmd := range captured {
			keys[cmd.Key] = true
		}
		if !keys["one.txt"] || !keys["two.txt"] {
			t.Errorf("keys = %v, want one.txt and two.txt", keys)
		}

		var created []artifacts.Artifact
		if err := json.NewDecoder(rec.Body).Decode(&created); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if len(created) != 2 {
			t.Errorf("created count = %d, want 2", len(created))
		}
	})

	t.Run("no files returns 400", func(t *testing.T) {
		mux := setupMux(newTestHandler(&mockSystem{}))

		body, contentType := multipartBody(t, "files", nil, map[string]string{"description": "empty"})

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/artifacts/batch", body)
		req.Header.Set("Content-Type", contentType)
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})
}

func TestHandlerDownload(t *testing.T) {
	artifact := sampleArtifact()

	t.Run("streams payload with headers", func(t *testing.T) {
		sys := &mockSystem{
			downloadFn: func(_ context.Context, id uuid.UUID) (*artifacts.Artifact, io.ReadCloser, error) {
				if id != artifact.ID {
					t.Errorf("id = %v, want %v", id, artifact.ID)
				}
				return &artifact, io.NopCloser(strings.NewReader("a,b,c")), nil
			},
		}
		mux := setupMux(newTestHandler(sys))

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/artifacts/"+artifact.ID.String()+"/download", nil)
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if got := rec.Header().Get("Content-Type"); got != "text/csv" {
			t.Errorf("content type = %s, want text/csv", got)
		}
		if got := rec.Header().Get("Content-Disposition"); !strings.Contains(got, "report.csv") {
			t.Errorf("disposition = %s, want file name", got)
		}
		if rec.Body.String() != "a,b,c" {
			t.Errorf("body = %q, want a,b,c", rec.Body.String())
		}
	})

	t.Run("not found returns 404", func(t *testing.T) {
		sys := &mockSystem{
			downloadFn: func(_ context.Context, _ uuid.UUID) (*artifacts.Artifact, io.ReadCloser, error) {
				return nil, nil, artifacts.ErrNotFound
			},
		}
		mux := setupMux(newTestHandler(sys))

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/artifacts/"+uuid.New().String()+"/download", nil)
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
	})
}

func TestHandlerDelete(t *testing.T) {
	t.Run("deletes an artifact", func(t *testing.T) {
		sys := &mockSystem{
			deleteFn: func(_ context.Context, _ uuid.UUID) error { return nil },
		}
		mux := setupMux(newTestHandler(sys))

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("DELETE", "/artifacts/"+uuid.New().String(), nil)
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusNoContent {
			t.Errorf("status = %d, want 204", rec.Code)
		}
	})

	t.Run("not found returns 404", func(t *testing.T) {
		sys := &mockSystem{
			deleteFn: func(_ context.Context, _ uuid.UUID) error {
				return artifacts.ErrNotFound
			},
		}
		mux := setupMux(newTestHandler(sys))

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("DELETE", "/artifacts/"+uuid.New().String(), nil)
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
	})
}
