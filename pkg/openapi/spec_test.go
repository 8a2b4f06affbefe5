package openapi_test

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/derkuci/prefect/pkg/openapi"
)

func TestNewSpec(t *testing.T) {
	spec := openapi.NewSpec("Test API", "1.0.0")

	if spec.OpenAPI != "3.1.0" {
		t.Errorf("openapi = %s, want 3.1.0", spec.OpenAPI)
	}
	if spec.Info.Title != "Test API" {
		t.Errorf("title = %s", spec.Info.Title)
	}

	for _, name := range []string{"BadRequest", "Unauthorized", "NotFound", "Conflict"} {
		if _, ok := spec.Components.Responses[name]; !ok {
			t.Errorf("missing shared response %s", name)
		}
	}
	if _, ok := spec.Components.Schemas["PageRequest"]; !ok {
		t.Error("missing PageRequest schema")
	}
}

func TestRefs(t *testing.T) {
	if got := openapi.SchemaRef("Flow").Ref; got != "#/components/schemas/Flow" {
		t.Errorf("schema ref = %s", got)
	}
	if got := openapi.ResponseRef("NotFound").Ref; got != "#/components/responses/NotFound" {
		t.Errorf("response ref = %s", got)
	}
}

func TestRequestBodyJSON(t *testing.T) {
	body := openapi.RequestBodyJSON("FlowCreate", true)

	if !body.Required {
		t.Error("required = false, want true")
	}
	mt, ok := body.Content["application/json"]
	if !ok {
		t.Fatal("missing application/json content")
	}
	if mt.Schema.Ref != "#/components/schemas/FlowCreate" {
		t.Errorf("schema ref = %s", mt.Schema.Ref)
	}
}

func TestAddSchemas(t *testing.T) {
	spec := openapi.NewSpec("Test API", "1.0.0")
	spec.Components.AddSchemas(map[string]*openapi.Schema{
		"Flow": {Type: "object"},
	})

	if _, ok := spec.Components.Schemas["Flow"]; !ok {
		t.Error("added schema not present")
	}
	if _, ok := spec.Components.Schemas["PageRequest"]; !ok {
		t.Error("shared schema lost after merge")
	}
}

func TestMarshalJSON(t *testing.T) {
	spec := openapi.NewSpec("Test API", "1.0.0")
	spec.AddServer("/api")
	spec.Paths["/flows"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary: "List flows",
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("A page of flows", "Flow"),
			},
		},
	}

	data, err := openapi.MarshalJSON(spec)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	paths := doc["paths"].(map[string]any)
	flows := paths["/flows"].(map[string]any)
	get := flows["get"].(map[string]any)
	responses := get["responses"].(map[string]any)
	if _, ok := responses["200"]; !ok {
		t.Error("status code key not serialized as string")
	}
}

func TestServeSpec(t *testing.T) {
	payload := []byte(`{"openapi":"3.1.0"}`)
	handler := openapi.ServeSpec(payload)

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest("GET", "/openapi.json", nil))

	if rec.Code != 200 {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
		t.Errorf("content type = %s", ct)
	}
	if rec.Body.String() != string(payload) {
		t.Errorf("body = %s", rec.Body.String())
	}
}
