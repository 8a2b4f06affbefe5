package api

import (
	"github.com/derkuci/prefect/internal/config"
	"github.com/derkuci/prefect/pkg/openapi"
)

func buildSpec(cfg *config.Config, version string) ([]byte, error) {
	spec := openapi.NewSpec(cfg.API.OpenAPI.Title, version)
	spec.SetDescription(cfg.API.OpenAPI.Description)
	spec.AddServer(cfg.API.BasePath)

	spec.Components.AddSchemas(domainSchemas())

	addNavigationPaths(spec)
	addCapabilityPaths(spec)
	addFlowPaths(spec)
	addFlowRunPaths(spec)
	addVariablePaths(spec)
	addArtifactPaths(spec)

	return openapi.MarshalJSON(spec)
}

func domainSchemas() map[string]*openapi.Schema {
	flags := map[string]*openapi.Schema{
		"work_pools":     {Type: "boolean", Description: "Access to work pool surfaces"},
		"read_work_pool": {Type: "boolean", Description: "Permission to read work pool details"},
		"artifacts":      {Type: "boolean", Description: "Access to the artifacts surface"},
	}

	return map[string]*openapi.Schema{
		"CapabilityFlags": {
			Type:       "object",
			Properties: flags,
		},
		"CapabilitySet": {
			Type: "object",
			Properties: merge(flags, map[string]*openapi.Schema{
				"id":         {Type: "string", Format: "uuid"},
				"subject":    {Type: "string", Description: "Principal the flags apply to"},
				"created_at": {Type: "string", Format: "date-time"},
				"updated_at": {Type: "string", Format: "date-time"},
			}),
		},
		"CapabilityCreate": {
			Type: "object",
			Properties: merge(flags, map[string]*openapi.Schema{
				"subject": {Type: "string"},
			}),
			Required: []string{"subject"},
		},
		"NavigationEntry": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"key":   {Type: "string", Example: "flow-runs"},
				"label": {Type: "string", Example: "Flow Runs"},
				"path":  {Type: "string", Example: "/runs"},
			},
		},
		"NavigationResult": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"entries": {Type: "array", Items: openapi.SchemaRef("NavigationEntry")},
				"flags":   openapi.SchemaRef("CapabilityFlags"),
			},
		},
		"Flow": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":                  {Type: "string", Format: "uuid"},
				"name":                {Type: "string"},
				"description":         {Type: "string"},
				"tags":                {Type: "array", Items: &openapi.Schema{Type: "string"}},
				"retries":             {Type: "integer"},
				"retry_delay_seconds": {Type: "integer"},
				"created_at":          {Type: "string", Format: "date-time"},
				"updated_at":          {Type: "string", Format: "date-time"},
			},
		},
		"FlowCreate": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"name":                {Type: "string"},
				"description":         {Type: "string"},
				"tags":                {Type: "array", Items: &openapi.Schema{Type: "string"}},
				"retries":             {Type: "integer"},
				"retry_delay_seconds": {Type: "integer"},
			},
			Required: []string{"name"},
		},
		"FlowRun": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":            {Type: "string", Format: "uuid"},
				"flow_id":       {Type: "string", Format: "uuid"},
				"name":          {Type: "string", Example: "brisk-otter"},
				"state":         openapi.SchemaRef("FlowRunState"),
				"state_message": {Type: "string"},
				"parameters":    {Type: "object"},
				"started_at":    {Type: "string", Format: "date-time"},
				"ended_at":      {Type: "string", Format: "date-time"},
				"created_at":    {Type: "string", Format: "date-time"},
				"updated_at":    {Type: "string", Format: "date-time"},
			},
		},
		"FlowRunState": {
			Type: "string",
			Enum: []any{
				"scheduled", "pending", "running",
				"completed", "failed", "cancelled", "crashed",
			},
		},
		"FlowRunCreate": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"flow_id":    {Type: "string", Format: "uuid"},
				"name":       {Type: "string", Description: "Generated when omitted"},
				"state":      openapi.SchemaRef("FlowRunState"),
				"parameters": {Type: "object"},
			},
			Required: []string{"flow_id"},
		},
		"FlowRunSetState": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"state":   openapi.SchemaRef("FlowRunState"),
				"message": {Type: "string"},
			},
			Required: []string{"state"},
		},
		"Variable": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":         {Type: "string", Format: "uuid"},
				"name":       {Type: "string"},
				"value":      {Type: "string"},
				"tags":       {Type: "array", Items: &openapi.Schema{Type: "string"}},
				"created_at": {Type: "string", Format: "date-time"},
				"updated_at": {Type: "string", Format: "date-time"},
			},
		},
		"VariableCreate": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"name":  {Type: "string"},
				"value": {Type: "string"},
				"tags":  {Type: "array", Items: &openapi.Schema{Type: "string"}},
			},
			Required: []string{"name"},
		},
		"Artifact": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":           {Type: "string", Format: "uuid"},
				"key":          {Type: "string"},
				"description":  {Type: "string"},
				"content_type": {Type: "string"},
				"size_bytes":   {Type: "integer", Format: "int64"},
				"flow_run_id":  {Type: "string", Format: "uuid"},
				"created_at":   {Type: "string", Format: "date-time"},
				"updated_at":   {Type: "string", Format: "date-time"},
			},
		},
	}
}

func addNavigationPaths(spec *openapi.Spec) {
	spec.Paths["/navigation"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary: "Resolve navigation for the request principal",
			Tags:    []string{"navigation"},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Navigation entries", "NavigationResult"),
			},
		},
	}
	spec.Paths["/navigation/preview"] = &openapi.PathItem{
		Post: &openapi.Operation{
			Summary:     "Preview navigation for a capability flag set",
			Tags:        []string{"navigation"},
			RequestBody: openapi.RequestBodyJSON("CapabilityFlags", true),
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Navigation entries", "NavigationResult"),
				400: openapi.ResponseRef("BadRequest"),
			},
		},
	}
}

func addCapabilityPaths(spec *openapi.Spec) {
	spec.Paths["/capabilities"] = &openapi.PathItem{
		Get:  listOperation("List capability sets", "capabilities", "CapabilitySet"),
		Post: createOperation("Register a capability set", "capabilities", "CapabilityCreate", "CapabilitySet"),
	}
	spec.Paths["/capabilities/search"] = &openapi.PathItem{
		Post: searchOperation("Search capability sets", "capabilities", "CapabilitySet"),
	}
	spec.Paths["/capabilities/{id}"] = &openapi.PathItem{
		Get:    findOperation("Get a capability set", "capabilities", "CapabilitySet"),
		Put:    updateOperation("Update capability flags", "capabilities", "CapabilityFlags", "CapabilitySet"),
		Delete: deleteOperation("Delete a capability set", "capabilities"),
	}
	spec.Paths["/capabilities/subject/{subject}"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary: "Get the capability set for a subject",
			Tags:    []string{"capabilities"},
			Parameters: []*openapi.Parameter{
				{
					Name:     "subject",
					In:       "path",
					Required: true,
					Schema:   &openapi.Schema{Type: "string"},
				},
			},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("The capability set", "CapabilitySet"),
				404: openapi.ResponseRef("NotFound"),
			},
		},
	}
}

func addFlowPaths(spec *openapi.Spec) {
	spec.Paths["/flows"] = &openapi.PathItem{
		Get:  listOperation("List flows", "flows", "Flow"),
		Post: createOperation("Register a flow", "flows", "FlowCreate", "Flow"),
	}
	spec.Paths["/flows/search"] = &openapi.PathItem{
		Post: searchOperation("Search flows", "flows", "Flow"),
	}
	spec.Paths["/flows/{id}"] = &openapi.PathItem{
		Get:    findOperation("Get a flow", "flows", "Flow"),
		Put:    updateOperation("Update a flow", "flows", "FlowCreate", "Flow"),
		Delete: deleteOperation("Delete a flow", "flows"),
	}
	spec.Paths["/flows/name/{name}"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary: "Get a flow by name",
			Tags:    []string{"flows"},
			Parameters: []*openapi.Parameter{
				{
					Name:     "name",
					In:       "path",
					Required: true,
					Schema:   &openapi.Schema{Type: "string"},
				},
			},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("The flow", "Flow"),
				404: openapi.ResponseRef("NotFound"),
			},
		},
	}
}

func addFlowRunPaths(spec *openapi.Spec) {
	spec.Paths["/runs"] = &openapi.PathItem{
		Get:  listOperation("List flow runs", "runs", "FlowRun"),
		Post: createOperation("Record a flow run", "runs", "FlowRunCreate", "FlowRun"),
	}
	spec.Paths["/runs/search"] = &openapi.PathItem{
		Post: searchOperation("Search flow runs", "runs", "FlowRun"),
	}
	spec.Paths["/runs/states"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary: "List run states in lifecycle order",
			Tags:    []string{"runs"},
			Responses: map[int]*openapi.Response{
				200: {
					Description: "All run states",
					Content: map[string]*openapi.MediaType{
						"application/json": {
							Schema: &openapi.Schema{
								Type:  "array",
								Items: openapi.SchemaRef("FlowRunState"),
							},
						},
					},
				},
			},
		},
	}
	spec.Paths["/runs/{id}"] = &openapi.PathItem{
		Get:    findOperation("Get a flow run", "runs", "FlowRun"),
		Delete: deleteOperation("Delete a flow run", "runs"),
	}
	spec.Paths["/runs/{id}/state"] = &openapi.PathItem{
		Post: &openapi.Operation{
			Summary:     "Transition a run to a new state",
			Description: "Runs in a terminal state are frozen and respond with a conflict.",
			Tags:        []string{"runs"},
			Parameters:  []*openapi.Parameter{openapi.PathParam("id", "Run id")},
			RequestBody: openapi.RequestBodyJSON("FlowRunSetState", true),
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("The updated run", "FlowRun"),
				400: openapi.ResponseRef("BadRequest"),
				404: openapi.ResponseRef("NotFound"),
				409: openapi.ResponseRef("Conflict"),
			},
		},
	}
}

func addVariablePaths(spec *openapi.Spec) {
	spec.Paths["/variables"] = &openapi.PathItem{
		Get:  listOperation("List variables", "variables", "Variable"),
		Post: createOperation("Create a variable", "variables", "VariableCreate", "Variable"),
	}
	spec.Paths["/variables/search"] = &openapi.PathItem{
		Post: searchOperation("Search variables", "variables", "Variable"),
	}
	spec.Paths["/variables/{id}"] = &openapi.PathItem{
		Get:    findOperation("Get a variable", "variables", "Variable"),
		Put:    updateOperation("Update a variable", "variables", "VariableCreate", "Variable"),
		Delete: deleteOperation("Delete a variable", "variables"),
	}
	spec.Paths["/variables/name/{name}"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary: "Get a variable by name",
			Tags:    []string{"variables"},
			Parameters: []*openapi.Parameter{
				{
					Name:     "name",
					In:       "path",
					Required: true,
					Schema:   &openapi.Schema{Type: "string"},
				},
			},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("The variable", "Variable"),
				404: openapi.ResponseRef("NotFound"),
			},
		},
	}
}

func addArtifactPaths(spec *openapi.Spec) {
	multipart := &openapi.RequestBody{
		Required: true,
		Content: map[string]*openapi.MediaType{
			"multipart/form-data": {
				Schema: &openapi.Schema{
					Type: "object",
					Properties: map[string]*openapi.Schema{
						"file":        {Type: "string", Format: "binary"},
						"key":         {Type: "string", Description: "Defaults to the file name"},
						"description": {Type: "string"},
						"flow_run_id": {Type: "string", Format: "uuid"},
					},
				},
			},
		},
	}

	spec.Paths["/artifacts"] = &openapi.PathItem{
		Get: listOperation("List artifacts", "artifacts", "Artifact"),
		Post: &openapi.Operation{
			Summary:     "Upload an artifact",
			Tags:        []string{"artifacts"},
			RequestBody: multipart,
			Responses: map[int]*openapi.Response{
				201: openapi.ResponseJSON("The stored artifact", "Artifact"),
				400: openapi.ResponseRef("BadRequest"),
				409: openapi.ResponseRef("Conflict"),
			},
		},
	}
	spec.Paths["/artifacts/batch"] = &openapi.PathItem{
		Post: &openapi.Operation{
			Summary: "Upload several artifacts concurrently",
			Tags:    []string{"artifacts"},
			RequestBody: &openapi.RequestBody{
				Required: true,
				Content: map[string]*openapi.MediaType{
					"multipart/form-data": {
						Schema: &openapi.Schema{
							Type: "object",
							Properties: map[string]*openapi.Schema{
								"files": {
									Type:  "array",
									Items: &openapi.Schema{Type: "string", Format: "binary"},
								},
								"description": {Type: "string"},
								"flow_run_id": {Type: "string", Format: "uuid"},
							},
						},
					},
				},
			},
			Responses: map[int]*openapi.Response{
				201: {
					Description: "The stored artifacts",
					Content: map[string]*openapi.MediaType{
						"application/json": {
							Schema: &openapi.Schema{
								Type:  "array",
								Items: openapi.SchemaRef("Artifact"),
							},
						},
					},
				},
				400: openapi.ResponseRef("BadRequest"),
			},
		},
	}
	spec.Paths["/artifacts/search"] = &openapi.PathItem{
		Post: searchOperation("Search artifacts", "artifacts", "Artifact"),
	}
	spec.Paths["/artifacts/{id}"] = &openapi.PathItem{
		Get:    findOperation("Get artifact metadata", "artifacts", "Artifact"),
		Delete: deleteOperation("Delete an artifact and its payload", "artifacts"),
	}
	spec.Paths["/artifacts/{id}/download"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:    "Download the artifact payload",
			Tags:       []string{"artifacts"},
			Parameters: []*openapi.Parameter{openapi.PathParam("id", "Artifact id")},
			Responses: map[int]*openapi.Response{
				200: {
					Description: "The payload stream",
					Content: map[string]*openapi.MediaType{
						"application/octet-stream": {
							Schema: &openapi.Schema{Type: "string", Format: "binary"},
						},
					},
				},
				404: openapi.ResponseRef("NotFound"),
			},
		},
	}
}

func listOperation(summary, tag, schema string) *openapi.Operation {
	return &openapi.Operation{
		Summary: summary,
		Tags:    []string{tag},
		Parameters: []*openapi.Parameter{
			openapi.QueryParam("page", "integer", "Page number (1-indexed)", false),
			openapi.QueryParam("page_size", "integer", "Results per page", false),
			openapi.QueryParam("search", "string", "Search query", false),
			openapi.QueryParam("sort", "string", "Comma-separated sort fields", false),
		},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("A page of results", schema),
		},
	}
}

func searchOperation(summary, tag, schema string) *openapi.Operation {
	return &openapi.Operation{
		Summary:     summary,
		Tags:        []string{tag},
		RequestBody: openapi.RequestBodyJSON("PageRequest", true),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("A page of results", schema),
			400: openapi.ResponseRef("BadRequest"),
		},
	}
}

func findOperation(summary, tag, schema string) *openapi.Operation {
	return &openapi.Operation{
		Summary:    summary,
		Tags:       []string{tag},
		Parameters: []*openapi.Parameter{openapi.PathParam("id", "Resource id")},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("The resource", schema),
			404: openapi.ResponseRef("NotFound"),
		},
	}
}

func createOperation(summary, tag, requestSchema, responseSchema string) *openapi.Operation {
	return &openapi.Operation{
		Summary:     summary,
		Tags:        []string{tag},
		RequestBody: openapi.RequestBodyJSON(requestSchema, true),
		Responses: map[int]*openapi.Response{
			201: openapi.ResponseJSON("The created resource", responseSchema),
			400: openapi.ResponseRef("BadRequest"),
			409: openapi.ResponseRef("Conflict"),
		},
	}
}

func updateOperation(summary, tag, requestSchema, responseSchema string) *openapi.Operation {
	return &openapi.Operation{
		Summary:     summary,
		Tags:        []string{tag},
		Parameters:  []*openapi.Parameter{openapi.PathParam("id", "Resource id")},
		RequestBody: openapi.RequestBodyJSON(requestSchema, true),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("The updated resource", responseSchema),
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseRef("NotFound"),
		},
	}
}

func deleteOperation(summary, tag string) *openapi.Operation {
	return &openapi.Operation{
		Summary:    summary,
		Tags:       []string{tag},
		Parameters: []*openapi.Parameter{openapi.PathParam("id", "Resource id")},
		Responses: map[int]*openapi.Response{
			204: {Description: "Deleted"},
			404: openapi.ResponseRef("NotFound"),
		},
	}
}

func merge(base, extra map[string]*openapi.Schema) map[string]*openapi.Schema {
	out := make(map[string]*openapi.Schema, len(base)+len(extra))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range extra {
		out[k] = v
	}
	return out
}
