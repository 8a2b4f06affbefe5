package openapi

import "maps"

// NewComponents creates Components preloaded with shared schemas and the
// standard error responses.
func NewComponents() *Components {
	errorSchema := &Schema{
		Type: "object",
		Properties: map[string]*Schema{
			"error": {Type: "string", Description: "Error message"},
		},
	}

	return &Components{
		Schemas: map[string]*Schema{
			"PageRequest": {
				Type: "object",
				Properties: map[string]*Schema{
					"page":      {Type: "integer", Description: "Page number (1-indexed)", Example: 1},
					"page_size": {Type: "integer", Description: "Results per page", Example: 20},
					"search":    {Type: "string", Description: "Search query"},
					"sort":      {Type: "string", Description: "Comma-separated sort fields; prefix with - for descending"},
				},
			},
		},
		Responses: map[string]*Response{
			"BadRequest": {
				Description: "Invalid request",
				Content:     map[string]*MediaType{"application/json": {Schema: errorSchema}},
			},
			"Unauthorized": {
				Description: "Missing or invalid credentials",
				Content:     map[string]*MediaType{"application/json": {Schema: errorSchema}},
			},
			"NotFound": {
				Description: "Resource not found",
				Content:     map[string]*MediaType{"application/json": {Schema: errorSchema}},
			},
			"Conflict": {
				Description: "Resource conflict",
				Content:     map[string]*MediaType{"application/json": {Schema: errorSchema}},
			},
		},
	}
}

// AddSchemas merges schemas into the component schemas.
func (c *Components) AddSchemas(schemas map[string]*Schema) {
	maps.Copy(c.Schemas, schemas)
}

// AddResponses merges responses into the component responses.
func (c *Components) AddResponses(responses map[string]*Response) {
	maps.Copy(c.Responses, responses)
}
