package openapi

import "maps"

// Components holds the reusable parts of a document.
type Components struct {
	Schemas         map[string]*Schema         `json:"schemas,omitempty"`
	Responses       map[string]*Response       `json:"responses,omitempty"`
	SecuritySchemes map[string]*SecurityScheme `json:"securitySchemes,omitempty"`
}

// NewComponents seeds the page request schema, the shared error responses,
// and the bearer security scheme.
func NewComponents() *Components {
	return &Components{
		Schemas: map[string]*Schema{
			"PageRequest": {
				Type: "object",
				Properties: map[string]*Schema{
					"page":      {Type: "integer", Description: "Page number (1-indexed)", Example: 1},
					"page_size": {Type: "integer", Description: "Results per page", Example: 20},
					"search":    {Type: "string", Description: "Search query"},
					"sort":      {Type: "string", Description: "Comma-separated sort fields, - prefix for descending", Example: "scientific_name,-updated_at"},
				},
			},
		},
		Responses: map[string]*Response{
			"BadRequest":   errorResponse("Invalid request"),
			"NotFound":     errorResponse("Resource not found"),
			"Unauthorized": errorResponse("Missing or invalid bearer token"),
			"Conflict":     errorResponse("Resource conflict (duplicate alias)"),
		},
		SecuritySchemes: map[string]*SecurityScheme{
			BearerScheme: {
				Type:         "http",
				Scheme:       "bearer",
				BearerFormat: "JWT",
				Description:  "OIDC ID token; required for curated store writes when auth is enabled",
			},
		},
	}
}

func errorResponse(description string) *Response {
	body := &Schema{
		Type:       "object",
		Properties: map[string]*Schema{"error": {Type: "string", Description: "Error message"}},
		Required:   []string{"error"},
	}
	return &Response{Description: description, Content: content("application/json", body)}
}

// AddSchemas merges schemas into the component schemas.
func (c *Components) AddSchemas(schemas map[string]*Schema) {
	maps.Copy(c.Schemas, schemas)
}

// AddResponses merges responses into the component responses.
func (c *Components) AddResponses(responses map[string]*Response) {
	maps.Copy(c.Responses, responses)
}
