package api

import (
	"github.com/JaimeStill/floraguard/internal/config"
	"github.com/JaimeStill/floraguard/pkg/openapi"
)

// BuildSpec describes the API module's endpoints under cfg's base path.
func BuildSpec(cfg *config.Config) *openapi.Spec {
	spec := openapi.NewSpec(cfg.API.OpenAPI.Title, cfg.Version)
	cfg.API.OpenAPI.Apply(spec, cfg.API.BasePath)

	spec.Components.AddSchemas(schemas())
	spec.Components.AddResponses(map[string]*openapi.Response{
		"SafeError":       openapi.ResponseJSON("Prediction failed; the plant is reported non-toxic", "SafeError"),
		"PayloadTooLarge": openapi.ResponseJSON("Upload exceeds the size limit", "SafeError"),
	})

	lang := openapi.QueryParam("lang", "string", "Response locale. Defaults to en; zh resolves to zh-CN.", false)

	spec.Paths["/predict"] = &openapi.PathItem{
		Post: &openapi.Operation{
			Summary:     "Identify a plant photo and report its toxicity",
			Tags:        []string{"Predictions"},
			Parameters:  []*openapi.Parameter{lang},
			RequestBody: openapi.RequestBodyMultipart(map[string]*openapi.Schema{
				"file": {Type: "string", Format: "binary", Description: "JPEG or PNG image"},
				"lang": {Type: "string", Description: "Response locale when not given as a query parameter"},
			}, "file"),
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Toxicity verdict", "Prediction"),
				400: openapi.ResponseRef("SafeError"),
				413: openapi.ResponseRef("PayloadTooLarge"),
				500: openapi.ResponseRef("SafeError"),
			},
		},
	}

	spec.Paths["/languages"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary: "List supported display languages",
			Tags:    []string{"Languages"},
			Responses: map[int]*openapi.Response{
				200: {
					Description: "Supported languages",
					Content: map[string]*openapi.MediaType{
						"application/json": {Schema: &openapi.Schema{Type: "array", Items: openapi.SchemaRef("Language")}},
					},
				},
			},
		},
	}

	spec.Paths["/languages/{code}"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:    "Get the UI text bundle for a language",
			Tags:       []string{"Languages"},
			Parameters: []*openapi.Parameter{openapi.PathParam("code", "Language code")},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Text bundle", "Bundle"),
				404: openapi.ResponseRef("NotFound"),
			},
		},
	}

	name := openapi.PathParam("name", "Plant name or alias; normalized before lookup")

	spec.Paths["/plants"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary: "Browse curated plant records",
			Tags:    []string{"Plants"},
			Parameters: []*openapi.Parameter{
				openapi.QueryParam("page", "integer", "Page number", false),
				openapi.QueryParam("page_size", "integer", "Results per page", false),
				openapi.QueryParam("search", "string", "Search names and aliases", false),
				openapi.QueryParam("sort", "string", "Sort fields", false),
				openapi.QueryParam("is_toxic", "boolean", "Filter by stored toxicity flag", false),
				openapi.QueryParam("source", "string", "Filter by source tag", false),
				openapi.QueryParam("alias", "string", "Filter by alias key", false),
			},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Plant page", "PlantPage"),
				400: openapi.ResponseRef("BadRequest"),
			},
		},
	}

	spec.Paths["/plants/{name}"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:    "Get a curated plant record",
			Tags:       []string{"Plants"},
			Parameters: []*openapi.Parameter{name},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Plant record", "Plant"),
				404: openapi.ResponseRef("NotFound"),
			},
		},
		Put: &openapi.Operation{
			Summary:     "Create or replace a curated plant record",
			Tags:        []string{"Plants"},
			Security:    openapi.Bearer(),
			Parameters:  []*openapi.Parameter{name},
			RequestBody: openapi.RequestBodyJSON("UpsertPlant", true),
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Stored record", "Plant"),
				400: openapi.ResponseRef("BadRequest"),
				401: openapi.ResponseRef("Unauthorized"),
				409: openapi.ResponseRef("Conflict"),
			},
		},
		Delete: &openapi.Operation{
			Summary:    "Delete a curated plant record",
			Tags:       []string{"Plants"},
			Security:   openapi.Bearer(),
			Parameters: []*openapi.Parameter{name},
			Responses: map[int]*openapi.Response{
				204: {Description: "Deleted"},
				401: openapi.ResponseRef("Unauthorized"),
				404: openapi.ResponseRef("NotFound"),
			},
		},
	}

	key := openapi.PathParam("key", "Blob key, e.g. images/nerium_oleander.jpg")

	spec.Paths["/storage/{key}"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:    "Download a stored blob",
			Tags:       []string{"Storage"},
			Parameters: []*openapi.Parameter{key},
			Responses: map[int]*openapi.Response{
				200: {Description: "Blob content"},
				404: openapi.ResponseRef("NotFound"),
			},
		},
		Put: &openapi.Operation{
			Summary:    "Upload a blob",
			Tags:       []string{"Storage"},
			Security:   openapi.Bearer(),
			Parameters: []*openapi.Parameter{key},
			RequestBody: &openapi.RequestBody{
				Required: true,
				Content: map[string]*openapi.MediaType{
					"application/octet-stream": {Schema: &openapi.Schema{Type: "string", Format: "binary"}},
				},
			},
			Responses: map[int]*openapi.Response{
				204: {Description: "Stored"},
				400: openapi.ResponseRef("BadRequest"),
				401: openapi.ResponseRef("Unauthorized"),
			},
		},
		Delete: &openapi.Operation{
			Summary:    "Delete a blob",
			Tags:       []string{"Storage"},
			Security:   openapi.Bearer(),
			Parameters: []*openapi.Parameter{key},
			Responses: map[int]*openapi.Response{
				204: {Description: "Deleted"},
				401: openapi.ResponseRef("Unauthorized"),
				404: openapi.ResponseRef("NotFound"),
			},
		},
	}

	return spec
}

func schemas() map[string]*openapi.Schema {
	text := func(desc string) *openapi.Schema {
		return &openapi.Schema{Type: "string", Description: desc}
	}
	translations := &openapi.Schema{
		Type:        "object",
		Description: "Locale overrides keyed <field>_<locale>",
	}

	return map[string]*openapi.Schema{
		"Prediction": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"scientific_name":  text("Scientific name"),
				"common_name":      text("Common name, localized"),
				"symptoms":         text("Poisoning symptoms, localized"),
				"poisoning_action": text("First aid action, localized"),
				"is_toxic":         {Type: "boolean"},
				"confidence":       {Type: "number", Format: "double", Description: "Confidence of the deciding identifier, 0..1"},
				"source":           text("Curated Database, AI Prediction, Safety Threshold, Pl@ntNet API, or Pl@ntNet + <source>"),
				"reference_image":  text("Reference image URL for curated records"),
			},
			Required: []string{"scientific_name", "common_name", "symptoms", "poisoning_action", "is_toxic", "confidence", "source"},
		},
		"SafeError": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"error":    text("Error message"),
				"is_toxic": {Type: "boolean", Description: "Always false"},
			},
		},
		"Language": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"code":       text("Locale code"),
				"name":       text("English name"),
				"nativeName": text("Native name"),
			},
		},
		"Bundle": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"nativeName": text("Native language name"),
				"name":       text("Locale code"),
				"data":       {Type: "object", Description: "UI texts keyed by text key"},
			},
		},
		"Plant": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":               text("Normalized key"),
				"scientific_name":  text("Scientific name"),
				"common_name":      text("Common name"),
				"symptoms":         text("Poisoning symptoms"),
				"poisoning_action": text("First aid action"),
				"is_toxic":         {Type: "boolean"},
				"source":           text("Source tag"),
				"image_folder":     text("Reference image blob key"),
				"aliases":          {Type: "array", Items: &openapi.Schema{Type: "string"}},
				"translations":     translations,
				"created_at":       {Type: "string", Format: "date-time"},
				"updated_at":       {Type: "string", Format: "date-time"},
			},
		},
		"UpsertPlant": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"scientific_name":  text("Scientific name"),
				"common_name":      text("Common name"),
				"symptoms":         text("Poisoning symptoms"),
				"poisoning_action": text("First aid action"),
				"is_toxic":         {Type: "boolean", Default: true},
				"source":           text("Source tag"),
				"image_folder":     text("Reference image blob key"),
				"aliases":          {Type: "array", Items: &openapi.Schema{Type: "string"}},
				"translations":     translations,
			},
			Required: []string{"scientific_name"},
		},
		"PlantPage": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"data":        {Type: "array", Items: openapi.SchemaRef("Plant")},
				"total":       {Type: "integer"},
				"page":        {Type: "integer"},
				"page_size":   {Type: "integer"},
				"total_pages": {Type: "integer"},
				"has_next":    {Type: "boolean"},
			},
		},
	}
}
