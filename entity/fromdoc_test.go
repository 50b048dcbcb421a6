package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func petstoreDoc() map[string]any {
	return map[string]any{
		"openapi": "3.1.0",
		"info": map[string]any{
			"title":       "Petstore",
			"version":     "1.0.0",
			"description": "A sample API",
		},
		"servers": []any{
			map[string]any{"url": "https://api.example.com/v1"},
			map[string]any{"url": "https://staging.example.com/v1", "description": "staging"},
		},
		"tags": []any{
			map[string]any{"name": "pets", "description": "Pet operations"},
		},
		"components": map[string]any{
			"securitySchemes": map[string]any{
				"bearerAuth": map[string]any{"type": "http", "scheme": "bearer"},
				"appKey":     map[string]any{"type": "apiKey", "name": "X-Key", "in": "header"},
			},
		},
		"paths": map[string]any{
			"/pets": map[string]any{
				"post": map[string]any{"operationId": "createPet"},
				"get":  map[string]any{"summary": "List pets"},
			},
			"/pets/{id}": map[string]any{
				"get": map[string]any{
					"operationId": "getPet",
					"servers": []any{
						map[string]any{"url": "https://staging.example.com/v1"},
					},
				},
			},
		},
	}
}

func TestFromDocument(t *testing.T) {
	doc := petstoreDoc()
	tables := FromDocument(doc)
	coll := tables.Collection

	assert.Equal(t, "Petstore", coll.Name)
	assert.Equal(t, "1.0.0", coll.Version)
	assert.Equal(t, "A sample API", coll.Description)
	assert.Contains(t, coll.Body, "openapi")
	assert.Contains(t, coll.Body, "info")
	assert.NotContains(t, coll.Body, "paths", "paths decompose into requests")
	assert.NotContains(t, coll.Body, "servers")

	require.Len(t, coll.ServerUIDs, 2)
	assert.Equal(t, "https://api.example.com/v1", tables.Servers[coll.ServerUIDs[0]].URL)
	assert.Equal(t, "https://staging.example.com/v1", tables.Servers[coll.ServerUIDs[1]].URL)

	require.Len(t, coll.TagUIDs, 1)
	assert.Equal(t, "pets", tables.Tags[coll.TagUIDs[0]].Name)

	// scheme names sorted, so appKey before bearerAuth
	require.Len(t, coll.SecuritySchemeUIDs, 2)
	assert.Equal(t, "appKey", tables.SecuritySchemes[coll.SecuritySchemeUIDs[0]].Name)
	assert.Equal(t, "apiKey", tables.SecuritySchemes[coll.SecuritySchemeUIDs[0]].Type)
	assert.Equal(t, "bearerAuth", tables.SecuritySchemes[coll.SecuritySchemeUIDs[1]].Name)

	// paths sorted, methods in canonical order: get then post under /pets
	require.Len(t, coll.RequestUIDs, 3)
	r0 := tables.Requests[coll.RequestUIDs[0]]
	r1 := tables.Requests[coll.RequestUIDs[1]]
	r2 := tables.Requests[coll.RequestUIDs[2]]
	assert.Equal(t, "/pets", r0.Path)
	assert.Equal(t, "get", r0.Method)
	assert.Equal(t, "List pets", r0.Name)
	assert.Equal(t, "/pets", r1.Path)
	assert.Equal(t, "post", r1.Method)
	assert.Equal(t, "Create Pet", r1.Name)
	assert.Equal(t, "/pets/{id}", r2.Path)

	// the override matched the staging server by url
	require.Len(t, r2.ServerUIDs, 1)
	assert.Equal(t, coll.ServerUIDs[1], r2.ServerUIDs[0])
	assert.NotContains(t, r2.Body, "servers")
}

func TestFromDocumentDetachesBodies(t *testing.T) {
	doc := petstoreDoc()
	tables := FromDocument(doc)

	info := doc["info"].(map[string]any)
	info["title"] = "Mutated"
	assert.Equal(t, "Petstore", tables.Collection.Body["info"].(map[string]any)["title"])

	op := doc["paths"].(map[string]any)["/pets"].(map[string]any)["get"].(map[string]any)
	op["summary"] = "Mutated"
	var listPets *Request
	for _, r := range tables.Requests {
		if r.Method == "get" && r.Path == "/pets" {
			listPets = r
		}
	}
	require.NotNil(t, listPets)
	assert.Equal(t, "List pets", listPets.Body["summary"])
}

func TestBuildRequestFallbacks(t *testing.T) {
	req := BuildRequest("/pets", "FETCH", map[string]any{}, nil)
	assert.Equal(t, "get", req.Method, "unrecognized verbs fall back to GET")
	assert.Equal(t, "GET /pets", req.Name)
}

func TestBuildRequestNormalizesSecurity(t *testing.T) {
	body := map[string]any{
		"security": []any{
			map[string]any{},
			map[string]any{
				"bearerAuth": []any{"read"},
				"appKey":     []any{},
			},
			"garbage",
		},
	}
	req := BuildRequest("/pets", "get", body, nil)
	sec, ok := req.Body["security"].([]any)
	require.True(t, ok)
	require.Len(t, sec, 2)
	assert.Equal(t, map[string]any{}, sec[0])
	assert.Equal(t, map[string]any{"appKey": []any{}}, sec[1])
}

func TestNormalizeSecurity(t *testing.T) {
	tests := []struct {
		name string
		in   []any
		want []any
	}{
		{"empty list", []any{}, []any{}},
		{"empty object preserved", []any{map[string]any{}}, []any{map[string]any{}}},
		{
			"single pair kept",
			[]any{map[string]any{"bearerAuth": []any{}}},
			[]any{map[string]any{"bearerAuth": []any{}}},
		},
		{
			"multiple pairs reduced to first by key order",
			[]any{map[string]any{"z": []any{}, "a": []any{"s"}}},
			[]any{map[string]any{"a": []any{"s"}}},
		},
		{"non-objects dropped", []any{42, "x"}, []any{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeSecurity(tt.in))
		})
	}
}

func TestNormalizeSchemeBody(t *testing.T) {
	t.Run("oauth2 flows collapse", func(t *testing.T) {
		body := map[string]any{
			"type": "oauth2",
			"flows": map[string]any{
				"implicit": map[string]any{
					"authorizationUrl": "https://auth.example.com",
					"scopes":           map[string]any{"read": "Read"},
				},
				"authorizationCode": map[string]any{
					"authorizationUrl": "https://auth.example.com",
					"tokenUrl":         "https://token.example.com",
					"scopes":           map[string]any{},
				},
			},
		}
		got := NormalizeSchemeBody(body)
		assert.NotContains(t, got, "flows")
		flow, ok := got["flow"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "authorizationCode", flow["type"], "authorizationCode preferred over implicit")
		assert.Equal(t, "https://token.example.com", flow["tokenUrl"])
	})

	t.Run("non-oauth2 untouched", func(t *testing.T) {
		body := map[string]any{"type": "http", "scheme": "basic"}
		assert.Equal(t, body, NormalizeSchemeBody(body))
	})

	t.Run("oauth2 without flows untouched", func(t *testing.T) {
		body := map[string]any{"type": "oauth2"}
		assert.Equal(t, body, NormalizeSchemeBody(body))
	})
}
