package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/oassync/entity"
	"github.com/erraggy/oassync/internal/severity"
	"github.com/erraggy/oassync/structdiff"
)

func TestPlanServerAdd(t *testing.T) {
	tables := testTables(t)
	r := New(tables)

	res := r.Plan([]structdiff.Entry{
		{Kind: structdiff.Create, Path: structdiff.Path{structdiff.Key("servers"), structdiff.Index(1)},
			NewValue: map[string]any{"url": "https://staging.example.com/v1", "description": "staging"}},
	})

	require.Len(t, res.Commands, 1)
	add, ok := res.Commands[0].(entity.AddServer)
	require.True(t, ok)
	assert.Equal(t, "https://staging.example.com/v1", add.Server.URL)
	assert.Equal(t, tables.Collection.UID, add.CollectionUID)
}

func TestPlanServerAddRejectsInvalid(t *testing.T) {
	tables := testTables(t)
	r := New(tables)

	res := r.Plan([]structdiff.Entry{
		{Kind: structdiff.Create, Path: structdiff.Path{structdiff.Key("servers"), structdiff.Index(1)},
			NewValue: map[string]any{"description": "no url"}},
	})

	assert.Empty(t, res.Commands)
	require.Len(t, res.Diagnostics, 1)
	assert.Equal(t, severity.SeverityWarning, res.Diagnostics[0].Severity)
}

func TestPlanServerRemove(t *testing.T) {
	tables := testTables(t)
	r := New(tables)

	res := r.Plan([]structdiff.Entry{
		{Kind: structdiff.Remove, Path: structdiff.Path{structdiff.Key("servers"), structdiff.Index(0)},
			OldValue: map[string]any{"url": "https://api.example.com/v1"}},
	})

	require.Len(t, res.Commands, 1)
	assert.Equal(t, entity.DeleteServer{UID: tables.Collection.ServerUIDs[0], CollectionUID: tables.Collection.UID}, res.Commands[0])
}

func TestPlanServerVariablesRemoval(t *testing.T) {
	tables := testTables(t)
	r := New(tables)
	srvUID := tables.Collection.ServerUIDs[0]

	res := r.Plan([]structdiff.Entry{
		{Kind: structdiff.Remove, Path: structdiff.Path{structdiff.Key("servers"), structdiff.Index(0), structdiff.Key("variables")},
			OldValue: map[string]any{"region": map[string]any{"default": "us"}}},
	})

	// Removing the whole variables map replaces it with the empty object,
	// never an absent value.
	require.Len(t, res.Commands, 1)
	assert.Equal(t, entity.EditServer{UID: srvUID, Field: "variables", Value: map[string]any{}}, res.Commands[0])
}

func TestPlanServerFieldEdit(t *testing.T) {
	tables := testTables(t)
	r := New(tables)
	srvUID := tables.Collection.ServerUIDs[0]

	res := r.Plan([]structdiff.Entry{
		{Kind: structdiff.Change, Path: structdiff.Path{structdiff.Key("servers"), structdiff.Index(0), structdiff.Key("url")},
			OldValue: "https://api.example.com/v1", NewValue: "https://api.example.com/v2"},
	})

	require.Len(t, res.Commands, 1)
	assert.Equal(t, entity.EditServer{UID: srvUID, Field: "url", Value: "https://api.example.com/v2"}, res.Commands[0])
}

func TestPlanServerIndexOutOfRange(t *testing.T) {
	tables := testTables(t)
	r := New(tables)

	res := r.Plan([]structdiff.Entry{
		{Kind: structdiff.Remove, Path: structdiff.Path{structdiff.Key("servers"), structdiff.Index(5)}},
	})

	assert.Empty(t, res.Commands)
	require.Len(t, res.Diagnostics, 1)
	assert.Equal(t, severity.SeverityError, res.Diagnostics[0].Severity)
}

func TestPlanTagAddEditRemove(t *testing.T) {
	tables := testTables(t)
	r := New(tables)
	tagUID := tables.Collection.TagUIDs[0]

	res := r.Plan([]structdiff.Entry{
		{Kind: structdiff.Create, Path: structdiff.Path{structdiff.Key("tags"), structdiff.Index(1)},
			NewValue: map[string]any{"name": "store"}},
		{Kind: structdiff.Change, Path: structdiff.Path{structdiff.Key("tags"), structdiff.Index(0), structdiff.Key("description")},
			NewValue: "All pet operations"},
		{Kind: structdiff.Remove, Path: structdiff.Path{structdiff.Key("tags"), structdiff.Index(0)},
			OldValue: map[string]any{"name": "pets"}},
	})

	require.Len(t, res.Commands, 3)
	add := res.Commands[0].(entity.AddTag)
	assert.Equal(t, "store", add.Tag.Name)
	assert.Equal(t, entity.EditTag{UID: tagUID, Field: "description", Value: "All pet operations"}, res.Commands[1])
	assert.Equal(t, entity.DeleteTag{UID: tagUID, CollectionUID: tables.Collection.UID}, res.Commands[2])
}

func schemeByName(t *testing.T, tables *entity.Tables, name string) *entity.SecurityScheme {
	t.Helper()
	s, ok := entity.FindResource(tables.Collection.SecuritySchemeUIDs, tables.SecuritySchemes,
		func(s *entity.SecurityScheme) bool { return s.Name == name })
	require.True(t, ok, "fixture scheme %s", name)
	return s
}

func TestPlanSchemeScopeEdit(t *testing.T) {
	tables := testTables(t)
	sch := schemeByName(t, tables, "myAuth")
	r := New(tables)

	res := r.Plan([]structdiff.Entry{
		{Kind: structdiff.Change, Path: structdiff.KeyPath("components", "securitySchemes", "myAuth", "flows", "implicit", "scopes", "read"),
			OldValue: "Read access", NewValue: "Read everything"},
	})

	// The named scope is set in a copy of the current scopes map and the
	// map replaced whole under the normalized flow field.
	require.Len(t, res.Commands, 1)
	assert.Equal(t, entity.EditSecurityScheme{
		UID:   sch.UID,
		Field: "flow.scopes",
		Value: map[string]any{"read": "Read everything"},
	}, res.Commands[0])
}

func TestPlanSchemeScopeAddAndRemove(t *testing.T) {
	tables := testTables(t)
	sch := schemeByName(t, tables, "myAuth")
	r := New(tables)

	added := r.Plan([]structdiff.Entry{
		{Kind: structdiff.Create, Path: structdiff.KeyPath("components", "securitySchemes", "myAuth", "flows", "implicit", "scopes", "write"),
			NewValue: "Write access"},
	})
	require.Len(t, added.Commands, 1)
	assert.Equal(t, map[string]any{"read": "Read access", "write": "Write access"},
		added.Commands[0].(entity.EditSecurityScheme).Value)

	removed := r.Plan([]structdiff.Entry{
		{Kind: structdiff.Remove, Path: structdiff.KeyPath("components", "securitySchemes", "myAuth", "flows", "implicit", "scopes", "read"),
			OldValue: "Read access"},
	})
	require.Len(t, removed.Commands, 1)
	assert.Equal(t, map[string]any{}, removed.Commands[0].(entity.EditSecurityScheme).Value)

	// The snapshot itself is never mutated by planning.
	flow := sch.Body["flow"].(map[string]any)
	assert.Equal(t, map[string]any{"read": "Read access"}, flow["scopes"])
}

func TestPlanSchemeFlowFieldEdit(t *testing.T) {
	tables := testTables(t)
	sch := schemeByName(t, tables, "myAuth")
	r := New(tables)

	res := r.Plan([]structdiff.Entry{
		{Kind: structdiff.Change, Path: structdiff.KeyPath("components", "securitySchemes", "myAuth", "flows", "implicit", "authorizationUrl"),
			OldValue: "https://auth.example.com", NewValue: "https://login.example.com"},
	})

	require.Len(t, res.Commands, 1)
	assert.Equal(t, entity.EditSecurityScheme{
		UID:   sch.UID,
		Field: "flow.authorizationUrl",
		Value: "https://login.example.com",
	}, res.Commands[0])
}

func TestPlanSchemeAddNormalizesFlows(t *testing.T) {
	tables := testTables(t)
	r := New(tables)

	res := r.Plan([]structdiff.Entry{
		{Kind: structdiff.Create, Path: structdiff.KeyPath("components", "securitySchemes", "newAuth"),
			NewValue: map[string]any{
				"type": "oauth2",
				"flows": map[string]any{
					"clientCredentials": map[string]any{
						"tokenUrl": "https://token.example.com",
						"scopes":   map[string]any{},
					},
				},
			}},
	})

	require.Len(t, res.Commands, 1)
	add := res.Commands[0].(entity.AddSecurityScheme)
	assert.Equal(t, "newAuth", add.Scheme.Name)
	assert.Equal(t, "oauth2", add.Scheme.Type)
	assert.NotContains(t, add.Scheme.Body, "flows")
	flow, ok := add.Scheme.Body["flow"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "clientCredentials", flow["type"])
}

func TestPlanSchemeRemoveByName(t *testing.T) {
	tables := testTables(t)
	sch := schemeByName(t, tables, "myAuth")
	r := New(tables)

	res := r.Plan([]structdiff.Entry{
		{Kind: structdiff.Remove, Path: structdiff.KeyPath("components", "securitySchemes", "myAuth"),
			OldValue: map[string]any{"type": "oauth2"}},
	})

	require.Len(t, res.Commands, 1)
	assert.Equal(t, entity.DeleteSecurityScheme{UID: sch.UID, CollectionUID: tables.Collection.UID}, res.Commands[0])
}

func TestPlanSchemeLookupByUID(t *testing.T) {
	tables := testTables(t)
	sch := schemeByName(t, tables, "myAuth")
	r := New(tables)

	res := r.Plan([]structdiff.Entry{
		{Kind: structdiff.Change, Path: structdiff.KeyPath("components", "securitySchemes", string(sch.UID), "description"),
			NewValue: "primary auth"},
	})

	require.Len(t, res.Commands, 1)
	assert.Equal(t, sch.UID, res.Commands[0].(entity.EditSecurityScheme).UID)
}

func TestPlanSchemeNarrowingFailure(t *testing.T) {
	tables := testTables(t)
	sch := schemeByName(t, tables, "myAuth")
	// Corrupt the stored flow type so no variant can match.
	sch.Body["flow"].(map[string]any)["type"] = "device"
	r := New(tables)

	res := r.Plan([]structdiff.Entry{
		{Kind: structdiff.Change, Path: structdiff.KeyPath("components", "securitySchemes", "myAuth", "flows", "implicit", "authorizationUrl"),
			NewValue: "https://x"},
	})

	assert.Empty(t, res.Commands)
	require.Len(t, res.Diagnostics, 1)
	assert.Equal(t, severity.SeverityWarning, res.Diagnostics[0].Severity)
}

func TestPlanSchemeNotFound(t *testing.T) {
	tables := testTables(t)
	r := New(tables)

	res := r.Plan([]structdiff.Entry{
		{Kind: structdiff.Change, Path: structdiff.KeyPath("components", "securitySchemes", "ghost", "description"),
			NewValue: "x"},
	})

	assert.Empty(t, res.Commands)
	require.Len(t, res.Diagnostics, 1)
	assert.Equal(t, severity.SeverityError, res.Diagnostics[0].Severity)
}
