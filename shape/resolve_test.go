package shape

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/oassync/structdiff"
)

func testOperationShape() Shape {
	return &Object{Fields: map[string]Field{
		"summary": {Shape: Str, Optional: true},
		"tags":    {Shape: Opt(&Array{Elem: Str})},
		"responses": {Shape: &Map{Value: &Object{Fields: map[string]Field{
			"description": {Shape: Str},
		}}}},
		"parameters": {Shape: Opt(&Array{Elem: &Object{Fields: map[string]Field{
			"name": {Shape: Str},
			"in":   {Shape: Str},
		}}})},
		"extras": {Shape: AnyValue, Optional: true},
	}}
}

func TestResolve(t *testing.T) {
	op := testOperationShape()

	tests := []struct {
		name string
		path structdiff.Path
		want Kind
		ok   bool
	}{
		{"empty path returns shape itself", nil, KindObject, true},
		{"object field", structdiff.KeyPath("summary"), KindPrimitive, true},
		{"optional wrapper stripped", structdiff.KeyPath("tags"), KindArray, true},
		{"array index descends into element", structdiff.Path{structdiff.Key("tags"), structdiff.Index(0)}, KindPrimitive, true},
		{"map descends on any key", structdiff.KeyPath("responses", "200"), KindObject, true},
		{"map value field", structdiff.KeyPath("responses", "200", "description"), KindPrimitive, true},
		{"array key segment descends into element field", structdiff.KeyPath("parameters", "name"), KindPrimitive, true},
		{"any accepts arbitrary nesting", structdiff.KeyPath("extras", "a", "b", "c"), KindAny, true},
		{"unknown field fails", structdiff.KeyPath("nope"), 0, false},
		{"index into object fails", structdiff.Path{structdiff.Index(0)}, 0, false},
		{"key into primitive fails", structdiff.KeyPath("summary", "deeper"), 0, false},
		{"array key segment without object element fails", structdiff.KeyPath("tags", "name"), 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Resolve(op, tt.path)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				require.NotNil(t, got)
				assert.Equal(t, tt.want, got.Kind())
			}
		})
	}
}

func TestResolveUnwrapsBeforeReturning(t *testing.T) {
	s := &Object{Fields: map[string]Field{
		"servers": {Shape: Opt(&Array{Elem: Opt(&Object{Fields: map[string]Field{
			"url": {Shape: Str},
		}})})},
	}}

	got, ok := Resolve(s, structdiff.Path{structdiff.Key("servers"), structdiff.Index(1)})
	require.True(t, ok)
	assert.Equal(t, KindObject, got.Kind(), "element optional wrapper should be stripped")
}

func testSchemeUnion() *Union {
	return &Union{
		Discriminator: "type",
		Variants: []Shape{
			&Object{Fields: map[string]Field{
				"type": {Shape: &Literal{Value: "apiKey"}},
				"name": {Shape: Str},
				"in":   {Shape: Str},
			}},
			&Object{Fields: map[string]Field{
				"type":   {Shape: &Literal{Value: "http"}},
				"scheme": {Shape: Str},
			}},
		},
	}
}

func TestNarrow(t *testing.T) {
	u := testSchemeUnion()

	variant, ok := Narrow(u, "type", "http")
	require.True(t, ok)
	obj, isObj := variant.(*Object)
	require.True(t, isObj)
	_, hasScheme := obj.Fields["scheme"]
	assert.True(t, hasScheme)
}

func TestNarrowNoMatch(t *testing.T) {
	u := testSchemeUnion()

	// No matching variant returns not-found, never a default variant.
	_, ok := Narrow(u, "type", "oauth2")
	assert.False(t, ok)

	_, ok = Narrow(u, "kind", "http")
	assert.False(t, ok)
}

func TestNarrowNonUnion(t *testing.T) {
	_, ok := Narrow(Str, "type", "apiKey")
	assert.False(t, ok)
}

func TestNarrowUnwrapsOptional(t *testing.T) {
	wrapped := Opt(testSchemeUnion())
	_, ok := Narrow(wrapped, "type", "apiKey")
	assert.True(t, ok)
}

func TestNarrowDeclarationOrder(t *testing.T) {
	first := &Object{Fields: map[string]Field{
		"type": {Shape: &Literal{Value: "dup"}},
		"a":    {Shape: Str},
	}}
	second := &Object{Fields: map[string]Field{
		"type": {Shape: &Literal{Value: "dup"}},
		"b":    {Shape: Str},
	}}
	u := &Union{Variants: []Shape{first, second}}

	variant, ok := Narrow(u, "type", "dup")
	require.True(t, ok)
	assert.Same(t, first, variant, "first declared variant should win")
}

func TestUnwrap(t *testing.T) {
	nested := Opt(Opt(Str))
	assert.Same(t, Shape(Str), Unwrap(nested))
	assert.Same(t, Shape(Str), Unwrap(Str))
}
