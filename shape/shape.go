// Package shape describes the expected structure of document values and
// answers two questions about them: what shape lives at a given diff path
// (Resolve), and does a raw value satisfy a shape (Validate).
//
// Shapes form a closed set of variants: Primitive, Literal, Object, Array,
// Map (keyed-map with arbitrary keys), Union (plain or discriminated),
// Optional (wrapper making an inner shape optional/defaulted), and Any.
// Shapes are read-only: they are constructed once (see the docshape package)
// and only queried afterwards.
package shape

// Kind identifies a shape variant.
type Kind int

const (
	// KindPrimitive is a scalar of a named primitive type.
	KindPrimitive Kind = iota
	// KindLiteral is a fixed literal value, used as a union discriminator.
	KindLiteral
	// KindObject is an object with named, typed fields.
	KindObject
	// KindArray is a homogeneous array.
	KindArray
	// KindMap is a keyed map with arbitrary keys and a homogeneous value shape.
	KindMap
	// KindUnion is a set of variant shapes, optionally discriminated.
	KindUnion
	// KindOptional wraps an inner shape, making it optional or defaulted.
	KindOptional
	// KindAny accepts any value and any nested path.
	KindAny
)

// Shape is the read-only description of the expected structure at one point
// in a document. The variant set is closed; switch over the concrete types.
type Shape interface {
	Kind() Kind
}

// Primitive type names, matching the JSON-compatible names OpenAPI uses.
const (
	TypeString  = "string"
	TypeNumber  = "number"
	TypeInteger = "integer"
	TypeBoolean = "boolean"
)

// Primitive is a scalar shape.
type Primitive struct {
	// Type is one of the Type* constants.
	Type string
}

// Kind returns KindPrimitive.
func (p *Primitive) Kind() Kind { return KindPrimitive }

// Shared primitive instances for shape construction. Shapes are read-only,
// so sharing is safe.
var (
	Str  = &Primitive{Type: TypeString}
	Num  = &Primitive{Type: TypeNumber}
	Int  = &Primitive{Type: TypeInteger}
	Bool = &Primitive{Type: TypeBoolean}
)

// Literal is a fixed literal value. A union variant whose field holds a
// Literal can be selected by Narrow.
type Literal struct {
	Value any
}

// Kind returns KindLiteral.
func (l *Literal) Kind() Kind { return KindLiteral }

// Field is one named field of an Object.
type Field struct {
	Shape Shape
	// Optional marks a field that may be absent from a valid value.
	Optional bool
}

// Object is an object with named, typed fields. Keys not described by
// Fields are permitted in values (OpenAPI allows x-* extensions everywhere)
// but cannot be resolved into.
type Object struct {
	Fields map[string]Field
}

// Kind returns KindObject.
func (o *Object) Kind() Kind { return KindObject }

// Array is a homogeneous array shape.
type Array struct {
	Elem Shape
}

// Kind returns KindArray.
func (a *Array) Kind() Kind { return KindArray }

// Map is a keyed map with arbitrary string keys and one value shape.
type Map struct {
	Value Shape
}

// Kind returns KindMap.
func (m *Map) Kind() Kind { return KindMap }

// Union is a set of variant shapes. When Discriminator is set, the variant
// for a value is selected by the literal value of that field; otherwise
// variants are matched structurally in declaration order.
type Union struct {
	Variants      []Shape
	Discriminator string
}

// Kind returns KindUnion.
func (u *Union) Kind() Kind { return KindUnion }

// Optional wraps an inner shape, making it optional or defaulted.
type Optional struct {
	Inner Shape
	// Default is the value assumed when the wrapped value is absent.
	Default any
}

// Kind returns KindOptional.
func (o *Optional) Kind() Kind { return KindOptional }

// Any accepts any value, and resolution through it accepts any nested path.
type Any struct{}

// Kind returns KindAny.
func (a *Any) Kind() Kind { return KindAny }

// AnyValue is the shared Any instance.
var AnyValue = &Any{}

// Opt wraps inner in an Optional with no default.
func Opt(inner Shape) *Optional {
	return &Optional{Inner: inner}
}

// Unwrap strips Optional wrappers until a non-wrapper shape is reached.
func Unwrap(s Shape) Shape {
	for {
		o, ok := s.(*Optional)
		if !ok {
			return s
		}
		s = o.Inner
	}
}
