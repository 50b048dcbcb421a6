package shape

import (
	"reflect"

	"github.com/erraggy/oassync/structdiff"
)

// Resolve walks s along path and returns the shape expected at that path.
// It is the single source of truth for whether a diff path is structurally
// legal. Resolution is deterministic and side-effect free.
//
// At each segment the current shape is unwrapped first. An Any shape
// short-circuits: the remaining path is accepted as-is. Objects descend into
// named fields; arrays descend into their element shape on an index segment,
// and on a key segment descend into the element and then into that field,
// provided the element is an object owning it; maps descend into their value
// shape on any segment. Every other combination fails.
func Resolve(s Shape, path structdiff.Path) (Shape, bool) {
	cur := s
	for _, seg := range path {
		cur = Unwrap(cur)
		switch t := cur.(type) {
		case *Any:
			return t, true
		case *Object:
			if seg.IsIndex {
				return nil, false
			}
			f, ok := t.Fields[seg.Name]
			if !ok {
				return nil, false
			}
			cur = f.Shape
		case *Array:
			if seg.IsIndex {
				cur = t.Elem
				continue
			}
			// A key segment against an array addresses a field of its
			// element shape, when the element is an object that has it.
			obj, ok := Unwrap(t.Elem).(*Object)
			if !ok {
				return nil, false
			}
			f, ok := obj.Fields[seg.Name]
			if !ok {
				return nil, false
			}
			cur = f.Shape
		case *Map:
			cur = t.Value
		default:
			return nil, false
		}
	}
	return Unwrap(cur), true
}

// Narrow selects the variant of a union whose discriminator field is a
// literal equal to value. It is used wherever a field's shape depends on a
// sibling value already known from the current entity snapshot; ordinary
// path resolution cannot express that dependency because it sees only
// shapes, never values.
//
// Variants are scanned in declaration order; the first object variant whose
// field holds a matching Literal wins. Non-unions and unions with no
// matching variant return not-found.
func Narrow(s Shape, field string, value any) (Shape, bool) {
	u, ok := Unwrap(s).(*Union)
	if !ok {
		return nil, false
	}
	for _, v := range u.Variants {
		obj, ok := Unwrap(v).(*Object)
		if !ok {
			continue
		}
		f, ok := obj.Fields[field]
		if !ok {
			continue
		}
		lit, ok := Unwrap(f.Shape).(*Literal)
		if !ok {
			continue
		}
		if reflect.DeepEqual(lit.Value, value) {
			return obj, true
		}
	}
	return nil, false
}
