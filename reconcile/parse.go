package reconcile

import (
	"fmt"

	"github.com/erraggy/oassync/entity"
	"github.com/erraggy/oassync/shape"
	"github.com/erraggy/oassync/structdiff"
)

// parsed is a diff value that passed path resolution and validation. It is
// the only form a value takes on its way into an edit command, so every
// emitted command carries a schema-valid value.
type parsed struct {
	// FieldPath is the full dotted path relative to the entity body.
	FieldPath string
	// ParentPath is FieldPath with the last segment dropped, addressing
	// the owning array or object for element adds and removes.
	ParentPath string
	// Value is the validated new value. HasValue is false for removals,
	// whose value is the absent marker.
	Value    any
	HasValue bool
}

// parseValue resolves rel against s and validates the entry's new value
// against the resolved shape. Removals carry no value and skip validation.
// A Change whose new value is absent (a deep removal rewritten by the
// combiner) is treated the same way.
func parseValue(s shape.Shape, rel structdiff.Path, e structdiff.Entry) (parsed, error) {
	resolved, ok := shape.Resolve(s, rel)
	if !ok {
		return parsed{}, fmt.Errorf("path %q: unsupported field", rel.String())
	}
	p := parsed{
		FieldPath:  rel.String(),
		ParentPath: rel.Parent().String(),
	}
	if e.Kind == structdiff.Remove || (e.Kind == structdiff.Change && e.NewValue == nil) {
		return p, nil
	}
	if err := shape.Validate(resolved, e.NewValue); err != nil {
		return parsed{}, fmt.Errorf("path %q: %w", rel.String(), err)
	}
	p.Value = e.NewValue
	p.HasValue = true
	return p, nil
}

// pushPop applies the array-tail policy: a Create or Remove whose path ends
// in an array index appends to or pops from the end of the owning array.
// It returns the replacement array and the dotted path of the array itself;
// the caller emits one edit replacing the array whole.
func pushPop(body map[string]any, s shape.Shape, rel structdiff.Path, e structdiff.Entry) ([]any, string, error) {
	parent := rel.Parent()
	cur, found := entity.Lookup(body, parent)
	arr, isArr := cur.([]any)

	switch e.Kind {
	case structdiff.Create:
		p, err := parseValue(s, rel, e)
		if err != nil {
			return nil, "", err
		}
		out := make([]any, 0, len(arr)+1)
		out = append(out, arr...)
		out = append(out, p.Value)
		return out, parent.String(), nil
	case structdiff.Remove:
		if _, ok := shape.Resolve(s, rel); !ok {
			return nil, "", fmt.Errorf("path %q: unsupported field", rel.String())
		}
		if !found || !isArr || len(arr) == 0 {
			return nil, "", fmt.Errorf("path %q: no array element to remove", parent.String())
		}
		out := make([]any, 0, len(arr)-1)
		out = append(out, arr[:len(arr)-1]...)
		return out, parent.String(), nil
	default:
		return nil, "", fmt.Errorf("path %q: %s entry is not an array-tail mutation", rel.String(), e.Kind)
	}
}

// isArrayTail reports whether the entry is a tail append or pop: a Create
// or Remove whose final segment is an array index.
func isArrayTail(rel structdiff.Path, e structdiff.Entry) bool {
	if e.Kind == structdiff.Change {
		return false
	}
	last, ok := rel.Last()
	return ok && last.IsIndex
}
