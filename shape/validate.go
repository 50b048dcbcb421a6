package shape

import (
	"math"
	"reflect"
	"strconv"

	"github.com/erraggy/oassync/internal/maputil"
	"github.com/erraggy/oassync/syncerrors"
)

// Validate reports whether value satisfies s. It never panics: failures are
// returned as a *syncerrors.ShapeError naming the offending sub-path. A nil
// error means every field required by the shape is present and well-typed;
// keys a shape does not describe are permitted.
func Validate(s Shape, value any) error {
	return validate(s, value, "")
}

func validate(s Shape, v any, path string) error {
	switch t := s.(type) {
	case *Optional:
		if v == nil {
			return nil
		}
		return validate(t.Inner, v, path)

	case *Any:
		return nil

	case *Primitive:
		return validatePrimitive(t, v, path)

	case *Literal:
		if !reflect.DeepEqual(t.Value, v) {
			return shapeErr(path, "literal", v, "value does not match literal")
		}
		return nil

	case *Object:
		m, ok := v.(map[string]any)
		if !ok {
			return shapeErr(path, "object", v, "")
		}
		for _, name := range maputil.SortedKeys(t.Fields) {
			f := t.Fields[name]
			fv, present := m[name]
			if !present {
				if f.Optional || isOptional(f.Shape) {
					continue
				}
				return shapeErr(joinPath(path, name), kindName(f.Shape), nil, "required field missing")
			}
			if err := validate(f.Shape, fv, joinPath(path, name)); err != nil {
				return err
			}
		}
		return nil

	case *Array:
		arr, ok := v.([]any)
		if !ok {
			return shapeErr(path, "array", v, "")
		}
		for i, elem := range arr {
			if err := validate(t.Elem, elem, joinIndex(path, i)); err != nil {
				return err
			}
		}
		return nil

	case *Map:
		m, ok := v.(map[string]any)
		if !ok {
			return shapeErr(path, "map", v, "")
		}
		for _, k := range maputil.SortedKeys(m) {
			if err := validate(t.Value, m[k], joinPath(path, k)); err != nil {
				return err
			}
		}
		return nil

	case *Union:
		return validateUnion(t, v, path)

	default:
		return shapeErr(path, "shape", v, "unsupported shape variant")
	}
}

func validateUnion(u *Union, v any, path string) error {
	if u.Discriminator != "" {
		if m, ok := v.(map[string]any); ok {
			dv, ok := m[u.Discriminator]
			if !ok {
				return shapeErr(joinPath(path, u.Discriminator), "literal", nil, "discriminator field missing")
			}
			variant, ok := Narrow(u, u.Discriminator, dv)
			if !ok {
				return shapeErr(path, "union", v, "no variant matches discriminator")
			}
			return validate(variant, v, path)
		}
	}
	for _, variant := range u.Variants {
		if validate(variant, v, path) == nil {
			return nil
		}
	}
	return shapeErr(path, "union", v, "no variant matches value")
}

func validatePrimitive(p *Primitive, v any, path string) error {
	switch p.Type {
	case TypeString:
		if _, ok := v.(string); ok {
			return nil
		}
	case TypeBoolean:
		if _, ok := v.(bool); ok {
			return nil
		}
	case TypeNumber:
		switch v.(type) {
		case int, int64, float64, float32:
			return nil
		}
	case TypeInteger:
		switch n := v.(type) {
		case int, int64:
			return nil
		case float64:
			if n == math.Trunc(n) {
				return nil
			}
		}
	}
	return shapeErr(path, p.Type, v, "")
}

func isOptional(s Shape) bool {
	_, ok := s.(*Optional)
	return ok
}

func kindName(s Shape) string {
	switch t := Unwrap(s).(type) {
	case *Primitive:
		return t.Type
	case *Literal:
		return "literal"
	case *Object:
		return "object"
	case *Array:
		return "array"
	case *Map:
		return "map"
	case *Union:
		return "union"
	case *Any:
		return "any"
	default:
		return "shape"
	}
}

func joinPath(path, name string) string {
	if path == "" {
		return name
	}
	return path + "." + name
}

func joinIndex(path string, i int) string {
	return joinPath(path, strconv.Itoa(i))
}

func shapeErr(path, want string, value any, message string) error {
	return &syncerrors.ShapeError{
		Path:    path,
		Want:    want,
		Value:   value,
		Message: message,
	}
}
