// Package structdiff computes structural diffs between two decoded documents
// and defines the diff entry model consumed by the reconcile package.
//
// Documents are the generic decoded form produced by the remote package:
// map[string]any, []any, and scalar values. A diff is an ordered list of
// Create/Remove/Change entries, each addressing one node by path.
//
// Array handling follows the tail policy the payload builders rely on:
// elements in the common prefix of two slices are compared element-wise, and
// any length difference is reported as Create or Remove entries at the tail
// indices only. Interior insertions therefore surface as a run of
// element-wise Change entries, never as index shifts.
package structdiff

import "strconv"

// Kind identifies the kind of a diff entry.
type Kind int

const (
	// Create indicates a node that exists only in the new document.
	Create Kind = iota
	// Remove indicates a node that exists only in the old document.
	Remove
	// Change indicates a node whose value differs between the documents.
	Change
)

// String returns the string representation of the entry kind.
func (k Kind) String() string {
	switch k {
	case Create:
		return "create"
	case Remove:
		return "remove"
	case Change:
		return "change"
	default:
		return "unknown"
	}
}

// Segment is one step of a diff path: either an object key or an array
// index. Use the Key and Index constructors rather than building the struct
// directly, so the two cases cannot be confused.
type Segment struct {
	// Name is the object key. Empty for index segments.
	Name string
	// Index is the array index. Zero for key segments.
	Index int
	// IsIndex reports whether this segment addresses an array element.
	IsIndex bool
}

// Key returns a segment addressing the named object field.
func Key(name string) Segment {
	return Segment{Name: name}
}

// Index returns a segment addressing the i-th array element.
func Index(i int) Segment {
	return Segment{Index: i, IsIndex: true}
}

// String returns the key name, or the decimal index for index segments.
func (s Segment) String() string {
	if s.IsIndex {
		return strconv.Itoa(s.Index)
	}
	return s.Name
}

// Path is an ordered sequence of segments read left-to-right from the
// document root.
type Path []Segment

// KeyPath builds a path of key segments, one per name.
func KeyPath(names ...string) Path {
	p := make(Path, len(names))
	for i, n := range names {
		p[i] = Key(n)
	}
	return p
}

// String renders the path in dotted form, e.g. "paths./pets.get" or
// "servers.2.url". An empty path renders as "".
func (p Path) String() string {
	switch len(p) {
	case 0:
		return ""
	case 1:
		return p[0].String()
	}
	out := p[0].String()
	for _, s := range p[1:] {
		out += "." + s.String()
	}
	return out
}

// Parent returns the path with its last segment dropped.
// The parent of an empty path is nil.
func (p Path) Parent() Path {
	if len(p) == 0 {
		return nil
	}
	return p[:len(p)-1]
}

// Last returns the final segment, or false for an empty path.
func (p Path) Last() (Segment, bool) {
	if len(p) == 0 {
		return Segment{}, false
	}
	return p[len(p)-1], true
}

// Prepend returns a new path with prefix in front of p.
func (p Path) Prepend(prefix Path) Path {
	if len(prefix) == 0 {
		return p
	}
	out := make(Path, 0, len(prefix)+len(p))
	out = append(out, prefix...)
	out = append(out, p...)
	return out
}

// Entry is one structural difference between two document versions.
//
// Invariants: for Change, OldValue and NewValue are structurally different;
// for Create, OldValue is nil; for Remove, NewValue is nil. Paths are never
// empty for a meaningful entry.
type Entry struct {
	Kind     Kind
	Path     Path
	OldValue any
	NewValue any
}

// DiffFunc produces an ordered diff between two decoded document values.
// The package-level Diff is the default implementation; the reconcile
// package accepts any DiffFunc for its recursive rename sub-diffing.
type DiffFunc func(oldValue, newValue any) []Entry
