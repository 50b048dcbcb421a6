package structdiff

import (
	"reflect"

	"github.com/barkimedes/go-deepcopy"

	"github.com/erraggy/oassync/internal/maputil"
)

// Diff compares two decoded documents and returns an ordered list of
// entries describing every structural difference. Map keys are visited in
// sorted order so output is deterministic. Values captured into entries are
// deep copies, detached from the input documents.
func Diff(oldValue, newValue any) []Entry {
	entries := make([]Entry, 0)
	walk(nil, oldValue, newValue, &entries)
	return entries
}

func walk(path Path, a, b any, out *[]Entry) {
	am, aIsMap := a.(map[string]any)
	bm, bIsMap := b.(map[string]any)
	if aIsMap && bIsMap {
		walkMaps(path, am, bm, out)
		return
	}

	as, aIsSlice := a.([]any)
	bs, bIsSlice := b.([]any)
	if aIsSlice && bIsSlice {
		walkSlices(path, as, bs, out)
		return
	}

	if !reflect.DeepEqual(a, b) {
		*out = append(*out, Entry{
			Kind:     Change,
			Path:     clonePath(path),
			OldValue: cloneValue(a),
			NewValue: cloneValue(b),
		})
	}
}

func walkMaps(path Path, a, b map[string]any, out *[]Entry) {
	for _, k := range maputil.SortedKeys(a) {
		child := append(clonePath(path), Key(k))
		vb, ok := b[k]
		if !ok {
			*out = append(*out, Entry{
				Kind:     Remove,
				Path:     child,
				OldValue: cloneValue(a[k]),
			})
			continue
		}
		walk(child, a[k], vb, out)
	}
	for _, k := range maputil.SortedKeys(b) {
		if _, ok := a[k]; ok {
			continue
		}
		*out = append(*out, Entry{
			Kind:     Create,
			Path:     append(clonePath(path), Key(k)),
			NewValue: cloneValue(b[k]),
		})
	}
}

func walkSlices(path Path, a, b []any, out *[]Entry) {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		walk(append(clonePath(path), Index(i)), a[i], b[i], out)
	}
	// Length differences are always reported at the tail.
	for i := n; i < len(b); i++ {
		*out = append(*out, Entry{
			Kind:     Create,
			Path:     append(clonePath(path), Index(i)),
			NewValue: cloneValue(b[i]),
		})
	}
	for i := n; i < len(a); i++ {
		*out = append(*out, Entry{
			Kind:     Remove,
			Path:     append(clonePath(path), Index(i)),
			OldValue: cloneValue(a[i]),
		})
	}
}

func clonePath(p Path) Path {
	out := make(Path, len(p))
	copy(out, p)
	return out
}

// cloneValue deep-copies v so an entry stays valid even if the caller
// mutates the document it was diffed from. Values that cannot be copied
// (channels, funcs) are returned as-is; decoded documents never contain them.
func cloneValue(v any) any {
	if v == nil {
		return nil
	}
	c, err := deepcopy.Anything(v)
	if err != nil {
		return v
	}
	return c
}
