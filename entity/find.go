package entity

// FindResource scans keys in order and returns the first entity from table
// satisfying predicate. Keys missing from table are skipped. It returns
// false when nothing matches, including for an empty key list.
//
// Entities are addressed this way when the lookup attribute is not the
// primary key: a request located by method+path, a scheme located by its
// component name.
func FindResource[T any](keys []UID, table map[UID]*T, predicate func(*T) bool) (*T, bool) {
	for _, k := range keys {
		e, ok := table[k]
		if !ok {
			continue
		}
		if predicate(e) {
			return e, true
		}
	}
	return nil, false
}
