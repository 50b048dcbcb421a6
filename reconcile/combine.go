package reconcile

import (
	"github.com/erraggy/oassync/structdiff"
)

// methodField is the synthetic path segment a combined method rename is
// reported under, consumed by the request builder's method fan-out.
const methodField = "method"

// Combine preprocesses a raw diff list, merging adjacent Remove→Create
// pairs that represent a rename of a keyed node into explicit Change
// entries. At the top level (empty prefix) only entries under the "paths"
// section are rename candidates; in a recursive call every entry is, and
// every output path is prefixed with prefix.
//
// A rename of the path key emits a Change carrying the old and new key; a
// rename of the method under an unchanged (or also renamed) path emits a
// second Change at the synthetic "method" segment, keyed under the old path
// so the fan-out can locate the requests the snapshot holds. At the top
// level the old and new bodies of the renamed node are then diffed and the
// result combined recursively under the renamed node's new location, so
// field changes that coexist with a rename surface as ordinary prefixed
// entries.
//
// Deep Create and Remove entries (more than three segments, final segment
// not an array index) are rewritten as Change entries with the missing side
// absent, so single-field additions and removals are handled uniformly with
// edits downstream. Everything else passes through in input order.
func (r *Reconciler) Combine(entries []structdiff.Entry, prefix structdiff.Path) []structdiff.Entry {
	top := len(prefix) == 0
	out := make([]structdiff.Entry, 0, len(entries))
	for i := 0; i < len(entries); i++ {
		e := entries[i]
		if e.Kind == structdiff.Remove && i+1 < len(entries) && entries[i+1].Kind == structdiff.Create &&
			renameEligible(e, top) && renameEligible(entries[i+1], top) {
			if combined, ok := r.combinePair(e, entries[i+1], prefix, top); ok {
				out = append(out, combined...)
				i++
				continue
			}
		}
		e.Path = e.Path.Prepend(prefix)
		out = append(out, simplifyDeep(e))
	}
	return out
}

// renameEligible reports whether an entry may participate in a rename pair.
// At the top level only keyed entries under the operations section qualify.
func renameEligible(e structdiff.Entry, top bool) bool {
	if !top {
		return len(e.Path) > 0
	}
	return len(e.Path) >= 2 && !e.Path[0].IsIndex && e.Path[0].Name == "paths" && !e.Path[1].IsIndex
}

// combinePair merges one Remove+Create rename candidate. It returns false
// when the pair does not actually rename anything, in which case both
// entries pass through unchanged.
func (r *Reconciler) combinePair(rem, cre structdiff.Entry, prefix structdiff.Path, top bool) ([]structdiff.Entry, bool) {
	// The keyed node is addressed by (key, subKey): for the operations
	// section that is (path string, method); in a recursive call the
	// entry's first two relative segments.
	base := 0
	section := prefix
	if top {
		base = 1
		section = structdiff.Path{rem.Path[0]}
	}
	if len(rem.Path) <= base || len(cre.Path) <= base {
		return nil, false
	}
	oldKey, newKey := rem.Path[base], cre.Path[base]

	var oldSub, newSub structdiff.Segment
	hasOldSub := len(rem.Path) > base+1
	hasNewSub := len(cre.Path) > base+1
	if hasOldSub {
		oldSub = rem.Path[base+1]
	}
	if hasNewSub {
		newSub = cre.Path[base+1]
	}

	keyChanged := oldKey.String() != newKey.String()
	subChanged := hasOldSub && hasNewSub && oldSub.String() != newSub.String()
	if !keyChanged && !subChanged {
		return nil, false
	}

	out := make([]structdiff.Entry, 0, 2)
	if keyChanged {
		out = append(out, structdiff.Entry{
			Kind:     structdiff.Change,
			Path:     appendPath(section, newKey),
			OldValue: oldKey.String(),
			NewValue: newKey.String(),
		})
	}
	if subChanged {
		sub := newSub
		at := newKey
		if top {
			// The method fan-out matches requests by the path the snapshot
			// currently holds. Commands are all planned before any apply,
			// so even when the key is renamed too, the snapshot still holds
			// the old key; the synthetic entry is keyed under it.
			sub = structdiff.Key(methodField)
			at = oldKey
		}
		out = append(out, structdiff.Entry{
			Kind:     structdiff.Change,
			Path:     appendPath(section, at, sub),
			OldValue: oldSub.String(),
			NewValue: newSub.String(),
		})
	}

	// Only the outermost level sub-diffs the renamed node's bodies; the
	// recursive combine below never recurses again.
	if top {
		next := appendPath(section, newKey)
		if hasNewSub {
			next = appendPath(next, newSub)
		}
		out = append(out, r.Combine(r.diff(rem.OldValue, cre.NewValue), next)...)
	}
	return out, true
}

// simplifyDeep rewrites a deep field-level Create or Remove as a Change
// with the missing side absent. Array-index tails keep their kind so the
// push/pop policy still applies.
func simplifyDeep(e structdiff.Entry) structdiff.Entry {
	if e.Kind == structdiff.Change || len(e.Path) <= 3 {
		return e
	}
	if last, ok := e.Path.Last(); ok && last.IsIndex {
		return e
	}
	e.Kind = structdiff.Change
	return e
}

func appendPath(p structdiff.Path, segs ...structdiff.Segment) structdiff.Path {
	out := make(structdiff.Path, 0, len(p)+len(segs))
	out = append(out, p...)
	out = append(out, segs...)
	return out
}
