// Package reconcile translates a structural diff between two document
// versions into an ordered list of mutation commands against the normalized
// entity store.
//
// A reconciliation pass is synchronous and stateless: Plan runs to
// completion over one diff list, reads the entity snapshots it was given,
// performs no I/O, and returns its full command list before returning.
// Snapshots are never mutated; all mutation is expressed as the returned
// commands, applied in order by the caller.
//
// Failure of one diff entry never aborts the pass. Entries that address
// unsupported paths, carry invalid values, or target missing entities are
// dropped and recorded as diagnostics on the result.
package reconcile

import (
	"github.com/erraggy/oassync/entity"
	"github.com/erraggy/oassync/internal/severity"
	"github.com/erraggy/oassync/structdiff"
)

// Reconciler plans mutation commands from diff entries against one
// collection's entity tables. A Reconciler holds no state between calls to
// Plan and is safe to reuse across passes over the same tables.
type Reconciler struct {
	tables *entity.Tables
	diff   structdiff.DiffFunc
}

// Option configures a Reconciler.
type Option func(*Reconciler)

// WithDiffFunc substitutes the structural diff used for recursive
// sub-diffing of renamed node bodies. The default is structdiff.Diff.
func WithDiffFunc(fn structdiff.DiffFunc) Option {
	return func(r *Reconciler) {
		if fn != nil {
			r.diff = fn
		}
	}
}

// New returns a Reconciler over the given entity tables.
func New(tables *entity.Tables, opts ...Option) *Reconciler {
	r := &Reconciler{
		tables: tables,
		diff:   structdiff.Diff,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Result is the outcome of one reconciliation pass: the mutation commands
// to apply, in order, plus a diagnostic per dropped diff entry.
type Result struct {
	Commands    []entity.Command
	Diagnostics []Diagnostic
}

func (res *Result) add(cmd entity.Command) {
	res.Commands = append(res.Commands, cmd)
}

func (res *Result) drop(e structdiff.Entry, sev severity.Severity, message string) {
	res.Diagnostics = append(res.Diagnostics, Diagnostic{
		Severity: sev,
		Kind:     e.Kind,
		Path:     e.Path.String(),
		Message:  message,
	})
}

// Plan combines the raw diff entries (see Combine) and routes each combined
// entry to the payload builder for the entity section its first path
// segment addresses. Command order follows combined-entry order; the caller
// must apply commands in that order, since later edits may target an
// element whose position depends on an earlier array-tail edit.
func (r *Reconciler) Plan(entries []structdiff.Entry) *Result {
	res := &Result{}
	for _, e := range r.Combine(entries, nil) {
		r.route(res, e)
	}
	return res
}

func (r *Reconciler) route(res *Result, e structdiff.Entry) {
	if len(e.Path) == 0 {
		res.drop(e, severity.SeverityWarning, "entry has an empty path")
		return
	}
	first := e.Path[0]
	if first.IsIndex {
		res.drop(e, severity.SeverityWarning, "document root is not an array")
		return
	}
	switch first.Name {
	case "paths":
		r.buildRequest(res, e)
	case "servers":
		r.buildServer(res, e)
	case "tags":
		r.buildTag(res, e)
	case "components":
		if len(e.Path) >= 2 && !e.Path[1].IsIndex && e.Path[1].Name == "securitySchemes" {
			r.buildScheme(res, e)
			return
		}
		res.drop(e, severity.SeverityWarning, "unsupported components section")
	case "security":
		// Top-level security requirement diffing is intentionally
		// unsupported; operation-level security is handled whole on
		// operation add.
		res.drop(e, severity.SeverityInfo, "document-level security changes are not synced")
	default:
		r.buildCollection(res, e)
	}
}
