package reconcile

import (
	"strings"

	"github.com/erraggy/oassync/docshape"
	"github.com/erraggy/oassync/entity"
	"github.com/erraggy/oassync/internal/severity"
	"github.com/erraggy/oassync/shape"
	"github.com/erraggy/oassync/structdiff"
)

// buildRequest handles entries under the operations section. Path segments
// are [paths, pathString, method, ...rest].
func (r *Reconciler) buildRequest(res *Result, e structdiff.Entry) {
	switch {
	case len(e.Path) < 2:
		res.drop(e, severity.SeverityWarning, "whole operations section changes are not synced")
	case e.Path[1].IsIndex:
		res.drop(e, severity.SeverityWarning, "operations are keyed by path string, not index")
	case len(e.Path) == 2:
		r.requestAtPath(res, e)
	case len(e.Path) == 3:
		r.requestAtMethod(res, e)
	default:
		r.requestField(res, e)
	}
}

// requestAtPath handles entries addressing a path item as a whole.
func (r *Reconciler) requestAtPath(res *Result, e structdiff.Entry) {
	coll := r.tables.Collection
	switch e.Kind {
	case structdiff.Change:
		// Path key rename: affects every request defined under the old
		// path, whatever its method.
		oldPath, okOld := e.OldValue.(string)
		newPath, okNew := e.NewValue.(string)
		if !okOld || !okNew {
			res.drop(e, severity.SeverityWarning, "path rename values must be strings")
			return
		}
		matched := false
		for _, uid := range coll.RequestUIDs {
			req, ok := r.tables.Requests[uid]
			if !ok || req.Path != oldPath {
				continue
			}
			res.add(entity.EditRequest{UID: req.UID, Field: "path", Value: newPath})
			matched = true
		}
		if !matched {
			res.drop(e, severity.SeverityInfo, "no requests under the renamed path")
		}
	case structdiff.Create:
		// A brand-new path: the value is a path item keyed by method.
		item, ok := e.NewValue.(map[string]any)
		if !ok {
			res.drop(e, severity.SeverityWarning, "new path item is not an object")
			return
		}
		added := false
		for _, method := range entity.MethodOrder {
			body, ok := item[method].(map[string]any)
			if !ok {
				continue
			}
			added = r.addOperation(res, e, e.Path[1].Name, method, body) || added
		}
		if !added {
			res.drop(e, severity.SeverityInfo, "new path item defines no operations")
		}
	default:
		// Removing a whole path is unsupported upstream and stays so;
		// removals surface per-method instead.
		res.drop(e, severity.SeverityInfo, "whole path removal is not synced")
	}
}

// requestAtMethod handles entries addressing one operation as a whole, plus
// the combiner's synthetic method rename.
func (r *Reconciler) requestAtMethod(res *Result, e structdiff.Entry) {
	coll := r.tables.Collection
	pathStr := e.Path[1].Name
	third := e.Path[2]

	if e.Kind == structdiff.Change && !third.IsIndex && third.Name == methodField {
		oldMethod, okOld := e.OldValue.(string)
		newMethod, okNew := e.NewValue.(string)
		if !okOld || !okNew {
			res.drop(e, severity.SeverityWarning, "method rename values must be strings")
			return
		}
		matched := false
		for _, uid := range coll.RequestUIDs {
			req, ok := r.tables.Requests[uid]
			if !ok || req.Path != pathStr || req.Method != strings.ToLower(oldMethod) {
				continue
			}
			res.add(entity.EditRequest{UID: req.UID, Field: "method", Value: strings.ToLower(newMethod)})
			matched = true
		}
		if !matched {
			res.drop(e, severity.SeverityInfo, "no request matched the renamed method")
		}
		return
	}

	switch e.Kind {
	case structdiff.Create:
		body, ok := e.NewValue.(map[string]any)
		if !ok {
			res.drop(e, severity.SeverityWarning, "new operation body is not an object")
			return
		}
		r.addOperation(res, e, pathStr, third.Name, body)
	case structdiff.Remove:
		req, ok := r.findRequest(pathStr, third.Name)
		if !ok {
			res.drop(e, severity.SeverityError, "request not found")
			return
		}
		res.add(entity.DeleteRequest{UID: req.UID, CollectionUID: coll.UID})
	default:
		res.drop(e, severity.SeverityWarning, "whole operation replacement is not synced")
	}
}

// requestField handles entries addressing a field inside one operation.
func (r *Reconciler) requestField(res *Result, e structdiff.Entry) {
	pathStr := e.Path[1].Name
	req, ok := r.findRequest(pathStr, e.Path[2].Name)
	if !ok {
		res.drop(e, severity.SeverityError, "request not found")
		return
	}
	rest := e.Path[3:]

	// Partial security changes are deferred: operation security is only
	// rewritten whole, on operation add.
	if !rest[0].IsIndex && rest[0].Name == "security" {
		res.drop(e, severity.SeverityInfo, "operation security changes are not synced")
		return
	}

	if isArrayTail(rest, e) {
		arr, field, err := pushPop(req.Body, docshape.Request(), rest, e)
		if err != nil {
			res.drop(e, severity.SeverityWarning, err.Error())
			return
		}
		res.add(entity.EditRequest{UID: req.UID, Field: field, Value: arr})
		return
	}

	p, err := parseValue(docshape.Request(), rest, e)
	if err != nil {
		res.drop(e, severity.SeverityWarning, err.Error())
		return
	}
	res.add(entity.EditRequest{UID: req.UID, Field: p.FieldPath, Value: p.Value})
}

// addOperation assembles and validates a new request entity from an
// operation body in document form, emitting one add on success.
func (r *Reconciler) addOperation(res *Result, e structdiff.Entry, pathStr, method string, body map[string]any) bool {
	coll := r.tables.Collection
	req := entity.BuildRequest(pathStr, method, body, r.tables.CollectionServers())
	if err := shape.Validate(docshape.Request(), req.Body); err != nil {
		res.drop(e, severity.SeverityWarning, err.Error())
		return false
	}
	res.add(entity.AddRequest{Request: req, CollectionUID: coll.UID})
	return true
}

// findRequest locates a request by its composite (path, method) key.
func (r *Reconciler) findRequest(pathStr, method string) (*entity.Request, bool) {
	method = strings.ToLower(method)
	return entity.FindResource(r.tables.Collection.RequestUIDs, r.tables.Requests,
		func(req *entity.Request) bool {
			return req.Path == pathStr && req.Method == method
		})
}
