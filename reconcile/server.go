package reconcile

import (
	"github.com/erraggy/oassync/docshape"
	"github.com/erraggy/oassync/entity"
	"github.com/erraggy/oassync/internal/severity"
	"github.com/erraggy/oassync/shape"
	"github.com/erraggy/oassync/structdiff"
)

// buildServer handles entries under the servers section. Path segments are
// [servers, index, ...rest]; the index addresses the collection's server
// list in owned order.
func (r *Reconciler) buildServer(res *Result, e structdiff.Entry) {
	coll := r.tables.Collection
	if len(e.Path) < 2 || !e.Path[1].IsIndex {
		res.drop(e, severity.SeverityWarning, "servers are addressed by index")
		return
	}
	idx := e.Path[1].Index

	if len(e.Path) == 2 {
		switch e.Kind {
		case structdiff.Remove:
			if idx < 0 || idx >= len(coll.ServerUIDs) {
				res.drop(e, severity.SeverityError, "no server at index")
				return
			}
			res.add(entity.DeleteServer{UID: coll.ServerUIDs[idx], CollectionUID: coll.UID})
		case structdiff.Create:
			body, ok := e.NewValue.(map[string]any)
			if !ok {
				res.drop(e, severity.SeverityWarning, "new server is not an object")
				return
			}
			if err := shape.Validate(docshape.Server(), body); err != nil {
				res.drop(e, severity.SeverityWarning, err.Error())
				return
			}
			url, _ := body["url"].(string)
			res.add(entity.AddServer{
				Server:        &entity.Server{UID: entity.NewUID(), URL: url, Body: body},
				CollectionUID: coll.UID,
			})
		default:
			res.drop(e, severity.SeverityWarning, "whole server replacement is not synced")
		}
		return
	}

	if idx < 0 || idx >= len(coll.ServerUIDs) {
		res.drop(e, severity.SeverityError, "no server at index")
		return
	}
	srv, ok := r.tables.Servers[coll.ServerUIDs[idx]]
	if !ok {
		res.drop(e, severity.SeverityError, "server not found")
		return
	}
	rest := e.Path[2:]

	// Removing the whole variables map would leave the edit without a
	// value; emit the empty object instead.
	if e.Kind == structdiff.Remove && len(rest) == 1 && !rest[0].IsIndex && rest[0].Name == "variables" {
		res.add(entity.EditServer{UID: srv.UID, Field: "variables", Value: map[string]any{}})
		return
	}

	if isArrayTail(rest, e) {
		arr, field, err := pushPop(srv.Body, docshape.Server(), rest, e)
		if err != nil {
			res.drop(e, severity.SeverityWarning, err.Error())
			return
		}
		res.add(entity.EditServer{UID: srv.UID, Field: field, Value: arr})
		return
	}

	p, err := parseValue(docshape.Server(), rest, e)
	if err != nil {
		res.drop(e, severity.SeverityWarning, err.Error())
		return
	}
	res.add(entity.EditServer{UID: srv.UID, Field: p.FieldPath, Value: p.Value})
}
