package reconcile

import (
	"github.com/erraggy/oassync/docshape"
	"github.com/erraggy/oassync/entity"
	"github.com/erraggy/oassync/internal/severity"
	"github.com/erraggy/oassync/shape"
	"github.com/erraggy/oassync/structdiff"
)

// buildTag handles entries under the tags section: [tags, index, ...rest],
// the index addressing the collection's tag list in owned order.
func (r *Reconciler) buildTag(res *Result, e structdiff.Entry) {
	coll := r.tables.Collection
	if len(e.Path) < 2 || !e.Path[1].IsIndex {
		res.drop(e, severity.SeverityWarning, "tags are addressed by index")
		return
	}
	idx := e.Path[1].Index

	if len(e.Path) == 2 {
		switch e.Kind {
		case structdiff.Remove:
			if idx < 0 || idx >= len(coll.TagUIDs) {
				res.drop(e, severity.SeverityError, "no tag at index")
				return
			}
			res.add(entity.DeleteTag{UID: coll.TagUIDs[idx], CollectionUID: coll.UID})
		case structdiff.Create:
			body, ok := e.NewValue.(map[string]any)
			if !ok {
				res.drop(e, severity.SeverityWarning, "new tag is not an object")
				return
			}
			if err := shape.Validate(docshape.Tag(), body); err != nil {
				res.drop(e, severity.SeverityWarning, err.Error())
				return
			}
			name, _ := body["name"].(string)
			res.add(entity.AddTag{
				Tag:           &entity.Tag{UID: entity.NewUID(), Name: name, Body: body},
				CollectionUID: coll.UID,
			})
		default:
			res.drop(e, severity.SeverityWarning, "whole tag replacement is not synced")
		}
		return
	}

	if idx < 0 || idx >= len(coll.TagUIDs) {
		res.drop(e, severity.SeverityError, "no tag at index")
		return
	}
	tag, ok := r.tables.Tags[coll.TagUIDs[idx]]
	if !ok {
		res.drop(e, severity.SeverityError, "tag not found")
		return
	}
	rest := e.Path[2:]

	if isArrayTail(rest, e) {
		arr, field, err := pushPop(tag.Body, docshape.Tag(), rest, e)
		if err != nil {
			res.drop(e, severity.SeverityWarning, err.Error())
			return
		}
		res.add(entity.EditTag{UID: tag.UID, Field: field, Value: arr})
		return
	}

	p, err := parseValue(docshape.Tag(), rest, e)
	if err != nil {
		res.drop(e, severity.SeverityWarning, err.Error())
		return
	}
	res.add(entity.EditTag{UID: tag.UID, Field: p.FieldPath, Value: p.Value})
}
