package reconcile

import (
	"github.com/erraggy/oassync/docshape"
	"github.com/erraggy/oassync/entity"
	"github.com/erraggy/oassync/internal/severity"
	"github.com/erraggy/oassync/structdiff"
)

// buildCollection handles diff entries under the document-level scalar
// surface (info, externalDocs, and friends). Every successful entry becomes
// one edit against the collection itself.
func (r *Reconciler) buildCollection(res *Result, e structdiff.Entry) {
	coll := r.tables.Collection

	if isArrayTail(e.Path, e) {
		arr, field, err := pushPop(coll.Body, docshape.Collection(), e.Path, e)
		if err != nil {
			res.drop(e, severity.SeverityWarning, err.Error())
			return
		}
		res.add(entity.EditCollection{UID: coll.UID, Field: field, Value: arr})
		return
	}

	p, err := parseValue(docshape.Collection(), e.Path, e)
	if err != nil {
		res.drop(e, severity.SeverityWarning, err.Error())
		return
	}
	res.add(entity.EditCollection{UID: coll.UID, Field: p.FieldPath, Value: p.Value})
}
