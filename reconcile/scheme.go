package reconcile

import (
	"github.com/erraggy/oassync/docshape"
	"github.com/erraggy/oassync/entity"
	"github.com/erraggy/oassync/internal/severity"
	"github.com/erraggy/oassync/shape"
	"github.com/erraggy/oassync/structdiff"
)

// buildScheme handles entries under components.securitySchemes. Path
// segments are [components, securitySchemes, schemeName, ...rest]. Schemes
// are looked up by uid first, then by their component name key.
func (r *Reconciler) buildScheme(res *Result, e structdiff.Entry) {
	coll := r.tables.Collection
	if len(e.Path) < 3 || e.Path[2].IsIndex {
		res.drop(e, severity.SeverityWarning, "security schemes are addressed by name")
		return
	}
	name := e.Path[2].Name
	sch := r.findScheme(name)

	if len(e.Path) == 3 {
		switch e.Kind {
		case structdiff.Remove:
			if sch == nil {
				res.drop(e, severity.SeverityError, "security scheme not found")
				return
			}
			res.add(entity.DeleteSecurityScheme{UID: sch.UID, CollectionUID: coll.UID})
		case structdiff.Create:
			body, ok := e.NewValue.(map[string]any)
			if !ok {
				res.drop(e, severity.SeverityWarning, "new security scheme is not an object")
				return
			}
			if err := shape.Validate(docshape.SecurityScheme(), body); err != nil {
				res.drop(e, severity.SeverityWarning, err.Error())
				return
			}
			norm := entity.NormalizeSchemeBody(body)
			typ, _ := norm["type"].(string)
			res.add(entity.AddSecurityScheme{
				Scheme:        &entity.SecurityScheme{UID: entity.NewUID(), Name: name, Type: typ, Body: norm},
				CollectionUID: coll.UID,
			})
		default:
			res.drop(e, severity.SeverityWarning, "whole scheme replacement is not synced")
		}
		return
	}

	if sch == nil {
		res.drop(e, severity.SeverityError, "security scheme not found")
		return
	}
	rest := e.Path[3:]

	// Flow sub-paths narrow by the scheme's current flow type, since the
	// store keeps the single normalized flow rather than the document's
	// flows object. The emitted field path is prefixed accordingly.
	prefix := ""
	base := sch.Body
	var target shape.Shape
	if !rest[0].IsIndex && rest[0].Name == "flows" && sch.Type == "oauth2" {
		flow, _ := sch.Body["flow"].(map[string]any)
		flowType, _ := flow["type"].(string)
		narrowed, ok := shape.Narrow(docshape.OAuth2Flow(), "type", flowType)
		if !ok {
			res.drop(e, severity.SeverityWarning, "no flow variant for current flow type")
			return
		}
		if len(rest) < 3 {
			res.drop(e, severity.SeverityInfo, "whole flow changes are not synced")
			return
		}
		// Strip the flows selector and the flow kind.
		rest = rest[2:]
		prefix = "flow"
		base = flow
		target = narrowed
	} else {
		narrowed, ok := shape.Narrow(docshape.SecurityScheme(), "type", sch.Type)
		if !ok {
			res.drop(e, severity.SeverityWarning, "no scheme variant for current scheme type")
			return
		}
		target = narrowed
	}

	// OAuth2 scopes are a free-form map keyed by scope name. Rather than
	// parsing one scope entry, copy the current map, set or delete the
	// named scope, and replace the map whole.
	if sch.Type == "oauth2" && len(rest) >= 2 && !rest[0].IsIndex && rest[0].Name == "scopes" {
		r.editScope(res, e, sch, base, prefix, rest[1])
		return
	}

	if isArrayTail(rest, e) {
		arr, field, err := pushPop(base, target, rest, e)
		if err != nil {
			res.drop(e, severity.SeverityWarning, err.Error())
			return
		}
		res.add(entity.EditSecurityScheme{UID: sch.UID, Field: joinField(prefix, field), Value: arr})
		return
	}

	p, err := parseValue(target, rest, e)
	if err != nil {
		res.drop(e, severity.SeverityWarning, err.Error())
		return
	}
	res.add(entity.EditSecurityScheme{UID: sch.UID, Field: joinField(prefix, p.FieldPath), Value: p.Value})
}

// editScope sets or deletes one named scope in a copy of the scheme's
// current scopes map and emits one edit replacing the map.
func (r *Reconciler) editScope(res *Result, e structdiff.Entry, sch *entity.SecurityScheme, base map[string]any, prefix string, seg structdiff.Segment) {
	if seg.IsIndex {
		res.drop(e, severity.SeverityWarning, "scopes are keyed by name")
		return
	}
	next := map[string]any{}
	if cur, ok := base["scopes"].(map[string]any); ok {
		for k, v := range cur {
			next[k] = v
		}
	}
	if e.Kind == structdiff.Remove || (e.Kind == structdiff.Change && e.NewValue == nil) {
		delete(next, seg.Name)
	} else {
		desc, ok := e.NewValue.(string)
		if !ok {
			res.drop(e, severity.SeverityWarning, "scope description must be a string")
			return
		}
		next[seg.Name] = desc
	}
	res.add(entity.EditSecurityScheme{UID: sch.UID, Field: joinField(prefix, "scopes"), Value: next})
}

// findScheme resolves a scheme by uid, falling back to the component name
// key the document addresses schemes by.
func (r *Reconciler) findScheme(name string) *entity.SecurityScheme {
	if s, ok := r.tables.SecuritySchemes[entity.UID(name)]; ok {
		return s
	}
	s, ok := entity.FindResource(r.tables.Collection.SecuritySchemeUIDs, r.tables.SecuritySchemes,
		func(s *entity.SecurityScheme) bool { return s.Name == name })
	if !ok {
		return nil
	}
	return s
}

func joinField(prefix, field string) string {
	switch {
	case prefix == "":
		return field
	case field == "":
		return prefix
	}
	return prefix + "." + field
}
