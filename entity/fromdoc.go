package entity

import (
	"strings"

	"github.com/barkimedes/go-deepcopy"

	"github.com/erraggy/oassync/internal/maputil"
)

// collectionKeys are the document-level fields kept on the collection
// snapshot itself; the remaining sections decompose into child entities.
var collectionKeys = []string{"openapi", "info", "externalDocs", "jsonSchemaDialect"}

// flowKindOrder is the order OAuth2 flow kinds are preferred in when a
// document's flows object is normalized to the single stored flow.
var flowKindOrder = []string{"authorizationCode", "implicit", "password", "clientCredentials"}

// FromDocument decomposes a decoded document into fresh entity tables: one
// collection owning one request per path+method, one server per servers
// entry, one tag per tags entry, and one security scheme per
// components.securitySchemes key. Bodies are deep copies, detached from the
// input document.
func FromDocument(doc map[string]any) *Tables {
	coll := &Collection{UID: NewUID(), Body: make(map[string]any)}
	for _, k := range collectionKeys {
		if v, ok := doc[k]; ok {
			coll.Body[k] = cloneValue(v)
		}
	}
	if info, ok := doc["info"].(map[string]any); ok {
		coll.Name, _ = info["title"].(string)
		coll.Version, _ = info["version"].(string)
		coll.Description, _ = info["description"].(string)
	}

	t := NewTables(coll)

	if servers, ok := doc["servers"].([]any); ok {
		for _, raw := range servers {
			m, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			url, _ := m["url"].(string)
			s := &Server{UID: NewUID(), URL: url, Body: cloneMap(m)}
			t.Servers[s.UID] = s
			coll.ServerUIDs = append(coll.ServerUIDs, s.UID)
		}
	}

	if tags, ok := doc["tags"].([]any); ok {
		for _, raw := range tags {
			m, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			name, _ := m["name"].(string)
			tag := &Tag{UID: NewUID(), Name: name, Body: cloneMap(m)}
			t.Tags[tag.UID] = tag
			coll.TagUIDs = append(coll.TagUIDs, tag.UID)
		}
	}

	if components, ok := doc["components"].(map[string]any); ok {
		if schemes, ok := components["securitySchemes"].(map[string]any); ok {
			for _, name := range maputil.SortedKeys(schemes) {
				m, ok := schemes[name].(map[string]any)
				if !ok {
					continue
				}
				body := NormalizeSchemeBody(m)
				typ, _ := body["type"].(string)
				s := &SecurityScheme{UID: NewUID(), Name: name, Type: typ, Body: body}
				t.SecuritySchemes[s.UID] = s
				coll.SecuritySchemeUIDs = append(coll.SecuritySchemeUIDs, s.UID)
			}
		}
	}

	if paths, ok := doc["paths"].(map[string]any); ok {
		known := t.CollectionServers()
		for _, p := range maputil.SortedKeys(paths) {
			item, ok := paths[p].(map[string]any)
			if !ok {
				continue
			}
			for _, method := range MethodOrder {
				op, ok := item[method].(map[string]any)
				if !ok {
					continue
				}
				req := BuildRequest(p, method, op, known)
				t.Requests[req.UID] = req
				coll.RequestUIDs = append(coll.RequestUIDs, req.UID)
			}
		}
	}

	return t
}

// CollectionServers returns the collection's servers in owned order,
// skipping uids missing from the table.
func (t *Tables) CollectionServers() []*Server {
	out := make([]*Server, 0, len(t.Collection.ServerUIDs))
	for _, uid := range t.Collection.ServerUIDs {
		if s, ok := t.Servers[uid]; ok {
			out = append(out, s)
		}
	}
	return out
}

// BuildRequest assembles a request snapshot from an operation body in
// document form. Operation-level server overrides are lifted out of the
// body into uid references against the given known servers (matched by
// URL), the security list is normalized, and an unrecognized method falls
// back to GET.
func BuildRequest(pathStr, method string, body map[string]any, known []*Server) *Request {
	b := cloneMap(body)

	var serverUIDs []UID
	if raw, ok := b["servers"].([]any); ok {
		for _, sv := range raw {
			m, ok := sv.(map[string]any)
			if !ok {
				continue
			}
			url, _ := m["url"].(string)
			for _, s := range known {
				if s.URL == url {
					serverUIDs = append(serverUIDs, s.UID)
					break
				}
			}
		}
		delete(b, "servers")
	}

	// Operation-level security fully overrides document-level security,
	// so the list is stored as-is after normalization, never merged.
	if sec, ok := b["security"].([]any); ok {
		b["security"] = NormalizeSecurity(sec)
	}

	method = strings.ToLower(method)
	if !IsHTTPMethod(method) {
		method = "get"
	}

	return &Request{
		UID:        NewUID(),
		Name:       RequestName(b, method, pathStr),
		Method:     method,
		Path:       pathStr,
		ServerUIDs: serverUIDs,
		Body:       b,
	}
}

// NormalizeSecurity normalizes a security requirement list: the empty
// object (the "optional, no scheme" marker) is preserved, every non-empty
// entry is reduced to its single scheme-key/value pair, and non-object
// entries are dropped.
func NormalizeSecurity(list []any) []any {
	out := make([]any, 0, len(list))
	for _, item := range list {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if len(m) == 0 {
			out = append(out, map[string]any{})
			continue
		}
		k := maputil.SortedKeys(m)[0]
		out = append(out, map[string]any{k: cloneValue(m[k])})
	}
	return out
}

// NormalizeSchemeBody converts a security scheme from document form to
// stored form: for OAuth2 schemes the flows object collapses to a single
// "flow" value carrying a "type" field, preferring flow kinds in
// flowKindOrder. Other scheme types are copied unchanged.
func NormalizeSchemeBody(body map[string]any) map[string]any {
	b := cloneMap(body)
	typ, _ := b["type"].(string)
	if typ != "oauth2" {
		return b
	}
	flows, ok := b["flows"].(map[string]any)
	if !ok {
		return b
	}
	for _, kind := range flowKindOrder {
		f, ok := flows[kind].(map[string]any)
		if !ok {
			continue
		}
		flow := cloneMap(f)
		flow["type"] = kind
		b["flow"] = flow
		break
	}
	delete(b, "flows")
	return b
}

func cloneMap(m map[string]any) map[string]any {
	c, ok := cloneValue(m).(map[string]any)
	if !ok {
		return make(map[string]any)
	}
	return c
}

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
