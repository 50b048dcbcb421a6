// Package entity defines the normalized view of an OpenAPI document: the
// collection plus its requests, servers, tags, and security schemes, each
// addressable by uid. Entities reference each other only by uid lists,
// never by embedding.
//
// Snapshots are read-only for the duration of a reconciliation pass. All
// mutation is expressed as a Command value interpreted by the store.
package entity

import (
	"crypto/rand"
	"encoding/hex"

	"github.com/erraggy/oassync/structdiff"
)

// UID uniquely identifies one entity within the store.
type UID string

// NewUID returns a fresh random identifier.
func NewUID() UID {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		// crypto/rand never fails on supported platforms
		panic(err)
	}
	return UID(hex.EncodeToString(b[:]))
}

// Collection is the root entity: one synced document. It owns its child
// entities through ordered uid lists and keeps the document-level scalar
// surface (info, externalDocs) in Body.
type Collection struct {
	UID         UID
	Name        string
	Version     string
	Description string
	// DocumentURL is the location the document was last fetched from.
	DocumentURL string

	RequestUIDs        []UID
	ServerUIDs         []UID
	TagUIDs            []UID
	SecuritySchemeUIDs []UID

	Body map[string]any
}

// Request is one operation: an HTTP method bound to a path. Method and path
// are identity; everything else lives in Body in document form, with its
// security list normalized (see NormalizeSecurity).
type Request struct {
	UID    UID
	Name   string
	Method string
	Path   string
	// ServerUIDs references operation-level server overrides that matched
	// servers already known to the collection.
	ServerUIDs []UID
	Body       map[string]any
}

// Server is one server entry of the collection.
type Server struct {
	UID  UID
	URL  string
	Body map[string]any
}

// Tag is one tag definition of the collection.
type Tag struct {
	UID  UID
	Name string
	Body map[string]any
}

// SecurityScheme is one named security scheme. Name is the human-readable
// component key, used as the secondary lookup key. For OAuth2 schemes the
// document's flows object is normalized to a single "flow" value carrying a
// "type" field (see NormalizeSchemeBody).
type SecurityScheme struct {
	UID  UID
	Name string
	Type string
	Body map[string]any
}

// Tables is the read-only set of entity lookup tables for one collection.
type Tables struct {
	Collection      *Collection
	Requests        map[UID]*Request
	Servers         map[UID]*Server
	Tags            map[UID]*Tag
	SecuritySchemes map[UID]*SecurityScheme
}

// NewTables returns empty tables around the given collection.
func NewTables(c *Collection) *Tables {
	return &Tables{
		Collection:      c,
		Requests:        make(map[UID]*Request),
		Servers:         make(map[UID]*Server),
		Tags:            make(map[UID]*Tag),
		SecuritySchemes: make(map[UID]*SecurityScheme),
	}
}

// Lookup reads the current value at path inside a snapshot body. It returns
// false when the path walks through a missing key, an out-of-range index,
// or a non-container value.
func Lookup(body map[string]any, path structdiff.Path) (any, bool) {
	var cur any = body
	for _, seg := range path {
		switch c := cur.(type) {
		case map[string]any:
			if seg.IsIndex {
				return nil, false
			}
			v, ok := c[seg.Name]
			if !ok {
				return nil, false
			}
			cur = v
		case []any:
			if !seg.IsIndex || seg.Index < 0 || seg.Index >= len(c) {
				return nil, false
			}
			cur = c[seg.Index]
		default:
			return nil, false
		}
	}
	return cur, true
}
