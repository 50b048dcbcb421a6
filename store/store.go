// Package store provides an in-memory implementation of the mutation
// command sink the reconcile package plans against. It interprets the
// entity command union: adds insert the entity and append its uid to the
// owning collection list, edits write a dotted field path into the entity,
// and deletes remove the entity and its uid list entry.
//
// The production store behind a real application is expected to supply its
// own sink; this one backs the watch layer, the CLI, and tests.
package store

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/erraggy/oassync/entity"
	"github.com/erraggy/oassync/syncerrors"
)

// Memory holds one collection's entity tables and applies mutation
// commands to them. It is safe for concurrent use.
type Memory struct {
	mu     sync.RWMutex
	tables *entity.Tables
}

// New returns a store over the given tables.
func New(tables *entity.Tables) *Memory {
	return &Memory{tables: tables}
}

// Tables returns the current entity tables. Callers must treat the result
// as read-only; mutation goes through Apply.
func (m *Memory) Tables() *entity.Tables {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.tables
}

// Reset replaces the tables wholesale, discarding any prior state.
func (m *Memory) Reset(tables *entity.Tables) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tables = tables
}

// Apply interprets the commands in order. It stops at the first command
// that cannot be applied, returning how many were.
func (m *Memory) Apply(commands []entity.Command) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, cmd := range commands {
		if err := m.apply(cmd); err != nil {
			return i, err
		}
	}
	return len(commands), nil
}

func (m *Memory) apply(cmd entity.Command) error {
	t := m.tables
	coll := t.Collection
	switch c := cmd.(type) {
	case entity.AddRequest:
		t.Requests[c.Request.UID] = c.Request
		coll.RequestUIDs = append(coll.RequestUIDs, c.Request.UID)
	case entity.EditRequest:
		req, ok := t.Requests[c.UID]
		if !ok {
			return notFound("request", string(c.UID))
		}
		switch c.Field {
		case "method":
			req.Method, _ = c.Value.(string)
		case "path":
			req.Path, _ = c.Value.(string)
		case "name":
			req.Name, _ = c.Value.(string)
		default:
			return setField(req.Body, c.Field, c.Value)
		}
	case entity.DeleteRequest:
		delete(t.Requests, c.UID)
		coll.RequestUIDs = removeUID(coll.RequestUIDs, c.UID)

	case entity.AddServer:
		t.Servers[c.Server.UID] = c.Server
		coll.ServerUIDs = append(coll.ServerUIDs, c.Server.UID)
	case entity.EditServer:
		srv, ok := t.Servers[c.UID]
		if !ok {
			return notFound("server", string(c.UID))
		}
		if c.Field == "url" {
			srv.URL, _ = c.Value.(string)
		}
		return setField(srv.Body, c.Field, c.Value)
	case entity.DeleteServer:
		delete(t.Servers, c.UID)
		coll.ServerUIDs = removeUID(coll.ServerUIDs, c.UID)

	case entity.AddTag:
		t.Tags[c.Tag.UID] = c.Tag
		coll.TagUIDs = append(coll.TagUIDs, c.Tag.UID)
	case entity.EditTag:
		tag, ok := t.Tags[c.UID]
		if !ok {
			return notFound("tag", string(c.UID))
		}
		if c.Field == "name" {
			tag.Name, _ = c.Value.(string)
		}
		return setField(tag.Body, c.Field, c.Value)
	case entity.DeleteTag:
		delete(t.Tags, c.UID)
		coll.TagUIDs = removeUID(coll.TagUIDs, c.UID)

	case entity.AddSecurityScheme:
		t.SecuritySchemes[c.Scheme.UID] = c.Scheme
		coll.SecuritySchemeUIDs = append(coll.SecuritySchemeUIDs, c.Scheme.UID)
	case entity.EditSecurityScheme:
		sch, ok := t.SecuritySchemes[c.UID]
		if !ok {
			return notFound("security scheme", string(c.UID))
		}
		if c.Field == "type" {
			sch.Type, _ = c.Value.(string)
		}
		return setField(sch.Body, c.Field, c.Value)
	case entity.DeleteSecurityScheme:
		delete(t.SecuritySchemes, c.UID)
		coll.SecuritySchemeUIDs = removeUID(coll.SecuritySchemeUIDs, c.UID)

	case entity.EditCollection:
		if err := setField(coll.Body, c.Field, c.Value); err != nil {
			return err
		}
		switch c.Field {
		case "info.title":
			coll.Name, _ = c.Value.(string)
		case "info.version":
			coll.Version, _ = c.Value.(string)
		case "info.description":
			coll.Description, _ = c.Value.(string)
		}

	default:
		return &syncerrors.EntityError{Kind: "command", Key: cmd.String(), Message: "unsupported command"}
	}
	return nil
}

// setField writes value at the dotted field path inside body, creating
// intermediate objects as needed. A nil value deletes the field. Numeric
// segments index arrays; an index equal to the array length appends.
func setField(body map[string]any, field string, value any) error {
	segs := strings.Split(field, ".")
	var cur any = body
	for _, seg := range segs[:len(segs)-1] {
		next, err := descend(cur, seg)
		if err != nil {
			return fmt.Errorf("store: field %q: %w", field, err)
		}
		cur = next
	}
	last := segs[len(segs)-1]
	switch c := cur.(type) {
	case map[string]any:
		if value == nil {
			delete(c, last)
			return nil
		}
		c[last] = value
		return nil
	case []any:
		i, err := strconv.Atoi(last)
		if err != nil || i < 0 || i >= len(c) {
			return fmt.Errorf("store: field %q: index out of range", field)
		}
		c[i] = value
		return nil
	default:
		return fmt.Errorf("store: field %q: cannot set into %T", field, cur)
	}
}

func descend(cur any, seg string) (any, error) {
	switch c := cur.(type) {
	case map[string]any:
		next, ok := c[seg]
		if !ok {
			child := map[string]any{}
			c[seg] = child
			return child, nil
		}
		return next, nil
	case []any:
		i, err := strconv.Atoi(seg)
		if err != nil || i < 0 || i >= len(c) {
			return nil, fmt.Errorf("index %q out of range", seg)
		}
		return c[i], nil
	default:
		return nil, fmt.Errorf("cannot descend into %T", cur)
	}
}

func removeUID(uids []entity.UID, uid entity.UID) []entity.UID {
	out := uids[:0]
	for _, u := range uids {
		if u != uid {
			out = append(out, u)
		}
	}
	return out
}

func notFound(kind, key string) error {
	return &syncerrors.EntityError{Kind: kind, Key: key, Message: "not found"}
}
