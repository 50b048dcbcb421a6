package entity

import "fmt"

// Command is one mutation instruction for the store: an add, edit, or
// delete against one entity kind. Commands are descriptions only; this
// module never applies them itself. They must be applied in the order
// emitted, since later edits may target an element whose position depends
// on an earlier array edit having already applied.
type Command interface {
	fmt.Stringer
	isCommand()
}

// AddRequest inserts a new request under a collection.
type AddRequest struct {
	Request       *Request
	CollectionUID UID
}

func (AddRequest) isCommand() {}

// String returns a human-readable description of the command.
func (c AddRequest) String() string {
	return fmt.Sprintf("request.add %s %s (collection %s)", c.Request.Method, c.Request.Path, c.CollectionUID)
}

// EditRequest replaces the value at a dotted field path of a request.
type EditRequest struct {
	UID   UID
	Field string
	Value any
}

func (EditRequest) isCommand() {}

// String returns a human-readable description of the command.
func (c EditRequest) String() string {
	return fmt.Sprintf("request.edit %s %s = %v", c.UID, c.Field, c.Value)
}

// DeleteRequest removes a request from its collection.
type DeleteRequest struct {
	UID           UID
	CollectionUID UID
}

func (DeleteRequest) isCommand() {}

// String returns a human-readable description of the command.
func (c DeleteRequest) String() string {
	return fmt.Sprintf("request.delete %s (collection %s)", c.UID, c.CollectionUID)
}

// AddServer inserts a new server under a collection.
type AddServer struct {
	Server        *Server
	CollectionUID UID
}

func (AddServer) isCommand() {}

// String returns a human-readable description of the command.
func (c AddServer) String() string {
	return fmt.Sprintf("server.add %s (collection %s)", c.Server.URL, c.CollectionUID)
}

// EditServer replaces the value at a dotted field path of a server.
type EditServer struct {
	UID   UID
	Field string
	Value any
}

func (EditServer) isCommand() {}

// String returns a human-readable description of the command.
func (c EditServer) String() string {
	return fmt.Sprintf("server.edit %s %s = %v", c.UID, c.Field, c.Value)
}

// DeleteServer removes a server from its collection.
type DeleteServer struct {
	UID           UID
	CollectionUID UID
}

func (DeleteServer) isCommand() {}

// String returns a human-readable description of the command.
func (c DeleteServer) String() string {
	return fmt.Sprintf("server.delete %s (collection %s)", c.UID, c.CollectionUID)
}

// AddTag inserts a new tag under a collection.
type AddTag struct {
	Tag           *Tag
	CollectionUID UID
}

func (AddTag) isCommand() {}

// String returns a human-readable description of the command.
func (c AddTag) String() string {
	return fmt.Sprintf("tag.add %s (collection %s)", c.Tag.Name, c.CollectionUID)
}

// EditTag replaces the value at a dotted field path of a tag.
type EditTag struct {
	UID   UID
	Field string
	Value any
}

func (EditTag) isCommand() {}

// String returns a human-readable description of the command.
func (c EditTag) String() string {
	return fmt.Sprintf("tag.edit %s %s = %v", c.UID, c.Field, c.Value)
}

// DeleteTag removes a tag from its collection.
type DeleteTag struct {
	UID           UID
	CollectionUID UID
}

func (DeleteTag) isCommand() {}

// String returns a human-readable description of the command.
func (c DeleteTag) String() string {
	return fmt.Sprintf("tag.delete %s (collection %s)", c.UID, c.CollectionUID)
}

// AddSecurityScheme inserts a new security scheme under a collection.
type AddSecurityScheme struct {
	Scheme        *SecurityScheme
	CollectionUID UID
}

func (AddSecurityScheme) isCommand() {}

// String returns a human-readable description of the command.
func (c AddSecurityScheme) String() string {
	return fmt.Sprintf("scheme.add %s (collection %s)", c.Scheme.Name, c.CollectionUID)
}

// EditSecurityScheme replaces the value at a dotted field path of a scheme.
type EditSecurityScheme struct {
	UID   UID
	Field string
	Value any
}

func (EditSecurityScheme) isCommand() {}

// String returns a human-readable description of the command.
func (c EditSecurityScheme) String() string {
	return fmt.Sprintf("scheme.edit %s %s = %v", c.UID, c.Field, c.Value)
}

// DeleteSecurityScheme removes a scheme from its collection.
type DeleteSecurityScheme struct {
	UID           UID
	CollectionUID UID
}

func (DeleteSecurityScheme) isCommand() {}

// String returns a human-readable description of the command.
func (c DeleteSecurityScheme) String() string {
	return fmt.Sprintf("scheme.delete %s (collection %s)", c.UID, c.CollectionUID)
}

// EditCollection replaces the value at a dotted field path of the
// collection itself. Collections are never added or deleted by a
// reconciliation pass.
type EditCollection struct {
	UID   UID
	Field string
	Value any
}

func (EditCollection) isCommand() {}

// String returns a human-readable description of the command.
func (c EditCollection) String() string {
	return fmt.Sprintf("collection.edit %s %s = %v", c.UID, c.Field, c.Value)
}
