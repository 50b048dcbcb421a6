// Package syncerrors provides structured error types for oassync.
//
// These error types enable programmatic error handling via errors.Is() and
// errors.As(), allowing callers to distinguish between different categories
// of errors and implement appropriate recovery strategies.
//
// # Error Categories
//
//   - ShapeError: a value failed validation against its value-shape description
//   - EntityError: an entity lookup against the normalized store failed
//   - FetchError: a remote document could not be fetched or decoded
//   - ConfigError: invalid configuration or input options
//
// # Usage with errors.Is
//
//	doc, err := fetcher.Fetch(ctx, "https://example.com/openapi.yaml")
//	if err != nil {
//	    var fetchErr *syncerrors.FetchError
//	    if errors.As(err, &fetchErr) && fetchErr.StatusCode == 404 {
//	        // Handle the missing document specifically
//	    }
//	}
package syncerrors

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is().
// These allow quick checks without type assertions.
var (
	// ErrShape indicates a value failed validation against a shape.
	ErrShape = errors.New("shape validation error")

	// ErrEntity indicates an entity lookup failure.
	ErrEntity = errors.New("entity not found")

	// ErrFetch indicates a remote document fetch failure.
	ErrFetch = errors.New("fetch error")

	// ErrConfig indicates an invalid configuration.
	ErrConfig = errors.New("configuration error")
)

// ShapeError represents a failure to validate a value against its
// value-shape description. Reconciliation treats these as "drop this diff
// entry", never as fatal, so they surface only through diagnostics.
type ShapeError struct {
	// Path is the dotted path to the offending value (e.g. "servers.0.url")
	Path string
	// Want describes the expected shape kind (e.g. "string", "object")
	Want string
	// Value is the offending value (may be nil)
	Value any
	// Message describes the validation failure
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ShapeError) Error() string {
	msg := "shape validation error"
	if e.Path != "" {
		msg += " at " + e.Path
	}
	if e.Want != "" {
		msg += ": want " + e.Want
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ShapeError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ShapeError) Is(target error) bool {
	return target == ErrShape
}

// EntityError represents a failed lookup of an entity in the normalized
// store, such as a request addressed by method+path that no longer exists.
type EntityError struct {
	// Kind is the entity kind ("request", "server", "tag", "security_scheme")
	Kind string
	// Key is the lookup key that failed (uid, name, or a composite key)
	Key string
	// Message provides additional context
	Message string
}

// Error returns a human-readable error message.
func (e *EntityError) Error() string {
	msg := "entity not found"
	if e.Kind != "" {
		msg += ": " + e.Kind
	}
	if e.Key != "" {
		msg += " " + e.Key
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// Unwrap returns nil as EntityError has no underlying cause.
func (e *EntityError) Unwrap() error {
	return nil
}

// Is reports whether target matches this error type.
func (e *EntityError) Is(target error) bool {
	return target == ErrEntity
}

// FetchError represents a failure to fetch or decode a remote document.
type FetchError struct {
	// Location is the URL or file path that failed
	Location string
	// StatusCode is the HTTP status code (0 for non-HTTP failures)
	StatusCode int
	// Message describes the failure
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *FetchError) Error() string {
	msg := "fetch error"
	if e.Location != "" {
		msg += " for " + e.Location
	}
	if e.StatusCode > 0 {
		msg += fmt.Sprintf(" (status %d)", e.StatusCode)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *FetchError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *FetchError) Is(target error) bool {
	return target == ErrFetch
}

// ConfigError represents an invalid configuration or input.
// This includes invalid options, missing required inputs, and conflicting settings.
type ConfigError struct {
	// Option is the name of the problematic configuration option
	Option string
	// Value is the invalid value that was provided (may be nil)
	Value any
	// Message describes the configuration error
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ConfigError) Error() string {
	msg := "configuration error"
	if e.Option != "" {
		msg += " for " + e.Option
	}
	if e.Value != nil {
		msg += fmt.Sprintf(" (value: %v)", e.Value)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ConfigError) Is(target error) bool {
	return target == ErrConfig
}
