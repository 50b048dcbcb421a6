// Package severity provides severity level constants and utilities
// for diagnostics reported by the reconcile and watch packages.
//
// The severity levels are ordered from least to most severe:
// Info < Warning < Error < Critical
package severity

// Severity indicates the severity level of a diagnostic emitted while
// planning or applying a reconciliation pass.
type Severity int

const (
	// SeverityError indicates a diff entry that carried an invalid value
	// or addressed a missing entity and therefore produced no command.
	SeverityError Severity = iota

	// SeverityWarning indicates a diff entry that was dropped because it
	// addressed a path outside the supported schema coverage.
	SeverityWarning

	// SeverityInfo indicates informational notices about processing choices.
	// These are non-actionable and may be useful for debugging.
	SeverityInfo

	// SeverityCritical indicates a change that could not be represented
	// without data loss.
	SeverityCritical
)

// String returns the string representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}
