package reconcile

import (
	"fmt"

	"github.com/erraggy/oassync/internal/severity"
	"github.com/erraggy/oassync/structdiff"
)

// Diagnostic records one diff entry that produced no command and why. The
// reconciliation pass itself never fails; callers decide whether and how to
// surface diagnostics.
type Diagnostic struct {
	Severity severity.Severity
	// Kind is the kind of the dropped diff entry.
	Kind structdiff.Kind
	// Path is the dropped entry's dotted document path.
	Path    string
	Message string
}

// String renders the diagnostic as "severity: kind path: message".
func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s %s: %s", d.Severity, d.Kind, d.Path, d.Message)
}
