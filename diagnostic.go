package docblocks

import "fmt"

// DiagnosticKind identifies a recoverable problem found while splitting.
type DiagnosticKind string

// Diagnostic kinds.
const (
	DiagInvalidDirective  DiagnosticKind = "invalid_directive"
	DiagDroppedMarkerText DiagnosticKind = "dropped_marker_text"
)

// Diagnostic describes a recoverable problem. The offending input is skipped
// and splitting continues.
type Diagnostic struct {
	Kind    DiagnosticKind `json:"kind"`
	Line    int            `json:"line"`           // 1-based source line
	Name    string         `json:"name,omitempty"` // directive name, if any
	Text    string         `json:"text"`           // the offending text
	Message string         `json:"message,omitempty"`
}

// String renders the diagnostic for humans.
func (d Diagnostic) String() string {
	switch d.Kind {
	case DiagInvalidDirective:
		return fmt.Sprintf("line %d: option %s was passed invalid value %q: %s",
			d.Line, d.Name, d.Text, d.Message)
	case DiagDroppedMarkerText:
		return fmt.Sprintf("line %d: dropped text on same line as marker: %q", d.Line, d.Text)
	default:
		return fmt.Sprintf("line %d: %s: %q", d.Line, d.Kind, d.Text)
	}
}
