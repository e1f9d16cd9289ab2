package diag

import (
	"cinder/internal/source"
)

// Note is a secondary label attached to a diagnostic: an extra span with an
// optional message, rendered under the primary location.
type Note struct {
	Span source.Span
	Msg  string
}

// Diagnostic is a single user-facing report. Primary is the main labeled
// span; Notes carry the secondary spans in order.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	Notes    []Note
}

// Error makes Diagnostic usable as a Go error so lowering can thread it up
// through Result-style returns.
func (d *Diagnostic) Error() string {
	return d.Code.String() + ": " + d.Message
}
