package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"cinder/internal/diag"
	"cinder/internal/source"
)

var (
	errColor  = color.New(color.FgRed, color.Bold)
	warnColor = color.New(color.FgYellow, color.Bold)
	infoColor = color.New(color.FgCyan, color.Bold)
	noteColor = color.New(color.FgBlue)
)

// Pretty renders diagnostics in a human-readable form. The bag is expected
// to be sorted beforehand. Each diagnostic prints as
//
//	<path>:<line>:<col>: <SEV> <CODE>: <message>
//
// followed by the source line with caret underlining, then the notes in the
// same shape.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	for _, d := range bag.Items() {
		writeHeader(w, fs, d, opts)
		writeContext(w, fs, d.Primary, opts)
		if opts.ShowNotes {
			for _, n := range d.Notes {
				writeNote(w, fs, n, opts)
			}
		}
	}
}

func writeHeader(w io.Writer, fs *source.FileSet, d *diag.Diagnostic, opts PrettyOpts) {
	f := fs.Get(d.Primary.File)
	start, _ := fs.Resolve(d.Primary)

	sev := d.Severity.String()
	if opts.Color {
		sev = severityColor(d.Severity).Sprint(sev)
	}
	fmt.Fprintf(w, "%s:%d:%d: %s %s: %s\n",
		f.DisplayPath(), start.Line, start.Col, sev, d.Code.String(), d.Message)
}

func writeNote(w io.Writer, fs *source.FileSet, n diag.Note, opts PrettyOpts) {
	if n.Span.Empty() && n.Msg == "" {
		return
	}
	f := fs.Get(n.Span.File)
	start, _ := fs.Resolve(n.Span)
	label := "note:"
	if opts.Color {
		label = noteColor.Sprint(label)
	}
	fmt.Fprintf(w, "  %s:%d:%d: %s %s\n", f.DisplayPath(), start.Line, start.Col, label, n.Msg)
	writeContext(w, fs, n.Span, opts)
}

// writeContext prints the first source line the span touches with a caret
// underline under the spanned columns.
func writeContext(w io.Writer, fs *source.FileSet, sp source.Span, opts PrettyOpts) {
	if sp.Empty() {
		return
	}
	f := fs.Get(sp.File)
	start, end := fs.Resolve(sp)
	line := f.GetLine(start.Line)
	if line == "" {
		return
	}

	fmt.Fprintf(w, "  %4d | %s\n", start.Line, line)

	underlineLen := 1
	if end.Line == start.Line && end.Col > start.Col {
		underlineLen = int(end.Col - start.Col)
	}
	underline := strings.Repeat("~", underlineLen)
	underline = "^" + underline[1:]
	if opts.Color {
		underline = errColor.Sprint(underline)
	}
	fmt.Fprintf(w, "       | %s%s\n", strings.Repeat(" ", int(start.Col-1)), underline)
}

func severityColor(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return errColor
	case diag.SevWarning:
		return warnColor
	default:
		return infoColor
	}
}
