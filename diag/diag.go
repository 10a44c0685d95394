// Package diag centralizes named, located, source-quoting error reports
// for the compiler frontend.
//
// Every report is fatal: there is no recoverable error path inside the
// frontend. Report* methods build and return a typed *Error carrying every
// field a caller needs to present the failure (category, unit name,
// location, message, source snippet); the contract is that compilation
// does not continue past the first one.
package diag

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/hecl-lang/hecl/token"
)

// Category names the logical stage that raised a diagnostic. It appears
// as the bracketed log prefix, e.g. "[Scanner]".
type Category string

const (
	Scanner Category = "Scanner"
	Parser  Category = "Parser"
)

// Error is a fatal, located diagnostic. It implements error so callers can
// propagate it with normal Go error handling instead of aborting the
// process.
type Error struct {
	Category Category
	UnitName string
	Location token.Location
	Message  string
	Snippet  string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Snippet == "" {
		return fmt.Sprintf("[%s] %s @%s %s", e.Category, e.UnitName, e.Location, e.Message)
	}
	return fmt.Sprintf("[%s] %s @%s %s\n%s", e.Category, e.UnitName, e.Location, e.Message, e.Snippet)
}

// Diagnostics holds the mutable state needed to format located errors:
// the logical unit currently being compiled, an optional backend tag for
// late-stage errors, and the source text for snippet rendering.
type Diagnostics struct {
	name    string
	backend string
	source  string

	// Color forces ANSI output on/off; nil means auto-detect from Out.
	Color *bool
	// Out is the stream snippet coloring is detected against. Defaults
	// to os.Stderr.
	Out io.Writer
}

// New creates a Diagnostics with auto-detected colorization against
// os.Stderr.
func New() *Diagnostics {
	return &Diagnostics{Out: os.Stderr}
}

// SetName sets the logical unit name (e.g. the shader/effect name) used
// in every subsequent report.
func (d *Diagnostics) SetName(name string) { d.name = name }

// SetBackend sets the backend tag used by late-stage (backend) reports.
func (d *Diagnostics) SetBackend(name string) { d.backend = name }

// SetSource sets the current source text, used to render snippets. The
// source must outlive any reports made against it.
func (d *Diagnostics) SetSource(src string) { d.source = src }

func (d *Diagnostics) colorEnabled() bool {
	if d.Color != nil {
		return *d.Color
	}
	f, ok := d.Out.(*os.File)
	if !ok || f == nil {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// snippet renders the offending source line followed by a caret under
// Location.Column. Colorization follows colorEnabled.
func (d *Diagnostics) snippet(loc token.Location) string {
	if d.source == "" || !loc.IsKnown() {
		return ""
	}
	lines := strings.Split(d.source, "\n")
	if loc.Line < 1 || loc.Line > len(lines) {
		return ""
	}
	line := lines[loc.Line-1]
	col := loc.Column
	if col < 1 {
		col = 1
	}
	if col > len(line)+1 {
		col = len(line) + 1
	}

	caret := "^"
	if d.colorEnabled() {
		caret = color.New(color.FgGreen, color.Bold).Sprint("^")
	}
	return fmt.Sprintf("%s\n%s%s", line, strings.Repeat(" ", col-1), caret)
}

func (d *Diagnostics) categoryTag(cat Category) string {
	tag := string(cat)
	if cat == "" {
		tag = d.backend
	}
	if !d.colorEnabled() {
		return fmt.Sprintf("[%s]", tag)
	}
	return color.New(color.FgCyan, color.Bold).Sprintf("[%s]", tag)
}

func (d *Diagnostics) report(cat Category, loc token.Location, format string, args ...any) *Error {
	msg := fmt.Sprintf(format, args...)
	return &Error{
		Category: cat,
		UnitName: d.name,
		Location: loc,
		Message:  msg,
		Snippet:  d.snippet(loc),
	}
}

// ReportScannerErr builds a fatal [Scanner] diagnostic.
func (d *Diagnostics) ReportScannerErr(loc token.Location, format string, args ...any) *Error {
	return d.report(Scanner, loc, format, args...)
}

// ReportParserErr builds a fatal [Parser] diagnostic.
func (d *Diagnostics) ReportParserErr(loc token.Location, format string, args ...any) *Error {
	return d.report(Parser, loc, format, args...)
}

// ReportBackendErr builds a fatal diagnostic tagged with the current
// backend name, for late-stage errors raised by downstream consumers of
// the IR, routed through the same Diagnostics instance as front-end errors.
func (d *Diagnostics) ReportBackendErr(loc token.Location, format string, args ...any) *Error {
	return d.report(Category(d.backend), loc, format, args...)
}

// FormatCategoryLine renders just the coloring-aware "[Category] name
// @line:col" prefix, without the message or snippet, for callers that
// want to compose their own final log line.
func (d *Diagnostics) FormatCategoryLine(e *Error) string {
	cat := e.Category
	tag := d.categoryTag(cat)
	return fmt.Sprintf("%s %s @%s", tag, e.UnitName, e.Location)
}
