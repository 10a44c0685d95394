// Package hecl provides a shading-expression compiler frontend: it turns a
// compact, function-call-oriented DSL source string into a flat,
// register-oriented IR (package ir) suitable for later lowering by a
// shader-target backend (package backend).
//
// The pipeline is strictly linear and stateless across calls:
//
//	source --Scanner--> tokens --Lexer--> operation tree --ir.Builder--> IR
//
// Frontend ties these three stages together behind a single Compile call.
package hecl

import (
	"github.com/hecl-lang/hecl/diag"
	"github.com/hecl-lang/hecl/ir"
	"github.com/hecl-lang/hecl/lexer"
	"github.com/hecl-lang/hecl/scanner"
)

// Frontend owns one Diagnostics and one Scanner, creates a fresh Lexer for
// each Compile call, and orchestrates a single compile operation. A Frontend is not safe for concurrent use;
// distinct instances are independent and may run in parallel on disjoint
// sources.
type Frontend struct {
	diag *diag.Diagnostics
	scan *scanner.Scanner
}

// New creates a ready-to-use Frontend.
func New() *Frontend {
	d := diag.New()
	return &Frontend{
		diag: d,
		scan: scanner.New(d),
	}
}

// Diagnostics returns the Frontend's Diagnostics, so a caller can tune
// color output, or the stream color support is detected against, before
// compiling.
func (f *Frontend) Diagnostics() *diag.Diagnostics { return f.diag }

// Compile lowers source into an IR. Each call fully resets the Frontend's
// internal state first, so a single Frontend may be reused across many
// unrelated compiles.
func (f *Frontend) Compile(source, diagName string) (*ir.IR, error) {
	f.diag.SetName(diagName)
	f.diag.SetSource(source)
	f.scan.Reset(source)

	arena, root, err := lexer.New(f.diag, f.scan).Build()
	if err != nil {
		return nil, err
	}

	// The arena is scoped to this call; nothing outlives this function but
	// the returned IR's own instruction vector.
	return ir.NewBuilder(f.diag, arena).Build(root)
}

// Compile is a package-level convenience that compiles source in a
// fresh, one-shot Frontend.
func Compile(source, diagName string) (*ir.IR, error) {
	return New().Compile(source, diagName)
}
