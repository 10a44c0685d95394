// Package lexer consumes a token stream and builds the operation tree:
// nested horizontal chains of OpNodes with arithmetic-precedence rewiring
// applied, ready for the IR builder. This is the tree-building stage —
// distinct from (and downstream of) package scanner, which performs the
// character-level tokenizing.
package lexer

import (
	"github.com/hecl-lang/hecl/diag"
	"github.com/hecl-lang/hecl/opnode"
	"github.com/hecl-lang/hecl/scanner"
	"github.com/hecl-lang/hecl/token"
)

// RootFunctionName is the synthetic call name of the root OpNode: the
// whole expression is built as if it were wrapped in a single call.
const RootFunctionName = "<root>"

// Lexer drives a Scanner to exhaustion and builds a single operation tree.
// A Lexer is not safe for concurrent use.
type Lexer struct {
	diag  *diag.Diagnostics
	scan  *scanner.Scanner
	arena *opnode.Arena
}

// New creates a Lexer reading tokens from scan and reporting errors
// through d.
func New(d *diag.Diagnostics, scan *scanner.Scanner) *Lexer {
	return &Lexer{diag: d, scan: scan}
}

// frame tracks the in-progress state of one nesting level: the current
// horizontal chain being built (chainHead/chainTail), the already-reduced
// argument chains collected so far for this function/group node, and
// whether the next token must start a new value (as opposed to continue
// one, e.g. with an operator).
type frame struct {
	node          opnode.Handle
	chainHead     opnode.Handle
	chainTail     opnode.Handle
	args          []opnode.Handle
	expectOperand bool
	isFunction    bool
}

func (f *frame) append(a *opnode.Arena, h opnode.Handle) {
	if f.chainHead == 0 {
		f.chainHead = h
	} else {
		a.Node(f.chainTail).Next = h
		a.Node(h).Prev = f.chainTail
	}
	f.chainTail = h
}

// Build consumes the entire token stream and returns the arena owning
// every allocated node, plus the handle of the tree's root node. The
// returned arena's argument list for the root (Arena.Args(root)) always
// has exactly one entry: the whole expression, fully precedence-rewired.
func (l *Lexer) Build() (*opnode.Arena, opnode.Handle, error) {
	a := opnode.NewArena()
	root := a.Alloc(token.Token{Kind: token.FunctionStart, Text: RootFunctionName, Location: token.Unknown})

	stack := []*frame{{node: root, expectOperand: true, isFunction: true}}
	top := func() *frame { return stack[len(stack)-1] }

	for {
		tok, err := l.scan.NextToken()
		if err != nil {
			return nil, 0, err
		}

		f := top()

		switch tok.Kind {
		case token.SourceBegin:
			continue

		case token.NumLiteral:
			if !f.expectOperand {
				return nil, 0, l.diag.ReportParserErr(tok.Location, "expected an operator, found numeric literal")
			}
			h := a.Alloc(tok)
			f.append(a, h)
			f.expectOperand = false

		case token.VectorSwizzle:
			if f.expectOperand {
				return nil, 0, l.diag.ReportParserErr(tok.Location, "vector swizzle %q has no preceding value", tok.Text)
			}
			if a.Node(f.chainTail).Tok.Kind == token.NumLiteral {
				return nil, 0, l.diag.ReportParserErr(tok.Location, "cannot swizzle a numeric literal")
			}
			h := a.Alloc(tok)
			f.append(a, h)
			f.expectOperand = false

		case token.ArithmeticOp:
			if f.expectOperand {
				return nil, 0, l.diag.ReportParserErr(tok.Location, "operator %q is missing a left-hand operand", tok.Text)
			}
			h := a.Alloc(tok)
			f.append(a, h)
			f.expectOperand = true

		case token.FunctionStart, token.EvalGroupStart:
			if !f.expectOperand {
				return nil, 0, l.diag.ReportParserErr(tok.Location, "expected an operator before %q", tok.Text)
			}
			h := a.Alloc(tok)
			f.append(a, h)
			f.expectOperand = false
			stack = append(stack, &frame{node: h, expectOperand: true, isFunction: tok.Kind == token.FunctionStart})

		case token.FunctionArgDelim:
			if f.expectOperand {
				return nil, 0, l.diag.ReportParserErr(tok.Location, "empty function argument before ','")
			}
			reduced, err := opnode.RewritePrecedence(a, f.chainHead)
			if err != nil {
				return nil, 0, l.diag.ReportParserErr(tok.Location, "%v", err)
			}
			f.args = append(f.args, reduced)
			f.chainHead, f.chainTail = 0, 0
			f.expectOperand = true

		case token.FunctionEnd, token.EvalGroupEnd:
			if f.expectOperand {
				if f.chainHead == 0 && len(f.args) == 0 {
					if !f.isFunction {
						return nil, 0, l.diag.ReportParserErr(tok.Location, "empty evaluation group")
					}
					// zero-arity call: no argument to record.
				} else {
					return nil, 0, l.diag.ReportParserErr(tok.Location, "missing operand before %q", tok.Text)
				}
			} else {
				reduced, err := opnode.RewritePrecedence(a, f.chainHead)
				if err != nil {
					return nil, 0, l.diag.ReportParserErr(tok.Location, "%v", err)
				}
				f.args = append(f.args, reduced)
			}
			a.SetArgs(f.node, f.args)
			stack = stack[:len(stack)-1]
			top().expectOperand = false

		case token.SourceEnd:
			if len(stack) != 1 {
				return nil, 0, l.diag.ReportParserErr(tok.Location, "unexpected end of source inside an open group")
			}
			if f.expectOperand {
				return nil, 0, l.diag.ReportParserErr(tok.Location, "unexpected end of source: missing operand")
			}
			reduced, err := opnode.RewritePrecedence(a, f.chainHead)
			if err != nil {
				return nil, 0, l.diag.ReportParserErr(tok.Location, "%v", err)
			}
			f.args = append(f.args, reduced)
			a.SetArgs(f.node, f.args)
			return a, root, nil
		}
	}
}
