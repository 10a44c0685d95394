package lexer

import (
	"strings"
	"testing"

	"github.com/hecl-lang/hecl/diag"
	"github.com/hecl-lang/hecl/opnode"
	"github.com/hecl-lang/hecl/scanner"
	"github.com/hecl-lang/hecl/token"
)

func build(t *testing.T, source string) (*opnode.Arena, opnode.Handle, error) {
	t.Helper()
	d := diag.New()
	d.SetSource(source)
	sc := scanner.New(d)
	sc.Reset(source)
	return New(d, sc).Build()
}

// singleRootArg returns the one reduced expression handle under the
// synthetic root node.
func singleRootArg(t *testing.T, a *opnode.Arena, root opnode.Handle) opnode.Handle {
	t.Helper()
	args := a.Args(root)
	if len(args) != 1 {
		t.Fatalf("expected exactly one root argument, got %d", len(args))
	}
	return args[0]
}

func TestBuild_SimpleArithmeticShape(t *testing.T) {
	a, root, err := build(t, "foo(1 + 2 * 3)")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rootArgs := a.Args(root)
	if len(rootArgs) != 1 {
		t.Fatalf("want 1 root arg, got %d", len(rootArgs))
	}
	call := rootArgs[0]
	if a.Node(call).Tok.Kind != token.FunctionStart || a.Node(call).Tok.Text != "foo" {
		t.Fatalf("expected call to foo, got %v", a.Node(call).Tok)
	}
	callArgs := a.Args(call)
	if len(callArgs) != 1 {
		t.Fatalf("want 1 call arg, got %d", len(callArgs))
	}

	add := callArgs[0]
	addTok := a.Node(add).Tok
	if addTok.Kind != token.ArithmeticOp || addTok.Text != "+" {
		t.Fatalf("expected top operator '+', got %v", addTok)
	}
	left := a.Node(add).Sub
	right := a.Node(left).Next
	if a.Node(left).Tok.Kind != token.NumLiteral || a.Node(left).Tok.FloatValue != 1 {
		t.Fatalf("expected left operand 1, got %v", a.Node(left).Tok)
	}
	if a.Node(right).Tok.Kind != token.ArithmeticOp || a.Node(right).Tok.Text != "*" {
		t.Fatalf("expected right operand to be '*', got %v", a.Node(right).Tok)
	}
	mulLeft := a.Node(right).Sub
	mulRight := a.Node(mulLeft).Next
	if a.Node(mulLeft).Tok.FloatValue != 2 || a.Node(mulRight).Tok.FloatValue != 3 {
		t.Fatalf("expected Mul(2,3), got %v, %v", a.Node(mulLeft).Tok, a.Node(mulRight).Tok)
	}
}

func TestBuild_LeftAssociativeSubtraction(t *testing.T) {
	a, root, err := build(t, "foo(a(1) - a(2) - a(3))")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	call := singleRootArg(t, a, root)
	sub := a.Args(call)[0]
	if a.Node(sub).Tok.Text != "-" {
		t.Fatalf("expected outer '-', got %v", a.Node(sub).Tok)
	}
	left := a.Node(sub).Sub
	right := a.Node(left).Next
	// Right-hand operand of the outer '-' must be the literal a(3) call,
	// and the left-hand operand must itself be a '-' node: left-associative
	// nesting.
	if a.Node(right).Tok.Kind != token.FunctionStart {
		t.Fatalf("expected rightmost operand to be a call, got %v", a.Node(right).Tok)
	}
	if a.Node(left).Tok.Text != "-" {
		t.Fatalf("expected left operand to be nested '-', got %v", a.Node(left).Tok)
	}
}

func TestBuild_EvalGroupOverridesPrecedence(t *testing.T) {
	aGrouped, rootGrouped, err := build(t, "foo((1 + 2) * 3)")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	aPlain, rootPlain, err := build(t, "foo(1 + 2 * 3)")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	callGrouped := singleRootArg(t, aGrouped, rootGrouped)
	mulGrouped := aGrouped.Args(callGrouped)[0]
	if aGrouped.Node(mulGrouped).Tok.Text != "*" {
		t.Fatalf("expected grouped top operator '*', got %v", aGrouped.Node(mulGrouped).Tok)
	}
	groupOperand := aGrouped.Node(mulGrouped).Sub
	if aGrouped.Node(groupOperand).Tok.Kind != token.EvalGroupStart {
		t.Fatalf("expected left operand to be the group node itself, got %v", aGrouped.Node(groupOperand).Tok)
	}
	inner := aGrouped.Args(groupOperand)[0]
	if aGrouped.Node(inner).Tok.Text != "+" {
		t.Fatalf("expected group's inner expression to be '+', got %v", aGrouped.Node(inner).Tok)
	}

	callPlain := singleRootArg(t, aPlain, rootPlain)
	addPlain := aPlain.Args(callPlain)[0]
	if aPlain.Node(addPlain).Tok.Text != "+" {
		t.Fatalf("expected ungrouped top operator to remain '+', got %v", aPlain.Node(addPlain).Tok)
	}
}

func TestBuild_WhitespaceAndCommentsInsensitive(t *testing.T) {
	a1, r1, err := build(t, "foo(1+2*3)")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	a2, r2, err := build(t, "  foo( 1 + 2 * 3 ) # trailing comment\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c1 := singleRootArg(t, a1, r1)
	c2 := singleRootArg(t, a2, r2)
	if a1.Node(c1).Tok.Text != a2.Node(c2).Tok.Text {
		t.Fatalf("whitespace/comments should not affect parsed shape")
	}
}

func TestBuild_ZeroArityCall(t *testing.T) {
	a, root, err := build(t, "now()")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	call := singleRootArg(t, a, root)
	if args := a.Args(call); len(args) != 0 {
		t.Fatalf("expected zero-arity call to have no args, got %d", len(args))
	}
}

func TestBuild_MultiArgCall(t *testing.T) {
	a, root, err := build(t, "lerp(1, 2, 3)")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	call := singleRootArg(t, a, root)
	args := a.Args(call)
	if len(args) != 3 {
		t.Fatalf("expected 3 args, got %d", len(args))
	}
	for i, want := range []float64{1, 2, 3} {
		if a.Node(args[i]).Tok.FloatValue != want {
			t.Fatalf("arg %d: want %v got %v", i, want, a.Node(args[i]).Tok)
		}
	}
}

func TestBuild_NegativeConstants(t *testing.T) {
	a, root, err := build(t, "Vec3(-1, 0, 0)")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	call := singleRootArg(t, a, root)
	args := a.Args(call)
	if len(args) != 3 {
		t.Fatalf("expected 3 args, got %d", len(args))
	}
	for i, want := range []float64{-1, 0, 0} {
		arg := a.Node(args[i]).Tok
		if arg.Kind != token.NumLiteral || arg.FloatValue != want {
			t.Fatalf("arg %d: want %v got %v", i, want, arg)
		}
	}
}

func TestBuild_SignAfterBinaryOperatorIsNegation(t *testing.T) {
	a, root, err := build(t, "foo(1 + -2)")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	call := singleRootArg(t, a, root)
	add := a.Args(call)[0]
	if a.Node(add).Tok.Text != "+" {
		t.Fatalf("expected top operator '+', got %v", a.Node(add).Tok)
	}
	left := a.Node(add).Sub
	right := a.Node(left).Next
	if a.Node(left).Tok.FloatValue != 1 {
		t.Fatalf("expected left operand 1, got %v", a.Node(left).Tok)
	}
	if a.Node(right).Tok.Kind != token.NumLiteral || a.Node(right).Tok.FloatValue != -2 {
		t.Fatalf("expected right operand -2, got %v", a.Node(right).Tok)
	}
}

func TestBuild_Errors(t *testing.T) {
	tests := []struct {
		name   string
		source string
		substr string
	}{
		{"trailing operator", "foo(1 +)", "missing operand"},
		{"two consecutive operators", "foo(1 + + 2)", "missing"},
		{"empty function argument", "foo(1,,2)", "empty function argument"},
		{"leading comma", "foo(,1)", "empty function argument"},
		{"swizzle on numeric literal", "foo(1.x)", "swizzle a numeric literal"},
		{"unclosed group", "foo((1+2)", "unclosed"},
		{"unbalanced close", "foo(1))", "unbalanced"},
		{"stray swizzle", "foo(.x)", "no preceding value"},
		{"empty eval group", "foo(() + 1)", "empty evaluation group"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := build(t, tt.source)
			if err == nil {
				t.Fatalf("expected an error for %q", tt.source)
			}
			if !strings.Contains(err.Error(), tt.substr) {
				t.Fatalf("error %q does not contain %q", err.Error(), tt.substr)
			}
		})
	}
}

func TestBuild_EmptySource(t *testing.T) {
	_, _, err := build(t, "")
	if err == nil {
		t.Fatalf("expected an error for empty source")
	}
}
