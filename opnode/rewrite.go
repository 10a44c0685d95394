package opnode

import (
	"fmt"

	"github.com/hecl-lang/hecl/token"
)

// precedence classes, highest first. Operators within a class bind with
// equal precedence and are resolved left-to-right; this is a deliberate
// choice among several plausible tie-breaking rules (see DESIGN.md Open
// Questions).
var precedenceClasses = [][]string{
	{"*", "/"},
	{"+", "-"},
}

// RewritePrecedence rebalances a single horizontal chain (operand,
// operator, operand, ... alternating) so that higher-precedence operators
// bind tighter, left-associatively within a class. It replaces each
// resolved operator's two operand chains with handles reachable through
// its own Sub link and returns the single handle that now represents the
// whole chain.
//
// The chain referenced by head must alternate value/operator tokens and
// must be non-empty. An empty chain, a chain with an even number of
// entries once swizzles are folded (e.g. a stray leading or trailing
// operator, or two consecutive values), and a chain that does not reduce
// to a single node are reported as errors. Other malformed shapes, such
// as two consecutive operators, are not detected here; the lexer rejects
// them during tree construction.
func RewritePrecedence(a *Arena, head Handle) (Handle, error) {
	nodes := a.ChainFrom(head)
	if len(nodes) == 0 {
		return 0, fmt.Errorf("empty expression chain")
	}

	// Swizzles are postfix and bind tighter than any arithmetic operator;
	// fold each (value, swizzle) pair into a single swizzle node before
	// the operand/operator parity check below, since the lexer appends
	// swizzles as flat chain siblings rather than pre-nesting them.
	nodes = collapseSwizzles(a, nodes)

	if len(nodes)%2 == 0 {
		return 0, fmt.Errorf("malformed expression: operator with missing operand")
	}

	for _, class := range precedenceClasses {
		match := make(map[string]bool, len(class))
		for _, op := range class {
			match[op] = true
		}
		nodes = collapsePass(a, nodes, match)
	}

	if len(nodes) != 1 {
		return 0, fmt.Errorf("malformed expression: failed to reduce to a single value")
	}
	return nodes[0], nil
}

// collapseSwizzles folds each value immediately followed by a VectorSwizzle
// token into a single swizzle node referencing its operand via Sub,
// left-to-right, so that chained swizzles (e.g. a.xyz.xy) fold correctly.
// A leading swizzle with no preceding value is a lexer-level error and
// never reaches here (the lexer rejects it before the chain is closed).
func collapseSwizzles(a *Arena, nodes []Handle) []Handle {
	out := make([]Handle, 0, len(nodes))
	for _, h := range nodes {
		if a.Node(h).Tok.Kind == token.VectorSwizzle && len(out) > 0 {
			operand := out[len(out)-1]
			out = out[:len(out)-1]
			a.Node(h).Sub = operand
			a.Node(operand).Prev = 0
			a.Node(operand).Next = 0
			out = append(out, h)
			continue
		}
		out = append(out, h)
	}
	return out
}

// collapsePass folds every operator in nodes whose glyph is in match into
// a single operator node referencing its left/right operand chains via
// Sub, left-to-right. Operators not in match pass through untouched for a
// later, lower-precedence pass.
func collapsePass(a *Arena, nodes []Handle, match map[string]bool) []Handle {
	out := make([]Handle, 0, len(nodes))
	i := 0
	for i < len(nodes) {
		h := nodes[i]
		tok := a.Node(h).Tok
		isOperator := tok.Kind == token.ArithmeticOp
		if isOperator && match[tok.Text] && len(out) > 0 && i+1 < len(nodes) {
			left := out[len(out)-1]
			right := nodes[i+1]
			out = out[:len(out)-1]

			a.Node(h).Sub = left
			a.Node(left).Prev = 0
			a.Node(left).Next = right
			a.Node(right).Prev = left
			a.Node(right).Next = 0

			out = append(out, h)
			i += 2
			continue
		}
		out = append(out, h)
		i++
	}
	return out
}
