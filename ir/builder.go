package ir

import (
	"github.com/hecl-lang/hecl/diag"
	"github.com/hecl-lang/hecl/opnode"
	"github.com/hecl-lang/hecl/token"
)

// swizzleComponents maps an accepted swizzle-mask character to its
// component index, matching scanner.swizzleLetters (duplicated rather than
// imported: the mapping is a property of the DSL's swizzle grammar, not an
// implementation detail either package should expose to the other).
var swizzleComponents = map[byte]int8{
	'x': 0, 'r': 0,
	'y': 1, 'g': 1,
	'z': 2, 'b': 2,
	'w': 3, 'a': 3,
}

// Builder performs a single post-order traversal, lowering an operation
// tree into a flat IR.
type Builder struct {
	diag  *diag.Diagnostics
	arena *opnode.Arena
	ir    *IR
}

// NewBuilder creates a Builder that lowers nodes out of arena, reporting
// lowering errors through d.
func NewBuilder(d *diag.Diagnostics, arena *opnode.Arena) *Builder {
	return &Builder{diag: d, arena: arena}
}

// Build lowers the single expression held under root's argument list (the
// Lexer always leaves exactly one) and returns the resulting IR.
func (b *Builder) Build(root opnode.Handle) (*IR, error) {
	rootArgs := b.arena.Args(root)
	if len(rootArgs) != 1 {
		return nil, b.diag.ReportParserErr(token.Unknown, "expression did not reduce to exactly one root value")
	}
	b.ir = &IR{}
	if _, err := b.lower(rootArgs[0]); err != nil {
		return nil, err
	}
	return b.ir, nil
}

func (b *Builder) emit(inst Instruction) InstIdx {
	b.ir.instructions = append(b.ir.instructions, inst)
	return InstIdx(len(b.ir.instructions) - 1)
}

func (b *Builder) lower(h opnode.Handle) (InstIdx, error) {
	n := b.arena.Node(h)
	tok := n.Tok

	switch tok.Kind {
	case token.NumLiteral:
		v := float32(tok.FloatValue)
		return b.emit(LoadImm{Value: [4]float32{v, v, v, v}, Loc: tok.Location}), nil

	case token.ArithmeticOp:
		op, err := parseArithmeticOp(tok.Text)
		if err != nil {
			return 0, b.diag.ReportParserErr(tok.Location, "%v", err)
		}
		left := n.Sub
		right := b.arena.Node(left).Next
		lhs, err := b.lower(left)
		if err != nil {
			return 0, err
		}
		rhs, err := b.lower(right)
		if err != nil {
			return 0, err
		}
		return b.emit(Arithmetic{Op: op, Lhs: lhs, Rhs: rhs, Loc: tok.Location}), nil

	case token.VectorSwizzle:
		indices, err := parseSwizzleMask(tok.Text)
		if err != nil {
			return 0, b.diag.ReportParserErr(tok.Location, "%v", err)
		}
		src, err := b.lower(n.Sub)
		if err != nil {
			return 0, err
		}
		return b.emit(Swizzle{Indices: indices, Src: src, Loc: tok.Location}), nil

	case token.EvalGroupStart:
		inner := b.arena.Args(h)
		if len(inner) != 1 {
			return 0, b.diag.ReportParserErr(tok.Location, "evaluation group did not reduce to one value")
		}
		// Transparent: no instruction emitted, the inner register is the
		// group's register.
		return b.lower(inner[0])

	case token.FunctionStart:
		return b.lowerCall(h, tok)

	default:
		return 0, b.diag.ReportParserErr(tok.Location, "cannot lower token of kind %s", tok.Kind)
	}
}

func (b *Builder) lowerCall(h opnode.Handle, tok token.Token) (InstIdx, error) {
	argHandles := b.arena.Args(h)

	if arity, ok := structuralArity[tok.Text]; ok && len(argHandles) != arity {
		return 0, b.diag.ReportParserErr(tok.Location, "%s takes exactly %d argument(s), got %d", tok.Text, arity, len(argHandles))
	}

	args := make([]InstIdx, len(argHandles))
	for i, ah := range argHandles {
		reg, err := b.lower(ah)
		if err != nil {
			return 0, err
		}
		args[i] = reg
	}
	return b.emit(Call{Name: tok.Text, Args: args, Loc: tok.Location}), nil
}

// structuralArity names the structural vector constructors and their
// required argument counts. Vec2 is held to the same discipline as Vec3/
// Vec4 for symmetry — see DESIGN.md's Open Questions resolution.
var structuralArity = map[string]int{
	"Vec2": 2,
	"Vec3": 3,
	"Vec4": 4,
}

func parseArithmeticOp(glyph string) (ArithmeticOp, error) {
	switch glyph {
	case "+":
		return Add, nil
	case "-":
		return Sub, nil
	case "*":
		return Mul, nil
	case "/":
		return Div, nil
	default:
		return 0, unknownOperatorError(glyph)
	}
}

func unknownOperatorError(glyph string) error {
	return &lowerError{msg: "unknown arithmetic operator " + glyph}
}

type lowerError struct{ msg string }

func (e *lowerError) Error() string { return e.msg }

// parseSwizzleMask converts a 1-4 character swizzle mask into the fixed
// 4-slot index array, padding unused trailing slots with -1.
func parseSwizzleMask(mask string) ([4]int8, error) {
	var out [4]int8 = [4]int8{-1, -1, -1, -1}
	if len(mask) == 0 || len(mask) > 4 {
		return out, &lowerError{msg: "malformed swizzle mask " + mask}
	}
	for i := 0; i < len(mask); i++ {
		idx, ok := swizzleComponents[mask[i]]
		if !ok {
			return out, &lowerError{msg: "malformed swizzle mask " + mask}
		}
		out[i] = idx
	}
	return out, nil
}
