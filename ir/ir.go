// Package ir implements the flat, append-only, register-oriented
// intermediate representation the compiler lowers shading expressions
// into, plus the Builder that lowers an operation tree (package opnode)
// into it.
//
// An IR is a topologically ordered instruction vector: every operand
// reference is a strictly smaller index than the instruction that uses it,
// and the last instruction is the expression's root. It is immutable once
// returned from Build.
package ir

import (
	"fmt"

	"github.com/hecl-lang/hecl/token"
)

// RegID names a register: the index of the instruction that produced it.
type RegID = InstIdx

// InstIdx is a 0-based index into an IR's instruction vector.
type InstIdx int

// ArithmeticOp names a binary arithmetic operator.
type ArithmeticOp uint8

const (
	Add ArithmeticOp = iota
	Sub
	Mul
	Div
)

func (op ArithmeticOp) String() string {
	switch op {
	case Add:
		return "Add"
	case Sub:
		return "Sub"
	case Mul:
		return "Mul"
	case Div:
		return "Div"
	default:
		return "Unknown"
	}
}

// Instruction is implemented by every payload variant (LoadImm, Call,
// Arithmetic, Swizzle). The marker method confines implementers to this
// package's intended set, mirroring the tagged-interface convention the
// teacher's ir.Expression uses. Its target register is the InstIdx under
// which it is stored in the IR's instruction vector; Location is the
// source position of the operation-tree node it was lowered from, so a
// downstream backend can report an error against a specific instruction.
type Instruction interface {
	instructionMarker()
	fmt.Stringer
	Location() token.Location
}

// LoadImm materializes a constant vec4<f32> into its target register. It is
// the IR's only source of literal values.
type LoadImm struct {
	Value [4]float32
	Loc   token.Location
}

func (LoadImm) instructionMarker()         {}
func (i LoadImm) Location() token.Location { return i.Loc }
func (i LoadImm) String() string {
	return fmt.Sprintf("LoadImm(%g, %g, %g, %g)", i.Value[0], i.Value[1], i.Value[2], i.Value[3])
}

// Call is a deferred call: the backend resolves Name and binds Args by
// convention. Vector constructors (Vec2/Vec3/Vec4) and any user-defined
// call both lower to Call.
type Call struct {
	Name string
	Args []InstIdx
	Loc  token.Location
}

func (Call) instructionMarker()         {}
func (i Call) Location() token.Location { return i.Loc }
func (i Call) String() string {
	return fmt.Sprintf("Call(%q, %s)", i.Name, formatIndices(i.Args))
}

// Arithmetic is a binary op on two child registers.
type Arithmetic struct {
	Op  ArithmeticOp
	Lhs InstIdx
	Rhs InstIdx
	Loc token.Location
}

func (Arithmetic) instructionMarker()         {}
func (i Arithmetic) Location() token.Location { return i.Loc }
func (i Arithmetic) String() string {
	return fmt.Sprintf("Arithmetic(%s, %d, %d)", i.Op, i.Lhs, i.Rhs)
}

// Swizzle selects/rearranges up to 4 components of Src. Unused trailing
// slots are -1.
type Swizzle struct {
	Indices [4]int8
	Src     InstIdx
	Loc     token.Location
}

func (Swizzle) instructionMarker()         {}
func (i Swizzle) Location() token.Location { return i.Loc }
func (i Swizzle) String() string {
	return fmt.Sprintf("Swizzle([%d,%d,%d,%d], %d)", i.Indices[0], i.Indices[1], i.Indices[2], i.Indices[3], i.Src)
}

func formatIndices(args []InstIdx) string {
	s := "["
	for i, a := range args {
		if i > 0 {
			s += ", "
		}
		s += fmt.Sprintf("%d", a)
	}
	return s + "]"
}

// IR is the immutable, flat instruction vector returned by a Builder. Its
// zero value is not meaningful; obtain one through Build.
type IR struct {
	instructions []Instruction
}

// InstructionCount returns the number of instructions, equal to the
// register count.
func (ir *IR) InstructionCount() int { return len(ir.instructions) }

// Instruction returns the instruction occupying register i. It panics if i
// is out of range; accessors assume a structurally valid IR.
func (ir *IR) Instruction(i InstIdx) Instruction { return ir.instructions[i] }

// Root returns the index of the IR's root instruction: the last one
// appended.
func (ir *IR) Root() InstIdx { return InstIdx(len(ir.instructions) - 1) }
