package ir

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hecl-lang/hecl/token"
)

// Disassemble renders an IR as canonical text, one instruction per line:
//
//	%3 = OpLoadImm 1 1 1 1
//	%4 = OpCall "Vec3" %0 %1 %2
//	%5 = OpArithmetic Mul %1 %2
//	%6 = OpSwizzle 1 2 0 -1 %3
//
// The format follows a "%N = OpName operands..." textual disassembly
// convention. Assemble parses this format back into an IR with the same
// instructions, giving the format a verifiable round-trip guarantee;
// source locations are not part of the text and come back as
// token.Unknown.
func Disassemble(m *IR) string {
	var b strings.Builder
	for i, inst := range m.instructions {
		fmt.Fprintf(&b, "%%%d = %s\n", i, disasmBody(inst))
	}
	return b.String()
}

func disasmBody(inst Instruction) string {
	switch v := inst.(type) {
	case LoadImm:
		return fmt.Sprintf("OpLoadImm %s %s %s %s",
			formatFloat(v.Value[0]), formatFloat(v.Value[1]), formatFloat(v.Value[2]), formatFloat(v.Value[3]))
	case Call:
		var b strings.Builder
		fmt.Fprintf(&b, "OpCall %q", v.Name)
		for _, a := range v.Args {
			fmt.Fprintf(&b, " %%%d", a)
		}
		return b.String()
	case Arithmetic:
		return fmt.Sprintf("OpArithmetic %s %%%d %%%d", v.Op, v.Lhs, v.Rhs)
	case Swizzle:
		return fmt.Sprintf("OpSwizzle %d %d %d %d %%%d",
			v.Indices[0], v.Indices[1], v.Indices[2], v.Indices[3], v.Src)
	default:
		return fmt.Sprintf("OpUnknown(%v)", inst)
	}
}

func formatFloat(f float32) string {
	return strconv.FormatFloat(float64(f), 'g', -1, 32)
}

// Assemble parses text produced by Disassemble back into an IR. It exists
// to validate the round-trip property, not to accept hand-written IR text:
// an unknown opcode, a wrong operand count, a malformed operand, or a
// register number out of sequence is a format error. Blank lines and
// extra whitespace between fields are accepted.
func Assemble(text string) (*IR, error) {
	m := &IR{}
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	for lineNo, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		inst, idx, err := assembleLine(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo+1, err)
		}
		if idx != InstIdx(len(m.instructions)) {
			return nil, fmt.Errorf("line %d: expected instruction index %d, got %d", lineNo+1, len(m.instructions), idx)
		}
		m.instructions = append(m.instructions, inst)
	}
	if len(m.instructions) == 0 {
		return nil, fmt.Errorf("empty IR text")
	}
	return m, nil
}

func assembleLine(line string) (Instruction, InstIdx, error) {
	lhs, rhs, ok := strings.Cut(line, "=")
	if !ok {
		return nil, 0, fmt.Errorf("missing '=' in %q", line)
	}
	idxText := strings.TrimSpace(lhs)
	idxText = strings.TrimPrefix(idxText, "%")
	idx, err := strconv.Atoi(idxText)
	if err != nil {
		return nil, 0, fmt.Errorf("bad register %q: %w", lhs, err)
	}

	fields := strings.Fields(strings.TrimSpace(rhs))
	if len(fields) == 0 {
		return nil, 0, fmt.Errorf("missing opcode in %q", line)
	}

	switch fields[0] {
	case "OpLoadImm":
		if len(fields) != 5 {
			return nil, 0, fmt.Errorf("OpLoadImm wants 4 operands, got %d", len(fields)-1)
		}
		var v [4]float32
		for i := 0; i < 4; i++ {
			f, err := strconv.ParseFloat(fields[i+1], 32)
			if err != nil {
				return nil, 0, fmt.Errorf("bad OpLoadImm operand %q: %w", fields[i+1], err)
			}
			v[i] = float32(f)
		}
		// Disassembly text carries no source location; reassembled
		// instructions are stamped Unknown rather than a real position.
		return LoadImm{Value: v, Loc: token.Unknown}, InstIdx(idx), nil

	case "OpCall":
		if len(fields) < 2 {
			return nil, 0, fmt.Errorf("OpCall missing name")
		}
		name, err := strconv.Unquote(fields[1])
		if err != nil {
			return nil, 0, fmt.Errorf("bad OpCall name %q: %w", fields[1], err)
		}
		args := make([]InstIdx, 0, len(fields)-2)
		for _, f := range fields[2:] {
			a, err := parseRegRef(f)
			if err != nil {
				return nil, 0, err
			}
			args = append(args, a)
		}
		return Call{Name: name, Args: args, Loc: token.Unknown}, InstIdx(idx), nil

	case "OpArithmetic":
		if len(fields) != 4 {
			return nil, 0, fmt.Errorf("OpArithmetic wants 3 operands, got %d", len(fields)-1)
		}
		op, err := parseArithmeticOpName(fields[1])
		if err != nil {
			return nil, 0, err
		}
		l, err := parseRegRef(fields[2])
		if err != nil {
			return nil, 0, err
		}
		r, err := parseRegRef(fields[3])
		if err != nil {
			return nil, 0, err
		}
		return Arithmetic{Op: op, Lhs: l, Rhs: r, Loc: token.Unknown}, InstIdx(idx), nil

	case "OpSwizzle":
		if len(fields) != 6 {
			return nil, 0, fmt.Errorf("OpSwizzle wants 5 operands, got %d", len(fields)-1)
		}
		var indices [4]int8
		for i := 0; i < 4; i++ {
			n, err := strconv.Atoi(fields[i+1])
			if err != nil {
				return nil, 0, fmt.Errorf("bad OpSwizzle index %q: %w", fields[i+1], err)
			}
			indices[i] = int8(n)
		}
		src, err := parseRegRef(fields[5])
		if err != nil {
			return nil, 0, err
		}
		return Swizzle{Indices: indices, Src: src, Loc: token.Unknown}, InstIdx(idx), nil

	default:
		return nil, 0, fmt.Errorf("unknown opcode %q", fields[0])
	}
}

func parseRegRef(s string) (InstIdx, error) {
	if !strings.HasPrefix(s, "%") {
		return 0, fmt.Errorf("bad register reference %q", s)
	}
	n, err := strconv.Atoi(s[1:])
	if err != nil {
		return 0, fmt.Errorf("bad register reference %q: %w", s, err)
	}
	return InstIdx(n), nil
}

func parseArithmeticOpName(s string) (ArithmeticOp, error) {
	switch s {
	case "Add":
		return Add, nil
	case "Sub":
		return Sub, nil
	case "Mul":
		return Mul, nil
	case "Div":
		return Div, nil
	default:
		return 0, fmt.Errorf("unknown arithmetic op %q", s)
	}
}
