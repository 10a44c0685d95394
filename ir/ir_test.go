package ir_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hecl-lang/hecl/ir"
)

func TestInstructionStringers(t *testing.T) {
	require.Equal(t, "LoadImm(1, 1, 1, 1)", ir.LoadImm{Value: [4]float32{1, 1, 1, 1}}.String())
	require.Equal(t, `Call("UV", [0])`, ir.Call{Name: "UV", Args: []ir.InstIdx{0}}.String())
	require.Equal(t, "Arithmetic(Mul, 1, 2)", ir.Arithmetic{Op: ir.Mul, Lhs: 1, Rhs: 2}.String())
	require.Equal(t, "Swizzle([1,2,0,-1], 3)", ir.Swizzle{Indices: [4]int8{1, 2, 0, -1}, Src: 3}.String())
}

func TestArithmeticOp_String(t *testing.T) {
	require.Equal(t, "Add", ir.Add.String())
	require.Equal(t, "Sub", ir.Sub.String())
	require.Equal(t, "Mul", ir.Mul.String())
	require.Equal(t, "Div", ir.Div.String())
}

func TestAssemble_RejectsMalformedText(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"missing equals", "%0 OpLoadImm 1 1 1 1"},
		{"unknown opcode", "%0 = OpFrobnicate"},
		{"wrong register order", "%1 = OpLoadImm 1 1 1 1"},
		{"bad arithmetic operand count", "%0 = OpArithmetic Add %1"},
		{"unknown arithmetic op", "%0 = OpLoadImm 1 1 1 1\n%1 = OpArithmetic Foo %0 %0"},
		{"empty text", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ir.Assemble(tt.text)
			require.Error(t, err)
		})
	}
}
