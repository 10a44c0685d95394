package hecl_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hecl-lang/hecl"
	"github.com/hecl-lang/hecl/ir"
)

func TestCompile_EndToEnd(t *testing.T) {
	m, err := hecl.Compile("foo(Texture(0, UV(0)) * LightDiffuse() + Vec3(1,2,3).yzx)", "smoke-test")
	require.NoError(t, err)
	require.Greater(t, m.InstructionCount(), 0)
	require.IsType(t, ir.Call{}, m.Instruction(m.Root()))
}

func TestCompile_IsReentrantAcrossCalls(t *testing.T) {
	f := hecl.New()

	m1, err := f.Compile("foo(1 + 2)", "first")
	require.NoError(t, err)

	m2, err := f.Compile("foo(3 * 4)", "second")
	require.NoError(t, err)

	require.Equal(t, 4, m1.InstructionCount())
	require.Equal(t, 4, m2.InstructionCount())
	require.NotEqual(t, ir.Disassemble(m1), ir.Disassemble(m2))
}

func TestCompile_SameSourceProducesIdenticalIR(t *testing.T) {
	f := hecl.New()
	source := "foo(Vec3(1,2,3).yzx * 2)"

	m1, err := f.Compile(source, "a")
	require.NoError(t, err)
	m2, err := f.Compile(source, "b")
	require.NoError(t, err)

	require.Equal(t, ir.Disassemble(m1), ir.Disassemble(m2))
}

func TestCompile_FatalErrorReportsLocation(t *testing.T) {
	_, err := hecl.Compile("foo(1 +)", "bad-source")
	require.Error(t, err)
	require.Contains(t, err.Error(), "@1:8")
}
