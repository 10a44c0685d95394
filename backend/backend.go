// Package backend defines the narrow contracts the frontend hands its IR
// to: a Backend that consumes it to produce target-specific bytes, and an
// ArtifactStore that caches those bytes by fingerprint. Real shader-target
// code generation (HLSL/GLSL/MSL/SPIR-V emission) lives outside this
// package entirely; it exists only to give the frontend's IR a real
// downstream consumer and is deliberately minimal.
package backend

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/hecl-lang/hecl/ir"
)

// Backend consumes a compiled IR and produces target-specific bytes. Real
// shader-target backends (SPIR-V, GLSL, MSL, HLSL) live outside this
// repository's scope; TextBackend below is a reference implementation
// used by tests and cmd/heclc's default "-backend text" mode.
type Backend interface {
	Compile(m *ir.IR) ([]byte, error)
}

// ArtifactStore caches compiled backend output by fingerprint, keyed off
// the source text that produced the IR (not the IR itself, so a cache hit
// can skip compilation entirely).
type ArtifactStore interface {
	Get(fingerprint string) ([]byte, bool, error)
	Put(fingerprint string, blob []byte) error
}

// Fingerprint derives a cache key from source text. It is a pure function
// of the bytes; two calls on equal source text always agree.
func Fingerprint(source string) string {
	sum := sha256.Sum256([]byte(source))
	return hex.EncodeToString(sum[:])
}

// TextBackend "compiles" by emitting the IR's canonical disassembly text.
// It exercises the Backend contract without committing to any real shader
// target.
type TextBackend struct{}

// Compile implements Backend.
func (TextBackend) Compile(m *ir.IR) ([]byte, error) {
	return []byte(ir.Disassemble(m)), nil
}
