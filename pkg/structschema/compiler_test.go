// Copyright (c) FIRST and other WPILib contributors.
// Open Source Software; you can modify and/or share it under the terms of
// the WPILib BSD license file in the root directory of this project.

package structschema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileFlatBitfieldLayout(t *testing.T) {
	// Spec §8 scenario 4: two 1-bit bools pack into one 8-bit storage
	// unit, then the following uint8 starts at bit 8, not bit 2.
	r := NewRegistry()
	r.AddSchema("Demo", "bool a:1; bool b:1; uint8 c;")

	schema, ok := r.Get("Demo")
	require.True(t, ok)
	require.Len(t, schema.Values, 3)

	assert.Equal(t, "a", schema.Values[0].Name)
	assert.Equal(t, uint32(0), schema.Values[0].BitStart)
	assert.Equal(t, uint32(1), schema.Values[0].BitEnd)

	assert.Equal(t, "b", schema.Values[1].Name)
	assert.Equal(t, uint32(1), schema.Values[1].BitStart)
	assert.Equal(t, uint32(2), schema.Values[1].BitEnd)

	assert.Equal(t, "c", schema.Values[2].Name)
	assert.Equal(t, uint32(8), schema.Values[2].BitStart)
	assert.Equal(t, uint32(16), schema.Values[2].BitEnd)

	assert.Equal(t, uint32(16), schema.LengthInBits)
}

func TestCompileDropsInvalidBitfields(t *testing.T) {
	// double cannot be a bitfield storage type; a bool bitfield with
	// width != 1 is not representable either. Both are silently dropped
	// per §3, leaving only "x" and "z" laid out back to back.
	r := NewRegistry()
	r.AddSchema("Demo", "double bad:4; bool x:1; bool y:3; uint8 z;")

	schema, ok := r.Get("Demo")
	require.True(t, ok)
	require.Len(t, schema.Values, 2)

	assert.Equal(t, "x", schema.Values[0].Name)
	assert.Equal(t, uint32(0), schema.Values[0].BitStart)
	assert.Equal(t, uint32(1), schema.Values[0].BitEnd)

	assert.Equal(t, "z", schema.Values[1].Name)
	assert.Equal(t, uint32(8), schema.Values[1].BitStart)
	assert.Equal(t, uint32(16), schema.Values[1].BitEnd)
}

func TestCompilePrimitiveArrayLayout(t *testing.T) {
	r := NewRegistry()
	r.AddSchema("Demo", "uint8 vals[4]; uint16 tail;")

	schema, ok := r.Get("Demo")
	require.True(t, ok)
	require.Len(t, schema.Values, 2)

	assert.Equal(t, "vals", schema.Values[0].Name)
	require.NotNil(t, schema.Values[0].ArrayLength)
	assert.Equal(t, uint32(4), *schema.Values[0].ArrayLength)
	assert.Equal(t, uint32(0), schema.Values[0].BitStart)
	assert.Equal(t, uint32(32), schema.Values[0].BitEnd)

	assert.Equal(t, "tail", schema.Values[1].Name)
	assert.Equal(t, uint32(32), schema.Values[1].BitStart)
	assert.Equal(t, uint32(48), schema.Values[1].BitEnd)

	assert.Equal(t, uint32(48), schema.LengthInBits)
}

func TestCompileOutOfOrderSchemaRegistration(t *testing.T) {
	// Spec §8 scenario 5: Outer references Inner. Registering Outer
	// before Inner exists must leave it pending, then converge once
	// Inner arrives, via the registry's fixed-point compilePending loop.
	r := NewRegistry()
	r.AddSchema("Outer", "Inner p; uint8 z;")

	assert.True(t, r.Pending("Outer"))
	_, ok := r.Get("Outer")
	assert.False(t, ok)

	r.AddSchema("Inner", "uint8 x; uint8 y;")

	assert.False(t, r.Pending("Outer"))
	outer, ok := r.Get("Outer")
	require.True(t, ok)
	require.Len(t, outer.Values, 2)

	p := outer.Values[0]
	assert.Equal(t, "p", p.Name)
	assert.True(t, p.IsSchemaRef)
	assert.Equal(t, "Inner", p.Type)
	assert.Equal(t, uint32(0), p.BitStart)
	assert.Equal(t, uint32(16), p.BitEnd)

	z := outer.Values[1]
	assert.Equal(t, "z", z.Name)
	assert.Equal(t, uint32(16), z.BitStart)
	assert.Equal(t, uint32(24), z.BitEnd)

	assert.Equal(t, uint32(24), outer.LengthInBits)
}

func TestCompileNestedSchemaArrayLayout(t *testing.T) {
	r := NewRegistry()
	r.AddSchema("Outer", "Inner items[3];")
	r.AddSchema("Inner", "uint8 x; uint8 y;")

	outer, ok := r.Get("Outer")
	require.True(t, ok)
	require.Len(t, outer.Values, 1)

	items := outer.Values[0]
	require.NotNil(t, items.ArrayLength)
	assert.Equal(t, uint32(3), *items.ArrayLength)
	assert.Equal(t, uint32(0), items.BitStart)
	assert.Equal(t, uint32(48), items.BitEnd)
	assert.Equal(t, uint32(48), outer.LengthInBits)
}

func TestCompileIsDeterministic(t *testing.T) {
	// Compiling identical schema text twice must yield an identical
	// StructSchema (spec §8's round-trip invariant).
	text := "enum {IDLE=0, RUNNING=1} uint8 state; bool a:1; bool b:1; uint8 c; uint16 d[2];"

	s1, ok := compile("Demo", text, map[string]*StructSchema{})
	require.True(t, ok)
	s2, ok := compile("Demo", text, map[string]*StructSchema{})
	require.True(t, ok)

	assert.Equal(t, s1, s2)
}
