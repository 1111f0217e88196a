// Copyright (c) FIRST and other WPILib contributors.
// Open Source Software; you can modify and/or share it under the terms of
// the WPILib BSD license file in the root directory of this project.

// Package structschema implements the WPILib-style packed struct schema
// grammar: a recursive compiler (C3) that lays out a schema's fields into
// bit-precise offsets, and a decoder (C4) that projects raw bytes through
// a compiled schema into a generic value tree.
package structschema

// primitiveBits gives the physical bit width of every primitive type
// name the grammar recognizes.
var primitiveBits = map[string]int{
	"bool":    8,
	"char":    8,
	"int8":    8,
	"int16":   16,
	"int32":   32,
	"int64":   64,
	"uint8":   8,
	"uint16":  16,
	"uint32":  32,
	"uint64":  64,
	"float":   32,
	"float32": 32,
	"double":  64,
	"float64": 64,
}

// bitfieldTypes is the set of primitives valid as a bitfield's storage
// type (float/double/char cannot be bitfields).
var bitfieldTypes = map[string]bool{
	"bool": true,
	"int8": true, "int16": true, "int32": true, "int64": true,
	"uint8": true, "uint16": true, "uint32": true, "uint64": true,
}

func isPrimitive(name string) bool {
	_, ok := primitiveBits[name]
	return ok
}

// ValueSchema describes one compiled field: a primitive leaf, a
// primitive array/bitfield, or a reference to another compiled schema.
type ValueSchema struct {
	Name string

	// Type is the primitive type name, or — when IsSchemaRef is true —
	// the referenced schema's name.
	Type        string
	IsSchemaRef bool

	EnumMap map[int64]string

	// BitfieldWidth is non-nil for `TYPE name:BITS` declarations.
	BitfieldWidth *uint32
	// ArrayLength is non-nil for `TYPE name[N]` declarations.
	ArrayLength *uint32

	BitStart uint32
	BitEnd   uint32
}

// StructSchema is a compiled schema: a total bit length and an ordered
// field layout.
type StructSchema struct {
	Name         string
	LengthInBits uint32
	Values       []ValueSchema
}
