// Copyright (c) FIRST and other WPILib contributors.
// Open Source Software; you can modify and/or share it under the terms of
// the WPILib BSD license file in the root directory of this project.

// Package valuetree defines the generic, untyped recursive value used
// to hand decoded payloads (struct, JSON, MessagePack) to the ingestion
// pipeline's structural expander without that expander needing to know
// which decoder produced the value.
package valuetree

// Kind tags which shape a Value holds.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindList
	KindMap
)

// Value is a tagged union over the shapes a decoded payload can take.
// Only the field matching Kind is meaningful.
type Value struct {
	Kind Kind

	Bool   bool
	Number float64
	Str    string
	List   []Value

	// Map and MapKeys together give an order-preserving map: MapKeys
	// lists keys in declaration/insertion order, Map holds the values.
	// Struct decode relies on field order; the JSON/MessagePack
	// converters insert keys in sorted order for determinism.
	Map     map[string]Value
	MapKeys []string
}

// Bool builds a KindBool value.
func Bool(b bool) Value { return Value{Kind: KindBool, Bool: b} }

// Number builds a KindNumber value.
func Number(n float64) Value { return Value{Kind: KindNumber, Number: n} }

// String builds a KindString value.
func String(s string) Value { return Value{Kind: KindString, Str: s} }

// List builds a KindList value.
func List(items []Value) Value { return Value{Kind: KindList, List: items} }

// NewMap builds an empty order-preserving KindMap value.
func NewMap() Value {
	return Value{Kind: KindMap, Map: make(map[string]Value)}
}

// Set inserts or overwrites key in an order-preserving map Value,
// appending to MapKeys only the first time the key is seen.
func (v *Value) Set(key string, val Value) {
	if _, ok := v.Map[key]; !ok {
		v.MapKeys = append(v.MapKeys, key)
	}
	v.Map[key] = val
}

// IsPrimitive reports whether v is a bool, number, or string leaf (as
// opposed to a list or map).
func (v Value) IsPrimitive() bool {
	switch v.Kind {
	case KindBool, KindNumber, KindString:
		return true
	default:
		return false
	}
}
