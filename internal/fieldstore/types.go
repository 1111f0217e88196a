// Copyright (c) FIRST and other WPILib contributors.
// Open Source Software; you can modify and/or share it under the terms of
// the WPILib BSD license file in the root directory of this project.

// Package fieldstore implements the Log Field Store (C5): a keyed,
// type-tagged, timestamp-ordered columnar store of decoded telemetry
// samples, plus generated-parent and structured-type bookkeeping used by
// the ingestion pipeline's structural expander.
package fieldstore

import "sync"

// LoggableType is the closed set of value shapes a LogField can hold.
type LoggableType int

const (
	TypeEmpty LoggableType = iota
	TypeRaw
	TypeBoolean
	TypeNumber
	TypeString
	TypeBooleanArray
	TypeNumberArray
	TypeStringArray
)

func (t LoggableType) String() string {
	switch t {
	case TypeRaw:
		return "Raw"
	case TypeBoolean:
		return "Boolean"
	case TypeNumber:
		return "Number"
	case TypeString:
		return "String"
	case TypeBooleanArray:
		return "BooleanArray"
	case TypeNumberArray:
		return "NumberArray"
	case TypeStringArray:
		return "StringArray"
	default:
		return "Empty"
	}
}

// Sample is one timestamped value. Only the field matching the owning
// LogField's Type is meaningful.
type Sample struct {
	Timestamp float64

	Bool    bool
	Number  float64
	Str     string
	Raw     []byte
	BoolArr []bool
	NumArr  []float64
	StrArr  []string
}

// LogField is the in-memory column for one entry: a non-decreasing
// timestamped sequence of samples of a single LoggableType.
type LogField struct {
	Type           LoggableType
	Samples        []Sample
	StructuredType *string
	TypeWarning    bool
}

// Log is a mapping from key path to LogField, plus generated-parent and
// observed-timestamp-range bookkeeping. A Log is an independent arena:
// there is no global state shared across Logs.
type Log struct {
	mu               sync.Mutex
	fields           map[string]*LogField
	generatedParents map[string]struct{}

	hasRange   bool
	rangeStart float64
	rangeEnd   float64
}

// NewLog returns an empty Log.
func NewLog() *Log {
	return &Log{
		fields:           make(map[string]*LogField),
		generatedParents: make(map[string]struct{}),
	}
}
