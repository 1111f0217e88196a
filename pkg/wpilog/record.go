// Copyright (c) FIRST and other WPILib contributors.
// Open Source Software; you can modify and/or share it under the terms of
// the WPILib BSD license file in the root directory of this project.

package wpilog

import (
	"encoding/binary"
	"fmt"
	"math"
	"strings"
)

const (
	controlStart       = 0
	controlFinish      = 1
	controlSetMetadata = 2
)

// ControlKind distinguishes the three control record sub-types.
type ControlKind int

const (
	ControlUnknown ControlKind = iota
	ControlStart
	ControlFinish
	ControlSetMetadata
)

// Kind reports which control sub-type a control record (Entry == 0)
// carries, or ControlUnknown if the payload matches none of them.
func (r RawRecord) Kind() ControlKind {
	if !r.IsControl() {
		return ControlUnknown
	}
	p := r.Payload
	switch {
	case len(p) >= 17 && p[0] == controlStart:
		return ControlStart
	case len(p) == 5 && p[0] == controlFinish:
		return ControlFinish
	case len(p) >= 9 && p[0] == controlSetMetadata:
		return ControlSetMetadata
	default:
		return ControlUnknown
	}
}

// StartRecord is the parsed payload of a Start control record: it
// introduces a new entry id bound to a name, a declared type, and
// initial metadata.
type StartRecord struct {
	EntryID  uint32
	Name     string
	Type     string
	Metadata string
}

// AsStart parses r as a Start control record.
func (r RawRecord) AsStart() (StartRecord, error) {
	if r.Kind() != ControlStart {
		return StartRecord{}, ErrNotControl
	}
	p := r.Payload
	entryID := binary.LittleEndian.Uint32(p[1:5])

	name, pos, err := readLengthPrefixedString(p, 5)
	if err != nil {
		return StartRecord{}, err
	}
	typ, pos, err := readLengthPrefixedString(p, pos)
	if err != nil {
		return StartRecord{}, err
	}
	metadata, _, err := readLengthPrefixedString(p, pos)
	if err != nil {
		return StartRecord{}, err
	}

	return StartRecord{EntryID: entryID, Name: name, Type: typ, Metadata: metadata}, nil
}

// FinishRecord is the parsed payload of a Finish control record.
type FinishRecord struct {
	EntryID uint32
}

// AsFinish parses r as a Finish control record.
func (r RawRecord) AsFinish() (FinishRecord, error) {
	if r.Kind() != ControlFinish {
		return FinishRecord{}, ErrNotControl
	}
	return FinishRecord{EntryID: binary.LittleEndian.Uint32(r.Payload[1:5])}, nil
}

// SetMetadataRecord is the parsed payload of a SetMetadata control record.
type SetMetadataRecord struct {
	EntryID  uint32
	Metadata string
}

// AsSetMetadata parses r as a SetMetadata control record.
func (r RawRecord) AsSetMetadata() (SetMetadataRecord, error) {
	if r.Kind() != ControlSetMetadata {
		return SetMetadataRecord{}, ErrNotControl
	}
	p := r.Payload
	entryID := binary.LittleEndian.Uint32(p[1:5])
	metadata, _, err := readLengthPrefixedString(p, 5)
	if err != nil {
		return SetMetadataRecord{}, err
	}
	return SetMetadataRecord{EntryID: entryID, Metadata: metadata}, nil
}

func readLengthPrefixedString(buf []byte, pos int) (string, int, error) {
	if pos+4 > len(buf) {
		return "", pos, fmt.Errorf("%w: truncated string length", ErrMalformedPayload)
	}
	n := int(binary.LittleEndian.Uint32(buf[pos : pos+4]))
	pos += 4
	if pos+n > len(buf) {
		return "", pos, fmt.Errorf("%w: truncated string body", ErrMalformedPayload)
	}
	return string(buf[pos : pos+n]), pos + n, nil
}

// Kind identifies which LoggableType shape a decoded data value takes.
type Kind int

const (
	KindRaw Kind = iota
	KindBoolean
	KindNumber
	KindString
	KindBooleanArray
	KindNumberArray
	KindStringArray
)

// Value is the generic result of decoding one data record's payload
// against its entry's declared type (table in §4.2).
type Value struct {
	Kind        Kind
	Bool        bool
	Num         float64
	Str         string
	Raw         []byte
	BoolArray   []bool
	NumberArray []float64
	StringArray []string
}

// DecodeData decodes payload according to declaredType, per the table in
// spec §4.2. struct:<T>, struct:<T>[], msgpack and unrecognized types all
// decode to KindRaw carrying the untouched payload bytes; it is the
// ingestion pipeline's job to hand those to the struct decoder or a
// MessagePack decoder.
func DecodeData(declaredType string, payload []byte) (Value, error) {
	switch declaredType {
	case "boolean":
		if len(payload) != 1 {
			return Value{}, fmt.Errorf("%w: boolean wants 1 byte, got %d", ErrMalformedPayload, len(payload))
		}
		return Value{Kind: KindBoolean, Bool: payload[0] != 0}, nil

	case "int64":
		if len(payload) != 8 {
			return Value{}, fmt.Errorf("%w: int64 wants 8 bytes, got %d", ErrMalformedPayload, len(payload))
		}
		return Value{Kind: KindNumber, Num: float64(int64(binary.LittleEndian.Uint64(payload)))}, nil

	case "float":
		if len(payload) != 4 {
			return Value{}, fmt.Errorf("%w: float wants 4 bytes, got %d", ErrMalformedPayload, len(payload))
		}
		return Value{Kind: KindNumber, Num: float64(math.Float32frombits(binary.LittleEndian.Uint32(payload)))}, nil

	case "double":
		if len(payload) != 8 {
			return Value{}, fmt.Errorf("%w: double wants 8 bytes, got %d", ErrMalformedPayload, len(payload))
		}
		return Value{Kind: KindNumber, Num: math.Float64frombits(binary.LittleEndian.Uint64(payload))}, nil

	case "string", "json":
		return Value{Kind: KindString, Str: string(payload)}, nil

	case "boolean[]":
		arr := make([]bool, len(payload))
		for i, b := range payload {
			arr[i] = b != 0
		}
		return Value{Kind: KindBooleanArray, BoolArray: arr}, nil

	case "int64[]":
		if len(payload)%8 != 0 {
			return Value{}, fmt.Errorf("%w: int64[] length %d not a multiple of 8", ErrMalformedPayload, len(payload))
		}
		arr := make([]float64, len(payload)/8)
		for i := range arr {
			arr[i] = float64(int64(binary.LittleEndian.Uint64(payload[i*8 : i*8+8])))
		}
		return Value{Kind: KindNumberArray, NumberArray: arr}, nil

	case "float[]":
		if len(payload)%4 != 0 {
			return Value{}, fmt.Errorf("%w: float[] length %d not a multiple of 4", ErrMalformedPayload, len(payload))
		}
		arr := make([]float64, len(payload)/4)
		for i := range arr {
			arr[i] = float64(math.Float32frombits(binary.LittleEndian.Uint32(payload[i*4 : i*4+4])))
		}
		return Value{Kind: KindNumberArray, NumberArray: arr}, nil

	case "double[]":
		if len(payload)%8 != 0 {
			return Value{}, fmt.Errorf("%w: double[] length %d not a multiple of 8", ErrMalformedPayload, len(payload))
		}
		arr := make([]float64, len(payload)/8)
		for i := range arr {
			arr[i] = math.Float64frombits(binary.LittleEndian.Uint64(payload[i*8 : i*8+8]))
		}
		return Value{Kind: KindNumberArray, NumberArray: arr}, nil

	case "string[]":
		arr, err := decodeStringArray(payload)
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: KindStringArray, StringArray: arr}, nil

	case "msgpack":
		return Value{Kind: KindRaw, Raw: payload}, nil

	default:
		if strings.HasPrefix(declaredType, "struct:") {
			return Value{Kind: KindRaw, Raw: payload}, nil
		}
		return Value{Kind: KindRaw, Raw: payload}, nil
	}
}

func decodeStringArray(payload []byte) ([]string, error) {
	if len(payload) < 4 {
		return nil, fmt.Errorf("%w: string[] missing count", ErrMalformedPayload)
	}
	count := int(binary.LittleEndian.Uint32(payload[0:4]))
	pos := 4
	out := make([]string, 0, count)
	for i := 0; i < count; i++ {
		s, next, err := readLengthPrefixedString(payload, pos)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
		pos = next
	}
	return out, nil
}

// StructName returns the schema name referenced by a "struct:<T>" or
// "struct:<T>[]" declared type, and whether it is the array form.
func StructName(declaredType string) (name string, isArray bool, ok bool) {
	if !strings.HasPrefix(declaredType, "struct:") {
		return "", false, false
	}
	name = strings.TrimPrefix(declaredType, "struct:")
	if strings.HasSuffix(name, "[]") {
		return strings.TrimSuffix(name, "[]"), true, true
	}
	return name, false, true
}
