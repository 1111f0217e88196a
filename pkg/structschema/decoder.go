// Copyright (c) FIRST and other WPILib contributors.
// Open Source Software; you can modify and/or share it under the terms of
// the WPILib BSD license file in the root directory of this project.

package structschema

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"strconv"
	"unicode/utf8"

	"github.com/HuskieRobotics/log-analyzer/pkg/valuetree"
)

// ErrSchemaMissing is returned when decoding references a schema name
// that has not (yet) been compiled. The ingestion pipeline treats this
// as non-fatal: it keeps the raw bytes only; a record that failed this
// way is not decoded again when its schema arrives later.
var ErrSchemaMissing = errors.New("structschema: schema not compiled")

// Decode decodes data against the compiled schema name, returning a
// map-shaped value tree plus a flat map of child-path -> nested-schema-
// name annotations (§4.4).
func (r *Registry) Decode(name string, data []byte) (valuetree.Value, map[string]string, error) {
	schema, ok := r.Get(name)
	if !ok {
		return valuetree.Value{}, nil, fmt.Errorf("%w: %s", ErrSchemaMissing, name)
	}
	return decodeStruct(r, schema, data)
}

// DecodeArray decodes data as a repeated array of schema name. If count
// is nil, the element count is derived from len(data) and the schema's
// byte length.
func (r *Registry) DecodeArray(name string, data []byte, count *int) (valuetree.Value, map[string]string, error) {
	schema, ok := r.Get(name)
	if !ok {
		return valuetree.Value{}, nil, fmt.Errorf("%w: %s", ErrSchemaMissing, name)
	}

	n := 0
	if count != nil {
		n = *count
	} else {
		elemBytes := int(schema.LengthInBits) / 8
		if elemBytes > 0 {
			n = len(data) / elemBytes
		}
	}
	return decodeStructArray(r, schema, data, n)
}

func decodeStruct(r *Registry, schema *StructSchema, data []byte) (valuetree.Value, map[string]string, error) {
	out := valuetree.NewMap()
	schemaTypes := make(map[string]string)

	for _, vs := range schema.Values {
		slice := sliceBits(data, vs.BitStart, vs.BitEnd)

		if vs.IsSchemaRef {
			childSchema, ok := r.Get(vs.Type)
			if !ok {
				return valuetree.Value{}, nil, fmt.Errorf("%w: %s", ErrSchemaMissing, vs.Type)
			}

			if vs.ArrayLength != nil {
				listVal, childTypes, err := decodeStructArray(r, childSchema, slice, int(*vs.ArrayLength))
				if err != nil {
					return valuetree.Value{}, nil, err
				}
				out.Set(vs.Name, listVal)
				schemaTypes[vs.Name] = vs.Type + "[]"
				for k, v := range childTypes {
					schemaTypes[vs.Name+"/"+k] = v
				}
			} else {
				childVal, childTypes, err := decodeStruct(r, childSchema, slice)
				if err != nil {
					return valuetree.Value{}, nil, err
				}
				out.Set(vs.Name, childVal)
				schemaTypes[vs.Name] = vs.Type
				for k, v := range childTypes {
					schemaTypes[vs.Name+"/"+k] = v
				}
			}
			continue
		}

		if vs.ArrayLength != nil {
			val, err := decodePrimitiveArray(vs, slice, int(*vs.ArrayLength))
			if err != nil {
				return valuetree.Value{}, nil, err
			}
			out.Set(vs.Name, val)
			continue
		}

		val, err := decodePrimitiveScalar(vs, slice)
		if err != nil {
			return valuetree.Value{}, nil, err
		}
		out.Set(vs.Name, val)
	}

	return out, schemaTypes, nil
}

func decodeStructArray(r *Registry, schema *StructSchema, data []byte, n int) (valuetree.Value, map[string]string, error) {
	elemBytes := int(schema.LengthInBits) / 8
	if elemBytes == 0 {
		elemBytes = 1
	}

	items := make([]valuetree.Value, 0, n)
	schemaTypes := make(map[string]string)

	for i := 0; i < n; i++ {
		start := i * elemBytes
		end := start + elemBytes
		slice := make([]byte, elemBytes)
		if start < len(data) {
			copy(slice, data[start:min(end, len(data))])
		}

		val, childTypes, err := decodeStruct(r, schema, slice)
		if err != nil {
			return valuetree.Value{}, nil, err
		}
		items = append(items, val)

		idx := strconv.Itoa(i)
		schemaTypes[idx] = schema.Name
		for k, v := range childTypes {
			schemaTypes[idx+"/"+k] = v
		}
	}

	return valuetree.List(items), schemaTypes, nil
}

// sliceBits extracts bits [start, end) from data, LSB-first within each
// output byte, right-padded with zero bits. When the range is byte
// aligned this is a plain slice (the fast path called out in §9).
func sliceBits(data []byte, start, end uint32) []byte {
	if start%8 == 0 && end%8 == 0 {
		a, b := int(start/8), int(end/8)
		out := make([]byte, b-a)
		if a < len(data) {
			copy(out, data[a:min(b, len(data))])
		}
		return out
	}

	nbits := end - start
	out := make([]byte, (nbits+7)/8)
	for i := uint32(0); i < nbits; i++ {
		bitIndex := start + i
		byteIdx := int(bitIndex / 8)
		bitInByte := bitIndex % 8
		if byteIdx >= len(data) {
			continue
		}
		bit := (data[byteIdx] >> bitInByte) & 1
		out[i/8] |= bit << (i % 8)
	}
	return out
}

func decodePrimitiveScalar(vs ValueSchema, slice []byte) (valuetree.Value, error) {
	widthBytes := primitiveBits[vs.Type] / 8
	buf := make([]byte, widthBytes)
	copy(buf, slice)
	return decodePrimitiveValue(vs.Type, buf, vs.EnumMap)
}

func decodePrimitiveArray(vs ValueSchema, slice []byte, n int) (valuetree.Value, error) {
	elemBytes := primitiveBits[vs.Type] / 8

	if vs.Type == "char" {
		b := make([]byte, n)
		for i := 0; i < n; i++ {
			start := i * elemBytes
			if start < len(slice) {
				b[i] = slice[start]
			}
		}
		return valuetree.String(string(b)), nil
	}

	items := make([]valuetree.Value, 0, n)
	for i := 0; i < n; i++ {
		start := i * elemBytes
		end := start + elemBytes
		buf := make([]byte, elemBytes)
		if start < len(slice) {
			copy(buf, slice[start:min(end, len(slice))])
		}
		val, err := decodePrimitiveValue(vs.Type, buf, vs.EnumMap)
		if err != nil {
			return valuetree.Value{}, err
		}
		items = append(items, val)
	}
	return valuetree.List(items), nil
}

func decodePrimitiveValue(typeName string, buf []byte, enumMap map[int64]string) (valuetree.Value, error) {
	switch typeName {
	case "bool":
		return valuetree.Bool(len(buf) > 0 && buf[0] != 0), nil

	case "char":
		r, size := utf8.DecodeRune(buf[:1])
		if r == utf8.RuneError && size <= 1 {
			r = rune(buf[0])
		}
		return valuetree.String(string(r)), nil

	case "int8":
		return applyEnum(int64(int8(buf[0])), enumMap), nil
	case "int16":
		return applyEnum(int64(int16(binary.LittleEndian.Uint16(buf))), enumMap), nil
	case "int32":
		return applyEnum(int64(int32(binary.LittleEndian.Uint32(buf))), enumMap), nil
	case "int64":
		return applyEnum(int64(binary.LittleEndian.Uint64(buf)), enumMap), nil

	case "uint8":
		return applyEnumUnsigned(uint64(buf[0]), enumMap), nil
	case "uint16":
		return applyEnumUnsigned(uint64(binary.LittleEndian.Uint16(buf)), enumMap), nil
	case "uint32":
		return applyEnumUnsigned(uint64(binary.LittleEndian.Uint32(buf)), enumMap), nil
	case "uint64":
		return applyEnumUnsigned(binary.LittleEndian.Uint64(buf), enumMap), nil

	case "float", "float32":
		return valuetree.Number(float64(math.Float32frombits(binary.LittleEndian.Uint32(buf)))), nil
	case "double", "float64":
		return valuetree.Number(math.Float64frombits(binary.LittleEndian.Uint64(buf))), nil

	default:
		return valuetree.Value{}, fmt.Errorf("structschema: unknown primitive type %q", typeName)
	}
}

func applyEnum(n int64, enumMap map[int64]string) valuetree.Value {
	if enumMap != nil {
		if label, ok := enumMap[n]; ok {
			return valuetree.String(label)
		}
	}
	return valuetree.Number(float64(n))
}

func applyEnumUnsigned(u uint64, enumMap map[int64]string) valuetree.Value {
	if enumMap != nil {
		if label, ok := enumMap[int64(u)]; ok {
			return valuetree.String(label)
		}
	}
	return valuetree.Number(float64(u))
}
