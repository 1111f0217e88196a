// Copyright (c) FIRST and other WPILib contributors.
// Open Source Software; you can modify and/or share it under the terms of
// the WPILib BSD license file in the root directory of this project.

package structschema

import "sync"

// Registry is the struct schema engine (C3): it stores raw schema text
// keyed by name and compiles pending schemas to a fixed point, so that
// an arbitrary DAG of inter-schema references resolves in one call
// chain regardless of the order schemas arrive in.
type Registry struct {
	mu       sync.Mutex
	rawText  map[string]string
	compiled map[string]*StructSchema
}

// NewRegistry returns an empty struct schema registry.
func NewRegistry() *Registry {
	return &Registry{
		rawText:  make(map[string]string),
		compiled: make(map[string]*StructSchema),
	}
}

// AddSchema registers text under name (a no-op if name is already
// compiled — schemas never change after first compilation) and then
// re-runs compilation over every still-pending schema until a full pass
// makes no progress.
func (r *Registry) AddSchema(name, text string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.compiled[name]; ok {
		return
	}
	r.rawText[name] = text
	r.compilePending()
}

func (r *Registry) compilePending() {
	for {
		progressed := false
		for name, text := range r.rawText {
			schema, ok := compile(name, text, r.compiled)
			if !ok {
				continue
			}
			r.compiled[name] = schema
			delete(r.rawText, name)
			progressed = true
		}
		if !progressed {
			return
		}
	}
}

// Get returns the compiled schema for name, if compilation has
// succeeded (all of its transitive schema references are themselves
// compiled).
func (r *Registry) Get(name string) (*StructSchema, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.compiled[name]
	return s, ok
}

// Pending reports whether name has been registered but not yet
// compiled (still waiting on a transitive schema reference).
func (r *Registry) Pending(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.rawText[name]
	return ok
}

// bitUnit tracks the currently-open bitfield storage unit during layout.
type bitUnit struct {
	storageType string
	unitBits    uint32
	offset      uint32
}

// compile lays out one schema's declarations into bit-precise field
// ranges (§4.3's layout algorithm). It returns ok=false, leaving the
// schema pending, if any nested struct reference isn't compiled yet.
func compile(name, text string, compiled map[string]*StructSchema) (*StructSchema, bool) {
	decls := parseDeclarations(text)
	decls = dropInvalidBitfields(decls)

	var values []ValueSchema
	var bitPos uint32
	var unit *bitUnit

	flush := func() {
		if unit != nil {
			bitPos += unit.unitBits
			unit = nil
		}
	}

	for _, d := range decls {
		switch {
		case d.bitfieldWidth != nil:
			t := uint32(primitiveBits[d.typeName])
			w := *d.bitfieldWidth
			if w > t {
				w = t
			}

			newUnit := unit == nil || unit.storageType != d.typeName || unit.offset+w > unit.unitBits
			if newUnit {
				flush()
				unit = &bitUnit{storageType: d.typeName, unitBits: t, offset: 0}
			}

			start := bitPos + unit.offset
			end := start + w
			unit.offset += w

			values = append(values, ValueSchema{
				Name:          d.fieldName,
				Type:          d.typeName,
				EnumMap:       d.enumMap,
				BitfieldWidth: &w,
				BitStart:      start,
				BitEnd:        end,
			})

		case isPrimitive(d.typeName):
			flush()
			mult := uint32(1)
			if d.arrayLength != nil {
				mult = *d.arrayLength
			}
			length := uint32(primitiveBits[d.typeName]) * mult
			start := bitPos
			end := start + length
			bitPos = end

			values = append(values, ValueSchema{
				Name:        d.fieldName,
				Type:        d.typeName,
				EnumMap:     d.enumMap,
				ArrayLength: d.arrayLength,
				BitStart:    start,
				BitEnd:      end,
			})

		default:
			// Nested struct reference.
			child, ok := compiled[d.typeName]
			if !ok {
				return nil, false
			}
			flush()
			mult := uint32(1)
			if d.arrayLength != nil {
				mult = *d.arrayLength
			}
			length := child.LengthInBits * mult
			start := bitPos
			end := start + length
			bitPos = end

			values = append(values, ValueSchema{
				Name:        d.fieldName,
				Type:        d.typeName,
				IsSchemaRef: true,
				EnumMap:     d.enumMap,
				ArrayLength: d.arrayLength,
				BitStart:    start,
				BitEnd:      end,
			})
		}
	}
	flush()

	return &StructSchema{Name: name, LengthInBits: bitPos, Values: values}, true
}

// dropInvalidBitfields removes declarations with a bitfield suffix whose
// type cannot be a bitfield, or whose type is bool with a width other
// than 1 — both silently dropped per §3/§4.3.
func dropInvalidBitfields(decls []decl) []decl {
	out := decls[:0:0]
	for _, d := range decls {
		if d.bitfieldWidth == nil {
			out = append(out, d)
			continue
		}
		if !bitfieldTypes[d.typeName] {
			continue
		}
		if d.typeName == "bool" && *d.bitfieldWidth != 1 {
			continue
		}
		out = append(out, d)
	}
	return out
}
