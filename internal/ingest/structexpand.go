// Copyright (c) FIRST and other WPILib contributors.
// Open Source Software; you can modify and/or share it under the terms of
// the WPILib BSD license file in the root directory of this project.

package ingest

import (
	"fmt"

	"github.com/HuskieRobotics/log-analyzer/internal/fieldstore"
	"github.com/HuskieRobotics/log-analyzer/pkg/valuetree"
)

// handleStruct decodes a struct:<T> or struct:<T>[] data record: the
// raw bytes are always kept, then a best-effort decode expands them
// into generated child fields. A SchemaMissing failure leaves the
// field as opaque raw bytes (§4.6, §7).
func (p *Pipeline) handleStruct(key, schemaName string, isArray bool, ts float64, payload []byte) {
	p.Log.PutRaw(key, ts, payload)

	var (
		tree        valuetree.Value
		schemaTypes map[string]string
		err         error
	)
	if isArray {
		tree, schemaTypes, err = p.Schemas.DecodeArray(schemaName, payload, nil)
	} else {
		tree, schemaTypes, err = p.Schemas.Decode(schemaName, payload)
	}
	if err != nil {
		return
	}

	structuredType := schemaName
	if isArray {
		structuredType += "[]"
	}
	p.Log.SetGeneratedParent(key)
	p.Log.SetStructuredType(key, &structuredType)

	p.putUnknownStruct(key, ts, tree, false)

	for childKey, childType := range schemaTypes {
		full := key + "/" + childKey
		p.Log.CreateBlankField(full, fieldstore.TypeEmpty)
		ct := childType
		p.Log.SetStructuredType(full, &ct)
	}
}

// putUnknownStruct is the structural expander (§4.6): given a generic
// decoded value, it materialises primitive leaves, homogeneous arrays,
// and nested maps/lists as child fields under key.
func (p *Pipeline) putUnknownStruct(key string, ts float64, v valuetree.Value, allowRootWrite bool) {
	switch v.Kind {
	case valuetree.KindBool:
		if allowRootWrite {
			p.Log.PutBoolean(key, ts, v.Bool)
		}
	case valuetree.KindNumber:
		if allowRootWrite {
			p.Log.PutNumber(key, ts, v.Number)
		}
	case valuetree.KindString:
		if allowRootWrite {
			p.Log.PutString(key, ts, v.Str)
		}

	case valuetree.KindList:
		if kind, ok := homogeneousPrimitiveKind(v.List); ok {
			writeHomogeneousArray(p.Log, key, ts, kind, v.List)
			return
		}
		p.Log.PutNumber(key+"/length", ts, float64(len(v.List)))
		for i, item := range v.List {
			p.putUnknownStruct(fmt.Sprintf("%s/%d", key, i), ts, item, true)
		}

	case valuetree.KindMap:
		for _, k := range v.MapKeys {
			p.putUnknownStruct(key+"/"+k, ts, v.Map[k], true)
		}
	}
}

// homogeneousPrimitiveKind reports whether items is a non-empty list of
// same-kind bool/number/string leaves.
func homogeneousPrimitiveKind(items []valuetree.Value) (valuetree.Kind, bool) {
	if len(items) == 0 {
		return valuetree.KindNull, false
	}
	kind := items[0].Kind
	if kind != valuetree.KindBool && kind != valuetree.KindNumber && kind != valuetree.KindString {
		return valuetree.KindNull, false
	}
	for _, it := range items[1:] {
		if it.Kind != kind {
			return valuetree.KindNull, false
		}
	}
	return kind, true
}

func writeHomogeneousArray(l *fieldstore.Log, key string, ts float64, kind valuetree.Kind, items []valuetree.Value) {
	switch kind {
	case valuetree.KindBool:
		arr := make([]bool, len(items))
		for i, it := range items {
			arr[i] = it.Bool
		}
		l.PutBooleanArray(key, ts, arr)

	case valuetree.KindNumber:
		arr := make([]float64, len(items))
		for i, it := range items {
			arr[i] = it.Number
		}
		l.PutNumberArray(key, ts, arr)

	case valuetree.KindString:
		arr := make([]string, len(items))
		for i, it := range items {
			arr[i] = it.Str
		}
		l.PutStringArray(key, ts, arr)
	}
}
