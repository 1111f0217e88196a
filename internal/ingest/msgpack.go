// Copyright (c) FIRST and other WPILib contributors.
// Open Source Software; you can modify and/or share it under the terms of
// the WPILib BSD license file in the root directory of this project.

package ingest

import (
	"fmt"
	"sort"

	"github.com/HuskieRobotics/log-analyzer/pkg/log"
	"github.com/HuskieRobotics/log-analyzer/pkg/valuetree"
	"github.com/vmihailenco/msgpack/v5"
)

// handleMsgpack decodes a `msgpack`-typed data record: the raw bytes
// are kept, then — on successful decode — expanded into generated child
// fields the same way a struct payload is (§4.6).
func (p *Pipeline) handleMsgpack(key string, ts float64, payload []byte) {
	p.Log.PutRaw(key, ts, payload)

	var decoded any
	if err := msgpack.Unmarshal(payload, &decoded); err != nil {
		log.Warnf("[INGEST]> skipping malformed msgpack payload for %q: %s", key, err)
		return
	}

	p.Log.SetGeneratedParent(key)
	structuredType := "MessagePack"
	p.Log.SetStructuredType(key, &structuredType)

	p.putUnknownStruct(key, ts, valuetreeFromMsgpack(decoded), false)
}

// valuetreeFromMsgpack converts a generic msgpack.Unmarshal result into
// the generic value tree. github.com/vmihailenco/msgpack decodes
// integers to the narrowest native width that holds them and maps to
// map[string]interface{} (string keys) or map[interface{}]interface{}
// (any other key type), so both shapes are handled.
func valuetreeFromMsgpack(v any) valuetree.Value {
	switch t := v.(type) {
	case bool:
		return valuetree.Bool(t)
	case string:
		return valuetree.String(t)
	case []byte:
		return valuetree.String(string(t))
	case int8:
		return valuetree.Number(float64(t))
	case int16:
		return valuetree.Number(float64(t))
	case int32:
		return valuetree.Number(float64(t))
	case int64:
		return valuetree.Number(float64(t))
	case int:
		return valuetree.Number(float64(t))
	case uint8:
		return valuetree.Number(float64(t))
	case uint16:
		return valuetree.Number(float64(t))
	case uint32:
		return valuetree.Number(float64(t))
	case uint64:
		return valuetree.Number(float64(t))
	case float32:
		return valuetree.Number(float64(t))
	case float64:
		return valuetree.Number(t)
	case []any:
		items := make([]valuetree.Value, len(t))
		for i, it := range t {
			items[i] = valuetreeFromMsgpack(it)
		}
		return valuetree.List(items)
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		m := valuetree.NewMap()
		for _, k := range keys {
			m.Set(k, valuetreeFromMsgpack(t[k]))
		}
		return m
	case map[any]any:
		type entry struct {
			key string
			val any
		}
		entries := make([]entry, 0, len(t))
		for k, val := range t {
			entries = append(entries, entry{key: fmt.Sprint(k), val: val})
		}
		sort.Slice(entries, func(i, j int) bool { return entries[i].key < entries[j].key })
		m := valuetree.NewMap()
		for _, e := range entries {
			m.Set(e.key, valuetreeFromMsgpack(e.val))
		}
		return m
	default:
		return valuetree.Value{Kind: valuetree.KindNull}
	}
}
