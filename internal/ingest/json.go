// Copyright (c) FIRST and other WPILib contributors.
// Open Source Software; you can modify and/or share it under the terms of
// the WPILib BSD license file in the root directory of this project.

package ingest

import (
	"encoding/json"
	"sort"

	"github.com/HuskieRobotics/log-analyzer/pkg/log"
	"github.com/HuskieRobotics/log-analyzer/pkg/valuetree"
)

// handleJSON decodes a `json`-typed data record: the raw string is kept
// verbatim, then — on successful parse — expanded into generated child
// fields the same way a struct payload is (§4.6).
func (p *Pipeline) handleJSON(key string, ts float64, payload []byte) {
	p.Log.PutString(key, ts, string(payload))

	var decoded any
	if err := json.Unmarshal(payload, &decoded); err != nil {
		log.Warnf("[INGEST]> skipping malformed json payload for %q: %s", key, err)
		return
	}

	p.Log.SetGeneratedParent(key)
	structuredType := "JSON"
	p.Log.SetStructuredType(key, &structuredType)

	p.putUnknownStruct(key, ts, valuetreeFromJSON(decoded), false)
}

// valuetreeFromJSON converts the result of json.Unmarshal into an
// interface{} (nil, bool, float64, string, []any, map[string]any) into
// the generic value tree. Map key order is incidental to JSON, so keys
// are sorted for deterministic output.
func valuetreeFromJSON(v any) valuetree.Value {
	switch t := v.(type) {
	case bool:
		return valuetree.Bool(t)
	case float64:
		return valuetree.Number(t)
	case string:
		return valuetree.String(t)
	case []any:
		items := make([]valuetree.Value, len(t))
		for i, it := range t {
			items[i] = valuetreeFromJSON(it)
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
			m.Set(k, valuetreeFromJSON(t[k]))
		}
		return m
	default:
		return valuetree.Value{Kind: valuetree.KindNull}
	}
}
