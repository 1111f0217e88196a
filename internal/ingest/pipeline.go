// Copyright (c) FIRST and other WPILib contributors.
// Open Source Software; you can modify and/or share it under the terms of
// the WPILib BSD license file in the root directory of this project.

// Package ingest implements the Ingestion Pipeline (C6): it binds the
// record reader/classifier (pkg/wpilog) and struct decoder
// (pkg/structschema) to the Log Field Store (internal/fieldstore),
// routing each data record by its entry's declared type and expanding
// structured payloads (struct, JSON, MessagePack) into generated child
// fields.
package ingest

import (
	"strings"

	"github.com/HuskieRobotics/log-analyzer/internal/fieldstore"
	"github.com/HuskieRobotics/log-analyzer/pkg/log"
	"github.com/HuskieRobotics/log-analyzer/pkg/structschema"
	"github.com/HuskieRobotics/log-analyzer/pkg/wpilog"
)

// entryInfo is the Start-record binding of an entry id to a path and a
// declared type, retained for the lifetime of the Pipeline (entry ids
// are not reused within one file in practice, and a later Start simply
// overwrites the binding if they are).
type entryInfo struct {
	Name string
	Type string
}

// Pipeline routes raw records from one or more WPILOG files into a
// shared Log and struct schema Registry. Sharing the Registry (and
// optionally the Log) across files lets later files benefit from
// schemas compiled while ingesting earlier ones (§5).
type Pipeline struct {
	Log     *fieldstore.Log
	Schemas *structschema.Registry

	entries map[uint32]entryInfo
}

// New builds a Pipeline writing into log and resolving struct schemas
// from schemas.
func New(l *fieldstore.Log, schemas *structschema.Registry) *Pipeline {
	return &Pipeline{
		Log:     l,
		Schemas: schemas,
		entries: make(map[uint32]entryInfo),
	}
}

// Ingest processes one raw record, dispatching control records to entry
// bookkeeping and data records to field-store writes.
func (p *Pipeline) Ingest(rr wpilog.RawRecord) {
	if rr.IsControl() {
		p.handleControl(rr)
		return
	}
	p.handleData(rr)
}

func (p *Pipeline) handleControl(rr wpilog.RawRecord) {
	switch rr.Kind() {
	case wpilog.ControlStart:
		start, err := rr.AsStart()
		if err != nil {
			log.Warnf("[INGEST]> malformed Start record: %s", err)
			return
		}
		p.entries[start.EntryID] = entryInfo{Name: start.Name, Type: start.Type}

	case wpilog.ControlFinish, wpilog.ControlSetMetadata:
		// Neither affects routing: the entry's name/type binding from
		// Start is what data records are routed by, for the entry's
		// entire lifetime.

	default:
		log.Warnf("[INGEST]> unrecognized control record, entry=%d", rr.Entry)
	}
}

func (p *Pipeline) handleData(rr wpilog.RawRecord) {
	info, ok := p.entries[rr.Entry]
	if !ok {
		log.Warnf("[INGEST]> data record for unknown entry id %d, skipping", rr.Entry)
		return
	}

	if schemaName, isSchema := schemaNameFromEntryName(info.Name); isSchema {
		p.Schemas.AddSchema(schemaName, string(rr.Payload))
		return
	}

	ts := float64(rr.Timestamp) / 1e6
	p.routeByType(info.Name, info.Type, ts, rr.Payload)
}

func (p *Pipeline) routeByType(key, declaredType string, ts float64, payload []byte) {
	if schemaName, isArray, ok := wpilog.StructName(declaredType); ok {
		p.handleStruct(key, schemaName, isArray, ts, payload)
		return
	}

	switch declaredType {
	case "json":
		p.handleJSON(key, ts, payload)
		return
	case "msgpack":
		p.handleMsgpack(key, ts, payload)
		return
	}

	val, err := wpilog.DecodeData(declaredType, payload)
	if err != nil {
		log.Warnf("[INGEST]> skipping malformed %q payload for %q: %s", declaredType, key, err)
		return
	}
	p.putDecoded(key, ts, val)
}

func (p *Pipeline) putDecoded(key string, ts float64, val wpilog.Value) {
	switch val.Kind {
	case wpilog.KindBoolean:
		p.Log.PutBoolean(key, ts, val.Bool)
	case wpilog.KindNumber:
		p.Log.PutNumber(key, ts, val.Num)
	case wpilog.KindString:
		p.Log.PutString(key, ts, val.Str)
	case wpilog.KindBooleanArray:
		p.Log.PutBooleanArray(key, ts, val.BoolArray)
	case wpilog.KindNumberArray:
		p.Log.PutNumberArray(key, ts, val.NumberArray)
	case wpilog.KindStringArray:
		p.Log.PutStringArray(key, ts, val.StringArray)
	default:
		p.Log.PutRaw(key, ts, val.Raw)
	}
}

// schemaNameFromEntryName reports whether name carries a struct schema
// payload (its declared type's data is schema text, not a struct
// instance) and, if so, the schema name it should be registered under
// (§4.6, §6.2).
func schemaNameFromEntryName(name string) (string, bool) {
	if !strings.Contains(name, ".schema") {
		return "", false
	}
	idx := strings.LastIndex(name, "struct:")
	if idx < 0 {
		return "", false
	}
	return name[idx+len("struct:"):], true
}
