// Copyright (c) FIRST and other WPILib contributors.
// Open Source Software; you can modify and/or share it under the terms of
// the WPILib BSD license file in the root directory of this project.

package ingest

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HuskieRobotics/log-analyzer/internal/fieldstore"
	"github.com/HuskieRobotics/log-analyzer/pkg/structschema"
	"github.com/HuskieRobotics/log-analyzer/pkg/wpilog"
)

func newTestPipeline() *Pipeline {
	return New(fieldstore.NewLog(), structschema.NewRegistry())
}

func startRecord(entryID uint32, name, typ string) wpilog.RawRecord {
	var payload []byte
	payload = append(payload, 0) // control kind: start
	idBuf := make([]byte, 4)
	binary.LittleEndian.PutUint32(idBuf, entryID)
	payload = append(payload, idBuf...)
	payload = append(payload, lengthPrefixed(name)...)
	payload = append(payload, lengthPrefixed(typ)...)
	payload = append(payload, lengthPrefixed("")...)
	return wpilog.RawRecord{Entry: 0, Payload: payload}
}

func lengthPrefixed(s string) []byte {
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, uint32(len(s)))
	return append(buf, []byte(s)...)
}

func dataRecord(entry uint32, tsUs uint64, payload []byte) wpilog.RawRecord {
	return wpilog.RawRecord{Entry: entry, Timestamp: tsUs, Payload: payload}
}

// Scenario 1: minimal log, one double field.
func TestIngestMinimalLog(t *testing.T) {
	p := newTestPipeline()
	p.Ingest(startRecord(1, "/x", "double"))

	payload := make([]byte, 8)
	binary.LittleEndian.PutUint64(payload, math.Float64bits(3.14))
	p.Ingest(dataRecord(1, 1_000_000, payload))

	samples, ok := p.Log.GetNumber("/x", -1, 2)
	require.True(t, ok)
	require.Len(t, samples, 1)
	assert.Equal(t, 1.0, samples[0].Timestamp)
	assert.Equal(t, 3.14, samples[0].Number)
}

// Scenario 3: JSON expansion.
func TestIngestJSONExpansion(t *testing.T) {
	p := newTestPipeline()
	p.Ingest(startRecord(1, "/j", "json"))
	p.Ingest(dataRecord(1, 2_000_000, []byte(`{"a":1,"b":[true,false]}`)))

	root, ok := p.Log.GetString("/j", -1, 3)
	require.True(t, ok)
	require.Len(t, root, 1)
	assert.Equal(t, `{"a":1,"b":[true,false]}`, root[0].Str)

	a, ok := p.Log.GetNumber("/j/a", -1, 3)
	require.True(t, ok)
	require.Len(t, a, 1)
	assert.Equal(t, 1.0, a[0].Number)

	b, ok := p.Log.GetBooleanArray("/j/b", -1, 3)
	require.True(t, ok)
	require.Len(t, b, 1)
	assert.Equal(t, []bool{true, false}, b[0].BoolArr)

	assert.True(t, p.Log.IsGenerated("/j/a"))
	assert.False(t, p.Log.IsGenerated("/j"))
}

// Scenario 4/5: struct ingestion wires schema text through to a decode.
func TestIngestStructSchemaAndData(t *testing.T) {
	p := newTestPipeline()

	// Start record whose name carries the schema payload marker.
	p.Ingest(startRecord(1, "NT:/x.schema/struct:Demo", "structschema"))
	p.Ingest(dataRecord(1, 0, []byte("bool a:1; bool b:1; uint8 c;")))

	require.True(t, func() bool { _, ok := p.Schemas.Get("Demo"); return ok }())

	p.Ingest(startRecord(2, "/x", "struct:Demo"))
	p.Ingest(dataRecord(2, 1_000_000, []byte{0b00000011, 0x2A}))

	aSamples, ok := p.Log.GetBoolean("/x/a", -1, 2)
	require.True(t, ok)
	require.Len(t, aSamples, 1)
	assert.True(t, aSamples[0].Bool)

	bSamples, ok := p.Log.GetBoolean("/x/b", -1, 2)
	require.True(t, ok)
	assert.True(t, bSamples[0].Bool)

	cSamples, ok := p.Log.GetNumber("/x/c", -1, 2)
	require.True(t, ok)
	assert.Equal(t, 42.0, cSamples[0].Number)

	assert.True(t, p.Log.IsGenerated("/x/a"))
	st := p.Log.GetStructuredType("/x")
	require.NotNil(t, st)
	assert.Equal(t, "Demo", *st)
}

func TestIngestMalformedPayloadSkipped(t *testing.T) {
	p := newTestPipeline()
	p.Ingest(startRecord(1, "/bad", "int64"))
	p.Ingest(dataRecord(1, 0, []byte{1, 2, 3})) // not 8 bytes

	_, ok := p.Log.GetNumber("/bad", -1, 1)
	assert.False(t, ok)
}

func TestIngestUnknownDeclaredTypeDefaultsToRaw(t *testing.T) {
	p := newTestPipeline()
	p.Ingest(startRecord(1, "/weird", "Pose2d"))
	p.Ingest(dataRecord(1, 0, []byte{9, 9, 9}))

	samples, ok := p.Log.GetRaw("/weird", -1, 1)
	require.True(t, ok)
	require.Len(t, samples, 1)
	assert.Equal(t, []byte{9, 9, 9}, samples[0].Raw)
}
