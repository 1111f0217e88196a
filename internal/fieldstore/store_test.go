// Copyright (c) FIRST and other WPILib contributors.
// Open Source Software; you can modify and/or share it under the terms of
// the WPILib BSD license file in the root directory of this project.

package fieldstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Scenario 2: a type conflict drops the write and raises type_warning.
func TestPutTypeConflict(t *testing.T) {
	l := NewLog()
	l.PutNumber("/k", 0.0, 1.0)
	l.PutString("/k", 0.1, "x")

	samples, typ, ok := l.GetRange("/k", -1, 1)
	require.True(t, ok)
	assert.Equal(t, TypeNumber, typ)
	require.Len(t, samples, 1)
	assert.Equal(t, 0.0, samples[0].Timestamp)
	assert.Equal(t, 1.0, samples[0].Number)

	f := l.fields["/k"]
	assert.True(t, f.TypeWarning)
}

// Scenario 6: get_range is left-open, right-closed.
func TestGetRangeLeftOpenRightClosed(t *testing.T) {
	l := NewLog()
	l.PutNumber("k", 1.0, 10)
	l.PutNumber("k", 2.0, 20)
	l.PutNumber("k", 3.0, 30)

	samples, typ, ok := l.GetRange("k", 1.0, 3.0)
	require.True(t, ok)
	assert.Equal(t, TypeNumber, typ)
	require.Len(t, samples, 2)
	assert.Equal(t, 2.0, samples[0].Timestamp)
	assert.Equal(t, 3.0, samples[1].Timestamp)
}

func TestGetRangeMissingKey(t *testing.T) {
	l := NewLog()
	_, _, ok := l.GetRange("missing", 0, 1)
	assert.False(t, ok)
}

func TestGetRangeEmptyWithinRange(t *testing.T) {
	l := NewLog()
	l.PutNumber("k", 5.0, 1)
	samples, _, ok := l.GetRange("k", 10, 20)
	require.True(t, ok)
	assert.Empty(t, samples)
}

func TestPutOutOfOrderStableInsertion(t *testing.T) {
	l := NewLog()
	l.PutNumber("k", 2.0, 2)
	l.PutNumber("k", 1.0, 1)
	l.PutNumber("k", 1.0, 1.5) // same timestamp as previous insert, tie-break keeps order
	l.PutNumber("k", 3.0, 3)

	f := l.fields["k"]
	require.Len(t, f.Samples, 4)
	var ts []float64
	for _, s := range f.Samples {
		ts = append(ts, s.Timestamp)
	}
	assert.Equal(t, []float64{1.0, 1.0, 2.0, 3.0}, ts)
	assert.Equal(t, 1.0, f.Samples[0].Number)
	assert.Equal(t, 1.5, f.Samples[1].Number)
}

func TestGetTypedNoCoercion(t *testing.T) {
	l := NewLog()
	l.PutNumber("k", 0, 1.0)
	_, ok := l.GetString("k", 0, 1)
	assert.False(t, ok)
	_, ok = l.GetNumber("k", 0, 1)
	assert.True(t, ok)
}

func TestClearBeforeTimeClampsMostRecent(t *testing.T) {
	l := NewLog()
	l.PutNumber("k", 1.0, 1)
	l.PutNumber("k", 2.0, 2)
	l.PutNumber("k", 3.0, 3)
	l.PutNumber("k", 5.0, 5)

	l.ClearBeforeTime(2.5)

	f := l.fields["k"]
	require.Len(t, f.Samples, 3)
	assert.Equal(t, 2.5, f.Samples[0].Timestamp)
	assert.Equal(t, 2.0, f.Samples[0].Number) // most-recent-before value, retimestamped
	assert.Equal(t, 3.0, f.Samples[1].Timestamp)
	assert.Equal(t, 5.0, f.Samples[2].Timestamp)

	for _, s := range f.Samples {
		assert.False(t, s.Timestamp < 2.5)
	}
}

func TestClearBeforeTimeNoRetroactiveSamples(t *testing.T) {
	l := NewLog()
	l.PutNumber("k", 5.0, 5)
	l.ClearBeforeTime(1.0)
	f := l.fields["k"]
	require.Len(t, f.Samples, 1)
	assert.Equal(t, 5.0, f.Samples[0].Timestamp)
}

func TestGetTimestampsSingleKeyNoDedup(t *testing.T) {
	l := NewLog()
	l.PutNumber("k", 1.0, 1)
	l.PutNumber("k", 1.0, 2)
	ts := l.GetTimestamps([]string{"k"})
	assert.Equal(t, []float64{1.0, 1.0}, ts)
}

func TestGetTimestampsMultiKeyDedupAndSorted(t *testing.T) {
	l := NewLog()
	l.PutNumber("a", 3.0, 1)
	l.PutNumber("a", 1.0, 1)
	l.PutNumber("b", 1.0, 1)
	l.PutNumber("b", 2.0, 1)

	ts := l.GetTimestamps([]string{"a", "b"})
	assert.Equal(t, []float64{1.0, 2.0, 3.0}, ts)
}

func TestGetTimestampRangeDefault(t *testing.T) {
	l := NewLog()
	start, end := l.GetTimestampRange()
	assert.Equal(t, 0.0, start)
	assert.Equal(t, 10.0, end)
}

func TestGetTimestampRangeTracksExtent(t *testing.T) {
	l := NewLog()
	l.PutNumber("a", 5.0, 1)
	l.PutNumber("b", 1.0, 1)
	l.PutNumber("a", 9.0, 1)

	start, end := l.GetTimestampRange()
	assert.Equal(t, 1.0, start)
	assert.Equal(t, 9.0, end)
}

// Scenario 3 (partial): is_generated honours strict "/" boundaries.
func TestIsGeneratedStrictSlashBoundary(t *testing.T) {
	l := NewLog()
	l.SetGeneratedParent("/j")

	assert.True(t, l.IsGenerated("/j/a"))
	assert.False(t, l.IsGenerated("/j"))
	assert.False(t, l.IsGenerated("/jfoo"))
}

func TestGetFieldTree(t *testing.T) {
	l := NewLog()
	l.CreateBlankField("/a/b", TypeNumber)
	l.CreateBlankField("/a/c", TypeNumber)
	l.CreateBlankField("/x", TypeNumber)
	l.SetGeneratedParent("/a/generated")
	l.CreateBlankField("/a/generated/child", TypeNumber)

	tree := l.GetFieldTree("", true)
	a, ok := tree.Children["a"]
	require.True(t, ok)
	assert.False(t, a.Terminal)
	assert.Len(t, a.Children, 3)

	treeNoGen := l.GetFieldTree("", false)
	aNoGen := treeNoGen.Children["a"]
	assert.Len(t, aNoGen.Children, 2)

	x := tree.Children["x"]
	assert.True(t, x.Terminal)
	assert.Equal(t, "/x", x.FullKey)
}

func TestDeleteFieldForgetsGeneratedStatus(t *testing.T) {
	l := NewLog()
	l.PutNumber("/j", 0, 1)
	l.SetGeneratedParent("/j")
	l.DeleteField("/j")

	_, _, ok := l.GetRange("/j", 0, 1)
	assert.False(t, ok)
	assert.False(t, l.IsGenerated("/j/a"))
}
