// Copyright (c) FIRST and other WPILib contributors.
// Open Source Software; you can modify and/or share it under the terms of
// the WPILib BSD license file in the root directory of this project.

package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HuskieRobotics/log-analyzer/internal/fieldstore"
)

func TestIntervalBasicCycle(t *testing.T) {
	l := fieldstore.NewLog()
	l.PutString("/state", 0, "idle")
	l.PutString("/state", 1, "start")
	l.PutString("/state", 3, "done")
	l.PutString("/state", 5, "start")
	l.PutString("/state", 9, "done")

	results, err := Interval(l, "/state", "start", "/state", "done")
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, IntervalResult{StartTimestamp: 1, Duration: 2}, results[0])
	assert.Equal(t, IntervalResult{StartTimestamp: 5, Duration: 4}, results[1])
}

func TestIntervalSkipsWindowWithNoEnd(t *testing.T) {
	l := fieldstore.NewLog()
	l.PutString("/state", 1, "start")
	l.PutString("/state", 2, "start") // no "done" in between — window skipped
	l.PutString("/state", 4, "done")

	results, err := Interval(l, "/state", "start", "/state", "done")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, IntervalResult{StartTimestamp: 2, Duration: 2}, results[0])
}

func TestIntervalUnsupportedType(t *testing.T) {
	l := fieldstore.NewLog()
	l.PutRaw("/raw", 0, []byte{1})
	l.PutString("/state", 0, "done")

	_, err := Interval(l, "/raw", "x", "/state", "done")
	assert.ErrorIs(t, err, ErrUnsupportedFieldType)
}

func TestIntervalMissingField(t *testing.T) {
	l := fieldstore.NewLog()
	l.PutString("/state", 0, "done")

	_, err := Interval(l, "/missing", "x", "/state", "done")
	assert.ErrorIs(t, err, ErrUnsupportedFieldType)
}

func TestTriggeredSamplingCapturesMostRecentValue(t *testing.T) {
	l := fieldstore.NewLog()
	l.PutNumber("/velocity", 0, 1.0)
	l.PutNumber("/velocity", 2, 2.0)
	l.PutBoolean("/shot", 2.5, true)
	l.PutNumber("/velocity", 3, 3.0)
	l.PutBoolean("/shot", 4, true)

	results, err := TriggeredSampling(l, "/velocity", "/shot", true)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, TriggeredResult{Timestamp: 2.5, Value: 2.0}, results[0])
	assert.Equal(t, TriggeredResult{Timestamp: 4, Value: 3.0}, results[1])
}

func TestTriggeredSamplingSkipsEmptyWindow(t *testing.T) {
	l := fieldstore.NewLog()
	l.PutBoolean("/shot", 1, true)
	l.PutNumber("/velocity", 5, 9.0)
	l.PutBoolean("/shot", 6, true)

	results, err := TriggeredSampling(l, "/velocity", "/shot", true)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, TriggeredResult{Timestamp: 6, Value: 9.0}, results[0])
}

func TestNumericValuesFiltersNonNumeric(t *testing.T) {
	results := []TriggeredResult{
		{Timestamp: 1, Value: 2.0},
		{Timestamp: 2, Value: "skip"},
		{Timestamp: 3, Value: true},
		{Timestamp: 4, Value: 4.0},
	}
	assert.Equal(t, []float64{2.0, 4.0}, NumericValues(results))
}
