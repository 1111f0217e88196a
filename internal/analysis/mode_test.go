// Copyright (c) FIRST and other WPILib contributors.
// Open Source Software; you can modify and/or share it under the terms of
// the WPILib BSD license file in the root directory of this project.

package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HuskieRobotics/log-analyzer/internal/fieldstore"
)

func TestEligibleWindowsNoGatingSpansWholeLog(t *testing.T) {
	l := fieldstore.NewLog()
	l.PutNumber("/x", 0, 1)
	l.PutNumber("/x", 10, 2)

	windows := EligibleWindows(l, Config{})
	require.Len(t, windows, 1)
	assert.Equal(t, math.Inf(-1), windows[0].Start)
	assert.Equal(t, 10.0, windows[0].End)
}

func TestEligibleWindowsAutoModeRestrictsToAutonomousTrue(t *testing.T) {
	l := fieldstore.NewLog()
	l.PutBoolean("/DriverStation/Autonomous", 0, true)
	l.PutBoolean("/DriverStation/Autonomous", 5, false)
	l.PutBoolean("/DriverStation/Autonomous", 8, true)
	l.PutNumber("/x", 1, 1)

	windows := EligibleWindows(l, Config{RobotMode: ModeAuto})
	require.Len(t, windows, 2)
	assert.Equal(t, Window{0, 5}, windows[0])
	assert.Equal(t, Window{8, 8}, windows[1])
}

func TestEligibleWindowsEnabledGating(t *testing.T) {
	l := fieldstore.NewLog()
	l.PutBoolean("/DriverStation/Enabled", 2, true)
	l.PutBoolean("/DriverStation/Enabled", 6, false)
	l.PutNumber("/x", 1, 1)
	l.PutNumber("/x", 9, 1)

	windows := EligibleWindows(l, Config{Enabled: true})
	require.Len(t, windows, 1)
	assert.Equal(t, Window{2, 6}, windows[0])
}

func TestFilterIntervalsKeepsOnlyInWindow(t *testing.T) {
	windows := []Window{{0, 5}, {10, 20}}
	results := []IntervalResult{
		{StartTimestamp: 1, Duration: 1},
		{StartTimestamp: 7, Duration: 1},
		{StartTimestamp: 15, Duration: 1},
	}
	kept := FilterIntervals(results, windows)
	require.Len(t, kept, 2)
	assert.Equal(t, 1.0, kept[0].StartTimestamp)
	assert.Equal(t, 15.0, kept[1].StartTimestamp)
}
