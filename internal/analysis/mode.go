// Copyright (c) FIRST and other WPILib contributors.
// Open Source Software; you can modify and/or share it under the terms of
// the WPILib BSD license file in the root directory of this project.

package analysis

import (
	"math"
	"sort"

	"github.com/HuskieRobotics/log-analyzer/internal/fieldstore"
)

// Window is a closed time range [Start, End] during which a Config's
// enabled/fmsAttached/robotMode gates all hold simultaneously.
type Window struct {
	Start, End float64
}

type dsEvent struct {
	ts    float64
	field int // 0=Enabled, 1=Autonomous, 2=FMSAttached
	value bool
}

type dsState struct {
	enabled, enabledSet bool
	auto, autoSet       bool
	fms, fmsSet         bool
}

// restrictToMode reports whether st satisfies cfg's gates. A gated
// field that has never been recorded yet (unset) is treated as failing
// the gate — a window only opens once the log actually shows the state
// the gate requires.
func restrictToMode(cfg Config, st dsState) bool {
	if cfg.Enabled {
		if !st.enabledSet || !st.enabled {
			return false
		}
	}
	if cfg.FMSAttached {
		if !st.fmsSet || !st.fms {
			return false
		}
	}
	switch cfg.RobotMode {
	case ModeAuto:
		if !st.autoSet || !st.auto {
			return false
		}
	case ModeTeleop:
		if !st.autoSet || st.auto {
			return false
		}
	}
	return true
}

// EligibleWindows walks the mandatory DriverStation booleans in
// timestamp order and returns the merged windows during which cfg's
// gates hold. A Config with no gating configured (Enabled=false,
// FMSAttached=false, RobotMode is "" or "both") returns a single window
// spanning the whole log.
func EligibleWindows(l *fieldstore.Log, cfg Config) []Window {
	_, lastTs := l.GetTimestampRange()
	negInf := math.Inf(-1)

	var events []dsEvent
	collect := func(key string, field int) {
		samples, ok := l.GetBoolean(key, negInf, lastTs)
		if !ok {
			return
		}
		for _, s := range samples {
			events = append(events, dsEvent{ts: s.Timestamp, field: field, value: s.Bool})
		}
	}
	collect("/DriverStation/Enabled", 0)
	collect("/DriverStation/Autonomous", 1)
	collect("/DriverStation/FMSAttached", 2)
	sort.SliceStable(events, func(i, j int) bool { return events[i].ts < events[j].ts })

	var st dsState
	var windows []Window
	open := restrictToMode(cfg, st)
	openStart := negInf

	for _, e := range events {
		switch e.field {
		case 0:
			st.enabled, st.enabledSet = e.value, true
		case 1:
			st.auto, st.autoSet = e.value, true
		case 2:
			st.fms, st.fmsSet = e.value, true
		}
		now := restrictToMode(cfg, st)
		if now == open {
			continue
		}
		if open {
			windows = append(windows, Window{openStart, e.ts})
		} else {
			openStart = e.ts
		}
		open = now
	}
	if open {
		windows = append(windows, Window{openStart, lastTs})
	}
	return windows
}

func inWindows(ts float64, windows []Window) bool {
	for _, w := range windows {
		if ts >= w.Start && ts <= w.End {
			return true
		}
	}
	return false
}

// FilterIntervals keeps the IntervalResults whose StartTimestamp falls
// in one of windows.
func FilterIntervals(results []IntervalResult, windows []Window) []IntervalResult {
	out := make([]IntervalResult, 0, len(results))
	for _, r := range results {
		if inWindows(r.StartTimestamp, windows) {
			out = append(out, r)
		}
	}
	return out
}

// FilterTriggered keeps the TriggeredResults whose Timestamp falls in
// one of windows.
func FilterTriggered(results []TriggeredResult, windows []Window) []TriggeredResult {
	out := make([]TriggeredResult, 0, len(results))
	for _, r := range results {
		if inWindows(r.Timestamp, windows) {
			out = append(out, r)
		}
	}
	return out
}
