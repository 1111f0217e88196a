// Copyright (c) FIRST and other WPILib contributors.
// Open Source Software; you can modify and/or share it under the terms of
// the WPILib BSD license file in the root directory of this project.

// Package analysis implements the Range Analysis Primitives (C7) — the
// interval and triggered-sampling queries — plus the named calculations
// and robotMode gating driven by the analysis JSON configuration
// (spec §6.3, §4.7).
package analysis

// CalculationType names one of the nine supported reductions over a
// set of captured numeric values.
type CalculationType string

const (
	CalcAverage        CalculationType = "average"
	CalcMax            CalculationType = "max"
	CalcMin            CalculationType = "min"
	CalcCount          CalculationType = "count"
	CalcAbsAverage     CalculationType = "abs_average"
	CalcAbsMax         CalculationType = "abs_max"
	CalcAbsMin         CalculationType = "abs_min"
	CalcOutlier2Std    CalculationType = "outlier_2std"
	CalcAbsOutlier2Std CalculationType = "abs_outlier_2std"
)

// CalculationConfig names one calculation to run and a label for it.
type CalculationConfig struct {
	Type CalculationType `json:"type"`
	Name string          `json:"name"`
}

// TimeAnalysisConfig describes one interval query: the cycle time
// between a start event and the first matching end event.
type TimeAnalysisConfig struct {
	StartEntry   string              `json:"startEntry"`
	StartValue   any                 `json:"startValue"`
	EndEntry     string              `json:"endEntry"`
	EndValue     any                 `json:"endValue"`
	Calculations []CalculationConfig `json:"calculations"`
}

// ValueAnalysisConfig describes one triggered-sampling query: the most
// recent value of entry whenever triggerEntry takes triggerValue.
type ValueAnalysisConfig struct {
	Entry        string              `json:"entry"`
	TriggerEntry string              `json:"triggerEntry"`
	TriggerValue any                 `json:"triggerValue"`
	Calculations []CalculationConfig `json:"calculations"`
}

// RobotMode gates analysis to a portion of the match based on the
// /DriverStation/Autonomous field.
type RobotMode string

const (
	ModeAuto   RobotMode = "auto"
	ModeTeleop RobotMode = "teleop"
	ModeBoth   RobotMode = "both"
)

// Config is the root analysis configuration (spec §6.3).
type Config struct {
	Enabled       bool                  `json:"enabled"`
	FMSAttached   bool                  `json:"fmsAttached"`
	RobotMode     RobotMode             `json:"robotMode"`
	TimeAnalysis  []TimeAnalysisConfig  `json:"timeAnalysis"`
	ValueAnalysis []ValueAnalysisConfig `json:"valueAnalysis"`
}

// MandatoryEntries are captured regardless of Config content (§6.3).
var MandatoryEntries = []string{
	"/DriverStation/Enabled",
	"/DriverStation/Autonomous",
	"/DriverStation/FMSAttached",
}
