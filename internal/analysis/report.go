// Copyright (c) FIRST and other WPILib contributors.
// Open Source Software; you can modify and/or share it under the terms of
// the WPILib BSD license file in the root directory of this project.

package analysis

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/HuskieRobotics/log-analyzer/internal/fieldstore"
	"github.com/HuskieRobotics/log-analyzer/pkg/log"
)

// CalculationResult is one named calculation's outcome over a config's
// captured values.
type CalculationResult struct {
	Name  string
	Value float64
	Err   error
}

// ConfigResult is everything computed for one TimeAnalysisConfig or
// ValueAnalysisConfig entry.
type ConfigResult struct {
	Label        string
	SampleCount  int
	Calculations []CalculationResult
}

// Report is the full output of running a Config against an
// already-ingested log.
type Report struct {
	TimeResults  []ConfigResult
	ValueResults []ConfigResult
}

// Run executes every configured interval and triggered-sampling query
// against l and reduces each with its named calculations. Per-config
// batches run concurrently via errgroup since the field store is
// read-only by the time Run is called (§5) — ingestion itself stays
// single-threaded.
func Run(ctx context.Context, l *fieldstore.Log, cfg Config) (Report, error) {
	windows := EligibleWindows(l, cfg)

	timeResults := make([]ConfigResult, len(cfg.TimeAnalysis))
	g, _ := errgroup.WithContext(ctx)
	for i, tc := range cfg.TimeAnalysis {
		i, tc := i, tc
		g.Go(func() error {
			results, err := Interval(l, tc.StartEntry, tc.StartValue, tc.EndEntry, tc.EndValue)
			if err != nil {
				log.Warnf("[ANALYSIS]> time analysis %q: %s", tc.StartEntry, err)
				timeResults[i] = ConfigResult{Label: tc.StartEntry}
				return nil
			}
			results = FilterIntervals(results, windows)
			values := Durations(results)
			timeResults[i] = ConfigResult{
				Label:        tc.StartEntry,
				SampleCount:  len(values),
				Calculations: runCalculations(tc.Calculations, values),
			}
			return nil
		})
	}

	valueResults := make([]ConfigResult, len(cfg.ValueAnalysis))
	for i, vc := range cfg.ValueAnalysis {
		i, vc := i, vc
		g.Go(func() error {
			results, err := TriggeredSampling(l, vc.Entry, vc.TriggerEntry, vc.TriggerValue)
			if err != nil {
				log.Warnf("[ANALYSIS]> value analysis %q: %s", vc.Entry, err)
				valueResults[i] = ConfigResult{Label: vc.Entry}
				return nil
			}
			results = FilterTriggered(results, windows)
			values := NumericValues(results)
			valueResults[i] = ConfigResult{
				Label:        vc.Entry,
				SampleCount:  len(values),
				Calculations: runCalculations(vc.Calculations, values),
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return Report{}, err
	}
	return Report{TimeResults: timeResults, ValueResults: valueResults}, nil
}

func runCalculations(configs []CalculationConfig, values []float64) []CalculationResult {
	out := make([]CalculationResult, len(configs))
	for i, c := range configs {
		v, err := Calculate(c.Type, values)
		out[i] = CalculationResult{Name: c.Name, Value: v, Err: err}
	}
	return out
}
