// Copyright (c) FIRST and other WPILib contributors.
// Open Source Software; you can modify and/or share it under the terms of
// the WPILib BSD license file in the root directory of this project.

package analysis

import (
	"errors"
	"math"

	"github.com/HuskieRobotics/log-analyzer/internal/fieldstore"
)

// ErrUnsupportedFieldType is returned when a query names a field whose
// type is not one of Boolean, Number, or String, or a field that was
// never recorded at all (§4.7).
var ErrUnsupportedFieldType = errors.New("analysis: field type must be Boolean, Number, or String")

// IntervalResult is one cycle found by Interval: the timestamp at which
// the start event fired and the time until the matching end event.
type IntervalResult struct {
	StartTimestamp float64
	Duration       float64
}

// TriggeredResult is one captured value found by TriggeredSampling: the
// timestamp of the triggering event and the most recent value of the
// sampled entry as of that timestamp.
type TriggeredResult struct {
	Timestamp float64
	Value     any // bool, float64, or string
}

func supportedType(t fieldstore.LoggableType) bool {
	return t == fieldstore.TypeBoolean || t == fieldstore.TypeNumber || t == fieldstore.TypeString
}

func sampleValue(s fieldstore.Sample, t fieldstore.LoggableType) any {
	switch t {
	case fieldstore.TypeBoolean:
		return s.Bool
	case fieldstore.TypeNumber:
		return s.Number
	case fieldstore.TypeString:
		return s.Str
	default:
		return nil
	}
}

func valueEquals(want any, t fieldstore.LoggableType, s fieldstore.Sample) bool {
	switch t {
	case fieldstore.TypeBoolean:
		b, ok := want.(bool)
		return ok && b == s.Bool
	case fieldstore.TypeNumber:
		switch v := want.(type) {
		case float64:
			return v == s.Number
		case int:
			return float64(v) == s.Number
		}
		return false
	case fieldstore.TypeString:
		str, ok := want.(string)
		return ok && str == s.Str
	default:
		return false
	}
}

// Interval runs the cycle-time query described in spec §4.7: every
// sample of startKey matching startValue opens a window that runs until
// the next startValue match (or the log's last timestamp, if there is
// no next match); the first sample of endKey matching endValue inside
// that window yields one IntervalResult. Windows with no matching end
// sample are skipped.
func Interval(l *fieldstore.Log, startKey string, startValue any, endKey string, endValue any) ([]IntervalResult, error) {
	_, lastTs := l.GetTimestampRange()
	negInf := math.Inf(-1)

	startSamples, startType, ok := l.GetRange(startKey, negInf, lastTs)
	if !ok || !supportedType(startType) {
		return nil, ErrUnsupportedFieldType
	}
	_, endType, ok := l.GetRange(endKey, negInf, lastTs)
	if !ok || !supportedType(endType) {
		return nil, ErrUnsupportedFieldType
	}

	var results []IntervalResult
	for i, s := range startSamples {
		if !valueEquals(startValue, startType, s) {
			continue
		}

		windowEnd := lastTs
		for _, next := range startSamples[i+1:] {
			if valueEquals(startValue, startType, next) {
				windowEnd = next.Timestamp
				break
			}
		}

		endSamples, _, _ := l.GetRange(endKey, s.Timestamp, windowEnd)
		for _, e := range endSamples {
			if valueEquals(endValue, endType, e) {
				results = append(results, IntervalResult{
					StartTimestamp: s.Timestamp,
					Duration:       e.Timestamp - s.Timestamp,
				})
				break
			}
		}
	}
	return results, nil
}

// TriggeredSampling runs the triggered-sampling query described in spec
// §4.7: every sample of triggerKey matching triggerValue captures the
// most recent sample of entryKey strictly after the previous trigger
// (or the start of the log, for the first trigger) up to and including
// the trigger's own timestamp. prevTriggerTs advances on every trigger
// match regardless of whether a value was captured.
func TriggeredSampling(l *fieldstore.Log, entryKey, triggerKey string, triggerValue any) ([]TriggeredResult, error) {
	_, lastTs := l.GetTimestampRange()
	negInf := math.Inf(-1)

	triggerSamples, triggerType, ok := l.GetRange(triggerKey, negInf, lastTs)
	if !ok || !supportedType(triggerType) {
		return nil, ErrUnsupportedFieldType
	}
	_, entryType, ok := l.GetRange(entryKey, negInf, lastTs)
	if !ok || !supportedType(entryType) {
		return nil, ErrUnsupportedFieldType
	}

	var results []TriggeredResult
	prevTriggerTs := negInf
	for _, trig := range triggerSamples {
		if !valueEquals(triggerValue, triggerType, trig) {
			continue
		}

		entrySamples, _, _ := l.GetRange(entryKey, prevTriggerTs, trig.Timestamp)
		if len(entrySamples) > 0 {
			last := entrySamples[len(entrySamples)-1]
			results = append(results, TriggeredResult{
				Timestamp: trig.Timestamp,
				Value:     sampleValue(last, entryType),
			})
		}
		prevTriggerTs = trig.Timestamp
	}
	return results, nil
}

// NumericValues extracts the Number-typed captures from a triggered
// sampling result, discarding Boolean/String captures — calculations
// operate on numbers only.
func NumericValues(results []TriggeredResult) []float64 {
	out := make([]float64, 0, len(results))
	for _, r := range results {
		if v, ok := r.Value.(float64); ok {
			out = append(out, v)
		}
	}
	return out
}

// Durations extracts the cycle durations from an interval query result.
func Durations(results []IntervalResult) []float64 {
	out := make([]float64, len(results))
	for i, r := range results {
		out[i] = r.Duration
	}
	return out
}
