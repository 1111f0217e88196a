// Copyright (c) FIRST and other WPILib contributors.
// Open Source Software; you can modify and/or share it under the terms of
// the WPILib BSD license file in the root directory of this project.

package analysis

import (
	"errors"
	"fmt"
	"math"
)

// ErrNoValues is returned by Calculate when values is empty — there is
// nothing to average, min, max, or bound an outlier against.
var ErrNoValues = errors.New("analysis: no values to calculate over")

// ErrUnknownCalculation is returned by Calculate for an unrecognized
// CalculationType.
var ErrUnknownCalculation = errors.New("analysis: unknown calculation type")

// Calculate runs the named reduction over values. average/max/min/count
// are ported directly from the original analysis tool; abs_average,
// abs_max, and abs_min are their natural analogs over |v|; outlier_2std
// counts samples more than two standard deviations from the mean, and
// abs_outlier_2std applies that same count over |v| (§11).
func Calculate(calcType CalculationType, values []float64) (float64, error) {
	if len(values) == 0 {
		return 0, ErrNoValues
	}
	switch calcType {
	case CalcAverage:
		return average(values), nil
	case CalcMax:
		return maxOf(values), nil
	case CalcMin:
		return minOf(values), nil
	case CalcCount:
		return float64(len(values)), nil
	case CalcAbsAverage:
		return average(absValues(values)), nil
	case CalcAbsMax:
		return maxOf(absValues(values)), nil
	case CalcAbsMin:
		return minOf(absValues(values)), nil
	case CalcOutlier2Std:
		return float64(countOutliers(values, 2)), nil
	case CalcAbsOutlier2Std:
		return float64(countOutliers(absValues(values), 2)), nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownCalculation, calcType)
	}
}

func average(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func maxOf(values []float64) float64 {
	m := values[0]
	for _, v := range values[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

func minOf(values []float64) float64 {
	m := values[0]
	for _, v := range values[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

func absValues(values []float64) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = math.Abs(v)
	}
	return out
}

// countOutliers counts samples whose distance from the mean exceeds k
// standard deviations. A degenerate (zero-variance) sample set has no
// outliers.
func countOutliers(values []float64, k float64) int {
	mean := average(values)
	var sumSq float64
	for _, v := range values {
		d := v - mean
		sumSq += d * d
	}
	stddev := math.Sqrt(sumSq / float64(len(values)))
	if stddev == 0 {
		return 0
	}
	count := 0
	for _, v := range values {
		if math.Abs(v-mean) > k*stddev {
			count++
		}
	}
	return count
}
