// Copyright (c) FIRST and other WPILib contributors.
// Open Source Software; you can modify and/or share it under the terms of
// the WPILib BSD license file in the root directory of this project.

package fieldstore

import "sort"

// CreateBlankField registers key as a field of type t if it does not
// already exist. A no-op otherwise.
func (l *Log) CreateBlankField(key string, t LoggableType) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.fields[key]; ok {
		return
	}
	l.fields[key] = &LogField{Type: t}
}

// DeleteField removes key and forgets its generated-parent status.
func (l *Log) DeleteField(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.fields, key)
	delete(l.generatedParents, key)
}

func (l *Log) putSample(key string, t LoggableType, s Sample) {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, ok := l.fields[key]
	if !ok {
		f = &LogField{Type: t}
		l.fields[key] = f
	} else if f.Type != t {
		f.TypeWarning = true
		return
	}

	f.Samples = insertSample(f.Samples, s)
	l.updateRange(s.Timestamp)
}

// insertSample inserts s into samples keeping timestamps non-decreasing,
// appending directly when s is at or after the last sample (the common
// case for in-order ingestion) and otherwise inserting at the first
// position whose timestamp exceeds s.Timestamp — which keeps insertion
// order among equal timestamps (a stable tie-break).
func insertSample(samples []Sample, s Sample) []Sample {
	n := len(samples)
	if n == 0 || s.Timestamp >= samples[n-1].Timestamp {
		return append(samples, s)
	}
	idx := sort.Search(n, func(i int) bool { return samples[i].Timestamp > s.Timestamp })
	samples = append(samples, Sample{})
	copy(samples[idx+1:], samples[idx:])
	samples[idx] = s
	return samples
}

func (l *Log) updateRange(ts float64) {
	if !l.hasRange {
		l.hasRange = true
		l.rangeStart, l.rangeEnd = ts, ts
		return
	}
	if ts < l.rangeStart {
		l.rangeStart = ts
	}
	if ts > l.rangeEnd {
		l.rangeEnd = ts
	}
}

func (l *Log) PutBoolean(key string, ts float64, v bool) {
	l.putSample(key, TypeBoolean, Sample{Timestamp: ts, Bool: v})
}

func (l *Log) PutNumber(key string, ts float64, v float64) {
	l.putSample(key, TypeNumber, Sample{Timestamp: ts, Number: v})
}

func (l *Log) PutString(key string, ts float64, v string) {
	l.putSample(key, TypeString, Sample{Timestamp: ts, Str: v})
}

func (l *Log) PutRaw(key string, ts float64, v []byte) {
	l.putSample(key, TypeRaw, Sample{Timestamp: ts, Raw: v})
}

func (l *Log) PutBooleanArray(key string, ts float64, v []bool) {
	l.putSample(key, TypeBooleanArray, Sample{Timestamp: ts, BoolArr: v})
}

func (l *Log) PutNumberArray(key string, ts float64, v []float64) {
	l.putSample(key, TypeNumberArray, Sample{Timestamp: ts, NumArr: v})
}

func (l *Log) PutStringArray(key string, ts float64, v []string) {
	l.putSample(key, TypeStringArray, Sample{Timestamp: ts, StrArr: v})
}

// GetRange returns the samples of key with start < timestamp ≤ end, in
// stored order, along with the field's type. ok is false iff key is
// absent; an existing field with no samples in range returns an empty,
// non-nil slice.
func (l *Log) GetRange(key string, start, end float64) (samples []Sample, t LoggableType, ok bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, exists := l.fields[key]
	if !exists {
		return nil, TypeEmpty, false
	}
	lo := sort.Search(len(f.Samples), func(i int) bool { return f.Samples[i].Timestamp > start })
	hi := sort.Search(len(f.Samples), func(i int) bool { return f.Samples[i].Timestamp > end })
	out := make([]Sample, hi-lo)
	copy(out, f.Samples[lo:hi])
	return out, f.Type, true
}

func (l *Log) getTyped(key string, start, end float64, want LoggableType) ([]Sample, bool) {
	samples, t, ok := l.GetRange(key, start, end)
	if !ok || t != want {
		return nil, false
	}
	return samples, true
}

func (l *Log) GetBoolean(key string, start, end float64) ([]Sample, bool) {
	return l.getTyped(key, start, end, TypeBoolean)
}

func (l *Log) GetNumber(key string, start, end float64) ([]Sample, bool) {
	return l.getTyped(key, start, end, TypeNumber)
}

func (l *Log) GetString(key string, start, end float64) ([]Sample, bool) {
	return l.getTyped(key, start, end, TypeString)
}

func (l *Log) GetRaw(key string, start, end float64) ([]Sample, bool) {
	return l.getTyped(key, start, end, TypeRaw)
}

func (l *Log) GetBooleanArray(key string, start, end float64) ([]Sample, bool) {
	return l.getTyped(key, start, end, TypeBooleanArray)
}

func (l *Log) GetNumberArray(key string, start, end float64) ([]Sample, bool) {
	return l.getTyped(key, start, end, TypeNumberArray)
}

func (l *Log) GetStringArray(key string, start, end float64) ([]Sample, bool) {
	return l.getTyped(key, start, end, TypeStringArray)
}

// ClearBeforeTime drops samples older than t from every field. If a
// field's most recent sample before t exists, it is kept but rewritten
// to timestamp t, preserving the most-recent-value-at-t semantic rather
// than discarding the state that was current at t.
func (l *Log) ClearBeforeTime(t float64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, f := range l.fields {
		clearFieldBeforeTime(f, t)
	}
	if l.hasRange && l.rangeStart < t {
		l.rangeStart = t
		if l.rangeEnd < l.rangeStart {
			l.rangeEnd = l.rangeStart
		}
	}
}

func clearFieldBeforeTime(f *LogField, t float64) {
	idx := sort.Search(len(f.Samples), func(i int) bool { return f.Samples[i].Timestamp >= t })
	if idx == 0 {
		return
	}
	clamped := f.Samples[idx-1]
	clamped.Timestamp = t
	kept := make([]Sample, 0, len(f.Samples)-idx+1)
	kept = append(kept, clamped)
	kept = append(kept, f.Samples[idx:]...)
	f.Samples = kept
}

// GetTimestamps returns the ascending, deduplicated union of the
// timestamps of keys. When keys has exactly one entry, that field's raw
// timestamp sequence is returned unchanged (no dedup — it is already
// sorted and legitimately may contain duplicates from simultaneous
// inserts).
func (l *Log) GetTimestamps(keys []string) []float64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(keys) == 1 {
		f, ok := l.fields[keys[0]]
		if !ok {
			return nil
		}
		out := make([]float64, len(f.Samples))
		for i, s := range f.Samples {
			out[i] = s.Timestamp
		}
		return out
	}

	seen := make(map[float64]struct{})
	var out []float64
	for _, key := range keys {
		f, ok := l.fields[key]
		if !ok {
			continue
		}
		for _, s := range f.Samples {
			if _, dup := seen[s.Timestamp]; dup {
				continue
			}
			seen[s.Timestamp] = struct{}{}
			out = append(out, s.Timestamp)
		}
	}
	sort.Float64s(out)
	return out
}

// GetTimestampRange returns the tracked min/max of every sample
// timestamp ever inserted, or (0.0, 10.0) if none have been.
func (l *Log) GetTimestampRange() (float64, float64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.hasRange {
		return 0.0, 10.0
	}
	return l.rangeStart, l.rangeEnd
}

func (l *Log) SetStructuredType(key string, s *string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if f, ok := l.fields[key]; ok {
		f.StructuredType = s
	}
}

func (l *Log) GetStructuredType(key string) *string {
	l.mu.Lock()
	defer l.mu.Unlock()
	if f, ok := l.fields[key]; ok {
		return f.StructuredType
	}
	return nil
}

// SetGeneratedParent marks key as the root of a structural expansion,
// so every key strictly nested under it (on a "/" boundary) reports
// IsGenerated.
func (l *Log) SetGeneratedParent(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.generatedParents[key] = struct{}{}
}

// IsGenerated reports whether some strict "/"-bounded ancestor of key is
// a registered generated parent.
func (l *Log) IsGenerated(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.isGeneratedLocked(key)
}

func (l *Log) isGeneratedLocked(key string) bool {
	for parent := range l.generatedParents {
		if isStrictSlashPrefix(parent, key) {
			return true
		}
	}
	return false
}

// isStrictSlashPrefix reports whether prefix is a proper ancestor of key
// on a "/" boundary — "foo" is not a parent of "foobar" even though it
// is a string prefix of it.
func isStrictSlashPrefix(prefix, key string) bool {
	if len(prefix) >= len(key) {
		return false
	}
	if key[:len(prefix)] != prefix {
		return false
	}
	return key[len(prefix)] == '/'
}
