// Package lockdata holds the per-stack lock contention records parsed from
// the tracer's output and the caller-level consolidation of those records.
package lockdata

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"sort"
	"strings"
)

// frameSeparator terminates each frame in a CalledFromKey. It cannot occur
// in a kernel symbol name.
const frameSeparator = ":"

// StackSignature is the full ordered sequence of call-stack frames that
// identifies one captured call site. Two captures have the same signature
// iff every frame matches exactly.
type StackSignature string

// CalledFromKey is the prefix of a stack signature truncated to the
// configured stack depth, each frame terminated by a separator. It names
// the function(s) blamed for the contention.
type CalledFromKey string

// Frames returns the individual frames of the key.
func (k CalledFromKey) Frames() []string {
	trimmed := strings.TrimSuffix(string(k), frameSeparator)
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, frameSeparator)
}

// Caller returns the first frame of the key trimmed of leading whitespace
// and truncated at the first space. This is the name the caller filter
// matches against.
func (k CalledFromKey) Caller() string {
	frames := k.Frames()
	if len(frames) == 0 {
		return ""
	}
	caller := strings.TrimLeft(frames[0], " \t")
	if idx := strings.IndexByte(caller, ' '); idx != -1 {
		caller = caller[:idx]
	}
	return caller
}

// newKeys builds the signature and called-from key for one captured stack.
// frames[0] is the lock primitive itself; the called-from key starts at the
// first frame below it and extends at most sdepth frames.
func newKeys(frames []string, sdepth int) (StackSignature, CalledFromKey) {
	sig := StackSignature(strings.Join(frames, " "))
	end := min(1+sdepth, len(frames))
	var sb strings.Builder
	for _, frame := range frames[1:end] {
		sb.WriteString(frame)
		sb.WriteString(frameSeparator)
	}
	return sig, CalledFromKey(sb.String())
}

// Section identifies one of the six metric sections of the tracer output,
// in file order.
type Section int

const (
	SectionAcqAvg Section = iota
	SectionAcqMax
	SectionAcqCount
	SectionHoldAvg
	SectionHoldMax
	SectionHoldCount
	NumSections
)

func (s Section) String() string {
	switch s {
	case SectionAcqAvg:
		return "acquire avg"
	case SectionAcqMax:
		return "acquire max"
	case SectionAcqCount:
		return "acquire count"
	case SectionHoldAvg:
		return "hold avg"
	case SectionHoldMax:
		return "hold max"
	case SectionHoldCount:
		return "hold count"
	}
	return "unknown"
}

// MetricVector holds the eight per-record metrics in nanoseconds or counts.
// The totals are derived (avg * count) once before ranking, never
// accumulated incrementally.
type MetricVector struct {
	AcqAvg    int64
	AcqMax    int64
	AcqCount  int64
	AcqTotal  int64
	HoldAvg   int64
	HoldMax   int64
	HoldCount int64
	HoldTotal int64
}

// accumulate adds a section's measured value into its field. A fresh record
// starts zeroed, so the first accumulate acts as an assignment; repeated
// values for the same signature within one section sum.
func (m *MetricVector) accumulate(section Section, value int64) {
	switch section {
	case SectionAcqAvg:
		m.AcqAvg += value
	case SectionAcqMax:
		m.AcqMax += value
	case SectionAcqCount:
		m.AcqCount += value
	case SectionHoldAvg:
		m.HoldAvg += value
	case SectionHoldMax:
		m.HoldMax += value
	case SectionHoldCount:
		m.HoldCount += value
	}
}

// deriveTotals recomputes the acquisition and hold totals from the current
// average and count.
func (m *MetricVector) deriveTotals() {
	m.AcqTotal = m.AcqAvg * m.AcqCount
	m.HoldTotal = m.HoldAvg * m.HoldCount
}

// StackRecord is the metrics for one unique stack signature.
type StackRecord struct {
	Signature  StackSignature
	CalledFrom CalledFromKey
	Metrics    MetricVector
}

// Store is the dictionary of per-stack records, one per unique signature.
// Records are inserted during parsing and never deleted.
type Store struct {
	records map[StackSignature]*StackRecord
}

func NewStore() *Store {
	return &Store{records: make(map[StackSignature]*StackRecord)}
}

// resolve returns the record for the signature, creating it if absent.
func (s *Store) resolve(sig StackSignature, calledFrom CalledFromKey) *StackRecord {
	if record, ok := s.records[sig]; ok {
		return record
	}
	record := &StackRecord{Signature: sig, CalledFrom: calledFrom}
	s.records[sig] = record
	return record
}

// Lookup returns the record for the signature, or nil.
func (s *Store) Lookup(sig StackSignature) *StackRecord {
	return s.records[sig]
}

// Len returns the number of unique stack signatures in the store.
func (s *Store) Len() int {
	return len(s.records)
}

// Records returns all records in ascending signature order so that
// downstream folding visits them deterministically.
func (s *Store) Records() []*StackRecord {
	records := make([]*StackRecord, 0, len(s.records))
	for _, record := range s.records {
		records = append(records, record)
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].Signature < records[j].Signature
	})
	return records
}
