package lockdata

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import "sort"

// SortCriterion selects which metric a report is ranked by. The numeric
// values are part of the command line interface.
type SortCriterion int

const (
	SortHoldCount SortCriterion = iota
	SortHoldMax
	SortHoldAvg
	SortHoldTotal
	SortAcqCount
	SortAcqMax
	SortAcqAvg
	SortAcqTotal
)

// DefaultSort ranks by total acquisition time (avg * count).
const DefaultSort = SortAcqTotal

func (c SortCriterion) String() string {
	switch c {
	case SortHoldCount:
		return "# holds"
	case SortHoldMax:
		return "hold max"
	case SortHoldAvg:
		return "hold avg"
	case SortHoldTotal:
		return "hold total"
	case SortAcqCount:
		return "# acquisitions"
	case SortAcqMax:
		return "acquisition max"
	case SortAcqAvg:
		return "acquisition avg"
	case SortAcqTotal:
		return "acquisition total"
	}
	return "unknown"
}

// NormalizeSortCode maps an integer sort code to a criterion. Out-of-range
// codes clamp to the default; the second return reports whether clamping
// occurred so the caller can emit a diagnostic.
func NormalizeSortCode(code int) (SortCriterion, bool) {
	if code < int(SortHoldCount) || code > int(SortAcqTotal) {
		return DefaultSort, true
	}
	return SortCriterion(code), false
}

// sortKey returns the ranking value of a record under the criterion.
func sortKey(record *ConsolidatedRecord, criterion SortCriterion) int64 {
	switch criterion {
	case SortHoldCount:
		return record.Metrics.HoldCount
	case SortHoldMax:
		return record.Metrics.HoldMax
	case SortHoldAvg:
		return record.Metrics.HoldAvg
	case SortHoldTotal:
		return record.Metrics.HoldTotal
	case SortAcqCount:
		return record.Metrics.AcqCount
	case SortAcqMax:
		return record.Metrics.AcqMax
	case SortAcqAvg:
		return record.Metrics.AcqAvg
	default:
		return record.Metrics.AcqTotal
	}
}

// Rank derives the total-time metrics, sorts descending by the criterion,
// optionally retains only records whose caller matches the filter exactly,
// and truncates to at most maxRows records. maxRows <= 0 means no limit.
// Ties sort by ascending called-from key so output is deterministic.
func (c *Consolidated) Rank(criterion SortCriterion, callerFilter string, maxRows int) []*ConsolidatedRecord {
	ranked := make([]*ConsolidatedRecord, 0, len(c.records))
	for _, record := range c.records {
		record.Metrics.deriveTotals()
		if callerFilter != "" && record.CalledFrom.Caller() != callerFilter {
			continue
		}
		ranked = append(ranked, record)
	}
	sort.Slice(ranked, func(i, j int) bool {
		ki, kj := sortKey(ranked[i], criterion), sortKey(ranked[j], criterion)
		if ki != kj {
			return ki > kj
		}
		return ranked[i].CalledFrom < ranked[j].CalledFrom
	})
	if maxRows > 0 && maxRows < len(ranked) {
		ranked = ranked[:maxRows]
	}
	return ranked
}
