package lockdata

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

// ConsolidatedRecord is the summary of all stack records sharing one
// called-from key.
type ConsolidatedRecord struct {
	CalledFrom CalledFromKey
	Metrics    MetricVector
}

// Consolidated is the dictionary of consolidated records, one per unique
// called-from key. It is rebuilt fresh for each run.
type Consolidated struct {
	records map[CalledFromKey]*ConsolidatedRecord
}

// Consolidate folds the per-stack store into per-caller records. Records
// are visited in ascending signature order and the weighted running average
// is truncated at each fold step, so results are deterministic.
func Consolidate(store *Store) *Consolidated {
	c := &Consolidated{records: make(map[CalledFromKey]*ConsolidatedRecord)}
	for _, record := range store.Records() {
		entry, ok := c.records[record.CalledFrom]
		if !ok {
			entry = &ConsolidatedRecord{CalledFrom: record.CalledFrom}
			c.records[record.CalledFrom] = entry
		}
		mergeFamily(&entry.Metrics.AcqAvg, &entry.Metrics.AcqMax, &entry.Metrics.AcqCount,
			record.Metrics.AcqAvg, record.Metrics.AcqMax, record.Metrics.AcqCount)
		mergeFamily(&entry.Metrics.HoldAvg, &entry.Metrics.HoldMax, &entry.Metrics.HoldCount,
			record.Metrics.HoldAvg, record.Metrics.HoldMax, record.Metrics.HoldCount)
	}
	return c
}

// mergeFamily folds one metric family (acquisition or hold) of an incoming
// record into the consolidated entry: count sums, average is the weighted
// running average with integer truncation, max is the larger of the two.
// A zero merged count leaves the average untouched.
func mergeFamily(avg, max, count *int64, inAvg, inMax, inCount int64) {
	weighted := *avg**count + inAvg*inCount
	*count += inCount
	if *count > 0 {
		*avg = weighted / *count
	}
	if inMax > *max {
		*max = inMax
	}
}

// Len returns the number of unique called-from keys.
func (c *Consolidated) Len() int {
	return len(c.records)
}

// Lookup returns the consolidated record for the key, or nil.
func (c *Consolidated) Lookup(key CalledFromKey) *ConsolidatedRecord {
	return c.records[key]
}
