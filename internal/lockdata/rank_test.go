package lockdata

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newConsolidated builds a consolidated store directly from records.
func newConsolidated(records ...*ConsolidatedRecord) *Consolidated {
	c := &Consolidated{records: make(map[CalledFromKey]*ConsolidatedRecord)}
	for _, record := range records {
		c.records[record.CalledFrom] = record
	}
	return c
}

func TestRankDescendingPerCriterion(t *testing.T) {
	var records []*ConsolidatedRecord
	for i := 0; i < 5; i++ {
		v := int64(i * 7)
		records = append(records, &ConsolidatedRecord{
			CalledFrom: CalledFromKey(fmt.Sprintf("caller%d+1:", i)),
			Metrics: MetricVector{
				AcqAvg: v + 1, AcqMax: v + 2, AcqCount: v + 3,
				HoldAvg: v + 4, HoldMax: v + 5, HoldCount: v + 6,
			},
		})
	}
	for code := 0; code <= 7; code++ {
		criterion, clamped := NormalizeSortCode(code)
		require.False(t, clamped)
		ranked := newConsolidated(records...).Rank(criterion, "", 0)
		require.Len(t, ranked, len(records))
		for i := 1; i < len(ranked); i++ {
			assert.GreaterOrEqual(t, sortKey(ranked[i-1], criterion), sortKey(ranked[i], criterion),
				"criterion %d must order rows non-increasing", code)
		}
	}
}

func TestRankTieBreak(t *testing.T) {
	c := newConsolidated(
		&ConsolidatedRecord{CalledFrom: "zeta+1:", Metrics: MetricVector{AcqAvg: 5, AcqCount: 2}},
		&ConsolidatedRecord{CalledFrom: "alpha+1:", Metrics: MetricVector{AcqAvg: 5, AcqCount: 2}},
		&ConsolidatedRecord{CalledFrom: "mid+1:", Metrics: MetricVector{AcqAvg: 5, AcqCount: 2}},
	)
	ranked := c.Rank(SortAcqTotal, "", 0)
	require.Len(t, ranked, 3)
	assert.Equal(t, CalledFromKey("alpha+1:"), ranked[0].CalledFrom)
	assert.Equal(t, CalledFromKey("mid+1:"), ranked[1].CalledFrom)
	assert.Equal(t, CalledFromKey("zeta+1:"), ranked[2].CalledFrom)
}

func TestRankDerivesTotals(t *testing.T) {
	c := newConsolidated(
		&ConsolidatedRecord{CalledFrom: "foo+1:", Metrics: MetricVector{AcqAvg: 11, AcqCount: 3, HoldAvg: 7, HoldCount: 2}},
	)
	ranked := c.Rank(SortAcqTotal, "", 0)
	require.Len(t, ranked, 1)
	assert.Equal(t, int64(33), ranked[0].Metrics.AcqTotal)
	assert.Equal(t, int64(14), ranked[0].Metrics.HoldTotal)
}

func TestRankCallerFilter(t *testing.T) {
	c := newConsolidated(
		&ConsolidatedRecord{CalledFrom: "foo+10:", Metrics: MetricVector{AcqCount: 1}},
		&ConsolidatedRecord{CalledFrom: "foo+11:", Metrics: MetricVector{AcqCount: 2}},
		&ConsolidatedRecord{CalledFrom: "foobar+10:", Metrics: MetricVector{AcqCount: 3}},
	)
	ranked := c.Rank(SortAcqCount, "foo+10", 0)
	require.Len(t, ranked, 1, "no partial matches pass the filter")
	assert.Equal(t, CalledFromKey("foo+10:"), ranked[0].CalledFrom)
}

func TestRankFilterBeforeTruncation(t *testing.T) {
	c := newConsolidated(
		&ConsolidatedRecord{CalledFrom: "aaa+1:", Metrics: MetricVector{AcqCount: 9}},
		&ConsolidatedRecord{CalledFrom: "bbb+1:", Metrics: MetricVector{AcqCount: 8}},
		&ConsolidatedRecord{CalledFrom: "foo+1:", Metrics: MetricVector{AcqCount: 1}},
	)
	// the filtered record ranks last, so a post-truncation filter would
	// return nothing
	ranked := c.Rank(SortAcqCount, "foo+1", 1)
	require.Len(t, ranked, 1)
	assert.Equal(t, CalledFromKey("foo+1:"), ranked[0].CalledFrom)
}

func TestRankTruncation(t *testing.T) {
	var records []*ConsolidatedRecord
	for i := 0; i < 4; i++ {
		records = append(records, &ConsolidatedRecord{
			CalledFrom: CalledFromKey(fmt.Sprintf("caller%d+1:", i)),
			Metrics:    MetricVector{AcqCount: int64(i)},
		})
	}
	c := newConsolidated(records...)
	assert.Len(t, c.Rank(SortAcqCount, "", 2), 2)
	assert.Len(t, c.Rank(SortAcqCount, "", 10), 4, "limit beyond available count shows all")
	assert.Len(t, c.Rank(SortAcqCount, "", 0), 4, "zero means no limit")
}

func TestNormalizeSortCode(t *testing.T) {
	for code := 0; code <= 7; code++ {
		criterion, clamped := NormalizeSortCode(code)
		assert.False(t, clamped)
		assert.Equal(t, SortCriterion(code), criterion)
	}
	criterion, clamped := NormalizeSortCode(8)
	assert.True(t, clamped)
	assert.Equal(t, DefaultSort, criterion)
	criterion, clamped = NormalizeSortCode(-1)
	assert.True(t, clamped)
	assert.Equal(t, DefaultSort, criterion)
}

// The scenario from the design discussion: two stacks attributed to
// "foo+10", (count=10, avg=100) and (count=30, avg=300), must consolidate
// to count=40, avg=250 and rank as a single row under the average
// criterion.
func TestConsolidateAndRankScenario(t *testing.T) {
	store := NewStore()
	addRecord(store, "mutex_lock+5 foo+10 a+1", "foo+10:", MetricVector{AcqAvg: 100, AcqCount: 10})
	addRecord(store, "mutex_lock+5 foo+10 b+2", "foo+10:", MetricVector{AcqAvg: 300, AcqCount: 30})

	ranked := Consolidate(store).Rank(SortAcqAvg, "foo+10", 0)
	require.Len(t, ranked, 1)
	assert.Equal(t, int64(250), ranked[0].Metrics.AcqAvg)
	assert.Equal(t, int64(40), ranked[0].Metrics.AcqCount)
}
