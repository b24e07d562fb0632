package common

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"fmt"
	"log/slog"
	"os"

	"lockprof/internal/lockdata"
	"lockprof/internal/report"
)

// ReduceCommand is the common flow for both commands: parse a completed
// tracer data file, consolidate per caller, rank, and render the report.
// The collect command populates it after running the tracer; the report
// command populates it directly from its flags.
type ReduceCommand struct {
	DataFilePath string
	StackDepth   int
	SortCode     int
	CallerFilter string
	MaxRows      int
	OutputPath   string
}

func (rc *ReduceCommand) Run() error {
	file, err := os.Open(rc.DataFilePath)
	if err != nil {
		return fmt.Errorf("failed to open data file: %w", err)
	}
	defer file.Close()
	store, err := lockdata.ParseReport(file, rc.StackDepth)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", rc.DataFilePath, err)
	}
	consolidated := lockdata.Consolidate(store)
	criterion, clamped := lockdata.NormalizeSortCode(rc.SortCode)
	if clamped {
		fmt.Fprintf(os.Stderr, "invalid sort option %d, defaulting to %d (%s)\n", rc.SortCode, int(criterion), criterion)
		slog.Warn("sort code out of range", slog.Int("requested", rc.SortCode), slog.Int("used", int(criterion)))
	}
	ranked := consolidated.Rank(criterion, rc.CallerFilter, rc.MaxRows)
	if err := report.Write(rc.OutputPath, ranked); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	report.LogSummary(store.Len(), consolidated.Len(), len(ranked))
	return nil
}
