// Package report renders consolidated lock contention records as a
// fixed-width text table.
package report

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"lockprof/internal/lockdata"
)

// Column widths match the original report layout: a 48-character caller
// column followed by six 15-character numeric columns.
const (
	callerWidth = 48
	valueWidth  = 15
)

// Render writes the header and one row per record. Records whose key holds
// more than one frame get each additional frame on an indented continuation
// line beneath the row.
func Render(w io.Writer, records []*lockdata.ConsolidatedRecord) error {
	_, err := fmt.Fprintf(w, "%*s%*s%*s%*s%*s%*s%*s\n",
		callerWidth, "caller",
		valueWidth, "# holds",
		valueWidth, "Hold Max (ns)",
		valueWidth, "Hold Avg (ns)",
		valueWidth, "# ACQs",
		valueWidth, "ACQs Max (ns)",
		valueWidth, "ACQs Avg (ns)")
	if err != nil {
		return err
	}
	for _, record := range records {
		frames := record.CalledFrom.Frames()
		if len(frames) == 0 {
			continue
		}
		m := record.Metrics
		_, err = fmt.Fprintf(w, "%*s%*d%*d%*d%*d%*d%*d\n",
			callerWidth, frames[0],
			valueWidth, m.HoldCount,
			valueWidth, m.HoldMax,
			valueWidth, m.HoldAvg,
			valueWidth, m.AcqCount,
			valueWidth, m.AcqMax,
			valueWidth, m.AcqAvg)
		if err != nil {
			return err
		}
		for _, frame := range frames[1:] {
			if _, err = fmt.Fprintf(w, "%*s\n", callerWidth, frame); err != nil {
				return err
			}
		}
	}
	return nil
}

// Write renders the records to the named file, or to stdout when path is
// empty. A file that cannot be opened for writing is a recoverable error:
// a diagnostic is emitted and the report falls back to stdout.
func Write(path string, records []*lockdata.ConsolidatedRecord) error {
	var w io.Writer = os.Stdout
	if path != "" {
		file, err := os.Create(path) // #nosec G304
		if err != nil {
			fmt.Fprintf(os.Stderr, "opening %s failed, falling back to stdout: %v\n", path, err)
			slog.Warn("falling back to stdout", slog.String("output", path), slog.String("error", err.Error()))
		} else {
			defer file.Close()
			w = file
		}
	}
	return Render(w, records)
}

// LogSummary records the reduction counts in the application log with
// thousands separators for readability.
func LogSummary(uniqueStacks, uniqueCallers, renderedRows int) {
	p := message.NewPrinter(language.English)
	slog.Info("report generated",
		slog.String("unique stacks", p.Sprintf("%d", uniqueStacks)),
		slog.String("unique callers", p.Sprintf("%d", uniqueCallers)),
		slog.String("rows", p.Sprintf("%d", renderedRows)))
}
