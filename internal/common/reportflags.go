package common

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"fmt"

	"github.com/spf13/cobra"
)

// report flags, shared by the collect and report commands
var (
	FlagStackDepth int
	FlagSortCode   int
	FlagCaller     string
	FlagMaxRows    int
	FlagOutput     string
)

// report flag names
const (
	FlagStackDepthName = "depth"
	FlagSortCodeName   = "sort"
	FlagCallerName     = "caller"
	FlagMaxRowsName    = "rows"
	FlagOutputName     = "output"
)

var reportFlags = []Flag{
	{Name: FlagStackDepthName, Help: "how many stack frames to attribute contention to"},
	{Name: FlagSortCodeName, Help: "sort criterion: 0 # holds, 1 hold max, 2 hold avg, 3 hold total, 4 # ACQs, 5 ACQs max, 6 ACQs avg, 7 ACQs total"},
	{Name: FlagCallerName, Help: "show only stacks where the lock was called from this function"},
	{Name: FlagMaxRowsName, Help: "number of locks to show, 0 shows all"},
	{Name: FlagOutputName, Help: "write the report to this file instead of stdout"},
}

func AddReportFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&FlagStackDepth, FlagStackDepthName, 1, reportFlags[0].Help)
	cmd.Flags().IntVar(&FlagSortCode, FlagSortCodeName, 7, reportFlags[1].Help)
	cmd.Flags().StringVar(&FlagCaller, FlagCallerName, "", reportFlags[2].Help)
	cmd.Flags().IntVar(&FlagMaxRows, FlagMaxRowsName, 0, reportFlags[3].Help)
	cmd.Flags().StringVar(&FlagOutput, FlagOutputName, "", reportFlags[4].Help)
}

func GetReportFlagGroup() FlagGroup {
	return FlagGroup{
		GroupName: "Report Options",
		Flags:     reportFlags,
	}
}

// ValidateReportFlags checks the flags that must be rejected outright. An
// out-of-range sort code is not rejected here; it is clamped to the default
// criterion with a diagnostic when the report is produced.
func ValidateReportFlags(cmd *cobra.Command) error {
	if FlagStackDepth < 1 {
		return fmt.Errorf("--%s must be at least 1", FlagStackDepthName)
	}
	if FlagMaxRows < 0 {
		return fmt.Errorf("--%s must not be negative", FlagMaxRowsName)
	}
	return nil
}
