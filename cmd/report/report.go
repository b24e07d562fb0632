// Package report is a subcommand of the root command. It re-ranks a
// previously collected tracer data file without running the tracer again.
package report

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"fmt"
	"os"
	"strings"

	"lockprof/internal/common"
	"lockprof/internal/util"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const cmdName = "report"

var examples = []string{
	fmt.Sprintf("  Report from a collected data file:        $ %s %s --input lock_data.out", common.AppName, cmdName),
	fmt.Sprintf("  Rank by maximum hold time, top 20 locks:  $ %s %s --input lock_data.out --sort 1 --rows 20", common.AppName, cmdName),
	fmt.Sprintf("  Attribute contention two frames deep:     $ %s %s --input lock_data.out --depth 2", common.AppName, cmdName),
}

var Cmd = &cobra.Command{
	Use:           cmdName,
	Short:         "Report lock contention from a collected data file",
	Long:          "",
	Example:       strings.Join(examples, "\n"),
	RunE:          runCmd,
	PreRunE:       validateFlags,
	GroupID:       "primary",
	Args:          cobra.NoArgs,
	SilenceErrors: true,
}

var flagInput string

const flagInputName = "input"

func init() {
	Cmd.Flags().StringVar(&flagInput, flagInputName, "", "")

	common.AddReportFlags(Cmd)

	Cmd.SetUsageFunc(usageFunc)
}

func usageFunc(cmd *cobra.Command) error {
	cmd.Printf("Usage: %s [flags]\n\n", cmd.CommandPath())
	cmd.Printf("Examples:\n%s\n\n", cmd.Example)
	cmd.Println("Flags:")
	for _, group := range getFlagGroups() {
		cmd.Printf("  %s:\n", group.GroupName)
		for _, flag := range group.Flags {
			flagDefault := ""
			if cmd.Flags().Lookup(flag.Name).DefValue != "" {
				flagDefault = fmt.Sprintf(" (default: %s)", cmd.Flags().Lookup(flag.Name).DefValue)
			}
			cmd.Printf("    --%-20s %s%s\n", flag.Name, flag.Help, flagDefault)
		}
	}
	cmd.Println("\nGlobal Flags:")
	cmd.Parent().PersistentFlags().VisitAll(func(pf *pflag.Flag) {
		flagDefault := ""
		if cmd.Parent().PersistentFlags().Lookup(pf.Name).DefValue != "" {
			flagDefault = fmt.Sprintf(" (default: %s)", cmd.Flags().Lookup(pf.Name).DefValue)
		}
		cmd.Printf("  --%-20s %s%s\n", pf.Name, pf.Usage, flagDefault)
	})
	return nil
}

func getFlagGroups() []common.FlagGroup {
	var groups []common.FlagGroup
	flags := []common.Flag{
		{
			Name: flagInputName,
			Help: "data file written by a previous collect run",
		},
	}
	groups = append(groups, common.FlagGroup{
		GroupName: "Options",
		Flags:     flags,
	})
	groups = append(groups, common.GetReportFlagGroup())

	return groups
}

func validateFlags(cmd *cobra.Command, args []string) error {
	if flagInput == "" {
		return common.FlagValidationError(cmd, fmt.Sprintf("--%s is required", flagInputName))
	}
	inputPath, err := util.AbsPath(flagInput)
	if err != nil {
		return common.FlagValidationError(cmd, fmt.Sprintf("failed to resolve input path: %v", err))
	}
	exists, err := util.FileExists(inputPath)
	if err != nil {
		return common.FlagValidationError(cmd, err.Error())
	}
	if !exists {
		return common.FlagValidationError(cmd, fmt.Sprintf("input file %s does not exist", inputPath))
	}
	if err := common.ValidateReportFlags(cmd); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

func runCmd(cmd *cobra.Command, args []string) error {
	inputPath, err := util.AbsPath(flagInput)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	reduceCommand := common.ReduceCommand{
		DataFilePath: inputPath,
		StackDepth:   common.FlagStackDepth,
		SortCode:     common.FlagSortCode,
		CallerFilter: common.FlagCaller,
		MaxRows:      common.FlagMaxRows,
		OutputPath:   common.FlagOutput,
	}
	if err := reduceCommand.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}
