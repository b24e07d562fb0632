// Package collect is a subcommand of the root command. It traces kernel lock
// acquisition and hold times while a workload runs, then reports the call
// sites contending for the lock.
package collect

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"lockprof/internal/common"
	"lockprof/internal/progress"
	"lockprof/internal/script"
	"lockprof/internal/tracer"
	"lockprof/internal/util"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const cmdName = "collect"

var examples = []string{
	fmt.Sprintf("  Trace mutex contention under a workload:   $ %s %s --cmd 'make -j8'", common.AppName, cmdName),
	fmt.Sprintf("  Trace read-side rwsem contention:          $ %s %s --lock rwsem-read --cmd ./stress", common.AppName, cmdName),
	fmt.Sprintf("  Keep the raw data file for later reports:  $ %s %s --cmd ./stress --file ./lock_data.out", common.AppName, cmdName),
}

var Cmd = &cobra.Command{
	Use:           cmdName,
	Short:         "Trace kernel lock contention while a workload runs",
	Long:          "",
	Example:       strings.Join(examples, "\n"),
	RunE:          runCmd,
	PreRunE:       validateFlags,
	GroupID:       "primary",
	Args:          cobra.NoArgs,
	SilenceErrors: true,
}

var (
	flagWorkload string
	flagLock     string
	flagProbes   string
	flagDataFile string
)

const (
	flagWorkloadName = "cmd"
	flagLockName     = "lock"
	flagProbesName   = "probes"
	flagDataFileName = "file"
)

func init() {
	Cmd.Flags().StringVar(&flagWorkload, flagWorkloadName, "", "")
	Cmd.Flags().StringVar(&flagLock, flagLockName, "mutex", "")
	Cmd.Flags().StringVar(&flagProbes, flagProbesName, "", "")
	Cmd.Flags().StringVar(&flagDataFile, flagDataFileName, "", "")

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
			Name: flagWorkloadName,
			Help: "workload to run while tracing, e.g., 'make -j8'",
		},
		{
			Name: flagLockName,
			Help: "lock primitive to trace, one of the names in the probe catalog",
		},
		{
			Name: flagProbesName,
			Help: "path to a YAML probe catalog, overrides the built-in catalog",
		},
		{
			Name: flagDataFileName,
			Help: "where to write the raw tracer data, defaults to the temporary directory",
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
	if flagWorkload == "" {
		return common.FlagValidationError(cmd, fmt.Sprintf("--%s is required", flagWorkloadName))
	}
	if flagProbes != "" && !util.FileOrDirectoryExists(flagProbes) {
		return common.FlagValidationError(cmd, fmt.Sprintf("probe catalog %s does not exist", flagProbes))
	}
	if err := common.ValidateReportFlags(cmd); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

func runCmd(cmd *cobra.Command, args []string) error {
	appContext := cmd.Parent().Context().Value(common.AppContext{}).(common.AppContext)
	localTempDir := appContext.LocalTempDir
	probes, err := common.LoadProbes(flagProbes)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	probe, err := common.ProbeByName(probes, flagLock)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	scriptPath, err := script.Create(localTempDir, script.Params{
		Primitive:    probe.Name,
		AcquireProbe: probe.Acquire,
		ReleaseProbe: probe.Release,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	dataFilePath := flagDataFile
	if dataFilePath == "" {
		dataFilePath = filepath.Join(localTempDir, "lock_data.out")
	} else {
		if dataFilePath, err = util.AbsPath(dataFilePath); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return err
		}
	}
	session := tracer.Session{
		ScriptPath:   scriptPath,
		DataFilePath: dataFilePath,
		Workload:     flagWorkload,
	}
	spinner := progress.NewSpinner(common.AppName)
	spinner.Start()
	spinner.Status(fmt.Sprintf("tracing %s contention, Ctrl-C to stop the workload early", probe.Name))
	err = session.Run()
	if err != nil {
		spinner.Finish()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	spinner.Status("reducing collected data")
	spinner.Finish()
	reduceCommand := common.ReduceCommand{
		DataFilePath: dataFilePath,
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
