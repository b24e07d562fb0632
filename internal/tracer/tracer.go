// Package tracer runs the bpftrace tracer and the target workload as child
// processes and guarantees the tracer is stopped exactly once so that it
// flushes its report before the data file is handed to the parser.
package tracer

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"log/slog"
	"os"
	"os/exec"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
)

var (
	tracerBinary = "bpftrace"
	// startupGrace gives the tracer time to attach its probes before the
	// workload starts.
	startupGrace = 5 * time.Second
)

// Session describes one collection run.
type Session struct {
	ScriptPath   string // path to the generated tracer script
	DataFilePath string // where the tracer's report is written
	Workload     string // shell command to run under observation
}

// Run starts the tracer with its stdout redirected to the data file, runs
// the workload to completion or interruption, then stops the tracer and
// waits for it to flush. On return the data file is complete and closed.
func (s *Session) Run() error {
	tracerPath, err := exec.LookPath(tracerBinary)
	if err != nil {
		return errors.Wrapf(err, "%s not found in PATH", tracerBinary)
	}
	dataFile, err := os.Create(s.DataFilePath) // #nosec G304
	if err != nil {
		return errors.Wrapf(err, "failed to create data file %s", s.DataFilePath)
	}
	// The tracer runs in its own process group so that a Ctrl-C in the
	// terminal is not delivered to it by the shell; this process stops the
	// tracer itself, exactly once, after the workload is done.
	tracerCmd := exec.Command(tracerPath, s.ScriptPath) // #nosec G204
	tracerCmd.Stdout = dataFile
	tracerCmd.Stderr = os.Stderr
	tracerCmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	if err := tracerCmd.Start(); err != nil {
		dataFile.Close()
		return errors.Wrap(err, "failed to start tracer")
	}
	slog.Info("tracer started", slog.Int("pid", tracerCmd.Process.Pid), slog.String("script", s.ScriptPath))
	time.Sleep(startupGrace)

	workloadErr := s.runWorkload()
	if workloadErr != nil {
		// the tracer still holds usable data, report and continue
		slog.Warn("workload did not complete cleanly", slog.String("error", workloadErr.Error()))
	}
	if err := s.stopTracer(tracerCmd); err != nil {
		dataFile.Close()
		return err
	}
	if err := dataFile.Close(); err != nil {
		return errors.Wrapf(err, "failed to close data file %s", s.DataFilePath)
	}
	slog.Info("tracer data complete", slog.String("file", s.DataFilePath))
	return nil
}

// runWorkload runs the workload command and waits for it to finish. An
// interrupt to this process is forwarded to the workload once; the workload
// is then waited on so the tracer observes its full lifetime.
func (s *Session) runWorkload() error {
	workloadCmd := exec.Command("bash", "-c", s.Workload) // #nosec G204
	workloadCmd.Stdout = os.Stdout
	workloadCmd.Stderr = os.Stderr
	workloadCmd.Stdin = os.Stdin
	if err := workloadCmd.Start(); err != nil {
		return errors.Wrap(err, "failed to start workload")
	}
	slog.Info("workload started", slog.Int("pid", workloadCmd.Process.Pid), slog.String("command", s.Workload))

	sigChannel := make(chan os.Signal, 1)
	signal.Notify(sigChannel, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChannel)
	waitChannel := make(chan error, 1)
	go func() { waitChannel <- workloadCmd.Wait() }()
	select {
	case sig := <-sigChannel:
		slog.Info("received signal, interrupting workload", slog.String("signal", sig.String()))
		if err := workloadCmd.Process.Signal(syscall.SIGINT); err != nil && !errors.Is(err, os.ErrProcessDone) {
			slog.Error("failed to signal workload", slog.String("error", err.Error()))
		}
		return <-waitChannel
	case err := <-waitChannel:
		return err
	}
}

// stopTracer interrupts the tracer so its END block prints the report, then
// waits for it to exit. A tracer that already exited is not an error here;
// the parser decides whether the data file is usable.
func (s *Session) stopTracer(tracerCmd *exec.Cmd) error {
	slog.Info("stopping tracer", slog.Int("pid", tracerCmd.Process.Pid))
	if err := tracerCmd.Process.Signal(syscall.SIGINT); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return errors.Wrap(err, "failed to interrupt tracer")
	}
	if err := tracerCmd.Wait(); err != nil {
		slog.Warn("tracer exited with error", slog.String("error", err.Error()))
	}
	return nil
}
