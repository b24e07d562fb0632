package tracer

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// The session is exercised with cat standing in for bpftrace: it copies the
// script to the data file and exits, which also covers the tracer-already-
// exited path in stopTracer.
func TestSessionRun(t *testing.T) {
	origBinary, origGrace := tracerBinary, startupGrace
	tracerBinary = "cat"
	startupGrace = 10 * time.Millisecond
	defer func() { tracerBinary, startupGrace = origBinary, origGrace }()

	dir := t.TempDir()
	scriptPath := filepath.Join(dir, "lock_tracker.bt")
	if err := os.WriteFile(scriptPath, []byte("#!/usr/bin/env bpftrace\n"), 0755); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	session := Session{
		ScriptPath:   scriptPath,
		DataFilePath: filepath.Join(dir, "lock_data.out"),
		Workload:     "true",
	}
	if err := session.Run(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	content, err := os.ReadFile(session.DataFilePath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(string(content), "bpftrace") {
		t.Errorf("data file missing tracer output: %q", string(content))
	}
}

func TestSessionRunMissingTracer(t *testing.T) {
	origBinary := tracerBinary
	tracerBinary = "no-such-tracer-binary"
	defer func() { tracerBinary = origBinary }()

	session := Session{
		ScriptPath:   "unused",
		DataFilePath: filepath.Join(t.TempDir(), "lock_data.out"),
		Workload:     "true",
	}
	if err := session.Run(); err == nil {
		t.Error("expected error when the tracer binary is missing")
	}
}

func TestSessionRunWorkloadFailureStillCompletes(t *testing.T) {
	origBinary, origGrace := tracerBinary, startupGrace
	tracerBinary = "cat"
	startupGrace = 10 * time.Millisecond
	defer func() { tracerBinary, startupGrace = origBinary, origGrace }()

	dir := t.TempDir()
	scriptPath := filepath.Join(dir, "lock_tracker.bt")
	if err := os.WriteFile(scriptPath, []byte("script\n"), 0755); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	session := Session{
		ScriptPath:   scriptPath,
		DataFilePath: filepath.Join(dir, "lock_data.out"),
		Workload:     "exit 3",
	}
	// a failing workload must not abort the collection
	if err := session.Run(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
