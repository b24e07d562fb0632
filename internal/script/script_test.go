package script

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"os"
	"strings"
	"testing"
)

func TestCreateMutexScript(t *testing.T) {
	dir := t.TempDir()
	path, err := Create(dir, Params{
		Primitive:    "mutex",
		AcquireProbe: "mutex_lock",
		ReleaseProbe: "mutex_unlock",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rendered := string(content)
	for _, want := range []string{
		"kprobe:mutex_lock",
		"kretprobe:mutex_lock",
		"kprobe:mutex_unlock",
		"print(@aq_report_avg);",
		"print(@aq_report_max);",
		"print(@aq_report_count);",
		"print(@hl_report_avg);",
		"print(@hl_report_max);",
		"print(@hl_report_count);",
		"mutex acquire averages",
		"mutex hold counts",
	} {
		if !strings.Contains(rendered, want) {
			t.Errorf("rendered script missing %q", want)
		}
	}
	// six section terminators plus the END OF DATA framing
	if got := strings.Count(rendered, "printf(\"========================================\\n\");"); got != 6 {
		t.Errorf("unexpected terminator count: got %d, want 6", got)
	}
	if strings.Contains(rendered, "@interval") {
		t.Error("interval bookkeeping should be absent when interval is 0")
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info.Mode()&0100 == 0 {
		t.Error("script should be executable")
	}
}

func TestCreateIntervalScript(t *testing.T) {
	dir := t.TempDir()
	path, err := Create(dir, Params{
		Primitive:    "mutex",
		AcquireProbe: "mutex_lock",
		ReleaseProbe: "mutex_unlock",
		Interval:     5,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rendered := string(content)
	if !strings.Contains(rendered, "interval:s:5") {
		t.Error("rendered script missing interval probe")
	}
	if !strings.Contains(rendered, "@aq_report_avg[@interval, @stack") {
		t.Error("aggregate maps should be keyed by interval bucket")
	}
}

func TestCreateRequiresProbes(t *testing.T) {
	if _, err := Create(t.TempDir(), Params{Primitive: "mutex"}); err == nil {
		t.Error("expected error when probes are missing")
	}
}
