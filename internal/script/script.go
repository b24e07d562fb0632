// Package script generates the bpftrace program that traces lock
// acquisition and hold times for one lock primitive.
package script

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"bytes"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"text/template"
)

//go:embed resources
var resources embed.FS

const (
	templateName   = "lock_tracker.bt.tmpl"
	scriptFileName = "lock_tracker.bt"
)

// Params parameterize the generated tracer script.
type Params struct {
	Primitive    string // primitive name used in the section headers, e.g. "mutex"
	AcquireProbe string // kernel symbol probed for acquisition, e.g. "mutex_lock"
	ReleaseProbe string // kernel symbol probed for release, e.g. "mutex_unlock"
	Interval     int    // seconds between interval buckets, 0 disables interval mode
}

// Create renders the tracer script into the given directory and returns its
// path. The script is written executable so it can also be run by hand via
// its shebang.
func Create(dir string, params Params) (string, error) {
	if params.AcquireProbe == "" || params.ReleaseProbe == "" {
		return "", fmt.Errorf("both acquire and release probes are required")
	}
	content, err := resources.ReadFile("resources/" + templateName)
	if err != nil {
		return "", fmt.Errorf("failed to read script template: %w", err)
	}
	tmpl, err := template.New(templateName).Parse(string(content))
	if err != nil {
		return "", fmt.Errorf("failed to parse script template: %w", err)
	}
	var rendered bytes.Buffer
	if err := tmpl.Execute(&rendered, params); err != nil {
		return "", fmt.Errorf("failed to render script template: %w", err)
	}
	scriptPath := filepath.Join(dir, scriptFileName)
	if err := os.WriteFile(scriptPath, rendered.Bytes(), 0755); err != nil { // #nosec G306
		return "", fmt.Errorf("failed to write tracer script: %w", err)
	}
	return scriptPath, nil
}
