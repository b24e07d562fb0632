package progress

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"testing"
)

func TestNewSpinner(t *testing.T) {
	spinner := NewSpinner("localhost")
	if spinner == nil {
		t.Fatal("failed to create a spinner")
	}
}

func TestSpinnerLifecycle(t *testing.T) {
	spinner := NewSpinner("localhost")
	spinner.Start()
	spinner.Status("collecting data")
	spinner.Status("collection complete")
	spinner.Finish()
}
