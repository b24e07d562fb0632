package common

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadProbesDefaults(t *testing.T) {
	probes, err := LoadProbes("")
	require.NoError(t, err)
	require.NotEmpty(t, probes)
	mutex, err := ProbeByName(probes, "mutex")
	require.NoError(t, err)
	assert.Equal(t, "mutex_lock", mutex.Acquire)
	assert.Equal(t, "mutex_unlock", mutex.Release)
}

func TestLoadProbesFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "probes.yaml")
	content := `probes:
  - name: custom
    acquire: my_lock
    release: my_unlock
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	probes, err := LoadProbes(path)
	require.NoError(t, err)
	require.Len(t, probes, 1)
	assert.Equal(t, "my_lock", probes[0].Acquire)
}

func TestLoadProbesRejectsDuplicates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "probes.yaml")
	content := `probes:
  - name: mutex
    acquire: mutex_lock
    release: mutex_unlock
  - name: mutex
    acquire: other_lock
    release: other_unlock
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	_, err := LoadProbes(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate probe name")
}

func TestLoadProbesRejectsIncompleteEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "probes.yaml")
	content := `probes:
  - name: mutex
    acquire: mutex_lock
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	_, err := LoadProbes(path)
	require.Error(t, err)
}

func TestProbeByNameUnknown(t *testing.T) {
	probes, err := LoadProbes("")
	require.NoError(t, err)
	_, err = ProbeByName(probes, "futex")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown lock primitive")
}
