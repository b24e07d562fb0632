package common

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	"gopkg.in/yaml.v2"
)

//go:embed resources/probes.yaml
var defaultProbeCatalog []byte

// Probe is one traceable lock primitive: the kernel symbols probed on
// acquisition and release.
type Probe struct {
	Name    string `yaml:"name"`
	Acquire string `yaml:"acquire"`
	Release string `yaml:"release"`
}

type probeCatalog struct {
	Probes []Probe `yaml:"probes"`
}

// LoadProbes reads the probe catalog from the given file, or the embedded
// default catalog when path is empty. Probe names must be unique.
func LoadProbes(path string) ([]Probe, error) {
	content := defaultProbeCatalog
	if path != "" {
		var err error
		content, err = os.ReadFile(path) // #nosec G304
		if err != nil {
			return nil, fmt.Errorf("failed to read probe catalog: %w", err)
		}
	}
	var catalog probeCatalog
	if err := yaml.Unmarshal(content, &catalog); err != nil {
		return nil, fmt.Errorf("failed to parse probe catalog: %w", err)
	}
	if len(catalog.Probes) == 0 {
		return nil, fmt.Errorf("probe catalog is empty")
	}
	names := mapset.NewSet[string]()
	for _, probe := range catalog.Probes {
		if probe.Name == "" || probe.Acquire == "" || probe.Release == "" {
			return nil, fmt.Errorf("probe entries require name, acquire, and release: %+v", probe)
		}
		if !names.Add(probe.Name) {
			return nil, fmt.Errorf("duplicate probe name: %s", probe.Name)
		}
	}
	return catalog.Probes, nil
}

// ProbeByName returns the probe with the given name from the catalog.
func ProbeByName(probes []Probe, name string) (Probe, error) {
	names := make([]string, 0, len(probes))
	for _, probe := range probes {
		if probe.Name == name {
			return probe, nil
		}
		names = append(names, probe.Name)
	}
	return Probe{}, fmt.Errorf("unknown lock primitive %q, expected one of: %s", name, strings.Join(names, ", "))
}
