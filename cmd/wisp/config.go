package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"wisp"
)

// projectConfig is wisp.toml's shape: the ambient-stack section calls this
// out as demo-only scaffolding outside the CORE (§1), configuring heap
// sizing and which standard modules to preload, the same package/run
// section a per-project manifest file configures for any compiler driver.
type projectConfig struct {
	Heap    heapConfig    `toml:"heap"`
	Stdlib  stdlibConfig  `toml:"stdlib"`
}

type heapConfig struct {
	MinBytes     uint64  `toml:"min_bytes"`
	InitialBytes uint64  `toml:"initial_bytes"`
	GrowthFactor float64 `toml:"growth_factor"`
}

type stdlibConfig struct {
	IO   bool `toml:"io"`
	Math bool `toml:"math"`
}

const wispTomlName = "wisp.toml"

// findWispToml walks upward from startDir looking for wisp.toml.
func findWispToml(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, wispTomlName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// loadProjectConfig loads wisp.toml from startDir or an ancestor, if one
// exists. A missing manifest is not an error — every field just keeps its
// wisp.Config zero-value default (§6). found reports whether a manifest
// was actually read, since stdFlags' no-manifest default differs from an
// explicit manifest that preloads neither stdlib module.
func loadProjectConfig(startDir string) (cfg projectConfig, found bool, err error) {
	path, ok, err := findWispToml(startDir)
	if err != nil {
		return projectConfig{}, false, err
	}
	if !ok {
		return projectConfig{}, false, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return projectConfig{}, false, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, true, nil
}

// vmConfig builds a wisp.Config from a loaded project manifest.
func (c projectConfig) vmConfig() wisp.Config {
	return wisp.Config{
		MinHeapSize:     c.Heap.MinBytes,
		InitialHeapSize: c.Heap.InitialBytes,
		GrowthFactor:    c.Heap.GrowthFactor,
	}
}

// stdFlags returns which std: modules to preload. With no manifest present,
// both default on so `wisp run`/`wisp repl` behave usefully out of the box.
func (c projectConfig) stdFlags(manifestFound bool) wisp.StdFlag {
	if !manifestFound {
		return wisp.StdIO | wisp.StdMath
	}
	var flags wisp.StdFlag
	if c.Stdlib.IO {
		flags |= wisp.StdIO
	}
	if c.Stdlib.Math {
		flags |= wisp.StdMath
	}
	return flags
}
