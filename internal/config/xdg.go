// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Guildhall Contributors

package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

const appDir = "guildhall"

// Dir is the per-user configuration directory: $XDG_CONFIG_HOME/guildhall,
// or ~/.config/guildhall when XDG_CONFIG_HOME is unset.
func Dir() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		base = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(base, appDir)
}

// DefaultFile is read by Load when --config is empty, if it exists.
func DefaultFile() string {
	return filepath.Join(Dir(), "config.yaml")
}

// defaultFileIfPresent returns DefaultFile, or "" when there is nothing to
// read. Any stat error other than absence keeps the path so Load reports it.
func defaultFileIfPresent() string {
	path := DefaultFile()
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return ""
	}
	return path
}
