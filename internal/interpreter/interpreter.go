// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package interpreter names and locates the Python interpreter.
package interpreter

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
)

const (
	// EnvPython overrides the interpreter name or path.
	EnvPython = "PMCR_PYTHON"

	goOSWindows = "windows"
)

// ErrNotFound is returned when the interpreter cannot be found on the search path.
var ErrNotFound = errors.New("interpreter not found")

// DefaultName returns the interpreter a shell launcher would run on goos:
// "python" on Windows, "python3" everywhere else.
func DefaultName(goos string) string {
	if goos == goOSWindows {
		return "python"
	}

	return "python3"
}

// Name returns the value of PMCR_PYTHON, or DefaultName for the running OS.
func Name() string {
	if v := os.Getenv(EnvPython); v != "" {
		return v
	}

	return DefaultName(runtime.GOOS)
}

// Resolve looks name up the way a shell would and returns an absolute path.
// Names containing a path separator are checked directly.
func Resolve(name string) (string, error) {
	path, err := exec.LookPath(name)
	if err != nil && !errors.Is(err, exec.ErrDot) {
		return "", errors.Join(ErrNotFound, err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", errors.Join(ErrNotFound, err)
	}

	return abs, nil
}
