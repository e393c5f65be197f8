// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package launcher starts the Python entry point that lives next to the
// running executable, forwarding every argument untouched.
package launcher

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"

	"github.com/matt-FFFFFF/pmcr/internal/ctxlog"
	"github.com/matt-FFFFFF/pmcr/internal/interpreter"
	"github.com/matt-FFFFFF/pmcr/internal/process"
)

const (
	// ScriptName is the entry point started by the launcher.
	ScriptName = "pmcr.py"
	// NotFoundExitCode is the status a shell uses for "command not found".
	NotFoundExitCode = 127
	// NotExecutableExitCode is the status a shell uses when a command cannot be executed.
	NotExecutableExitCode = 126
)

// ErrScriptDir is returned when the launcher cannot locate its own directory.
var ErrScriptDir = errors.New("could not determine launcher directory")

var (
	executable = os.Executable
	invokedAs  = func() string { return os.Args[0] }
)

// Launcher runs <interpreter> <dir>/pmcr.py <args...>.
type Launcher struct {
	// Interpreter is a name or path. Empty uses interpreter.Name().
	Interpreter string
	// Stdio of the child. nil inherits the launcher's.
	Stdin, Stdout, Stderr *os.File
}

// ScriptDir returns the absolute directory the launcher was started from.
// Symlinks are not followed: a launcher linked into another directory looks
// for the script next to the link.
func ScriptDir() (string, error) {
	exe, err := launcherPath()
	if err != nil {
		return "", errors.Join(ErrScriptDir, err)
	}

	dir, err := filepath.Abs(filepath.Dir(exe))
	if err != nil {
		return "", errors.Join(ErrScriptDir, err)
	}

	return dir, nil
}

// launcherPath returns the path the launcher was invoked by. A bare name is
// looked up on PATH the way the shell found it; the operating system's view
// of the executable is the last resort.
func launcherPath() (string, error) {
	name := invokedAs()

	if strings.ContainsRune(name, '/') || strings.ContainsRune(name, filepath.Separator) {
		return name, nil
	}

	if name != "" {
		if p, err := exec.LookPath(name); err == nil {
			return p, nil
		}
	}

	return executable()
}

// Argv returns the interpreter arguments for dir and args: the script path first,
// then args in their original order.
func Argv(dir string, args []string) []string {
	return slices.Concat([]string{filepath.Join(dir, ScriptName)}, args)
}

// Run starts the child, waits for it and returns the exit code the launcher
// should exit with. A non-nil error is the native failure to report on stderr;
// the child's own non-zero status is not an error.
func (l *Launcher) Run(ctx context.Context, args []string) (int, error) {
	dir, err := ScriptDir()
	if err != nil {
		return 1, err
	}

	name := l.Interpreter
	if name == "" {
		name = interpreter.Name()
	}

	path, err := interpreter.Resolve(name)
	if err != nil {
		return NotFoundExitCode, nativeError(err)
	}

	cmd := &process.Command{
		Path:   path,
		Args:   Argv(dir, args),
		Stdin:  l.Stdin,
		Stdout: l.Stdout,
		Stderr: l.Stderr,
	}

	res, err := cmd.Run(ctx)

	switch {
	case errors.Is(err, process.ErrCouldNotStartProcess):
		return NotExecutableExitCode, nativeError(err)
	case err != nil:
		ctxlog.Debug(ctx, "child did not exit cleanly", "error", err)
	}

	return res.ExitCode, nil
}

// nativeError strips the package sentinels so only the operating system's
// message is shown.
func nativeError(err error) error {
	var execErr *exec.Error
	if errors.As(err, &execErr) {
		return execErr
	}

	var pathErr *os.PathError
	if errors.As(err, &pathErr) {
		return pathErr
	}

	return err
}
