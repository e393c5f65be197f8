// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package launcher

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"testing"

	"github.com/matt-FFFFFF/pmcr/internal/interpreter"
	"github.com/prashantv/gostub"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m, goleak.IgnoreAnyFunction("os/signal.loop"))
}

// fakePython writes an interpreter stand-in that records its arguments,
// one per line, to $PMCR_TEST_OUT and exits with $PMCR_TEST_EXIT.
const fakePython = `#!/bin/sh
for a in "$@"; do printf '%s\n' "$a"; done > "$PMCR_TEST_OUT"
exit "${PMCR_TEST_EXIT:-0}"
`

type fixture struct {
	launchDir string
	out       string
}

func setup(t *testing.T) fixture {
	t.Helper()

	if runtime.GOOS == "windows" {
		t.Skip("uses a POSIX shell script as the interpreter")
	}

	binDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(binDir, "python3"), []byte(fakePython), 0o755))

	launchDir := t.TempDir()
	out := filepath.Join(t.TempDir(), "argv")

	t.Setenv("PATH", binDir)
	t.Setenv(interpreter.EnvPython, "")
	t.Setenv("PMCR_TEST_OUT", out)
	t.Setenv("PMCR_TEST_EXIT", "0")

	stubs := gostub.Stub(&invokedAs, func() string {
		return filepath.Join(launchDir, "pmcr-launch")
	})
	t.Cleanup(stubs.Reset)

	return fixture{launchDir: launchDir, out: out}
}

func (f fixture) recorded(t *testing.T) []string {
	t.Helper()

	b, err := os.ReadFile(f.out)
	require.NoError(t, err)

	s := strings.TrimSuffix(string(b), "\n")

	return strings.Split(s, "\n")
}

func TestArgv(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{name: "no args", args: nil, want: []string{filepath.Join("base", ScriptName)}},
		{name: "order kept", args: []string{"hello", "--flag", "value"}, want: []string{filepath.Join("base", ScriptName), "hello", "--flag", "value"}},
		{name: "empty and dashes", args: []string{"", "--", "--help"}, want: []string{filepath.Join("base", ScriptName), "", "--", "--help"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Argv("base", tt.args))
		})
	}
}

func TestScriptDir(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("relies on POSIX executable bits and symlinks")
	}

	realDir := t.TempDir()
	realExe := filepath.Join(realDir, "pmcr-launch")
	require.NoError(t, os.WriteFile(realExe, []byte("#!/bin/sh\n"), 0o755))

	linkDir := t.TempDir()
	require.NoError(t, os.Symlink(realExe, filepath.Join(linkDir, "pmcr-launch")))

	fallbackDir := t.TempDir()
	workDir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(workDir, "bin"), 0o755))

	tests := []struct {
		name  string
		argv0 string
		path  string
		want  string
	}{
		{name: "absolute path", argv0: realExe, want: realDir},
		{name: "relative path", argv0: filepath.Join("bin", "pmcr-launch"), want: filepath.Join(workDir, "bin")},
		{name: "symlink is not followed", argv0: filepath.Join(linkDir, "pmcr-launch"), want: linkDir},
		{name: "bare name found on PATH", argv0: "pmcr-launch", path: linkDir, want: linkDir},
		{name: "bare name not on PATH", argv0: "pmcr-launch", path: t.TempDir(), want: fallbackDir},
		{name: "no name", argv0: "", want: fallbackDir},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Chdir(workDir)
			t.Setenv("PATH", tt.path)

			stubs := gostub.Stub(&invokedAs, func() string { return tt.argv0 })
			stubs.Stub(&executable, func() (string, error) {
				return filepath.Join(fallbackDir, "pmcr-launch"), nil
			})
			defer stubs.Reset()

			got, err := ScriptDir()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestScriptDirError(t *testing.T) {
	stubs := gostub.Stub(&invokedAs, func() string { return "" })
	stubs.Stub(&executable, func() (string, error) {
		return "", errors.New("no executable")
	})
	defer stubs.Reset()

	_, err := ScriptDir()
	require.ErrorIs(t, err, ErrScriptDir)
}

func TestRunFromSymlinkedLauncher(t *testing.T) {
	f := setup(t)

	realDir := t.TempDir()
	realExe := filepath.Join(realDir, "pmcr-launch")
	require.NoError(t, os.WriteFile(realExe, []byte("#!/bin/sh\n"), 0o755))
	require.NoError(t, os.Symlink(realExe, filepath.Join(f.launchDir, "pmcr-launch")))

	code, err := (&Launcher{}).Run(context.Background(), []string{"a", "b c"})
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Equal(t, []string{filepath.Join(f.launchDir, ScriptName), "a", "b c"}, f.recorded(t))
}

func TestRunForwardsArguments(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "command with flags", args: []string{"hello", "--flag", "value"}},
		{name: "help is not intercepted", args: []string{"--help"}},
		{name: "double dash", args: []string{"--", "x"}},
		{name: "spaces kept in one argument", args: []string{"two words", "a\tb"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setup(t)

			code, err := (&Launcher{}).Run(context.Background(), tt.args)
			require.NoError(t, err)
			assert.Equal(t, 0, code)

			want := append([]string{filepath.Join(f.launchDir, ScriptName)}, tt.args...)
			assert.Equal(t, want, f.recorded(t))
		})
	}
}

func TestRunNoArguments(t *testing.T) {
	f := setup(t)

	code, err := (&Launcher{}).Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Equal(t, []string{filepath.Join(f.launchDir, ScriptName)}, f.recorded(t))
}

func TestRunIndependentOfWorkingDirectory(t *testing.T) {
	f := setup(t)
	t.Chdir(t.TempDir())

	_, err := (&Launcher{}).Run(context.Background(), []string{"x"})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(f.launchDir, ScriptName), f.recorded(t)[0])
}

func TestRunExitCodePassThrough(t *testing.T) {
	for _, want := range []int{0, 1, 3, 42} {
		t.Run(strconv.Itoa(want), func(t *testing.T) {
			setup(t)
			t.Setenv("PMCR_TEST_EXIT", strconv.Itoa(want))

			code, err := (&Launcher{}).Run(context.Background(), []string{"cmd"})
			require.NoError(t, err)
			assert.Equal(t, want, code)
		})
	}
}

func TestRunInterpreterOverride(t *testing.T) {
	f := setup(t)

	alt := filepath.Join(t.TempDir(), "mypython")
	require.NoError(t, os.WriteFile(alt, []byte(fakePython), 0o755))
	t.Setenv("PATH", t.TempDir())
	t.Setenv(interpreter.EnvPython, alt)

	code, err := (&Launcher{}).Run(context.Background(), []string{"a"})
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Equal(t, []string{filepath.Join(f.launchDir, ScriptName), "a"}, f.recorded(t))
}

func TestRunInterpreterNotFound(t *testing.T) {
	setup(t)
	t.Setenv("PATH", t.TempDir())

	code, err := (&Launcher{}).Run(context.Background(), []string{"a"})
	assert.Equal(t, NotFoundExitCode, code)

	var execErr *exec.Error

	require.ErrorAs(t, err, &execErr)
	assert.NotErrorIs(t, err, interpreter.ErrNotFound)
}
