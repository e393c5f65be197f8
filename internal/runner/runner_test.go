// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runner

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/matt-FFFFFF/pmcr/internal/config"
	"github.com/matt-FFFFFF/pmcr/internal/interpreter"
	"github.com/matt-FFFFFF/pmcr/internal/ui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m, goleak.IgnoreAnyFunction("os/signal.loop"))
}

const commands = `import json
import sys


def hello(args, ctx):
    ctx["log"]("step one")
    ctx["progress"](50)
    print("hello " + " ".join(args))
    ctx["progress"](100)


def echo_args(args, ctx):
    print(json.dumps(args))


def boom(args, ctx):
    raise ValueError("boom")


def quit_with(args, ctx):
    sys.exit(int(args[0]))


def noisy(args, ctx):
    sys.stderr.write("plain warning\n")


def unterminated(args, ctx):
    sys.stderr.write("50%\r")
    ctx["log"]("halfway")
    sys.stderr.write("done")


def unterminated_boom(args, ctx):
    sys.stderr.write("x")
    raise RuntimeError("kaboom")


not_callable = None
`

type fixture struct {
	runner *Runner
	out    *bytes.Buffer
	errOut *bytes.Buffer
}

func setup(t *testing.T, needPython bool) fixture {
	t.Helper()

	if needPython {
		py := interpreter.DefaultName(runtime.GOOS)
		if _, err := exec.LookPath(py); err != nil {
			t.Skipf("%s not available", py)
		}
	}

	t.Setenv(interpreter.EnvPython, "")
	t.Setenv("NO_COLOR", "1")

	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "modules"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "modules", "cmds.py"), []byte(commands), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.py"), []byte("def main(:\n"), 0o644))

	cfg := &config.Config{
		Dir: dir,
		App: config.App{Name: "PMCR", Version: "1.0.0", Description: "test"},
		Modules: []config.Module{
			{Name: "hello", Path: "modules/cmds.py", Function: "hello"},
			{Name: "echo", Path: "modules/cmds.py", Function: "echo_args"},
			{Name: "boom", Path: "modules/cmds.py", Function: "boom"},
			{Name: "quit", Path: "modules/cmds.py", Function: "quit_with"},
			{Name: "noisy", Path: "modules/cmds.py", Function: "noisy"},
			{Name: "unterminated", Path: "modules/cmds.py", Function: "unterminated"},
			{Name: "unterminated-boom", Path: "modules/cmds.py", Function: "unterminated_boom"},
			{Name: "nofunc", Path: "modules/cmds.py", Function: "does_not_exist"},
			{Name: "none", Path: "modules/cmds.py", Function: "not_callable"},
			{Name: "broken", Path: "broken.py", Function: "main"},
			{Name: "nofile", Path: "missing.py", Function: "main"},
		},
	}

	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}

	return fixture{
		runner: &Runner{
			Config: cfg,
			UI:     ui.New(out, ui.WithErrWriter(errOut), ui.WithWidth(40)),
		},
		out:    out,
		errOut: errOut,
	}
}

func TestRunNotDefined(t *testing.T) {
	f := setup(t, false)

	err := f.runner.Run(context.Background(), "nope", nil)
	require.ErrorIs(t, err, ErrNotDefined)
	assert.Equal(t, "command 'nope' not defined", err.Error())
	assert.Empty(t, f.out.String())
}

func TestRunFileNotFound(t *testing.T) {
	f := setup(t, false)

	err := f.runner.Run(context.Background(), "nofile", nil)
	require.ErrorIs(t, err, ErrFileNotFound)
	assert.Equal(t, "command file not found: "+filepath.Join(f.runner.Config.Dir, "missing.py"), err.Error())
	assert.Contains(t, f.out.String(), "PMCR · nofile")
	assert.Contains(t, f.out.String(), "[INFO] Loading missing.py:main\n")
}

func TestRunInterpreterNotFound(t *testing.T) {
	f := setup(t, false)
	f.runner.Interpreter = filepath.Join(t.TempDir(), "no-python")

	err := f.runner.Run(context.Background(), "hello", nil)
	require.ErrorIs(t, err, interpreter.ErrNotFound)
}

func TestRunSuccess(t *testing.T) {
	f := setup(t, true)

	err := f.runner.Run(context.Background(), "hello", []string{"a", "b"})
	require.NoError(t, err)

	out := f.out.String()
	assert.Contains(t, out, "PMCR · hello")
	assert.Contains(t, out, "[INFO] Loading modules/cmds.py:hello\n")
	assert.Contains(t, out, "[INFO] step one\n")
	assert.Contains(t, out, "hello a b\n")
	assert.Regexp(t, `\[DONE\] Completed in \d+\.\d{2}s\n$`, out)
	assert.Empty(t, f.errOut.String())
}

func TestRunArgumentsVerbatim(t *testing.T) {
	f := setup(t, true)

	err := f.runner.Run(context.Background(), "echo", []string{"--flag", "", "two words", "--help"})
	require.NoError(t, err)
	assert.Contains(t, f.out.String(), `["--flag", "", "two words", "--help"]`)
}

func TestRunCommandFails(t *testing.T) {
	f := setup(t, true)

	err := f.runner.Run(context.Background(), "boom", nil)
	require.ErrorIs(t, err, ErrCommandFailed)
	assert.Equal(t, "boom", err.Error())

	out := f.out.String()
	assert.Contains(t, out, "[ERROR] Command failed\n")
	assert.Contains(t, out, "Traceback (most recent call last):")
	assert.Contains(t, out, "ValueError: boom")
	assert.NotContains(t, out, "[DONE]")
}

func TestRunFunctionMissing(t *testing.T) {
	f := setup(t, true)

	err := f.runner.Run(context.Background(), "nofunc", nil)
	require.ErrorIs(t, err, ErrFunctionNotFound)

	want := "function 'does_not_exist' not found in " + filepath.Join(f.runner.Config.Dir, "modules", "cmds.py")
	assert.Equal(t, want, err.Error())
}

func TestRunAttributeThatIsNotCallable(t *testing.T) {
	f := setup(t, true)

	err := f.runner.Run(context.Background(), "none", nil)
	require.ErrorIs(t, err, ErrCommandFailed)
}

func TestRunLoadFails(t *testing.T) {
	f := setup(t, true)

	err := f.runner.Run(context.Background(), "broken", nil)
	require.ErrorIs(t, err, ErrLoad)
	assert.NotContains(t, f.out.String(), "[ERROR] Command failed")
}

func TestRunSystemExit(t *testing.T) {
	tests := []struct {
		arg  string
		code int
	}{
		{arg: "0", code: 0},
		{arg: "4", code: 4},
	}

	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			f := setup(t, true)

			err := f.runner.Run(context.Background(), "quit", []string{tt.arg})

			var exitErr *ExitError

			require.ErrorAs(t, err, &exitErr)
			assert.Equal(t, tt.code, exitErr.Code)
			assert.NotContains(t, f.out.String(), "[DONE]")
		})
	}
}

func TestRunStderrPassesThrough(t *testing.T) {
	f := setup(t, true)

	err := f.runner.Run(context.Background(), "noisy", nil)
	require.NoError(t, err)
	assert.Equal(t, "plain warning\n", f.errOut.String())
}

func TestRunEventsAfterUnterminatedStderr(t *testing.T) {
	f := setup(t, true)

	err := f.runner.Run(context.Background(), "unterminated", nil)
	require.NoError(t, err)

	out := f.out.String()
	assert.Contains(t, out, "[INFO] halfway\n")
	assert.Regexp(t, `\[DONE\] Completed in \d+\.\d{2}s\n$`, out)
	assert.Equal(t, "50%\rdone\n", f.errOut.String())
}

func TestRunFailureAfterUnterminatedStderr(t *testing.T) {
	f := setup(t, true)

	err := f.runner.Run(context.Background(), "unterminated-boom", nil)
	require.ErrorIs(t, err, ErrCommandFailed)
	assert.Equal(t, "kaboom", err.Error())

	out := f.out.String()
	assert.Contains(t, out, "[ERROR] Command failed\n")
	assert.Contains(t, out, "RuntimeError: kaboom")
	assert.Equal(t, "x", f.errOut.String())
}
