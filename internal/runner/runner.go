// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package runner executes a configured command: it resolves the command's
// file, runs its function in a Python child process through the bootstrap,
// and turns the reported events into terminal output.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/matt-FFFFFF/pmcr/internal/config"
	"github.com/matt-FFFFFF/pmcr/internal/ctxlog"
	"github.com/matt-FFFFFF/pmcr/internal/interpreter"
	"github.com/matt-FFFFFF/pmcr/internal/process"
	"github.com/matt-FFFFFF/pmcr/internal/progress"
	"github.com/matt-FFFFFF/pmcr/internal/shim"
	"github.com/matt-FFFFFF/pmcr/internal/teereader"
	"github.com/matt-FFFFFF/pmcr/internal/ui"
)

const (
	progressDescription = "Executing command"
	progressTask        = "Working..."
	progressTotal       = 100
	eventBufferSize     = 64
	readBufferSize      = 32 * 1024
	lastLineMaxLength   = 200
)

// Runner runs commands from a configuration.
type Runner struct {
	Config *config.Config
	UI     *ui.UI
	// Interpreter is a name or path. Empty uses interpreter.Name().
	Interpreter string
	// Stdin of the child. nil inherits os.Stdin.
	Stdin *os.File
}

// Run executes the command called name with args.
func (r *Runner) Run(ctx context.Context, name string, args []string) error {
	m, ok := r.Config.Lookup(name)
	if !ok {
		return newError(ErrNotDefined, "command '%s' not defined", name)
	}

	logger := ctxlog.Logger(ctx).With("command", name)

	r.UI.Header(fmt.Sprintf("%s · %s", r.Config.App.Name, name))
	r.UI.Info("Loading " + m.Target())

	path, err := r.Config.ResolvePath(m)
	if err != nil {
		return err
	}

	if _, err := os.Stat(path); err != nil {
		return newError(ErrFileNotFound, "command file not found: %s", path)
	}

	pyName := r.Interpreter
	if pyName == "" {
		pyName = interpreter.Name()
	}

	py, err := interpreter.Resolve(pyName)
	if err != nil {
		logger.Debug("interpreter lookup failed", "error", err)
		return fmt.Errorf("%w: %s", interpreter.ErrNotFound, pyName)
	}

	start := time.Now()

	outcome, res, runErr := r.execute(ctx, logger, py, path, m.Function, args)

	switch {
	case outcome == nil && errors.Is(runErr, process.ErrCouldNotStartProcess):
		return runErr

	case outcome == nil:
		logger.Debug("command exited without an outcome", "exitCode", res.ExitCode, "error", runErr)
		return &ExitError{Code: res.ExitCode, Err: runErr}

	case outcome.Type == progress.EventCompleted:
		r.UI.Success(fmt.Sprintf("Completed in %.2fs", time.Since(start).Seconds()))
		return nil

	case outcome.Type == progress.EventFailed:
		r.UI.Error("Command failed")
		r.UI.Print(outcome.Traceback)

		return newError(ErrCommandFailed, "%s", outcome.Message)

	case outcome.Type == progress.EventMissing:
		return newError(ErrFunctionNotFound, "function '%s' not found in %s", m.Function, path)

	default:
		logger.Debug("command load traceback", "traceback", outcome.Traceback)
		return newError(ErrLoad, "%s", outcome.Message)
	}
}

// execute runs the bootstrap and returns the terminal event, if one arrived.
func (r *Runner) execute(
	ctx context.Context,
	logger *slog.Logger,
	py, path, function string,
	args []string,
) (*progress.Event, process.Result, error) {
	stdoutR, stdoutW, err := os.Pipe()
	if err != nil {
		return nil, process.Result{}, err
	}

	stderrR, stderrW, err := os.Pipe()
	if err != nil {
		_ = stdoutR.Close()
		_ = stdoutW.Close()

		return nil, process.Result{}, err
	}

	defer stdoutR.Close() //nolint:errcheck
	defer stderrR.Close() //nolint:errcheck

	tag := shim.NewTag()
	display := r.UI.Progress(ctx, progressDescription, progressTask, progressTotal)

	var outcome *progress.Event

	reporter := progress.NewChannelReporter(ctx, eventBufferSize)
	reporter.Listen(progress.ListenerFunc(func(ev progress.Event) {
		switch ev.Type {
		case progress.EventStarted:
			logger.Debug("command started")
		case progress.EventProgress:
			display.Update(ev.Completed)
		case progress.EventLog:
			display.Info(ev.Message)
		case progress.EventOutput:
			w := display.Stdout()
			if ev.Stderr {
				w = display.Stderr()
			}

			_, _ = io.WriteString(w, ev.Message)
		default:
			if ev.Type.Terminal() && outcome == nil {
				outcome = &ev
			}
		}
	}))

	var wg sync.WaitGroup

	wg.Add(2)

	go func() {
		defer wg.Done()
		forwardStdout(stdoutR, reporter)
	}()

	stderrLines := teereader.New(stderrR, func(line string) {
		output, payload, tagged := shim.Cut(tag, line)
		if !tagged {
			reporter.Report(progress.Event{Type: progress.EventOutput, Message: line + "\n", Stderr: true})
			return
		}

		// The child's unterminated text continues on the next line.
		if output != "" {
			reporter.Report(progress.Event{Type: progress.EventOutput, Message: output, Stderr: true})
		}

		ev, err := shim.Decode(payload)
		if err != nil {
			logger.Debug("ignoring malformed event", "error", err)
			return
		}

		reporter.Report(ev)
	})

	go func() {
		defer wg.Done()

		if err := stderrLines.Drain(); err != nil {
			logger.Debug("stderr read error", "error", err)
		}
	}()

	cmd := &process.Command{
		Path:   py,
		Args:   shim.Args(path, function, args),
		Env:    shim.Env(nil, tag),
		Stdin:  r.Stdin,
		Stdout: stdoutW,
		Stderr: stderrW,
	}

	res, runErr := cmd.Run(ctx)

	// The child holds its own copies; closing ours lets the readers reach EOF.
	_ = stdoutW.Close()
	_ = stderrW.Close()

	wg.Wait()
	reporter.Close()
	display.Close()

	logger.Debug("command process finished",
		"exitCode", res.ExitCode,
		"duration", res.Duration,
		"lastStderr", stderrLines.GetLastLine(lastLineMaxLength),
	)

	return outcome, res, runErr
}

// forwardStdout reports stdout as it arrives, without waiting for whole lines.
func forwardStdout(r io.Reader, reporter progress.Reporter) {
	buf := make([]byte, readBufferSize)

	for {
		n, err := r.Read(buf)
		if n > 0 {
			reporter.Report(progress.Event{Type: progress.EventOutput, Message: string(buf[:n])})
		}

		if err != nil {
			return
		}
	}
}
