// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package process

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"syscall"
	"time"

	"github.com/matt-FFFFFF/pmcr/internal/ctxlog"
	"github.com/matt-FFFFFF/pmcr/internal/signalbroker"
)

// SignalExitBase is added to the signal number of a child killed by a signal,
// matching the status a POSIX shell reports.
const SignalExitBase = 128

var (
	// ErrCouldNotStartProcess is returned when the process could not be started.
	ErrCouldNotStartProcess = errors.New("could not start process")
	// ErrContextDone is returned when the context was cancelled and the process was killed.
	ErrContextDone = errors.New("context done, process killed")
	// ErrDuplicateSignalReceived is returned when a duplicate signal forced process termination.
	ErrDuplicateSignalReceived = errors.New("duplicate signal received, process forcefully terminated")
)

// Command is a child process to run in the foreground.
type Command struct {
	Path   string   // Full path of the executable.
	Args   []string // Arguments, not including the executable name.
	Dir    string   // Working directory, empty for the current one.
	Env    []string // Environment, nil inherits the parent's.
	Stdin  *os.File // nil inherits os.Stdin.
	Stdout *os.File // nil inherits os.Stdout.
	Stderr *os.File // nil inherits os.Stderr.

	// ForwardInterrupt sends os.Interrupt to the child as well.
	// It is off by default because a terminal already delivers Ctrl+C to the
	// whole foreground process group.
	ForwardInterrupt bool

	sigCh chan os.Signal // Allows injecting signals in tests.
}

// Result describes how the child terminated.
type Result struct {
	ExitCode int
	Signaled bool
	Duration time.Duration
}

// Run starts the child, waits for it and returns its exit status.
// A non-zero exit code is not an error.
func (c *Command) Run(ctx context.Context) (Result, error) {
	logger := ctxlog.Logger(ctx).With("path", c.Path)

	sigCh := c.sigCh
	if sigCh == nil {
		sigCh = signalbroker.New(ctx)
		defer signalbroker.Stop(sigCh)
	}

	env := c.Env
	if env == nil {
		env = os.Environ()
	}

	argv := slices.Concat([]string{filepath.Base(c.Path)}, c.Args)

	logger.Debug("starting process", "args", c.Args, "dir", c.Dir)

	start := time.Now()

	ps, err := os.StartProcess(c.Path, argv, &os.ProcAttr{
		Dir:   c.Dir,
		Env:   env,
		Files: []*os.File{orDefault(c.Stdin, os.Stdin), orDefault(c.Stdout, os.Stdout), orDefault(c.Stderr, os.Stderr)},
	})
	if err != nil {
		return Result{ExitCode: -1}, errors.Join(ErrCouldNotStartProcess, err)
	}

	logger.Debug("process started", "pid", ps.Pid)

	done := make(chan struct{})
	killed := make(chan error, 1)

	var wg sync.WaitGroup

	wg.Add(1)

	go func() {
		defer wg.Done()
		c.watch(ctx, logger, ps, sigCh, done, killed)
	}()

	state, waitErr := ps.Wait()

	close(done)
	wg.Wait()

	res := Result{ExitCode: -1, Duration: time.Since(start)}
	if state != nil {
		res.ExitCode, res.Signaled = exitStatus(state)
	}

	logger.Debug("process finished", "exitCode", res.ExitCode, "signaled", res.Signaled, "duration", res.Duration)

	select {
	case e := <-killed:
		return res, errors.Join(e, waitErr)
	default:
	}

	return res, waitErr
}

// watch forwards signals to the child until done is closed.
func (c *Command) watch(
	ctx context.Context,
	logger *slog.Logger,
	ps *os.Process,
	sigCh chan os.Signal,
	done <-chan struct{},
	killed chan<- error,
) {
	seen := make(map[os.Signal]struct{})

	for {
		select {
		case <-done:
			return

		case <-ctx.Done():
			select {
			case <-done:
				return
			default:
			}

			logger.Info("context done, killing process", "pid", ps.Pid)
			kill(logger, ps)
			killed <- ErrContextDone

			return

		case s, ok := <-sigCh:
			if !ok {
				// The channel was closed by another watchdog; keep waiting on the rest.
				sigCh = nil
				continue
			}

			if _, dup := seen[s]; dup {
				logger.Info("received duplicate signal, killing process", "signal", s.String())
				kill(logger, ps)
				killed <- ErrDuplicateSignalReceived

				return
			}

			seen[s] = struct{}{}

			if s == os.Interrupt && !c.ForwardInterrupt {
				logger.Debug("interrupt left to the terminal", "signal", s.String())
				continue
			}

			logger.Info("forwarding signal", "signal", s.String(), "pid", ps.Pid)

			if err := ps.Signal(s); err != nil {
				logger.Info("failed to forward signal", "signal", s.String(), "error", err)
			}
		}
	}
}

func kill(logger *slog.Logger, ps *os.Process) {
	if err := ps.Kill(); err != nil {
		if errors.Is(err, os.ErrProcessDone) {
			logger.Debug("process already done", "pid", ps.Pid)
			return
		}

		logger.Error("process kill error", "pid", ps.Pid, "error", err)
	}
}

func exitStatus(state *os.ProcessState) (int, bool) {
	if ws, ok := state.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return SignalExitBase + int(ws.Signal()), true
	}

	return state.ExitCode(), false
}

func orDefault(f, def *os.File) *os.File {
	if f == nil {
		return def
	}

	return f
}
