// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package session holds the state shared by the pmcr subcommands for one
// invocation: the global flags, the loaded configuration and the UI.
package session

import (
	"context"
	"errors"
	"os"
	"runtime"
	"time"

	"github.com/matt-FFFFFF/pmcr/internal/config"
	"github.com/matt-FFFFFF/pmcr/internal/ctxlog"
	"github.com/matt-FFFFFF/pmcr/internal/interpreter"
	"github.com/matt-FFFFFF/pmcr/internal/runner"
	"github.com/matt-FFFFFF/pmcr/internal/ui"
	"github.com/urfave/cli/v3"
)

// Global flag names.
const (
	FlagConfigDir     = "config-dir"
	FlagAppConfig     = "app-config"
	FlagModulesConfig = "modules-config"
	FlagFrom          = "from"
	FlagPython        = "python"
	FlagTimeout       = "timeout"

	timeoutSecondsDefault = 30

	// PausePrompt is shown before exiting after a command error on Windows.
	PausePrompt = "Press ENTER to exit..."
)

// ValueFlags lists every global flag name and alias that takes a value.
var ValueFlags = []string{FlagConfigDir, "C", FlagAppConfig, FlagModulesConfig, FlagFrom, FlagPython, FlagTimeout}

// Flags returns the global flags.
func Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:      FlagConfigDir,
			Aliases:   []string{"C"},
			Usage:     "Directory holding the configuration files. Module paths are relative to it",
			Value:     ".",
			TakesFile: true,
			Sources:   cli.EnvVars("PMCR_CONFIG_DIR"),
		},
		&cli.StringFlag{
			Name:      FlagAppConfig,
			Usage:     "Application file, relative to the configuration directory (default \"" + config.DefaultAppFile + "\")",
			TakesFile: true,
			Sources:   cli.EnvVars("PMCR_APP_CONFIG"),
		},
		&cli.StringFlag{
			Name: FlagModulesConfig,
			Usage: "Modules file, relative to the configuration directory (default \"" +
				config.DefaultModulesFile + "\")",
			TakesFile: true,
			Sources:   cli.EnvVars("PMCR_MODULES_CONFIG"),
		},
		&cli.StringFlag{
			Name: FlagFrom,
			Usage: "Fetch the configuration directory from a remote source. " +
				"Supports Hashicorp's go-getter syntax, see https://github.com/hashicorp/go-getter",
			Sources: cli.EnvVars("PMCR_CONFIG_SOURCE"),
		},
		&cli.StringFlag{
			Name:    FlagPython,
			Usage:   "Python interpreter name or path",
			Sources: cli.EnvVars(interpreter.EnvPython),
		},
		&cli.IntFlag{
			Name:  FlagTimeout,
			Usage: "Maximum time in seconds to wait for a remote configuration source",
			Value: timeoutSecondsDefault,
		},
	}
}

// pauseOnError reports whether to wait for ENTER after a fatal command error.
var pauseOnError = func(u *ui.UI) bool {
	return runtime.GOOS == "windows" && u.StdinIsTerminal()
}

// Session is the state of one invocation.
type Session struct {
	UI     *ui.UI
	Config *config.Config

	python  string
	cleanup func()
}

// New creates a session that writes through u.
func New(u *ui.UI) *Session {
	return &Session{
		UI:      u,
		cleanup: func() {},
	}
}

// Start creates a session that writes to the root command's writers and
// loads its configuration. A load failure has already been displayed when
// the returned error is non-nil.
func Start(ctx context.Context, cmd *cli.Command) (*Session, error) {
	root := cmd.Root()

	var opts []ui.Option

	if root.ErrWriter != nil {
		opts = append(opts, ui.WithErrWriter(root.ErrWriter))
	}

	if root.Reader != nil {
		opts = append(opts, ui.WithInput(root.Reader))
	}

	out := root.Writer
	if out == nil {
		out = os.Stdout
	}

	s := New(ui.New(out, opts...))

	if err := s.Load(ctx, cmd); err != nil {
		s.Close()
		return nil, s.Fatal(err)
	}

	return s, nil
}

// Load reads the configuration named by the global flags of cmd.
func (s *Session) Load(ctx context.Context, cmd *cli.Command) error {
	root := cmd.Root()
	dir := root.String(FlagConfigDir)
	s.python = root.String(FlagPython)

	if src := root.String(FlagFrom); src != "" {
		fetchCtx, cancel := context.WithTimeout(ctx, time.Duration(root.Int(FlagTimeout))*time.Second)
		defer cancel()

		fetched, cleanup, err := config.Fetch(fetchCtx, src)
		if err != nil {
			return err
		}

		s.cleanup = cleanup
		dir = fetched
	}

	cfg, err := config.Load(ctx, config.Options{
		Dir:         dir,
		AppFile:     root.String(FlagAppConfig),
		ModulesFile: root.String(FlagModulesConfig),
	})
	if err != nil {
		return err
	}

	ctxlog.Debug(ctx, "configuration loaded", "dir", cfg.Dir, "modules", len(cfg.Modules))
	s.Config = cfg

	return nil
}

// Close removes anything fetched for the session.
func (s *Session) Close() {
	s.cleanup()
}

// Runner returns a command runner for the loaded configuration.
func (s *Session) Runner() *runner.Runner {
	return &runner.Runner{
		Config:      s.Config,
		UI:          s.UI,
		Interpreter: s.python,
	}
}

// Fatal displays err and returns the error that makes the CLI exit with 1.
func (s *Session) Fatal(err error) error {
	s.UI.Fatal(err.Error())
	return cli.Exit("", 1)
}

// Exec runs a command with CLI semantics: a command that exits on its own
// passes its exit code through silently, any other error is fatal.
func (s *Session) Exec(ctx context.Context, name string, args []string) error {
	err := s.Runner().Run(ctx, name, args)
	if err == nil {
		return nil
	}

	var exitErr *runner.ExitError
	if errors.As(err, &exitErr) {
		return cli.Exit("", exitErr.Code)
	}

	s.UI.Fatal(err.Error())

	if pauseOnError(s.UI) {
		s.UI.Pause(PausePrompt)
	}

	return cli.Exit("", 1)
}

// NoCommand reports a missing command name and returns the exit error.
func (s *Session) NoCommand() error {
	s.UI.Error("No command specified")
	s.UI.Info("Usage: " + s.Config.App.Name + " <command> [args]")

	return cli.Exit("", 1)
}
