// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package main is the entry point for the pmcr command-line application.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/matt-FFFFFF/pmcr"
	"github.com/matt-FFFFFF/pmcr/cmd/pmcr/console"
	"github.com/matt-FFFFFF/pmcr/cmd/pmcr/list"
	"github.com/matt-FFFFFF/pmcr/cmd/pmcr/run"
	"github.com/matt-FFFFFF/pmcr/cmd/pmcr/show"
	"github.com/matt-FFFFFF/pmcr/internal/ctxlog"
	"github.com/matt-FFFFFF/pmcr/internal/session"
	"github.com/matt-FFFFFF/pmcr/internal/signalbroker"
	"github.com/matt-FFFFFF/pmcr/internal/ui"
	"github.com/urfave/cli/v3"
)

// builtins are the first positional arguments that are not command names.
var builtins = []string{"run", "list", "show", "console", "help", "h"}

func newRootCmd(out, errOut io.Writer) *cli.Command {
	return &cli.Command{
		Name:    "pmcr",
		Version: fmt.Sprintf("%s (%s)", pmcr.Version, pmcr.Commit),
		Usage:   "Run Python functions as commands",
		Description: `pmcr runs Python functions declared in a configuration directory as
named commands. The application is described by cli.cfg and its commands by
modules_config.cfg, or both by pmcr.hcl. "pmcr <command> [args...]" loads the
module that defines the command and calls its function with the arguments.`,
		ArgsUsage: "<command> [args...]",
		Flags:     session.Flags(),
		Commands: []*cli.Command{
			run.Command(),
			list.Command(),
			show.Command(),
			console.Command(),
		},
		Action:    run.Action,
		Writer:    out,
		ErrWriter: errOut,
		Copyright: "Copyright (c) matt-FFFFFF 2025. All rights reserved.",
		Authors: []any{
			"Matt White (matt-FFFFFF)",
		},
		// Exit codes are handled by main.
		ExitErrHandler: func(context.Context, *cli.Command, error) {},
	}
}

// routeArgs inserts "run" before the first positional argument when it is
// not a built-in subcommand, so that everything after a command name reaches
// the command untouched.
func routeArgs(args []string) []string {
	if len(args) < 2 { //nolint:mnd
		return args
	}

	for i := 1; i < len(args); i++ {
		a := args[i]

		switch {
		case a == "--":
			return args
		case strings.HasPrefix(a, "-"):
			name := strings.TrimLeft(a, "-")
			if strings.Contains(name, "=") {
				continue
			}

			if slices.Contains(session.ValueFlags, name) {
				i++
			}
		case slices.Contains(builtins, a):
			return args
		default:
			routed := make([]string, 0, len(args)+1)
			routed = append(routed, args[:i]...)
			routed = append(routed, "run")

			return append(routed, args[i:]...)
		}
	}

	return args
}

// exitCode maps the error returned by the root command to a process exit code.
func exitCode(err error, errOut io.Writer) int {
	if err == nil {
		return 0
	}

	var exitErr cli.ExitCoder
	if errors.As(err, &exitErr) {
		if msg := exitErr.Error(); msg != "" {
			fmt.Fprintln(errOut, msg) //nolint:errcheck
		}

		return exitErr.ExitCode()
	}

	ui.New(errOut).Fatal(err.Error())

	return 1
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	ctx = ctxlog.New(ctx, ctxlog.FromEnv())

	watcher := signalbroker.NewWatcher()
	ctx = signalbroker.WithWatcher(ctx, watcher)
	sigCh := signalbroker.New(ctx)

	go watcher.Watch(ctx, sigCh, cancel)

	err := newRootCmd(os.Stdout, os.Stderr).Run(ctx, routeArgs(os.Args))
	code := exitCode(err, os.Stderr)

	ctxlog.Debug(ctx, "pmcr exiting", "exitCode", code)
	cancel()
	os.Exit(code)
}
