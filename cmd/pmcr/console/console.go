// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package console implements an interactive prompt that runs configured
// commands one line at a time.
package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/matt-FFFFFF/pmcr/internal/ctxlog"
	"github.com/matt-FFFFFF/pmcr/internal/runner"
	"github.com/matt-FFFFFF/pmcr/internal/session"
	"github.com/matt-FFFFFF/pmcr/internal/signalbroker"
	"github.com/peterh/liner"
	"github.com/urfave/cli/v3"
)

const historyFile = "console_history"

// prompter is the part of liner.State the loop uses.
type prompter interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
}

// Command returns the console command.
func Command() *cli.Command {
	return &cli.Command{
		Name:  "console",
		Usage: "Start an interactive prompt",
		Description: `Read commands interactively. Each line is a command name followed by its
arguments, split on whitespace. Type "exit" or "quit", or press Ctrl+C or
Ctrl+D, to leave. Tab completes command names.`,
		Action: actionFunc,
	}
}

func actionFunc(ctx context.Context, cmd *cli.Command) error {
	s, err := session.Start(ctx, cmd)
	if err != nil {
		return err
	}

	defer s.Close()

	line := liner.NewLiner()
	defer line.Close() //nolint:errcheck

	line.SetCtrlCAborts(true)
	line.SetCompleter(completer(s.Config.Names()))

	history := historyPath()
	readHistory(ctx, line, history)

	defer writeHistory(ctx, line, history)

	r := s.Runner()

	return loop(ctx, line, s.Config.App.Name+"> ", func(name string, args []string) error {
		return r.Run(ctx, name, args)
	}, s.UI.Error)
}

// loop prompts until the user leaves, running each line with run and
// showing errors with showErr.
func loop(
	ctx context.Context,
	p prompter,
	prompt string,
	run func(name string, args []string) error,
	showErr func(msg string),
) error {
	for {
		if ctx.Err() != nil {
			return nil
		}

		input, err := p.Prompt(prompt)
		if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
			return nil
		}

		if err != nil {
			return err //nolint:wrapcheck
		}

		fields := strings.Fields(input)
		if len(fields) == 0 {
			continue
		}

		if fields[0] == "exit" || fields[0] == "quit" {
			return nil
		}

		p.AppendHistory(input)

		err = run(fields[0], fields[1:])

		// An interrupt sent to this command must not count towards the next.
		signalbroker.Reset(ctx)

		var exitErr *runner.ExitError

		switch {
		case err == nil:
		case errors.As(err, &exitErr):
			if exitErr.Code != 0 {
				showErr(fmt.Sprintf("Command exited with status %d", exitErr.Code))
			}
		default:
			showErr(err.Error())
		}
	}
}

func completer(names []string) liner.Completer {
	sorted := slices.Clone(names)
	slices.Sort(sorted)

	return func(line string) []string {
		if strings.ContainsAny(line, " \t") {
			return nil
		}

		var c []string

		for _, n := range sorted {
			if strings.HasPrefix(n, line) {
				c = append(c, n)
			}
		}

		return c
	}
}

func historyPath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ""
	}

	return filepath.Join(dir, "pmcr", historyFile)
}

func readHistory(ctx context.Context, line *liner.State, path string) {
	if path == "" {
		return
	}

	f, err := os.Open(path)
	if err != nil {
		return
	}

	defer f.Close() //nolint:errcheck

	if _, err := line.ReadHistory(f); err != nil {
		ctxlog.Debug(ctx, "could not read history", "path", path, "error", err)
	}
}

func writeHistory(ctx context.Context, line *liner.State, path string) {
	if path == "" {
		return
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		ctxlog.Debug(ctx, "could not create history directory", "error", err)
		return
	}

	f, err := os.Create(path)
	if err != nil {
		ctxlog.Debug(ctx, "could not write history", "path", path, "error", err)
		return
	}

	defer f.Close() //nolint:errcheck

	if _, err := line.WriteHistory(f); err != nil {
		ctxlog.Debug(ctx, "could not write history", "path", path, "error", err)
	}
}
