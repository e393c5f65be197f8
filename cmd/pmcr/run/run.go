// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package run implements the command that runs a configured command.
package run

import (
	"context"

	"github.com/matt-FFFFFF/pmcr/internal/session"
	"github.com/urfave/cli/v3"
)

// Command returns the run command. Everything after the command name is
// passed to it untouched, flags included.
func Command() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Run a configured command",
		Description: `Run a command defined in the modules configuration.
The first argument is the command name; all remaining arguments are passed
to the command's function unchanged. "pmcr run <command>" is equivalent to
"pmcr <command>" and is needed when a command shares its name with a
built-in subcommand.`,
		ArgsUsage:       "<command> [args...]",
		SkipFlagParsing: true,
		Action:          Action,
	}
}

// Action runs the command named by the first argument.
func Action(ctx context.Context, cmd *cli.Command) error {
	s, err := session.Start(ctx, cmd)
	if err != nil {
		return err
	}

	defer s.Close()

	args := cmd.Args().Slice()
	if len(args) == 0 {
		return s.NoCommand()
	}

	return s.Exec(ctx, args[0], args[1:])
}
