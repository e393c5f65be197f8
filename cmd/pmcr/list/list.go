// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package list implements the command that lists configured commands.
package list

import (
	"context"

	"github.com/matt-FFFFFF/pmcr/internal/session"
	"github.com/urfave/cli/v3"
)

// Command returns the list command.
func Command() *cli.Command {
	return &cli.Command{
		Name:   "list",
		Usage:  "List the configured commands",
		Action: actionFunc,
	}
}

func actionFunc(ctx context.Context, cmd *cli.Command) error {
	s, err := session.Start(ctx, cmd)
	if err != nil {
		return err
	}

	defer s.Close()

	app := s.Config.App
	s.UI.Header(app.Name + " " + app.Version)
	s.UI.Info(app.Description)

	rows := make([][2]string, len(s.Config.Modules))
	for i, m := range s.Config.Modules {
		rows[i] = [2]string{m.Name, m.Target()}
	}

	s.UI.List(rows)

	return nil
}
