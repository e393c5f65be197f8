// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package show implements the command that prints the effective configuration.
package show

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/TylerBrock/colorjson"
	"github.com/goccy/go-yaml"
	"github.com/matt-FFFFFF/pmcr/internal/config"
	"github.com/matt-FFFFFF/pmcr/internal/session"
	"github.com/urfave/cli/v3"
)

const (
	formatFlag = "format"
	formatYAML = "yaml"
	formatJSON = "json"
	jsonIndent = 2
)

var (
	// ErrUnsupportedFormat is returned for an unknown --format value.
	ErrUnsupportedFormat = errors.New("unsupported format")
	// ErrEncode is returned when the configuration cannot be encoded.
	ErrEncode = errors.New("failed to encode configuration")
)

// Command returns the show command.
func Command() *cli.Command {
	return &cli.Command{
		Name:        "show",
		Usage:       "Show the effective configuration",
		Description: "Print the validated configuration, with the resolved configuration directory.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    formatFlag,
				Aliases: []string{"f"},
				Usage:   "Output format: yaml or json",
				Value:   formatYAML,
				Validator: func(s string) error {
					if s != formatYAML && s != formatJSON {
						return fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
					}

					return nil
				},
			},
		},
		Action: actionFunc,
	}
}

func actionFunc(ctx context.Context, cmd *cli.Command) error {
	s, err := session.Start(ctx, cmd)
	if err != nil {
		return err
	}

	defer s.Close()

	var color bool
	if cmd.String(formatFlag) == formatJSON {
		color = s.UI.ColorEnabled()
	}

	if err := write(cmd.Root().Writer, s.Config, cmd.String(formatFlag), color); err != nil {
		return s.Fatal(err)
	}

	return nil
}

func write(w io.Writer, cfg *config.Config, format string, color bool) error {
	var (
		out []byte
		err error
	)

	switch format {
	case formatYAML:
		out, err = yaml.Marshal(cfg)
	case formatJSON:
		out, err = marshalJSON(cfg, color)
		out = append(out, '\n')
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	if err != nil {
		return errors.Join(ErrEncode, err)
	}

	_, err = w.Write(out)

	return err //nolint:wrapcheck
}

func marshalJSON(cfg *config.Config, color bool) ([]byte, error) {
	raw, err := json.Marshal(cfg)
	if err != nil {
		return nil, err
	}

	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, err
	}

	f := colorjson.NewFormatter()
	f.Indent = jsonIndent
	f.DisabledColor = !color

	return f.Marshal(obj)
}
