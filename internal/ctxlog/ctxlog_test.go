// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package ctxlog

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger(t *testing.T) {
	custom := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))

	tests := []struct {
		name string
		ctx  context.Context
		want *slog.Logger
	}{
		{name: "context with logger", ctx: New(context.Background(), custom), want: custom},
		{name: "context without logger", ctx: context.Background(), want: DefaultLogger},
		{name: "nil logger stores default", ctx: New(context.Background(), nil), want: DefaultLogger},
		{name: "wrong type value", ctx: context.WithValue(context.Background(), loggerKey{}, "nope"), want: DefaultLogger},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Same(t, tt.want, Logger(tt.ctx))
		})
	}
}

func TestLoggingFunctions(t *testing.T) {
	var buf bytes.Buffer

	ctx := New(context.Background(), slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})))

	tests := []struct {
		name    string
		logFunc func(context.Context, string, ...any)
		level   string
	}{
		{name: "debug", logFunc: Debug, level: "DEBUG"},
		{name: "info", logFunc: Info, level: "INFO"},
		{name: "warn", logFunc: Warn, level: "WARN"},
		{name: "error", logFunc: Error, level: "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset()
			tt.logFunc(ctx, "launching interpreter", "interpreter", "python3")
			assert.Contains(t, buf.String(), tt.level)
			assert.Contains(t, buf.String(), "launching interpreter")
			assert.Contains(t, buf.String(), "interpreter=python3")
		})
	}
}

func TestLevelFromEnv(t *testing.T) {
	tests := []struct {
		value string
		want  slog.Level
	}{
		{value: "DEBUG", want: slog.LevelDebug},
		{value: "debug", want: slog.LevelDebug},
		{value: "INFO", want: slog.LevelInfo},
		{value: "WARN", want: slog.LevelWarn},
		{value: "ERROR", want: slog.LevelError},
		{value: "bogus", want: slog.LevelWarn},
		{value: "", want: slog.LevelWarn},
	}

	for _, tt := range tests {
		t.Run("level "+tt.value, func(t *testing.T) {
			t.Setenv(EnvLevel, tt.value)
			assert.Equal(t, tt.want, levelFromEnv())
		})
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv(EnvFormat, "JSON")
	require.Same(t, JSONLogger, FromEnv())

	t.Setenv(EnvFormat, "")
	require.Same(t, DefaultLogger, FromEnv())
}
