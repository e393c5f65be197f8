// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package main is the pmcr-launch entry point. It runs the platform's Python
// interpreter on the pmcr.py found next to this executable and passes every
// argument through untouched. It has no flags of its own.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/matt-FFFFFF/pmcr/internal/ctxlog"
	"github.com/matt-FFFFFF/pmcr/internal/launcher"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	ctx = ctxlog.New(ctx, ctxlog.FromEnv())

	code, err := (&launcher.Launcher{}).Run(ctx, os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
	}

	ctxlog.Debug(ctx, "launcher exiting", "exitCode", code)
	cancel()
	os.Exit(code)
}
