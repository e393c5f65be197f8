// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-getter/v2"
	"github.com/matt-FFFFFF/pmcr/internal/ctxlog"
	"github.com/spf13/afero"
)

// Fetch retrieves a configuration directory from src, which uses go-getter
// syntax (git::, https://, s3::, ...). Local directories are used in place.
// The returned cleanup function removes anything Fetch downloaded and is
// never nil.
func Fetch(ctx context.Context, src string) (string, func(), error) {
	noop := func() {}

	if src == "" {
		return "", noop, errors.Join(ErrFetch, errors.New("empty source"))
	}

	if ok, _ := afero.DirExists(FsFactory(), src); ok {
		abs, err := filepath.Abs(src)
		if err != nil {
			return "", noop, errors.Join(ErrFetch, err)
		}

		return abs, noop, nil
	}

	tmpDir, err := os.MkdirTemp("", "pmcr-getter-*")
	if err != nil {
		return "", noop, errors.Join(ErrFetch, err)
	}

	cleanup := func() {
		_ = os.RemoveAll(tmpDir)
	}

	wd, err := os.Getwd()
	if err != nil {
		cleanup()
		return "", noop, errors.Join(ErrFetch, err)
	}

	client := getter.Client{
		DisableSymlinks: true,
	}

	req := &getter.Request{
		Src:     src,
		Dst:     filepath.Join(tmpDir, "config"),
		Pwd:     wd,
		GetMode: getter.ModeDir,
	}

	ctxlog.Debug(ctx, "fetching configuration", "src", src, "dst", req.Dst)

	res, err := client.Get(ctx, req)
	if err != nil {
		cleanup()
		return "", noop, errors.Join(ErrFetch, err)
	}

	return res.Dst, cleanup, nil
}
