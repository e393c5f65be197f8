// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package config

import (
	"fmt"
	"path/filepath"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/afero"
	"gopkg.in/ini.v1"
)

const (
	appSection     = "app"
	modulesSection = "modules"
)

// Keys are case-insensitive and indented lines continue the previous value.
// '#' and ';' after a value belong to it.
var iniOptions = ini.LoadOptions{
	InsensitiveKeys:            true,
	IgnoreInlineComment:        true,
	PreserveSurroundedQuote:    true,
	AllowPythonMultilineValues: true,
}

func loadINI(fs afero.Fs, appPath, modulesPath, absDir string) (*Config, error) {
	cfg := &Config{
		Dir:   absDir,
		Files: []string{appPath, modulesPath},
	}

	var merr *multierror.Error

	app, err := readApp(fs, appPath)
	if err != nil {
		merr = multierror.Append(merr, err)
	}

	cfg.App = app

	modules, err := readModules(fs, modulesPath)
	if err != nil {
		merr = multierror.Append(merr, err)
	}

	cfg.Modules = modules

	if err := flatten(merr); err != nil {
		return nil, err
	}

	return cfg, nil
}

func readINI(fs afero.Fs, path string) (*ini.File, error) {
	ok, err := afero.Exists(fs, path)
	if err != nil {
		return nil, err
	}

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, err
	}

	f, err := ini.LoadSources(iniOptions, data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrParse, path, err)
	}

	return f, nil
}

func readApp(fs afero.Fs, path string) (App, error) {
	f, err := readINI(fs, path)
	if err != nil {
		return App{}, err
	}

	sec, err := f.GetSection(appSection)
	if err != nil {
		return App{}, &MissingSectionError{Section: appSection, File: filepath.Base(path)}
	}

	app := App{
		Name:        sec.Key("name").String(),
		Version:     sec.Key("version").String(),
		Description: sec.Key("description").String(),
	}

	return app, flatten(validateApp(app))
}

func readModules(fs afero.Fs, path string) ([]Module, error) {
	f, err := readINI(fs, path)
	if err != nil {
		return nil, err
	}

	base := filepath.Base(path)

	sec, err := f.GetSection(modulesSection)
	if err != nil {
		return nil, &MissingSectionError{Section: modulesSection, File: base}
	}

	keys := sec.Keys()
	if len(keys) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoModules, base)
	}

	var merr *multierror.Error

	modules := make([]Module, 0, len(keys))

	for _, k := range keys {
		m, err := parseTarget(k.Name(), k.String())
		if err != nil {
			merr = multierror.Append(merr, err)
			continue
		}

		modules = append(modules, m)
	}

	if err := flatten(merr); err != nil {
		return nil, err
	}

	return modules, nil
}
