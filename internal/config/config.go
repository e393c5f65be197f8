// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package config

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/matt-FFFFFF/pmcr/internal/ctxlog"
	"github.com/spf13/afero"
)

const (
	// DefaultAppFile is the application identity file.
	DefaultAppFile = "cli.cfg"
	// DefaultModulesFile is the command definition file.
	DefaultModulesFile = "modules_config.cfg"
	// HCLFile replaces both INI files when present in the configuration directory.
	HCLFile = "pmcr.hcl"
)

// App is the identity of the application.
type App struct {
	Name        string `json:"name" yaml:"name"`
	Version     string `json:"version" yaml:"version"`
	Description string `json:"description" yaml:"description"`
}

// Module maps a command name to a function in a Python file.
type Module struct {
	Name     string `json:"name" yaml:"name"`
	Path     string `json:"path" yaml:"path"`
	Function string `json:"function" yaml:"function"`
}

// Target returns the definition in path:function form.
func (m Module) Target() string {
	return m.Path + ":" + m.Function
}

// Config is a validated configuration.
type Config struct {
	// Dir is the absolute configuration directory. Module paths are relative to it.
	Dir     string   `json:"config_dir" yaml:"config_dir"`
	Files   []string `json:"files" yaml:"files"`
	App     App      `json:"app" yaml:"app"`
	Modules []Module `json:"modules" yaml:"modules"`
}

// Options controls where configuration is read from.
type Options struct {
	Dir         string // Empty means the current directory.
	AppFile     string // Relative paths are joined to Dir.
	ModulesFile string // Relative paths are joined to Dir.
}

// Load reads the configuration described by opts.
// If Dir contains pmcr.hcl and neither file name was overridden it is used
// instead of the INI files.
func Load(ctx context.Context, opts Options) (*Config, error) {
	if opts.Dir == "" {
		opts.Dir = "."
	}

	absDir, err := filepath.Abs(opts.Dir)
	if err != nil {
		return nil, err
	}

	fs := FsFactory()
	logger := ctxlog.Logger(ctx).With("dir", absDir)

	hclPath := filepath.Join(opts.Dir, HCLFile)
	if opts.AppFile == "" && opts.ModulesFile == "" {
		if ok, _ := afero.Exists(fs, hclPath); ok {
			logger.Debug("loading hcl configuration", "file", hclPath)
			return loadHCL(fs, hclPath, absDir)
		}
	}

	appPath := joinDir(opts.Dir, orDefault(opts.AppFile, DefaultAppFile))
	modulesPath := joinDir(opts.Dir, orDefault(opts.ModulesFile, DefaultModulesFile))

	logger.Debug("loading ini configuration", "app", appPath, "modules", modulesPath)

	return loadINI(fs, appPath, modulesPath, absDir)
}

// Lookup returns the module registered under name.
func (c *Config) Lookup(name string) (Module, bool) {
	for _, m := range c.Modules {
		if m.Name == name {
			return m, true
		}
	}

	return Module{}, false
}

// Names returns the command names in declaration order.
func (c *Config) Names() []string {
	names := make([]string, len(c.Modules))
	for i, m := range c.Modules {
		names[i] = m.Name
	}

	return names
}

// ResolvePath returns the absolute path of the module's Python file.
func (c *Config) ResolvePath(m Module) (string, error) {
	if filepath.IsAbs(m.Path) {
		return filepath.Clean(m.Path), nil
	}

	return filepath.Abs(filepath.Join(c.Dir, m.Path))
}

func validateApp(app App) *multierror.Error {
	var merr *multierror.Error

	for _, kv := range [][2]string{
		{"name", app.Name},
		{"version", app.Version},
		{"description", app.Description},
	} {
		if strings.TrimSpace(kv[1]) == "" {
			merr = multierror.Append(merr, &MissingKeyError{Key: kv[0]})
		}
	}

	return merr
}

// parseTarget splits path:function at the last colon so that Windows drive
// letters stay part of the path.
func parseTarget(name, target string) (Module, error) {
	idx := strings.LastIndex(target, ":")
	if idx < 0 {
		return Module{}, &InvalidModuleError{Name: name, Reason: reasonFormat}
	}

	return newModule(name, target[:idx], target[idx+1:])
}

func newModule(name, path, function string) (Module, error) {
	if path == "" || function == "" {
		return Module{}, &InvalidModuleError{Name: name, Reason: reasonEmpty}
	}

	return Module{Name: name, Path: path, Function: function}, nil
}

func joinDir(dir, file string) string {
	if filepath.IsAbs(file) {
		return file
	}

	return filepath.Join(dir, file)
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}

	return s
}
