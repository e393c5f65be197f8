// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/spf13/afero"
	"github.com/zclconf/go-cty/cty"
)

type hclFile struct {
	App     *hclApp     `hcl:"app,block"`
	Modules []hclModule `hcl:"module,block"`
}

type hclApp struct {
	Name        string `hcl:"name,optional"`
	Version     string `hcl:"version,optional"`
	Description string `hcl:"description,optional"`
}

type hclModule struct {
	Name     string    `hcl:"name,label"`
	Path     string    `hcl:"path,optional"`
	Function string    `hcl:"function,optional"`
	DefRange hcl.Range `hcl:",def_range"`
}

func loadHCL(fs afero.Fs, path, absDir string) (*Config, error) {
	content, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, err
	}

	file, diags := hclsyntax.ParseConfig(content, path, hcl.InitialPos)
	if diags.HasErrors() {
		return nil, errors.Join(ErrParse, diags)
	}

	var f hclFile
	if diags := gohcl.DecodeBody(file.Body, evalContext(absDir), &f); diags.HasErrors() {
		return nil, errors.Join(ErrParse, diags)
	}

	cfg := &Config{
		Dir:   absDir,
		Files: []string{path},
	}

	var merr *multierror.Error

	if f.App == nil {
		merr = multierror.Append(merr, &MissingSectionError{Section: appSection, File: HCLFile})
	} else {
		cfg.App = App(*f.App)
		merr = multierror.Append(merr, validateApp(cfg.App))
	}

	if len(f.Modules) == 0 {
		merr = multierror.Append(merr, fmt.Errorf("%w in %s", ErrNoModules, HCLFile))
	}

	seen := make(map[string]hcl.Range, len(f.Modules))

	for _, b := range f.Modules {
		if prev, dup := seen[b.Name]; dup {
			merr = multierror.Append(merr, fmt.Errorf("%w: '%s' at %s, first defined at %s",
				ErrDuplicateModule, b.Name, b.DefRange.String(), prev.String()))

			continue
		}

		seen[b.Name] = b.DefRange

		m, err := newModule(b.Name, b.Path, b.Function)
		if err != nil {
			merr = multierror.Append(merr, err)
			continue
		}

		cfg.Modules = append(cfg.Modules, m)
	}

	if err := flatten(merr); err != nil {
		return nil, err
	}

	return cfg, nil
}

// evalContext exposes the process environment as env.<NAME> and the
// configuration directory as config_dir.
func evalContext(absDir string) *hcl.EvalContext {
	env := make(map[string]cty.Value)

	for _, kv := range os.Environ() {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			continue
		}

		env[k] = cty.StringVal(v)
	}

	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env":        cty.ObjectVal(env),
			"config_dir": cty.StringVal(absDir),
		},
	}
}
