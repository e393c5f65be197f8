// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package config loads and validates the declarative configuration that
// defines the application identity and its commands.
//
// Two formats are supported. The INI pair:
//
//	cli.cfg              [app] name, version, description
//	modules_config.cfg   [modules] <command> = path/to/file.py:function
//
// and a single HCL file, pmcr.hcl, which takes precedence when present:
//
//	app {
//	  name        = "PMCR"
//	  version     = "1.0.0"
//	  description = "Python module command runner"
//	}
//
//	module "hello" {
//	  path     = "modules/hello.py"
//	  function = "main"
//	}
//
// Configuration is validated in full before it is returned; every problem
// found is reported in a single error.
package config
