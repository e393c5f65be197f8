// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
)

var (
	// ErrNotFound is returned when a configuration file does not exist.
	ErrNotFound = errors.New("configuration file not found")
	// ErrNoModules is returned when the modules section has no entries.
	ErrNoModules = errors.New("no modules defined")
	// ErrParse is returned when a configuration file is not syntactically valid.
	ErrParse = errors.New("failed to parse configuration")
	// ErrDuplicateModule is returned when a command is defined twice.
	ErrDuplicateModule = errors.New("duplicate module definition")
	// ErrFetch is returned when a remote configuration source cannot be retrieved.
	ErrFetch = errors.New("failed to fetch configuration")
)

const (
	reasonFormat = "expected format path/to/file.py:function"
	reasonEmpty  = "path and function must be non-empty"
)

// MissingSectionError reports a mandatory section absent from a file.
type MissingSectionError struct {
	Section string
	File    string
}

func (e *MissingSectionError) Error() string {
	return fmt.Sprintf("missing [%s] section in %s", e.Section, e.File)
}

// MissingKeyError reports a mandatory [app] key that is absent or blank.
type MissingKeyError struct {
	Key string
}

func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("missing or empty '%s' in [app] section", e.Key)
}

// InvalidModuleError reports a malformed command definition.
type InvalidModuleError struct {
	Name   string
	Reason string
}

func (e *InvalidModuleError) Error() string {
	return fmt.Sprintf("invalid module definition for '%s': %s", e.Name, e.Reason)
}

// listFormat renders aggregated errors on one line so a single problem reads
// the same as an unaggregated error.
func listFormat(errs []error) string {
	msgs := make([]string, len(errs))
	for i, err := range errs {
		msgs[i] = err.Error()
	}

	return strings.Join(msgs, "; ")
}

func flatten(merr *multierror.Error) error {
	if merr == nil {
		return nil
	}

	merr.ErrorFormat = listFormat

	return merr.ErrorOrNil()
}
