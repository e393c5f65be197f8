// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runner

import (
	"errors"
	"fmt"
)

var (
	// ErrNotDefined is returned for a command name missing from the configuration.
	ErrNotDefined = errors.New("command not defined")
	// ErrFileNotFound is returned when the command's Python file does not exist.
	ErrFileNotFound = errors.New("command file not found")
	// ErrFunctionNotFound is returned when the file has no such function.
	ErrFunctionNotFound = errors.New("function not found")
	// ErrLoad is returned when the command's Python file raised while loading.
	ErrLoad = errors.New("failed to load command")
	// ErrCommandFailed is returned when the command function raised an exception.
	ErrCommandFailed = errors.New("command failed")
)

// Error is a runner error with a user-facing message.
type Error struct {
	kind error
	msg  string
}

func newError(kind error, format string, args ...any) *Error {
	return &Error{kind: kind, msg: fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string {
	return e.msg
}

func (e *Error) Unwrap() error {
	return e.kind
}

// ExitError is returned when the command process ended without reporting an
// outcome, for example by calling sys.exit. The caller should exit with Code
// without printing anything further.
type ExitError struct {
	Code int
	Err  error // Supervision error, if any.
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("command exited with status %d", e.Code)
}

func (e *ExitError) Unwrap() error {
	return e.Err
}
