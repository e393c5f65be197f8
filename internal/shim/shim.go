// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package shim holds the Python bootstrap that loads a command file and
// calls its function, and decodes the events it reports.
//
// The bootstrap is passed to the interpreter with -c, so nothing is written
// to disk. Events travel on stderr as JSON lines prefixed by a tag that is
// unique per invocation. Text before the tag on the same line, and every
// untagged line, is ordinary output.
package shim

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/matt-FFFFFF/pmcr/internal/progress"
)

// EnvTag carries the event tag to the bootstrap.
const EnvTag = "PMCR_EVENT_TAG"

const (
	// ExitMissing is the bootstrap's exit code when the function does not exist.
	ExitMissing = 3

	tagPrefix = "\x1epmcr:"
)

// ErrDecode is returned for a tagged line that is not a valid event.
var ErrDecode = errors.New("invalid event")

//go:embed bootstrap.py
var bootstrap string

// Bootstrap returns the Python source of the bootstrap.
func Bootstrap() string {
	return bootstrap
}

// NewTag returns a fresh event tag.
func NewTag() string {
	return tagPrefix + uuid.NewString() + ":"
}

// Args returns the interpreter arguments that run function from the file at
// path with args. Output is unbuffered so it interleaves with events.
func Args(path, function string, args []string) []string {
	return slices.Concat([]string{"-u", "-c", bootstrap, path, function}, args)
}

// Env returns environ with the event tag set.
func Env(environ []string, tag string) []string {
	if environ == nil {
		environ = os.Environ()
	}

	return append(slices.Clone(environ), EnvTag+"="+tag)
}

type wireEvent struct {
	Event     string   `json:"event"`
	Completed *float64 `json:"completed"`
	Message   string   `json:"message"`
	Error     string   `json:"error"`
	Traceback string   `json:"traceback"`
	Function  string   `json:"function"`
	Path      string   `json:"path"`
}

// Cut splits a stderr line around tag. output is whatever the child wrote
// before the event without ending its line; payload is the event itself.
// tagged is false for ordinary output lines.
func Cut(tag, line string) (output, payload string, tagged bool) {
	return strings.Cut(line, tag)
}

// Decode parses the payload of a tagged line.
func Decode(payload string) (progress.Event, error) {
	var w wireEvent
	if err := json.Unmarshal([]byte(payload), &w); err != nil {
		return progress.Event{}, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	et, known := progress.ParseEventType(w.Event)
	if !known || et == progress.EventOutput {
		return progress.Event{}, fmt.Errorf("%w: unknown type %q", ErrDecode, w.Event)
	}

	ev := progress.Event{
		Type:      et,
		Traceback: w.Traceback,
		Function:  w.Function,
		Path:      w.Path,
		Timestamp: time.Now(),
	}

	switch et {
	case progress.EventLog:
		ev.Message = w.Message
	case progress.EventProgress:
		if w.Completed == nil {
			return progress.Event{}, fmt.Errorf("%w: progress without completed", ErrDecode)
		}

		ev.Completed = *w.Completed
	default:
		ev.Message = w.Error
	}

	return ev, nil
}
