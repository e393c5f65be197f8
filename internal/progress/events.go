// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package progress

import (
	"time"
)

// Event is a single update from a running command.
type Event struct {
	Type      EventType
	Message   string    // Log message, output line or error text.
	Completed float64   // EventProgress: 0 to 100.
	Stderr    bool      // EventOutput: the line came from stderr.
	Traceback string    // EventFailed, EventLoadFailed.
	Function  string    // EventMissing.
	Path      string    // EventMissing.
	Timestamp time.Time // When the event was received.
}

// EventType represents the type of progress event.
type EventType int

const (
	// EventUnknown is an unrecognised event.
	EventUnknown EventType = iota
	// EventStarted indicates the command function has been called.
	EventStarted
	// EventProgress carries a new completion value.
	EventProgress
	// EventLog carries a message the command asked to display.
	EventLog
	// EventOutput carries one line of ordinary stdout or stderr output.
	EventOutput
	// EventCompleted indicates the command function returned.
	EventCompleted
	// EventFailed indicates the command function raised an exception.
	EventFailed
	// EventMissing indicates the requested function does not exist.
	EventMissing
	// EventLoadFailed indicates the command file could not be loaded.
	EventLoadFailed
)

var eventNames = map[EventType]string{
	EventStarted:    "started",
	EventProgress:   "progress",
	EventLog:        "log",
	EventOutput:     "output",
	EventCompleted:  "completed",
	EventFailed:     "failed",
	EventMissing:    "missing",
	EventLoadFailed: "load_failed",
}

// String implements the Stringer interface for EventType.
func (et EventType) String() string {
	if s, ok := eventNames[et]; ok {
		return s
	}

	return "unknown"
}

// ParseEventType returns the EventType named s.
func ParseEventType(s string) (EventType, bool) {
	for et, name := range eventNames {
		if name == s {
			return et, true
		}
	}

	return EventUnknown, false
}

// Terminal reports whether no further events follow this one.
func (et EventType) Terminal() bool {
	switch et {
	case EventCompleted, EventFailed, EventMissing, EventLoadFailed:
		return true
	default:
		return false
	}
}
