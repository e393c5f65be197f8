// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package teereader

import (
	"bytes"
	"io"
	"sync"
)

// splitter accumulates bytes and calls fn for every complete line.
// Lines are passed without the trailing "\n" or "\r\n".
type splitter struct {
	fn       func(line string)
	partial  []byte
	lastLine string
}

func (s *splitter) feed(p []byte) {
	for {
		i := bytes.IndexByte(p, '\n')
		if i < 0 {
			s.partial = append(s.partial, p...)
			return
		}

		s.partial = append(s.partial, p[:i]...)
		s.emit()

		p = p[i+1:]
	}
}

// flush emits any data after the last newline as a final line.
func (s *splitter) flush() {
	if len(s.partial) > 0 {
		s.emit()
	}
}

func (s *splitter) emit() {
	line := string(bytes.TrimSuffix(s.partial, []byte{'\r'}))
	s.partial = s.partial[:0]
	s.lastLine = line

	if s.fn != nil {
		s.fn(line)
	}
}

func (s *splitter) last(maxLength int) string {
	result := s.lastLine
	if maxLength > 3 && len(result) > maxLength {
		result = result[:maxLength-3] + "..."
	}

	return result
}

// LineTeeReader wraps an io.Reader and calls a function for every complete
// line read through it. It is safe for concurrent use.
type LineTeeReader struct {
	reader io.Reader
	s      splitter
	mu     sync.RWMutex
}

// New creates a LineTeeReader that reads from r and calls fn once per line.
func New(r io.Reader, fn func(line string)) *LineTeeReader {
	return &LineTeeReader{
		reader: r,
		s:      splitter{fn: fn},
	}
}

// Read implements io.Reader. At EOF an unterminated last line is emitted.
func (lt *LineTeeReader) Read(p []byte) (int, error) {
	n, err := lt.reader.Read(p)

	lt.mu.Lock()
	defer lt.mu.Unlock()

	if n > 0 {
		lt.s.feed(p[:n])
	}

	if err == io.EOF {
		lt.s.flush()
	}

	return n, err //nolint:wrapcheck
}

// Drain reads until EOF or error, emitting every line, and returns the read
// error if it was not EOF.
func (lt *LineTeeReader) Drain() error {
	_, err := io.Copy(io.Discard, lt)

	lt.mu.Lock()
	lt.s.flush()
	lt.mu.Unlock()

	return err //nolint:wrapcheck
}

// GetLastLine returns the last complete line that was read.
// If maxLength > 3 the line is truncated to that length, ending in "...".
func (lt *LineTeeReader) GetLastLine(maxLength int) string {
	lt.mu.RLock()
	defer lt.mu.RUnlock()

	return lt.s.last(maxLength)
}

// LineWriter is an io.Writer that calls a function for every complete line
// written to it. It is safe for concurrent use.
type LineWriter struct {
	s  splitter
	mu sync.Mutex
}

// NewLineWriter creates a LineWriter that calls fn once per line.
func NewLineWriter(fn func(line string)) *LineWriter {
	return &LineWriter{s: splitter{fn: fn}}
}

// Write implements io.Writer. It never fails.
func (lw *LineWriter) Write(p []byte) (int, error) {
	lw.mu.Lock()
	defer lw.mu.Unlock()

	lw.s.feed(p)

	return len(p), nil
}

// Flush emits any buffered data that has no trailing newline yet.
func (lw *LineWriter) Flush() {
	lw.mu.Lock()
	defer lw.mu.Unlock()

	lw.s.flush()
}

// GetLastLine returns the last complete line written.
func (lw *LineWriter) GetLastLine(maxLength int) string {
	lw.mu.Lock()
	defer lw.mu.Unlock()

	return lw.s.last(maxLength)
}
