// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

const (
	defaultWidth = 80
	ruleChar     = "─"
)

// UI writes user-facing output.
type UI struct {
	out         io.Writer
	errOut      io.Writer
	in          io.Reader
	renderer    *lipgloss.Renderer
	styles      *Styles
	width       int
	interactive bool
	stdinTTY    bool
}

// Option configures a UI.
type Option func(*UI)

// WithErrWriter sets where ordinary stderr output of a command goes when no
// progress bar is drawn. Defaults to os.Stderr.
func WithErrWriter(w io.Writer) Option {
	return func(u *UI) {
		u.errOut = w
	}
}

// WithInput sets the reader used by Pause. Defaults to os.Stdin.
func WithInput(r io.Reader) Option {
	return func(u *UI) {
		u.in = r
		u.stdinTTY = isTerminal(r)
	}
}

// WithWidth fixes the line width instead of asking the terminal.
func WithWidth(width int) Option {
	return func(u *UI) {
		u.width = width
	}
}

// New creates a UI writing to out.
func New(out io.Writer, opts ...Option) *UI {
	u := &UI{
		out:      out,
		errOut:   os.Stderr,
		in:       os.Stdin,
		stdinTTY: isTerminal(os.Stdin),
	}

	for _, opt := range opts {
		opt(u)
	}

	u.renderer = newRenderer(out)
	u.styles = NewStyles(u.renderer)
	u.interactive = isTerminal(out) && isTerminal(u.errOut)

	if u.width <= 0 {
		u.width = terminalWidth(out)
	}

	return u
}

// Interactive reports whether progress is drawn as a live bar.
func (u *UI) Interactive() bool {
	return u.interactive
}

// ColorEnabled reports whether output is coloured.
func (u *UI) ColorEnabled() bool {
	return u.renderer.ColorProfile() != termenv.Ascii
}

// StdinIsTerminal reports whether Pause reads from a terminal.
func (u *UI) StdinIsTerminal() bool {
	return u.stdinTTY
}

// Header renders title centred in a horizontal rule.
func (u *UI) Header(title string) {
	u.println(u.rule(title))
}

// Info displays an informational message.
func (u *UI) Info(msg string) {
	u.println(u.infoLine(msg))
}

// Error displays a recoverable error.
func (u *UI) Error(msg string) {
	u.println(u.styles.ErrorTag.Render("[ERROR]") + " " + msg)
}

// Fatal displays an error the application cannot continue from.
func (u *UI) Fatal(msg string) {
	u.println(u.styles.FatalTag.Render("[FATAL]") + " " + msg)
}

// Success displays a success message.
func (u *UI) Success(msg string) {
	u.println(u.styles.DoneTag.Render("[DONE]") + " " + msg)
}

// Print writes text as is, adding a final newline if it has none.
func (u *UI) Print(text string) {
	if text == "" {
		return
	}

	u.println(strings.TrimSuffix(text, "\n"))
}

// List displays name and value pairs with the names aligned.
func (u *UI) List(rows [][2]string) {
	width := 0
	for _, row := range rows {
		width = max(width, lipgloss.Width(row[0]))
	}

	name := u.styles.Name.Width(width + 2)

	for _, row := range rows {
		u.println("  " + name.Render(row[0]) + row[1])
	}
}

// Pause shows prompt and waits for ENTER.
func (u *UI) Pause(prompt string) {
	_, _ = fmt.Fprint(u.out, prompt)
	_, _ = bufio.NewReader(u.in).ReadString('\n')
}

func (u *UI) infoLine(msg string) string {
	return u.styles.InfoTag.Render("[INFO]") + " " + msg
}

func (u *UI) println(s string) {
	_, _ = fmt.Fprintln(u.out, s)
}

func (u *UI) rule(title string) string {
	label := " " + title + " "
	labelWidth := lipgloss.Width(label)

	if u.width < labelWidth+2 {
		return u.styles.Title.Render(title)
	}

	left := (u.width - labelWidth) / 2
	right := u.width - labelWidth - left

	return u.styles.Rule.Render(strings.Repeat(ruleChar, left)) +
		" " + u.styles.Title.Render(title) + " " +
		u.styles.Rule.Render(strings.Repeat(ruleChar, right))
}

func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	if !ok || f == nil {
		return false
	}

	return term.IsTerminal(int(f.Fd()))
}

func terminalWidth(w io.Writer) int {
	if cols, err := strconv.Atoi(os.Getenv("COLUMNS")); err == nil && cols > 0 {
		return cols
	}

	if f, ok := w.(*os.File); ok && isTerminal(f) {
		if width, _, err := term.GetSize(int(f.Fd())); err == nil && width > 0 {
			return width
		}
	}

	return defaultWidth
}
