// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package ui

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/matt-FFFFFF/pmcr/internal/color"
	"github.com/muesli/termenv"
)

// Styles contains all the styling for the UI.
type Styles struct {
	Rule     lipgloss.Style
	Title    lipgloss.Style
	InfoTag  lipgloss.Style
	ErrorTag lipgloss.Style
	FatalTag lipgloss.Style
	DoneTag  lipgloss.Style
	Task     lipgloss.Style
	Spinner  lipgloss.Style
	Name     lipgloss.Style
}

// NewStyles creates the default styling bound to r.
func NewStyles(r *lipgloss.Renderer) *Styles {
	return &Styles{
		Rule: r.NewStyle().
			Foreground(lipgloss.Color("10")),
		Title: r.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("4")),
		InfoTag: r.NewStyle().
			Foreground(lipgloss.Color("6")),
		ErrorTag: r.NewStyle().
			Foreground(lipgloss.Color("1")),
		FatalTag: r.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("1")),
		DoneTag: r.NewStyle().
			Foreground(lipgloss.Color("2")),
		Task: r.NewStyle(),
		Spinner: r.NewStyle().
			Foreground(lipgloss.Color("2")),
		Name: r.NewStyle().
			Bold(true),
	}
}

// newRenderer returns a renderer for w that honours NO_COLOR and FORCE_COLOR.
func newRenderer(w io.Writer) *lipgloss.Renderer {
	r := lipgloss.NewRenderer(w)

	switch {
	case os.Getenv(color.NoColor) != "":
		r.SetColorProfile(termenv.Ascii)
	case color.Forced():
		r.SetColorProfile(termenv.ANSI256)
	}

	return r
}
