// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package ui

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/matt-FFFFFF/pmcr/internal/ctxlog"
	"github.com/matt-FFFFFF/pmcr/internal/teereader"
)

const (
	maxBarWidth  = 40
	minBarWidth  = 10
	barChrome    = 12 // spinner, spaces and percentage around the bar.
	percentScale = 100
)

// Progress tracks a single task while a command runs.
type Progress interface {
	// Update sets how much of the task is complete, in units of the task total.
	Update(completed float64)
	// Info displays a message without disturbing the bar.
	Info(msg string)
	// Stdout receives the command's standard output.
	Stdout() io.Writer
	// Stderr receives the command's ordinary standard error output.
	Stderr() io.Writer
	// Close stops drawing. The final state stays on screen.
	Close()
}

// Progress starts a progress display for task. On a terminal it is a live
// spinner and bar with output printed above it; otherwise output passes
// straight through and no bar is drawn.
func (u *UI) Progress(ctx context.Context, description, task string, total float64) Progress {
	ctxlog.Debug(ctx, "progress started", "description", description, "task", task, "interactive", u.interactive)

	if !u.interactive {
		return &plainProgress{ui: u}
	}

	return newLiveProgress(ctx, u, task, total)
}

type plainProgress struct {
	ui *UI
}

func (p *plainProgress) Update(float64) {}

func (p *plainProgress) Info(msg string) {
	p.ui.Info(msg)
}

func (p *plainProgress) Stdout() io.Writer {
	return p.ui.out
}

func (p *plainProgress) Stderr() io.Writer {
	return p.ui.errOut
}

func (p *plainProgress) Close() {}

type liveProgress struct {
	ui      *UI
	program *tea.Program
	stdout  *teereader.LineWriter
	stderr  *teereader.LineWriter
	done    chan struct{}
	once    sync.Once
}

func newLiveProgress(ctx context.Context, u *UI, task string, total float64) *liveProgress {
	model := newProgressModel(u.styles, task, total, u.width)

	lp := &liveProgress{
		ui: u,
		program: tea.NewProgram(model,
			tea.WithContext(ctx),
			tea.WithOutput(u.out),
			tea.WithInput(nil),
			tea.WithoutSignalHandler(),
		),
		done: make(chan struct{}),
	}

	lp.stdout = teereader.NewLineWriter(lp.println)
	lp.stderr = teereader.NewLineWriter(lp.println)

	go func() {
		defer close(lp.done)

		if _, err := lp.program.Run(); err != nil {
			ctxlog.Debug(ctx, "progress display stopped", "error", err)
		}
	}()

	return lp
}

func (lp *liveProgress) println(line string) {
	lp.program.Println(line)
}

func (lp *liveProgress) Update(completed float64) {
	lp.program.Send(completedMsg(completed))
}

func (lp *liveProgress) Info(msg string) {
	lp.println(lp.ui.infoLine(msg))
}

func (lp *liveProgress) Stdout() io.Writer {
	return lp.stdout
}

func (lp *liveProgress) Stderr() io.Writer {
	return lp.stderr
}

func (lp *liveProgress) Close() {
	lp.once.Do(func() {
		lp.stdout.Flush()
		lp.stderr.Flush()
		lp.program.Send(doneMsg{})
		<-lp.done
	})
}

// completedMsg sets the completed amount of the task.
type completedMsg float64

// doneMsg ends the display.
type doneMsg struct{}

type progressModel struct {
	styles    *Styles
	spinner   spinner.Model
	bar       progress.Model
	task      string
	total     float64
	completed float64
	done      bool
}

func newProgressModel(styles *Styles, task string, total float64, width int) progressModel {
	if total <= 0 {
		total = percentScale
	}

	m := progressModel{
		styles:  styles,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(styles.Spinner)),
		bar:     progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		task:    task,
		total:   total,
	}
	m.bar.Width = barWidth(width, task)

	return m
}

func barWidth(width int, task string) int {
	w := width - len(task) - barChrome

	return max(minBarWidth, min(maxBarWidth, w))
}

// Init implements tea.Model.
func (m progressModel) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update implements tea.Model.
func (m progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case completedMsg:
		m.completed = max(0, min(m.total, float64(msg)))
		return m, nil

	case doneMsg:
		m.done = true
		return m, tea.Quit

	case tea.WindowSizeMsg:
		m.bar.Width = barWidth(msg.Width, m.task)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd

		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd
	}

	return m, nil
}

func (m progressModel) fraction() float64 {
	return m.completed / m.total
}

// View implements tea.Model.
func (m progressModel) View() string {
	frame := m.spinner.View()
	if m.done {
		frame = " "
	}

	return fmt.Sprintf("%s %s %s %3.0f%%\n",
		frame,
		m.styles.Task.Render(m.task),
		m.bar.ViewAs(m.fraction()),
		m.fraction()*percentScale,
	)
}
