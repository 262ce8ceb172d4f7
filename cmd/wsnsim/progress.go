package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/dd0wney/wsn-resilience/pkg/experiment"
	"github.com/dd0wney/wsn-resilience/pkg/logging"
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF00FF")).
			MarginLeft(2).
			MarginTop(1)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00FFFF")).
			MarginLeft(2)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Bold(true).
			MarginLeft(2)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00FF00")).
			Bold(true).
			MarginLeft(2)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			MarginTop(1).
			MarginLeft(2)
)

const maxBarWidth = 60

type progressMsg struct {
	done  int
	total int
}

type sweepDoneMsg struct {
	err error
}

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// progressModel draws a progress bar for one sweep. Quitting cancels the
// sweep; the model stays up until the runs already started have finished.
type progressModel struct {
	title      string
	bar        progress.Model
	done       int
	total      int
	start      time.Time
	now        time.Time
	cancel     context.CancelFunc
	cancelling bool
	finished   bool
	err        error
}

func newProgressModel(title string, cancel context.CancelFunc) progressModel {
	now := time.Now()
	return progressModel{
		title:  title,
		bar:    progress.New(progress.WithDefaultGradient(), progress.WithWidth(maxBarWidth)),
		start:  now,
		now:    now,
		cancel: cancel,
	}
}

func (m progressModel) Init() tea.Cmd {
	return tick()
}

func (m progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			if !m.cancelling {
				m.cancelling = true
				m.cancel()
			}
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.bar.Width = min(msg.Width-4, maxBarWidth)
		return m, nil

	case progressMsg:
		m.done, m.total = msg.done, msg.total
		return m, nil

	case tickMsg:
		m.now = time.Time(msg)
		return m, tick()

	case sweepDoneMsg:
		m.finished = true
		m.err = msg.err
		return m, tea.Quit
	}
	return m, nil
}

func (m progressModel) percent() float64 {
	if m.total == 0 {
		return 0
	}
	return float64(m.done) / float64(m.total)
}

func (m progressModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n\n  ")
	b.WriteString(m.bar.ViewAs(m.percent()))
	b.WriteString("\n\n")

	elapsed := m.now.Sub(m.start).Round(time.Second)
	b.WriteString(statusStyle.Render(fmt.Sprintf("%d/%d runs  %s", m.done, m.total, elapsed)))
	b.WriteString("\n")

	switch {
	case m.finished && m.err != nil:
		b.WriteString(errorStyle.Render("failed: " + m.err.Error()))
	case m.finished:
		b.WriteString(successStyle.Render("done"))
	case m.cancelling:
		b.WriteString(errorStyle.Render("cancelling, waiting for started runs"))
	default:
		b.WriteString(helpStyle.Render("ctrl+c: cancel"))
	}
	return b.String() + "\n"
}

// sweepFunc runs one sweep, reporting finished runs through progress.
type sweepFunc func(ctx context.Context, progress experiment.ProgressFunc) error

// useProgressBar reports whether stderr is an interactive terminal and the
// bar was not disabled.
func useProgressBar(cmd *cobra.Command) bool {
	if off, _ := cmd.Flags().GetBool("no-progress"); off {
		return false
	}
	fd := os.Stderr.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// runWithProgressBar runs fn while drawing the bar on stderr.
func runWithProgressBar(ctx context.Context, title string, fn sweepFunc) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(newProgressModel(title, cancel), tea.WithOutput(os.Stderr))

	errc := make(chan error, 1)
	go func() {
		err := fn(ctx, func(done, total int) {
			p.Send(progressMsg{done: done, total: total})
		})
		errc <- err
		p.Send(sweepDoneMsg{err: err})
	}()

	if _, err := p.Run(); err != nil {
		cancel()
		return fmt.Errorf("progress display: %w", err)
	}
	return <-errc
}

// logProgress returns a ProgressFunc that logs every completed tenth of
// the sweep.
func logProgress(logger logging.Logger, title string) experiment.ProgressFunc {
	var reported atomic.Int64
	reported.Store(-1)
	return func(done, total int) {
		if total <= 0 {
			return
		}
		tenth := int64(done * 10 / total)
		for {
			prev := reported.Load()
			if tenth <= prev {
				return
			}
			if reported.CompareAndSwap(prev, tenth) {
				logger.Info(title+" progress",
					logging.Int("done", done),
					logging.Int("total", total))
				return
			}
		}
	}
}

// runSweep runs fn with a progress bar on a terminal and progress log lines
// otherwise. With the bar the sweep logs are discarded so they do not
// scribble over it.
func runSweep(ctx context.Context, cmd *cobra.Command, logger logging.Logger, title string, fn func(ctx context.Context, logger logging.Logger, progress experiment.ProgressFunc) error) error {
	if useProgressBar(cmd) {
		return runWithProgressBar(ctx, title, func(ctx context.Context, progress experiment.ProgressFunc) error {
			return fn(ctx, logging.NewNopLogger(), progress)
		})
	}
	return fn(ctx, logger, logProgress(logger, title))
}
