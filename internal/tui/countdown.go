// Package tui renders the foreground break countdown with bubbletea.
package tui

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/pomokit/pomo/internal/domain"
	"github.com/pomokit/pomo/internal/timefmt"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	clockStyle = lipgloss.NewStyle().Bold(true)
	hintStyle  = lipgloss.NewStyle().Faint(true)
)

// Countdown implements domain.CountdownRunner over a bubbletea
// program: a once-per-second tick drives a progress bar until the
// planned duration elapses or the operator interrupts with q/esc/^C.
type Countdown struct{}

// NewCountdown creates the countdown runner.
func NewCountdown() *Countdown {
	return &Countdown{}
}

// Available reports whether stdout is an interactive terminal.
func (c *Countdown) Available() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

// Run blocks until the countdown completes or is interrupted.
func (c *Countdown) Run(planned, remaining time.Duration, title string) (bool, error) {
	m := newModel(planned, remaining, title)
	final, err := tea.NewProgram(m).Run()
	if err != nil {
		return false, err
	}
	fm, ok := final.(model)
	if !ok {
		return false, fmt.Errorf("unexpected final model %T", final)
	}
	return fm.interrupted, nil
}

type tickMsg time.Time

type model struct {
	title       string
	total       time.Duration
	remaining   time.Duration
	bar         progress.Model
	interrupted bool
}

func newModel(total, remaining time.Duration, title string) model {
	if remaining > total {
		remaining = total
	}
	return model{
		title:     title,
		total:     total,
		remaining: remaining,
		bar:       progress.New(progress.WithDefaultGradient()),
	}
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m model) Init() tea.Cmd {
	return tick()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			m.interrupted = true
			return m, tea.Quit
		}
		return m, nil

	case tickMsg:
		m.remaining -= time.Second
		if m.remaining <= 0 {
			m.remaining = 0
			return m, tea.Quit
		}
		return m, tick()

	case tea.WindowSizeMsg:
		w := msg.Width - 8
		if w > 60 {
			w = 60
		}
		if w > 0 {
			m.bar.Width = w
		}
		return m, nil
	}
	return m, nil
}

func (m model) View() string {
	done := m.total - m.remaining
	pct := 0.0
	if m.total > 0 {
		pct = float64(done) / float64(m.total)
	}

	return fmt.Sprintf("\n  %s\n\n  %s  %s\n\n  %s\n",
		titleStyle.Render(m.title),
		m.bar.ViewAs(pct),
		clockStyle.Render(timefmt.Clock(int64(m.remaining.Seconds()))),
		hintStyle.Render("press q to end the break early"))
}

var _ domain.CountdownRunner = (*Countdown)(nil)
