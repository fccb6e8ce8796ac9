package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModel_TickCountsDown(t *testing.T) {
	m := newModel(10*time.Second, 10*time.Second, "short break")

	next, cmd := m.Update(tickMsg(time.Now()))
	nm := next.(model)
	assert.Equal(t, 9*time.Second, nm.remaining)
	assert.NotNil(t, cmd, "keeps ticking while time remains")
}

func TestModel_QuitsAtZero(t *testing.T) {
	m := newModel(10*time.Second, time.Second, "short break")

	next, cmd := m.Update(tickMsg(time.Now()))
	nm := next.(model)
	assert.Equal(t, time.Duration(0), nm.remaining)
	assert.False(t, nm.interrupted)
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestModel_InterruptKeys(t *testing.T) {
	for _, key := range []string{"q", "esc", "ctrl+c"} {
		m := newModel(10*time.Second, 10*time.Second, "short break")

		var msg tea.KeyMsg
		switch key {
		case "q":
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "ctrl+c":
			msg = tea.KeyMsg{Type: tea.KeyCtrlC}
		}

		next, cmd := m.Update(msg)
		nm := next.(model)
		assert.True(t, nm.interrupted, "key %s", key)
		require.NotNil(t, cmd, "key %s", key)
		assert.Equal(t, tea.Quit(), cmd())
	}
}

func TestModel_RemainingClampedToTotal(t *testing.T) {
	m := newModel(5*time.Second, time.Minute, "break")
	assert.Equal(t, 5*time.Second, m.remaining)
}

func TestModel_ViewShowsClockAndHint(t *testing.T) {
	m := newModel(5*time.Minute, 4*time.Minute+32*time.Second, "long break")

	view := m.View()
	assert.True(t, strings.Contains(view, "04:32"))
	assert.True(t, strings.Contains(view, "long break"))
	assert.True(t, strings.Contains(view, "press q"))
}
