package ui

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunWithSpinnerWithoutTerminal(t *testing.T) {
	// go test redirects stdout, so the task runs directly
	boom := errors.New("boom")
	calls := 0
	err := RunWithSpinner("Fetching characters...", func() error {
		calls++
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
}

func TestWaitModelFinishes(t *testing.T) {
	m := newWaitModel("Fetching characters...", nil)
	assert.Contains(t, m.View(), "Fetching characters...")

	next, cmd := m.Update(taskFinishedMsg{err: errors.New("offline")})
	require.NotNil(t, cmd)
	done := next.(waitModel)
	assert.EqualError(t, done.err, "offline")
	assert.Empty(t, done.View())
}

func TestWaitModelInterrupted(t *testing.T) {
	m := newWaitModel("Searching...", nil)

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.ErrorIs(t, next.(waitModel).err, ErrInterrupted)

	// Other keys are ignored
	next, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	assert.Nil(t, cmd)
	assert.NoError(t, next.(waitModel).err)
}
