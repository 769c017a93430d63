package ui

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/term"
)

// ErrInterrupted is returned by RunWithSpinner when ctrl+c stops the wait.
// The action itself keeps running until its own context ends.
var ErrInterrupted = errors.New("interrupted")

type taskFinishedMsg struct{ err error }

// waitModel animates a spinner next to a title until the task reports back
type waitModel struct {
	spinner  spinner.Model
	title    string
	task     func() error
	finished bool
	err      error
}

// RunWithSpinner runs task and returns its error. On a terminal a spinner
// with title is drawn while it runs; when stdout is redirected the task
// runs without any animation so piped output stays clean.
func RunWithSpinner(title string, task func() error) error {
	if !term.IsTerminal(os.Stdout.Fd()) {
		return task()
	}

	final, err := tea.NewProgram(newWaitModel(title, task)).Run()
	if err != nil {
		return fmt.Errorf("spinner program error: %w", err)
	}
	return final.(waitModel).err
}

func newWaitModel(title string, task func() error) waitModel {
	return waitModel{spinner: NewAppSpinner(), title: title, task: task}
}

func (m waitModel) Init() tea.Cmd {
	task := m.task
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		return taskFinishedMsg{err: task()}
	})
}

func (m waitModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case taskFinishedMsg:
		m.finished = true
		m.err = msg.err
		return m, tea.Quit

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.finished = true
			m.err = ErrInterrupted
			return m, tea.Quit
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View clears the line once the task is finished
func (m waitModel) View() string {
	if m.finished {
		return ""
	}
	return m.spinner.View() + " " + RenderNormal(m.title) + "\n"
}
