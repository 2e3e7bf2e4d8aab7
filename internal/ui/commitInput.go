package ui

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// CommitFunc validates and commits with the given message.
type CommitFunc func(message string) error

type CommitInputModel struct {
	commit    CommitFunc
	textInput textinput.Model
	committed bool
	cancelled bool
	err       error

	// Styles
	titleStyle lipgloss.Style
	errorStyle lipgloss.Style
	helpStyle  lipgloss.Style
}

type commitCompleteMsg struct {
	err error
}

func NewCommitInputModel(commit CommitFunc) CommitInputModel {
	ti := textinput.New()
	ti.Placeholder = "Enter commit message..."
	ti.Focus()
	ti.CharLimit = 500
	ti.Width = 50

	return CommitInputModel{
		commit:    commit,
		textInput: ti,

		titleStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true),

		errorStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true),

		helpStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")),
	}
}

func (m CommitInputModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m CommitInputModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.cancelled = true
			return m, tea.Quit

		case "enter":
			message := m.textInput.Value()
			if message == "" {
				return m, nil
			}
			return m, m.commitWithMessage(message)

		default:
			m.textInput, cmd = m.textInput.Update(msg)
			return m, cmd
		}

	case commitCompleteMsg:
		m.committed = true
		m.err = msg.err
		return m, tea.Quit

	default:
		m.textInput, cmd = m.textInput.Update(msg)
		return m, cmd
	}
}

func (m CommitInputModel) View() string {
	if m.committed {
		if m.err != nil {
			return m.errorStyle.Render(fmt.Sprintf("Commit failed: %v", m.err)) + "\n"
		}
		return acceptedStyle.Render("Commit successful!") + "\n"
	}

	help := m.helpStyle.Render("enter: check and commit | esc: cancel")
	return lipgloss.JoinVertical(lipgloss.Left,
		m.titleStyle.Render("Commit Changes"),
		"",
		m.textInput.View(),
		"",
		help,
	)
}

func (m CommitInputModel) commitWithMessage(message string) tea.Cmd {
	return func() tea.Msg {
		return commitCompleteMsg{err: m.commit(message)}
	}
}

var ErrCommitCancelled = errors.New("commit cancelled")

// StartCommitInput prompts for a commit message and runs commit with it.
func StartCommitInput(commit CommitFunc) error {
	p := tea.NewProgram(NewCommitInputModel(commit))
	model, err := p.Run()
	if err != nil {
		return err
	}

	finalModel, ok := model.(CommitInputModel)
	if !ok {
		return nil
	}
	if finalModel.cancelled {
		return ErrCommitCancelled
	}
	return finalModel.err
}
