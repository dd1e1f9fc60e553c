package consent

import (
	"context"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jaspreet-dot-casa/devbox/pkg/installer"
	"github.com/jaspreet-dot-casa/devbox/pkg/ui"
)

// Keypress asks with a single-key yes/no dialog.
type Keypress struct {
	In  io.Reader
	Out io.Writer
	// OnInterrupt is called when the user presses ctrl+c.
	OnInterrupt func()
}

// Confirm implements installer.ConsentProvider.
func (k *Keypress) Confirm(ctx context.Context, p installer.Prompt) (bool, error) {
	m := confirmModel{question: p.Question(), description: p.Description}

	opts := []tea.ProgramOption{tea.WithContext(ctx)}
	if k.In != nil {
		opts = append(opts, tea.WithInput(k.In))
	}
	if k.Out != nil {
		opts = append(opts, tea.WithOutput(k.Out))
	}

	result, err := tea.NewProgram(m, opts...).Run()
	if err != nil {
		return false, fmt.Errorf("confirm dialog failed: %w", err)
	}

	final := result.(confirmModel)
	if final.interrupted {
		if k.OnInterrupt != nil {
			k.OnInterrupt()
		}
		return false, ErrInterrupted
	}
	return final.confirmed, nil
}

// confirmModel is a yes/no dialog. Keys other than the answers are ignored.
type confirmModel struct {
	question    string
	description string
	confirmed   bool
	interrupted bool
	done        bool
}

// Init implements tea.Model.
func (m confirmModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "y", "Y":
			m.confirmed = true
			m.done = true
			return m, tea.Quit
		case "n", "N", "esc":
			m.confirmed = false
			m.done = true
			return m, tea.Quit
		case "ctrl+c":
			m.interrupted = true
			m.done = true
			return m, tea.Quit
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m confirmModel) View() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(ui.ColorAccent)
	hintStyle := lipgloss.NewStyle().Foreground(ui.ColorMuted)

	question := titleStyle.Render(m.question)
	if m.description != "" {
		question += " " + hintStyle.Render("("+m.description+")")
	}

	if m.done {
		answer := "no"
		switch {
		case m.interrupted:
			answer = "interrupted"
		case m.confirmed:
			answer = "yes"
		}
		return fmt.Sprintf("%s %s\n", question, answer)
	}
	return fmt.Sprintf("%s %s ", question, hintStyle.Render("[y/n]"))
}
