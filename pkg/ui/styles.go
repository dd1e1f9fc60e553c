// Package ui holds the shared terminal look of devbox.
package ui

import (
	"io"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Palette
var (
	ColorAccent  = lipgloss.Color("39")  // Cyan
	ColorSuccess = lipgloss.Color("40")  // Green
	ColorError   = lipgloss.Color("196") // Red
	ColorWarning = lipgloss.Color("214") // Orange
	ColorMuted   = lipgloss.Color("244") // Gray
)

// Symbols used in front of result lines.
const (
	SymbolOK      = "✓"
	SymbolFail    = "✗"
	SymbolSkip    = "-"
	SymbolPending = "•"
)

// Theme returns the custom theme for huh forms.
func Theme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = t.Focused.Title.Foreground(ColorAccent)
	t.Focused.Description = t.Focused.Description.Foreground(lipgloss.Color("8"))
	t.Focused.SelectedOption = t.Focused.SelectedOption.Foreground(ColorSuccess).Bold(true)

	return t
}

// Styles is a set of lipgloss styles bound to one renderer, so output to a
// pipe or file stays free of escape codes.
type Styles struct {
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Success  lipgloss.Style
	Error    lipgloss.Style
	Warning  lipgloss.Style
	Info     lipgloss.Style
	Muted    lipgloss.Style
}

// NewStyles returns styles that render for w.
func NewStyles(w io.Writer) Styles {
	r := lipgloss.NewRenderer(w)
	return Styles{
		Title:    r.NewStyle().Bold(true).Foreground(ColorAccent),
		Subtitle: r.NewStyle().Foreground(lipgloss.Color("8")).Italic(true),
		Success:  r.NewStyle().Foreground(ColorSuccess).Bold(true),
		Error:    r.NewStyle().Foreground(ColorError).Bold(true),
		Warning:  r.NewStyle().Foreground(ColorWarning),
		Info:     r.NewStyle().Foreground(ColorAccent),
		Muted:    r.NewStyle().Foreground(ColorMuted),
	}
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Interactive reports whether devbox can run full-screen prompts: both stdin
// and stdout must be terminals.
func Interactive() bool {
	return IsTerminal(os.Stdin) && IsTerminal(os.Stdout)
}
