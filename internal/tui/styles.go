package tui

import "github.com/charmbracelet/lipgloss"

// Styles groups the lipgloss styles of the explorer.
type Styles struct {
	Title    lipgloss.Style
	Label    lipgloss.Style
	Result   lipgloss.Style
	Selected lipgloss.Style
	Chip     lipgloss.Style
	Spark    lipgloss.Style
	Muted    lipgloss.Style
	Error    lipgloss.Style
}

// DefaultStyles returns the explorer's colour scheme.
func DefaultStyles() Styles {
	return Styles{
		Title: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ffffff")).
			Background(lipgloss.Color("#3b5bdb")).
			Padding(0, 2).
			Bold(true),
		Label: lipgloss.NewStyle().
			Bold(true),
		Result: lipgloss.NewStyle().
			PaddingLeft(2),
		Selected: lipgloss.NewStyle().
			PaddingLeft(1).
			Foreground(lipgloss.Color("#3b5bdb")).
			Bold(true),
		Chip: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ffffff")).
			Background(lipgloss.Color("#5c7cfa")).
			Padding(0, 1).
			MarginRight(1),
		Spark: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#37b24d")),
		Muted: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#868e96")),
		Error: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e03131")),
	}
}
