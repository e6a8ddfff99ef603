package reviewtui

import "github.com/charmbracelet/lipgloss"

var styles = struct {
	title lipgloss.Style
	ok    lipgloss.Style
	err   lipgloss.Style
	warn  lipgloss.Style
}{
	title: lipgloss.NewStyle().Bold(true),
	ok:    lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
	err:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	warn:  lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
}
