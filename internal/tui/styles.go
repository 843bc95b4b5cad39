package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles contains all styling for the lobby client.
type Styles struct {
	Header     lipgloss.Style
	Tab        lipgloss.Style
	ActiveTab  lipgloss.Style
	Cursor     lipgloss.Style
	OpenMarker lipgloss.Style
	SeatYou    lipgloss.Style
	SeatEmpty  lipgloss.Style
	ChatFrom   lipgloss.Style
	Modal      lipgloss.Style
	Help       lipgloss.Style
}

// DefaultStyles returns the default color scheme.
func DefaultStyles() *Styles {
	return &Styles{
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62")).
			Padding(0, 1),
		Tab: lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Padding(0, 1),
		ActiveTab: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			Underline(true).
			Padding(0, 1),
		Cursor: lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")),
		OpenMarker: lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")),
		SeatYou: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("42")),
		SeatEmpty: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")),
		ChatFrom: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")),
		Modal: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2),
		Help: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")),
	}
}
