package renderer

import (
	"github.com/charmbracelet/lipgloss"
)

// TurnStyles configures how conversation turns are colored
type TurnStyles struct {
	User      lipgloss.Style
	Assistant lipgloss.Style
	Banner    lipgloss.Style
	Warning   lipgloss.Style
}

// DefaultTurnStyles returns the default style configuration
func DefaultTurnStyles() *TurnStyles {
	return &TurnStyles{
		User:      lipgloss.NewStyle().Foreground(lipgloss.Color("#7dcfff")).Bold(true),
		Assistant: lipgloss.NewStyle().Foreground(lipgloss.Color("#bb9af7")).Bold(true),
		Banner:    lipgloss.NewStyle().Foreground(lipgloss.Color("#9ece6a")),
		Warning:   lipgloss.NewStyle().Foreground(lipgloss.Color("#e0af68")).Italic(true),
	}
}
