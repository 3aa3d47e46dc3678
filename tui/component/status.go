package component

import (
	"fmt"

	"assistente/llm"
	"assistente/pubsub"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	statusReady      = "Pronto"
	statusProcessing = "Buscando na base de conhecimento..."
)

// StatusModel shows the spinner and status line
type StatusModel struct {
	spinner spinner.Model
	running bool
	text    string
	width   int
}

// NewStatusModel creates the status component
func NewStatusModel() StatusModel {
	s := spinner.New()
	s.Spinner = spinner.Jump
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return StatusModel{
		spinner: s,
		running: false,
		text:    statusReady,
	}
}

// Init implements tea.Model; the spinner starts on demand
func (m StatusModel) Init() tea.Cmd {
	return nil
}

// Update reacts to conversation events and spinner ticks
func (m StatusModel) Update(msg tea.Msg) (StatusModel, tea.Cmd) {
	switch msg := msg.(type) {
	case pubsub.Event[llm.ConversationTurn]:
		switch msg.Type {
		case pubsub.CreatedEvent:
			// A user turn starts the spinner; assistant turns are
			// followed by FinishedEvent which stops it.
			if msg.Payload.Role == llm.RoleUser && !m.running {
				m.running = true
				m.text = statusProcessing
				return m, m.spinner.Tick
			}
		case pubsub.FinishedEvent:
			if m.running {
				m.running = false
				m.text = statusReady
				return m, nil
			}
		}
	}

	if m.running {
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View renders the status line
func (m StatusModel) View() string {
	style := lipgloss.NewStyle().Padding(1, 0)
	content := m.text
	if m.running {
		content = fmt.Sprintf("%s %s", m.spinner.View(), m.text)
	}
	return style.Render(content)
}

// Start starts the spinner with the given text
func (m StatusModel) Start(text string) (StatusModel, tea.Cmd) {
	m.running = true
	m.text = text
	return m, m.spinner.Tick
}

// Tick returns the spinner tick command for a running status
func (m StatusModel) Tick() tea.Cmd {
	return m.spinner.Tick
}

// Stop stops the spinner and shows text
func (m *StatusModel) Stop(text string) {
	m.running = false
	m.text = text
}

// SetWidth sets the component width
func (m *StatusModel) SetWidth(width int) {
	m.width = width
}

// IsRunning reports whether the spinner is active
func (m StatusModel) IsRunning() bool {
	return m.running
}
