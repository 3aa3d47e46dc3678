package component

import (
	"assistente/llm"
	"assistente/pubsub"
	"assistente/tui/component/renderer"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

const welcomeText = "Assistente de Suporte Interno\nAguarde enquanto a base de conhecimento é carregada."

// ListModel shows the conversation transcript. It stores the turns and
// manages the viewport; rendering is delegated to the TurnRenderer.
type ListModel struct {
	viewport viewport.Model
	turns    []llm.ConversationTurn
	banner   string
	width    int
	height   int
	ready    bool

	renderer *renderer.TurnRenderer
}

// NewListModel creates the transcript component
func NewListModel() ListModel {
	vp := viewport.New(30, 30)
	vp.SetContent(welcomeText)

	return ListModel{
		viewport: vp,
		turns:    make([]llm.ConversationTurn, 0),
		renderer: renderer.NewTurnRenderer(nil),
		width:    30,
		height:   5,
		ready:    true,
	}
}

// Init implements tea.Model
func (m ListModel) Init() tea.Cmd {
	return nil
}

// Update appends published turns and handles scrolling
func (m ListModel) Update(msg tea.Msg) (ListModel, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.MouseMsg:
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			m.viewport.ScrollUp(3)
		case tea.MouseButtonWheelDown:
			m.viewport.ScrollDown(3)
		}
	case pubsub.Event[llm.ConversationTurn]:
		if msg.Type == pubsub.CreatedEvent {
			m.turns = append(m.turns, msg.Payload)
			m.updateViewportContent()
			m.viewport.GotoBottom()
		}
		return m, nil
	}

	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the transcript viewport
func (m ListModel) View() string {
	if !m.ready {
		return "Inicializando..."
	}
	return m.viewport.View()
}

// SetBanner installs the setup banner shown above the transcript
func (m *ListModel) SetBanner(banner string, warnings []string) {
	m.banner = m.renderer.RenderBanner(banner, warnings)
	m.updateViewportContent()
	m.viewport.GotoBottom()
}

// SetSize sets the component dimensions
func (m *ListModel) SetSize(width, height int) {
	m.width = width
	m.height = height

	if height < 1 {
		height = 1
	}

	m.viewport.Width = width
	m.viewport.Height = height
	m.ready = true

	m.renderer.SetViewportWidth(width)

	if len(m.turns) > 0 || m.banner != "" {
		m.updateViewportContent()
	}
	m.viewport.GotoBottom()
}

func (m *ListModel) updateViewportContent() {
	content := m.renderer.RenderTurns(m.turns)
	if m.banner != "" {
		if content == "" {
			content = m.banner
		} else {
			content = m.banner + "\n\n" + content
		}
	}
	if content == "" {
		content = welcomeText
	}
	m.viewport.SetContent(content)
}
