// Package chat is the bubbletea chat front-end. The knowledge base is
// loaded inside the TUI so the spinner can show setup progress.
package chat

import (
	"context"
	"fmt"
	"strings"

	"assistente/cli"
	"assistente/llm"
	"assistente/llm/rag"
	"assistente/pipeline"
	"assistente/pubsub"
	"assistente/tui/component"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// setupResultMsg carries the pipeline setup outcome back into Update
type setupResultMsg struct {
	pipe *pipeline.Pipeline
	err  error
}

// Model is the chat screen
type Model struct {
	list   component.ListModel
	edit   component.EditModel
	status component.StatusModel

	manager *pipeline.Manager
	cfg     pipeline.Config
	session *rag.Session
	sub     <-chan pubsub.Event[llm.ConversationTurn]
	ctx     context.Context
	busy    bool

	width  int
	height int
	err    error
}

// InitialModel creates the chat screen; the knowledge base is not
// loaded yet.
func InitialModel(manager *pipeline.Manager, cfg pipeline.Config) Model {
	// The spinner starts immediately: setup begins as soon as the
	// program runs.
	status, _ := component.NewStatusModel().Start("Analisando e carregando a base de conhecimento...")

	return Model{
		list:    component.NewListModel(),
		edit:    component.NewEditModel(),
		status:  status,
		manager: manager,
		cfg:     cfg,
		ctx:     context.Background(),
	}
}

// Err returns the fatal setup error, if any, after the program exits
func (m Model) Err() error {
	return m.err
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.list.Init(),
		m.edit.Init(),
		m.status.Tick(),
		m.runSetup(),
	)
}

// runSetup builds the pipeline off the UI loop
func (m Model) runSetup() tea.Cmd {
	return func() tea.Msg {
		pipe, err := m.manager.Setup(m.ctx, m.cfg)
		return setupResultMsg{pipe: pipe, err: err}
	}
}

// waitForTurn blocks on the session broker for the next event
func (m Model) waitForTurn() tea.Cmd {
	return func() tea.Msg {
		return <-m.sub
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		statusHeight := lipgloss.Height(m.status.View())
		editHeight := m.edit.Height()
		listHeight := m.height - statusHeight - editHeight

		m.list.SetSize(m.width, listHeight)
		m.edit.SetWidth(m.width)
		m.status.SetWidth(m.width)

	case setupResultMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		m.session = rag.NewSession(msg.pipe.Engine)
		m.sub = m.session.Broker().Subscribe(m.ctx)
		m.status.Stop("Pronto")

		banner := fmt.Sprintf("Base de conhecimento carregada: %d documentos, %d trechos indexados.",
			msg.pipe.DocumentCount, msg.pipe.ChunkCount)
		var warnings []string
		for _, f := range msg.pipe.Failures {
			warnings = append(warnings, fmt.Sprintf("Aviso: %s não pôde ser carregado (%s)", f.Path, f.Err))
		}
		m.list.SetBanner(banner, warnings)

		cmds = append(cmds, m.waitForTurn())

	case component.EditorSubmitMsg:
		if m.session == nil {
			break
		}
		if cli.IsExitCommand(msg.Value) {
			return m, tea.Quit
		}
		question := strings.TrimSpace(msg.Value)
		if question == "" {
			break
		}
		// One question at a time: submissions while an answer is in
		// flight are dropped until its FinishedEvent arrives.
		if m.busy {
			break
		}
		m.busy = true
		// Ask publishes the turns; the broker subscription feeds them
		// back into the transcript.
		go m.session.Ask(m.ctx, question)

	case pubsub.Event[llm.ConversationTurn]:
		if msg.Type == pubsub.FinishedEvent {
			m.busy = false
		}
		cmds = append(cmds, m.waitForTurn())
		// list and status handle the event below

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd

	m.list, cmd = m.list.Update(msg)
	cmds = append(cmds, cmd)

	m.edit, cmd = m.edit.Update(msg)
	cmds = append(cmds, cmd)

	m.status, cmd = m.status.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.list.View(),
		m.status.View(),
		m.edit.View(),
	)
}
