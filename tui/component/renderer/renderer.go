// Package renderer turns conversation turns into styled terminal text.
package renderer

import (
	"strings"

	"assistente/llm"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

// TurnRenderer renders a conversation transcript. Assistant turns go
// through a Markdown renderer; user turns stay as plain text.
type TurnRenderer struct {
	markdownRenderer *glamour.TermRenderer
	styles           *TurnStyles

	// renderedCache holds already rendered turns so only the newest
	// turn is re-rendered on update
	renderedCache []string
	viewportWidth int
}

// NewTurnRenderer creates a renderer with the given styles (nil means
// defaults).
func NewTurnRenderer(styles *TurnStyles) *TurnRenderer {
	if styles == nil {
		styles = DefaultTurnStyles()
	}

	// Word wrap is handled by the viewport width, not glamour.
	markdownRenderer, _ := glamour.NewTermRenderer(
		glamour.WithStylePath("dracula"),
		glamour.WithWordWrap(0),
	)
	return &TurnRenderer{
		markdownRenderer: markdownRenderer,
		styles:           styles,
		renderedCache:    make([]string, 0),
	}
}

// SetViewportWidth sets the wrapping width
func (r *TurnRenderer) SetViewportWidth(width int) {
	r.viewportWidth = width
}

// RenderBanner styles the setup banner shown above the transcript
func (r *TurnRenderer) RenderBanner(banner string, warnings []string) string {
	var sb strings.Builder
	sb.WriteString(r.styles.Banner.Render(banner))
	for _, w := range warnings {
		sb.WriteString("\n")
		sb.WriteString(r.styles.Warning.Render(w))
	}
	return sb.String()
}

// RenderTurns renders the whole transcript, reusing cached renders for
// everything but the newest turn.
func (r *TurnRenderer) RenderTurns(turns []llm.ConversationTurn) string {
	if len(turns) == 0 {
		return ""
	}

	// Transcript shrank (new session): drop the cache.
	if len(turns) < len(r.renderedCache) {
		r.renderedCache = r.renderedCache[:0]
	}

	for i := len(r.renderedCache); i < len(turns)-1; i++ {
		r.renderedCache = append(r.renderedCache, r.RenderTurn(turns[i]))
	}

	var sb strings.Builder
	for _, cached := range r.renderedCache {
		if cached != "" {
			sb.WriteString(cached)
			sb.WriteString("\n\n")
		}
	}
	if last := r.RenderTurn(turns[len(turns)-1]); last != "" {
		sb.WriteString(last)
	}

	content := sb.String()
	if r.viewportWidth > 0 {
		return lipgloss.NewStyle().Width(r.viewportWidth).Render(content)
	}
	return content
}

// RenderTurn renders a single conversation turn
func (r *TurnRenderer) RenderTurn(turn llm.ConversationTurn) string {
	if turn.Content == "" {
		return ""
	}
	switch turn.Role {
	case llm.RoleUser:
		return r.styles.User.Render("Você:") + " " + turn.Content
	case llm.RoleAssistant:
		return r.styles.Assistant.Render("Assistente:") + "\n" + r.renderMarkdown(turn.Content)
	}
	return ""
}

// renderMarkdown renders assistant Markdown, falling back to the raw
// text when glamour fails.
func (r *TurnRenderer) renderMarkdown(content string) string {
	if r.markdownRenderer == nil {
		return content
	}
	rendered, err := r.markdownRenderer.Render(content)
	if err != nil {
		return content
	}
	return strings.TrimSpace(rendered)
}
