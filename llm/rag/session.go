package rag

import (
	"context"
	"fmt"
	"sync"

	"assistente/llm"
	"assistente/pubsub"
)

// Session holds one conversation: the turn history and a broker that
// pushes new turns to whoever is rendering them. Engine failures never
// escape a turn; they become an apology reply and the conversation
// keeps going.
type Session struct {
	engine *Engine
	broker *pubsub.Broker[llm.ConversationTurn]

	mu    sync.Mutex
	turns []llm.ConversationTurn
}

// NewSession creates a session over an answer engine
func NewSession(engine *Engine) *Session {
	return &Session{
		engine: engine,
		broker: pubsub.NewBroker[llm.ConversationTurn](),
	}
}

// Ask records the user turn, answers it and records the assistant
// turn. When the engine fails, the assistant turn carries an apology
// naming the error instead of an answer. The retrieved sources come
// back alongside the reply when the engine returns them.
func (s *Session) Ask(ctx context.Context, question string) (string, []llm.SearchResult) {
	userTurn := llm.ConversationTurn{Role: llm.RoleUser, Content: question}
	s.appendTurn(userTurn)
	s.broker.Publish(pubsub.CreatedEvent, userTurn)

	var reply string
	var sources []llm.SearchResult

	answer, err := s.engine.Answer(ctx, question)
	if err != nil {
		reply = fmt.Sprintf("Desculpe, ocorreu um erro ao processar sua pergunta: %v", err)
	} else {
		reply = answer.Text
		sources = answer.Sources
	}

	assistantTurn := llm.ConversationTurn{Role: llm.RoleAssistant, Content: reply}
	s.appendTurn(assistantTurn)
	s.broker.Publish(pubsub.CreatedEvent, assistantTurn)
	s.broker.Publish(pubsub.FinishedEvent, assistantTurn)

	return reply, sources
}

func (s *Session) appendTurn(turn llm.ConversationTurn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns = append(s.turns, turn)
}

// History returns a copy of the conversation so far
func (s *Session) History() []llm.ConversationTurn {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]llm.ConversationTurn, len(s.turns))
	copy(out, s.turns)
	return out
}

// Broker exposes the turn broker for UI subscriptions
func (s *Session) Broker() *pubsub.Broker[llm.ConversationTurn] {
	return s.broker
}

// Close shuts the broker down
func (s *Session) Close() {
	s.broker.Shutdown()
}
