// Package rag answers questions grounded in the vector index: retrieve
// the most similar chunks, stuff them into a prompt, generate.
package rag

import (
	"context"
	"fmt"

	"assistente/llm"
	"assistente/llm/vector"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

const (
	defaultTopK        = 4
	defaultTemperature = 0.3
)

// EngineConfig tunes retrieval and generation.
type EngineConfig struct {
	// TopK is how many chunks are retrieved per question.
	TopK int

	// Temperature is passed to the chat model. Nil takes the 0.3
	// default; an explicit zero means near-greedy decoding.
	Temperature *float32

	// ReturnSources includes the retrieved chunks in every answer.
	ReturnSources bool
}

// Engine answers questions against a vector store.
type Engine struct {
	store         vector.VectorStore
	chat          model.BaseChatModel
	topK          int
	temperature   float32
	returnSources bool
}

// Answer is one grounded reply.
type Answer struct {
	Text string

	// Sources holds the retrieved chunks when the engine is configured
	// to return them.
	Sources []llm.SearchResult
}

// NewEngine creates an answer engine over the given store and model.
func NewEngine(store vector.VectorStore, chat model.BaseChatModel, cfg EngineConfig) *Engine {
	topK := cfg.TopK
	if topK <= 0 {
		topK = defaultTopK
	}
	temperature := float32(defaultTemperature)
	if cfg.Temperature != nil {
		temperature = *cfg.Temperature
	}
	return &Engine{
		store:         store,
		chat:          chat,
		topK:          topK,
		temperature:   temperature,
		returnSources: cfg.ReturnSources,
	}
}

// Answer retrieves the top-k chunks for the question, builds the stuff
// prompt and generates a reply. Retrieval or generation failures are
// returned to the caller; the session layer decides how to present
// them.
func (e *Engine) Answer(ctx context.Context, question string) (*Answer, error) {
	results, err := e.store.Search(ctx, question, e.topK)
	if err != nil {
		return nil, fmt.Errorf("failed to search knowledge base: %w", err)
	}

	prompt := BuildPrompt(results, question)

	msg, err := e.chat.Generate(ctx,
		[]*schema.Message{schema.UserMessage(prompt)},
		model.WithTemperature(e.temperature),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to generate answer: %w", err)
	}

	answer := &Answer{Text: msg.Content}
	if e.returnSources {
		answer.Sources = results
	}
	return answer, nil
}
