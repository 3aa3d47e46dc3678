package rag

import (
	"context"
	"errors"
	"strings"
	"testing"

	"assistente/llm"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

// fakeStore returns canned search results.
type fakeStore struct {
	results []llm.SearchResult
	err     error
}

func (f *fakeStore) AddBatch(ctx context.Context, docs []llm.Document) error { return nil }
func (f *fakeStore) Count(ctx context.Context) (int64, error)                { return int64(len(f.results)), nil }
func (f *fakeStore) Close() error                                            { return nil }

func (f *fakeStore) Search(ctx context.Context, query string, topK int) ([]llm.SearchResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	if len(f.results) > topK {
		return f.results[:topK], nil
	}
	return f.results, nil
}

// fakeChatModel records the prompt and options it was given and
// replies with a fixed message.
type fakeChatModel struct {
	reply           string
	err             error
	lastPrompt      string
	lastTemperature *float32
}

func (f *fakeChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	if len(input) > 0 {
		f.lastPrompt = input[len(input)-1].Content
	}
	f.lastTemperature = model.GetCommonOptions(nil, opts...).Temperature
	if f.err != nil {
		return nil, f.err
	}
	return schema.AssistantMessage(f.reply, nil), nil
}

func (f *fakeChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("streaming not supported")
}

func supportResults() []llm.SearchResult {
	return []llm.SearchResult{
		{Document: llm.Document{ID: "1", Content: "Férias devem ser solicitadas com 30 dias de antecedência.", Source: "rh.md"}, Score: 0.92},
		{Document: llm.Document{ID: "2", Content: "O reembolso de despesas exige nota fiscal.", Source: "financeiro.md"}, Score: 0.81},
	}
}

func TestEngineStuffsRetrievedChunks(t *testing.T) {
	store := &fakeStore{results: supportResults()}
	chat := &fakeChatModel{reply: "Solicite com 30 dias de antecedência."}
	engine := NewEngine(store, chat, EngineConfig{TopK: 4})

	question := "Como solicito férias?"
	answer, err := engine.Answer(context.Background(), question)
	if err != nil {
		t.Fatalf("Answer: %v", err)
	}
	if answer.Text != chat.reply {
		t.Errorf("answer = %q, want the model reply", answer.Text)
	}

	for _, r := range supportResults() {
		if !strings.Contains(chat.lastPrompt, r.Document.Content) {
			t.Errorf("prompt missing retrieved chunk %q", r.Document.Content)
		}
	}
	if !strings.Contains(chat.lastPrompt, question) {
		t.Error("prompt missing the question")
	}
	if !strings.Contains(chat.lastPrompt, "Helpful Answer:") {
		t.Error("prompt missing the answer cue")
	}
	if !strings.Contains(chat.lastPrompt, "just say that you don't know") {
		t.Error("prompt missing the grounding instruction")
	}
}

func TestEngineSourcesToggle(t *testing.T) {
	store := &fakeStore{results: supportResults()}
	chat := &fakeChatModel{reply: "ok"}

	withSources := NewEngine(store, chat, EngineConfig{ReturnSources: true})
	answer, err := withSources.Answer(context.Background(), "pergunta")
	if err != nil {
		t.Fatalf("Answer: %v", err)
	}
	if len(answer.Sources) != 2 {
		t.Errorf("expected 2 sources, got %d", len(answer.Sources))
	}

	withoutSources := NewEngine(store, chat, EngineConfig{})
	answer, err = withoutSources.Answer(context.Background(), "pergunta")
	if err != nil {
		t.Fatalf("Answer: %v", err)
	}
	if answer.Sources != nil {
		t.Errorf("expected no sources, got %d", len(answer.Sources))
	}
}

func TestEngineTemperature(t *testing.T) {
	store := &fakeStore{results: supportResults()}

	// Unset temperature falls back to the 0.3 default.
	chat := &fakeChatModel{reply: "ok"}
	engine := NewEngine(store, chat, EngineConfig{})
	if _, err := engine.Answer(context.Background(), "pergunta"); err != nil {
		t.Fatalf("Answer: %v", err)
	}
	if chat.lastTemperature == nil || *chat.lastTemperature != 0.3 {
		t.Errorf("default temperature = %v, want 0.3", chat.lastTemperature)
	}

	// An explicit zero reaches the model for near-greedy decoding.
	zero := float32(0)
	chat = &fakeChatModel{reply: "ok"}
	engine = NewEngine(store, chat, EngineConfig{Temperature: &zero})
	if _, err := engine.Answer(context.Background(), "pergunta"); err != nil {
		t.Fatalf("Answer: %v", err)
	}
	if chat.lastTemperature == nil || *chat.lastTemperature != 0 {
		t.Errorf("explicit zero temperature = %v, want 0", chat.lastTemperature)
	}
}

func TestEnginePropagatesFailures(t *testing.T) {
	searchErr := errors.New("index unavailable")
	engine := NewEngine(&fakeStore{err: searchErr}, &fakeChatModel{reply: "ok"}, EngineConfig{})
	if _, err := engine.Answer(context.Background(), "pergunta"); !errors.Is(err, searchErr) {
		t.Errorf("expected the search error, got %v", err)
	}

	genErr := errors.New("model offline")
	engine = NewEngine(&fakeStore{results: supportResults()}, &fakeChatModel{err: genErr}, EngineConfig{})
	if _, err := engine.Answer(context.Background(), "pergunta"); !errors.Is(err, genErr) {
		t.Errorf("expected the generation error, got %v", err)
	}
}

func TestBuildPromptEmptyResults(t *testing.T) {
	prompt := BuildPrompt(nil, "Qual é a política de férias?")
	if !strings.Contains(prompt, "Qual é a política de férias?") {
		t.Error("prompt missing the question")
	}
	if !strings.Contains(prompt, "Question:") {
		t.Error("prompt missing the question label")
	}
}
