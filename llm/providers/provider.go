// Package providers builds the chat and embedding models from
// environment configuration. Both run against Google's Gemini API with
// a single GOOGLE_API_KEY credential.
package providers

import (
	"context"
	"fmt"
	"os"

	"assistente/llm"

	openaiEmbed "github.com/cloudwego/eino-ext/components/embedding/openai"
	geminiModel "github.com/cloudwego/eino-ext/components/model/gemini"
	einoEmbedding "github.com/cloudwego/eino/components/embedding"
	"github.com/cloudwego/eino/components/model"
	"google.golang.org/genai"
)

const (
	defaultChatModel      = "gemini-1.5-flash"
	defaultEmbeddingModel = "text-embedding-004"

	// Gemini's OpenAI-compatible surface, used for embeddings so the
	// same credential serves both models.
	defaultEmbeddingBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai/"
)

// ChatModelConfig defines the configuration for creating a chat model.
type ChatModelConfig struct {
	APIKey string
	Model  string
}

// NewChatModel creates a Gemini chat model from specific configuration.
func NewChatModel(ctx context.Context, config *ChatModelConfig) (model.BaseChatModel, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("%w: chat model needs an API key", llm.ErrMissingCredential)
	}

	modelName := config.Model
	if modelName == "" {
		modelName = defaultChatModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: config.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return geminiModel.NewChatModel(ctx, &geminiModel.Config{
		Client: client,
		Model:  modelName,
	})
}

// CreateChatModel creates the Gemini chat model from environment
// variables.
//
// Required:
//   - GOOGLE_API_KEY: Gemini API key
//
// Optional:
//   - GEMINI_MODEL: chat model name (default: gemini-1.5-flash)
func CreateChatModel(ctx context.Context) (model.BaseChatModel, error) {
	apiKey := os.Getenv("GOOGLE_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("%w: GOOGLE_API_KEY environment variable is required", llm.ErrMissingCredential)
	}

	return NewChatModel(ctx, &ChatModelConfig{
		APIKey: apiKey,
		Model:  os.Getenv("GEMINI_MODEL"),
	})
}

// EmbeddingConfig defines the configuration for creating an embedding model.
type EmbeddingConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

// NewEmbeddingModel creates an OpenAI-compatible embedding model from
// specific configuration.
func NewEmbeddingModel(ctx context.Context, config *EmbeddingConfig) (einoEmbedding.Embedder, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("%w: embedding model needs an API key", llm.ErrMissingCredential)
	}

	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = defaultEmbeddingBaseURL
	}

	modelName := config.Model
	if modelName == "" {
		modelName = defaultEmbeddingModel
	}

	return openaiEmbed.NewEmbedder(ctx, &openaiEmbed.EmbeddingConfig{
		APIKey:  config.APIKey,
		BaseURL: baseURL,
		Model:   modelName,
	})
}

// CreateEmbeddingModel creates the embedding model from environment
// variables.
//
// Required:
//   - GOOGLE_API_KEY: Gemini API key
//
// Optional:
//   - EMBEDDING_MODEL: embedding model name (default: text-embedding-004)
//   - EMBEDDING_BASE_URL: OpenAI-compatible endpoint
func CreateEmbeddingModel(ctx context.Context) (einoEmbedding.Embedder, error) {
	apiKey := os.Getenv("GOOGLE_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("%w: GOOGLE_API_KEY environment variable is required", llm.ErrMissingCredential)
	}

	return NewEmbeddingModel(ctx, &EmbeddingConfig{
		APIKey:  apiKey,
		BaseURL: os.Getenv("EMBEDDING_BASE_URL"),
		Model:   os.Getenv("EMBEDDING_MODEL"),
	})
}
