package vector

import (
	"context"

	"assistente/llm"
)

// VectorStore defines the interface for vector storage operations. The
// index is built once per setup and is immutable afterwards, so there
// is no incremental update surface.
type VectorStore interface {
	// AddBatch embeds and stores multiple documents in a single operation
	AddBatch(ctx context.Context, docs []llm.Document) error

	// Search performs semantic search and returns top-k results
	Search(ctx context.Context, query string, topK int) ([]llm.SearchResult, error)

	// Count returns the total number of documents in the store
	Count(ctx context.Context) (int64, error)

	// Close closes any connections or resources
	Close() error
}

// StoreConfig holds configuration for vector store implementations
type StoreConfig struct {
	// Embedding dimension (must match the embedding model)
	EmbeddingDim int

	// Index name for the vector index
	IndexName string

	// Key prefix for stored documents
	KeyPrefix string
}

// DefaultStoreConfig returns default configuration
func DefaultStoreConfig() StoreConfig {
	return StoreConfig{
		EmbeddingDim: GetEmbeddingDimFromEnv(),
		IndexName:    getEnvString("VECTOR_INDEX_NAME", "assistente-conhecimento"),
		KeyPrefix:    "vec:",
	}
}
