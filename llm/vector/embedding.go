package vector

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/embedding"
)

// EmbeddingService wraps an eino embedder and normalizes its output to
// float32 vectors for the stores.
type EmbeddingService struct {
	embedder embedding.Embedder
	dim      int
}

// NewEmbeddingService creates a new embedding service. A non-positive
// dim falls back to the environment default.
func NewEmbeddingService(embedder embedding.Embedder, dim int) *EmbeddingService {
	if dim <= 0 {
		dim = GetEmbeddingDimFromEnv()
	}
	return &EmbeddingService{
		embedder: embedder,
		dim:      dim,
	}
}

// Embed converts a single text into a vector
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := s.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("embedder returned no vector")
	}
	return vectors[0], nil
}

// EmbedBatch converts a batch of texts into vectors, preserving order
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	raw, err := s.embedder.EmbedStrings(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("failed to embed texts: %w", err)
	}
	if len(raw) != len(texts) {
		return nil, fmt.Errorf("embedder returned %d vectors for %d texts", len(raw), len(texts))
	}

	vectors := make([][]float32, len(raw))
	for i, v := range raw {
		vec := make([]float32, len(v))
		for j, f := range v {
			vec[j] = float32(f)
		}
		vectors[i] = vec
	}
	return vectors, nil
}

// Dimension returns the configured embedding dimension
func (s *EmbeddingService) Dimension() int {
	return s.dim
}

// GetEmbeddingDimFromEnv reads the embedding dimension from the
// EMBEDDING_DIM environment variable, defaulting to 768.
func GetEmbeddingDimFromEnv() int {
	return getEnvInt("EMBEDDING_DIM", 768)
}
