package vector

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"assistente/llm"

	"github.com/cloudwego/eino/components/embedding"
)

// MemoryStore implements VectorStore with an in-process index and
// brute-force cosine similarity. It is the default backend: the index
// lives for one run and is rebuilt from the knowledge base on the next.
type MemoryStore struct {
	embeddingSvc *EmbeddingService

	mu      sync.RWMutex
	entries []memoryEntry // insertion order
}

type memoryEntry struct {
	doc    llm.Document
	vector []float32
}

// NewMemoryStore creates a new in-memory vector store
func NewMemoryStore(embedder embedding.Embedder) (*MemoryStore, error) {
	if embedder == nil {
		return nil, fmt.Errorf("embedding model is required")
	}
	return &MemoryStore{
		embeddingSvc: NewEmbeddingService(embedder, 0),
	}, nil
}

// AddBatch embeds and stores multiple documents in a single operation
func (s *MemoryStore) AddBatch(ctx context.Context, docs []llm.Document) error {
	if len(docs) == 0 {
		return nil
	}

	texts := make([]string, len(docs))
	for i, doc := range docs {
		texts[i] = doc.Content
	}

	vectors, err := s.embeddingSvc.EmbedBatch(ctx, texts)
	if err != nil {
		return fmt.Errorf("failed to generate embeddings: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, doc := range docs {
		s.entries = append(s.entries, memoryEntry{doc: doc, vector: vectors[i]})
	}
	return nil
}

// Search performs brute-force cosine search over every stored vector.
// Results are ordered by descending similarity; equal scores keep
// insertion order.
func (s *MemoryStore) Search(ctx context.Context, query string, topK int) ([]llm.SearchResult, error) {
	if query == "" {
		return nil, fmt.Errorf("query cannot be empty")
	}
	if topK <= 0 {
		topK = 5
	}

	queryVector, err := s.embeddingSvc.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to generate query embedding: %w", err)
	}

	s.mu.RLock()
	results := make([]llm.SearchResult, 0, len(s.entries))
	for _, entry := range s.entries {
		results = append(results, llm.SearchResult{
			Document: entry.doc,
			Score:    cosineSimilarity(queryVector, entry.vector),
		})
	}
	s.mu.RUnlock()

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if len(results) > topK {
		results = results[:topK]
	}
	return results, nil
}

// Count returns the total number of documents in the store
func (s *MemoryStore) Count(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.entries)), nil
}

// Close releases the index
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = nil
	return nil
}

// cosineSimilarity computes the cosine similarity of two vectors. A
// zero-norm or mismatched vector scores 0.
func cosineSimilarity(a, b []float32) float32 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}
