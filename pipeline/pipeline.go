// Package pipeline assembles the knowledge-base setup: load the
// directory, chunk the documents, embed them into a vector store and
// hand back a ready answer engine. Setups are cached and deduplicated,
// so concurrent front-ends share one build.
package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"assistente/llm"
	"assistente/llm/loader"
	"assistente/llm/parser"
	"assistente/llm/providers"
	"assistente/llm/rag"
	"assistente/llm/vector"

	"github.com/cloudwego/eino/components/embedding"
	"github.com/cloudwego/eino/components/model"
	"golang.org/x/sync/singleflight"
)

// Config describes one knowledge-base setup.
type Config struct {
	// Dir is the knowledge-base directory.
	Dir string

	// Pattern optionally narrows the loaded files (doublestar syntax).
	Pattern string

	// ChunkSize and ChunkOverlap tune the splitter; zero values take
	// the environment defaults.
	ChunkSize    int
	ChunkOverlap int

	// Concurrency is the parallelism of the file loader.
	Concurrency int

	// Store selects the vector backend: "memory" (default) or "redis".
	Store string

	// TopK, Temperature and ReturnSources configure the answer engine.
	// A nil Temperature takes the engine default.
	TopK          int
	Temperature   *float32
	ReturnSources bool

	// Embedder and ChatModel override the providers when set. Used by
	// tests; production setups leave them nil.
	Embedder  embedding.Embedder
	ChatModel model.BaseChatModel

	// Logf receives progress messages when set.
	Logf func(format string, args ...interface{})
}

// Pipeline is a fully built knowledge-base setup.
type Pipeline struct {
	Store  vector.VectorStore
	Engine *rag.Engine

	// DocumentCount is the number of source files loaded.
	DocumentCount int

	// ChunkCount is the number of chunks indexed.
	ChunkCount int

	// Failures lists the files that could not be loaded.
	Failures []llm.LoadFailure
}

// Manager caches built pipelines by configuration. Concurrent setups
// for the same configuration collapse into a single build; a failed
// build is not cached, so the next call retries.
type Manager struct {
	mu        sync.Mutex
	pipelines map[string]*Pipeline
	group     singleflight.Group
}

// NewManager creates an empty pipeline manager
func NewManager() *Manager {
	return &Manager{pipelines: make(map[string]*Pipeline)}
}

// cacheKey identifies a setup: same directory and chunk parameters
// mean the same index.
func cacheKey(cfg Config) string {
	dir := cfg.Dir
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	return fmt.Sprintf("%s|%s|%d|%d|%s", dir, cfg.Pattern, cfg.ChunkSize, cfg.ChunkOverlap, cfg.Store)
}

// Setup returns the pipeline for cfg, building it on first use.
func (m *Manager) Setup(ctx context.Context, cfg Config) (*Pipeline, error) {
	key := cacheKey(cfg)

	if p := m.cached(key); p != nil {
		return p, nil
	}

	v, err, _ := m.group.Do(key, func() (interface{}, error) {
		if p := m.cached(key); p != nil {
			return p, nil
		}
		p, err := Build(ctx, cfg)
		if err != nil {
			return nil, err
		}
		m.mu.Lock()
		m.pipelines[key] = p
		m.mu.Unlock()
		return p, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Pipeline), nil
}

func (m *Manager) cached(key string) *Pipeline {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pipelines[key]
}

// Build runs one full setup: models, load, chunk, embed, engine.
func Build(ctx context.Context, cfg Config) (*Pipeline, error) {
	logf := cfg.Logf
	if logf == nil {
		logf = func(string, ...interface{}) {}
	}

	embedder := cfg.Embedder
	if embedder == nil {
		var err error
		embedder, err = providers.CreateEmbeddingModel(ctx)
		if err != nil {
			return nil, err
		}
	}

	chat := cfg.ChatModel
	if chat == nil {
		var err error
		chat, err = providers.CreateChatModel(ctx)
		if err != nil {
			return nil, err
		}
	}

	store, err := newStore(ctx, cfg.Store, embedder)
	if err != nil {
		return nil, err
	}

	logf("carregando documentos de %s", cfg.Dir)
	result, err := loader.Load(ctx, parser.DefaultRegistry(), loader.Config{
		Dir:         cfg.Dir,
		Pattern:     cfg.Pattern,
		Concurrency: cfg.Concurrency,
	})
	if err != nil {
		store.Close()
		return nil, err
	}

	chunkCfg := vector.DefaultChunkConfig()
	if cfg.ChunkSize > 0 {
		chunkCfg.ChunkSize = cfg.ChunkSize
	}
	if cfg.ChunkOverlap > 0 {
		chunkCfg.ChunkOverlap = cfg.ChunkOverlap
	}

	chunks := chunkDocuments(result.Documents, chunkCfg)
	logf("%d documentos divididos em %d trechos", len(result.Documents), len(chunks))

	start := time.Now()
	if err := store.AddBatch(ctx, chunks); err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to index knowledge base: %w", err)
	}
	logf("base de conhecimento indexada em %s", time.Since(start).Round(time.Millisecond))

	engine := rag.NewEngine(store, chat, rag.EngineConfig{
		TopK:          cfg.TopK,
		Temperature:   cfg.Temperature,
		ReturnSources: cfg.ReturnSources,
	})

	return &Pipeline{
		Store:         store,
		Engine:        engine,
		DocumentCount: len(result.Documents),
		ChunkCount:    len(chunks),
		Failures:      result.Failures,
	}, nil
}

// newStore builds the selected vector backend
func newStore(ctx context.Context, name string, embedder embedding.Embedder) (vector.VectorStore, error) {
	switch name {
	case "", "memory":
		return vector.NewMemoryStore(embedder)
	case "redis":
		return vector.NewRedisStore(ctx, embedder, vector.DefaultRedisConfig())
	default:
		return nil, fmt.Errorf("unknown vector store %q (expected memory or redis)", name)
	}
}

// chunkDocuments splits each source document and derives one Document
// per chunk, carrying over the parent metadata and recording the chunk
// position.
func chunkDocuments(docs []llm.Document, cfg vector.ChunkConfig) []llm.Document {
	var out []llm.Document
	for _, doc := range docs {
		chunks := vector.ChunkDocument(doc.Content, cfg)
		for _, c := range chunks {
			metadata := make(map[string]interface{}, len(doc.Metadata)+2)
			for k, v := range doc.Metadata {
				metadata[k] = v
			}
			metadata["chunk_index"] = c.ChunkIndex
			metadata["chunk_count"] = len(chunks)

			out = append(out, llm.Document{
				ID:         fmt.Sprintf("%s_%d", doc.ID, c.ChunkIndex),
				Content:    c.Content,
				Source:     doc.Source,
				FileType:   doc.FileType,
				Title:      doc.Title,
				ChunkIndex: c.ChunkIndex,
				Metadata:   metadata,
				CreatedAt:  doc.CreatedAt,
			})
		}
	}
	return out
}
