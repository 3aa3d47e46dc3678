package vector

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"assistente/llm"

	"github.com/cloudwego/eino/components/embedding"
	"github.com/redis/go-redis/v9"
)

const (
	defaultEFConstruction = 200
	defaultM              = 16

	// Field names in the Redis hash
	fieldContent    = "content"
	fieldVector     = "vector"
	fieldSource     = "source"
	fieldFileType   = "file_type"
	fieldTitle      = "title"
	fieldChunkIndex = "chunk_index"
	fieldMetadata   = "metadata"
	fieldScore      = "score"
)

// RedisStore implements VectorStore using Redis with RediSearch HNSW
// vector search. The index is dropped and recreated on every setup, so
// a run always searches exactly what it just ingested.
type RedisStore struct {
	client         *redis.Client
	embeddingSvc   *EmbeddingService
	config         StoreConfig
	efConstruction int
	m              int
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Addr           string
	Password       string
	DB             int
	PoolSize       int
	IndexName      string
	VectorDim      int
	EFConstruction int
	M              int
}

// DefaultRedisConfig returns default Redis configuration from environment
func DefaultRedisConfig() RedisConfig {
	return RedisConfig{
		Addr:           getEnvString("REDIS_ADDR", "localhost:6379"),
		Password:       getEnvString("REDIS_PASSWORD", ""),
		DB:             getEnvInt("REDIS_DB", 0),
		PoolSize:       getEnvInt("REDIS_POOL_SIZE", 10),
		IndexName:      getEnvString("VECTOR_INDEX_NAME", "assistente-conhecimento"),
		VectorDim:      GetEmbeddingDimFromEnv(),
		EFConstruction: getEnvInt("HNSW_EF_CONSTRUCTION", defaultEFConstruction),
		M:              getEnvInt("HNSW_M", defaultM),
	}
}

// NewRedisStore creates a new Redis-based vector store and recreates
// its index.
func NewRedisStore(ctx context.Context, embedder embedding.Embedder, cfg RedisConfig) (*RedisStore, error) {
	if embedder == nil {
		return nil, fmt.Errorf("embedding model is required")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	store := &RedisStore{
		client:       client,
		embeddingSvc: NewEmbeddingService(embedder, cfg.VectorDim),
		config: StoreConfig{
			EmbeddingDim: cfg.VectorDim,
			IndexName:    cfg.IndexName,
			KeyPrefix:    "vec:",
		},
		efConstruction: cfg.EFConstruction,
		m:              cfg.M,
	}

	if err := store.recreateIndex(ctx); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to create vector index: %w", err)
	}

	return store, nil
}

// recreateIndex drops any previous index (and its documents) and
// creates a fresh HNSW index.
func (s *RedisStore) recreateIndex(ctx context.Context) error {
	indexName := s.config.IndexName

	// DD also deletes the indexed hashes, clearing the previous run.
	if err := s.client.Do(ctx, "FT.DROPINDEX", indexName, "DD").Err(); err != nil {
		if !strings.Contains(strings.ToLower(err.Error()), "unknown index") &&
			!strings.Contains(strings.ToLower(err.Error()), "no such index") {
			return fmt.Errorf("failed to drop index: %w", err)
		}
	}

	return s.client.Do(ctx, "FT.CREATE", indexName,
		"ON", "HASH",
		"PREFIX", "1", s.config.KeyPrefix,
		"SCHEMA",
		fieldVector, "VECTOR", "HNSW", "10",
		"TYPE", "FLOAT32",
		"DIM", strconv.Itoa(s.config.EmbeddingDim),
		"DISTANCE_METRIC", "COSINE",
		"EF_CONSTRUCTION", strconv.Itoa(s.efConstruction),
		"M", strconv.Itoa(s.m),
		fieldContent, "TEXT",
		fieldSource, "TAG",
		fieldFileType, "TAG",
		fieldTitle, "TEXT",
		fieldChunkIndex, "NUMERIC",
	).Err()
}

// AddBatch embeds and stores multiple documents in a single pipeline
func (s *RedisStore) AddBatch(ctx context.Context, docs []llm.Document) error {
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

	pipe := s.client.Pipeline()
	for i, doc := range docs {
		if doc.ID == "" {
			doc.ID = fmt.Sprintf("%s:%d", doc.Source, doc.ChunkIndex)
		}

		metadataJSON, _ := json.Marshal(doc.Metadata)

		pipe.HSet(ctx, s.config.KeyPrefix+doc.ID,
			fieldContent, doc.Content,
			fieldVector, encodeVector(vectors[i]),
			fieldSource, doc.Source,
			fieldFileType, doc.FileType,
			fieldTitle, doc.Title,
			fieldChunkIndex, doc.ChunkIndex,
			fieldMetadata, metadataJSON,
		)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to insert documents: %w", err)
	}
	return nil
}

// encodeVector encodes a float32 vector as the little-endian byte blob
// RediSearch expects for FLOAT32 vector fields.
func encodeVector(vector []float32) []byte {
	buf := make([]byte, 0, len(vector)*4)
	for _, f := range vector {
		bits := math.Float32bits(f)
		buf = append(buf, byte(bits), byte(bits>>8), byte(bits>>16), byte(bits>>24))
	}
	return buf
}

// Search performs KNN vector search over the index
func (s *RedisStore) Search(ctx context.Context, query string, topK int) ([]llm.SearchResult, error) {
	if query == "" {
		return nil, fmt.Errorf("query cannot be empty")
	}
	if topK <= 0 {
		topK = 5
	}
	if topK > 100 {
		topK = 100
	}

	queryVector, err := s.embeddingSvc.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to generate query embedding: %w", err)
	}

	queryStr := fmt.Sprintf("*=>[KNN %d @%s $query_vector AS %s]", topK, fieldVector, fieldScore)

	result, err := s.client.Do(ctx, "FT.SEARCH", s.config.IndexName, queryStr,
		"PARAMS", "2", "query_vector", encodeVector(queryVector),
		"RETURN", "7", fieldScore, fieldContent, fieldSource, fieldFileType, fieldTitle, fieldChunkIndex, fieldMetadata,
		"SORTBY", fieldScore,
		"LIMIT", "0", strconv.Itoa(topK),
		"DIALECT", "2",
	).Result()
	if err != nil {
		return nil, fmt.Errorf("vector search failed: %w", err)
	}

	return s.parseSearchResults(result)
}

// parseSearchResults parses the FT.SEARCH reply: a count followed by
// (id, fields) pairs.
func (s *RedisStore) parseSearchResults(result interface{}) ([]llm.SearchResult, error) {
	values, ok := result.([]interface{})
	if !ok {
		return nil, fmt.Errorf("unexpected result format")
	}
	if len(values) < 2 {
		return []llm.SearchResult{}, nil
	}

	var results []llm.SearchResult
	for i := 1; i+1 < len(values); i += 2 {
		docID, ok := values[i].(string)
		if !ok {
			continue
		}
		fields, ok := values[i+1].([]interface{})
		if !ok {
			continue
		}

		doc, score := s.parseDocumentFields(strings.TrimPrefix(docID, s.config.KeyPrefix), fields)
		results = append(results, llm.SearchResult{
			Document: doc,
			// RediSearch reports cosine distance; flip to similarity.
			Score: 1 - score,
		})
	}
	return results, nil
}

// parseDocumentFields parses one document's field list
func (s *RedisStore) parseDocumentFields(id string, fields []interface{}) (llm.Document, float32) {
	doc := llm.Document{
		ID:       id,
		Metadata: make(map[string]interface{}),
	}
	var score float32

	for i := 0; i+1 < len(fields); i += 2 {
		name, ok := fields[i].(string)
		if !ok {
			continue
		}
		value, _ := fields[i+1].(string)

		switch name {
		case fieldContent:
			doc.Content = value
		case fieldSource:
			doc.Source = value
		case fieldFileType:
			doc.FileType = value
		case fieldTitle:
			doc.Title = value
		case fieldChunkIndex:
			if n, err := strconv.Atoi(value); err == nil {
				doc.ChunkIndex = n
			}
		case fieldMetadata:
			json.Unmarshal([]byte(value), &doc.Metadata)
		case fieldScore:
			if f, err := strconv.ParseFloat(value, 32); err == nil {
				score = float32(f)
			}
		}
	}
	return doc, score
}

// Count returns the total number of documents in the index
func (s *RedisStore) Count(ctx context.Context) (int64, error) {
	info, err := s.client.Do(ctx, "FT.INFO", s.config.IndexName).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to get index info: %w", err)
	}

	values, ok := info.([]interface{})
	if !ok {
		return 0, fmt.Errorf("unexpected info format")
	}
	for i := 0; i+1 < len(values); i += 2 {
		if key, ok := values[i].(string); ok && key == "num_docs" {
			switch v := values[i+1].(type) {
			case int64:
				return v, nil
			case string:
				if n, err := strconv.ParseInt(v, 10, 64); err == nil {
					return n, nil
				}
			}
		}
	}
	return 0, nil
}

// Close closes the Redis connection
func (s *RedisStore) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}
