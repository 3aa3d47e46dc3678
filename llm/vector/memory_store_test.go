package vector

import (
	"context"
	"fmt"
	"testing"

	"assistente/llm"

	"github.com/cloudwego/eino/components/embedding"
)

// fakeEmbedder maps known texts to fixed vectors so similarity is
// fully under the test's control.
type fakeEmbedder struct {
	vectors map[string][]float64
}

func (f *fakeEmbedder) EmbedStrings(ctx context.Context, texts []string, opts ...embedding.Option) ([][]float64, error) {
	out := make([][]float64, len(texts))
	for i, text := range texts {
		v, ok := f.vectors[text]
		if !ok {
			return nil, fmt.Errorf("no vector configured for %q", text)
		}
		out[i] = v
	}
	return out, nil
}

func newTestStore(t *testing.T, vectors map[string][]float64) *MemoryStore {
	t.Helper()
	store, err := NewMemoryStore(&fakeEmbedder{vectors: vectors})
	if err != nil {
		t.Fatalf("NewMemoryStore: %v", err)
	}
	return store
}

func TestMemoryStoreSelfRetrieval(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, map[string][]float64{
		"ferias":    {1, 0, 0},
		"reembolso": {0, 1, 0},
		"vpn":       {0, 0, 1},
	})

	docs := []llm.Document{
		{ID: "1", Content: "ferias", Source: "rh.md"},
		{ID: "2", Content: "reembolso", Source: "financeiro.md"},
		{ID: "3", Content: "vpn", Source: "ti.md"},
	}
	if err := store.AddBatch(ctx, docs); err != nil {
		t.Fatalf("AddBatch: %v", err)
	}

	results, err := store.Search(ctx, "reembolso", 2)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Document.ID != "2" {
		t.Errorf("expected the matching chunk first, got %q", results[0].Document.ID)
	}
	if results[0].Score <= results[1].Score {
		t.Errorf("scores not in descending order: %v then %v", results[0].Score, results[1].Score)
	}
	if results[0].Score < 0.99 {
		t.Errorf("identical vectors should score ~1, got %v", results[0].Score)
	}
}

func TestMemoryStoreTiesKeepInsertionOrder(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, map[string][]float64{
		"primeiro": {1, 0},
		"segundo":  {1, 0},
		"consulta": {1, 0},
	})

	docs := []llm.Document{
		{ID: "a", Content: "primeiro"},
		{ID: "b", Content: "segundo"},
	}
	if err := store.AddBatch(ctx, docs); err != nil {
		t.Fatalf("AddBatch: %v", err)
	}

	results, err := store.Search(ctx, "consulta", 5)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Document.ID != "a" || results[1].Document.ID != "b" {
		t.Errorf("tied scores must keep insertion order, got %q then %q",
			results[0].Document.ID, results[1].Document.ID)
	}
}

func TestMemoryStoreTopKClamp(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, map[string][]float64{
		"um":   {1, 0},
		"dois": {0, 1},
	})

	if err := store.AddBatch(ctx, []llm.Document{
		{ID: "1", Content: "um"},
		{ID: "2", Content: "dois"},
	}); err != nil {
		t.Fatalf("AddBatch: %v", err)
	}

	results, err := store.Search(ctx, "um", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 2 {
		t.Errorf("top-k larger than the index should return everything, got %d results", len(results))
	}
}

func TestMemoryStoreEmptyQuery(t *testing.T) {
	store := newTestStore(t, map[string][]float64{})
	if _, err := store.Search(context.Background(), "", 3); err == nil {
		t.Error("expected an error for an empty query")
	}
}

func TestMemoryStoreCount(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, map[string][]float64{
		"um":   {1, 0},
		"dois": {0, 1},
	})

	count, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 0 {
		t.Errorf("expected empty store, got %d", count)
	}

	if err := store.AddBatch(ctx, []llm.Document{
		{ID: "1", Content: "um"},
		{ID: "2", Content: "dois"},
	}); err != nil {
		t.Fatalf("AddBatch: %v", err)
	}

	count, err = store.Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 2 {
		t.Errorf("expected 2 documents, got %d", count)
	}
}

func TestCosineSimilarity(t *testing.T) {
	cases := []struct {
		name string
		a, b []float32
		want float32
	}{
		{"identical", []float32{1, 2, 3}, []float32{1, 2, 3}, 1},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1},
		{"zero vector", []float32{0, 0}, []float32{1, 1}, 0},
		{"length mismatch", []float32{1}, []float32{1, 0}, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := cosineSimilarity(tc.a, tc.b)
			if diff := got - tc.want; diff > 1e-5 || diff < -1e-5 {
				t.Errorf("cosineSimilarity = %v, want %v", got, tc.want)
			}
		})
	}
}
