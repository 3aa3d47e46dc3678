package vector

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestChunkShortDocument(t *testing.T) {
	content := "Como abrir um chamado de suporte."
	chunks := ChunkDocument(content, ChunkConfig{ChunkSize: 1000, ChunkOverlap: 200})

	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].Content != content {
		t.Errorf("short document should come back unchanged, got %q", chunks[0].Content)
	}
	if chunks[0].ChunkIndex != 0 {
		t.Errorf("expected chunk index 0, got %d", chunks[0].ChunkIndex)
	}
}

func TestChunkEmptyDocument(t *testing.T) {
	if chunks := ChunkDocument("", ChunkConfig{ChunkSize: 100, ChunkOverlap: 20}); chunks != nil {
		t.Errorf("expected no chunks for empty content, got %d", len(chunks))
	}
	if chunks := ChunkDocument("   \n\t  ", ChunkConfig{ChunkSize: 100, ChunkOverlap: 20}); chunks != nil {
		t.Errorf("expected no chunks for blank content, got %d", len(chunks))
	}
}

func TestChunkDeterministic(t *testing.T) {
	content := strings.Repeat("O assistente responde usando apenas a base de conhecimento. ", 50)
	cfg := ChunkConfig{ChunkSize: 300, ChunkOverlap: 60}

	first := ChunkDocument(content, cfg)
	second := ChunkDocument(content, cfg)

	if len(first) != len(second) {
		t.Fatalf("runs disagree on chunk count: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("chunk %d differs between runs", i)
		}
	}
}

func TestChunkSizeLimit(t *testing.T) {
	content := strings.Repeat("Politica de ferias e licencas da empresa. ", 100)
	cfg := ChunkConfig{ChunkSize: 250, ChunkOverlap: 50}

	chunks := ChunkDocument(content, cfg)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for i, c := range chunks {
		if n := utf8.RuneCountInString(c.Content); n > cfg.ChunkSize {
			t.Errorf("chunk %d has %d runes, limit is %d", i, n, cfg.ChunkSize)
		}
		if c.ChunkIndex != i {
			t.Errorf("chunk %d carries index %d", i, c.ChunkIndex)
		}
	}
}

func TestChunkOverlapExact(t *testing.T) {
	content := strings.Repeat("Procedimento de reembolso de despesas de viagem. ", 80)
	cfg := ChunkConfig{ChunkSize: 300, ChunkOverlap: 60}

	chunks := ChunkDocument(content, cfg)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}

	for i := 1; i < len(chunks); i++ {
		prev := []rune(chunks[i-1].Content)
		if len(prev) < cfg.ChunkOverlap {
			continue
		}
		wantPrefix := string(prev[len(prev)-cfg.ChunkOverlap:])
		if !strings.HasPrefix(chunks[i].Content, wantPrefix) {
			t.Errorf("chunk %d does not start with the last %d runes of chunk %d", i, cfg.ChunkOverlap, i-1)
		}
	}
}

// Stripping each chunk's overlap prefix must reconstruct the original
// text: splitting never loses or duplicates content.
func TestChunkReconstruction(t *testing.T) {
	content := strings.TrimSpace(strings.Repeat("Acesso ao VPN exige token corporativo. ", 60))
	cfg := ChunkConfig{ChunkSize: 200, ChunkOverlap: 40}

	chunks := ChunkDocument(content, cfg)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}

	var sb strings.Builder
	sb.WriteString(chunks[0].Content)
	for i := 1; i < len(chunks); i++ {
		prev := utf8.RuneCountInString(chunks[i-1].Content)
		skip := cfg.ChunkOverlap
		if prev < skip {
			skip = prev
		}
		runes := []rune(chunks[i].Content)
		sb.WriteString(string(runes[skip:]))
	}

	if sb.String() != content {
		t.Error("reassembled chunks do not match the original content")
	}
}

// A single token longer than the chunk size is cut at the character
// level rather than dropped.
func TestChunkHardSplit(t *testing.T) {
	content := strings.Repeat("x", 950)
	cfg := ChunkConfig{ChunkSize: 300, ChunkOverlap: 50}

	chunks := ChunkDocument(content, cfg)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for i, c := range chunks {
		if n := utf8.RuneCountInString(c.Content); n > cfg.ChunkSize {
			t.Errorf("chunk %d has %d runes, limit is %d", i, n, cfg.ChunkSize)
		}
	}
}

func TestChunkRuneSafety(t *testing.T) {
	// Multi-byte runes must never be cut mid-sequence.
	content := strings.Repeat("informação útil para férias é ação ", 60)
	cfg := ChunkConfig{ChunkSize: 120, ChunkOverlap: 30}

	for i, c := range ChunkDocument(content, cfg) {
		if !utf8.ValidString(c.Content) {
			t.Errorf("chunk %d contains an invalid UTF-8 sequence", i)
		}
	}
}
