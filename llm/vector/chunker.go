package vector

import (
	"fmt"
	"os"
	"strings"
	"unicode/utf8"
)

const (
	defaultChunkSize    = 1000
	defaultChunkOverlap = 200
)

// separators, in priority order. Splitting prefers paragraph breaks,
// then line breaks, then sentence and word boundaries; a raw character
// cut is the last resort.
var separators = []string{"\n\n", "\n", ". ", " "}

// ChunkConfig configures how documents are split into chunks
type ChunkConfig struct {
	ChunkSize    int // Maximum chunk size in characters
	ChunkOverlap int // Overlap between consecutive chunks
}

// DefaultChunkConfig returns the default chunk configuration
func DefaultChunkConfig() ChunkConfig {
	return ChunkConfig{
		ChunkSize:    getEnvInt("CHUNK_SIZE", defaultChunkSize),
		ChunkOverlap: getEnvInt("CHUNK_OVERLAP", defaultChunkOverlap),
	}
}

// Chunk represents a text chunk with its position in the document
type Chunk struct {
	Content    string
	ChunkIndex int
}

// ChunkDocument splits a document into chunks. The function is pure:
// the same content and configuration always produce the same chunks.
// Every chunk is at most ChunkSize runes long and each chunk after the
// first starts with the last ChunkOverlap runes of its predecessor.
func ChunkDocument(content string, config ChunkConfig) []Chunk {
	size := config.ChunkSize
	if size <= 0 {
		size = defaultChunkSize
	}
	overlap := config.ChunkOverlap
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= size {
		overlap = size / 5
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return nil
	}
	if utf8.RuneCountInString(content) <= size {
		return []Chunk{{Content: content, ChunkIndex: 0}}
	}

	// Pieces are bounded so that an overlap prefix plus one piece
	// never exceeds the chunk size.
	pieces := splitText(content, size-overlap, 0)

	var chunks []Chunk
	var cur []rune
	fresh := 0 // runes of non-overlap content in cur

	flush := func() {
		if fresh == 0 {
			return
		}
		chunks = append(chunks, Chunk{Content: string(cur), ChunkIndex: len(chunks)})
		if overlap > 0 {
			tail := cur
			if len(tail) > overlap {
				tail = tail[len(tail)-overlap:]
			}
			cur = append([]rune(nil), tail...)
		} else {
			cur = nil
		}
		fresh = 0
	}

	for _, piece := range pieces {
		r := []rune(piece)
		if len(cur)+len(r) > size {
			flush()
		}
		cur = append(cur, r...)
		fresh += len(r)
	}
	flush()

	return chunks
}

// splitText recursively splits text into pieces of at most max runes,
// trying each separator in priority order and falling back to a hard
// cut when nothing fits.
func splitText(text string, max, sepIdx int) []string {
	if utf8.RuneCountInString(text) <= max {
		return []string{text}
	}
	if sepIdx >= len(separators) {
		return hardSplit(text, max)
	}

	parts := splitKeep(text, separators[sepIdx])
	if len(parts) == 1 {
		return splitText(text, max, sepIdx+1)
	}

	var out []string
	var cur strings.Builder
	curLen := 0
	flush := func() {
		if curLen > 0 {
			out = append(out, cur.String())
			cur.Reset()
			curLen = 0
		}
	}

	for _, part := range parts {
		partLen := utf8.RuneCountInString(part)
		if partLen > max {
			flush()
			out = append(out, splitText(part, max, sepIdx+1)...)
			continue
		}
		if curLen+partLen > max {
			flush()
		}
		cur.WriteString(part)
		curLen += partLen
	}
	flush()

	return out
}

// splitKeep splits on sep, keeping the separator attached to the
// preceding part so no content is lost.
func splitKeep(text, sep string) []string {
	parts := strings.SplitAfter(text, sep)
	if n := len(parts); n > 0 && parts[n-1] == "" {
		parts = parts[:n-1]
	}
	return parts
}

// hardSplit cuts text into fixed-size rune slices
func hardSplit(text string, max int) []string {
	runes := []rune(text)
	var out []string
	for start := 0; start < len(runes); start += max {
		end := start + max
		if end > len(runes) {
			end = len(runes)
		}
		out = append(out, string(runes[start:end]))
	}
	return out
}

// getEnvInt reads an integer from environment variable
func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		var result int
		if _, err := fmt.Sscanf(val, "%d", &result); err == nil {
			return result
		}
	}
	return defaultVal
}

// getEnvString reads a string from environment variable
func getEnvString(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
