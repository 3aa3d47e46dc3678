package llm

// Document represents a unit of indexed content with its metadata.
// The loader produces one Document per knowledge-base file; the
// pipeline then derives one Document per chunk, keeping the parent
// metadata and recording the chunk index.
type Document struct {
	ID         string                 `json:"id"`
	Content    string                 `json:"content"`
	Source     string                 `json:"source"`
	FileType   string                 `json:"file_type"`
	Title      string                 `json:"title"`
	ChunkIndex int                    `json:"chunk_index"`
	Metadata   map[string]interface{} `json:"metadata"`
	CreatedAt  string                 `json:"created_at"`
}

// SearchResult represents a search result with relevance score
type SearchResult struct {
	Document Document
	Score    float32
}

// LoadFailure records a single knowledge-base file that could not be
// loaded. Failures are collected and reported as warnings; they never
// abort a load on their own.
type LoadFailure struct {
	Path string
	Err  string
}

// Role identifies the author of a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ConversationTurn is a single question or answer in a session
// transcript. The transcript is append-only and lives only as long as
// the session.
type ConversationTurn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}
