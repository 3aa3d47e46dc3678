package llm

import "errors"

// Setup-time failures. Each one is fatal for the pipeline and must be
// distinguishable by the operator, so they are sentinel values meant
// to be wrapped with fmt.Errorf("...: %w", err) and checked with
// errors.Is.
var (
	// ErrMissingCredential indicates the provider API key is absent
	// from the environment.
	ErrMissingCredential = errors.New("missing GOOGLE_API_KEY credential")

	// ErrMissingDirectory indicates the knowledge-base directory does
	// not exist.
	ErrMissingDirectory = errors.New("knowledge-base directory not found")

	// ErrNoDocuments indicates the directory exists but no document
	// could be loaded from it.
	ErrNoDocuments = errors.New("no documents loaded from knowledge base")
)
