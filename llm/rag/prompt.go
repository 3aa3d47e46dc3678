package rag

import (
	"fmt"
	"strings"

	"assistente/llm"
)

// answerTemplate is the stuff prompt: every retrieved chunk is pasted
// into a single context block ahead of the question.
const answerTemplate = `Use the following pieces of context to answer the question at the end. If you don't know the answer, just say that you don't know, don't try to make up an answer.

%s

Question: %s
Helpful Answer:`

// BuildPrompt assembles the retrieval-augmented prompt from the search
// results and the user question. Chunks appear in retrieval order,
// separated by blank lines.
func BuildPrompt(results []llm.SearchResult, question string) string {
	parts := make([]string, 0, len(results))
	for _, r := range results {
		parts = append(parts, r.Document.Content)
	}
	return fmt.Sprintf(answerTemplate, strings.Join(parts, "\n\n"), question)
}
