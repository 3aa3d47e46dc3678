// Package cli implements the plain console question loop, the
// line-based alternative to the chat TUI.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"assistente/llm"
)

// Asker answers one question. The reply is always printable: session
// implementations fold engine failures into an apology.
type Asker interface {
	Ask(ctx context.Context, question string) (string, []llm.SearchResult)
}

// IsExitCommand reports whether the input ends the conversation.
// Matching is case-insensitive and ignores surrounding whitespace.
func IsExitCommand(input string) bool {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "sair", "exit":
		return true
	}
	return false
}

// RunConsole reads questions from in and writes answers to out until
// the user exits or input runs dry. Blank lines are skipped without a
// round-trip.
func RunConsole(ctx context.Context, session Asker, in io.Reader, out io.Writer, showSources bool) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		fmt.Fprint(out, "\nSua pergunta: ")
		if !scanner.Scan() {
			break
		}

		question := strings.TrimSpace(scanner.Text())
		if question == "" {
			continue
		}
		if IsExitCommand(question) {
			fmt.Fprintln(out, "Até logo!")
			return nil
		}

		fmt.Fprintln(out, "\nBuscando na base de conhecimento...")
		reply, sources := session.Ask(ctx, question)

		fmt.Fprintln(out, "\nResposta do Assistente:")
		fmt.Fprintln(out, reply)

		if showSources && len(sources) > 0 {
			fmt.Fprintln(out, "\nFontes consultadas:")
			for _, s := range sources {
				fmt.Fprintf(out, "  - %s (trecho %d, similaridade %.2f)\n",
					s.Document.Source, s.Document.ChunkIndex, s.Score)
			}
		}
		fmt.Fprintln(out, strings.Repeat("-", 50))
	}

	return scanner.Err()
}
