package parser

import (
	"context"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
)

// MarkdownParser handles markdown files
type MarkdownParser struct{}

// NewMarkdownParser creates a new markdown parser
func NewMarkdownParser() *MarkdownParser {
	return &MarkdownParser{}
}

// Parse reads and parses markdown from the reader
func (p *MarkdownParser) Parse(ctx context.Context, r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read markdown: %w", err)
	}
	return p.parse(string(data), ""), nil
}

// ParseFile reads and parses a markdown file
func (p *MarkdownParser) ParseFile(ctx context.Context, filePath string) (*Document, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return p.parse(string(data), filePath), nil
}

var frontmatterRe = regexp.MustCompile(`(?s)\A---\n(.*?)\n---\n?`)

// parse processes the markdown content
func (p *MarkdownParser) parse(content, filePath string) *Document {
	metadata := map[string]interface{}{
		"file_size":       len(content),
		"has_frontmatter": false,
	}

	// Extract simple key: value pairs from YAML frontmatter
	if m := frontmatterRe.FindStringSubmatch(content); m != nil {
		metadata["has_frontmatter"] = true
		for _, line := range strings.Split(m[1], "\n") {
			key, value, ok := strings.Cut(line, ":")
			if !ok {
				continue
			}
			key = strings.TrimSpace(key)
			value = strings.Trim(strings.TrimSpace(value), `"'`)
			if key != "" && value != "" {
				metadata[key] = value
			}
		}
		content = frontmatterRe.ReplaceAllString(content, "")
	}

	content = strings.TrimSpace(content)

	title := ExtractTitle(content, filePath)
	if fmTitle, ok := metadata["title"].(string); ok && fmTitle != "" {
		title = fmTitle
	}

	return &Document{
		Content:  content,
		Title:    title,
		Metadata: metadata,
	}
}

// FileType returns the file type this parser handles
func (p *MarkdownParser) FileType() FileType {
	return FileTypeMD
}
