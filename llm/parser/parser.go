package parser

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"
)

// FileType represents the type of document file
type FileType string

const (
	FileTypePDF     FileType = "pdf"
	FileTypeDocx    FileType = "docx"
	FileTypePptx    FileType = "pptx"
	FileTypeXlsx    FileType = "xlsx"
	FileTypeMD      FileType = "md"
	FileTypeHTML    FileType = "html"
	FileTypeTXT     FileType = "txt"
	FileTypeCSV     FileType = "csv"
	FileTypeImage   FileType = "image"
	FileTypeUnknown FileType = "unknown"
)

// Document represents a parsed document with its content and metadata
type Document struct {
	Content  string
	Title    string
	Metadata map[string]interface{}
}

// Parser defines the interface for document parsers
type Parser interface {
	// Parse reads and parses a document from the reader
	Parse(ctx context.Context, r io.Reader) (*Document, error)

	// ParseFile reads and parses a document from a file path
	ParseFile(ctx context.Context, filePath string) (*Document, error)

	// FileType returns the file type this parser handles
	FileType() FileType
}

// Registry holds all registered parsers
type Registry struct {
	parsers    map[FileType]Parser
	extensions map[string]FileType
}

// NewRegistry creates a new parser registry
func NewRegistry() *Registry {
	return &Registry{
		parsers:    make(map[FileType]Parser),
		extensions: make(map[string]FileType),
	}
}

// Register adds a parser to the registry for the given extensions.
// New formats register new entries; the loader's control flow never
// changes.
func (r *Registry) Register(p Parser, exts ...string) {
	r.parsers[p.FileType()] = p
	for _, ext := range exts {
		r.extensions[strings.ToLower(strings.TrimPrefix(ext, "."))] = p.FileType()
	}
}

// GetParser returns a parser for the given file type
func (r *Registry) GetParser(ft FileType) (Parser, bool) {
	p, ok := r.parsers[ft]
	return p, ok
}

// GetParserForPath returns a parser for the given file path
func (r *Registry) GetParserForPath(filePath string) (Parser, bool) {
	ft, ok := r.extensions[extOf(filePath)]
	if !ok {
		return nil, false
	}
	return r.GetParser(ft)
}

// Supports reports whether the registry has a parser for the path's
// extension.
func (r *Registry) Supports(filePath string) bool {
	_, ok := r.extensions[extOf(filePath)]
	return ok
}

// Extensions returns the registered extensions, sorted, without dots.
func (r *Registry) Extensions() []string {
	exts := make([]string, 0, len(r.extensions))
	for ext := range r.extensions {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// ParseFile parses a file using the appropriate parser
func (r *Registry) ParseFile(ctx context.Context, filePath string) (*Document, error) {
	parser, ok := r.GetParserForPath(filePath)
	if !ok {
		return nil, fmt.Errorf("no parser found for file: %s", filePath)
	}

	return parser.ParseFile(ctx, filePath)
}

// DefaultRegistry returns a registry covering the knowledge-base
// formats: plain text (.txt, .sql), CSV, markdown, HTML, PDF, Office
// documents and images.
func DefaultRegistry() *Registry {
	reg := NewRegistry()
	reg.Register(NewTxtParser(), "txt", "sql")
	reg.Register(NewCSVParser(), "csv")
	reg.Register(NewMarkdownParser(), "md", "markdown")
	reg.Register(NewHTMLParser(), "html", "htm")
	reg.Register(NewPDFParser(), "pdf")
	reg.Register(NewDocxParser(), "docx", "doc")
	reg.Register(NewPptxParser(), "pptx")
	reg.Register(NewXlsxParser(), "xlsx")
	reg.Register(NewImageParser(), "png")
	return reg
}

// extOf returns the lower-case extension of a path without the dot.
func extOf(filePath string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(filePath), "."))
}

// ExtractTitle extracts a title from content (first line or heading)
func ExtractTitle(content, filePath string) string {
	content = strings.TrimSpace(content)
	if content == "" {
		return filepath.Base(filePath)
	}

	// Try to get first non-empty line as title
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		// Remove markdown heading markers
		line = strings.TrimSpace(strings.TrimLeft(line, "#"))
		if line != "" && len(line) < 100 {
			return line
		}
		break
	}

	return filepath.Base(filePath)
}
