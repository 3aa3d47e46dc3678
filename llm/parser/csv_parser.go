package parser

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

// CSVParser handles comma-separated files. Each row becomes one line
// of text so that chunking keeps rows together.
type CSVParser struct{}

// NewCSVParser creates a new CSV parser
func NewCSVParser() *CSVParser {
	return &CSVParser{}
}

// Parse reads and parses CSV from the reader
func (p *CSVParser) Parse(ctx context.Context, r io.Reader) (*Document, error) {
	return p.parse(r, "")
}

// ParseFile reads and parses a CSV file
func (p *CSVParser) ParseFile(ctx context.Context, filePath string) (*Document, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	defer f.Close()
	return p.parse(f, filePath)
}

func (p *CSVParser) parse(r io.Reader, filePath string) (*Document, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var b strings.Builder
	rows := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse csv: %w", err)
		}
		b.WriteString(strings.Join(record, ", "))
		b.WriteString("\n")
		rows++
	}

	content := strings.TrimSpace(b.String())
	return &Document{
		Content: content,
		Title:   ExtractTitle(content, filePath),
		Metadata: map[string]interface{}{
			"row_count": rows,
		},
	}, nil
}

// FileType returns the file type this parser handles
func (p *CSVParser) FileType() FileType {
	return FileTypeCSV
}
