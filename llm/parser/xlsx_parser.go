package parser

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
)

// XlsxParser handles Excel workbooks (.xlsx). Text cells live in the
// shared-strings table, which is enough for knowledge-base content;
// numeric-only sheets yield no text and are reported as failures.
type XlsxParser struct{}

// NewXlsxParser creates a new XLSX parser
func NewXlsxParser() *XlsxParser {
	return &XlsxParser{}
}

// Parse reads and parses XLSX from the reader
func (p *XlsxParser) Parse(ctx context.Context, r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read XLSX: %w", err)
	}
	return p.parse(data, "")
}

// ParseFile reads and parses an XLSX file
func (p *XlsxParser) ParseFile(ctx context.Context, filePath string) (*Document, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return p.parse(data, filePath)
}

func (p *XlsxParser) parse(data []byte, filePath string) (*Document, error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("not a valid XLSX archive: %w", err)
	}

	shared, err := readZipFile(reader, "xl/sharedStrings.xml")
	if err != nil {
		return nil, err
	}
	if shared == nil {
		return nil, fmt.Errorf("no text content in workbook")
	}

	content := collectXMLText(shared, "t")
	if content == "" {
		return nil, fmt.Errorf("no text content in workbook")
	}

	return &Document{
		Content: content,
		Title:   ExtractTitle(content, filePath),
		Metadata: map[string]interface{}{
			"file_size": len(data),
		},
	}, nil
}

// FileType returns the file type this parser handles
func (p *XlsxParser) FileType() FileType {
	return FileTypeXlsx
}
