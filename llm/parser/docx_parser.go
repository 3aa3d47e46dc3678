package parser

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"
)

// DocxParser handles Word documents (.docx). Legacy .doc files are
// routed here too and fail the ZIP check, which surfaces them as
// per-file load failures instead of aborting the run.
type DocxParser struct{}

// NewDocxParser creates a new DOCX parser
func NewDocxParser() *DocxParser {
	return &DocxParser{}
}

// Parse reads and parses DOCX from the reader
func (p *DocxParser) Parse(ctx context.Context, r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read DOCX: %w", err)
	}
	return p.parse(data, "")
}

// ParseFile reads and parses a DOCX file
func (p *DocxParser) ParseFile(ctx context.Context, filePath string) (*Document, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return p.parse(data, filePath)
}

func (p *DocxParser) parse(data []byte, filePath string) (*Document, error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("not a valid DOCX archive: %w", err)
	}

	content, paragraphs, err := extractDocumentText(reader)
	if err != nil {
		return nil, err
	}
	if content == "" {
		return nil, fmt.Errorf("empty DOCX document")
	}

	title := extractCoreTitle(reader)
	if title == "" {
		title = ExtractTitle(content, filePath)
	}

	return &Document{
		Content: content,
		Title:   title,
		Metadata: map[string]interface{}{
			"paragraph_count": paragraphs,
			"file_size":       len(data),
		},
	}, nil
}

// documentXML mirrors the parts of word/document.xml we care about.
type documentXML struct {
	Body struct {
		Paragraphs []struct {
			Runs []struct {
				Text []struct {
					Content string `xml:",chardata"`
				} `xml:"t"`
			} `xml:"r"`
		} `xml:"p"`
	} `xml:"body"`
}

// extractDocumentText extracts text from word/document.xml.
func extractDocumentText(reader *zip.Reader) (string, int, error) {
	data, err := readZipFile(reader, "word/document.xml")
	if err != nil {
		return "", 0, err
	}
	if data == nil {
		return "", 0, fmt.Errorf("word/document.xml missing from archive")
	}

	var doc documentXML
	if err := xml.Unmarshal(data, &doc); err != nil {
		return "", 0, fmt.Errorf("failed to parse document.xml: %w", err)
	}

	var b strings.Builder
	for i, para := range doc.Body.Paragraphs {
		if i > 0 {
			b.WriteString("\n")
		}
		for _, run := range para.Runs {
			for _, text := range run.Text {
				b.WriteString(text.Content)
			}
		}
	}
	return strings.TrimSpace(b.String()), len(doc.Body.Paragraphs), nil
}

// extractCoreTitle extracts the title from docProps/core.xml, if any.
func extractCoreTitle(reader *zip.Reader) string {
	data, err := readZipFile(reader, "docProps/core.xml")
	if err != nil || data == nil {
		return ""
	}
	var core struct {
		Title string `xml:"title"`
	}
	if err := xml.Unmarshal(data, &core); err != nil {
		return ""
	}
	return strings.TrimSpace(core.Title)
}

// readZipFile returns the contents of the named archive entry, or nil
// when the entry does not exist.
func readZipFile(reader *zip.Reader, name string) ([]byte, error) {
	for _, file := range reader.File {
		if file.Name != name {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", name, err)
		}
		defer rc.Close()
		return io.ReadAll(rc)
	}
	return nil, nil
}

// FileType returns the file type this parser handles
func (p *DocxParser) FileType() FileType {
	return FileTypeDocx
}
