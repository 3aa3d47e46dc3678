package parser

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

// PptxParser handles PowerPoint presentations (.pptx). Slide text is
// extracted from the DrawingML <a:t> elements, one paragraph per
// slide.
type PptxParser struct{}

// NewPptxParser creates a new PPTX parser
func NewPptxParser() *PptxParser {
	return &PptxParser{}
}

// Parse reads and parses PPTX from the reader
func (p *PptxParser) Parse(ctx context.Context, r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read PPTX: %w", err)
	}
	return p.parse(data, "")
}

// ParseFile reads and parses a PPTX file
func (p *PptxParser) ParseFile(ctx context.Context, filePath string) (*Document, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return p.parse(data, filePath)
}

func (p *PptxParser) parse(data []byte, filePath string) (*Document, error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("not a valid PPTX archive: %w", err)
	}

	// Slide entries are ppt/slides/slideN.xml; sort by name so slide
	// order is deterministic.
	var slides []string
	for _, file := range reader.File {
		if strings.HasPrefix(file.Name, "ppt/slides/slide") && strings.HasSuffix(file.Name, ".xml") {
			slides = append(slides, file.Name)
		}
	}
	sort.Strings(slides)

	var b strings.Builder
	for _, name := range slides {
		content, err := readZipFile(reader, name)
		if err != nil || content == nil {
			continue
		}
		text := collectXMLText(content, "t")
		if text == "" {
			continue
		}
		b.WriteString(text)
		b.WriteString("\n\n")
	}

	content := strings.TrimSpace(b.String())
	if content == "" {
		return nil, fmt.Errorf("no extractable text in presentation")
	}

	return &Document{
		Content: content,
		Title:   ExtractTitle(content, filePath),
		Metadata: map[string]interface{}{
			"slide_count": len(slides),
		},
	}, nil
}

// collectXMLText walks an XML document and joins the character data of
// every element with the given local name.
func collectXMLText(data []byte, localName string) string {
	decoder := xml.NewDecoder(bytes.NewReader(data))
	var parts []string
	inText := 0
	for {
		token, err := decoder.Token()
		if err != nil {
			break
		}
		switch t := token.(type) {
		case xml.StartElement:
			if t.Name.Local == localName {
				inText++
			}
		case xml.EndElement:
			if t.Name.Local == localName && inText > 0 {
				inText--
			}
		case xml.CharData:
			if inText > 0 {
				parts = append(parts, string(t))
			}
		}
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}

// FileType returns the file type this parser handles
func (p *PptxParser) FileType() FileType {
	return FileTypePptx
}
