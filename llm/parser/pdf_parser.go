package parser

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PDFParser handles PDF files via text-layer extraction. Scanned PDFs
// without a text layer come back empty and are reported as failures.
type PDFParser struct{}

// NewPDFParser creates a new PDF parser
func NewPDFParser() *PDFParser {
	return &PDFParser{}
}

// Parse reads and parses PDF from the reader. The PDF format needs
// random access, so the stream is spooled to a temporary file first.
func (p *PDFParser) Parse(ctx context.Context, r io.Reader) (*Document, error) {
	tmp, err := os.CreateTemp("", "assistente-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("failed to buffer PDF: %w", err)
	}
	defer os.Remove(tmp.Name())
	defer tmp.Close()

	if _, err := io.Copy(tmp, r); err != nil {
		return nil, fmt.Errorf("failed to buffer PDF: %w", err)
	}
	return p.ParseFile(ctx, tmp.Name())
}

// ParseFile reads and parses a PDF file
func (p *PDFParser) ParseFile(ctx context.Context, filePath string) (*Document, error) {
	f, reader, err := pdf.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	numPages := reader.NumPage()

	var b strings.Builder
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		b.WriteString(text)
		b.WriteString("\n\n")
	}

	content := strings.TrimSpace(b.String())
	if content == "" {
		return nil, fmt.Errorf("no extractable text in PDF (scanned document?)")
	}

	return &Document{
		Content: content,
		Title:   ExtractTitle(content, filePath),
		Metadata: map[string]interface{}{
			"page_count": numPages,
		},
	}, nil
}

// FileType returns the file type this parser handles
func (p *PDFParser) FileType() FileType {
	return FileTypePDF
}
