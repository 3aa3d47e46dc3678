package parser

import (
	"context"
	"fmt"
	"io"
	"os"
)

// ImageParser recognizes image files (.png) so they are attempted
// rather than silently skipped. There is no OCR capability, so every
// image turns into a per-file load failure with a clear reason.
type ImageParser struct{}

// NewImageParser creates a new image parser
func NewImageParser() *ImageParser {
	return &ImageParser{}
}

// Parse always fails: images have no text layer without OCR.
func (p *ImageParser) Parse(ctx context.Context, r io.Reader) (*Document, error) {
	return nil, fmt.Errorf("image files require OCR, which is not available")
}

// ParseFile always fails after checking the file is readable.
func (p *ImageParser) ParseFile(ctx context.Context, filePath string) (*Document, error) {
	if _, err := os.Stat(filePath); err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return nil, fmt.Errorf("image files require OCR, which is not available")
}

// FileType returns the file type this parser handles
func (p *ImageParser) FileType() FileType {
	return FileTypeImage
}
