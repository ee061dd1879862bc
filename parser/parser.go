// Package parser converts raw content files into plain-text documents.
package parser

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/jeremiep/portfolio-be/types"
)

// DocumentParser extracts exactly one Document from a source file. When
// content is non-nil it is used instead of reading path from disk, so
// uploaded buffers can be parsed without touching the filesystem; path is
// still used for extension detection and default metadata.
type DocumentParser interface {
	Parse(path string, content []byte) (*types.Document, error)
}

// supportedExtensions is the closed extension-to-parser table. Order is
// significant: SupportedExtensions reports it verbatim in API responses.
var supportedExtensions = []string{
	".md", ".markdown", ".pdf", ".docx", ".doc", ".html", ".htm", ".txt", ".text", ".readme",
}

// Factory maps file extensions (case-insensitive) to parser instances.
type Factory struct {
	parsers map[string]DocumentParser
}

func NewFactory() *Factory {
	markdown := &MarkdownParser{}
	pdf := &PDFParser{}
	docx := &DOCXParser{}
	html := &HTMLParser{}
	text := &TextParser{}
	return &Factory{
		parsers: map[string]DocumentParser{
			".md":       markdown,
			".markdown": markdown,
			".pdf":      pdf,
			".docx":     docx,
			".doc":      docx,
			".html":     html,
			".htm":      html,
			".txt":      text,
			".text":     text,
			".readme":   text,
		},
	}
}

// Parser returns the parser for the file's extension. The second return is
// false when no parser is available; callers treat that as a skip, not an
// error.
func (f *Factory) Parser(path string) (DocumentParser, bool) {
	p, ok := f.parsers[strings.ToLower(filepath.Ext(path))]
	return p, ok
}

// Supports reports whether a parser exists for the file's extension.
func (f *Factory) Supports(path string) bool {
	_, ok := f.Parser(path)
	return ok
}

// SupportedExtensions returns the supported extension list in declaration
// order.
func (f *Factory) SupportedExtensions() []string {
	out := make([]string, len(supportedExtensions))
	copy(out, supportedExtensions)
	return out
}

// readSource returns content when provided, otherwise reads path from disk.
func readSource(path string, content []byte) ([]byte, error) {
	if content != nil {
		return content, nil
	}
	return os.ReadFile(path)
}

// sourceName returns the filename stem used as the default source metadata.
func sourceName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
