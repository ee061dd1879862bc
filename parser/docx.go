package parser

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/jeremiep/portfolio-be/types"
)

const docxDocumentXMLPath = "word/document.xml"

// wtTag matches <w:t>text</w:t> including variants with attributes such as
// <w:t xml:space="preserve">.
var wtTag = regexp.MustCompile(`<w:t[^>]*>([^<]*)</w:t>`)

// DOCXParser extracts text from OOXML word documents. A .docx file is a zip
// archive whose body lives in word/document.xml; scanning all <w:t> text
// nodes keeps extraction independent of paragraph and run attributes.
type DOCXParser struct{}

func (p *DOCXParser) Parse(path string, content []byte) (*types.Document, error) {
	raw, err := readSource(path, content)
	if err != nil {
		return nil, &types.ParseError{Path: path, Err: err}
	}

	text, err := extractDOCX(raw)
	if err != nil {
		return nil, &types.ParseError{Path: path, Err: err}
	}

	return &types.Document{
		Content: strings.TrimSpace(text),
		Metadata: map[string]string{
			types.MetaSource:   sourceName(path),
			types.MetaType:     "docx",
			types.MetaFilePath: path,
		},
	}, nil
}

func extractDOCX(content []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("not a docx archive: %w", err)
	}

	var docXML []byte
	for _, f := range zr.File {
		if f.Name != docxDocumentXMLPath {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", fmt.Errorf("open %s: %w", f.Name, err)
		}
		docXML, err = io.ReadAll(rc)
		_ = rc.Close()
		if err != nil {
			return "", fmt.Errorf("read %s: %w", f.Name, err)
		}
		break
	}
	if docXML == nil {
		return "", fmt.Errorf("%s not found", docxDocumentXMLPath)
	}

	parts := wtTag.FindAllStringSubmatch(string(docXML), -1)
	var b strings.Builder
	for i, part := range parts {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(strings.TrimSpace(part[1]))
	}
	return b.String(), nil
}
