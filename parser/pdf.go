package parser

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/jeremiep/portfolio-be/types"
)

// PDFParser extracts the plain text of every page. Pages whose text cannot
// be decoded are skipped; a document that fails to open at all is a parse
// error.
type PDFParser struct{}

func (p *PDFParser) Parse(path string, content []byte) (*types.Document, error) {
	raw, err := readSource(path, content)
	if err != nil {
		return nil, &types.ParseError{Path: path, Err: err}
	}

	text, pages, err := extractPDF(raw)
	if err != nil {
		return nil, &types.ParseError{Path: path, Err: err}
	}

	return &types.Document{
		Content: strings.TrimSpace(text),
		Metadata: map[string]string{
			types.MetaSource:   sourceName(path),
			types.MetaType:     "pdf",
			types.MetaFilePath: path,
			types.MetaPages:    strconv.Itoa(pages),
		},
	}, nil
}

func extractPDF(content []byte) (string, int, error) {
	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", 0, err
	}
	var buf strings.Builder
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		buf.WriteString(text)
		if i < numPages {
			buf.WriteByte('\n')
		}
	}
	return buf.String(), numPages, nil
}
