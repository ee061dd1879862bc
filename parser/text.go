package parser

import (
	"path/filepath"
	"strings"

	"github.com/jeremiep/portfolio-be/types"
)

// TextParser passes content through with only a whitespace trim. The full
// base filename (extension included) is kept as the source so .readme and
// .txt files stay distinguishable.
type TextParser struct{}

func (p *TextParser) Parse(path string, content []byte) (*types.Document, error) {
	raw, err := readSource(path, content)
	if err != nil {
		return nil, &types.ParseError{Path: path, Err: err}
	}

	return &types.Document{
		Content: strings.TrimSpace(string(raw)),
		Metadata: map[string]string{
			types.MetaSource:   filepath.Base(path),
			types.MetaType:     "text",
			types.MetaFilePath: path,
		},
	}, nil
}
