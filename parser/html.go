package parser

import (
	"path/filepath"
	"strings"

	"golang.org/x/net/html"

	"github.com/jeremiep/portfolio-be/types"
)

// skippedElements are removed before extracting visible text.
var skippedElements = map[string]bool{
	"script": true,
	"style":  true,
	"nav":    true,
	"header": true,
	"footer": true,
}

// HTMLParser extracts the visible text of a page, dropping script, style and
// chrome elements and collapsing whitespace runs to single spaces. The page
// title falls back to the first h1, then the filename.
type HTMLParser struct{}

func (p *HTMLParser) Parse(path string, content []byte) (*types.Document, error) {
	raw, err := readSource(path, content)
	if err != nil {
		return nil, &types.ParseError{Path: path, Err: err}
	}

	root, err := html.Parse(strings.NewReader(string(raw)))
	if err != nil {
		return nil, &types.ParseError{Path: path, Err: err}
	}

	var text, title, firstH1 strings.Builder
	var walk func(n *html.Node, inTitle, inH1 bool)
	walk = func(n *html.Node, inTitle, inH1 bool) {
		if n.Type == html.ElementNode {
			if skippedElements[n.Data] {
				return
			}
			switch n.Data {
			case "title":
				inTitle = true
			case "h1":
				if firstH1.Len() == 0 {
					inH1 = true
				}
			}
		}
		if n.Type == html.TextNode {
			switch {
			case inTitle:
				title.WriteString(n.Data)
			case inH1:
				firstH1.WriteString(n.Data)
				text.WriteString(n.Data)
				text.WriteByte(' ')
			default:
				text.WriteString(n.Data)
				text.WriteByte(' ')
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c, inTitle, inH1)
		}
	}
	walk(root, false, false)

	pageTitle := strings.TrimSpace(title.String())
	if pageTitle == "" {
		pageTitle = strings.TrimSpace(firstH1.String())
	}
	if pageTitle == "" {
		pageTitle = filepath.Base(path)
	}

	return &types.Document{
		Content: collapseWhitespace(text.String()),
		Metadata: map[string]string{
			types.MetaSource:   sourceName(path),
			types.MetaType:     "html",
			types.MetaFilePath: path,
			types.MetaTitle:    pageTitle,
		},
	}, nil
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
