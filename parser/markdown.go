package parser

import (
	"strings"

	"github.com/jeremiep/portfolio-be/types"
)

// MarkdownParser splits an optional leading frontmatter block from the body.
// Frontmatter is parsed line by line as tolerant "key: value" pairs with
// surrounding quotes stripped; it is deliberately not a full YAML parser so
// that loosely formatted frontmatter still yields metadata instead of an
// error.
type MarkdownParser struct{}

func (p *MarkdownParser) Parse(path string, content []byte) (*types.Document, error) {
	raw, err := readSource(path, content)
	if err != nil {
		return nil, &types.ParseError{Path: path, Err: err}
	}

	metadata := map[string]string{
		types.MetaSource:   sourceName(path),
		types.MetaType:     "blog_post",
		types.MetaFilePath: path,
	}

	body, front, ok := splitFrontmatter(string(raw))
	if ok {
		for key, value := range parseFrontmatter(front) {
			metadata[key] = value
		}
	}

	return &types.Document{
		Content:  strings.TrimSpace(body),
		Metadata: metadata,
	}, nil
}

// splitFrontmatter separates a leading "---" delimited block from the body.
// Returns ok=false when the file has no frontmatter, in which case body is
// the whole file.
func splitFrontmatter(text string) (body, front string, ok bool) {
	normalized := strings.ReplaceAll(text, "\r\n", "\n")
	if !strings.HasPrefix(normalized, "---\n") {
		return text, "", false
	}
	rest := normalized[len("---\n"):]
	end := strings.Index(rest, "\n---")
	if end < 0 {
		return text, "", false
	}
	front = rest[:end]
	body = rest[end+len("\n---"):]
	body = strings.TrimPrefix(body, "\n")
	return body, front, true
}

func parseFrontmatter(front string) map[string]string {
	fields := make(map[string]string)
	for _, line := range strings.Split(front, "\n") {
		colon := strings.Index(line, ":")
		if colon <= 0 {
			continue
		}
		key := strings.TrimSpace(line[:colon])
		value := strings.TrimSpace(line[colon+1:])
		value = strings.Trim(value, `"'`)
		if key != "" {
			fields[key] = value
		}
	}
	return fields
}
