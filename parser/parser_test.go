package parser

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeremiep/portfolio-be/types"
)

func TestFactorySupportedExtensions(t *testing.T) {
	f := NewFactory()

	assert.Equal(t, []string{
		".md", ".markdown", ".pdf", ".docx", ".doc", ".html", ".htm", ".txt", ".text", ".readme",
	}, f.SupportedExtensions())

	for _, ext := range f.SupportedExtensions() {
		assert.True(t, f.Supports("file"+ext), "extension %s should be supported", ext)
	}
	assert.True(t, f.Supports("UPPER.MD"), "extension match should be case-insensitive")
	assert.False(t, f.Supports("binary.exe"))
	assert.False(t, f.Supports("noextension"))
}

func TestFactoryAliasesShareParsers(t *testing.T) {
	f := NewFactory()

	md, ok := f.Parser("a.md")
	require.True(t, ok)
	markdown, ok := f.Parser("a.markdown")
	require.True(t, ok)
	assert.Same(t, md, markdown)

	docx, ok := f.Parser("a.docx")
	require.True(t, ok)
	doc, ok := f.Parser("a.doc")
	require.True(t, ok)
	assert.Same(t, docx, doc)
}

func TestMarkdownParserFrontmatter(t *testing.T) {
	content := []byte("---\ntitle: \"My Post\"\ndate: 2024-03-01\ntags: go, rag\n---\n\n# Heading\n\nBody text here.")

	p := &MarkdownParser{}
	doc, err := p.Parse("content/blog/my-post.md", content)
	require.NoError(t, err)

	assert.Equal(t, "# Heading\n\nBody text here.", doc.Content)
	assert.Equal(t, "my-post", doc.Metadata[types.MetaSource])
	assert.Equal(t, "blog_post", doc.Metadata[types.MetaType])
	assert.Equal(t, "My Post", doc.Metadata["title"])
	assert.Equal(t, "2024-03-01", doc.Metadata["date"])
	assert.Equal(t, "go, rag", doc.Metadata["tags"])
}

func TestMarkdownParserNoFrontmatter(t *testing.T) {
	p := &MarkdownParser{}
	doc, err := p.Parse("note.md", []byte("just a note, no frontmatter"))
	require.NoError(t, err)

	assert.Equal(t, "just a note, no frontmatter", doc.Content)
	assert.Equal(t, "note", doc.Metadata[types.MetaSource])
	assert.NotContains(t, doc.Metadata, "title")
}

func TestMarkdownParserUnterminatedFrontmatter(t *testing.T) {
	p := &MarkdownParser{}
	doc, err := p.Parse("broken.md", []byte("---\ntitle: never closed\nbody follows"))
	require.NoError(t, err)

	// Without a closing delimiter the whole file is treated as body.
	assert.Contains(t, doc.Content, "title: never closed")
}

func TestTextParserKeepsFullFilename(t *testing.T) {
	p := &TextParser{}
	doc, err := p.Parse("docs/setup.readme", []byte("  install, then run  \n"))
	require.NoError(t, err)

	assert.Equal(t, "install, then run", doc.Content)
	assert.Equal(t, "setup.readme", doc.Metadata[types.MetaSource])
	assert.Equal(t, "text", doc.Metadata[types.MetaType])
}

func TestHTMLParserStripsChrome(t *testing.T) {
	content := []byte(`<html><head>
<title>About Me</title>
<style>body { color: red; }</style>
<script>console.log("hi")</script>
</head><body>
<nav>Home | Blog</nav>
<h1>About Me</h1>
<p>I build    backend systems.</p>
<footer>copyright</footer>
</body></html>`)

	p := &HTMLParser{}
	doc, err := p.Parse("site/about.html", content)
	require.NoError(t, err)

	assert.Equal(t, "About Me I build backend systems.", doc.Content)
	assert.Equal(t, "About Me", doc.Metadata[types.MetaTitle])
	assert.Equal(t, "about", doc.Metadata[types.MetaSource])
	assert.Equal(t, "html", doc.Metadata[types.MetaType])
	assert.NotContains(t, doc.Content, "console.log")
	assert.NotContains(t, doc.Content, "Home | Blog")
	assert.NotContains(t, doc.Content, "copyright")
}

func TestHTMLParserTitleFallsBackToH1(t *testing.T) {
	p := &HTMLParser{}
	doc, err := p.Parse("page.html", []byte("<html><body><h1>Only Heading</h1><p>text</p></body></html>"))
	require.NoError(t, err)
	assert.Equal(t, "Only Heading", doc.Metadata[types.MetaTitle])
}

func TestDOCXParser(t *testing.T) {
	documentXML := `<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body><w:p><w:r><w:t>Hello</w:t></w:r><w:r><w:t xml:space="preserve">from docx</w:t></w:r></w:p></w:body>
</w:document>`

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	fw, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = fw.Write([]byte(documentXML))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	p := &DOCXParser{}
	doc, err := p.Parse("cv.docx", buf.Bytes())
	require.NoError(t, err)

	assert.Equal(t, "Hello from docx", doc.Content)
	assert.Equal(t, "cv", doc.Metadata[types.MetaSource])
	assert.Equal(t, "docx", doc.Metadata[types.MetaType])
}

func TestDOCXParserRejectsGarbage(t *testing.T) {
	p := &DOCXParser{}
	_, err := p.Parse("corrupt.docx", []byte("this is not a zip archive"))
	require.Error(t, err)

	var parseErr *types.ParseError
	assert.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "corrupt.docx", parseErr.Path)
}

func TestPDFParserRejectsGarbage(t *testing.T) {
	p := &PDFParser{}
	_, err := p.Parse("corrupt.pdf", []byte("not a pdf at all"))
	require.Error(t, err)

	var parseErr *types.ParseError
	assert.ErrorAs(t, err, &parseErr)
}
