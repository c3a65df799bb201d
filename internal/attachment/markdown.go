package attachment

import (
	"bytes"
	"os"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// MarkdownCounter counts top-level blocks (headings, paragraphs, lists...).
type MarkdownCounter struct{}

func (c *MarkdownCounter) Count(path string) (Measure, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return Measure{}, err
	}

	doc := goldmark.New().Parser().Parse(text.NewReader(src))
	n := 0
	for b := doc.FirstChild(); b != nil; b = b.NextSibling() {
		if b.Type() == ast.TypeBlock {
			n++
		}
	}
	return Measure{Count: n, Unit: "blocks"}, nil
}

// RenderHTML converts a Markdown report into an HTML fragment.
func RenderHTML(md string) (string, error) {
	var buf bytes.Buffer
	conv := goldmark.New(goldmark.WithExtensions(extension.Table))
	if err := conv.Convert([]byte(md), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
