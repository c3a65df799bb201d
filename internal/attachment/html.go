package attachment

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/net/html"
)

// HTMLCounter counts the words of the visible body text.
type HTMLCounter struct{}

func (c *HTMLCounter) Count(path string) (Measure, error) {
	f, err := os.Open(path)
	if err != nil {
		return Measure{}, err
	}
	defer f.Close()

	doc, err := html.Parse(f)
	if err != nil {
		return Measure{}, fmt.Errorf("parse html: %w", err)
	}

	root := findBody(doc)
	if root == nil {
		root = doc
	}
	return Measure{Count: len(strings.Fields(textContent(root))), Unit: "words"}, nil
}

func textContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style":
				return
			}
		}
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
			buf.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(buf.String())
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}
