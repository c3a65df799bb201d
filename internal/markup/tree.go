package markup

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ErrMalformed is returned when the repaired text is still not
// well-formed markup.
var ErrMalformed = errors.New("markup is not well-formed")

// Parse reads well-formed markup into a mutable node tree rooted at a
// DocumentNode. Prefixed names keep their prefix. A prefix must be declared
// with xmlns on the element or an ancestor, except vendorPrefix, which is
// accepted undeclared. Whitespace-only text is dropped, so sibling chains
// consist of elements, comments and text that carries content.
func Parse(r io.Reader, vendorPrefix string) (*html.Node, error) {
	d := xml.NewDecoder(r)
	d.Strict = true

	doc := &html.Node{Type: html.DocumentNode}
	stack := []frame{{node: doc}}

	for {
		tok, err := d.RawToken()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
		}

		top := &stack[len(stack)-1]
		switch t := tok.(type) {
		case xml.StartElement:
			f := frame{name: t.Name, prefixes: declaredPrefixes(t.Attr)}
			scope := append(stack, f)
			name, err := qualifiedName(t.Name, vendorPrefix, scope)
			if err != nil {
				return nil, err
			}
			attrs, err := convertAttrs(t.Attr, vendorPrefix, scope)
			if err != nil {
				return nil, err
			}
			node := &html.Node{
				Type:     html.ElementNode,
				Data:     name,
				DataAtom: atom.Lookup([]byte(name)),
				Attr:     attrs,
			}
			top.node.AppendChild(node)
			scope[len(scope)-1].node = node
			stack = scope

		case xml.EndElement:
			if len(stack) == 1 || t.Name != top.name {
				return nil, fmt.Errorf("%w: unexpected end element </%s>", ErrMalformed, rawName(t.Name))
			}
			stack = stack[:len(stack)-1]

		case xml.CharData:
			text := string(t)
			if strings.TrimSpace(text) == "" {
				continue
			}
			parent := top.node
			if parent == doc {
				return nil, fmt.Errorf("%w: text outside the root element", ErrMalformed)
			}
			if last := parent.LastChild; last != nil && last.Type == html.TextNode {
				last.Data += text
				continue
			}
			parent.AppendChild(&html.Node{Type: html.TextNode, Data: text})

		case xml.Comment:
			top.node.AppendChild(&html.Node{Type: html.CommentNode, Data: string(t)})
		}
	}

	if len(stack) > 1 {
		return nil, fmt.Errorf("%w: unclosed element <%s>", ErrMalformed, rawName(stack[len(stack)-1].name))
	}

	roots := 0
	for c := doc.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			roots++
		}
	}
	switch {
	case roots == 0:
		return nil, fmt.Errorf("%w: no root element", ErrMalformed)
	case roots > 1:
		return nil, fmt.Errorf("%w: %d root elements", ErrMalformed, roots)
	}
	return doc, nil
}

// frame is one open element. name is the name as written in the source.
type frame struct {
	node     *html.Node
	name     xml.Name
	prefixes map[string]bool
}

func declaredPrefixes(attrs []xml.Attr) map[string]bool {
	var m map[string]bool
	for _, a := range attrs {
		if a.Name.Space == "xmlns" {
			if m == nil {
				m = make(map[string]bool)
			}
			m[a.Name.Local] = true
		}
	}
	return m
}

func inScope(prefix, vendorPrefix string, scope []frame) bool {
	switch prefix {
	case "", "xml", "xmlns":
		return true
	case vendorPrefix:
		return true
	}
	for i := len(scope) - 1; i >= 0; i-- {
		if scope[i].prefixes[prefix] {
			return true
		}
	}
	return false
}

func rawName(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	return n.Space + ":" + n.Local
}

func qualifiedName(n xml.Name, vendorPrefix string, scope []frame) (string, error) {
	if !inScope(n.Space, vendorPrefix, scope) {
		return "", fmt.Errorf("%w: undeclared prefix %q on <%s>", ErrMalformed, n.Space, rawName(n))
	}
	return rawName(n), nil
}

func convertAttrs(attrs []xml.Attr, vendorPrefix string, scope []frame) ([]html.Attribute, error) {
	if len(attrs) == 0 {
		return nil, nil
	}
	out := make([]html.Attribute, 0, len(attrs))
	for _, a := range attrs {
		if !inScope(a.Name.Space, vendorPrefix, scope) {
			return nil, fmt.Errorf("%w: undeclared prefix %q on attribute %s", ErrMalformed, a.Name.Space, rawName(a.Name))
		}
		out = append(out, html.Attribute{Namespace: a.Name.Space, Key: a.Name.Local, Val: a.Value})
	}
	return out, nil
}

// Clear removes every child and attribute of n, keeping n in place.
// Comment and text data is left alone.
func Clear(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		n.RemoveChild(c)
		c = next
	}
	n.Attr = nil
}

// Outer renders n and its subtree.
func Outer(n *html.Node) (string, error) {
	var buf strings.Builder
	if err := html.Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}
