package agenda

import (
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// voidElements cannot hold children once rendered.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

// insertLinks appends an anchor and a line break per link to slot. A void
// slot such as <br> cannot hold children, so the links go after it, behind
// any anchor/break pairs an earlier run left there.
func insertLinks(slot *html.Node, links []Link) {
	if !voidElements[slot.Data] {
		for _, l := range links {
			for _, n := range linkNodes(l) {
				slot.AppendChild(n)
			}
		}
		return
	}

	after := slot
	for isLinkPair(after.NextSibling) {
		after = after.NextSibling.NextSibling
	}
	for _, l := range links {
		for _, n := range linkNodes(l) {
			slot.Parent.InsertBefore(n, after.NextSibling)
			after = n
		}
	}
}

// isLinkPair reports whether n starts an <a>, <br> pair.
func isLinkPair(n *html.Node) bool {
	if n == nil || n.Type != html.ElementNode || n.DataAtom != atom.A {
		return false
	}
	br := n.NextSibling
	return br != nil && br.Type == html.ElementNode && br.DataAtom == atom.Br
}

func linkNodes(l Link) []*html.Node {
	a := &html.Node{
		Type:     html.ElementNode,
		Data:     "a",
		DataAtom: atom.A,
		Attr:     []html.Attribute{{Key: "href", Val: l.Href}},
	}
	a.AppendChild(&html.Node{Type: html.TextNode, Data: l.Name})
	br := &html.Node{Type: html.ElementNode, Data: "br", DataAtom: atom.Br}
	return []*html.Node{a, br}
}
