// Package dom provides the normalized document tree the extraction pipeline
// operates on. It parses raw HTML with golang.org/x/net/html, strips
// non-content nodes, collapses whitespace, and computes/resolves structural
// locators against the resulting tree.
package dom

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
)

// Document is an immutable-after-parse tree built from one input HTML
// document. It is owned exclusively by one extraction request.
type Document struct {
	// Root is the document node produced by the parser.
	Root *html.Node
}

// Body returns the document's body element, or nil if the tree has none.
func (d *Document) Body() *html.Node {
	var body *html.Node
	Walk(d.Root, func(n *html.Node) bool {
		if n.Type == html.ElementNode && n.Data == "body" {
			body = n
			return false
		}
		return true
	})
	return body
}

// Walk traverses the tree rooted at n in document order, calling fn for each
// node. Returning false from fn stops the traversal.
func Walk(n *html.Node, fn func(*html.Node) bool) bool {
	if !fn(n) {
		return false
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if !Walk(c, fn) {
			return false
		}
	}
	return true
}

// Depth returns the number of ancestors between n and the document root.
func Depth(n *html.Node) int {
	depth := 0
	for p := n.Parent; p != nil; p = p.Parent {
		depth++
	}
	return depth
}

// Text returns the concatenated text content of the subtree rooted at n.
func Text(n *html.Node) string {
	var b strings.Builder
	Walk(n, func(c *html.Node) bool {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
		return true
	})
	return b.String()
}

// RenderHTML serializes nodes back to HTML in order. Composite regions
// (contiguous siblings) serialize as their concatenation.
func RenderHTML(nodes ...*html.Node) (string, error) {
	var buf bytes.Buffer
	for i, n := range nodes {
		if i > 0 {
			buf.WriteByte('\n')
		}
		if err := html.Render(&buf, n); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}
