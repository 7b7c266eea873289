package dom

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/fwojciec/distill"
	"golang.org/x/net/html"
)

// strippedTags are elements removed wholesale during normalization: they
// never contribute renderable content.
var strippedTags = map[string]bool{
	"script":   true,
	"style":    true,
	"template": true,
	"noscript": true,
}

// preformattedTags preserve whitespace in their subtree.
var preformattedTags = map[string]bool{
	"pre":      true,
	"textarea": true,
}

// hiddenStylePatterns match inline styles that make an element invisible.
var hiddenStylePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)display\s*:\s*none`),
	regexp.MustCompile(`(?i)visibility\s*:\s*hidden`),
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// Normalize parses raw HTML into a Document, strips non-content nodes
// (scripts, styles, templates, comments, hidden-by-attribute elements), and
// collapses whitespace runs to single spaces outside preformatted blocks.
//
// Parsing is tolerant of malformed markup: unclosed tags and implicit
// closing are repaired the way browser parsers do. Normalize fails with
// EMALFORMED only when the input cannot be parsed into any tree at all
// (empty or non-text byte stream).
func Normalize(rawHTML string) (*Document, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, distill.Errorf(distill.EMALFORMED, "empty input")
	}
	if !utf8.ValidString(rawHTML) {
		return nil, distill.Errorf(distill.EMALFORMED, "input is not valid UTF-8 text")
	}

	root, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return nil, distill.Errorf(distill.EMALFORMED, "parsing HTML: %v", err)
	}

	stripNonContent(root)
	collapseWhitespace(root, false)

	return &Document{Root: root}, nil
}

// stripNonContent removes comments, doctype declarations, stripped tags,
// and hidden elements from the subtree rooted at n.
func stripNonContent(n *html.Node) {
	var next *html.Node
	for c := n.FirstChild; c != nil; c = next {
		next = c.NextSibling
		if removable(c) {
			n.RemoveChild(c)
			continue
		}
		stripNonContent(c)
	}
}

func removable(n *html.Node) bool {
	switch n.Type {
	case html.CommentNode, html.DoctypeNode:
		return true
	case html.ElementNode:
		return strippedTags[n.Data] || hidden(n)
	}
	return false
}

// hidden reports whether the element is invisible by attribute: the hidden
// attribute, aria-hidden, hidden inputs, or an inline style matching one of
// the hidden patterns.
func hidden(n *html.Node) bool {
	for _, a := range n.Attr {
		switch a.Key {
		case "hidden":
			return true
		case "aria-hidden":
			if strings.EqualFold(a.Val, "true") {
				return true
			}
		case "type":
			if n.Data == "input" && strings.EqualFold(a.Val, "hidden") {
				return true
			}
		case "style":
			for _, pat := range hiddenStylePatterns {
				if pat.MatchString(a.Val) {
					return true
				}
			}
		}
	}
	return false
}

// collapseWhitespace rewrites text nodes outside preformatted blocks,
// replacing whitespace runs with single spaces and dropping nodes that
// contain nothing else.
func collapseWhitespace(n *html.Node, inPre bool) {
	if n.Type == html.ElementNode && preformattedTags[n.Data] {
		inPre = true
	}
	var next *html.Node
	for c := n.FirstChild; c != nil; c = next {
		next = c.NextSibling
		if c.Type == html.TextNode && !inPre {
			collapsed := whitespaceRun.ReplaceAllString(c.Data, " ")
			if strings.TrimSpace(collapsed) == "" {
				n.RemoveChild(c)
				continue
			}
			c.Data = collapsed
		}
		collapseWhitespace(c, inPre)
	}
}
