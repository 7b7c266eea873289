package dom

import (
	"github.com/fwojciec/distill"
	"golang.org/x/net/html"
)

// LocatorFor computes the structural path from the document root to n.
// The path uses (tag, sibling-index-among-same-tag) steps computed on the
// normalized tree, so attribute differences between two structurally
// identical documents do not perturb it.
func LocatorFor(doc *Document, n *html.Node) distill.Locator {
	return LocatorForRun(doc, n, 1)
}

// LocatorForRun computes the locator for a composite region: span
// contiguous element siblings starting at first.
func LocatorForRun(doc *Document, first *html.Node, span int) distill.Locator {
	if first == nil || first.Type != html.ElementNode {
		return distill.Locator{}
	}

	var steps []distill.Step
	for n := first; n != nil && n.Type == html.ElementNode; n = n.Parent {
		steps = append([]distill.Step{{Tag: n.Data, Index: sameTagIndex(n)}}, steps...)
	}

	loc := distill.Locator{Steps: steps}
	if span > 1 {
		loc.Span = span
	}
	return loc
}

// Resolve walks the locator against the normalized tree and returns the
// addressed node(s): one node for a plain locator, span contiguous element
// siblings for a composite one. Returns ENOTFOUND when the path no longer
// resolves in this document.
func Resolve(doc *Document, loc distill.Locator) ([]*html.Node, error) {
	if loc.IsZero() {
		return nil, distill.Errorf(distill.EINVALID, "empty locator")
	}

	current := doc.Root
	for _, step := range loc.Steps {
		child := childByStep(current, step)
		if child == nil {
			return nil, distill.Errorf(distill.ENOTFOUND, "locator %s does not resolve", loc)
		}
		current = child
	}

	nodes := []*html.Node{current}
	for len(nodes) < max(loc.Span, 1) {
		sib := nextElement(current)
		if sib == nil {
			return nil, distill.Errorf(distill.ENOTFOUND, "locator %s spans past last sibling", loc)
		}
		nodes = append(nodes, sib)
		current = sib
	}
	return nodes, nil
}

// sameTagIndex returns n's 1-based index among element siblings sharing its
// tag name.
func sameTagIndex(n *html.Node) int {
	idx := 1
	for sib := n.PrevSibling; sib != nil; sib = sib.PrevSibling {
		if sib.Type == html.ElementNode && sib.Data == n.Data {
			idx++
		}
	}
	return idx
}

func childByStep(parent *html.Node, step distill.Step) *html.Node {
	seen := 0
	for c := parent.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == step.Tag {
			seen++
			if seen == step.Index {
				return c
			}
		}
	}
	return nil
}

func nextElement(n *html.Node) *html.Node {
	for sib := n.NextSibling; sib != nil; sib = sib.NextSibling {
		if sib.Type == html.ElementNode {
			return sib
		}
	}
	return nil
}
