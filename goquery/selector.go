package goquery

import (
	"github.com/fwojciec/distill"
	"github.com/fwojciec/distill/dom"
	"golang.org/x/net/html"
)

// Selector picks the node, or minimal run of contiguous sibling nodes, that
// best represents the document's main content.
type Selector struct {
	cfg distill.Config
}

// NewSelector creates a Selector using the given heuristic configuration.
func NewSelector(cfg distill.Config) *Selector {
	return &Selector{cfg: cfg}
}

// Select returns the primary content region for a scored document: the
// highest-scoring node plus any contiguous siblings above the co-primary
// threshold. Ties at the top score break by greater descendant text length,
// then by shallower depth, then by document order, so selection is fully
// deterministic.
//
// Returns ENOCONTENT when no node clears the configured score floor.
func (s *Selector) Select(doc *dom.Document, records map[*html.Node]*distill.ScoreRecord) ([]*html.Node, *distill.ScoreRecord, error) {
	var best *html.Node
	dom.Walk(doc.Root, func(n *html.Node) bool {
		rec, ok := records[n]
		if !ok {
			return true
		}
		if best == nil || better(rec, records[best]) {
			best = n
		}
		return true
	})

	if best == nil || records[best].Total < s.cfg.ScoreFloor {
		return nil, nil, distill.Errorf(distill.ENOCONTENT, "no node cleared score floor %v", s.cfg.ScoreFloor)
	}

	run := s.coPrimaryRun(best, records)
	return run, records[best], nil
}

// better reports whether a should be preferred over b as the primary
// candidate. Document order is the implicit final tie-break: a earlier
// node wins because a later equal one never replaces it.
func better(a, b *distill.ScoreRecord) bool {
	if a.Total != b.Total {
		return a.Total > b.Total
	}
	if a.TextLen != b.TextLen {
		return a.TextLen > b.TextLen
	}
	return a.Depth < b.Depth
}

// coPrimaryRun expands the primary node into the maximal run of contiguous
// element siblings whose scores reach the co-primary threshold. This merges
// documents split across adjacent containers (e.g. separate header/body
// article blocks) into one composite region.
func (s *Selector) coPrimaryRun(primary *html.Node, records map[*html.Node]*distill.ScoreRecord) []*html.Node {
	floor := s.cfg.CoPrimaryThreshold * records[primary].Total

	qualifies := func(n *html.Node) bool {
		if n == nil || n.Type != html.ElementNode {
			return false
		}
		rec, ok := records[n]
		return ok && rec.Total >= floor && rec.Total >= s.cfg.ScoreFloor
	}

	first := primary
	for sib := prevElement(first); qualifies(sib); sib = prevElement(first) {
		first = sib
	}

	run := []*html.Node{first}
	for n := first; n != primary; {
		n = nextElement(n)
		run = append(run, n)
	}
	for sib := nextElement(primary); qualifies(sib); sib = nextElement(sib) {
		run = append(run, sib)
	}
	return run
}

func prevElement(n *html.Node) *html.Node {
	for sib := n.PrevSibling; sib != nil; sib = sib.PrevSibling {
		if sib.Type == html.ElementNode {
			return sib
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
