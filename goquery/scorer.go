// Package goquery implements the heuristic content boundary detector:
// a scorer that assigns every block-level node a content-likelihood score,
// a selector that picks the best-scoring region deterministically, and an
// Extractor composing normalization, scoring, selection, and locator
// derivation.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/distill"
	"github.com/fwojciec/distill/dom"
	"golang.org/x/net/html"
)

// candidateSelector matches the block-level elements that receive scores.
// Boilerplate tags (nav, footer, aside, header, menu) are scored too; their
// negative tag weights keep them below the floor rather than excluding them
// outright, so a boilerplate-only document reads as "no content".
const candidateSelector = "article, main, section, div, p, blockquote, pre, table, ul, ol, li, td, figure, dl, nav, header, footer, aside, menu"

// Scorer assigns each block-level node a content-likelihood score from text
// density, tag semantics, and link density. Scoring is a pure function of
// the normalized tree: identical input yields identical scores.
type Scorer struct {
	cfg distill.Config
}

// NewScorer creates a Scorer using the given heuristic configuration.
func NewScorer(cfg distill.Config) *Scorer {
	return &Scorer{cfg: cfg}
}

// Score computes a ScoreRecord for every block-level node of the document.
// Each record is computed exactly once and never mutated afterward; scores
// live in the returned side mapping, the tree itself is left untouched.
func (s *Scorer) Score(doc *dom.Document) map[*html.Node]*distill.ScoreRecord {
	records := make(map[*html.Node]*distill.ScoreRecord)

	gq := goquery.NewDocumentFromNode(doc.Root)
	gq.Find(candidateSelector).Each(func(_ int, sel *goquery.Selection) {
		n := sel.Nodes[0]
		records[n] = s.scoreNode(n, sel)
	})

	s.propagate(doc.Root, records)
	return records
}

// scoreNode computes the pre-propagation sub-scores for one node.
func (s *Scorer) scoreNode(n *html.Node, sel *goquery.Selection) *distill.ScoreRecord {
	textLen := len(strings.TrimSpace(sel.Text()))

	linkLen := 0
	sel.Find("a").Each(func(_ int, a *goquery.Selection) {
		linkLen += len(strings.TrimSpace(a.Text()))
	})

	descendants := sel.Find("*").Length()

	density := float64(textLen) / float64(descendants+1)

	linkDensity := 0.0
	if textLen > 0 {
		linkDensity = float64(linkLen) / float64(textLen)
		if linkDensity > 1 {
			linkDensity = 1
		}
	}

	weight := s.cfg.TagWeights[n.Data]
	total := density*(1-s.cfg.LinkDensityPenalty*linkDensity) + weight

	return &distill.ScoreRecord{
		Tag:         n.Data,
		Depth:       dom.Depth(n),
		TextLen:     textLen,
		TextDensity: density,
		LinkDensity: linkDensity,
		TagWeight:   weight,
		Total:       total,
	}
}

// propagate walks the tree bottom-up adding a fraction of each scored
// node's total to its nearest scored ancestor, so a cluster of good
// children lifts the container above any single child. Only positive
// totals propagate: boilerplate children never drag a container down.
func (s *Scorer) propagate(root *html.Node, records map[*html.Node]*distill.ScoreRecord) {
	var walk func(n *html.Node) float64
	walk = func(n *html.Node) float64 {
		childSum := 0.0
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			childSum += walk(c)
		}

		rec, ok := records[n]
		if !ok {
			return childSum
		}

		rec.AncestorBonus = s.cfg.AncestorFraction * childSum
		rec.Total += rec.AncestorBonus
		if rec.Total <= 0 {
			return 0
		}
		return rec.Total
	}
	walk(root)
}
