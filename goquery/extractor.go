package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/distill"
	"github.com/fwojciec/distill/dom"
)

// Ensure Extractor implements distill.Extractor at compile time.
var _ distill.Extractor = (*Extractor)(nil)

// Extractor locates the main content region of an HTML document with the
// heuristic scorer and returns it together with its structural locator.
type Extractor struct {
	cfg      distill.Config
	scorer   *Scorer
	selector *Selector
}

// NewExtractor creates a new Extractor with the given configuration.
func NewExtractor(cfg distill.Config) *Extractor {
	return &Extractor{
		cfg:      cfg,
		scorer:   NewScorer(cfg),
		selector: NewSelector(cfg),
	}
}

// Extract normalizes raw HTML, scores every block-level node, selects the
// content boundary, and returns the region as clean HTML with its locator.
func (e *Extractor) Extract(rawHTML string) (*distill.ExtractResult, error) {
	doc, err := dom.Normalize(rawHTML)
	if err != nil {
		return nil, err
	}

	records := e.scorer.Score(doc)

	nodes, primary, err := e.selector.Select(doc, records)
	if err != nil {
		return nil, err
	}

	contentHTML, err := dom.RenderHTML(nodes...)
	if err != nil {
		return nil, err
	}

	return &distill.ExtractResult{
		Title:       title(doc),
		ContentHTML: contentHTML,
		Locator:     dom.LocatorForRun(doc, nodes[0], len(nodes)),
		Primary:     primary,
	}, nil
}

// title extracts the page title from the <title> element, falling back to
// the first heading.
func title(doc *dom.Document) string {
	gq := goquery.NewDocumentFromNode(doc.Root)
	if t := strings.TrimSpace(gq.Find("title").First().Text()); t != "" {
		return t
	}
	return strings.TrimSpace(gq.Find("h1").First().Text())
}
