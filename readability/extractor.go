package readability

import (
	"strings"

	"github.com/fwojciec/distill"
	"github.com/go-shiori/go-readability"
)

// Ensure Extractor implements distill.Extractor at compile time.
var _ distill.Extractor = (*Extractor)(nil)

// Extractor wraps go-readability to extract main content from HTML. Like
// the trafilatura backend it returns a zero Locator: readability rewrites
// the content tree, so positions in the source document are lost.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract processes raw HTML and returns the main content.
func (e *Extractor) Extract(rawHTML string) (*distill.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, distill.Errorf(distill.EMALFORMED, "empty HTML input")
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), nil)
	if err != nil {
		return nil, distill.Errorf(distill.ENOCONTENT, "readability: %v", err)
	}
	if strings.TrimSpace(article.Content) == "" {
		return nil, distill.Errorf(distill.ENOCONTENT, "no main content found")
	}

	return &distill.ExtractResult{
		Title:       article.Title,
		ContentHTML: article.Content,
	}, nil
}
