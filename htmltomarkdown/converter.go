// Package htmltomarkdown renders extracted content regions as Markdown.
package htmltomarkdown

import (
	"regexp"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/fwojciec/distill"
)

// Ensure Converter implements distill.Converter at compile time.
var _ distill.Converter = (*Converter)(nil)

var blankRuns = regexp.MustCompile(`\n{3,}`)

// Converter wraps html-to-markdown to convert HTML to Markdown. Headings
// become ATX runs, lists keep their nesting, tables become pipe tables, and
// preformatted blocks become fenced code. Unknown tags are unwrapped rather
// than dropped, so no content is silently lost.
type Converter struct {
	conv *converter.Converter
}

// NewConverter creates a new Converter.
func NewConverter() *Converter {
	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(),
		),
	)
	return &Converter{conv: conv}
}

// Convert transforms HTML content into Markdown. An empty or whitespace-only
// input converts to an empty string; degenerate inputs never error.
func (c *Converter) Convert(html string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", nil
	}

	result, err := c.conv.ConvertString(html)
	if err != nil {
		return "", err
	}

	return clean(result), nil
}

// clean normalizes converter output: runs of blank lines collapse to one
// blank line and surrounding whitespace is trimmed.
func clean(markdown string) string {
	return strings.TrimSpace(blankRuns.ReplaceAllString(markdown, "\n\n"))
}
