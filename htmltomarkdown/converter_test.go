package htmltomarkdown_test

import (
	"regexp"
	"testing"

	"github.com/fwojciec/distill"
	"github.com/fwojciec/distill/htmltomarkdown"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Ensure Converter implements distill.Converter at compile time.
var _ distill.Converter = (*htmltomarkdown.Converter)(nil)

func TestConverter_Convert(t *testing.T) {
	t.Parallel()

	t.Run("converts headings by level", func(t *testing.T) {
		t.Parallel()

		conv := htmltomarkdown.NewConverter()
		md, err := conv.Convert(`<h1>Title</h1><h2>Subtitle</h2><h3>Section</h3>`)

		require.NoError(t, err)
		assert.Contains(t, md, "# Title")
		assert.Contains(t, md, "## Subtitle")
		assert.Contains(t, md, "### Section")
	})

	t.Run("converts inline formatting and links", func(t *testing.T) {
		t.Parallel()

		conv := htmltomarkdown.NewConverter()
		md, err := conv.Convert(`<p>Visit <a href="https://example.com">Example</a> for <em>more</em> <strong>info</strong>.</p>`)

		require.NoError(t, err)
		assert.Contains(t, md, "[Example](https://example.com)")
		assert.Contains(t, md, "*more*")
		assert.Contains(t, md, "**info**")
	})

	t.Run("converts nested lists preserving depth", func(t *testing.T) {
		t.Parallel()

		conv := htmltomarkdown.NewConverter()
		md, err := conv.Convert(`<ul><li>First<ul><li>Nested</li></ul></li><li>Second</li></ul>`)

		require.NoError(t, err)
		assert.Contains(t, md, "- First")
		assert.Contains(t, md, "  - Nested")
		assert.Contains(t, md, "- Second")
	})

	t.Run("converts ordered lists", func(t *testing.T) {
		t.Parallel()

		conv := htmltomarkdown.NewConverter()
		md, err := conv.Convert(`<ol><li>First</li><li>Second</li></ol>`)

		require.NoError(t, err)
		assert.Contains(t, md, "1. First")
		assert.Contains(t, md, "2. Second")
	})

	t.Run("converts tables to pipe syntax", func(t *testing.T) {
		t.Parallel()

		conv := htmltomarkdown.NewConverter()
		md, err := conv.Convert(`<table><tr><th>Name</th><th>Age</th></tr><tr><td>Ada</td><td>36</td></tr></table>`)

		require.NoError(t, err)
		// Cells come back width-padded; compare with runs of spaces
		// collapsed.
		collapsed := regexp.MustCompile(` +`).ReplaceAllString(md, " ")
		assert.Contains(t, collapsed, "| Name | Age |")
		assert.Contains(t, collapsed, "| Ada | 36 |")
	})

	t.Run("converts preformatted blocks to fenced code", func(t *testing.T) {
		t.Parallel()

		conv := htmltomarkdown.NewConverter()
		md, err := conv.Convert("<pre><code>func main() {\n\tprintln(1 < 2)\n}</code></pre>")

		require.NoError(t, err)
		assert.Contains(t, md, "```")
		// Code content stays unescaped and whitespace-preserving.
		assert.Contains(t, md, "func main() {\n\tprintln(1 < 2)\n}")
	})

	t.Run("converts images with alt text", func(t *testing.T) {
		t.Parallel()

		conv := htmltomarkdown.NewConverter()
		md, err := conv.Convert(`<p><img src="/chart.png" alt="quarterly chart"></p>`)

		require.NoError(t, err)
		assert.Contains(t, md, "![quarterly chart](/chart.png)")
	})

	t.Run("unwraps unknown tags instead of dropping content", func(t *testing.T) {
		t.Parallel()

		conv := htmltomarkdown.NewConverter()
		md, err := conv.Convert(`<p>before <custom-widget>inside</custom-widget> after</p>`)

		require.NoError(t, err)
		assert.Contains(t, md, "inside")
	})

	t.Run("empty input yields empty output without error", func(t *testing.T) {
		t.Parallel()

		conv := htmltomarkdown.NewConverter()

		for _, in := range []string{"", "   \n\t"} {
			md, err := conv.Convert(in)
			require.NoError(t, err)
			assert.Empty(t, md)
		}
	})

	t.Run("collapses runs of blank lines", func(t *testing.T) {
		t.Parallel()

		conv := htmltomarkdown.NewConverter()
		md, err := conv.Convert(`<article><h1>T</h1><div></div><div></div><p>Body text.</p></article>`)

		require.NoError(t, err)
		assert.Equal(t, "# T\n\nBody text.", md)
	})
}
