package trafilatura_test

import (
	"testing"

	"github.com/fwojciec/distill"
	"github.com/fwojciec/distill/trafilatura"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Ensure Extractor implements distill.Extractor at compile time.
var _ distill.Extractor = (*trafilatura.Extractor)(nil)

func TestExtractor_Extract(t *testing.T) {
	t.Parallel()

	t.Run("extracts main content and drops boilerplate", func(t *testing.T) {
		t.Parallel()

		html := `<!DOCTYPE html>
<html>
<head><title>Test</title></head>
<body>
<nav><a href="/">Home</a><a href="/news">News</a><a href="/about">About</a></nav>
<article>
<h1>Breaking Story</h1>
<p>This is the substantive article body that readers actually came for.</p>
<p>It continues for a second paragraph with further detail.</p>
</article>
<aside>Related links sidebar</aside>
<footer>Copyright 2026 Example Corp</footer>
</body>
</html>`

		ext := trafilatura.NewExtractor()
		result, err := ext.Extract(html)

		require.NoError(t, err)
		assert.Contains(t, result.ContentHTML, "substantive article body")
		assert.NotContains(t, result.ContentHTML, "Copyright 2026 Example Corp")
	})

	t.Run("extracts title from metadata", func(t *testing.T) {
		t.Parallel()

		html := `<!DOCTYPE html>
<html>
<head>
<title>Breaking Story - Example News</title>
<meta property="og:title" content="Breaking Story">
</head>
<body>
<main>
<h1>Breaking Story</h1>
<p>The main content of the page goes here with enough text to extract.</p>
</main>
</body>
</html>`

		ext := trafilatura.NewExtractor()
		result, err := ext.Extract(html)

		require.NoError(t, err)
		assert.NotEmpty(t, result.Title)
	})

	t.Run("preserves code blocks", func(t *testing.T) {
		t.Parallel()

		html := `<!DOCTYPE html>
<html>
<head><title>Code Example</title></head>
<body>
<article>
<h1>Code Examples</h1>
<p>Here is a code example:</p>
<pre><code class="language-go">fmt.Println("Hello, World!")</code></pre>
<p>And inline code: <code>go run main.go</code></p>
</article>
</body>
</html>`

		ext := trafilatura.NewExtractor()
		result, err := ext.Extract(html)

		require.NoError(t, err)
		assert.Contains(t, result.ContentHTML, "fmt.Println")
	})

	t.Run("leaves the locator zero", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><article><p>Some content worth keeping around.</p></article></body></html>`

		ext := trafilatura.NewExtractor()
		result, err := ext.Extract(html)

		require.NoError(t, err)
		assert.True(t, result.Locator.IsZero())
		assert.Nil(t, result.Primary)
	})

	t.Run("rejects empty input as malformed", func(t *testing.T) {
		t.Parallel()

		ext := trafilatura.NewExtractor()
		_, err := ext.Extract("   ")

		require.Error(t, err)
		assert.Equal(t, distill.EMALFORMED, distill.ErrorCode(err))
	})

	t.Run("handles minimal valid HTML", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><p>Simple content that stands on its own.</p></body></html>`

		ext := trafilatura.NewExtractor()
		result, err := ext.Extract(html)

		require.NoError(t, err)
		assert.Contains(t, result.ContentHTML, "Simple content")
	})
}
