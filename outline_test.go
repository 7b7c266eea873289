package distill_test

import (
	"testing"

	"github.com/fwojciec/distill"
	"github.com/stretchr/testify/assert"
)

func TestOutline(t *testing.T) {
	t.Parallel()

	t.Run("extracts a single heading", func(t *testing.T) {
		t.Parallel()

		sections := distill.Outline("# Introduction\n\nSome content here.")

		assert.Len(t, sections, 1)
		assert.Equal(t, 1, sections[0].Level)
		assert.Equal(t, "Introduction", sections[0].Title)
		assert.Equal(t, "introduction", sections[0].Anchor)
	})

	t.Run("extracts all heading levels in order", func(t *testing.T) {
		t.Parallel()

		markdown := `# H1 Title
## H2 Title
### H3 Title
#### H4 Title
##### H5 Title
###### H6 Title`

		sections := distill.Outline(markdown)

		assert.Len(t, sections, 6)
		for i, s := range sections {
			assert.Equal(t, i+1, s.Level)
		}
	})

	t.Run("generates URL-safe anchors", func(t *testing.T) {
		t.Parallel()

		sections := distill.Outline("# Getting Started With Go")

		assert.Len(t, sections, 1)
		assert.Equal(t, "getting-started-with-go", sections[0].Anchor)
	})

	t.Run("suffixes duplicate anchors", func(t *testing.T) {
		t.Parallel()

		markdown := `# Example
## Example
### Example`

		sections := distill.Outline(markdown)

		assert.Len(t, sections, 3)
		assert.Equal(t, "example", sections[0].Anchor)
		assert.Equal(t, "example-1", sections[1].Anchor)
		assert.Equal(t, "example-2", sections[2].Anchor)
	})

	t.Run("returns nil for empty markdown", func(t *testing.T) {
		t.Parallel()

		assert.Empty(t, distill.Outline(""))
	})

	t.Run("returns nil when there are no headings", func(t *testing.T) {
		t.Parallel()

		assert.Empty(t, distill.Outline("Just some text\n\nWith paragraphs."))
	})

	t.Run("strips special characters from anchors", func(t *testing.T) {
		t.Parallel()

		sections := distill.Outline("# API Reference (v2.0)")

		assert.Len(t, sections, 1)
		assert.Equal(t, "api-reference-v20", sections[0].Anchor)
	})

	t.Run("ignores hash lines inside fenced code blocks", func(t *testing.T) {
		t.Parallel()

		markdown := "# Real Heading\n\n```bash\n# This is a comment\necho hello\n```\n\n## Another Real Heading"

		sections := distill.Outline(markdown)

		assert.Len(t, sections, 2)
		assert.Equal(t, "Real Heading", sections[0].Title)
		assert.Equal(t, "Another Real Heading", sections[1].Title)
	})
}
