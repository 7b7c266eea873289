// Package fs writes extraction results as markdown files.
package fs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fwojciec/distill"
)

// FormatExtraction renders an extraction as a markdown document with
// YAML frontmatter. Source is the URL or path the document came from;
// an empty source is omitted from the frontmatter.
func FormatExtraction(ex *distill.Extraction, source string) string {
	var b strings.Builder
	b.WriteString("---\n")
	if source != "" {
		b.WriteString("source: ")
		b.WriteString(source)
		b.WriteString("\n")
	}
	if ex.Title != "" {
		b.WriteString("title: ")
		b.WriteString(ex.Title)
		b.WriteString("\n")
	}
	b.WriteString("extracted: ")
	b.WriteString(time.Now().UTC().Format("2006-01-02"))
	b.WriteString("\n")
	if !ex.Locator.IsZero() {
		b.WriteString("locator: ")
		b.WriteString(ex.Locator.String())
		b.WriteString("\n")
	}
	if ex.ContentHash != "" {
		b.WriteString("content_hash: ")
		b.WriteString(ex.ContentHash)
		b.WriteString("\n")
	}
	b.WriteString("---\n\n")
	b.WriteString(ex.Markdown)
	if !strings.HasSuffix(ex.Markdown, "\n") {
		b.WriteString("\n")
	}
	return b.String()
}

// WriteExtraction writes the formatted extraction to path. The file is
// written to a temporary sibling first and renamed into place, so a
// crash mid-write never leaves a truncated result.
func WriteExtraction(path string, ex *distill.Extraction, source string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(FormatExtraction(ex, source)), 0644); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("renaming %q: %w", tmp, err)
	}
	return nil
}
