package distill

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// Section is a single heading in converted markdown output.
type Section struct {
	Level  int    `json:"level"`
	Title  string `json:"title"`
	Anchor string `json:"anchor"`
}

var (
	headingRe    = regexp.MustCompile(`(?m)^(#{1,6})\s+(.+)$`)
	fencedCodeRe = regexp.MustCompile("(?s)```.*?```")
)

// Outline returns the heading structure of a markdown document, in
// document order. Anchors are URL-safe slugs; duplicate headings get
// numeric suffixes so each anchor stays unique within the document.
func Outline(markdown string) []Section {
	if markdown == "" {
		return nil
	}

	// Fenced code blocks can contain lines starting with # (shell
	// comments, for example) that are not headings.
	matches := headingRe.FindAllStringSubmatch(fencedCodeRe.ReplaceAllString(markdown, ""), -1)
	if len(matches) == 0 {
		return nil
	}

	sections := make([]Section, 0, len(matches))
	seen := make(map[string]int)
	for _, m := range matches {
		title := strings.TrimSpace(m[2])
		anchor := slugify(title)
		if n, ok := seen[anchor]; ok {
			seen[anchor] = n + 1
			anchor = anchor + "-" + strconv.Itoa(n)
		} else {
			seen[anchor] = 1
		}
		sections = append(sections, Section{
			Level:  len(m[1]),
			Title:  title,
			Anchor: anchor,
		})
	}
	return sections
}

// slugify lowercases a title and collapses runs of non-alphanumeric
// characters into single hyphens.
func slugify(title string) string {
	var sb strings.Builder
	hyphen := false
	for _, r := range strings.ToLower(title) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			sb.WriteRune(r)
			hyphen = false
		case unicode.IsSpace(r) || r == '-':
			if !hyphen && sb.Len() > 0 {
				sb.WriteRune('-')
				hyphen = true
			}
		}
	}
	return strings.TrimSuffix(sb.String(), "-")
}
