package distill

import (
	"fmt"
	"strconv"
	"strings"
)

// Step is one segment of a Locator: a tag name plus the node's 1-based index
// among siblings with the same tag. Steps never reference attributes, so the
// path survives class/id churn between visits to the same page.
type Step struct {
	Tag   string `json:"tag"`
	Index int    `json:"index"`
}

// Locator is a structural path addressing a node (or a run of contiguous
// sibling nodes) in a normalized document tree. It is recomputable and
// stable: two structurally identical trees yield identical locators for the
// same semantic location regardless of attribute values.
type Locator struct {
	// Steps lead from the document root to the first node of the region.
	Steps []Step `json:"steps"`

	// Span is the number of contiguous siblings in a composite region,
	// counted from the addressed node. Zero or one means a single node.
	Span int `json:"span,omitempty"`
}

// IsZero reports whether the locator addresses nothing.
func (l Locator) IsZero() bool {
	return len(l.Steps) == 0
}

// String encodes the locator as a path, e.g. "/html[1]/body[1]/article[1]".
// Composite regions carry a "+n" suffix with the sibling count, e.g.
// "/html[1]/body[1]/div[2]+3".
func (l Locator) String() string {
	if l.IsZero() {
		return ""
	}
	var b strings.Builder
	for _, s := range l.Steps {
		fmt.Fprintf(&b, "/%s[%d]", s.Tag, s.Index)
	}
	if l.Span > 1 {
		fmt.Fprintf(&b, "+%d", l.Span)
	}
	return b.String()
}

// MarshalText implements encoding.TextMarshaler.
func (l Locator) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Locator) UnmarshalText(text []byte) error {
	parsed, err := ParseLocator(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// ParseLocator decodes a locator from its String form. An empty string
// parses to the zero locator.
func ParseLocator(s string) (Locator, error) {
	if s == "" {
		return Locator{}, nil
	}
	if !strings.HasPrefix(s, "/") {
		return Locator{}, Errorf(EINVALID, "locator must start with '/': %q", s)
	}

	span := 0
	if i := strings.LastIndex(s, "+"); i >= 0 {
		n, err := strconv.Atoi(s[i+1:])
		if err != nil || n < 2 {
			return Locator{}, Errorf(EINVALID, "invalid locator span in %q", s)
		}
		span = n
		s = s[:i]
	}

	var steps []Step
	for _, seg := range strings.Split(s[1:], "/") {
		open := strings.IndexByte(seg, '[')
		if open <= 0 || !strings.HasSuffix(seg, "]") {
			return Locator{}, Errorf(EINVALID, "invalid locator step %q", seg)
		}
		idx, err := strconv.Atoi(seg[open+1 : len(seg)-1])
		if err != nil || idx < 1 {
			return Locator{}, Errorf(EINVALID, "invalid locator index in %q", seg)
		}
		steps = append(steps, Step{Tag: seg[:open], Index: idx})
	}

	return Locator{Steps: steps, Span: span}, nil
}
