package distill

import "context"

// Status is the caller-visible outcome of an extraction request.
type Status string

// Extraction statuses. Every non-success status corresponds to exactly one
// application error code, so callers can distinguish "this page has no
// content" from "our rendering infrastructure is saturated".
const (
	StatusSuccess        Status = "success"
	StatusNoContentFound Status = "no-content-found"
	StatusMalformedInput Status = "malformed-input"
	StatusRenderFailed   Status = "render-failed"
	StatusRenderTimeout  Status = "render-timeout"
	StatusPoolTimeout    Status = "pool-timeout"
	StatusInternalError  Status = "internal-error"
)

// StatusFromError maps an application error to its extraction status.
// A nil error maps to StatusSuccess.
func StatusFromError(err error) Status {
	if err == nil {
		return StatusSuccess
	}
	switch ErrorCode(err) {
	case EMALFORMED, EINVALID:
		return StatusMalformedInput
	case ENOCONTENT:
		return StatusNoContentFound
	case EPOOLTIMEOUT:
		return StatusPoolTimeout
	case ERENDERTIMEOUT:
		return StatusRenderTimeout
	case ERENDERFAILED:
		return StatusRenderFailed
	default:
		return StatusInternalError
	}
}

// Request represents one extraction request. HTML is the document as an
// already-decoded text blob. URL, when set, identifies the live page and is
// used as the navigation target when the document requires rendering.
type Request struct {
	HTML           string `json:"html"`
	URL            string `json:"url,omitempty"`
	RequiresRender bool   `json:"render,omitempty"`
}

// Validate returns an error if the request contains invalid fields.
func (r *Request) Validate() error {
	if r.HTML == "" && r.URL == "" {
		return Errorf(EMALFORMED, "request requires html or url")
	}
	if r.URL == "" && r.RequiresRender && r.HTML == "" {
		return Errorf(EINVALID, "rendering requires html or url")
	}
	return nil
}

// Extraction holds the result of a successful extraction request.
type Extraction struct {
	// Markdown is the extracted main content rendered as Markdown.
	Markdown string `json:"markdown"`

	// Locator addresses the selected content region in the normalized tree.
	Locator Locator `json:"locator"`

	// Title is the page title, extracted from metadata when available.
	Title string `json:"title,omitempty"`

	// ContentHash is the xxHash of the Markdown, hex encoded.
	ContentHash string `json:"contentHash"`

	// Status is always StatusSuccess on an Extraction returned without error.
	Status Status `json:"status"`

	// Outline lists the headings of the Markdown in document order.
	Outline []Section `json:"outline,omitempty"`

	// Rendered reports whether the document went through a browser session
	// before extraction. False when rendering was not requested or when the
	// request fell back to static extraction.
	Rendered bool `json:"rendered,omitempty"`
}

// Service runs extraction requests end to end: optional browser rendering,
// content boundary detection, and Markdown conversion.
type Service interface {
	Extract(ctx context.Context, req Request) (*Extraction, error)
}

// ExtractResult holds the extracted content region from an HTML page.
type ExtractResult struct {
	// Title is the page title extracted from metadata.
	Title string

	// ContentHTML is the selected content region as clean HTML.
	// Boilerplate (nav, footer, sidebar, ads) has been removed.
	ContentHTML string

	// Locator addresses the selected region in the normalized tree.
	// Implementations that cannot derive one leave it zero.
	Locator Locator

	// Primary is the score record of the selected region, kept for
	// debuggability. Nil for implementations that do not score.
	Primary *ScoreRecord
}

// Extractor extracts main content from HTML pages, removing boilerplate.
type Extractor interface {
	// Extract normalizes raw HTML and returns the main content region.
	// Returns EMALFORMED if the input cannot be parsed into any tree and
	// ENOCONTENT if no region clears the configured score floor.
	Extract(html string) (*ExtractResult, error)
}

// Converter converts HTML to Markdown.
type Converter interface {
	// Convert transforms HTML content into Markdown.
	// The input should be clean HTML (e.g., from an Extractor).
	// An empty input converts to an empty string, never an error.
	Convert(html string) (string, error)
}

// Fetcher retrieves the HTML document behind a URL without executing
// JavaScript. Used for requests that name a URL but do not ask for
// browser rendering.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// ExtractionCache stores finished extractions keyed by input hash, so
// repeated submissions of an unchanged document skip the pipeline.
type ExtractionCache interface {
	// FindExtraction retrieves a cached extraction.
	// Returns ENOTFOUND if no entry exists for the key.
	FindExtraction(ctx context.Context, key string) (*Extraction, error)

	// SaveExtraction stores an extraction under the key, replacing any
	// previous entry.
	SaveExtraction(ctx context.Context, key string, ex *Extraction) error
}
