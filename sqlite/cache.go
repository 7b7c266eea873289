package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/fwojciec/distill"
)

// Compile-time interface verification.
var _ distill.ExtractionCache = (*ExtractionCache)(nil)

// ExtractionCache implements distill.ExtractionCache using SQLite.
// Entries survive restarts, so repeat submissions of unchanged documents
// skip the extraction pipeline entirely.
type ExtractionCache struct {
	db *DB
}

// NewExtractionCache creates a new ExtractionCache.
func NewExtractionCache(db *DB) *ExtractionCache {
	return &ExtractionCache{db: db}
}

// FindExtraction retrieves a cached extraction by key.
// Returns ENOTFOUND if no entry exists.
func (c *ExtractionCache) FindExtraction(ctx context.Context, key string) (*distill.Extraction, error) {
	var ex distill.Extraction
	var locator string
	var rendered int

	err := c.db.QueryRowContext(ctx, `
		SELECT markdown, locator, title, content_hash, rendered
		FROM extractions
		WHERE key = ?
	`, key).Scan(&ex.Markdown, &locator, &ex.Title, &ex.ContentHash, &rendered)

	if err == sql.ErrNoRows {
		return nil, distill.Errorf(distill.ENOTFOUND, "extraction not found")
	}
	if err != nil {
		return nil, err
	}

	if locator != "" {
		loc, err := distill.ParseLocator(locator)
		if err != nil {
			return nil, err
		}
		ex.Locator = loc
	}
	ex.Rendered = rendered != 0
	ex.Status = distill.StatusSuccess
	// The outline is derived from the markdown, so it is recomputed on
	// read rather than stored.
	ex.Outline = distill.Outline(ex.Markdown)

	return &ex, nil
}

// SaveExtraction stores an extraction under the key, replacing any
// previous entry.
func (c *ExtractionCache) SaveExtraction(ctx context.Context, key string, ex *distill.Extraction) error {
	rendered := 0
	if ex.Rendered {
		rendered = 1
	}

	_, err := c.db.ExecContext(ctx, `
		INSERT INTO extractions (key, markdown, locator, title, content_hash, rendered, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			markdown = excluded.markdown,
			locator = excluded.locator,
			title = excluded.title,
			content_hash = excluded.content_hash,
			rendered = excluded.rendered,
			created_at = excluded.created_at
	`, key, ex.Markdown, ex.Locator.String(), ex.Title, ex.ContentHash, rendered,
		time.Now().UTC().Format(time.RFC3339))

	return err
}
