package distill

import "time"

// Config holds the validated tuning surface of the extraction pipeline and
// the session pool. The heuristic constants are empirically tuned values:
// changing them requires re-validation against the regression fixture
// corpus, so they are configuration data rather than code constants.
type Config struct {
	// TagWeights maps element names to score adjustments. Semantic content
	// containers carry positive weights, navigational and structural
	// boilerplate carries negative weights. Unlisted tags weigh zero.
	TagWeights map[string]float64

	// LinkDensityPenalty scales the score reduction applied in proportion
	// to the fraction of a node's text enclosed in anchors. Range [0, 1].
	LinkDensityPenalty float64

	// AncestorFraction is the fraction of a child's score added to its
	// parent, so a cluster of good children lifts the container above any
	// single child. Range [0, 1).
	AncestorFraction float64

	// ScoreFloor is the minimum absolute score the best candidate must
	// reach; below it the document has no extractable main content.
	ScoreFloor float64

	// CoPrimaryThreshold is the fraction of the top score a contiguous
	// sibling must reach to be merged into a composite content region.
	// Range (0, 1].
	CoPrimaryThreshold float64

	// PoolCapacity is the fixed number of rendering sessions.
	PoolCapacity int

	// AcquireTimeout bounds how long a request waits for a session.
	AcquireTimeout time.Duration

	// RenderTimeout bounds how long a session waits for a settled DOM.
	RenderTimeout time.Duration
}

// DefaultConfig returns the validated default configuration. The weight
// table and thresholds are the values the regression fixtures are tuned
// against; do not change them casually.
func DefaultConfig() Config {
	return Config{
		TagWeights: map[string]float64{
			"article":    25,
			"main":       20,
			"section":    8,
			"p":          2,
			"blockquote": 2,
			"pre":        2,
			"td":         1,
			"nav":        -25,
			"footer":     -25,
			"aside":      -20,
			"header":     -15,
			"menu":       -25,
			"form":       -10,
		},
		LinkDensityPenalty: 0.8,
		AncestorFraction:   0.5,
		ScoreFloor:         5,
		CoPrimaryThreshold: 0.5,
		PoolCapacity:       3,
		AcquireTimeout:     10 * time.Second,
		RenderTimeout:      30 * time.Second,
	}
}

// Validate returns an error if the configuration contains values outside
// their documented ranges.
func (c *Config) Validate() error {
	if c.LinkDensityPenalty < 0 || c.LinkDensityPenalty > 1 {
		return Errorf(EINVALID, "link density penalty must be in [0, 1], got %v", c.LinkDensityPenalty)
	}
	if c.AncestorFraction < 0 || c.AncestorFraction >= 1 {
		return Errorf(EINVALID, "ancestor fraction must be in [0, 1), got %v", c.AncestorFraction)
	}
	if c.CoPrimaryThreshold <= 0 || c.CoPrimaryThreshold > 1 {
		return Errorf(EINVALID, "co-primary threshold must be in (0, 1], got %v", c.CoPrimaryThreshold)
	}
	if c.ScoreFloor < 0 {
		return Errorf(EINVALID, "score floor must not be negative, got %v", c.ScoreFloor)
	}
	if c.PoolCapacity < 1 {
		return Errorf(EINVALID, "pool capacity must be at least 1, got %d", c.PoolCapacity)
	}
	if c.AcquireTimeout <= 0 {
		return Errorf(EINVALID, "acquire timeout must be positive, got %v", c.AcquireTimeout)
	}
	if c.RenderTimeout <= 0 {
		return Errorf(EINVALID, "render timeout must be positive, got %v", c.RenderTimeout)
	}
	return nil
}
