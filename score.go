package distill

// ScoreRecord holds a node's content-likelihood score together with the
// contributing sub-scores, kept for tie-break determinism and debuggability.
// Records are scoped to one scoring pass and never mutated afterward.
type ScoreRecord struct {
	// Tag is the node's element name.
	Tag string `json:"tag"`

	// Depth is the node's distance from the document root.
	Depth int `json:"depth"`

	// TextLen is the length of the node's descendant text after
	// normalization.
	TextLen int `json:"textLen"`

	// TextDensity is the ratio of text length to descendant node count.
	TextDensity float64 `json:"textDensity"`

	// LinkDensity is the fraction of text enclosed in anchor tags.
	LinkDensity float64 `json:"linkDensity"`

	// TagWeight is the configured weight for the node's tag.
	TagWeight float64 `json:"tagWeight"`

	// AncestorBonus is the score fraction propagated up from children.
	AncestorBonus float64 `json:"ancestorBonus"`

	// Total is the final score the Boundary Selector compares.
	Total float64 `json:"total"`
}
