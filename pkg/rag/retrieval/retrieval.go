package retrieval

import "context"

// Passage is one retrieved corpus snippet with its source metadata.
// Passages are transient - produced per query, never persisted.
type Passage struct {
	Text     string
	Metadata map[string]string
}

// SimilaritySearch finds the k corpus passages most semantically similar to
// the query, ordered by descending similarity.
type SimilaritySearch interface {
	Search(ctx context.Context, query string, k int) ([]Passage, error)
}
