package contract

import (
	"context"

	"flipkart-recommender/internal/model"
)

// ScoredReview wraps a ReviewEmbedding with its similarity score
type ScoredReview struct {
	Review     *model.ReviewEmbedding
	Similarity float64 // 0.0 to 1.0 (1.0 = identical)
}

type ReviewEmbeddingRepository interface {
	CreateBulk(ctx context.Context, reviews []*model.ReviewEmbedding) error
	Count(ctx context.Context) (int64, error)
	// SearchSimilarWithScore returns the limit nearest reviews by cosine
	// similarity, ordered best first. Ties fall back to insertion order,
	// which is the database's natural scan order here.
	SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int) ([]*ScoredReview, error)
}
