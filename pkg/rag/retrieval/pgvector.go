package retrieval

import (
	"context"
	"fmt"

	"flipkart-recommender/internal/repository/contract"
	"flipkart-recommender/pkg/embedding"
)

// VectorRetriever answers similarity queries by embedding the query text and
// running a cosine-distance search against the review embeddings table.
type VectorRetriever struct {
	embeddingProvider embedding.EmbeddingProvider
	reviews           contract.ReviewEmbeddingRepository
}

var _ SimilaritySearch = &VectorRetriever{}

func NewVectorRetriever(embeddingProvider embedding.EmbeddingProvider, reviews contract.ReviewEmbeddingRepository) *VectorRetriever {
	return &VectorRetriever{
		embeddingProvider: embeddingProvider,
		reviews:           reviews,
	}
}

func (r *VectorRetriever) Search(ctx context.Context, query string, k int) ([]Passage, error) {
	vector, err := r.embeddingProvider.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding generation failed: %w", err)
	}

	scored, err := r.reviews.SearchSimilarWithScore(ctx, vector, k)
	if err != nil {
		return nil, fmt.Errorf("vector search failed: %w", err)
	}

	passages := make([]Passage, 0, len(scored))
	for _, res := range scored {
		passages = append(passages, Passage{
			Text: res.Review.Review,
			Metadata: map[string]string{
				"product_name": res.Review.ProductTitle,
			},
		})
	}
	return passages, nil
}
