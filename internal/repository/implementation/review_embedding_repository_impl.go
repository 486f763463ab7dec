package implementation

import (
	"context"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"

	"flipkart-recommender/internal/model"
	"flipkart-recommender/internal/repository/contract"
)

type ReviewEmbeddingRepositoryImpl struct {
	db *gorm.DB
}

func NewReviewEmbeddingRepository(db *gorm.DB) contract.ReviewEmbeddingRepository {
	return &ReviewEmbeddingRepositoryImpl{db: db}
}

func (r *ReviewEmbeddingRepositoryImpl) CreateBulk(ctx context.Context, reviews []*model.ReviewEmbedding) error {
	if len(reviews) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(reviews).Error
}

func (r *ReviewEmbeddingRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.ReviewEmbedding{}).Count(&count).Error
	return count, err
}

func (r *ReviewEmbeddingRepositoryImpl) SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int) ([]*contract.ScoredReview, error) {
	if limit <= 0 {
		limit = 3
	}

	// Cosine distance in pgvector is: 1 - cosine_similarity
	// So we compute: 1 - (embedding <=> query_vector) = cosine_similarity
	type result struct {
		model.ReviewEmbedding
		Similarity float64
	}
	var results []result

	queryVector := pgvector.NewVector(embedding)

	err := r.db.WithContext(ctx).
		Table("review_embeddings").
		Select("review_embeddings.*, 1 - (embedding <=> ?) as similarity", queryVector).
		Order("similarity DESC").
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	scored := make([]*contract.ScoredReview, len(results))
	for i := range results {
		review := results[i].ReviewEmbedding
		scored[i] = &contract.ScoredReview{
			Review:     &review,
			Similarity: results[i].Similarity,
		}
	}
	return scored, nil
}
