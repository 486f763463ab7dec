package ingest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flipkart-recommender/internal/model"
	"flipkart-recommender/internal/pkg/logger"
	"flipkart-recommender/internal/repository/contract"
)

type fakeEmbedder struct {
	calls int
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	f.calls++
	return []float32{0.1, 0.2, 0.3}, nil
}

type fakeReviewRepo struct {
	count    int64
	inserted []*model.ReviewEmbedding
}

func (f *fakeReviewRepo) CreateBulk(ctx context.Context, reviews []*model.ReviewEmbedding) error {
	f.inserted = append(f.inserted, reviews...)
	return nil
}

func (f *fakeReviewRepo) Count(ctx context.Context) (int64, error) {
	return f.count, nil
}

func (f *fakeReviewRepo) SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int) ([]*contract.ScoredReview, error) {
	return nil, nil
}

func TestIngestWritesAllDocuments(t *testing.T) {
	embedder := &fakeEmbedder{}
	repo := &fakeReviewRepo{}
	ingestor := NewIngestor(embedder, repo, logger.NewNopLogger())

	docs := []Document{
		{PageContent: "Great battery life", Metadata: map[string]string{"product_name": "Phone A"}},
		{PageContent: "Camera is average", Metadata: map[string]string{"product_name": "Phone B"}},
	}

	require.NoError(t, ingestor.Ingest(context.Background(), docs))
	require.Len(t, repo.inserted, 2)
	assert.Equal(t, 2, embedder.calls)
	assert.Equal(t, "Phone A", repo.inserted[0].ProductTitle)
	assert.Equal(t, "Great battery life", repo.inserted[0].Review)
}

func TestIngestSkipsPopulatedCorpus(t *testing.T) {
	embedder := &fakeEmbedder{}
	repo := &fakeReviewRepo{count: 42}
	ingestor := NewIngestor(embedder, repo, logger.NewNopLogger())

	docs := []Document{
		{PageContent: "Great battery life", Metadata: map[string]string{"product_name": "Phone A"}},
	}

	// A second run against an already-loaded table must not append duplicates.
	require.NoError(t, ingestor.Ingest(context.Background(), docs))
	assert.Empty(t, repo.inserted)
	assert.Zero(t, embedder.calls)
}
