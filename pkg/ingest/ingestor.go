package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"

	"flipkart-recommender/internal/model"
	"flipkart-recommender/internal/pkg/logger"
	"flipkart-recommender/internal/repository/contract"
	"flipkart-recommender/pkg/embedding"
)

const defaultBatchSize = 64

// Ingestor embeds documents and writes them into the review corpus.
type Ingestor struct {
	embeddingProvider embedding.EmbeddingProvider
	reviews           contract.ReviewEmbeddingRepository
	logger            logger.ILogger
	batchSize         int
}

func NewIngestor(embeddingProvider embedding.EmbeddingProvider, reviews contract.ReviewEmbeddingRepository, log logger.ILogger) *Ingestor {
	return &Ingestor{
		embeddingProvider: embeddingProvider,
		reviews:           reviews,
		logger:            log,
		batchSize:         defaultBatchSize,
	}
}

// Ingest embeds every document and bulk-inserts them in batches. A
// non-empty corpus is left untouched so re-running the loader cannot
// duplicate reviews. The first failure aborts the run; rows are never
// skipped silently.
func (i *Ingestor) Ingest(ctx context.Context, docs []Document) error {
	existing, err := i.reviews.Count(ctx)
	if err != nil {
		return fmt.Errorf("count existing reviews: %w", err)
	}
	if existing > 0 {
		i.logger.Warn("ingest", "corpus already populated, skipping ingestion", map[string]interface{}{
			"existing": existing,
		})
		return nil
	}

	batch := make([]*model.ReviewEmbedding, 0, i.batchSize)

	for idx, doc := range docs {
		vector, err := i.embeddingProvider.Embed(ctx, doc.PageContent)
		if err != nil {
			return fmt.Errorf("embed document %d: %w", idx+1, err)
		}

		batch = append(batch, newReviewEmbedding(doc, vector))

		if len(batch) == i.batchSize {
			if err := i.flush(ctx, batch); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}

	if err := i.flush(ctx, batch); err != nil {
		return err
	}

	i.logger.Info("ingest", "ingestion completed", map[string]interface{}{
		"documents": len(docs),
	})
	return nil
}

func (i *Ingestor) flush(ctx context.Context, batch []*model.ReviewEmbedding) error {
	if len(batch) == 0 {
		return nil
	}
	if err := i.reviews.CreateBulk(ctx, batch); err != nil {
		return fmt.Errorf("store embeddings: %w", err)
	}
	return nil
}

func newReviewEmbedding(doc Document, vector []float32) *model.ReviewEmbedding {
	return &model.ReviewEmbedding{
		Id:           uuid.New(),
		ProductTitle: doc.Metadata["product_name"],
		Review:       doc.PageContent,
		Embedding:    pgvector.NewVector(vector),
		CreatedAt:    time.Now(),
	}
}
