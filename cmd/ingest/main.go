package main

import (
	"context"
	"flag"
	"log"

	"flipkart-recommender/internal/config"
	"flipkart-recommender/internal/model"
	"flipkart-recommender/internal/pkg/logger"
	"flipkart-recommender/internal/repository/implementation"
	"flipkart-recommender/pkg/database"
	"flipkart-recommender/pkg/embedding"
	"flipkart-recommender/pkg/ingest"
)

// Offline batch loader: reads the product review CSV, embeds every row and
// writes the corpus into the review_embeddings table.
func main() {
	filePath := flag.String("file", "data/flipkart_product_review.csv", "path to the product review CSV")
	flag.Parse()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Fatalf("Unable to connect to GORM DB: %v", err)
	}

	// Schema setup for a fresh database
	if err := gormDB.Exec("CREATE EXTENSION IF NOT EXISTS vector").Error; err != nil {
		log.Fatalf("Unable to enable pgvector extension: %v", err)
	}
	if err := gormDB.AutoMigrate(&model.ReviewEmbedding{}); err != nil {
		log.Fatalf("Unable to migrate review_embeddings: %v", err)
	}

	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	defer sysLogger.Sync()

	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.OllamaModel)
	} else {
		embeddingProvider = embedding.NewHuggingFaceProvider(cfg.Keys.HuggingFace, cfg.Ai.EmbeddingModel)
	}

	converter, err := ingest.NewConverter(*filePath)
	if err != nil {
		log.Fatalf("Ingestion aborted: %v", err)
	}

	docs, err := converter.ConvertToDocuments()
	if err != nil {
		log.Fatalf("Ingestion aborted: %v", err)
	}
	log.Printf("Converted %d documents from %s", len(docs), *filePath)

	reviewRepo := implementation.NewReviewEmbeddingRepository(gormDB)
	ingestor := ingest.NewIngestor(embeddingProvider, reviewRepo, sysLogger)

	if err := ingestor.Ingest(context.Background(), docs); err != nil {
		log.Fatalf("Ingestion aborted: %v", err)
	}
	log.Println("Data ingestion completed successfully")
}
