package bootstrap

import (
	"log"

	"gorm.io/gorm"

	"flipkart-recommender/internal/config"
	"flipkart-recommender/internal/controller"
	"flipkart-recommender/internal/pkg/logger"
	"flipkart-recommender/internal/repository/implementation"
	"flipkart-recommender/internal/service"
	"flipkart-recommender/pkg/embedding"
	"flipkart-recommender/pkg/llm/factory"
	"flipkart-recommender/pkg/rag/history"
	"flipkart-recommender/pkg/rag/retrieval"
	"flipkart-recommender/pkg/rag/rewrite"
)

type Container struct {
	ChatController controller.IChatController
	Logger         logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Providers
	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.OllamaModel)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaModel)
	} else {
		embeddingProvider = embedding.NewHuggingFaceProvider(cfg.Keys.HuggingFace, cfg.Ai.EmbeddingModel)
		log.Printf("[INFO] Using Embedding Provider: HUGGINGFACE (%s)", cfg.Ai.EmbeddingModel)
	}

	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Keys.Groq,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// 3. RAG components
	reviewRepo := implementation.NewReviewEmbeddingRepository(db)
	retriever := retrieval.NewVectorRetriever(embeddingProvider, reviewRepo)
	historyStore := history.NewStore(cfg.Session.TTL, cfg.Session.PurgeInterval)
	rewriter := rewrite.NewRewriter(llmProvider, cfg.Ai.LLMTemperature)

	chatService := service.NewChatService(
		historyStore,
		rewriter,
		retriever,
		llmProvider,
		cfg.Ai.RetrievalTopK,
		cfg.Ai.LLMTemperature,
		cfg.Ai.RequestTimeout,
		sysLogger,
	)

	// 4. Controllers
	return &Container{
		ChatController: controller.NewChatController(chatService),
		Logger:         sysLogger,
	}
}
