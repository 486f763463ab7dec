package service

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"flipkart-recommender/internal/apperr"
	"flipkart-recommender/internal/pkg/logger"
	"flipkart-recommender/pkg/llm"
	"flipkart-recommender/pkg/rag/history"
	"flipkart-recommender/pkg/rag/prompt"
	"flipkart-recommender/pkg/rag/retrieval"
	"flipkart-recommender/pkg/rag/rewrite"
)

const maxQuestionLength = 1000

// IChatService defines the chat service interface
type IChatService interface {
	// Answer runs one full history-aware RAG pass for the session and
	// returns the generated answer.
	Answer(ctx context.Context, sessionID, question string) (string, error)
}

// chatService chains history lookup, question rewriting, retrieval, prompt
// assembly, generation and history persistence. Steps run strictly in
// sequence; any failure aborts the call and nothing is persisted.
type chatService struct {
	historyStore *history.Store
	rewriter     *rewrite.Rewriter
	retriever    retrieval.SimilaritySearch
	llmProvider  llm.LLMProvider
	topK         int
	temperature  float64
	callTimeout  time.Duration
	logger       logger.ILogger
}

func NewChatService(
	historyStore *history.Store,
	rewriter *rewrite.Rewriter,
	retriever retrieval.SimilaritySearch,
	llmProvider llm.LLMProvider,
	topK int,
	temperature float64,
	callTimeout time.Duration,
	log logger.ILogger,
) IChatService {
	return &chatService{
		historyStore: historyStore,
		rewriter:     rewriter,
		retriever:    retriever,
		llmProvider:  llmProvider,
		topK:         topK,
		temperature:  temperature,
		callTimeout:  callTimeout,
		logger:       log,
	}
}

func (s *chatService) Answer(ctx context.Context, sessionID, question string) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", apperr.InvalidInput("empty_input", "Input cannot be empty")
	}
	if utf8.RuneCountInString(question) > maxQuestionLength {
		return "", apperr.InvalidInput("input_too_long", "Input too long. Maximum 1000 characters allowed.")
	}

	// 1. Fetch history (creates the session lazily)
	turns := s.historyStore.Get(sessionID)

	// 2. Rewrite the question into a standalone one. Pass-through when the
	// history is empty.
	standalone, err := s.rewriteQuestion(ctx, question, turns)
	if err != nil {
		return "", err
	}

	// 3. Retrieve the top-k passages for the standalone question
	passages, err := s.retrievePassages(ctx, standalone)
	if err != nil {
		return "", err
	}

	// 4-5. Assemble the prompt and generate
	answer, err := s.generateAnswer(ctx, passages, turns, standalone)
	if err != nil {
		return "", err
	}

	// 6. Persist the literal question, not the rewritten one, so future
	// rewrites see the user's own phrasing instead of compounding drift.
	s.historyStore.Append(sessionID, question, answer)

	s.logger.Info("chat", "answered question", map[string]interface{}{
		"session_id": sessionID,
		"turns":      len(turns) + 1,
		"passages":   len(passages),
	})

	return answer, nil
}

func (s *chatService) rewriteQuestion(ctx context.Context, question string, turns []history.Turn) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()

	standalone, err := s.rewriter.Rewrite(callCtx, question, turns)
	if err != nil {
		return "", apperr.RetrievalUnavailable("completion", err)
	}
	return standalone, nil
}

func (s *chatService) retrievePassages(ctx context.Context, query string) ([]retrieval.Passage, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()

	passages, err := s.retriever.Search(callCtx, query, s.topK)
	if err != nil {
		return nil, apperr.RetrievalUnavailable("vector-search", err)
	}
	// The search service owns ranking and tie-breaks; this side only
	// enforces the upper bound.
	if len(passages) > s.topK {
		passages = passages[:s.topK]
	}
	return passages, nil
}

func (s *chatService) generateAnswer(ctx context.Context, passages []retrieval.Passage, turns []history.Turn, question string) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()

	messages := prompt.NewBuilder(passages, turns, question).Messages()
	answer, err := s.llmProvider.Chat(callCtx, messages, llm.WithTemperature(s.temperature))
	if err != nil {
		return "", apperr.GenerationUnavailable("completion", err)
	}
	return answer, nil
}
