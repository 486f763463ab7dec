package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flipkart-recommender/internal/apperr"
	"flipkart-recommender/internal/pkg/logger"
	"flipkart-recommender/pkg/llm"
	"flipkart-recommender/pkg/rag/history"
	"flipkart-recommender/pkg/rag/retrieval"
	"flipkart-recommender/pkg/rag/rewrite"
)

// fakeLLM answers calls from a scripted queue. The rewriter and the
// generator share one provider, as they do in production.
type fakeLLM struct {
	responses []string
	errs      []error
	calls     [][]llm.Message
}

func (f *fakeLLM) Chat(ctx context.Context, msgs []llm.Message, opts ...llm.Option) (string, error) {
	i := len(f.calls)
	f.calls = append(f.calls, msgs)
	if i < len(f.errs) && f.errs[i] != nil {
		return "", f.errs[i]
	}
	if i < len(f.responses) {
		return f.responses[i], nil
	}
	return "generated answer", nil
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return f.Chat(ctx, []llm.Message{{Role: llm.RoleUser, Content: prompt}}, opts...)
}

type fakeRetriever struct {
	passages []retrieval.Passage
	err      error
	calls    int
	lastK    int
	lastQ    string
}

func (f *fakeRetriever) Search(ctx context.Context, query string, k int) ([]retrieval.Passage, error) {
	f.calls++
	f.lastK = k
	f.lastQ = query
	if f.err != nil {
		return nil, f.err
	}
	return f.passages, nil
}

func passagesOf(texts ...string) []retrieval.Passage {
	out := make([]retrieval.Passage, len(texts))
	for i, text := range texts {
		out[i] = retrieval.Passage{
			Text:     text,
			Metadata: map[string]string{"product_name": "Product"},
		}
	}
	return out
}

func newTestService(store *history.Store, provider llm.LLMProvider, retriever retrieval.SimilaritySearch, topK int) IChatService {
	return NewChatService(
		store,
		rewrite.NewRewriter(provider, 0.0),
		retriever,
		provider,
		topK,
		0.0,
		5*time.Second,
		logger.NewNopLogger(),
	)
}

func TestAnswerFirstTurn(t *testing.T) {
	// Scenario: empty history, rewrite is a pass-through, three passages
	// end up in the prompt, and one turn is persisted
	store := history.NewStore(time.Hour, time.Hour)
	provider := &fakeLLM{responses: []string{"Budget phones X, Y and Z stand out."}}
	retriever := &fakeRetriever{passages: passagesOf("review one", "review two", "review three")}
	svc := newTestService(store, provider, retriever, 3)

	question := "What are the best phones under 20000?"
	answer, err := svc.Answer(context.Background(), "S", question)
	require.NoError(t, err)
	assert.Equal(t, "Budget phones X, Y and Z stand out.", answer)

	// Empty history: no rewrite call, retrieval sees the raw question
	require.Equal(t, 1, len(provider.calls))
	assert.Equal(t, question, retriever.lastQ)
	assert.Equal(t, 3, retriever.lastK)

	system := provider.calls[0][0].Content
	assert.Contains(t, system, "review one")
	assert.Contains(t, system, "review two")
	assert.Contains(t, system, "review three")

	turns := store.Get("S")
	require.Len(t, turns, 1)
	assert.Equal(t, question, turns[0].Question)
	assert.Equal(t, answer, turns[0].Answer)
}

func TestAnswerFollowUpUsesRewriteButStoresLiteralQuestion(t *testing.T) {
	store := history.NewStore(time.Hour, time.Hour)
	store.Append("S", "What are the best phones under 20000?", "Phones X, Y and Z.")

	provider := &fakeLLM{responses: []string{
		"What is the battery life of phone X?", // rewrite
		"Phone X lasts about two days.",        // generation
	}}
	retriever := &fakeRetriever{passages: passagesOf("battery review")}
	svc := newTestService(store, provider, retriever, 3)

	followUp := "What about its battery life?"
	answer, err := svc.Answer(context.Background(), "S", followUp)
	require.NoError(t, err)
	assert.Equal(t, "Phone X lasts about two days.", answer)

	// Retrieval ran on the standalone question
	assert.Equal(t, "What is the battery life of phone X?", retriever.lastQ)
	require.Equal(t, 2, len(provider.calls))

	// The stored turn keeps the user's literal phrasing
	turns := store.Get("S")
	require.Len(t, turns, 2)
	assert.Equal(t, followUp, turns[1].Question)
}

func TestAnswerInvalidInput(t *testing.T) {
	store := history.NewStore(time.Hour, time.Hour)
	provider := &fakeLLM{}
	retriever := &fakeRetriever{}
	svc := newTestService(store, provider, retriever, 3)

	tests := []struct {
		name     string
		question string
	}{
		{"empty", ""},
		{"whitespace only", "   \t  "},
		{"over length", strings.Repeat("a", 1001)},
		{"over length multibyte", strings.Repeat("क", 1001)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Answer(context.Background(), "S", tt.question)
			require.Error(t, err)
			assert.Equal(t, apperr.KindInvalidInput, apperr.KindOf(err))
		})
	}

	// No side effects: no external calls, no history mutation
	assert.Zero(t, provider.calls)
	assert.Zero(t, retriever.calls)
	assert.Empty(t, store.Get("S"))
}

func TestAnswerExactly1000CharsIsValid(t *testing.T) {
	tests := []struct {
		name     string
		question string
	}{
		{"ascii", strings.Repeat("a", 1000)},
		// 1000 characters but 3000 bytes; the limit counts characters
		{"multibyte", strings.Repeat("क", 1000)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := history.NewStore(time.Hour, time.Hour)
			provider := &fakeLLM{}
			retriever := &fakeRetriever{passages: passagesOf("r")}
			svc := newTestService(store, provider, retriever, 3)

			_, err := svc.Answer(context.Background(), "S", tt.question)
			assert.NoError(t, err)
		})
	}
}

func TestAnswerRetrieverFailure(t *testing.T) {
	store := history.NewStore(time.Hour, time.Hour)
	provider := &fakeLLM{}
	retriever := &fakeRetriever{err: errors.New("search backend down")}
	svc := newTestService(store, provider, retriever, 3)

	_, err := svc.Answer(context.Background(), "S", "any question")
	require.Error(t, err)
	assert.Equal(t, apperr.KindRetrievalUnavailable, apperr.KindOf(err))
	assert.Empty(t, store.Get("S"), "failed call must not persist a turn")
}

func TestAnswerRewriteFailureIsRetrievalUnavailable(t *testing.T) {
	store := history.NewStore(time.Hour, time.Hour)
	store.Append("S", "earlier question", "earlier answer")

	provider := &fakeLLM{errs: []error{errors.New("completion down")}}
	retriever := &fakeRetriever{}
	svc := newTestService(store, provider, retriever, 3)

	_, err := svc.Answer(context.Background(), "S", "follow-up")
	require.Error(t, err)
	assert.Equal(t, apperr.KindRetrievalUnavailable, apperr.KindOf(err))

	// No fallback to the raw question either
	assert.Zero(t, retriever.calls)
	assert.Len(t, store.Get("S"), 1)
}

func TestAnswerGenerationFailureNoPartialPersistence(t *testing.T) {
	store := history.NewStore(time.Hour, time.Hour)
	provider := &fakeLLM{errs: []error{errors.New("completion down")}}
	retriever := &fakeRetriever{passages: passagesOf("review")}
	svc := newTestService(store, provider, retriever, 3)

	before := len(store.Get("S"))
	_, err := svc.Answer(context.Background(), "S", "a question")
	require.Error(t, err)
	assert.Equal(t, apperr.KindGenerationUnavailable, apperr.KindOf(err))
	assert.Len(t, store.Get("S"), before)
}

func TestAnswerBoundsPassagesToTopK(t *testing.T) {
	store := history.NewStore(time.Hour, time.Hour)
	provider := &fakeLLM{}
	// A misbehaving backend returning more than asked for
	retriever := &fakeRetriever{passages: passagesOf("p1", "p2", "p3", "p4", "p5")}
	svc := newTestService(store, provider, retriever, 3)

	_, err := svc.Answer(context.Background(), "S", "question")
	require.NoError(t, err)

	system := provider.calls[0][0].Content
	assert.Contains(t, system, "p3")
	assert.NotContains(t, system, "p4")
	assert.NotContains(t, system, "p5")
}

func TestAnswerSequentialTurnsAccumulate(t *testing.T) {
	store := history.NewStore(time.Hour, time.Hour)
	provider := &fakeLLM{}
	retriever := &fakeRetriever{passages: passagesOf("review")}
	svc := newTestService(store, provider, retriever, 3)

	questions := []string{"first", "second", "third", "fourth"}
	for _, q := range questions {
		_, err := svc.Answer(context.Background(), "S", q)
		require.NoError(t, err)
	}

	turns := store.Get("S")
	require.Len(t, turns, len(questions))
	for i, q := range questions {
		assert.Equal(t, q, turns[i].Question)
	}
}
