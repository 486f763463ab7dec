package rewrite

import (
	"context"
	"strings"

	"flipkart-recommender/pkg/llm"
	"flipkart-recommender/pkg/rag/history"
)

const rewriteInstruction = "Given the chat history and the latest user question, " +
	"rewrite the question into a standalone question that can be understood " +
	"without the conversation. Do not answer it. Return only the rewritten question."

// Rewriter turns a context-dependent follow-up question into a standalone
// one using the session's prior turns.
type Rewriter struct {
	llmProvider llm.LLMProvider
	temperature float64
}

func NewRewriter(llmProvider llm.LLMProvider, temperature float64) *Rewriter {
	return &Rewriter{
		llmProvider: llmProvider,
		temperature: temperature,
	}
}

// Rewrite produces the standalone form of question. With no prior turns the
// input is returned unchanged and no model call is made. A provider failure
// is propagated - retrieval quality must not degrade silently.
func (r *Rewriter) Rewrite(ctx context.Context, question string, turns []history.Turn) (string, error) {
	if len(turns) == 0 {
		return question, nil
	}

	messages := make([]llm.Message, 0, 2*len(turns)+2)
	messages = append(messages, llm.Message{Role: llm.RoleSystem, Content: rewriteInstruction})
	for _, turn := range turns {
		messages = append(messages,
			llm.Message{Role: llm.RoleUser, Content: turn.Question},
			llm.Message{Role: llm.RoleAssistant, Content: turn.Answer},
		)
	}
	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: question})

	rewritten, err := r.llmProvider.Chat(ctx, messages, llm.WithTemperature(r.temperature))
	if err != nil {
		return "", err
	}

	rewritten = strings.TrimSpace(rewritten)
	if rewritten == "" {
		// The model produced nothing usable; the literal question is still a
		// valid retrieval query
		return question, nil
	}
	return rewritten, nil
}
