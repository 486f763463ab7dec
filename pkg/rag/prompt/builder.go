package prompt

import (
	"strings"

	"flipkart-recommender/pkg/llm"
	"flipkart-recommender/pkg/rag/history"
	"flipkart-recommender/pkg/rag/retrieval"
)

const answerInstruction = "You are an e-commerce bot answering product related queries " +
	"using reviews and titles from the product reviews database. Stick to the context " +
	"and provide contextually relevant information in your response. Be concise and to the point."

// Builder assembles the generation payload: system instruction, retrieved
// passages in rank order, the conversation so far in chronological order,
// and the standalone question.
type Builder struct {
	passages []retrieval.Passage
	turns    []history.Turn
	question string
}

func NewBuilder(passages []retrieval.Passage, turns []history.Turn, question string) *Builder {
	return &Builder{
		passages: passages,
		turns:    turns,
		question: question,
	}
}

// Messages renders the prompt as a chat transcript for the completion provider.
func (b *Builder) Messages() []llm.Message {
	messages := make([]llm.Message, 0, 2*len(b.turns)+2)
	messages = append(messages, llm.Message{
		Role:    llm.RoleSystem,
		Content: b.systemPrompt(),
	})
	for _, turn := range b.turns {
		messages = append(messages,
			llm.Message{Role: llm.RoleUser, Content: turn.Question},
			llm.Message{Role: llm.RoleAssistant, Content: turn.Answer},
		)
	}
	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: b.question})
	return messages
}

func (b *Builder) systemPrompt() string {
	var prompt strings.Builder

	prompt.WriteString(answerInstruction)
	prompt.WriteString("\n\nCONTEXT:\n")
	b.writePassages(&prompt)

	return prompt.String()
}

func (b *Builder) writePassages(prompt *strings.Builder) {
	for i, passage := range b.passages {
		if i > 0 {
			prompt.WriteString("\n\n")
		}
		if name, ok := passage.Metadata["product_name"]; ok && name != "" {
			prompt.WriteString("[product: ")
			prompt.WriteString(name)
			prompt.WriteString("]\n")
		}
		prompt.WriteString(passage.Text)
	}
	if len(b.passages) == 0 {
		prompt.WriteString("(no matching reviews found)")
	}
}
