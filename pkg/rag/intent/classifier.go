package intent

import (
	"context"
	"log"
	"strings"

	"ai-assistant-be/pkg/llm"
)

// Label is the resolved two-class intent of a chat turn.
type Label string

const (
	LabelRetrieve Label = "RETRIEVE"
	LabelChat     Label = "CHAT"
)

const classifierInstruction = `You are an intent classifier. Analyze the user's message and determine if they want to:
1. RETRIEVE - They want to see/find/retrieve specific documents from their knowledge base
2. CHAT - They want to have a conversation or ask questions about the content

Respond with ONLY one word: either "RETRIEVE" or "CHAT"

RETRIEVE examples:
- "Show me the document about project deadlines"
- "Find my notes on machine learning"
- "Get me the file I uploaded yesterday"
- "What documents do I have about budget?"
- "Retrieve the meeting notes from last week"

CHAT examples:
- "What is machine learning?"
- "Explain the project deadline"
- "How does this work?"
- "Can you summarize this?"
- "Tell me about the budget"`

// Classifier decides whether a chat turn should retrieve documents or
// converse. It never fails: retrieval is a discoverability feature, so any
// model error resolves to CHAT.
type Classifier struct {
	llmProvider llm.LLMProvider
	logger      *log.Logger
}

func NewClassifier(llmProvider llm.LLMProvider, logger *log.Logger) *Classifier {
	return &Classifier{
		llmProvider: llmProvider,
		logger:      logger,
	}
}

// Classify sends the message through the completion backend with the fixed
// two-class instruction. Classification calls are never persisted to
// conversation memory.
func (c *Classifier) Classify(ctx context.Context, message string) Label {
	prompt := classifierInstruction + "\n\nUser message: " + message

	response, err := c.llmProvider.Generate(ctx, prompt, llm.WithTemperature(0.0))
	if err != nil {
		c.logger.Printf("[WARN] Intent classification failed, defaulting to CHAT: %v", err)
		return LabelChat
	}

	return decodeLabel(response)
}

// decodeLabel maps a raw model reply onto the closed label set, failing open
// to CHAT when the reply carries no recognizable RETRIEVE token.
func decodeLabel(response string) Label {
	if strings.Contains(strings.ToUpper(response), string(LabelRetrieve)) {
		return LabelRetrieve
	}
	return LabelChat
}
