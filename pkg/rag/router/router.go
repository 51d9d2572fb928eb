package router

import (
	"context"
	"log"

	"ai-assistant-be/internal/constant"
	"ai-assistant-be/internal/repository/contract"
	"ai-assistant-be/internal/repository/memory"
	"ai-assistant-be/pkg/embedding"
	"ai-assistant-be/pkg/llm"
	"ai-assistant-be/pkg/rag/dedup"
	"ai-assistant-be/pkg/rag/intent"
	"ai-assistant-be/pkg/rag/prompt"
)

// Config carries the retrieval tuning knobs. The floors and counts are
// inherited behavior, surfaced as named configuration instead of magic
// numbers.
type Config struct {
	RetrieveCandidates int     // similarity candidates fetched for document retrieval
	ChatCandidates     int     // similarity candidates fetched for answer context
	RetrieveTopK       int     // documents surfaced to the user
	ChatTopK           int     // context documents fed to the model
	LooseFloor         float64 // similarity floor for "retrieve documents"
	StrictFloor        float64 // similarity floor for "answer using context"
	PreviewLength      int     // characters of content per document preview
	ContextCharBudget  int     // character budget for the knowledge block
}

func DefaultConfig() Config {
	return Config{
		RetrieveCandidates: 50,
		ChatCandidates:     5,
		RetrieveTopK:       10,
		ChatTopK:           3,
		LooseFloor:         0.3,
		StrictFloor:        0.7,
		PreviewLength:      300,
		ContextCharBudget:  8000,
	}
}

// Router decides whether a chat turn retrieves documents or converses, and
// produces the assistant reply either way. Replies never fail: every error
// path degrades to a fixed fallback string.
type Router struct {
	classifier    *intent.Classifier
	embedder      embedding.EmbeddingProvider
	knowledgeRepo contract.KnowledgeRepository
	conversations *memory.ConversationRepository
	llmProvider   llm.LLMProvider
	logger        *log.Logger
	cfg           Config
}

func NewRouter(
	classifier *intent.Classifier,
	embedder embedding.EmbeddingProvider,
	knowledgeRepo contract.KnowledgeRepository,
	conversations *memory.ConversationRepository,
	llmProvider llm.LLMProvider,
	logger *log.Logger,
	cfg Config,
) *Router {
	return &Router{
		classifier:    classifier,
		embedder:      embedder,
		knowledgeRepo: knowledgeRepo,
		conversations: conversations,
		llmProvider:   llmProvider,
		logger:        logger,
		cfg:           cfg,
	}
}

// Reply handles one chat turn for the owner.
func (r *Router) Reply(ctx context.Context, ownerId, message string) string {
	label := r.classifier.Classify(ctx, message)
	r.logger.Printf("[INTENT] owner=%s label=%s", ownerId, label)

	if label == intent.LabelRetrieve {
		return r.retrieve(ctx, ownerId, message)
	}
	return r.chat(ctx, ownerId, message)
}

// retrieve surfaces matching documents as a model-phrased summary. Raw
// previews are never returned unprocessed.
func (r *Router) retrieve(ctx context.Context, ownerId, message string) string {
	vec, err := r.embedder.Embed(ctx, message)
	if err != nil {
		r.logger.Printf("[WARN] query embedding failed: %v", err)
		return constant.ReplyNothingFound
	}

	candidates, err := r.knowledgeRepo.FindSimilar(ctx, ownerId, vec, r.cfg.RetrieveCandidates)
	if err != nil {
		r.logger.Printf("[ERROR] similarity search failed: %v", err)
		return constant.ReplyNothingFound
	}

	docs := dedup.Collapse(candidates, r.cfg.LooseFloor, r.cfg.RetrieveTopK)
	r.logger.Printf("[RETRIEVE] owner=%s candidates=%d documents=%d", ownerId, len(candidates), len(docs))

	if len(docs) == 0 {
		return constant.ReplyNothingFound
	}

	instruction := prompt.Synthesis(message, docs, r.cfg.PreviewLength)
	return r.complete(ctx, ownerId, message, instruction, nil)
}

// chat answers with bounded knowledge context when the store has anything
// close enough, context-free otherwise.
func (r *Router) chat(ctx context.Context, ownerId, message string) string {
	vec, err := r.embedder.Embed(ctx, message)
	if err != nil {
		r.logger.Printf("[WARN] query embedding failed, falling back to general chat: %v", err)
		return r.complete(ctx, ownerId, message, message, nil)
	}

	candidates, err := r.knowledgeRepo.FindSimilar(ctx, ownerId, vec, r.cfg.ChatCandidates)
	if err != nil {
		r.logger.Printf("[WARN] similarity search failed, falling back to general chat: %v", err)
		return r.complete(ctx, ownerId, message, message, nil)
	}

	docs := dedup.Collapse(candidates, r.cfg.StrictFloor, r.cfg.ChatTopK)

	contextTexts := make([]string, len(docs))
	for i, doc := range docs {
		contextTexts[i] = doc.Content
	}

	if len(contextTexts) == 0 {
		r.logger.Printf("[CHAT] owner=%s no relevant context, using general chat", ownerId)
	}

	return r.complete(ctx, ownerId, message, message, contextTexts)
}

// complete issues one completion call with the bounded conversation window
// and appends the exchange on success. userMessage is what lands in memory;
// userTurn is what the model actually sees (they differ for synthesis calls).
func (r *Router) complete(ctx context.Context, ownerId, userMessage, userTurn string, contextTexts []string) string {
	system := prompt.System(contextTexts, r.cfg.ContextCharBudget)
	history := r.conversations.History(ownerId)

	messages := make([]llm.Message, 0, len(history)+2)
	messages = append(messages, llm.Message{Role: "system", Content: system})
	messages = append(messages, history...)
	messages = append(messages, llm.Message{Role: "user", Content: userTurn})

	reply, err := r.llmProvider.Chat(ctx, messages)
	if err != nil {
		r.logger.Printf("[ERROR] completion failed: %v", err)
		return constant.ReplyCompletionFallback
	}

	r.conversations.Append(ownerId, userMessage, reply)
	return reply
}
