package router

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"
	"testing"
	"time"

	"ai-assistant-be/internal/constant"
	"ai-assistant-be/internal/entity"
	"ai-assistant-be/internal/repository/contract"
	"ai-assistant-be/internal/repository/memory"
	"ai-assistant-be/pkg/llm"
	"ai-assistant-be/pkg/rag/intent"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeLLM scripts the classification (Generate) and completion (Chat) calls
// separately and records what the completion call saw.
type fakeLLM struct {
	classifyReply string
	classifyErr   error
	chatReply     string
	chatErr       error
	chatSeen      [][]llm.Message
}

func (f *fakeLLM) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	f.chatSeen = append(f.chatSeen, history)
	return f.chatReply, f.chatErr
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return f.classifyReply, f.classifyErr
}

type fakeEmbedder struct {
	vec []float32
	err error
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return f.vec, f.err
}

func (f *fakeEmbedder) Dimension() int { return len(f.vec) }

type fakeKnowledgeRepo struct {
	results []*contract.ScoredKnowledgeEntry
	err     error
}

func (f *fakeKnowledgeRepo) Save(ctx context.Context, entry *entity.KnowledgeEntry) error {
	return nil
}

func (f *fakeKnowledgeRepo) FindByOwner(ctx context.Context, ownerId string) ([]*entity.KnowledgeEntry, error) {
	return nil, nil
}

func (f *fakeKnowledgeRepo) FindSimilar(ctx context.Context, ownerId string, query []float32, limit int) ([]*contract.ScoredKnowledgeEntry, error) {
	return f.results, f.err
}

func scoredEntry(content string, sim float64) *contract.ScoredKnowledgeEntry {
	return &contract.ScoredKnowledgeEntry{
		Entry: &entity.KnowledgeEntry{
			Content:   content,
			CreatedAt: time.Now(),
		},
		Similarity: sim,
	}
}

func newTestRouter(provider *fakeLLM, embedder *fakeEmbedder, repo *fakeKnowledgeRepo) (*Router, *memory.ConversationRepository) {
	logger := log.New(io.Discard, "", 0)
	conversations := memory.NewConversationRepository(10)
	r := NewRouter(
		intent.NewClassifier(provider, logger),
		embedder,
		repo,
		conversations,
		provider,
		logger,
		DefaultConfig(),
	)
	return r, conversations
}

func TestReplyChatWithStrongContext(t *testing.T) {
	provider := &fakeLLM{classifyReply: "CHAT", chatReply: "it is due May 1"}
	embedder := &fakeEmbedder{vec: []float32{1, 0}}
	repo := &fakeKnowledgeRepo{results: []*contract.ScoredKnowledgeEntry{
		scoredEntry("invoice #42 due May 1", 0.92),
	}}

	r, conversations := newTestRouter(provider, embedder, repo)

	reply := r.Reply(context.Background(), "u1", "when is invoice 42 due")

	assert.Equal(t, "it is due May 1", reply)
	require.Len(t, provider.chatSeen, 1)

	system := provider.chatSeen[0][0]
	assert.Equal(t, "system", system.Role)
	assert.Contains(t, system.Content, "invoice #42 due May 1")

	history := conversations.History("u1")
	require.Len(t, history, 2)
	assert.Equal(t, "when is invoice 42 due", history[0].Content)
	assert.Equal(t, "it is due May 1", history[1].Content)
}

func TestReplyChatBelowFloorFallsBackToGeneralChat(t *testing.T) {
	provider := &fakeLLM{classifyReply: "CHAT", chatReply: "sure, happy to help"}
	embedder := &fakeEmbedder{vec: []float32{1, 0}}
	repo := &fakeKnowledgeRepo{results: []*contract.ScoredKnowledgeEntry{
		scoredEntry("unrelated note", 0.12),
	}}

	r, _ := newTestRouter(provider, embedder, repo)

	reply := r.Reply(context.Background(), "u1", "tell me a joke")

	assert.Equal(t, "sure, happy to help", reply)
	require.Len(t, provider.chatSeen, 1)
	assert.NotContains(t, provider.chatSeen[0][0].Content, "KNOWLEDGE BASE")
}

func TestReplyChatEmbeddingFailureFallsBack(t *testing.T) {
	provider := &fakeLLM{classifyReply: "CHAT", chatReply: "hello"}
	embedder := &fakeEmbedder{err: errors.New("embedding service down")}
	repo := &fakeKnowledgeRepo{}

	r, _ := newTestRouter(provider, embedder, repo)

	reply := r.Reply(context.Background(), "u1", "hi")

	assert.Equal(t, "hello", reply)
	require.Len(t, provider.chatSeen, 1)
	assert.NotContains(t, provider.chatSeen[0][0].Content, "KNOWLEDGE BASE")
}

func TestReplyRetrieveNothingFound(t *testing.T) {
	provider := &fakeLLM{classifyReply: "RETRIEVE"}
	embedder := &fakeEmbedder{vec: []float32{1, 0}}
	repo := &fakeKnowledgeRepo{results: []*contract.ScoredKnowledgeEntry{
		scoredEntry("far away", 0.05),
	}}

	r, conversations := newTestRouter(provider, embedder, repo)

	reply := r.Reply(context.Background(), "u1", "find my tax documents")

	assert.Equal(t, constant.ReplyNothingFound, reply)
	assert.Empty(t, provider.chatSeen, "no completion call expected when nothing is found")
	assert.Empty(t, conversations.History("u1"))
}

func TestReplyRetrieveSynthesizesSummary(t *testing.T) {
	provider := &fakeLLM{classifyReply: "RETRIEVE", chatReply: "I found 1 document about invoices."}
	embedder := &fakeEmbedder{vec: []float32{1, 0}}
	repo := &fakeKnowledgeRepo{results: []*contract.ScoredKnowledgeEntry{
		scoredEntry("invoice #42 due May 1", 0.65),
	}}

	r, conversations := newTestRouter(provider, embedder, repo)

	reply := r.Reply(context.Background(), "u1", "find my invoices")

	assert.Equal(t, "I found 1 document about invoices.", reply)
	require.Len(t, provider.chatSeen, 1)

	userTurn := provider.chatSeen[0][len(provider.chatSeen[0])-1]
	assert.Equal(t, "user", userTurn.Role)
	assert.Contains(t, userTurn.Content, "I found 1 relevant document(s)")

	// memory records the user's actual message, not the synthesis instruction
	history := conversations.History("u1")
	require.Len(t, history, 2)
	assert.Equal(t, "find my invoices", history[0].Content)
}

func TestReplyCompletionFailureReturnsFallback(t *testing.T) {
	provider := &fakeLLM{classifyReply: "CHAT", chatErr: llm.ErrCompletion}
	embedder := &fakeEmbedder{vec: []float32{1, 0}}
	repo := &fakeKnowledgeRepo{}

	r, conversations := newTestRouter(provider, embedder, repo)

	reply := r.Reply(context.Background(), "u1", "hi")

	assert.Equal(t, constant.ReplyCompletionFallback, reply)
	assert.Empty(t, conversations.History("u1"), "failed exchanges must not be persisted")
}

func TestReplyClassificationFailureFailsOpenToChat(t *testing.T) {
	provider := &fakeLLM{classifyErr: errors.New("classifier down"), chatReply: "chatting anyway"}
	embedder := &fakeEmbedder{vec: []float32{1, 0}}
	repo := &fakeKnowledgeRepo{}

	r, _ := newTestRouter(provider, embedder, repo)

	reply := r.Reply(context.Background(), "u1", "show me my files")

	assert.Equal(t, "chatting anyway", reply)
}

func TestReplyHistoryPrecedesNewTurn(t *testing.T) {
	provider := &fakeLLM{classifyReply: "CHAT", chatReply: "second answer"}
	embedder := &fakeEmbedder{vec: []float32{1, 0}}
	repo := &fakeKnowledgeRepo{}

	r, conversations := newTestRouter(provider, embedder, repo)
	conversations.Append("u1", "first question", "first answer")

	r.Reply(context.Background(), "u1", "second question")

	require.Len(t, provider.chatSeen, 1)
	seen := provider.chatSeen[0]
	require.Len(t, seen, 4) // system + 2 history + new turn

	assert.Equal(t, "first question", seen[1].Content)
	assert.Equal(t, "first answer", seen[2].Content)
	assert.Equal(t, "second question", seen[3].Content)
	assert.True(t, strings.HasPrefix(seen[0].Content, "You are a helpful AI assistant."))
}
