package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"ai-assistant-be/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionDefaultsToNone(t *testing.T) {
	repo := NewSessionRepository()
	assert.Equal(t, ModeNone, repo.Mode("u1"))
}

func TestSessionSetAndReset(t *testing.T) {
	repo := NewSessionRepository()

	repo.SetMode("u1", ModeStore)
	assert.Equal(t, ModeStore, repo.Mode("u1"))

	repo.Reset("u1")
	assert.Equal(t, ModeNone, repo.Mode("u1"))
}

func TestSessionIsolatedPerOwner(t *testing.T) {
	repo := NewSessionRepository()

	repo.SetMode("u1", ModeStore)
	repo.SetMode("u2", ModeChat)

	assert.Equal(t, ModeStore, repo.Mode("u1"))
	assert.Equal(t, ModeChat, repo.Mode("u2"))
}

func TestSessionConcurrentGetOrCreate(t *testing.T) {
	repo := NewSessionRepository()

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, ModeNone, repo.Mode("racer"))
		}()
	}
	wg.Wait()

	repo.SetMode("racer", ModeChat)
	assert.Equal(t, ModeChat, repo.Mode("racer"))
}

func TestConversationAppendAndHistory(t *testing.T) {
	repo := NewConversationRepository(10)

	repo.Append("u1", "hello", "hi there")

	history := repo.History("u1")
	require.Len(t, history, 2)
	assert.Equal(t, "user", history[0].Role)
	assert.Equal(t, "hello", history[0].Content)
	assert.Equal(t, "assistant", history[1].Role)
	assert.Equal(t, "hi there", history[1].Content)
}

func TestConversationWindowEvictsOldestPair(t *testing.T) {
	repo := NewConversationRepository(10)

	for i := 1; i <= 11; i++ {
		repo.Append("u1", fmt.Sprintf("question %d", i), fmt.Sprintf("answer %d", i))
	}

	history := repo.History("u1")
	require.Len(t, history, 20)

	// exchange #1 evicted; the window now starts at exchange #2
	assert.Equal(t, "question 2", history[0].Content)
	assert.Equal(t, "answer 2", history[1].Content)
	assert.Equal(t, "question 11", history[18].Content)
}

func TestConversationClear(t *testing.T) {
	repo := NewConversationRepository(10)

	repo.Append("u1", "q", "a")
	repo.Clear("u1")

	assert.Empty(t, repo.History("u1"))
}

func TestConversationHistoryReturnsCopy(t *testing.T) {
	repo := NewConversationRepository(10)
	repo.Append("u1", "q", "a")

	history := repo.History("u1")
	history[0].Content = "mutated"

	assert.Equal(t, "q", repo.History("u1")[0].Content)
}

func TestKnowledgeSaveRejectsBlankContent(t *testing.T) {
	repo := NewKnowledgeRepository(3)

	err := repo.Save(context.Background(), &entity.KnowledgeEntry{
		OwnerId:   "u1",
		Content:   "   ",
		Embedding: []float32{1, 0, 0},
	})
	assert.Error(t, err)
}

func TestKnowledgeSaveRejectsWrongDimension(t *testing.T) {
	repo := NewKnowledgeRepository(3)

	err := repo.Save(context.Background(), &entity.KnowledgeEntry{
		OwnerId:   "u1",
		Content:   "text",
		Embedding: []float32{1, 0},
	})
	assert.Error(t, err)
}

func TestKnowledgeFindSimilarScopedToOwner(t *testing.T) {
	repo := NewKnowledgeRepository(2)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, &entity.KnowledgeEntry{
		OwnerId: "u1", Content: "mine", Embedding: []float32{1, 0},
	}))
	require.NoError(t, repo.Save(ctx, &entity.KnowledgeEntry{
		OwnerId: "u2", Content: "theirs", Embedding: []float32{1, 0},
	}))

	results, err := repo.FindSimilar(ctx, "u1", []float32{1, 0}, 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "mine", results[0].Entry.Content)
}

func TestKnowledgeFindSimilarOrdering(t *testing.T) {
	repo := NewKnowledgeRepository(2)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, &entity.KnowledgeEntry{
		OwnerId: "u1", Content: "far", Embedding: []float32{0, 1}, CreatedAt: time.Now(),
	}))
	require.NoError(t, repo.Save(ctx, &entity.KnowledgeEntry{
		OwnerId: "u1", Content: "near", Embedding: []float32{1, 0}, CreatedAt: time.Now(),
	}))

	results, err := repo.FindSimilar(ctx, "u1", []float32{1, 0}, 10)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "near", results[0].Entry.Content)
	assert.InDelta(t, 1.0, results[0].Similarity, 1e-9)
	assert.InDelta(t, 0.0, results[1].Similarity, 1e-9)
}

func TestKnowledgeFindByOwnerNewestFirst(t *testing.T) {
	repo := NewKnowledgeRepository(1)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, &entity.KnowledgeEntry{
		OwnerId: "u1", Content: "first", Embedding: []float32{1},
	}))
	require.NoError(t, repo.Save(ctx, &entity.KnowledgeEntry{
		OwnerId: "u1", Content: "second", Embedding: []float32{1},
	}))

	entries, err := repo.FindByOwner(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "second", entries[0].Content)
}
