package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"ai-assistant-be/internal/entity"
	"ai-assistant-be/internal/repository/contract"
	"ai-assistant-be/pkg/similarity"

	"github.com/google/uuid"
)

// KnowledgeRepository is the in-memory knowledge store used when no database
// connection string is configured (development, tests). Similarity math is
// the same cosine the pgvector backend computes in SQL.
type KnowledgeRepository struct {
	mu        sync.RWMutex
	dimension int
	byOwner   map[string][]*entity.KnowledgeEntry
}

var _ contract.KnowledgeRepository = &KnowledgeRepository{}

func NewKnowledgeRepository(dimension int) *KnowledgeRepository {
	return &KnowledgeRepository{
		dimension: dimension,
		byOwner:   make(map[string][]*entity.KnowledgeEntry),
	}
}

func (r *KnowledgeRepository) Save(ctx context.Context, entry *entity.KnowledgeEntry) error {
	if strings.TrimSpace(entry.Content) == "" {
		return fmt.Errorf("%w: refusing to store blank content", contract.ErrStorage)
	}
	if len(entry.Embedding) != r.dimension {
		return fmt.Errorf("%w: embedding has %d dimensions, store expects %d",
			contract.ErrStorage, len(entry.Embedding), r.dimension)
	}

	if entry.Id == uuid.Nil {
		entry.Id = uuid.New()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *entry
	r.byOwner[entry.OwnerId] = append(r.byOwner[entry.OwnerId], &stored)
	return nil
}

func (r *KnowledgeRepository) FindByOwner(ctx context.Context, ownerId string) ([]*entity.KnowledgeEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := r.byOwner[ownerId]
	out := make([]*entity.KnowledgeEntry, 0, len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		out = append(out, entries[i])
	}
	return out, nil
}

func (r *KnowledgeRepository) FindSimilar(ctx context.Context, ownerId string, query []float32, limit int) ([]*contract.ScoredKnowledgeEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ranked := similarity.Rank(r.byOwner[ownerId], query, limit)

	out := make([]*contract.ScoredKnowledgeEntry, len(ranked))
	for i, s := range ranked {
		out[i] = &contract.ScoredKnowledgeEntry{
			Entry:      s.Entry,
			Similarity: s.Similarity,
		}
	}
	return out, nil
}
