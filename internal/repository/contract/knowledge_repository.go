package contract

import (
	"context"
	"errors"

	"ai-assistant-be/internal/entity"
)

// ErrStorage wraps any persistence failure surfaced by a repository.
var ErrStorage = errors.New("knowledge storage failure")

// ScoredKnowledgeEntry wraps a KnowledgeEntry with its similarity score
type ScoredKnowledgeEntry struct {
	Entry      *entity.KnowledgeEntry
	Similarity float64 // cosine similarity, -1.0 to 1.0
}

type KnowledgeRepository interface {
	// Save persists a fully-formed entry. Blank content or an embedding whose
	// dimension differs from the configured model output is rejected.
	Save(ctx context.Context, entry *entity.KnowledgeEntry) error

	// FindByOwner returns every entry for the owner, newest first.
	FindByOwner(ctx context.Context, ownerId string) ([]*entity.KnowledgeEntry, error)

	// FindSimilar returns up to limit entries for the owner, descending by
	// cosine similarity to the query vector, ties broken by newest CreatedAt.
	FindSimilar(ctx context.Context, ownerId string, query []float32, limit int) ([]*ScoredKnowledgeEntry, error)
}
