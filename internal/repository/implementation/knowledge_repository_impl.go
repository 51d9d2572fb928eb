package implementation

import (
	"context"
	"fmt"
	"strings"

	"ai-assistant-be/internal/entity"
	"ai-assistant-be/internal/mapper"
	"ai-assistant-be/internal/model"
	"ai-assistant-be/internal/repository/contract"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type KnowledgeRepositoryImpl struct {
	db        *gorm.DB
	dimension int
	mapper    *mapper.KnowledgeMapper
}

func NewKnowledgeRepository(db *gorm.DB, dimension int) contract.KnowledgeRepository {
	return &KnowledgeRepositoryImpl{
		db:        db,
		dimension: dimension,
		mapper:    mapper.NewKnowledgeMapper(),
	}
}

func (r *KnowledgeRepositoryImpl) Save(ctx context.Context, entry *entity.KnowledgeEntry) error {
	if strings.TrimSpace(entry.Content) == "" {
		return fmt.Errorf("%w: refusing to store blank content", contract.ErrStorage)
	}
	if len(entry.Embedding) != r.dimension {
		return fmt.Errorf("%w: embedding has %d dimensions, store expects %d",
			contract.ErrStorage, len(entry.Embedding), r.dimension)
	}

	m := r.mapper.ToModel(entry)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return fmt.Errorf("%w: %v", contract.ErrStorage, err)
	}
	*entry = *r.mapper.ToEntity(m)
	return nil
}

func (r *KnowledgeRepositoryImpl) FindByOwner(ctx context.Context, ownerId string) ([]*entity.KnowledgeEntry, error) {
	var models []*model.KnowledgeEntry
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerId).
		Order("created_at DESC").
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", contract.ErrStorage, err)
	}
	return r.mapper.ToEntities(models), nil
}

// FindSimilar pushes the cosine math into pgvector. The <=> operator is
// cosine distance, so 1 - (embedding <=> query) is the same similarity the
// in-process engine computes. Ties break to the newest entry so ordering is
// deterministic.
func (r *KnowledgeRepositoryImpl) FindSimilar(ctx context.Context, ownerId string, query []float32, limit int) ([]*contract.ScoredKnowledgeEntry, error) {
	if limit <= 0 {
		limit = 5
	}

	type result struct {
		model.KnowledgeEntry
		Similarity float64
	}
	var results []result

	queryVector := pgvector.NewVector(query)

	err := r.db.WithContext(ctx).
		Table("knowledge_entries").
		Select("knowledge_entries.*, 1 - (embedding <=> ?) as similarity", queryVector).
		Where("owner_id = ?", ownerId).
		Order("similarity DESC, created_at DESC").
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", contract.ErrStorage, err)
	}

	scored := make([]*contract.ScoredKnowledgeEntry, len(results))
	for i, res := range results {
		scored[i] = &contract.ScoredKnowledgeEntry{
			Entry:      r.mapper.ToEntity(&res.KnowledgeEntry),
			Similarity: res.Similarity,
		}
	}
	return scored, nil
}
