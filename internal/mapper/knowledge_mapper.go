package mapper

import (
	"ai-assistant-be/internal/entity"
	"ai-assistant-be/internal/model"

	"github.com/pgvector/pgvector-go"
)

type KnowledgeMapper struct{}

func NewKnowledgeMapper() *KnowledgeMapper {
	return &KnowledgeMapper{}
}

func (m *KnowledgeMapper) ToEntity(e *model.KnowledgeEntry) *entity.KnowledgeEntry {
	if e == nil {
		return nil
	}

	return &entity.KnowledgeEntry{
		Id:        e.Id,
		OwnerId:   e.OwnerId,
		Content:   e.Content,
		Embedding: e.Embedding.Slice(),
		CreatedAt: e.CreatedAt,
		FilePath:  e.FilePath,
		FileName:  e.FileName,
		FileType:  e.FileType,
	}
}

func (m *KnowledgeMapper) ToModel(e *entity.KnowledgeEntry) *model.KnowledgeEntry {
	if e == nil {
		return nil
	}

	return &model.KnowledgeEntry{
		Id:        e.Id,
		OwnerId:   e.OwnerId,
		Content:   e.Content,
		Embedding: pgvector.NewVector(e.Embedding),
		CreatedAt: e.CreatedAt,
		FilePath:  e.FilePath,
		FileName:  e.FileName,
		FileType:  e.FileType,
	}
}

func (m *KnowledgeMapper) ToEntities(models []*model.KnowledgeEntry) []*entity.KnowledgeEntry {
	entities := make([]*entity.KnowledgeEntry, len(models))
	for i, e := range models {
		entities[i] = m.ToEntity(e)
	}
	return entities
}
