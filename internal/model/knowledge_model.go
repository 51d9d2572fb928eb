package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

type KnowledgeEntry struct {
	Id        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OwnerId   string          `gorm:"type:varchar(255);not null;index"`
	Content   string          `gorm:"type:text;not null"`
	Embedding pgvector.Vector `gorm:"type:vector(1536)"` // OpenAI text-embedding-ada-002 uses 1536 dimensions
	FilePath  string          `gorm:"type:text"`
	FileName  string          `gorm:"type:text"`
	FileType  string          `gorm:"type:varchar(128)"`
	CreatedAt time.Time       `gorm:"autoCreateTime;index"`
}

func (KnowledgeEntry) TableName() string {
	return "knowledge_entries"
}
