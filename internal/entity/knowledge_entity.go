package entity

import (
	"time"

	"github.com/google/uuid"
)

// KnowledgeEntry is one stored fact or document chunk owned by a single user.
// Entries are insert-only: content and embedding never change after creation.
type KnowledgeEntry struct {
	Id        uuid.UUID
	OwnerId   string
	Content   string
	Embedding []float32
	CreatedAt time.Time

	// File metadata, set only when the entry originated from an upload.
	FilePath string
	FileName string
	FileType string
}

// HasFile reports whether the entry references an uploaded artifact.
func (e *KnowledgeEntry) HasFile() bool {
	return e.FilePath != ""
}
