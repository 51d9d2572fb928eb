package dto

import (
	"time"

	"github.com/google/uuid"
)

type ListDocumentsResponse struct {
	Id        uuid.UUID `json:"id"`
	Preview   string    `json:"preview"`
	FileName  string    `json:"file_name,omitempty"`
	FileType  string    `json:"file_type,omitempty"`
	HasFile   bool      `json:"has_file"`
	CreatedAt time.Time `json:"created_at"`
}

type DocumentFileResponse struct {
	FilePath string `json:"-"`
	FileName string `json:"file_name"`
	FileType string `json:"file_type"`
}

type SearchDocumentsRequest struct {
	OwnerId string `json:"owner_id" validate:"required"`
	Query   string `json:"query" validate:"required"`
}

type SearchDocumentsResponse struct {
	Id         uuid.UUID `json:"id,omitempty"`
	Preview    string    `json:"preview"`
	Similarity float64   `json:"similarity"`
	FileName   string    `json:"file_name,omitempty"`
	HasFile    bool      `json:"has_file"`
}
