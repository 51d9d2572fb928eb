package service

import (
	"context"
	"fmt"
	"log"

	"ai-assistant-be/internal/dto"
	"ai-assistant-be/internal/pkg/filestore"
	"ai-assistant-be/internal/repository/contract"
	"ai-assistant-be/pkg/embedding"
	"ai-assistant-be/pkg/rag/dedup"
	"ai-assistant-be/pkg/rag/router"

	"github.com/google/uuid"
)

type IDocumentService interface {
	ListDocuments(ctx context.Context, ownerId string) ([]*dto.ListDocumentsResponse, error)
	SearchDocuments(ctx context.Context, ownerId, query string) ([]*dto.SearchDocumentsResponse, error)
	GetDocumentFile(ctx context.Context, ownerId string, documentId uuid.UUID) (*dto.DocumentFileResponse, error)
}

type documentService struct {
	knowledgeRepo contract.KnowledgeRepository
	embedder      embedding.EmbeddingProvider
	files         *filestore.Store
	cfg           router.Config
	logger        *log.Logger
}

func NewDocumentService(
	knowledgeRepo contract.KnowledgeRepository,
	embedder embedding.EmbeddingProvider,
	files *filestore.Store,
	cfg router.Config,
	logger *log.Logger,
) IDocumentService {
	return &documentService{
		knowledgeRepo: knowledgeRepo,
		embedder:      embedder,
		files:         files,
		cfg:           cfg,
		logger:        logger,
	}
}

func (s *documentService) ListDocuments(ctx context.Context, ownerId string) ([]*dto.ListDocumentsResponse, error) {
	entries, err := s.knowledgeRepo.FindByOwner(ctx, ownerId)
	if err != nil {
		return nil, err
	}

	response := make([]*dto.ListDocumentsResponse, 0, len(entries))
	for _, e := range entries {
		doc := dedup.Document{Content: e.Content}
		response = append(response, &dto.ListDocumentsResponse{
			Id:        e.Id,
			Preview:   doc.Preview(s.cfg.PreviewLength),
			FileName:  e.FileName,
			FileType:  e.FileType,
			HasFile:   e.HasFile(),
			CreatedAt: e.CreatedAt,
		})
	}

	return response, nil
}

// SearchDocuments runs the retrieval flow without the model phrasing step,
// returning deduplicated previews directly. Same candidate count and loose
// floor as the conversational retrieve path.
func (s *documentService) SearchDocuments(ctx context.Context, ownerId, query string) ([]*dto.SearchDocumentsResponse, error) {
	vec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, err
	}

	candidates, err := s.knowledgeRepo.FindSimilar(ctx, ownerId, vec, s.cfg.RetrieveCandidates)
	if err != nil {
		return nil, err
	}

	docs := dedup.Collapse(candidates, s.cfg.LooseFloor, s.cfg.RetrieveTopK)
	s.logger.Printf("[SEARCH] owner=%s candidates=%d documents=%d", ownerId, len(candidates), len(docs))

	response := make([]*dto.SearchDocumentsResponse, 0, len(docs))
	for _, doc := range docs {
		response = append(response, &dto.SearchDocumentsResponse{
			Preview:    doc.Preview(s.cfg.PreviewLength),
			Similarity: doc.Similarity,
			FileName:   doc.FileName,
			HasFile:    doc.HasFile,
		})
	}

	return response, nil
}

// GetDocumentFile resolves a stored artifact for download. Lookup is owner
// scoped, so one user can never fetch another's files by id.
func (s *documentService) GetDocumentFile(ctx context.Context, ownerId string, documentId uuid.UUID) (*dto.DocumentFileResponse, error) {
	entries, err := s.knowledgeRepo.FindByOwner(ctx, ownerId)
	if err != nil {
		return nil, err
	}

	for _, e := range entries {
		if e.Id != documentId {
			continue
		}
		if !e.HasFile() || !s.files.Exists(e.FilePath) {
			return nil, fmt.Errorf("document %s has no stored file", documentId)
		}
		return &dto.DocumentFileResponse{
			FilePath: e.FilePath,
			FileName: e.FileName,
			FileType: e.FileType,
		}, nil
	}

	return nil, fmt.Errorf("document not found or access denied")
}
