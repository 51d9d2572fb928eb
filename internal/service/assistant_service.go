package service

import (
	"context"
	"log"
	"strings"
	"time"

	"ai-assistant-be/internal/constant"
	"ai-assistant-be/internal/dto"
	"ai-assistant-be/internal/entity"
	"ai-assistant-be/internal/pkg/filestore"
	"ai-assistant-be/internal/repository/contract"
	"ai-assistant-be/internal/repository/memory"
	"ai-assistant-be/pkg/embedding"
	"ai-assistant-be/pkg/events"
	"ai-assistant-be/pkg/extract"
	"ai-assistant-be/pkg/rag/router"

	"github.com/google/uuid"
)

// IAssistantService is the conversational entry point. Every inbound message,
// regardless of transport, goes through HandleIncoming.
type IAssistantService interface {
	HandleIncoming(ctx context.Context, ownerId, body string, attachments []dto.AttachmentDTO) string
	StoreKnowledge(ctx context.Context, ownerId, content string, attachments []dto.AttachmentDTO) (*dto.StoreKnowledgeResponse, error)
}

type assistantService struct {
	sessions      *memory.SessionRepository
	conversations *memory.ConversationRepository
	knowledgeRepo contract.KnowledgeRepository
	embedder      embedding.EmbeddingProvider
	router        *router.Router
	files         *filestore.Store
	extractor     extract.Extractor
	publisher     IPublisherService
	logger        *log.Logger
}

func NewAssistantService(
	sessions *memory.SessionRepository,
	conversations *memory.ConversationRepository,
	knowledgeRepo contract.KnowledgeRepository,
	embedder embedding.EmbeddingProvider,
	ragRouter *router.Router,
	files *filestore.Store,
	extractor extract.Extractor,
	publisher IPublisherService,
	logger *log.Logger,
) IAssistantService {
	return &assistantService{
		sessions:      sessions,
		conversations: conversations,
		knowledgeRepo: knowledgeRepo,
		embedder:      embedder,
		router:        ragRouter,
		files:         files,
		extractor:     extractor,
		publisher:     publisher,
		logger:        logger,
	}
}

// HandleIncoming runs one turn of the session state machine. It always
// produces a reply; failures resolve to fixed fallback texts and never
// propagate to the transport.
func (s *assistantService) HandleIncoming(ctx context.Context, ownerId, body string, attachments []dto.AttachmentDTO) string {
	trimmed := strings.TrimSpace(body)
	command := strings.ToLower(trimmed)

	// "end" works from any state and wipes the conversation window.
	if command == constant.EndCommand {
		s.sessions.Reset(ownerId)
		s.conversations.Clear(ownerId)
		return s.publishReply(ctx, ownerId, constant.ReplySessionEnded)
	}

	mode := s.sessions.Mode(ownerId)

	var reply string
	switch mode {
	case memory.ModeStore:
		reply = s.store(ctx, ownerId, trimmed, attachments)
	case memory.ModeChat:
		reply = s.router.Reply(ctx, ownerId, trimmed)
	default:
		reply = s.selectMode(ownerId, command)
	}

	return s.publishReply(ctx, ownerId, reply)
}

// selectMode handles the NONE state: the user picks a mode or gets the
// options menu again.
func (s *assistantService) selectMode(ownerId, command string) string {
	switch command {
	case "1", constant.StoreCommand:
		s.sessions.SetMode(ownerId, memory.ModeStore)
		return constant.ReplyStoreBanner
	case "2", constant.ChatCommand:
		s.sessions.SetMode(ownerId, memory.ModeChat)
		return constant.ReplyChatBanner
	default:
		return constant.ReplyOptions
	}
}

// store persists the message and its attachments as knowledge entries. Any
// embed or save failure returns the failed-store reply and leaves the session
// in STORE so the user can retry.
func (s *assistantService) store(ctx context.Context, ownerId, body string, attachments []dto.AttachmentDTO) string {
	entries, ok := s.collectEntries(ctx, ownerId, body, attachments)
	if !ok {
		return constant.ReplyStoreFailed
	}

	// Nothing to store still reads as success; an empty message in STORE
	// mode is not an error the user can act on.
	if len(entries) == 0 {
		return constant.ReplyStored
	}

	for _, entry := range entries {
		vec, err := s.embedder.Embed(ctx, entry.Content)
		if err != nil {
			s.logger.Printf("[ERROR] embedding failed for owner %s: %v", ownerId, err)
			return constant.ReplyStoreFailed
		}
		entry.Embedding = vec

		if err := s.knowledgeRepo.Save(ctx, entry); err != nil {
			s.logger.Printf("[ERROR] saving knowledge failed for owner %s: %v", ownerId, err)
			return constant.ReplyStoreFailed
		}

		if err := s.publisher.Publish(ctx, events.NewKnowledgeStored(ownerId, entry.Id.String(), entry.FileName)); err != nil {
			s.logger.Printf("[WARN] publishing knowledge event failed: %v", err)
		}
	}

	return constant.ReplyStored
}

// collectEntries turns the message body and attachments into unsaved entries.
// The bool result is false only when an attachment could not be persisted at
// all; extraction failures degrade to placeholder content instead.
func (s *assistantService) collectEntries(ctx context.Context, ownerId, body string, attachments []dto.AttachmentDTO) ([]*entity.KnowledgeEntry, bool) {
	now := time.Now()
	var entries []*entity.KnowledgeEntry

	for _, att := range attachments {
		path, err := s.persistAttachment(ctx, ownerId, att)
		if err != nil {
			s.logger.Printf("[ERROR] persisting attachment %s failed: %v", att.FileName, err)
			return nil, false
		}

		content, err := s.extractor.Extract(ctx, path, att.FileType)
		if err != nil {
			s.logger.Printf("[WARN] extraction failed for %s, storing placeholder: %v", att.FileName, err)
			content = constant.ExtractionFailedPlaceholder
		}

		entries = append(entries, &entity.KnowledgeEntry{
			Id:        uuid.New(),
			OwnerId:   ownerId,
			Content:   content,
			CreatedAt: now,
			FilePath:  path,
			FileName:  att.FileName,
			FileType:  att.FileType,
		})
	}

	if body != "" {
		// The raw body is also kept on disk so text deposits survive a
		// database wipe, but the entry itself stays text-only.
		if _, err := s.files.SaveText(ownerId, "message", body); err != nil {
			s.logger.Printf("[WARN] archiving text body failed: %v", err)
		}

		entries = append(entries, &entity.KnowledgeEntry{
			Id:        uuid.New(),
			OwnerId:   ownerId,
			Content:   body,
			CreatedAt: now,
		})
	}

	return entries, true
}

func (s *assistantService) persistAttachment(ctx context.Context, ownerId string, att dto.AttachmentDTO) (string, error) {
	if len(att.Data) > 0 {
		return s.files.SaveBytes(ownerId, att.FileName, att.Data)
	}
	return s.files.Download(ctx, att.MediaURL, ownerId, att.FileName)
}

// StoreKnowledge is the direct deposit path for the REST API. It bypasses the
// state machine but shares the same persistence pipeline.
func (s *assistantService) StoreKnowledge(ctx context.Context, ownerId, content string, attachments []dto.AttachmentDTO) (*dto.StoreKnowledgeResponse, error) {
	entries, ok := s.collectEntries(ctx, ownerId, strings.TrimSpace(content), attachments)
	if !ok {
		return nil, contract.ErrStorage
	}

	for _, entry := range entries {
		vec, err := s.embedder.Embed(ctx, entry.Content)
		if err != nil {
			return nil, err
		}
		entry.Embedding = vec

		if err := s.knowledgeRepo.Save(ctx, entry); err != nil {
			return nil, err
		}

		if err := s.publisher.Publish(ctx, events.NewKnowledgeStored(ownerId, entry.Id.String(), entry.FileName)); err != nil {
			s.logger.Printf("[WARN] publishing knowledge event failed: %v", err)
		}
	}

	return &dto.StoreKnowledgeResponse{
		Stored: len(entries),
		Reply:  constant.ReplyStored,
	}, nil
}

// publishReply emits the turn's outcome for websocket listeners and passes
// the reply through unchanged.
func (s *assistantService) publishReply(ctx context.Context, ownerId, reply string) string {
	mode := string(s.sessions.Mode(ownerId))
	if err := s.publisher.Publish(ctx, events.NewAssistantReply(ownerId, reply, mode)); err != nil {
		s.logger.Printf("[WARN] publishing reply event failed: %v", err)
	}
	return reply
}
