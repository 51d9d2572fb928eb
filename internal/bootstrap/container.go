package bootstrap

import (
	"context"
	"log"
	"os"
	"path/filepath"

	"ai-assistant-be/internal/config"
	"ai-assistant-be/internal/controller"
	"ai-assistant-be/internal/handler"
	"ai-assistant-be/internal/pkg/filestore"
	"ai-assistant-be/internal/pkg/logger"
	"ai-assistant-be/internal/repository/contract"
	"ai-assistant-be/internal/repository/implementation"
	"ai-assistant-be/internal/repository/memory"
	"ai-assistant-be/internal/service"
	"ai-assistant-be/internal/websocket"
	"ai-assistant-be/pkg/embedding"
	"ai-assistant-be/pkg/extract"
	"ai-assistant-be/pkg/llm/factory"
	"ai-assistant-be/pkg/rag/intent"
	"ai-assistant-be/pkg/rag/router"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AssistantController controller.IAssistantController
	DocumentController  controller.IDocumentController
	WebhookController   controller.IWebhookController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// WebSockets
	PushHandler  *handler.PushHandler
	WebSocketHub *websocket.Hub
}

// NewContainer wires the dependency graph. db may be nil, in which case the
// in-memory knowledge store backs everything (dev/test setups without
// postgres).
func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	ragLogger := newRagLogger(cfg.App.RagLogFilePath)

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. AI Providers
	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "openai" {
		embeddingProvider = embedding.NewOpenAIProvider(
			cfg.Ai.EmbeddingBaseURL,
			cfg.Ai.EmbeddingAPIKey,
			cfg.Ai.EmbeddingModel,
			cfg.Ai.EmbeddingDim,
		)
		log.Printf("[INFO] Using Embedding Provider: OPENAI (%s)", cfg.Ai.EmbeddingModel)
	} else {
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.EmbeddingModel,
			cfg.Ai.EmbeddingDim,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.EmbeddingModel)
	}

	llmProvider, err := factory.NewLLMProvider(factory.ProviderConfig{
		Provider:          cfg.Ai.LLMProvider,
		Model:             cfg.Ai.LLMModel,
		OllamaBaseURL:     cfg.Ai.OllamaBaseURL,
		DeepSeekBaseURL:   cfg.Keys.DeepSeekBaseURL,
		DeepSeekAPIKey:    cfg.Keys.DeepSeek,
		HuggingFaceAPIKey: cfg.Keys.HuggingFace,
	})
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// 4. Stores
	sessionRepo := memory.NewSessionRepository()
	conversationRepo := memory.NewConversationRepository(cfg.Rag.MaxExchanges)

	var knowledgeRepo contract.KnowledgeRepository
	if db != nil {
		knowledgeRepo = implementation.NewKnowledgeRepository(db, cfg.Ai.EmbeddingDim)
		log.Printf("[INFO] Using Knowledge Store: POSTGRES/pgvector")
	} else {
		knowledgeRepo = memory.NewKnowledgeRepository(cfg.Ai.EmbeddingDim)
		log.Printf("[INFO] Using Knowledge Store: IN-MEMORY")
	}

	files, err := filestore.NewStore(cfg.App.UploadDir)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize file storage: %v", err)
	}

	// 5. Redis (optional, multi-instance websocket fan-out)
	var rdb *redis.Client
	if cfg.App.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
			opt = &redis.Options{Addr: cfg.App.RedisURL}
		}
		rdb = redis.NewClient(opt)
		if _, err := rdb.Ping(context.Background()).Result(); err != nil {
			log.Printf("[WARN] Failed to connect to Redis: %v", err)
		}
	}

	// 6. WebSocket Hub
	wsLogger := logger.NewIsolatedLogger("logs/push.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// 7. Services
	publisherService := service.NewPublisherService(cfg.Keys.ReplyEventsTopic, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Keys.ReplyEventsTopic,
		wsHub,
		sysLogger,
	)

	ragConfig := router.Config{
		RetrieveCandidates: cfg.Rag.RetrieveCandidates,
		ChatCandidates:     cfg.Rag.ChatCandidates,
		RetrieveTopK:       cfg.Rag.RetrieveTopK,
		ChatTopK:           cfg.Rag.ChatTopK,
		LooseFloor:         cfg.Rag.LooseFloor,
		StrictFloor:        cfg.Rag.StrictFloor,
		PreviewLength:      cfg.Rag.PreviewLength,
		ContextCharBudget:  cfg.Rag.ContextCharBudget,
	}

	ragRouter := router.NewRouter(
		intent.NewClassifier(llmProvider, ragLogger),
		embeddingProvider,
		knowledgeRepo,
		conversationRepo,
		llmProvider,
		ragLogger,
		ragConfig,
	)

	assistantService := service.NewAssistantService(
		sessionRepo,
		conversationRepo,
		knowledgeRepo,
		embeddingProvider,
		ragRouter,
		files,
		extract.NewToolExtractor(),
		publisherService,
		ragLogger,
	)

	documentService := service.NewDocumentService(
		knowledgeRepo,
		embeddingProvider,
		files,
		ragConfig,
		ragLogger,
	)

	// 8. Controllers
	return &Container{
		AssistantController: controller.NewAssistantController(assistantService),
		DocumentController:  controller.NewDocumentController(documentService),
		WebhookController:   controller.NewWebhookController(assistantService),
		ConsumerService:     consumerService,
		PushHandler:         handler.NewPushHandler(wsHub, wsLogger),
		WebSocketHub:        wsHub,
	}
}

// newRagLogger writes the RAG trace to its own file so the request log stays
// readable. Falls back to stdout when the file cannot be opened.
func newRagLogger(logPath string) *log.Logger {
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		log.Printf("Failed to create logs directory: %v", err)
	}
	file, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return log.New(os.Stdout, "[LLM-RAG] ", log.LstdFlags)
	}
	return log.New(file, "", log.LstdFlags)
}
