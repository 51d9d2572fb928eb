package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Ai       AIConfig
	Rag      RagConfig
	Keys     APIKeys
}

type AppConfig struct {
	Port               string
	BaseURL            string
	Environment        string
	LogFilePath        string
	RagLogFilePath     string
	CorsAllowedOrigins string
	RedisURL           string
	UploadDir          string
}

type DatabaseConfig struct {
	// Empty connection string selects the in-memory knowledge store.
	Connection string
}

type AIConfig struct {
	LLMProvider       string // "ollama", "deepseek" or "huggingface"
	LLMModel          string
	OllamaBaseURL     string
	EmbeddingProvider string // "openai" or "ollama"
	EmbeddingModel    string
	EmbeddingBaseURL  string
	EmbeddingAPIKey   string
	EmbeddingDim      int
}

// RagConfig carries the retrieval tuning knobs, one env var each.
type RagConfig struct {
	LooseFloor         float64
	StrictFloor        float64
	RetrieveCandidates int
	ChatCandidates     int
	RetrieveTopK       int
	ChatTopK           int
	PreviewLength      int
	ContextCharBudget  int
	MaxExchanges       int
}

type APIKeys struct {
	DeepSeek         string
	DeepSeekBaseURL  string
	HuggingFace      string
	ReplyEventsTopic string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			RagLogFilePath:     getEnv("RAG_LOG_FILE_PATH", "logs/llm_rag.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			RedisURL:           getEnv("REDIS_URL", ""),
			UploadDir:          getEnv("UPLOAD_DIR", "./uploads"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Ai: AIConfig{
			LLMProvider:       getEnv("LLM_PROVIDER", "ollama"),
			LLMModel:          getEnv("LLM_MODEL", "llama3"),
			OllamaBaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			EmbeddingProvider: getEnv("EMBEDDING_PROVIDER", "ollama"),
			EmbeddingModel:    getEnv("EMBEDDING_MODEL", ""),
			EmbeddingBaseURL:  getEnv("EMBEDDING_BASE_URL", ""),
			EmbeddingAPIKey:   getEnv("EMBEDDING_API_KEY", ""),
			EmbeddingDim:      getEnvAsInt("EMBEDDING_DIMENSION", 1536),
		},
		Rag: RagConfig{
			LooseFloor:         getEnvAsFloat("RAG_LOOSE_FLOOR", 0.3),
			StrictFloor:        getEnvAsFloat("RAG_STRICT_FLOOR", 0.7),
			RetrieveCandidates: getEnvAsInt("RAG_RETRIEVE_CANDIDATES", 50),
			ChatCandidates:     getEnvAsInt("RAG_CHAT_CANDIDATES", 5),
			RetrieveTopK:       getEnvAsInt("RAG_RETRIEVE_TOP_K", 10),
			ChatTopK:           getEnvAsInt("RAG_CHAT_TOP_K", 3),
			PreviewLength:      getEnvAsInt("RAG_PREVIEW_LENGTH", 300),
			ContextCharBudget:  getEnvAsInt("RAG_CONTEXT_CHAR_BUDGET", 8000),
			MaxExchanges:       getEnvAsInt("MEMORY_MAX_EXCHANGES", 10),
		},
		Keys: APIKeys{
			DeepSeek:         getEnv("DEEPSEEK_API_KEY", ""),
			DeepSeekBaseURL:  getEnv("DEEPSEEK_BASE_URL", "https://api.deepseek.com"),
			HuggingFace:      getEnv("HUGGINGFACE_API_KEY", ""),
			ReplyEventsTopic: getEnv("REPLY_EVENTS_TOPIC_NAME", "ASSISTANT_REPLIES"),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}
