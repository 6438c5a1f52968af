package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Keys      APIKeys
	Ai        AIConfig
	Index     IndexConfig
	Session   SessionConfig
	Retrieval RetrievalConfig
	Ingest    IngestConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	RedisURL           string
}

type DatabaseConfig struct {
	Connection string
}

type APIKeys struct {
	GoogleGemini string
	HuggingFace  string
}

type AIConfig struct {
	EmbeddingProvider string // "ollama" or "gemini"
	OllamaBaseURL     string
	OllamaModel       string
	LLMProvider       string // "ollama" or "huggingface"
	LLMModel          string
}

type IndexConfig struct {
	Backend      string // "memory" (artifact file) or "pgvector"
	ArtifactPath string
}

type SessionConfig struct {
	Backend  string // "file" or "redis"
	FilePath string
	TTLHours int // redis only; 0 keeps sessions forever
}

type RetrievalConfig struct {
	TopK            int
	MinSimilarity   float64
	MaxContextChars int
	AnswerCacheSize int
}

type IngestConfig struct {
	DataDir      string
	TopicName    string
	ChunkSize    int
	ChunkOverlap int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "8000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Keys: APIKeys{
			GoogleGemini: getEnv("GOOGLE_GEMINI_API_KEY", ""),
			HuggingFace:  getEnv("HUGGINGFACE_API_KEY", ""),
		},
		Ai: AIConfig{
			EmbeddingProvider: getEnv("EMBEDDING_PROVIDER", "ollama"),
			OllamaBaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OllamaModel:       getEnv("OLLAMA_EMBEDDING_MODEL", "all-minilm"),
			LLMProvider:       getEnv("LLM_PROVIDER", "ollama"),
			LLMModel:          getEnv("LLM_MODEL", "llama3"),
		},
		Index: IndexConfig{
			Backend:      getEnv("INDEX_BACKEND", "memory"),
			ArtifactPath: getEnv("INDEX_ARTIFACT_PATH", "data/vectorstore.gob"),
		},
		Session: SessionConfig{
			Backend:  getEnv("SESSION_BACKEND", "file"),
			FilePath: getEnv("SESSION_FILE_PATH", "data/sessions.json"),
			TTLHours: getEnvAsInt("SESSION_TTL_HOURS", 0),
		},
		Retrieval: RetrievalConfig{
			TopK:            getEnvAsInt("RETRIEVAL_TOP_K", 4),
			MinSimilarity:   getEnvAsFloat("RETRIEVAL_MIN_SIMILARITY", 0.35),
			MaxContextChars: getEnvAsInt("CONTEXT_MAX_CHARS", 700),
			AnswerCacheSize: getEnvAsInt("ANSWER_CACHE_SIZE", 300),
		},
		Ingest: IngestConfig{
			DataDir:      getEnv("INGEST_DATA_DIR", "data/website_content"),
			TopicName:    getEnv("INGEST_TOPIC_NAME", "EMBED_WEBSITE_CHUNKS"),
			ChunkSize:    getEnvAsInt("INGEST_CHUNK_SIZE", 400),
			ChunkOverlap: getEnvAsInt("INGEST_CHUNK_OVERLAP", 50),
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
