package bootstrap

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"website-chatbot-be/internal/config"
	"website-chatbot-be/internal/controller"
	"website-chatbot-be/internal/pkg/logger"
	"website-chatbot-be/internal/repository/contract"
	"website-chatbot-be/internal/repository/implementation"
	"website-chatbot-be/internal/service"
	"website-chatbot-be/pkg/database"
	"website-chatbot-be/pkg/embedding"
	"website-chatbot-be/pkg/llm/factory"
	"website-chatbot-be/pkg/vectorstore"
	memorystore "website-chatbot-be/pkg/vectorstore/memory"
	pgvectorstore "website-chatbot-be/pkg/vectorstore/pgvector"
)

type Container struct {
	ChatbotController controller.IChatbotController

	// Exposed for tests and for the ingest CLI wiring
	Index       vectorstore.Index
	SessionRepo contract.SessionRepository
	Logger      logger.ILogger
}

func NewContainer(cfg *config.Config) *Container {
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	embeddingProvider := NewEmbeddingProvider(cfg)

	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Keys.HuggingFace,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	index := NewIndex(cfg)
	sessionRepo := NewSessionRepository(cfg)

	chatbotService, err := service.NewChatbotService(sessionRepo, embeddingProvider, index, llmProvider, cfg)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize chatbot service: %v", err)
	}

	return &Container{
		ChatbotController: controller.NewChatbotController(chatbotService, sysLogger),
		Index:             index,
		SessionRepo:       sessionRepo,
		Logger:            sysLogger,
	}
}

// NewEmbeddingProvider selects the embedding backend from config.
func NewEmbeddingProvider(cfg *config.Config) embedding.EmbeddingProvider {
	if cfg.Ai.EmbeddingProvider == "gemini" {
		log.Printf("[INFO] Using Embedding Provider: GEMINI")
		return embedding.NewGeminiProvider(cfg.Keys.GoogleGemini)
	}
	log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaModel)
	return embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.OllamaModel)
}

// NewIndex loads the vector index configured for this deployment. The
// memory backend reads the load-once artifact the ingest CLI produced;
// pgvector queries live rows.
func NewIndex(cfg *config.Config) vectorstore.Index {
	switch cfg.Index.Backend {
	case "pgvector":
		db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
		if err != nil {
			log.Fatalf("[FATAL] Unable to connect to GORM DB: %v", err)
		}
		store := pgvectorstore.NewStore(db)
		if err := store.Migrate(context.Background()); err != nil {
			log.Fatalf("[FATAL] Failed to migrate chunk embeddings: %v", err)
		}
		log.Printf("[INFO] Using Vector Index: PGVECTOR")
		return store
	default:
		store := memorystore.NewStore()
		if err := store.Load(cfg.Index.ArtifactPath); err != nil {
			log.Printf("[WARN] Vector artifact not loaded (%v); index is empty, run the ingest CLI", err)
		} else {
			log.Printf("[INFO] Using Vector Index: MEMORY (%d chunks from %s)", store.Len(), cfg.Index.ArtifactPath)
		}
		return store
	}
}

// NewSessionRepository selects the durable session backend from config.
func NewSessionRepository(cfg *config.Config) contract.SessionRepository {
	if cfg.Session.Backend == "redis" {
		opt, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
			opt = &redis.Options{
				Addr: cfg.App.RedisURL,
			}
		}
		rdb := redis.NewClient(opt)
		if _, err := rdb.Ping(context.Background()).Result(); err != nil {
			log.Printf("[WARN] Failed to connect to Redis: %v", err)
		}
		log.Printf("[INFO] Using Session Store: REDIS")
		return implementation.NewRedisSessionRepository(rdb, time.Duration(cfg.Session.TTLHours)*time.Hour)
	}
	log.Printf("[INFO] Using Session Store: FILE (%s)", cfg.Session.FilePath)
	return implementation.NewFileSessionRepository(cfg.Session.FilePath)
}
