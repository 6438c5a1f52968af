package service

import (
	"context"
	"errors"
	"log"
	"os"
	"path/filepath"
	"strings"

	"website-chatbot-be/internal/config"
	"website-chatbot-be/internal/dto"
	"website-chatbot-be/internal/repository/contract"
	"website-chatbot-be/pkg/embedding"
	"website-chatbot-be/pkg/llm"
	"website-chatbot-be/pkg/rag/answer"
	"website-chatbot-be/pkg/rag/retrieval"
	"website-chatbot-be/pkg/rag/rules"
	"website-chatbot-be/pkg/vectorstore"
)

// ReplyNoInformation is the answer when retrieval finds nothing above the
// similarity threshold; the generator is never called for these turns.
const ReplyNoInformation = "I don't have that information on this website, but I can help with other CORtracker-related questions."

// IChatbotService defines the chatbot service interface
type IChatbotService interface {
	Chat(ctx context.Context, request *dto.ChatRequest) (*dto.ChatResponse, error)
}

// chatbotService coordinates the turn pipeline: session lookup, rule
// chain, retrieval, grounded generation, session persistence.
type chatbotService struct {
	sessions  contract.SessionRepository
	ruleChain *rules.Engine
	retriever *retrieval.Engine
	generator *answer.Generator

	pipelineLogger *log.Logger
}

func NewChatbotService(
	sessions contract.SessionRepository,
	embeddingProvider embedding.EmbeddingProvider,
	index vectorstore.Index,
	llmProvider llm.LLMProvider,
	cfg *config.Config,
) (IChatbotService, error) {

	pipelineLogger := initPipelineLogger()

	retriever := retrieval.NewEngine(embeddingProvider, index, pipelineLogger)
	retriever.TopK = cfg.Retrieval.TopK
	retriever.MinSimilarity = cfg.Retrieval.MinSimilarity
	retriever.MaxContextChars = cfg.Retrieval.MaxContextChars

	generator, err := answer.NewGenerator(llmProvider, cfg.Retrieval.AnswerCacheSize, pipelineLogger)
	if err != nil {
		return nil, err
	}

	return &chatbotService{
		sessions:       sessions,
		ruleChain:      rules.NewEngine(sessions, pipelineLogger),
		retriever:      retriever,
		generator:      generator,
		pipelineLogger: pipelineLogger,
	}, nil
}

func initPipelineLogger() *log.Logger {
	logPath := filepath.Join(".", "logs", "rag_pipeline.log")
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		log.Printf("Failed to create logs directory: %v", err)
	}
	file, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return log.New(os.Stdout, "[RAG] ", log.LstdFlags)
	}
	return log.New(file, "", log.LstdFlags)
}

// Chat processes one turn for a session.
func (cs *chatbotService) Chat(ctx context.Context, request *dto.ChatRequest) (*dto.ChatResponse, error) {
	sess, err := cs.sessions.GetOrCreate(ctx, request.SessionId)
	if err != nil {
		return nil, err
	}

	// Rule chain first: canned flows never touch the index or the model.
	if result, err := cs.ruleChain.Handle(ctx, request.Query, sess); err != nil {
		return nil, err
	} else if result != nil {
		return cs.respond(sess.ID, result.Reply, result.Buttons), nil
	}

	contextText, err := cs.retriever.Retrieve(ctx, request.Query)
	if err != nil {
		if errors.Is(err, retrieval.ErrNoGrounding) {
			return cs.respond(sess.ID, ReplyNoInformation, nil), nil
		}
		return nil, err
	}

	reply, err := cs.generator.Answer(ctx, contextText, request.Query)
	if err != nil {
		return nil, err
	}

	topic := strings.TrimSpace(request.Query)
	sess.LastTopic = &topic
	if err := cs.sessions.Save(ctx, sess); err != nil {
		return nil, err
	}

	return cs.respond(sess.ID, reply, nil), nil
}

func (cs *chatbotService) respond(sessionID, reply string, buttons []string) *dto.ChatResponse {
	if buttons == nil {
		buttons = []string{}
	}
	return &dto.ChatResponse{
		Reply:     reply,
		Buttons:   buttons,
		SessionId: sessionID,
	}
}
