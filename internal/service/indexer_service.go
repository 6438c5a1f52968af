package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"website-chatbot-be/internal/dto"
	"website-chatbot-be/pkg/chunker"
	"website-chatbot-be/pkg/embedding"
	"website-chatbot-be/pkg/vectorstore"
)

// SourceDeleter is implemented by index backends that can drop all chunks
// of one source document before re-inserting (pgvector). The artifact
// backend rebuilds from scratch, so it doesn't need this.
type SourceDeleter interface {
	DeleteBySource(ctx context.Context, source string) error
}

type IIndexerService interface {
	Consume(ctx context.Context) error
}

// indexerService subscribes to the ingest topic, chunks and embeds each
// published document and upserts the vectors into the index.
type indexerService struct {
	pubSub            *gochannel.GoChannel
	topicName         string
	index             vectorstore.Index
	embeddingProvider embedding.EmbeddingProvider
	chunkSize         int
	chunkOverlap      int

	// OnProcessed, when set, is called after each document (the ingest
	// CLI uses it to wait for the run to drain).
	OnProcessed func(source string, chunks int, err error)
}

func NewIndexerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	index vectorstore.Index,
	embeddingProvider embedding.EmbeddingProvider,
	chunkSize, chunkOverlap int,
) *indexerService {
	return &indexerService{
		pubSub:            pubSub,
		topicName:         topicName,
		index:             index,
		embeddingProvider: embeddingProvider,
		chunkSize:         chunkSize,
		chunkOverlap:      chunkOverlap,
	}
}

func (is *indexerService) Consume(ctx context.Context) error {
	messages, err := is.pubSub.Subscribe(ctx, is.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			is.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (is *indexerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.EmbedDocumentMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal message: %v", err)
		msg.Ack() // invalid payloads never become valid, don't retry
		if is.OnProcessed != nil {
			is.OnProcessed(payload.Source, 0, err)
		}
		return
	}

	n, err := is.indexDocument(ctx, payload.Source, payload.Content)
	if err != nil {
		log.Printf("[ERROR] Failed to index %s: %v", payload.Source, err)
		msg.Nack()
	} else {
		log.Printf("[INFO] Indexed %s: %d chunks", payload.Source, n)
		msg.Ack()
	}

	if is.OnProcessed != nil {
		is.OnProcessed(payload.Source, n, err)
	}
}

func (is *indexerService) indexDocument(ctx context.Context, source, content string) (int, error) {
	parts := chunker.SplitText(content, is.chunkSize, is.chunkOverlap)

	chunks := make([]vectorstore.Chunk, 0, len(parts))
	vectors := make([][]float32, 0, len(parts))
	for i, part := range parts {
		res, err := is.embeddingProvider.Generate(part, embedding.TaskRetrievalDocument)
		if err != nil {
			return 0, fmt.Errorf("embed chunk %d: %w", i, err)
		}
		chunks = append(chunks, vectorstore.Chunk{
			ID:     fmt.Sprintf("%s:%d", source, i),
			Source: source,
			Text:   part,
			Index:  i,
		})
		vectors = append(vectors, res.Embedding.Values)
	}

	if deleter, ok := is.index.(SourceDeleter); ok {
		if err := deleter.DeleteBySource(ctx, source); err != nil {
			return 0, fmt.Errorf("delete stale chunks: %w", err)
		}
	}

	if err := is.index.Upsert(ctx, chunks, vectors); err != nil {
		return 0, fmt.Errorf("upsert chunks: %w", err)
	}
	return len(chunks), nil
}
