package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/fatih/color"

	"website-chatbot-be/internal/bootstrap"
	"website-chatbot-be/internal/config"
	"website-chatbot-be/internal/dto"
	"website-chatbot-be/internal/service"
	memorystore "website-chatbot-be/pkg/vectorstore/memory"
)

// Ingest CLI: reads the website content dump (one .txt per page), publishes
// each document to the embed topic and lets the indexer consumer chunk,
// embed and upsert it. With the memory backend the resulting index is
// saved as an artifact for the REST server to load.
func main() {
	cfg := config.Load()

	dataDir := flag.String("data", cfg.Ingest.DataDir, "directory of .txt documents to index")
	flag.Parse()

	color.Cyan("🚀 Ingesting website content from %s\n", *dataDir)

	entries, err := os.ReadDir(*dataDir)
	if err != nil {
		color.Red("Failed to read data dir: %v", err)
		os.Exit(1)
	}

	var docs []dto.EmbedDocumentMessage
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".txt") {
			continue
		}
		content, err := os.ReadFile(filepath.Join(*dataDir, entry.Name()))
		if err != nil {
			color.Red("Skipping %s: %v", entry.Name(), err)
			continue
		}
		docs = append(docs, dto.EmbedDocumentMessage{
			Source:  strings.TrimSuffix(entry.Name(), ".txt"),
			Content: string(content),
		})
	}
	if len(docs) == 0 {
		color.Red("No .txt documents found in %s", *dataDir)
		os.Exit(1)
	}

	embeddingProvider := bootstrap.NewEmbeddingProvider(cfg)
	index := bootstrap.NewIndex(cfg)

	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermillLogger)

	indexer := service.NewIndexerService(
		pubSub,
		cfg.Ingest.TopicName,
		index,
		embeddingProvider,
		cfg.Ingest.ChunkSize,
		cfg.Ingest.ChunkOverlap,
	)

	var wg sync.WaitGroup
	wg.Add(len(docs))
	var failed int
	indexer.OnProcessed = func(source string, chunks int, err error) {
		defer wg.Done()
		if err != nil {
			failed++
			color.Red("✗ %s: %v", source, err)
			return
		}
		color.Green("✓ %s (%d chunks)", source, chunks)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := indexer.Consume(ctx); err != nil {
		color.Red("Failed to start indexer: %v", err)
		os.Exit(1)
	}

	for _, doc := range docs {
		payload, err := json.Marshal(doc)
		if err != nil {
			log.Fatalf("marshal %s: %v", doc.Source, err)
		}
		msg := message.NewMessage(watermill.NewUUID(), payload)
		if err := pubSub.Publish(cfg.Ingest.TopicName, msg); err != nil {
			log.Fatalf("publish %s: %v", doc.Source, err)
		}
	}

	wg.Wait()

	if store, ok := index.(*memorystore.Store); ok {
		if err := store.Save(cfg.Index.ArtifactPath); err != nil {
			color.Red("Failed to save index artifact: %v", err)
			os.Exit(1)
		}
		color.Cyan("💾 Saved %d chunks to %s", store.Len(), cfg.Index.ArtifactPath)
	}

	if failed > 0 {
		color.Yellow("Done with %d failed document(s)", failed)
		os.Exit(1)
	}
	color.Cyan("✅ Ingest complete (%d documents)", len(docs))
}
