package retrieval

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"website-chatbot-be/pkg/chunker"
	"website-chatbot-be/pkg/embedding"
	"website-chatbot-be/pkg/vectorstore"
)

// ErrNoGrounding signals that no chunk passed the similarity threshold.
// Normal control flow, not a failure: the caller answers with the fixed
// "no information" reply and never calls the generator.
var ErrNoGrounding = errors.New("no grounding available")

const (
	DefaultTopK            = 4
	DefaultMinSimilarity   = 0.35
	DefaultMaxContextChars = 700
)

// Engine turns a free-text question into a bounded, deduplicated context
// string assembled from the most similar indexed chunks.
//
// Threshold semantics: both index backends report cosine similarity in
// [-1,1], and chunks are kept when similarity >= MinSimilarity. The
// inverse distance-below-threshold convention is deliberately not
// supported.
type Engine struct {
	embedder embedding.EmbeddingProvider
	index    vectorstore.Index
	logger   *log.Logger

	TopK            int
	MinSimilarity   float64
	MaxContextChars int
}

func NewEngine(embedder embedding.EmbeddingProvider, index vectorstore.Index, logger *log.Logger) *Engine {
	return &Engine{
		embedder:        embedder,
		index:           index,
		logger:          logger,
		TopK:            DefaultTopK,
		MinSimilarity:   DefaultMinSimilarity,
		MaxContextChars: DefaultMaxContextChars,
	}
}

// Retrieve embeds the query, searches the index, filters by similarity,
// deduplicates at sentence level and truncates to the configured maximum.
func (e *Engine) Retrieve(ctx context.Context, query string) (string, error) {
	res, err := e.embedder.Generate(query, embedding.TaskRetrievalQuery)
	if err != nil {
		return "", fmt.Errorf("embed query: %w", err)
	}

	results, err := e.index.Search(ctx, res.Embedding.Values, e.TopK)
	if err != nil {
		return "", fmt.Errorf("search index: %w", err)
	}

	var kept []string
	for _, r := range results {
		if r.Similarity >= e.MinSimilarity {
			kept = append(kept, r.Chunk.Text)
		}
	}
	if e.logger != nil {
		e.logger.Printf("[RETRIEVAL] %d/%d chunks above threshold %.2f", len(kept), len(results), e.MinSimilarity)
	}
	if len(kept) == 0 {
		return "", ErrNoGrounding
	}

	return e.assemble(kept), nil
}

// assemble splits the surviving chunks into sentences, drops exact
// duplicates (chunk overlap repeats sentences), joins with single spaces
// and applies the hard prefix-preserving cutoff.
func (e *Engine) assemble(texts []string) string {
	seen := make(map[string]struct{})
	var sentences []string
	for _, text := range texts {
		for _, s := range chunker.SplitSentences(text) {
			if _, ok := seen[s]; ok {
				continue
			}
			seen[s] = struct{}{}
			sentences = append(sentences, s)
		}
	}

	context := strings.Join(sentences, " ")
	// Character cutoff, never mid-rune: a byte slice could split a
	// multi-byte rune and feed the model invalid UTF-8.
	if runes := []rune(context); len(runes) > e.MaxContextChars {
		context = string(runes[:e.MaxContextChars])
	}
	return context
}
