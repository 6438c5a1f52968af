package retrieval

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"website-chatbot-be/pkg/embedding"
	"website-chatbot-be/pkg/vectorstore"
)

type fakeEmbedder struct {
	lastTask string
}

func (f *fakeEmbedder) Generate(text, taskType string) (*embedding.EmbeddingResponse, error) {
	f.lastTask = taskType
	return &embedding.EmbeddingResponse{
		Embedding: embedding.EmbeddingResponseEmbedding{Values: []float32{1, 0, 0}},
	}, nil
}

type fakeIndex struct {
	results []vectorstore.SearchResult
	lastK   int
}

func (f *fakeIndex) Upsert(_ context.Context, _ []vectorstore.Chunk, _ [][]float32) error {
	return nil
}

func (f *fakeIndex) Search(_ context.Context, _ []float32, k int) ([]vectorstore.SearchResult, error) {
	f.lastK = k
	return f.results, nil
}

func result(text string, similarity float64) vectorstore.SearchResult {
	return vectorstore.SearchResult{
		Chunk:      vectorstore.Chunk{ID: text, Text: text},
		Similarity: similarity,
	}
}

func TestRetrieveFiltersBelowThreshold(t *testing.T) {
	idx := &fakeIndex{results: []vectorstore.SearchResult{
		result("The company offers consulting.", 0.82),
		result("Founded in 2010.", 0.36),
		result("Unrelated boilerplate.", 0.34),
		result("Footer links.", 0.05),
	}}
	emb := &fakeEmbedder{}
	e := NewEngine(emb, idx, nil)

	got, err := e.Retrieve(context.Background(), "what does the company do")
	if err != nil {
		t.Fatalf("Retrieve() error = %v", err)
	}
	if emb.lastTask != embedding.TaskRetrievalQuery {
		t.Errorf("embedded with task %q, want %q", emb.lastTask, embedding.TaskRetrievalQuery)
	}
	if idx.lastK != DefaultTopK {
		t.Errorf("searched k = %d, want %d", idx.lastK, DefaultTopK)
	}
	if strings.Contains(got, "boilerplate") || strings.Contains(got, "Footer") {
		t.Errorf("context kept sub-threshold chunks: %q", got)
	}
	if !strings.Contains(got, "consulting") || !strings.Contains(got, "2010") {
		t.Errorf("context dropped qualifying chunks: %q", got)
	}
}

func TestRetrieveNoGrounding(t *testing.T) {
	idx := &fakeIndex{results: []vectorstore.SearchResult{
		result("Barely related.", 0.3),
	}}
	e := NewEngine(&fakeEmbedder{}, idx, nil)

	got, err := e.Retrieve(context.Background(), "who is the prime minister")
	if !errors.Is(err, ErrNoGrounding) {
		t.Fatalf("Retrieve() error = %v, want ErrNoGrounding", err)
	}
	if got != "" {
		t.Errorf("Retrieve() context = %q, want empty", got)
	}
}

func TestRetrieveDeduplicatesSentences(t *testing.T) {
	// Overlapping chunks repeat the shared sentence; it must survive
	// exactly once, in first-seen order.
	idx := &fakeIndex{results: []vectorstore.SearchResult{
		result("CORtracker builds software. It serves enterprises.", 0.9),
		result("CORtracker builds software. Offices are in three regions.", 0.8),
	}}
	e := NewEngine(&fakeEmbedder{}, idx, nil)

	got, err := e.Retrieve(context.Background(), "about the company")
	if err != nil {
		t.Fatalf("Retrieve() error = %v", err)
	}
	want := "CORtracker builds software. It serves enterprises. Offices are in three regions."
	if got != want {
		t.Errorf("Retrieve() = %q, want %q", got, want)
	}
}

func TestRetrieveTruncatesContext(t *testing.T) {
	idx := &fakeIndex{results: []vectorstore.SearchResult{
		result("First unique sentence about products. Second unique sentence about pricing. Third unique sentence about support.", 0.9),
	}}
	e := NewEngine(&fakeEmbedder{}, idx, nil)
	e.MaxContextChars = 50

	got, err := e.Retrieve(context.Background(), "anything")
	if err != nil {
		t.Fatalf("Retrieve() error = %v", err)
	}
	if len(got) != 50 {
		t.Errorf("context length = %d, want exactly 50 (hard prefix cutoff)", len(got))
	}
	if !strings.HasPrefix(got, "First unique sentence about products.") {
		t.Errorf("truncation lost the prefix: %q", got)
	}
}

func TestRetrieveTruncatesOnRuneBoundary(t *testing.T) {
	idx := &fakeIndex{results: []vectorstore.SearchResult{
		result("Résumé café naïve entrée déjà vu piñata jalapeño crème brûlée über señor", 0.9),
	}}
	e := NewEngine(&fakeEmbedder{}, idx, nil)
	e.MaxContextChars = 25

	got, err := e.Retrieve(context.Background(), "anything")
	if err != nil {
		t.Fatalf("Retrieve() error = %v", err)
	}
	if !utf8.ValidString(got) {
		t.Fatalf("truncation split a rune: %q", got)
	}
	if n := utf8.RuneCountInString(got); n != 25 {
		t.Errorf("context runes = %d, want 25", n)
	}
}
