package memory

import (
	"context"
	"encoding/gob"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"website-chatbot-be/pkg/vectorstore"
)

// Store is an in-memory vector index using brute-force cosine similarity.
// Vectors are expected to be L2-normalized, so similarity is a plain dot
// product. The whole index can be persisted to a single artifact file and
// loaded once at process start.
type Store struct {
	mu      sync.RWMutex
	vectors [][]float32
	chunks  []vectorstore.Chunk
}

var _ vectorstore.Index = &Store{}

func NewStore() *Store { return &Store{} }

func (s *Store) Upsert(ctx context.Context, chunks []vectorstore.Chunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return errors.New("chunks and vectors length mismatch")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.vectors) > 0 {
		dim := len(s.vectors[0])
		for _, v := range vectors {
			if len(v) != dim {
				return fmt.Errorf("vector dimension mismatch: got %d, index has %d", len(v), dim)
			}
		}
	}
	s.chunks = append(s.chunks, chunks...)
	s.vectors = append(s.vectors, vectors...)
	return nil
}

func (s *Store) Search(ctx context.Context, vector []float32, k int) ([]vectorstore.SearchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if k <= 0 {
		k = 5
	}

	results := make([]vectorstore.SearchResult, 0, len(s.vectors))
	for i := range s.vectors {
		results = append(results, vectorstore.SearchResult{
			Chunk:      s.chunks[i],
			Similarity: dot(s.vectors[i], vector),
		})
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Similarity > results[j].Similarity
	})
	if k > len(results) {
		k = len(results)
	}
	return results[:k], nil
}

// Len reports the number of indexed chunks.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.chunks)
}

type artifact struct {
	Chunks  []vectorstore.Chunk
	Vectors [][]float32
}

// Save writes the index to a single artifact file. The builder calls this
// once at the end of an ingest run; the server never writes.
func (s *Store) Save(path string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create artifact dir: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create artifact: %w", err)
	}
	defer f.Close()

	if err := gob.NewEncoder(f).Encode(artifact{Chunks: s.chunks, Vectors: s.vectors}); err != nil {
		return fmt.Errorf("encode artifact: %w", err)
	}
	return nil
}

// Load replaces the index contents with the artifact at path.
func (s *Store) Load(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open artifact: %w", err)
	}
	defer f.Close()

	var a artifact
	if err := gob.NewDecoder(f).Decode(&a); err != nil {
		return fmt.Errorf("decode artifact: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.chunks = a.Chunks
	s.vectors = a.Vectors
	return nil
}

func dot(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
