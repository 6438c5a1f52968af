package vectorstore

import "context"

// Chunk is an immutable text fragment with source provenance, produced by
// the offline index builder. The unit of retrieval.
type Chunk struct {
	ID     string
	Source string
	Text   string
	Index  int
}

// SearchResult pairs a chunk with its cosine similarity to the query
// vector. Similarity lives in [-1,1]; higher means more relevant.
type SearchResult struct {
	Chunk      Chunk
	Similarity float64
}

// Index is a queryable vector index over pre-embedded chunks.
type Index interface {
	Upsert(ctx context.Context, chunks []Chunk, vectors [][]float32) error
	Search(ctx context.Context, vector []float32, k int) ([]SearchResult, error)
}
