package pgvector

import (
	"context"
	"time"

	"github.com/google/uuid"
	pgv "github.com/pgvector/pgvector-go"
	"gorm.io/gorm"

	"website-chatbot-be/pkg/vectorstore"
)

// ChunkEmbedding is the persisted row for one indexed chunk.
type ChunkEmbedding struct {
	Id             uuid.UUID `gorm:"type:uuid;primaryKey"`
	Source         string    `gorm:"index"`
	Document       string
	ChunkIndex     int
	EmbeddingValue pgv.Vector `gorm:"type:vector(768)"`
	CreatedAt      time.Time
}

func (ChunkEmbedding) TableName() string { return "chunk_embeddings" }

// Store is a Postgres+pgvector backed vector index.
type Store struct {
	db *gorm.DB
}

var _ vectorstore.Index = &Store{}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Migrate creates the pgvector extension and the chunk_embeddings table.
func (s *Store) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).Exec("CREATE EXTENSION IF NOT EXISTS vector").Error; err != nil {
		return err
	}
	return s.db.WithContext(ctx).AutoMigrate(&ChunkEmbedding{})
}

func (s *Store) Upsert(ctx context.Context, chunks []vectorstore.Chunk, vectors [][]float32) error {
	if len(chunks) == 0 {
		return nil
	}
	rows := make([]*ChunkEmbedding, len(chunks))
	now := time.Now()
	for i, c := range chunks {
		rows[i] = &ChunkEmbedding{
			Id:             uuid.New(),
			Source:         c.Source,
			Document:       c.Text,
			ChunkIndex:     c.Index,
			EmbeddingValue: pgv.NewVector(vectors[i]),
			CreatedAt:      now,
		}
	}
	return s.db.WithContext(ctx).Create(rows).Error
}

// DeleteBySource removes all chunks of one source document, so a rebuild
// can replace them without duplicating.
func (s *Store) DeleteBySource(ctx context.Context, source string) error {
	return s.db.WithContext(ctx).Where("source = ?", source).Delete(&ChunkEmbedding{}).Error
}

func (s *Store) Search(ctx context.Context, vector []float32, k int) ([]vectorstore.SearchResult, error) {
	if k <= 0 {
		k = 5
	}

	// pgvector's <=> operator is cosine distance; similarity = 1 - distance.
	type scoredRow struct {
		ChunkEmbedding
		Similarity float64
	}
	var rows []scoredRow

	queryVector := pgv.NewVector(vector)

	err := s.db.WithContext(ctx).
		Table("chunk_embeddings").
		Select("chunk_embeddings.*, 1 - (embedding_value <=> ?) as similarity", queryVector).
		Order("similarity DESC").
		Limit(k).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	results := make([]vectorstore.SearchResult, len(rows))
	for i, r := range rows {
		results[i] = vectorstore.SearchResult{
			Chunk: vectorstore.Chunk{
				ID:     r.Id.String(),
				Source: r.Source,
				Text:   r.Document,
				Index:  r.ChunkIndex,
			},
			Similarity: r.Similarity,
		}
	}
	return results, nil
}
