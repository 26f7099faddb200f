package store

import (
	"context"
	"fmt"

	"github.com/milvus-io/milvus/client/v2/entity"

	"github.com/kart-io/support-desk/pkg/component/milvus"
)

// DocChunk is a document chunk with its embedding, ready for indexing.
type DocChunk struct {
	Content   string
	Embedding []float32
}

// RetrievedChunk is a chunk returned by similarity search.
type RetrievedChunk struct {
	Content string
	Score   float32
}

// VectorStore defines the knowledge base vector storage.
type VectorStore interface {
	// EnsureCollection creates the collection if it does not exist.
	EnsureCollection(ctx context.Context) error
	// Reset drops the collection so it can be rebuilt from scratch.
	Reset(ctx context.Context) error
	Insert(ctx context.Context, chunks []*DocChunk) (int, error)
	Search(ctx context.Context, embedding []float32, topK int) ([]*RetrievedChunk, error)
}

// contentMaxLen bounds the varchar content field in Milvus.
const contentMaxLen = 65535

// MilvusVectorStore implements VectorStore backed by Milvus.
type MilvusVectorStore struct {
	client     *milvus.Client
	collection string
	dimension  int
}

// NewMilvusVectorStore creates a Milvus-backed vector store.
func NewMilvusVectorStore(client *milvus.Client, collection string, dimension int) *MilvusVectorStore {
	return &MilvusVectorStore{
		client:     client,
		collection: collection,
		dimension:  dimension,
	}
}

// EnsureCollection creates the collection if it does not exist.
func (s *MilvusVectorStore) EnsureCollection(ctx context.Context) error {
	schema := &milvus.CollectionSchema{
		Name:        s.collection,
		Description: "Vectorized knowledge base documents",
		Dimension:   s.dimension,
		MetaFields: []milvus.MetaField{
			{Name: "content", DataType: entity.FieldTypeVarChar, MaxLen: contentMaxLen},
		},
	}
	return s.client.CreateCollection(ctx, schema)
}

// Reset drops the collection so a fresh index can be built.
func (s *MilvusVectorStore) Reset(ctx context.Context) error {
	return s.client.DropCollection(ctx, s.collection)
}

// Insert inserts document chunks and returns the number stored.
func (s *MilvusVectorStore) Insert(ctx context.Context, chunks []*DocChunk) (int, error) {
	if len(chunks) == 0 {
		return 0, nil
	}

	embeddings := make([][]float32, len(chunks))
	contents := make([]any, len(chunks))
	for i, chunk := range chunks {
		embeddings[i] = chunk.Embedding
		contents[i] = chunk.Content
	}

	data := &milvus.InsertData{
		Embeddings: embeddings,
		Metadata:   map[string][]any{"content": contents},
	}

	ids, err := s.client.Insert(ctx, s.collection, data)
	if err != nil {
		return 0, fmt.Errorf("failed to insert into milvus: %w", err)
	}
	return len(ids), nil
}

// Search performs similarity search and returns the matching chunks.
func (s *MilvusVectorStore) Search(ctx context.Context, embedding []float32, topK int) ([]*RetrievedChunk, error) {
	results, err := s.client.Search(ctx, s.collection, embedding, topK, []string{"content"})
	if err != nil {
		return nil, fmt.Errorf("failed to search milvus: %w", err)
	}

	chunks := make([]*RetrievedChunk, 0, len(results))
	for _, r := range results {
		content, _ := r.Metadata["content"].(string)
		chunks = append(chunks, &RetrievedChunk{
			Content: content,
			Score:   r.Score,
		})
	}
	return chunks, nil
}
