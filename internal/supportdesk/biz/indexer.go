package biz

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kart-io/logger"

	"github.com/kart-io/support-desk/internal/pkg/textutil"
	"github.com/kart-io/support-desk/internal/supportdesk/store"
	apierrors "github.com/kart-io/support-desk/pkg/errors"
	"github.com/kart-io/support-desk/pkg/llm"
)

// IndexerConfig configures the knowledge base indexer.
type IndexerConfig struct {
	DataDir      string
	ChunkSize    int
	ChunkOverlap int
	// EmbedBatchSize bounds how many chunks go to the embedding API per call.
	EmbedBatchSize int
}

// maxChunkLen keeps chunks inside the Milvus varchar field limit.
const maxChunkLen = 65000

// Indexer rebuilds the Milvus knowledge base from plain-text documents.
type Indexer struct {
	vectors  store.VectorStore
	embedder llm.EmbeddingProvider
	config   *IndexerConfig
}

// NewIndexer creates a knowledge base indexer.
func NewIndexer(vectors store.VectorStore, embedder llm.EmbeddingProvider, config *IndexerConfig) *Indexer {
	if config.ChunkSize <= 0 {
		config.ChunkSize = 600
	}
	if config.EmbedBatchSize <= 0 {
		config.EmbedBatchSize = 32
	}
	return &Indexer{
		vectors:  vectors,
		embedder: embedder,
		config:   config,
	}
}

// Reindex drops the collection and rebuilds it from the data directory.
// It returns the number of chunks inserted.
func (i *Indexer) Reindex(ctx context.Context) (int, error) {
	logger.Infow("Rebuilding knowledge base index", "data_dir", i.config.DataDir)

	texts, err := i.collectChunks()
	if err != nil {
		return 0, err
	}
	if len(texts) == 0 {
		return 0, apierrors.ErrDeskIndexFailed.WithMessagef("no indexable documents under %s", i.config.DataDir)
	}

	// Rebuild from scratch so removed documents disappear from retrieval.
	if err := i.vectors.Reset(ctx); err != nil {
		logger.Errorw("Failed to drop collection", "error", err)
		return 0, apierrors.ErrUpstreamVectorStore.WithCause(err)
	}
	if err := i.vectors.EnsureCollection(ctx); err != nil {
		logger.Errorw("Failed to create collection", "error", err)
		return 0, apierrors.ErrUpstreamVectorStore.WithCause(err)
	}

	total := 0
	for start := 0; start < len(texts); start += i.config.EmbedBatchSize {
		end := start + i.config.EmbedBatchSize
		if end > len(texts) {
			end = len(texts)
		}
		batch := texts[start:end]

		embeddings, err := i.embedder.Embed(ctx, batch)
		if err != nil {
			logger.Errorw("Failed to embed chunk batch", "batch_start", start, "error", err)
			return total, apierrors.ErrUpstreamLLM.WithCause(err)
		}

		chunks := make([]*store.DocChunk, len(batch))
		for idx, text := range batch {
			chunks[idx] = &store.DocChunk{Content: text, Embedding: embeddings[idx]}
		}

		inserted, err := i.vectors.Insert(ctx, chunks)
		if err != nil {
			logger.Errorw("Failed to insert chunk batch", "batch_start", start, "error", err)
			return total, apierrors.ErrUpstreamVectorStore.WithCause(err)
		}
		total += inserted
	}

	logger.Infow("Knowledge base index rebuilt", "chunks", total)
	return total, nil
}

// collectChunks reads every document in the data dir and splits it into
// embedding-sized chunks.
func (i *Indexer) collectChunks() ([]string, error) {
	files, err := findDocumentFiles(i.config.DataDir)
	if err != nil {
		return nil, apierrors.ErrDeskIndexFailed.WithCause(err)
	}

	var texts []string
	for _, file := range files {
		content, err := os.ReadFile(file)
		if err != nil {
			logger.Warnw("Skipping unreadable document", "file", file, "error", err)
			continue
		}

		cleaned := textutil.StripNonASCII(string(content))
		for _, chunk := range textutil.SplitIntoChunks(cleaned, i.config.ChunkSize, i.config.ChunkOverlap) {
			chunk = strings.TrimSpace(chunk)
			if chunk == "" {
				continue
			}
			texts = append(texts, textutil.TruncateString(chunk, maxChunkLen))
		}
	}
	return texts, nil
}

func findDocumentFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".txt", ".md":
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan data directory: %w", err)
	}
	return files, nil
}
