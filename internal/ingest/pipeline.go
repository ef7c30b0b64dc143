package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"uniassist/internal/embedding"
	"uniassist/internal/logging"
	"uniassist/internal/store"
)

// Pipeline embeds document chunks and writes them to a university's
// passage store.
type Pipeline struct {
	engine    embedding.EmbeddingEngine
	batchSize int
	opts      ChunkerOptions
}

// NewPipeline creates an ingestion pipeline.
func NewPipeline(engine embedding.EmbeddingEngine, batchSize int, opts ChunkerOptions) *Pipeline {
	if batchSize <= 0 {
		batchSize = 32
	}
	return &Pipeline{engine: engine, batchSize: batchSize, opts: opts}
}

// IngestFile chunks one document and stores its embedded passages.
// Returns the number of passages stored.
func (p *Pipeline) IngestFile(ctx context.Context, st *store.PassageStore, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to read %s: %w", path, err)
	}

	chunks := ChunkDocument(string(data), filepath.Base(path), p.opts)
	if len(chunks) == 0 {
		logging.Ingest("No text chunks in %s, skipping", path)
		return 0, nil
	}

	return p.ingestChunks(ctx, st, chunks)
}

// IngestDir ingests every markdown and text file in a directory tree.
func (p *Pipeline) IngestDir(ctx context.Context, st *store.PassageStore, dir string) (int, error) {
	timer := logging.StartTimer(logging.CategoryIngest, "IngestDir")
	defer timer.Stop()

	total := 0
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if ext != ".md" && ext != ".txt" {
			return nil
		}
		n, err := p.IngestFile(ctx, st, path)
		if err != nil {
			return err
		}
		total += n
		return nil
	})
	if err != nil {
		return total, err
	}

	logging.Ingest("Ingested %d passages from %s", total, dir)
	return total, nil
}

// ingestChunks embeds chunks batch by batch, batches in parallel, and
// stores the results. Vector order matches chunk order.
func (p *Pipeline) ingestChunks(ctx context.Context, st *store.PassageStore, chunks []Chunk) (int, error) {
	vectors := make([][]float32, len(chunks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	var mu sync.Mutex

	for start := 0; start < len(chunks); start += p.batchSize {
		end := start + p.batchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batch := chunks[start:end]
		offset := start

		g.Go(func() error {
			texts := make([]string, len(batch))
			for i, c := range batch {
				texts[i] = c.Content
			}
			vecs, err := p.engine.EmbedBatch(gctx, texts)
			if err != nil {
				return fmt.Errorf("embedding batch at %d failed: %w", offset, err)
			}
			if len(vecs) != len(batch) {
				return fmt.Errorf("embedding batch at %d returned %d vectors for %d chunks", offset, len(vecs), len(batch))
			}
			mu.Lock()
			copy(vectors[offset:], vecs)
			mu.Unlock()
			logging.IngestDebug("Embedded batch %d..%d", offset, offset+len(batch))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return 0, err
	}

	passages := make([]store.Passage, len(chunks))
	for i, c := range chunks {
		passages[i] = store.Passage{Content: c.Content, SourceFile: c.SourceFile, Heading: c.Heading}
	}
	if err := st.AddPassages(passages, vectors); err != nil {
		return 0, err
	}

	return len(passages), nil
}
