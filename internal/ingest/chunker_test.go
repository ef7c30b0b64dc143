package ingest

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"uniassist/internal/store"
)

func TestChunkDocumentShortText(t *testing.T) {
	chunks := ChunkDocument("Just one small paragraph.", "a.md", DefaultChunkerOptions())
	if len(chunks) != 1 {
		t.Fatalf("got %d chunks, want 1", len(chunks))
	}
	if chunks[0].Content != "Just one small paragraph." {
		t.Errorf("Content = %q", chunks[0].Content)
	}
	if chunks[0].SourceFile != "a.md" {
		t.Errorf("SourceFile = %q", chunks[0].SourceFile)
	}
}

func TestChunkDocumentHeadings(t *testing.T) {
	doc := "intro text\n\n# Admissions\nhow to apply\n\n## Fees\nfee details\n"
	chunks := ChunkDocument(doc, "nust.md", DefaultChunkerOptions())
	if len(chunks) != 3 {
		t.Fatalf("got %d chunks, want 3", len(chunks))
	}
	if chunks[0].Heading != "" {
		t.Errorf("preamble heading = %q, want empty", chunks[0].Heading)
	}
	if chunks[1].Heading != "Admissions" {
		t.Errorf("heading = %q, want Admissions", chunks[1].Heading)
	}
	if chunks[2].Heading != "Fees" {
		t.Errorf("heading = %q, want Fees", chunks[2].Heading)
	}
}

func TestChunkDocumentOverlap(t *testing.T) {
	text := strings.Repeat("a", 90) + strings.Repeat("b", 90)
	chunks := ChunkDocument(text, "x.txt", ChunkerOptions{ChunkSize: 100, ChunkOverlap: 20})
	if len(chunks) < 2 {
		t.Fatalf("got %d chunks, want at least 2", len(chunks))
	}
	first := []rune(chunks[0].Content)
	tail := string(first[len(first)-20:])
	if !strings.HasPrefix(chunks[1].Content, tail) {
		t.Errorf("second chunk does not start with the overlap of the first")
	}
}

func TestChunkDocumentEmptyInput(t *testing.T) {
	if got := ChunkDocument("  \n\n  ", "e.md", DefaultChunkerOptions()); len(got) != 0 {
		t.Errorf("got %d chunks from blank input, want 0", len(got))
	}
}

// seqEngine returns a distinct vector per call so ordering is testable.
type seqEngine struct{}

func (s *seqEngine) Embed(_ context.Context, text string) ([]float32, error) {
	return []float32{float32(len(text)), 1}, nil
}

func (s *seqEngine) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i], _ = s.Embed(ctx, t)
	}
	return out, nil
}

func (s *seqEngine) Dimensions() int { return 2 }
func (s *seqEngine) Name() string    { return "seq" }

func TestPipelineIngestsChunks(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "fast.db"))
	if err != nil {
		t.Fatalf("store.Open failed: %v", err)
	}
	defer st.Close()

	p := NewPipeline(&seqEngine{}, 2, DefaultChunkerOptions())
	chunks := []Chunk{
		{Content: "alpha", SourceFile: "f.md"},
		{Content: "beta", SourceFile: "f.md"},
		{Content: "gamma", SourceFile: "f.md"},
	}
	n, err := p.ingestChunks(context.Background(), st, chunks)
	if err != nil {
		t.Fatalf("ingestChunks failed: %v", err)
	}
	if n != 3 {
		t.Errorf("stored %d passages, want 3", n)
	}

	count, err := st.Count()
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 3 {
		t.Errorf("store Count = %d, want 3", count)
	}
}
