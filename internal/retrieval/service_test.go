package retrieval

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"uniassist/internal/store"
)

// fakeEngine embeds by keyword so tests control similarity ordering.
type fakeEngine struct{}

func (f *fakeEngine) Embed(_ context.Context, text string) ([]float32, error) {
	if strings.Contains(strings.ToLower(text), "fee") {
		return []float32{1, 0}, nil
	}
	return []float32{0, 1}, nil
}

func (f *fakeEngine) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		v, _ := f.Embed(ctx, t)
		out[i] = v
	}
	return out, nil
}

func (f *fakeEngine) Dimensions() int { return 2 }
func (f *fakeEngine) Name() string    { return "fake" }

func newTestService(t *testing.T) *Service {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "nust.db"))
	if err != nil {
		t.Fatalf("store.Open failed: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	passages := []store.Passage{
		{Content: "NUST fee structure for 2024", SourceFile: "nust.md", Heading: "Fees"},
		{Content: "NUST hostel accommodation", SourceFile: "nust.md", Heading: "Hostels"},
	}
	vectors := [][]float32{{1, 0}, {0, 1}}
	if err := st.AddPassages(passages, vectors); err != nil {
		t.Fatalf("AddPassages failed: %v", err)
	}

	return NewService(map[string]*store.PassageStore{"nust": st}, &fakeEngine{}, 5)
}

func TestSearchReturnsRankedPassages(t *testing.T) {
	svc := newTestService(t)

	results, err := svc.Search(context.Background(), "nust", "What is the fee?", 1)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d passages, want 1", len(results))
	}
	if !strings.Contains(results[0].Content, "fee structure") {
		t.Errorf("top passage = %q, want the fee passage", results[0].Content)
	}
	if results[0].Heading != "Fees" {
		t.Errorf("Heading = %q, want Fees", results[0].Heading)
	}
}

func TestSearchUnknownUniversityReturnsEmpty(t *testing.T) {
	svc := newTestService(t)

	results, err := svc.Search(context.Background(), "comsats", "anything", 5)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("got %d passages for unindexed university, want 0", len(results))
	}
}

func TestSearchIsCaseInsensitiveOnKey(t *testing.T) {
	svc := newTestService(t)

	results, err := svc.Search(context.Background(), "NUST", "fees", 5)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) == 0 {
		t.Error("expected passages for upper-case university key")
	}
}

func TestFormatContext(t *testing.T) {
	got := FormatContext(nil)
	if got != "No relevant documents found." {
		t.Errorf("empty context = %q", got)
	}

	got = FormatContext([]Passage{{Content: "alpha"}, {Content: "beta"}})
	if !strings.Contains(got, "[Document 1]\nalpha") || !strings.Contains(got, "[Document 2]\nbeta") {
		t.Errorf("formatted context missing numbered blocks:\n%s", got)
	}
}
