package store

import (
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *PassageStore {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestAddAndCount(t *testing.T) {
	s := openTestStore(t)

	err := s.AddPassage(Passage{Content: "NUST admission criteria", SourceFile: "nust.md", Heading: "Admissions"}, []float32{1, 0, 0})
	if err != nil {
		t.Fatalf("AddPassage failed: %v", err)
	}

	n, err := s.Count()
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if n != 1 {
		t.Errorf("Count = %d, want 1", n)
	}
}

func TestSearchSimilarRanksByCosine(t *testing.T) {
	s := openTestStore(t)

	passages := []Passage{
		{Content: "fee structure", SourceFile: "a.md"},
		{Content: "admission dates", SourceFile: "b.md"},
		{Content: "hostel rules", SourceFile: "c.md"},
	}
	vectors := [][]float32{
		{1, 0, 0},
		{0, 1, 0},
		{0.9, 0.1, 0},
	}
	if err := s.AddPassages(passages, vectors); err != nil {
		t.Fatalf("AddPassages failed: %v", err)
	}

	results, err := s.SearchSimilar([]float32{1, 0, 0}, 2)
	if err != nil {
		t.Fatalf("SearchSimilar failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if results[0].Content != "fee structure" {
		t.Errorf("top result = %q, want %q", results[0].Content, "fee structure")
	}
	if results[1].Content != "hostel rules" {
		t.Errorf("second result = %q, want %q", results[1].Content, "hostel rules")
	}
	if results[0].Score < results[1].Score {
		t.Errorf("results not sorted by score: %f < %f", results[0].Score, results[1].Score)
	}
}

func TestSearchSimilarEmptyStore(t *testing.T) {
	s := openTestStore(t)

	results, err := s.SearchSimilar([]float32{1, 0, 0}, 5)
	if err != nil {
		t.Fatalf("SearchSimilar failed: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("got %d results from empty store, want 0", len(results))
	}
}

func TestAddPassagesLengthMismatch(t *testing.T) {
	s := openTestStore(t)

	err := s.AddPassages([]Passage{{Content: "x"}}, nil)
	if err == nil {
		t.Error("expected error on passage/vector count mismatch")
	}
}

func TestClear(t *testing.T) {
	s := openTestStore(t)

	if err := s.AddPassage(Passage{Content: "x"}, []float32{1}); err != nil {
		t.Fatalf("AddPassage failed: %v", err)
	}
	if err := s.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	n, _ := s.Count()
	if n != 0 {
		t.Errorf("Count after Clear = %d, want 0", n)
	}
}
