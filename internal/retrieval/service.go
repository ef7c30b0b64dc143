// Package retrieval answers "give me the K most relevant passages for
// this question from this university's corpus". It sits between the
// workflow responders and the per-university passage stores.
package retrieval

import (
	"context"
	"fmt"
	"strings"

	"uniassist/internal/embedding"
	"uniassist/internal/logging"
	"uniassist/internal/store"
)

// Passage is a retrieved chunk of university documentation.
type Passage struct {
	Content    string
	SourceFile string
	Heading    string
	Score      float64
}

// Retriever fetches relevant passages for a query from one
// university's corpus.
type Retriever interface {
	// Search returns up to k passages for the query. A university with
	// no indexed corpus yields an empty slice, not an error.
	Search(ctx context.Context, universityKey, query string, k int) ([]Passage, error)
}

// Service implements Retriever over per-university passage stores and
// a shared embedding engine.
type Service struct {
	stores map[string]*store.PassageStore
	engine embedding.EmbeddingEngine
	topK   int
}

// NewService creates a retrieval service. The stores map is keyed by
// lowercase university key ("nust", "comsats", "fast"); universities
// without a database file simply have no entry.
func NewService(stores map[string]*store.PassageStore, engine embedding.EmbeddingEngine, topK int) *Service {
	if topK <= 0 {
		topK = 5
	}
	return &Service{stores: stores, engine: engine, topK: topK}
}

// Search embeds the query and runs a similarity search against the
// university's store.
func (s *Service) Search(ctx context.Context, universityKey, query string, k int) ([]Passage, error) {
	timer := logging.StartTimer(logging.CategoryRetrieval, "Search")
	defer timer.Stop()

	if k <= 0 {
		k = s.topK
	}

	st, ok := s.stores[strings.ToLower(universityKey)]
	if !ok || st == nil {
		logging.Retrieval("No index for university %q, returning empty result", universityKey)
		return []Passage{}, nil
	}

	queryVec, err := s.engine.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	scored, err := st.SearchSimilar(queryVec, k)
	if err != nil {
		return nil, fmt.Errorf("similarity search failed for %s: %w", universityKey, err)
	}

	passages := make([]Passage, 0, len(scored))
	for _, sp := range scored {
		passages = append(passages, Passage{
			Content:    sp.Content,
			SourceFile: sp.SourceFile,
			Heading:    sp.Heading,
			Score:      sp.Score,
		})
	}

	logging.RetrievalDebug("Search(%s, k=%d) -> %d passages", universityKey, k, len(passages))
	return passages, nil
}

// FormatContext renders retrieved passages as a numbered context block
// for the responder prompt. Returns a sentinel line when nothing was
// retrieved so the responder can say it has no information.
func FormatContext(passages []Passage) string {
	if len(passages) == 0 {
		return "No relevant documents found."
	}

	var b strings.Builder
	for i, p := range passages {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "[Document %d]\n%s", i+1, p.Content)
	}
	return b.String()
}
