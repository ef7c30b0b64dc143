package workflow

import (
	"context"
	"strings"

	"uniassist/internal/logging"
	"uniassist/internal/perception"
)

// minRewriteLength guards against degenerate rewriter output.
const minRewriteLength = 5

// Rewriter turns a rejected query into a more retrieval-friendly one.
type Rewriter struct {
	llm perception.LLMClient
}

// NewRewriter creates a query rewriter backed by a generative model.
func NewRewriter(llm perception.LLMClient) *Rewriter {
	return &Rewriter{llm: llm}
}

// Rewrite returns a sharpened version of the query. Any failure or
// degenerate output falls back silently to the original query; the
// retry proceeds either way.
func (r *Rewriter) Rewrite(ctx context.Context, query string, current University) string {
	resp, err := r.llm.Complete(ctx, rewriterPrompt(query, current))
	if err != nil {
		logging.WorkflowWarn("Rewriter call failed, keeping original query: %v", err)
		return query
	}

	rewritten := strings.TrimSpace(resp)
	rewritten = strings.ReplaceAll(rewritten, "**", "")
	rewritten = strings.ReplaceAll(rewritten, "*", "")
	rewritten = strings.TrimSpace(rewritten)

	if len(rewritten) < minRewriteLength {
		logging.WorkflowDebug("Rewriter output too short (%q), keeping original", rewritten)
		return query
	}

	logging.Workflow("Rewrote %q -> %q", query, rewritten)
	return rewritten
}
