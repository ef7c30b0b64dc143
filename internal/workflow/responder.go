package workflow

import (
	"context"
	"fmt"
	"strings"

	"uniassist/internal/logging"
	"uniassist/internal/perception"
	"uniassist/internal/retrieval"
)

// retrievalTopK is how many passages a university responder fetches.
const retrievalTopK = 5

// responder produces an answer for one cycle's query. Implementations
// return generation errors unrecovered; the controller's caller
// decides how to surface them.
type responder interface {
	Respond(ctx context.Context, query string, current University) (string, error)
}

// universityResponder answers from one institution's corpus.
type universityResponder struct {
	university University
	retriever  retrieval.Retriever
	llm        perception.LLMClient
}

func (r *universityResponder) Respond(ctx context.Context, query string, _ University) (string, error) {
	passages, err := r.retriever.Search(ctx, r.university.Key(), query, retrievalTopK)
	if err != nil {
		return "", fmt.Errorf("retrieval for %s failed: %w", r.university, err)
	}
	logging.WorkflowDebug("%s responder retrieved %d passages", r.university, len(passages))

	answer, err := r.llm.CompleteWithSystem(ctx, responderSystemPrompt(r.university), responderUserPrompt(passages, query))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(answer), nil
}

// generalResponder answers from model knowledge with no retrieval.
type generalResponder struct {
	llm perception.LLMClient
}

func (r *generalResponder) Respond(ctx context.Context, query string, current University) (string, error) {
	answer, err := r.llm.Complete(ctx, generalPrompt(query, current))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(answer), nil
}
