package workflow

import (
	"context"
	"strings"

	"uniassist/internal/logging"
	"uniassist/internal/perception"
)

// Gate judges whether an answer is good enough to return.
type Gate struct {
	llm perception.LLMClient
}

// NewGate creates a quality gate backed by a generative model.
func NewGate(llm perception.LLMClient) *Gate {
	return &Gate{llm: llm}
}

// Check accepts the answer when the classifier responds affirmatively.
// The classifier is prompted leniently; minimally relevant answers
// pass. A classifier error rejects, which is safe because the cycle
// cap bounds the retries it can trigger.
func (g *Gate) Check(ctx context.Context, query, answer string) bool {
	resp, err := g.llm.Complete(ctx, gatePrompt(query, answer))
	if err != nil {
		logging.WorkflowWarn("Quality check call failed, rejecting answer: %v", err)
		return false
	}

	accepted := strings.Contains(strings.ToUpper(resp), "YES")
	logging.Workflow("Quality check: accepted=%v (raw=%q)", accepted, strings.TrimSpace(resp))
	return accepted
}
