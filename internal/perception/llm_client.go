// Package perception provides the generation-service client used by the
// query-resolution workflow. The workflow never talks to a provider API
// directly; it goes through the LLMClient interface so tests can inject
// scripted fakes.
package perception

import "context"

// LLMClient defines the minimal interface workflow components use to
// call a language model.
type LLMClient interface {
	Complete(ctx context.Context, prompt string) (string, error)
	CompleteWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}
