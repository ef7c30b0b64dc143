package workflow

import (
	"context"
	"strings"

	"uniassist/internal/logging"
	"uniassist/internal/perception"
)

// Router classifies a query's institution intent.
type Router struct {
	llm perception.LLMClient
}

// NewRouter creates an intent router backed by a generative model.
func NewRouter(llm perception.LLMClient) *Router {
	return &Router{llm: llm}
}

// Route decides which university context a query belongs to. The
// current context is the continuation default. A classifier error is
// recovered locally: keep the current context if it names a known
// institution, otherwise fall back to GENERAL.
func (r *Router) Route(ctx context.Context, query string, current University) RouteDecision {
	resp, err := r.llm.Complete(ctx, routerPrompt(query, current))
	if err != nil {
		logging.RoutingWarn("Router call failed, falling back: %v", err)
		if current.Known() {
			return RouteDecision{University: current, RawLabel: string(current)}
		}
		return RouteDecision{University: UniversityGeneral, RawLabel: string(UniversityGeneral)}
	}

	label := strings.ToUpper(strings.TrimSpace(resp))
	decision := RouteDecision{University: ParseUniversity(label), RawLabel: label}

	logging.Routing("Routed %q -> %s (raw=%q)", query, decision.University, decision.RawLabel)
	return decision
}
