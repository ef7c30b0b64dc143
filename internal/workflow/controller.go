package workflow

import (
	"context"

	"uniassist/internal/logging"
	"uniassist/internal/perception"
	"uniassist/internal/retrieval"
)

// DefaultMaxCycles bounds the route/respond/check loop. Without a cap
// a gate that never accepts would loop forever.
const DefaultMaxCycles = 3

// DefaultContext is the institution context a fresh session starts
// with.
const DefaultContext = UniversityCOMSATS

// Controller runs the query resolution loop.
type Controller struct {
	router     *Router
	rewriter   *Rewriter
	gate       *Gate
	responders map[University]responder
	general    responder
	maxCycles  int
}

// NewController wires the loop stages over shared generation and
// retrieval services.
func NewController(llm perception.LLMClient, retriever retrieval.Retriever, maxCycles int) *Controller {
	if maxCycles <= 0 {
		maxCycles = DefaultMaxCycles
	}

	responders := make(map[University]responder)
	for _, u := range []University{UniversityNUST, UniversityCOMSATS, UniversityFAST} {
		responders[u] = &universityResponder{university: u, retriever: retriever, llm: llm}
	}

	return &Controller{
		router:     NewRouter(llm),
		rewriter:   NewRewriter(llm),
		gate:       NewGate(llm),
		responders: responders,
		general:    &generalResponder{llm: llm},
		maxCycles:  maxCycles,
	}
}

// AnswerQuery resolves one user query. It routes, answers, checks, and
// retries with a rewritten query until the gate accepts or the cycle
// cap is hit, then returns the final answer, the final institution
// context, and the history extended with one turn per cycle.
//
// The inputs are never mutated; history is copied before appending. On
// a generation error the error is returned and the caller's session
// state stays exactly as it was.
func (c *Controller) AnswerQuery(ctx context.Context, query string, history []Turn, current University) (Result, error) {
	timer := logging.StartTimer(logging.CategoryWorkflow, "AnswerQuery")
	defer timer.Stop()

	if current == "" {
		current = DefaultContext
	}

	s := &state{
		originalQuery: query,
		currentQuery:  query,
		university:    current,
		history:       append([]Turn(nil), history...),
	}

	accepted := false
	for s.cycles < c.maxCycles {
		s.cycles++
		q := s.activeQuery()

		decision := c.router.Route(ctx, q, s.university)
		s.university = decision.University
		s.rawLabel = decision.RawLabel

		resp := c.general
		if r, ok := c.responders[decision.University]; ok {
			resp = r
		}

		answer, err := resp.Respond(ctx, q, s.university)
		if err != nil {
			logging.Get(logging.CategoryWorkflow).Error("Responder failed on cycle %d: %v", s.cycles, err)
			return Result{}, err
		}
		s.answer = answer

		// Every attempt is recorded, tagged with this cycle's routing
		// and the user's original question.
		s.history = append(s.history, Turn{
			University: s.university,
			Question:   s.originalQuery,
			Answer:     answer,
		})

		if c.gate.Check(ctx, q, answer) {
			accepted = true
			break
		}

		// The rewriter always starts from the user's original
		// question, not from its own previous rewrite.
		if s.cycles < c.maxCycles {
			s.rewrittenQuery = c.rewriter.Rewrite(ctx, s.originalQuery, s.university)
		}
	}

	logging.Workflow("AnswerQuery done: university=%s accepted=%v cycles=%d", s.university, accepted, s.cycles)

	return Result{
		Answer:     s.answer,
		University: s.university,
		RawLabel:   s.rawLabel,
		Accepted:   accepted,
		Cycles:     s.cycles,
		History:    s.history,
	}, nil
}
