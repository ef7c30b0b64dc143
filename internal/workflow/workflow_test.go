package workflow

import (
	"context"
	"errors"
	"strings"
	"testing"

	"uniassist/internal/retrieval"
)

// scriptedLLM answers prompts by matching on which stage built them.
// Each stage's prompt has a distinctive header line.
type scriptedLLM struct {
	routeReply   string
	routeErr     error
	answerReply  string
	answerErr    error
	gateReplies  []string
	gateErr      error
	rewriteReply string
	rewriteErr   error

	gateCalls      int
	rewriteCalls   int
	answerCalls    int
	routeCalls     int
	rewritePrompts []string
}

func (s *scriptedLLM) Complete(ctx context.Context, prompt string) (string, error) {
	switch {
	case strings.HasPrefix(prompt, "You are a routing agent"):
		s.routeCalls++
		return s.routeReply, s.routeErr
	case strings.HasPrefix(prompt, "You are a quality evaluator"):
		s.gateCalls++
		if s.gateErr != nil {
			return "", s.gateErr
		}
		reply := "YES"
		if len(s.gateReplies) > 0 {
			reply = s.gateReplies[0]
			if len(s.gateReplies) > 1 {
				s.gateReplies = s.gateReplies[1:]
			}
		}
		return reply, nil
	case strings.HasPrefix(prompt, "You are a query optimization expert"):
		s.rewriteCalls++
		s.rewritePrompts = append(s.rewritePrompts, prompt)
		return s.rewriteReply, s.rewriteErr
	default:
		s.answerCalls++
		return s.answerReply, s.answerErr
	}
}

func (s *scriptedLLM) CompleteWithSystem(ctx context.Context, system, user string) (string, error) {
	s.answerCalls++
	return s.answerReply, s.answerErr
}

// recordingRetriever returns fixed passages and records calls.
type recordingRetriever struct {
	passages []retrieval.Passage
	calls    []string
}

func (r *recordingRetriever) Search(_ context.Context, key, query string, k int) ([]retrieval.Passage, error) {
	r.calls = append(r.calls, key)
	return r.passages, nil
}

func TestParseUniversity(t *testing.T) {
	cases := []struct {
		label string
		want  University
	}{
		{"NUST", UniversityNUST},
		{"nust", UniversityNUST},
		{"The user is asking about FAST.", UniversityFAST},
		{"COMSATS", UniversityCOMSATS},
		{"GENERAL", UniversityGeneral},
		{"BAHRIA", UniversityGeneral},
		{"", UniversityGeneral},
	}
	for _, tc := range cases {
		if got := ParseUniversity(tc.label); got != tc.want {
			t.Errorf("ParseUniversity(%q) = %v, want %v", tc.label, got, tc.want)
		}
	}
}

func TestRouterExplicitMention(t *testing.T) {
	llm := &scriptedLLM{routeReply: "NUST"}
	r := NewRouter(llm)

	d := r.Route(context.Background(), "What are NUST admission requirements?", UniversityCOMSATS)
	if d.University != UniversityNUST {
		t.Errorf("routed to %v, want NUST", d.University)
	}
}

func TestRouterUnknownLabelPreservedButGeneral(t *testing.T) {
	llm := &scriptedLLM{routeReply: "BAHRIA"}
	r := NewRouter(llm)

	d := r.Route(context.Background(), "tell me about bahria university", UniversityCOMSATS)
	if d.University != UniversityGeneral {
		t.Errorf("routed to %v, want GENERAL", d.University)
	}
	if d.RawLabel != "BAHRIA" {
		t.Errorf("RawLabel = %q, want BAHRIA", d.RawLabel)
	}
}

func TestRouterErrorFallsBackToCurrentContext(t *testing.T) {
	llm := &scriptedLLM{routeErr: errors.New("quota")}
	r := NewRouter(llm)

	d := r.Route(context.Background(), "what about fees?", UniversityFAST)
	if d.University != UniversityFAST {
		t.Errorf("routed to %v, want current context FAST", d.University)
	}

	d = r.Route(context.Background(), "what about fees?", UniversityGeneral)
	if d.University != UniversityGeneral {
		t.Errorf("routed to %v, want GENERAL when context is not a known institution", d.University)
	}
}

func TestRewriterStripsAsterisksAndFallsBack(t *testing.T) {
	llm := &scriptedLLM{rewriteReply: "**What are the NUST hostel fees?**"}
	rw := NewRewriter(llm)

	got := rw.Rewrite(context.Background(), "fees?", UniversityNUST)
	if got != "What are the NUST hostel fees?" {
		t.Errorf("Rewrite = %q", got)
	}

	llm.rewriteReply = "ok"
	if got := rw.Rewrite(context.Background(), "original question", UniversityNUST); got != "original question" {
		t.Errorf("short rewrite not rejected, got %q", got)
	}

	llm.rewriteErr = errors.New("boom")
	if got := rw.Rewrite(context.Background(), "original question", UniversityNUST); got != "original question" {
		t.Errorf("error fallback broken, got %q", got)
	}
}

func TestGateLenientParsing(t *testing.T) {
	llm := &scriptedLLM{gateReplies: []string{"YES, mostly relevant."}}
	g := NewGate(llm)
	if !g.Check(context.Background(), "q", "a") {
		t.Error("affirmative response should accept")
	}

	llm = &scriptedLLM{gateReplies: []string{"NO"}}
	g = NewGate(llm)
	if g.Check(context.Background(), "q", "a") {
		t.Error("negative response should reject")
	}

	llm = &scriptedLLM{gateErr: errors.New("quota")}
	g = NewGate(llm)
	if g.Check(context.Background(), "q", "a") {
		t.Error("classifier error should reject")
	}
}

func TestAnswerQueryAcceptedFirstCycle(t *testing.T) {
	llm := &scriptedLLM{
		routeReply:  "NUST",
		answerReply: "NUST admissions open in June.",
		gateReplies: []string{"YES"},
	}
	ret := &recordingRetriever{}
	c := NewController(llm, ret, DefaultMaxCycles)

	res, err := c.AnswerQuery(context.Background(), "When do NUST admissions open?", nil, DefaultContext)
	if err != nil {
		t.Fatalf("AnswerQuery failed: %v", err)
	}
	if !res.Accepted || res.Cycles != 1 {
		t.Errorf("Accepted=%v Cycles=%d, want accepted on cycle 1", res.Accepted, res.Cycles)
	}
	if res.University != UniversityNUST {
		t.Errorf("University = %v, want NUST", res.University)
	}
	if len(res.History) != 1 {
		t.Fatalf("history has %d turns, want 1", len(res.History))
	}
	if res.History[0].Question != "When do NUST admissions open?" {
		t.Errorf("history question = %q, want the original query", res.History[0].Question)
	}
	if len(ret.calls) != 1 || ret.calls[0] != "nust" {
		t.Errorf("retriever calls = %v, want one search against nust", ret.calls)
	}
}

func TestAnswerQueryCycleCap(t *testing.T) {
	llm := &scriptedLLM{
		routeReply:   "COMSATS",
		answerReply:  "Some answer.",
		gateReplies:  []string{"NO"},
		rewriteReply: "A longer rewritten question about COMSATS fees",
	}
	c := NewController(llm, &recordingRetriever{}, 3)

	res, err := c.AnswerQuery(context.Background(), "fees?", nil, DefaultContext)
	if err != nil {
		t.Fatalf("AnswerQuery failed: %v", err)
	}
	if res.Accepted {
		t.Error("gate always rejects, result should not be accepted")
	}
	if res.Cycles != 3 {
		t.Errorf("Cycles = %d, want cap of 3", res.Cycles)
	}
	if len(res.History) != 3 {
		t.Errorf("history has %d turns, want one per cycle", len(res.History))
	}
	for _, turn := range res.History {
		if turn.Question != "fees?" {
			t.Errorf("history records %q, want the original question on every attempt", turn.Question)
		}
	}
	// No rewrite after the final rejected cycle.
	if llm.rewriteCalls != 2 {
		t.Errorf("rewriter called %d times, want 2", llm.rewriteCalls)
	}
	if res.Answer != "Some answer." {
		t.Errorf("Answer = %q, want the last attempt", res.Answer)
	}
}

func TestAnswerQueryRewritesOriginalQuestionEveryTime(t *testing.T) {
	llm := &scriptedLLM{
		routeReply:   "NUST",
		answerReply:  "attempt",
		gateReplies:  []string{"NO"},
		rewriteReply: "A first rewrite about NUST fee structure",
	}
	c := NewController(llm, &recordingRetriever{}, 3)

	_, err := c.AnswerQuery(context.Background(), "fees?", nil, UniversityNUST)
	if err != nil {
		t.Fatalf("AnswerQuery failed: %v", err)
	}
	if len(llm.rewritePrompts) != 2 {
		t.Fatalf("rewriter called %d times, want 2", len(llm.rewritePrompts))
	}
	for i, prompt := range llm.rewritePrompts {
		if !strings.Contains(prompt, "Original question: fees?") {
			t.Errorf("rewrite %d not based on the user's question:\n%s", i+1, prompt)
		}
		if strings.Contains(prompt, "A first rewrite") {
			t.Errorf("rewrite %d fed a previous rewrite back into the rewriter:\n%s", i+1, prompt)
		}
	}
}

func TestAnswerQueryRewrittenQueryUsedOnce(t *testing.T) {
	llm := &scriptedLLM{
		routeReply:   "NUST",
		answerReply:  "attempt",
		gateReplies:  []string{"NO", "YES"},
		rewriteReply: "What is the NUST undergraduate fee structure?",
	}
	c := NewController(llm, &recordingRetriever{}, 3)

	res, err := c.AnswerQuery(context.Background(), "fees?", nil, UniversityNUST)
	if err != nil {
		t.Fatalf("AnswerQuery failed: %v", err)
	}
	if !res.Accepted || res.Cycles != 2 {
		t.Errorf("Accepted=%v Cycles=%d, want acceptance on cycle 2", res.Accepted, res.Cycles)
	}
}

func TestAnswerQueryGenerationErrorLeavesInputsUntouched(t *testing.T) {
	llm := &scriptedLLM{
		routeReply: "FAST",
		answerErr:  errors.New("transport failure"),
	}
	c := NewController(llm, &recordingRetriever{}, 3)

	prior := []Turn{{University: UniversityFAST, Question: "q0", Answer: "a0"}}
	_, err := c.AnswerQuery(context.Background(), "q1", prior, UniversityFAST)
	if err == nil {
		t.Fatal("expected generation error to propagate")
	}
	if len(prior) != 1 || prior[0].Answer != "a0" {
		t.Errorf("caller's history mutated: %+v", prior)
	}
}

func TestAnswerQueryMultiUniversityGoesGeneral(t *testing.T) {
	llm := &scriptedLLM{
		routeReply:  "GENERAL",
		answerReply: "Here is a comparison of the three universities.",
		gateReplies: []string{"YES"},
	}
	ret := &recordingRetriever{}
	c := NewController(llm, ret, DefaultMaxCycles)

	res, err := c.AnswerQuery(context.Background(), "Compare engineering programs at comsats, fast and NUST", nil, DefaultContext)
	if err != nil {
		t.Fatalf("AnswerQuery failed: %v", err)
	}
	if res.University != UniversityGeneral {
		t.Errorf("University = %v, want GENERAL", res.University)
	}
	if len(ret.calls) != 0 {
		t.Errorf("general responder made retrieval calls: %v", ret.calls)
	}
	if res.History[0].University != UniversityGeneral {
		t.Errorf("history tagged %v, want GENERAL", res.History[0].University)
	}
}

func TestAnswerQueryRoundTripHistoryPrefix(t *testing.T) {
	llm := &scriptedLLM{
		routeReply:  "COMSATS",
		answerReply: "answer one",
		gateReplies: []string{"YES", "YES"},
	}
	c := NewController(llm, &recordingRetriever{}, DefaultMaxCycles)

	first, err := c.AnswerQuery(context.Background(), "first question", nil, "")
	if err != nil {
		t.Fatalf("first AnswerQuery failed: %v", err)
	}

	llm.answerReply = "answer two"
	second, err := c.AnswerQuery(context.Background(), "what about fees?", first.History, first.University)
	if err != nil {
		t.Fatalf("second AnswerQuery failed: %v", err)
	}
	if len(second.History) != len(first.History)+1 {
		t.Fatalf("second history has %d turns, want %d", len(second.History), len(first.History)+1)
	}
	for i, turn := range first.History {
		if second.History[i] != turn {
			t.Errorf("turn %d changed between invocations", i)
		}
	}
}

func TestAnswerQueryContinuationKeepsContext(t *testing.T) {
	llm := &scriptedLLM{
		routeReply:  "NUST",
		answerReply: "NUST semester fee is X.",
		gateReplies: []string{"YES"},
	}
	ret := &recordingRetriever{}
	c := NewController(llm, ret, DefaultMaxCycles)

	res, err := c.AnswerQuery(context.Background(), "what about fees?", nil, UniversityNUST)
	if err != nil {
		t.Fatalf("AnswerQuery failed: %v", err)
	}
	if res.University != UniversityNUST {
		t.Errorf("University = %v, want continuation in NUST", res.University)
	}
	if len(ret.calls) != 1 || ret.calls[0] != "nust" {
		t.Errorf("retriever calls = %v, want nust", ret.calls)
	}
}
