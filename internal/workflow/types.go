// Package workflow implements the query resolution loop: route the
// question to a university context, answer it over retrieved passages,
// check the answer, and rewrite the question for another attempt when
// the check rejects it. The loop is bounded by a cycle cap.
package workflow

import (
	"strings"
)

// University identifies which institution a question is about.
type University string

const (
	UniversityNUST    University = "NUST"
	UniversityCOMSATS University = "COMSATS"
	UniversityFAST    University = "FAST"
	// UniversityGeneral handles questions not tied to one institution,
	// including comparisons across several of them.
	UniversityGeneral University = "GENERAL"
)

// Key returns the lowercase storage key for the university.
func (u University) Key() string {
	return strings.ToLower(string(u))
}

// Known reports whether the university has its own corpus.
func (u University) Known() bool {
	switch u {
	case UniversityNUST, UniversityCOMSATS, UniversityFAST:
		return true
	}
	return false
}

// ParseUniversity normalizes a free-text label to a University. The
// label may be a full sentence from the router model; any substring
// match on an institution name wins, checked in a fixed order so a
// label naming several institutions resolves deterministically.
// Unrecognized labels map to GENERAL.
func ParseUniversity(label string) University {
	upper := strings.ToUpper(label)
	switch {
	case strings.Contains(upper, "NUST"):
		return UniversityNUST
	case strings.Contains(upper, "FAST"):
		return UniversityFAST
	case strings.Contains(upper, "COMSATS"):
		return UniversityCOMSATS
	default:
		return UniversityGeneral
	}
}

// RouteDecision is the router's verdict for one cycle.
type RouteDecision struct {
	// University is the normalized routing target.
	University University
	// RawLabel preserves the router model's verbatim output, useful
	// when it names an institution outside the known set.
	RawLabel string
}

// Turn is one question/answer exchange recorded in session history.
// Rejected answers are recorded too; the rewriter uses them to see
// what already failed.
type Turn struct {
	University University
	Question   string
	Answer     string
}

// Result is the outcome of resolving one user query.
type Result struct {
	// Answer is the accepted answer, or the last attempt when the
	// cycle cap was reached without acceptance.
	Answer string
	// University is the routing target of the final cycle.
	University University
	// RawLabel is the router's verbatim label from the final cycle,
	// kept for display when it names an institution outside the known
	// set.
	RawLabel string
	// Accepted reports whether the quality check passed the answer.
	Accepted bool
	// Cycles is how many route/respond/check rounds ran.
	Cycles int
	// History is the updated session history including this query's
	// turns.
	History []Turn
}

// state carries the per-invocation loop variables. It never escapes
// AnswerQuery.
type state struct {
	originalQuery  string
	currentQuery   string
	rewrittenQuery string
	university     University
	rawLabel       string
	answer         string
	history        []Turn
	cycles         int
}

// activeQuery returns the query for this cycle: a pending rewrite if
// one exists, otherwise the current query. Consuming the rewrite
// clears it so it is used exactly once.
func (s *state) activeQuery() string {
	if s.rewrittenQuery != "" {
		q := s.rewrittenQuery
		s.rewrittenQuery = ""
		s.currentQuery = q
		return q
	}
	return s.currentQuery
}
