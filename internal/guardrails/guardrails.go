// Package guardrails implements the pre-provider content-safety check.
//
// The original POC (finops_llm_router/guardrails/guardrails.py) stored the
// last violation reason on the struct itself and mutated it on every call —
// unsafe across concurrent requests. This version returns the reason
// alongside the boolean instead, per the REDESIGN FLAGS re-architecture
// note in spec.md §9, so there is no shared mutable state to race on.
package guardrails

import (
	"fmt"
	"regexp"
)

// DefaultForbiddenTokens matches the original_source reference list.
var DefaultForbiddenTokens = []string{"SSN", "credit card"}

// Result is the outcome of a single Validate call.
type Result struct {
	Allowed bool
	// Reason describes the first offending token when Allowed is false;
	// empty when Allowed is true.
	Reason string
}

// Guardrails is a stateless, concurrency-safe predicate over prompt text.
//
// Matching is case-insensitive and word-boundary-anchored (Open Question 3
// in spec.md §9 is resolved in favor of this documented upgrade: the
// reference case-sensitive substring match misses obvious variants like
// "ssn" lowercase).
type Guardrails struct {
	tokens   []string
	patterns []*regexp.Regexp
}

// New builds a Guardrails instance over the given forbidden tokens. An empty
// slice falls back to DefaultForbiddenTokens.
func New(forbiddenTokens []string) *Guardrails {
	if len(forbiddenTokens) == 0 {
		forbiddenTokens = DefaultForbiddenTokens
	}
	g := &Guardrails{tokens: forbiddenTokens}
	g.patterns = make([]*regexp.Regexp, len(forbiddenTokens))
	for i, tok := range forbiddenTokens {
		g.patterns[i] = regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(tok) + `\b`)
	}
	return g
}

// Validate returns Allowed=true iff none of the configured forbidden tokens
// occurs in prompt. It is pure, synchronous, and never panics on well-formed
// string input.
func (g *Guardrails) Validate(prompt string) Result {
	for i, pat := range g.patterns {
		if pat.MatchString(prompt) {
			return Result{
				Allowed: false,
				Reason:  fmt.Sprintf("forbidden token found: %s", g.tokens[i]),
			}
		}
	}
	return Result{Allowed: true}
}
