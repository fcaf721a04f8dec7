// Package telemetry implements the FinOps heartbeat: an append-only record
// of every routed request's outcome, cost, and latency — including failed
// attempts and guardrail rejections, grounded on
// orchestrator/finobs_llm_orchestrator.py's telemetry.capture(...) calls.
package telemetry

import (
	"context"
	"time"

	"finops-llm-router/internal/llm"
)

// Event is a single telemetry record. Provider, Model, Usage, CostEstimated
// and LatencyMS are pointers because the reference implementation passes
// None/null for them on a guardrail violation or a failed provider attempt
// — there is no successful completion to describe yet.
type Event struct {
	Timestamp       time.Time
	RequestID       string
	Strategy        string
	Provider        *string
	Model           *string
	Usage           *llm.Usage
	CostEstimated   *float64
	LatencyMS       *float64
	FallbackUsed    bool
	ProviderFailed  bool
	GuardrailFailed bool
	GuardrailReason *string
}

// Collector persists telemetry events. Capture must not block the caller on
// a slow sink for long; implementations are expected to be fast local
// writes (SQLite) or a fire-and-forget publish (Redis fanout).
type Collector interface {
	Capture(ctx context.Context, evt Event) error
}
