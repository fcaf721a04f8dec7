// Package finops implements the orchestrator at the center of the FinOps
// LLM Router: it validates a prompt against guardrails, ranks providers via
// a pluggable routing strategy, attempts delivery with failover, and
// records a telemetry event for every terminal outcome.
package finops

import (
	"time"

	"finops-llm-router/internal/llm"
)

// Usage and LLMResult are aliases onto internal/llm's definitions: both
// internal/provider and internal/telemetry need these value types, and
// both are depended on by this package, so the types themselves live in
// the leaf package internal/llm to keep the dependency graph acyclic. The
// aliases let the rest of this package (and its callers) keep spelling
// them finops.Usage / finops.LLMResult.
type Usage = llm.Usage
type LLMResult = llm.LLMResult

// Request is the inbound payload for a single routed completion. TaskType
// mirrors original_source's invariant that prompt and task_type are always
// present; Metadata carries caller-supplied correlation data that is not
// interpreted by the orchestrator itself.
type Request struct {
	RequestID string            `json:"request_id"`
	Prompt    string            `json:"prompt"`
	TaskType  string            `json:"task_type"`
	Strategy  string            `json:"strategy"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// Response is what the orchestrator returns for a successfully routed
// request.
type Response struct {
	ID            string    `json:"id"`
	RequestID     string    `json:"request_id"`
	TaskType      string    `json:"task_type"`
	Provider      string    `json:"provider"`
	Model         string    `json:"model_used"`
	Content       string    `json:"content"`
	Usage         Usage     `json:"usage"`
	CostUSD       float64   `json:"cost_estimated"`
	LatencyMS     int64     `json:"latency_ms"`
	FallbackUsed  bool      `json:"fallback_used"`
	AttemptedWith []string  `json:"attempted_providers"`
	CreatedAt     time.Time `json:"created_at"`
}
