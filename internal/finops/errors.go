package finops

import (
	"errors"
	"fmt"
)

// InvalidRequest is returned when req fails the basic shape invariants
// spec.md §3 requires (prompt and task_type both non-empty) before any
// guardrail or routing work is attempted.
type InvalidRequest struct {
	Reason string
}

func (e *InvalidRequest) Error() string {
	return fmt.Sprintf("invalid request: %s", e.Reason)
}

// GuardrailViolation is returned when a prompt fails the content-safety
// check. It is never retried against another provider; the request is
// rejected before any provider is contacted.
type GuardrailViolation struct {
	Reason string
}

func (e *GuardrailViolation) Error() string {
	return fmt.Sprintf("guardrail violation: %s", e.Reason)
}

// UnknownStrategy is returned when Request.Strategy does not match any
// registered RoutingStrategy.
type UnknownStrategy struct {
	Strategy string
}

func (e *UnknownStrategy) Error() string {
	return fmt.Sprintf("unknown routing strategy: %q", e.Strategy)
}

// ErrNoProvidersAvailable is returned when a strategy resolves to a ranking
// with zero providers registered.
var ErrNoProvidersAvailable = errors.New("no providers available for strategy")

// ProviderError wraps a failure from a single provider attempt, keeping the
// provider name and the underlying cause for failover bookkeeping.
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %s failed: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// AllProvidersFailed is returned when every ranked provider was attempted
// and none succeeded. Attempts preserves per-provider failure detail in
// ranked order.
type AllProvidersFailed struct {
	Strategy string
	Attempts []*ProviderError
}

func (e *AllProvidersFailed) Error() string {
	return fmt.Sprintf("all %d provider(s) failed for strategy %q", len(e.Attempts), e.Strategy)
}

// TelemetrySinkError wraps a failure recording a telemetry event. It is
// never returned to the caller of Handle — a telemetry write failure must
// not fail an otherwise successful (or already-failed) request — but it is
// surfaced to the configured logger.
type TelemetrySinkError struct {
	Err error
}

func (e *TelemetrySinkError) Error() string {
	return fmt.Sprintf("telemetry sink error: %v", e.Err)
}

func (e *TelemetrySinkError) Unwrap() error {
	return e.Err
}
