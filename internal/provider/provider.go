// Package provider wraps LLM vendor SDKs behind a single capability-set
// interface so the orchestrator never imports a vendor package directly.
package provider

import (
	"context"

	"finops-llm-router/internal/llm"
)

// Provider is the capability set the orchestrator depends on. Each vendor
// wrapper implements it independently; there is no shared base struct, only
// the shared interface — Go favors small interfaces over an abstract base
// class hierarchy.
type Provider interface {
	// Name is the stable identifier used in routing strategies and
	// telemetry ("openai", "anthropic", "bedrock", "mock").
	Name() string

	// SendRequest performs one completion call. It must respect ctx
	// cancellation and return a *llm.LLMResult on success.
	SendRequest(ctx context.Context, prompt string) (*llm.LLMResult, error)

	// HealthCheck reports whether the provider is currently usable. The
	// registry does not poll this continuously; it is available for the
	// HTTP façade's /v1/providers endpoint and for tests.
	HealthCheck(ctx context.Context) error
}

// Registry is an immutable-after-construction lookup of providers by name.
// Immutability removes the need for a mutex on the common path: every
// provider is wired once at startup in cmd/router/main.go.
type Registry struct {
	providers map[string]Provider
}

// NewRegistry builds a Registry from the given providers, keyed by Name().
func NewRegistry(providers ...Provider) *Registry {
	r := &Registry{providers: make(map[string]Provider, len(providers))}
	for _, p := range providers {
		r.providers[p.Name()] = p
	}
	return r
}

// Get returns the provider registered under name, and whether it was found.
func (r *Registry) Get(name string) (Provider, bool) {
	p, ok := r.providers[name]
	return p, ok
}

// Names returns every registered provider name, in no particular order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	return names
}
