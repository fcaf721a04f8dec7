// Package strategy implements routing strategies: given a registry of
// providers, a strategy orders them for failover and names the model to
// request from each.
package strategy

import (
	"finops-llm-router/internal/provider"
)

// Strategy mirrors orchestrator/strategy.py's RoutingStrategy ABC as a Go
// interface rather than an abstract base class.
type Strategy interface {
	// Name is the identifier requests reference via Request.Strategy.
	Name() string

	// RankProviders returns providers in failover order. A nil entry in the
	// returned slice marks a provider the strategy wants ranked but that is
	// absent from the registry — the orchestrator treats it as unavailable
	// and skips it, matching the reference implementation's
	// providers.get(...) returning None for unregistered providers.
	RankProviders(reg *provider.Registry) []provider.Provider

	// SelectModel returns the model name the orchestrator reports for p in
	// the Response and in telemetry. The name is not passed to
	// p.SendRequest: each provider calls the model it was constructed with.
	SelectModel(p provider.Provider) string
}

// Registry is an immutable-after-construction lookup of strategies by name.
type Registry struct {
	strategies map[string]Strategy
}

// NewRegistry builds a Registry from the given strategies, keyed by Name().
func NewRegistry(strategies ...Strategy) *Registry {
	r := &Registry{strategies: make(map[string]Strategy, len(strategies))}
	for _, s := range strategies {
		r.strategies[s.Name()] = s
	}
	return r
}

// Get returns the strategy registered under name, and whether it was found.
func (r *Registry) Get(name string) (Strategy, bool) {
	s, ok := r.strategies[name]
	return s, ok
}

// NewDefaultRegistry builds the registry with both reference strategies
// wired in, matching original_source's CostFirstStrategy and
// PerformanceFirstStrategy.
func NewDefaultRegistry() *Registry {
	return NewRegistry(&CostFirst{}, &PerformanceFirst{})
}
