package strategy

import "finops-llm-router/internal/provider"

// CostFirst prefers the cheapest providers first: openai, then anthropic,
// then bedrock. Grounded directly on orchestrator/cost_first_strategy.py.
type CostFirst struct{}

func (s *CostFirst) Name() string { return "cost-first" }

func (s *CostFirst) RankProviders(reg *provider.Registry) []provider.Provider {
	ranked := make([]provider.Provider, 0, 3)
	for _, name := range []string{"openai", "anthropic", "bedrock"} {
		p, ok := reg.Get(name)
		if !ok {
			continue
		}
		ranked = append(ranked, p)
	}
	return ranked
}

func (s *CostFirst) SelectModel(p provider.Provider) string {
	switch p.Name() {
	case "openai":
		return "GPT-4o-mini"
	case "anthropic":
		return "Claude-Haiku"
	default:
		return "default-model"
	}
}
