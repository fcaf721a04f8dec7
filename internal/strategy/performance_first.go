package strategy

import "finops-llm-router/internal/provider"

// PerformanceFirst prefers the highest-quality providers first: anthropic,
// then bedrock, then openai. Grounded directly on
// orchestrator/performance_first_strategy.py.
type PerformanceFirst struct{}

func (s *PerformanceFirst) Name() string { return "performance-first" }

func (s *PerformanceFirst) RankProviders(reg *provider.Registry) []provider.Provider {
	ranked := make([]provider.Provider, 0, 3)
	for _, name := range []string{"anthropic", "bedrock", "openai"} {
		p, ok := reg.Get(name)
		if !ok {
			continue
		}
		ranked = append(ranked, p)
	}
	return ranked
}

func (s *PerformanceFirst) SelectModel(p provider.Provider) string {
	switch p.Name() {
	case "openai":
		return "GPT-4"
	case "anthropic":
		return "Claude-2"
	case "bedrock":
		return "Titan-1"
	default:
		return "default-model"
	}
}
