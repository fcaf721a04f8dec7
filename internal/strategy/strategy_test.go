package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"finops-llm-router/internal/provider"
)

func namesOf(providers []provider.Provider) []string {
	names := make([]string, len(providers))
	for i, p := range providers {
		names[i] = p.Name()
	}
	return names
}

func TestCostFirst_RanksCheapestFirst(t *testing.T) {
	reg := provider.NewRegistry(
		provider.NewMockProvider("bedrock"),
		provider.NewMockProvider("openai"),
		provider.NewMockProvider("anthropic"),
	)
	s := &CostFirst{}
	assert.Equal(t, []string{"openai", "anthropic", "bedrock"}, namesOf(s.RankProviders(reg)))
	assert.Equal(t, "GPT-4o-mini", s.SelectModel(mustGet(reg, "openai")))
	assert.Equal(t, "Claude-Haiku", s.SelectModel(mustGet(reg, "anthropic")))
	assert.Equal(t, "default-model", s.SelectModel(mustGet(reg, "bedrock")))
}

func TestCostFirst_SkipsMissingProviders(t *testing.T) {
	reg := provider.NewRegistry(provider.NewMockProvider("openai"))
	s := &CostFirst{}
	assert.Equal(t, []string{"openai"}, namesOf(s.RankProviders(reg)))
}

func TestPerformanceFirst_RanksQualityFirst(t *testing.T) {
	reg := provider.NewRegistry(
		provider.NewMockProvider("openai"),
		provider.NewMockProvider("bedrock"),
		provider.NewMockProvider("anthropic"),
	)
	s := &PerformanceFirst{}
	assert.Equal(t, []string{"anthropic", "bedrock", "openai"}, namesOf(s.RankProviders(reg)))
	assert.Equal(t, "GPT-4", s.SelectModel(mustGet(reg, "openai")))
	assert.Equal(t, "Claude-2", s.SelectModel(mustGet(reg, "anthropic")))
	assert.Equal(t, "Titan-1", s.SelectModel(mustGet(reg, "bedrock")))
}

func TestNewDefaultRegistry_HasBothStrategies(t *testing.T) {
	reg := NewDefaultRegistry()
	_, ok := reg.Get("cost-first")
	assert.True(t, ok)
	_, ok = reg.Get("performance-first")
	assert.True(t, ok)
	_, ok = reg.Get("unknown")
	assert.False(t, ok)
}

func mustGet(reg *provider.Registry, name string) provider.Provider {
	p, _ := reg.Get(name)
	return p
}
