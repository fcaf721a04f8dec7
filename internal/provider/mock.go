package provider

import (
	"context"
	"fmt"
	"sync"
	"time"

	"finops-llm-router/internal/llm"
)

// MockProvider is the zero-dependency provider used for local/dev mode and
// tests, mirroring the teacher's buildMockPlanResponse fallback: a
// deterministic response that requires no upstream credentials.
//
// FailTimes lets tests exercise the orchestrator's failover path (spec.md
// scenarios S3/S4): the first FailTimes calls to SendRequest return
// FailErr, then the provider starts succeeding.
type MockProvider struct {
	ProviderName string
	Model        string
	FailTimes    int
	FailErr      error

	mu    sync.Mutex
	calls int
}

// NewMockProvider builds a mock provider that always succeeds.
func NewMockProvider(name string) *MockProvider {
	return &MockProvider{ProviderName: name, Model: "mock-model"}
}

func (p *MockProvider) Name() string {
	if p.ProviderName == "" {
		return "mock"
	}
	return p.ProviderName
}

// CallCount returns how many times SendRequest has been invoked so far.
func (p *MockProvider) CallCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

func (p *MockProvider) SendRequest(ctx context.Context, prompt string) (*llm.LLMResult, error) {
	start := time.Now()
	p.mu.Lock()
	p.calls++
	attempt := p.calls
	p.mu.Unlock()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	if attempt <= p.FailTimes {
		err := p.FailErr
		if err == nil {
			err = fmt.Errorf("mock provider %s: simulated failure (attempt %d)", p.Name(), attempt)
		}
		return nil, err
	}

	model := p.Model
	if model == "" {
		model = "mock-model"
	}

	return &llm.LLMResult{
		Provider: p.Name(),
		Model:    model,
		Content:  fmt.Sprintf("mock response to: %s", prompt),
		Usage: llm.Usage{
			InputTokens:  int64(len(prompt)) / 4,
			OutputTokens: 16,
		},
		CostUSD:   0,
		LatencyMS: time.Since(start).Milliseconds(),
	}, nil
}

func (p *MockProvider) HealthCheck(ctx context.Context) error {
	return nil
}
