package provider

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"finops-llm-router/internal/llm"
)

// AnthropicCostPerThousandInput and AnthropicCostPerThousandOutput price the
// default Claude Haiku model.
const (
	AnthropicCostPerThousandInput  = 0.00025
	AnthropicCostPerThousandOutput = 0.00125
)

// AnthropicProvider wraps Anthropic's Messages API.
type AnthropicProvider struct {
	client    *anthropic.Client
	model     string
	maxTokens int64
}

// NewAnthropicProvider builds a provider against the Anthropic Messages API.
// apiKey must be non-empty; callers read it from ANTHROPIC_API_KEY.
func NewAnthropicProvider(apiKey, model string) *AnthropicProvider {
	httpClient := &http.Client{Timeout: 60 * time.Second}
	client := anthropic.NewClient(
		option.WithAPIKey(apiKey),
		option.WithHTTPClient(httpClient),
	)
	if model == "" {
		model = "claude-3-haiku-20240307"
	}
	return &AnthropicProvider{client: &client, model: model, maxTokens: 1024}
}

func (p *AnthropicProvider) Name() string { return "anthropic" }

func (p *AnthropicProvider) SendRequest(ctx context.Context, prompt string) (*llm.LLMResult, error) {
	start := time.Now()
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(p.model),
		MaxTokens: p.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	}

	msg, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("anthropic: request failed: %w", err)
	}

	content := ""
	for _, block := range msg.Content {
		if block.Type == "text" {
			content += block.Text
		}
	}

	usage := llm.Usage{
		InputTokens:  msg.Usage.InputTokens,
		OutputTokens: msg.Usage.OutputTokens,
	}
	cost := float64(usage.InputTokens)/1000*AnthropicCostPerThousandInput +
		float64(usage.OutputTokens)/1000*AnthropicCostPerThousandOutput

	return &llm.LLMResult{
		Provider:  p.Name(),
		Model:     p.model,
		Content:   content,
		Usage:     usage,
		CostUSD:   cost,
		LatencyMS: time.Since(start).Milliseconds(),
	}, nil
}

func (p *AnthropicProvider) HealthCheck(ctx context.Context) error {
	if p.client == nil {
		return fmt.Errorf("anthropic: client not initialized")
	}
	return nil
}
