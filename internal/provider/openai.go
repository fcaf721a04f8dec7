package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"finops-llm-router/internal/llm"
)

// OpenAICostPerThousandInput and OpenAICostPerThousandOutput price the
// default gpt-4o-mini model; they're intentionally coarse, matching
// original_source's flat per-provider cost table rather than a live pricing
// feed.
const (
	OpenAICostPerThousandInput  = 0.00015
	OpenAICostPerThousandOutput = 0.0006
)

// OpenAIProvider wraps an OpenAI-compatible chat completion client. It also
// serves OpenRouter and other OpenAI-compatible APIs via BaseURL, mirroring
// the teacher's shared-client construction in backend-go-model-gateway.
type OpenAIProvider struct {
	client  *openai.Client
	model   string
	httpCli *http.Client
}

// NewOpenAIProvider builds a provider against the real OpenAI API (or a
// compatible endpoint when baseURL is non-empty). apiKey must be non-empty;
// callers read it from the OPENAI_API_KEY environment variable.
func NewOpenAIProvider(apiKey, baseURL, model string) *OpenAIProvider {
	cfg := openai.DefaultConfig(apiKey)
	sharedHTTPClient := &http.Client{Timeout: 60 * time.Second}
	cfg.HTTPClient = sharedHTTPClient
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &OpenAIProvider{
		client:  openai.NewClientWithConfig(cfg),
		model:   model,
		httpCli: sharedHTTPClient,
	}
}

func (p *OpenAIProvider) Name() string { return "openai" }

func (p *OpenAIProvider) SendRequest(ctx context.Context, prompt string) (*llm.LLMResult, error) {
	start := time.Now()
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: 0.2,
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return nil, fmt.Errorf("openai: request failed (status %d): %w", apiErr.HTTPStatusCode, err)
		}
		return nil, fmt.Errorf("openai: request failed: %w", err)
	}

	content := ""
	if len(resp.Choices) > 0 {
		content = resp.Choices[0].Message.Content
	}

	usage := llm.Usage{
		InputTokens:  int64(resp.Usage.PromptTokens),
		OutputTokens: int64(resp.Usage.CompletionTokens),
	}
	cost := float64(usage.InputTokens)/1000*OpenAICostPerThousandInput +
		float64(usage.OutputTokens)/1000*OpenAICostPerThousandOutput

	return &llm.LLMResult{
		Provider:  p.Name(),
		Model:     p.model,
		Content:   content,
		Usage:     usage,
		CostUSD:   cost,
		LatencyMS: time.Since(start).Milliseconds(),
	}, nil
}

func (p *OpenAIProvider) HealthCheck(ctx context.Context) error {
	if p.client == nil {
		return fmt.Errorf("openai: client not initialized")
	}
	return nil
}
