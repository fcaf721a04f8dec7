package provider

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	bedrocktypes "github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"

	"finops-llm-router/internal/llm"
)

// BedrockCostPerThousandInput and BedrockCostPerThousandOutput price the
// default Titan Text Express model.
const (
	BedrockCostPerThousandInput  = 0.0002
	BedrockCostPerThousandOutput = 0.0006
)

// BedrockProvider wraps AWS Bedrock's Converse API, grounded on the pack's
// gomind bedrock client but simplified to a single blocking call since the
// orchestrator never streams.
type BedrockProvider struct {
	client *bedrockruntime.Client
	model  string
}

// NewBedrockProvider resolves AWS credentials via the default credential
// chain (environment, shared config, IAM role) for the given region.
func NewBedrockProvider(ctx context.Context, region, model string) (*BedrockProvider, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("bedrock: failed to load AWS config: %w", err)
	}
	if model == "" {
		model = "amazon.titan-text-express-v1"
	}
	return &BedrockProvider{
		client: bedrockruntime.NewFromConfig(cfg),
		model:  model,
	}, nil
}

func (p *BedrockProvider) Name() string { return "bedrock" }

func (p *BedrockProvider) SendRequest(ctx context.Context, prompt string) (*llm.LLMResult, error) {
	start := time.Now()

	input := &bedrockruntime.ConverseInput{
		ModelId: aws.String(p.model),
		Messages: []bedrocktypes.Message{
			{
				Role: bedrocktypes.ConversationRoleUser,
				Content: []bedrocktypes.ContentBlock{
					&bedrocktypes.ContentBlockMemberText{Value: prompt},
				},
			},
		},
	}

	output, err := p.client.Converse(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("bedrock: converse error: %w", err)
	}
	if output.Output == nil {
		return nil, fmt.Errorf("bedrock: empty output")
	}

	var content string
	if msgOutput, ok := output.Output.(*bedrocktypes.ConverseOutputMemberMessage); ok {
		for _, block := range msgOutput.Value.Content {
			if textBlock, ok := block.(*bedrocktypes.ContentBlockMemberText); ok {
				content += textBlock.Value
			}
		}
	}

	var usage llm.Usage
	if output.Usage != nil {
		if output.Usage.InputTokens != nil {
			usage.InputTokens = int64(*output.Usage.InputTokens)
		}
		if output.Usage.OutputTokens != nil {
			usage.OutputTokens = int64(*output.Usage.OutputTokens)
		}
	}
	cost := float64(usage.InputTokens)/1000*BedrockCostPerThousandInput +
		float64(usage.OutputTokens)/1000*BedrockCostPerThousandOutput

	return &llm.LLMResult{
		Provider:  p.Name(),
		Model:     p.model,
		Content:   content,
		Usage:     usage,
		CostUSD:   cost,
		LatencyMS: time.Since(start).Milliseconds(),
	}, nil
}

func (p *BedrockProvider) HealthCheck(ctx context.Context) error {
	if p.client == nil {
		return fmt.Errorf("bedrock: client not initialized")
	}
	return nil
}
