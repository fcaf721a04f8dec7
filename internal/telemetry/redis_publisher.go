package telemetry

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// DefaultChannel is the pub/sub channel telemetry events fan out on,
// consumed by cmd/notifier.
const DefaultChannel = "finops:telemetry"

// RedisFanoutCollector decorates another Collector and additionally
// publishes each event as JSON on a Redis channel, grounded on the
// teacher's Planner.PublishNotification. A publish failure is returned to
// the orchestrator, which logs it as a TelemetrySinkError and never fails an otherwise
// successful or already-failed request — the durable sink (SQLiteCollector)
// wrapped by next is the source of truth.
type RedisFanoutCollector struct {
	next    Collector
	client  *redis.Client
	channel string
}

// NewRedisFanoutCollector wraps next, publishing every captured event to
// addr's default channel in addition to delegating to next.
func NewRedisFanoutCollector(next Collector, addr string) *RedisFanoutCollector {
	client := redis.NewClient(&redis.Options{Addr: addr})
	return &RedisFanoutCollector{next: next, client: client, channel: DefaultChannel}
}

// wireEvent is the JSON shape published on the fanout channel.
type wireEvent struct {
	Timestamp       string   `json:"timestamp"`
	RequestID       string   `json:"request_id"`
	Strategy        string   `json:"strategy"`
	Provider        *string  `json:"provider"`
	Model           *string  `json:"model"`
	InputTokens     *int64   `json:"usage_input,omitempty"`
	OutputTokens    *int64   `json:"usage_output,omitempty"`
	CostEstimated   *float64 `json:"cost_estimated"`
	LatencyMS       *float64 `json:"latency_ms"`
	FallbackUsed    bool     `json:"fallback_used"`
	ProviderFailed  bool     `json:"provider_failed"`
	GuardrailFailed bool     `json:"guardrail_failed"`
	GuardrailReason *string  `json:"guardrail_reason,omitempty"`
}

func (c *RedisFanoutCollector) Capture(ctx context.Context, evt Event) error {
	if err := c.next.Capture(ctx, evt); err != nil {
		return err
	}

	payload := wireEvent{
		Timestamp:       evt.Timestamp.UTC().Format(time.RFC3339Nano),
		RequestID:       evt.RequestID,
		Strategy:        evt.Strategy,
		Provider:        evt.Provider,
		Model:           evt.Model,
		CostEstimated:   evt.CostEstimated,
		LatencyMS:       evt.LatencyMS,
		FallbackUsed:    evt.FallbackUsed,
		ProviderFailed:  evt.ProviderFailed,
		GuardrailFailed: evt.GuardrailFailed,
		GuardrailReason: evt.GuardrailReason,
	}
	if evt.Usage != nil {
		payload.InputTokens = &evt.Usage.InputTokens
		payload.OutputTokens = &evt.Usage.OutputTokens
	}

	b, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("telemetry: marshal fanout event: %w", err)
	}

	if err := c.client.Publish(ctx, c.channel, string(b)).Err(); err != nil {
		return fmt.Errorf("telemetry: publish fanout event: %w", err)
	}
	return nil
}

func (c *RedisFanoutCollector) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}
