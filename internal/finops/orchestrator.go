package finops

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"

	"finops-llm-router/internal/guardrails"
	"finops-llm-router/internal/logger"
	"finops-llm-router/internal/provider"
	"finops-llm-router/internal/strategy"
	"finops-llm-router/internal/telemetry"
)

// Orchestrator is the FinOps LLM Router's core component: it validates a
// prompt against Guardrails, ranks providers via a RoutingStrategy, attempts
// delivery with failover across that ranking, and records a Telemetry event
// for every terminal outcome (success, provider failure, guardrail
// rejection). Grounded on orchestrator/finobs_llm_orchestrator.py's handle().
type Orchestrator struct {
	guardrails  *guardrails.Guardrails
	providers   *provider.Registry
	strategies  *strategy.Registry
	telemetry   telemetry.Collector
	breakers    map[string]*gobreaker.CircuitBreaker
}

// NewOrchestrator wires the four collaborating components together.
// breakers, if non-nil, maps a provider name to the circuit breaker that
// should guard calls to it; a provider with no entry is called directly.
func NewOrchestrator(
	g *guardrails.Guardrails,
	providers *provider.Registry,
	strategies *strategy.Registry,
	collector telemetry.Collector,
	breakers map[string]*gobreaker.CircuitBreaker,
) *Orchestrator {
	if breakers == nil {
		breakers = map[string]*gobreaker.CircuitBreaker{}
	}
	return &Orchestrator{
		guardrails: g,
		providers:  providers,
		strategies: strategies,
		telemetry:  collector,
		breakers:   breakers,
	}
}

// NewDefaultBreaker builds a circuit breaker with the teacher's defaults:
// open after 5 consecutive failures, stay open 30s, then probe once.
func NewDefaultBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.LogCircuitBreakerStateChange(logger.FromContext(context.Background()), name, from.String(), to.String())
		},
	})
}

// ListProviders returns every provider name currently registered, sorted.
func (o *Orchestrator) ListProviders() []string {
	names := o.providers.Names()
	sort.Strings(names)
	return names
}

// Handle validates, routes, and (with failover) delivers req, recording
// telemetry for every terminal attempt along the way.
func (o *Orchestrator) Handle(ctx context.Context, req Request) (*Response, error) {
	tracer := otel.Tracer("finops-llm-router")
	ctx, span := tracer.Start(ctx, "Orchestrator.Handle")
	defer span.End()

	lg := logger.FromContext(ctx)

	// 1. Request shape. prompt and task_type must both be present per
	// spec.md §3's Request invariant.
	if strings.TrimSpace(req.Prompt) == "" || strings.TrimSpace(req.TaskType) == "" {
		span.SetStatus(codes.Error, "invalid request")
		return nil, &InvalidRequest{Reason: "prompt and task_type are required"}
	}

	// 2. Guardrails.
	result := o.guardrails.Validate(req.Prompt)
	if !result.Allowed {
		lg.Warn("guardrail_violation", "request_id", req.RequestID, "reason", result.Reason)
		o.captureGuardrailViolation(ctx, req, result.Reason)
		span.RecordError(fmt.Errorf("guardrail violation"))
		span.SetStatus(codes.Error, "guardrail violation")
		return nil, &GuardrailViolation{Reason: result.Reason}
	}

	// 3. Strategy selection.
	strategyName := strings.ToLower(strings.TrimSpace(req.Strategy))
	strat, ok := o.strategies.Get(strategyName)
	if !ok {
		span.SetStatus(codes.Error, "unknown strategy")
		return nil, &UnknownStrategy{Strategy: req.Strategy}
	}

	// 4. Rank providers for failover, skipping nil placeholders.
	var ranked []provider.Provider
	for _, p := range strat.RankProviders(o.providers) {
		if p != nil {
			ranked = append(ranked, p)
		}
	}
	if len(ranked) == 0 {
		span.SetStatus(codes.Error, "no providers available")
		return nil, ErrNoProvidersAvailable
	}
	firstProvider := ranked[0]

	attempts := make([]*ProviderError, 0, len(ranked))

	for _, p := range ranked {
		modelName := strat.SelectModel(p)
		start := time.Now()

		llmResult, err := o.sendWithBreaker(ctx, p, req.Prompt)
		latencyMS := time.Since(start).Milliseconds()

		if err != nil {
			provErr := &ProviderError{Provider: p.Name(), Err: err}
			attempts = append(attempts, provErr)
			lg.Warn("provider_failed", "request_id", req.RequestID, "provider", p.Name(), "error", err)
			o.captureProviderFailure(ctx, req, strat.Name(), p.Name())
			continue
		}

		fallbackUsed := p.Name() != firstProvider.Name()

		o.captureSuccess(ctx, req, strat.Name(), p.Name(), modelName, llmResult, float64(latencyMS), fallbackUsed)

		span.SetStatus(codes.Ok, "")
		return &Response{
			ID:            uuid.NewString(),
			RequestID:     req.RequestID,
			TaskType:      req.TaskType,
			Provider:      p.Name(),
			Model:         modelName,
			Content:       llmResult.Content,
			Usage:         llmResult.Usage,
			CostUSD:       llmResult.CostUSD,
			LatencyMS:     latencyMS,
			FallbackUsed:  fallbackUsed,
			AttemptedWith: attemptedProviderNames(ranked, len(attempts)+1),
			CreatedAt:     time.Now().UTC(),
		}, nil
	}

	span.SetStatus(codes.Error, "all providers failed")
	return nil, &AllProvidersFailed{Strategy: strat.Name(), Attempts: attempts}
}

// sendWithBreaker executes p.SendRequest, routing through o.breakers[p.Name()]
// when one is configured. An open breaker surfaces as an ordinary error so
// the caller's failover loop treats it like any other provider failure.
func (o *Orchestrator) sendWithBreaker(ctx context.Context, p provider.Provider, prompt string) (*LLMResult, error) {
	breaker, ok := o.breakers[p.Name()]
	if !ok {
		return p.SendRequest(ctx, prompt)
	}

	resAny, err := breaker.Execute(func() (any, error) {
		return p.SendRequest(ctx, prompt)
	})
	if err != nil {
		return nil, err
	}
	res, _ := resAny.(*LLMResult)
	if res == nil {
		return nil, fmt.Errorf("provider %s: breaker returned unexpected type", p.Name())
	}
	return res, nil
}

func attemptedProviderNames(ranked []provider.Provider, upTo int) []string {
	if upTo > len(ranked) {
		upTo = len(ranked)
	}
	names := make([]string, upTo)
	for i := 0; i < upTo; i++ {
		names[i] = ranked[i].Name()
	}
	return names
}

func (o *Orchestrator) captureGuardrailViolation(ctx context.Context, req Request, reason string) {
	if o.telemetry == nil {
		return
	}
	reasonCopy := reason
	evt := telemetry.Event{
		Timestamp:       time.Now(),
		RequestID:       req.RequestID,
		Strategy:        "N/A",
		GuardrailFailed: true,
		GuardrailReason: &reasonCopy,
	}
	if err := o.telemetry.Capture(ctx, evt); err != nil {
		logger.FromContext(ctx).Error("telemetry_capture_failed", "error", &TelemetrySinkError{Err: err})
	}
}

func (o *Orchestrator) captureProviderFailure(ctx context.Context, req Request, strategyName, providerName string) {
	if o.telemetry == nil {
		return
	}
	providerCopy := providerName
	evt := telemetry.Event{
		Timestamp:      time.Now(),
		RequestID:      req.RequestID,
		Strategy:       strategyName,
		Provider:       &providerCopy,
		ProviderFailed: true,
	}
	if err := o.telemetry.Capture(ctx, evt); err != nil {
		logger.FromContext(ctx).Error("telemetry_capture_failed", "error", &TelemetrySinkError{Err: err})
	}
}

func (o *Orchestrator) captureSuccess(ctx context.Context, req Request, strategyName, providerName, modelName string, result *LLMResult, latencyMS float64, fallbackUsed bool) {
	if o.telemetry == nil {
		return
	}
	providerCopy := providerName
	modelCopy := modelName
	costCopy := result.CostUSD
	latencyCopy := latencyMS
	usageCopy := result.Usage
	evt := telemetry.Event{
		Timestamp:     time.Now(),
		RequestID:     req.RequestID,
		Strategy:      strategyName,
		Provider:      &providerCopy,
		Model:         &modelCopy,
		Usage:         &usageCopy,
		CostEstimated: &costCopy,
		LatencyMS:     &latencyCopy,
		FallbackUsed:  fallbackUsed,
	}
	if err := o.telemetry.Capture(ctx, evt); err != nil {
		logger.FromContext(ctx).Error("telemetry_capture_failed", "error", &TelemetrySinkError{Err: err})
	}
}
