// Package httpapi is the FinOps LLM Router's HTTP façade: a thin chi router
// translating JSON requests into finops.Orchestrator.Handle calls.
//
// spec.md scopes the HTTP surface as "no significant engineering" relative
// to the core routing logic, so this package stays deliberately small; the
// metrics it exposes at /metrics are real OTel/Prometheus instruments
// rather than a static stub, since spec.md §6 itself suggests the façade
// "maintains its own running aggregates."
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelmetric "go.opentelemetry.io/otel/metric"

	"finops-llm-router/internal/finops"
	"finops-llm-router/internal/logger"
)

var (
	metricsOnce    sync.Once
	requestsTotal  otelmetric.Int64Counter
	costUSDSum     otelmetric.Float64Counter
	latencyMSHist  otelmetric.Float64Histogram
)

func initMetrics() {
	metricsOnce.Do(func() {
		m := otel.Meter("finops-llm-router")
		var err error
		requestsTotal, err = m.Int64Counter(
			"finops_requests_total",
			otelmetric.WithDescription("Count of routed LLM requests by outcome."),
			otelmetric.WithUnit("1"),
		)
		if err != nil {
			requestsTotal = nil
		}
		costUSDSum, err = m.Float64Counter(
			"finops_cost_estimated_usd_sum",
			otelmetric.WithDescription("Running sum of estimated USD cost across successful requests."),
			otelmetric.WithUnit("1"),
		)
		if err != nil {
			costUSDSum = nil
		}
		latencyMSHist, err = m.Float64Histogram(
			"finops_request_latency_ms",
			otelmetric.WithDescription("Provider request latency in milliseconds."),
			otelmetric.WithUnit("ms"),
		)
		if err != nil {
			latencyMSHist = nil
		}
	})
}

// Server holds the dependencies the façade needs to build its router.
type Server struct {
	Orchestrator *finops.Orchestrator
	APIKey       string
	PromHandler  http.Handler
}

// Router builds the chi router: Recoverer, OTel span wrapping, trace-ID
// propagation, optional API-key auth, and request logging — the same
// middleware stack order as the teacher's agent-planner main.go.
func (s *Server) Router() http.Handler {
	initMetrics()

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(func(next http.Handler) http.Handler {
		return otelhttp.NewHandler(
			next,
			"http.server",
			otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
				return r.Method + " " + r.URL.Path
			}),
		)
	})
	r.Use(traceIDMiddleware)
	r.Use(apiKeyMiddleware(s.APIKey))
	r.Use(requestLogMiddleware)

	r.Get("/health", s.handleHealth)
	r.Get("/v1/providers", s.handleListProviders)
	r.Post("/v1/llm", s.handleLLM)
	if s.PromHandler != nil {
		r.Handle("/metrics", s.PromHandler)
	}

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok", "service": "finops-llm-router"})
}

func (s *Server) handleListProviders(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"providers": s.Orchestrator.ListProviders(),
	})
}

// llmRequest is the wire shape of POST /v1/llm.
type llmRequest struct {
	RequestID string            `json:"request_id"`
	Prompt    string            `json:"prompt"`
	TaskType  string            `json:"task_type"`
	Strategy  string            `json:"strategy"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

func (s *Server) handleLLM(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	lg := logger.FromContext(r.Context())

	var body llmRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.Prompt == "" || body.TaskType == "" || body.Strategy == "" {
		writeJSONError(w, http.StatusBadRequest, "prompt, task_type, and strategy are required")
		return
	}
	if body.RequestID == "" {
		body.RequestID = r.Header.Get(string(logger.TraceIDKey))
	}

	ctx, cancel := context.WithTimeout(r.Context(), 60*time.Second)
	defer cancel()

	start := time.Now()
	resp, err := s.Orchestrator.Handle(ctx, finops.Request{
		RequestID: body.RequestID,
		Prompt:    body.Prompt,
		TaskType:  body.TaskType,
		Strategy:  body.Strategy,
		Metadata:  body.Metadata,
	})
	elapsed := time.Since(start).Milliseconds()

	if err != nil {
		s.recordOutcome(ctx, "error", 0, 0)
		statusCode, msg := classifyError(err)
		lg.Warn("llm_request_failed", "request_id", body.RequestID, "error", err)
		writeJSONError(w, statusCode, msg)
		return
	}

	s.recordOutcome(ctx, "success", resp.CostUSD, float64(elapsed))
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		lg.Error("encode_response_failed", "error", err)
	}
}

func (s *Server) recordOutcome(ctx context.Context, outcome string, costUSD, latencyMS float64) {
	if requestsTotal != nil {
		requestsTotal.Add(ctx, 1, otelmetric.WithAttributes(attribute.String("outcome", outcome)))
	}
	if outcome == "success" {
		if costUSDSum != nil {
			costUSDSum.Add(ctx, costUSD)
		}
		if latencyMSHist != nil {
			latencyMSHist.Record(ctx, latencyMS)
		}
	}
}

func classifyError(err error) (int, string) {
	var invalid *finops.InvalidRequest
	if errors.As(err, &invalid) {
		return http.StatusBadRequest, err.Error()
	}
	var guardrail *finops.GuardrailViolation
	if errors.As(err, &guardrail) {
		return http.StatusUnprocessableEntity, err.Error()
	}
	var unknown *finops.UnknownStrategy
	if errors.As(err, &unknown) {
		return http.StatusBadRequest, err.Error()
	}
	if errors.Is(err, finops.ErrNoProvidersAvailable) {
		return http.StatusServiceUnavailable, err.Error()
	}
	var allFailed *finops.AllProvidersFailed
	if errors.As(err, &allFailed) {
		return http.StatusBadGateway, err.Error()
	}
	return http.StatusInternalServerError, "internal error"
}
