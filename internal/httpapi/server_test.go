package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finops-llm-router/internal/finops"
	"finops-llm-router/internal/guardrails"
	"finops-llm-router/internal/provider"
	"finops-llm-router/internal/strategy"
	"finops-llm-router/internal/telemetry"
)

type fakeCollector struct{}

func (fakeCollector) Capture(ctx context.Context, evt telemetry.Event) error { return nil }

func newTestServer() *Server {
	providers := provider.NewRegistry(provider.NewMockProvider("openai"), provider.NewMockProvider("anthropic"))
	o := finops.NewOrchestrator(guardrails.New(nil), providers, strategy.NewDefaultRegistry(), fakeCollector{}, nil)
	return &Server{Orchestrator: o}
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}

func TestListProvidersEndpoint(t *testing.T) {
	srv := newTestServer()
	req := httptest.NewRequest(http.MethodGet, "/v1/providers", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var body map[string][]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.ElementsMatch(t, []string{"openai", "anthropic"}, body["providers"])
}

func TestLLMEndpoint_HappyPath(t *testing.T) {
	srv := newTestServer()
	payload, _ := json.Marshal(map[string]string{
		"request_id": "req-1",
		"prompt":     "hello there",
		"task_type":  "chat",
		"strategy":   "cost-first",
	})
	req := httptest.NewRequest(http.MethodPost, "/v1/llm", bytes.NewReader(payload))
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp finops.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "openai", resp.Provider)
}

func TestLLMEndpoint_GuardrailViolationReturns422(t *testing.T) {
	srv := newTestServer()
	payload, _ := json.Marshal(map[string]string{
		"request_id": "req-2",
		"prompt":     "what is my SSN",
		"task_type":  "chat",
		"strategy":   "cost-first",
	})
	req := httptest.NewRequest(http.MethodPost, "/v1/llm", bytes.NewReader(payload))
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestLLMEndpoint_MissingFieldsReturns400(t *testing.T) {
	srv := newTestServer()
	payload, _ := json.Marshal(map[string]string{"prompt": "hi"})
	req := httptest.NewRequest(http.MethodPost, "/v1/llm", bytes.NewReader(payload))
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAPIKeyMiddleware_RejectsWrongKey(t *testing.T) {
	srv := newTestServer()
	srv.APIKey = "secret"

	req := httptest.NewRequest(http.MethodGet, "/v1/providers", nil)
	req.Header.Set("X-API-Key", "wrong")
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAPIKeyMiddleware_AllowsCorrectKey(t *testing.T) {
	srv := newTestServer()
	srv.APIKey = "secret"

	req := httptest.NewRequest(http.MethodGet, "/v1/providers", nil)
	req.Header.Set("X-API-Key", "secret")
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAPIKeyMiddleware_BypassesHealthCheck(t *testing.T) {
	srv := newTestServer()
	srv.APIKey = "secret"

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
