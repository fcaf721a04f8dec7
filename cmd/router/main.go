// Command router is the FinOps LLM Router's HTTP entrypoint: it wires
// providers, strategies, guardrails, telemetry, and observability together
// and serves the HTTP façade, mirroring the teacher's main() in
// backend-go-agent-planner.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sony/gobreaker"

	"finops-llm-router/internal/config"
	"finops-llm-router/internal/finops"
	"finops-llm-router/internal/guardrails"
	"finops-llm-router/internal/httpapi"
	"finops-llm-router/internal/logger"
	"finops-llm-router/internal/observability"
	"finops-llm-router/internal/provider"
	"finops-llm-router/internal/strategy"
	"finops-llm-router/internal/telemetry"
)

// buildProviders wires every provider whose credentials are present in the
// environment, falling back to a single mock provider so the router is
// usable with zero external credentials configured (dev/demo mode).
func buildProviders(ctx context.Context, log interface {
	Warn(msg string, args ...any)
}) *provider.Registry {
	var providers []provider.Provider

	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		providers = append(providers, provider.NewOpenAIProvider(key, os.Getenv("OPENAI_BASE_URL"), os.Getenv("OPENAI_MODEL")))
	}
	if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" {
		providers = append(providers, provider.NewAnthropicProvider(key, os.Getenv("ANTHROPIC_MODEL")))
	}
	if region := os.Getenv("AWS_REGION"); region != "" {
		bp, err := provider.NewBedrockProvider(ctx, region, os.Getenv("BEDROCK_MODEL"))
		if err != nil {
			log.Warn("bedrock_init_failed", "error", err)
		} else {
			providers = append(providers, bp)
		}
	}
	if len(providers) == 0 {
		log.Warn("no_real_providers_configured", "warning", "falling back to mock provider - set OPENAI_API_KEY/ANTHROPIC_API_KEY/AWS_REGION for real routing")
		providers = append(providers, provider.NewMockProvider("mock"))
	}

	return provider.NewRegistry(providers...)
}

// buildBreakers wires one circuit breaker per registered provider.
func buildBreakers(providers *provider.Registry) map[string]*gobreaker.CircuitBreaker {
	breakers := make(map[string]*gobreaker.CircuitBreaker, len(providers.Names()))
	for _, name := range providers.Names() {
		breakers[name] = finops.NewDefaultBreaker(name)
	}
	return breakers
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	log := logger.FromContext(ctx)
	cfg := config.FromEnv()

	shutdownOTel, promHandler, err := observability.Init(ctx, "finops-llm-router")
	if err != nil {
		log.Error("otel_init_failed", "error", err)
		os.Exit(1)
	}
	defer func() { _ = shutdownOTel(context.Background()) }()

	providers := buildProviders(ctx, log)
	breakers := buildBreakers(providers)

	sqliteCollector, err := telemetry.NewSQLiteCollector(cfg.DBPath)
	if err != nil {
		log.Error("telemetry_init_failed", "error", err)
		os.Exit(1)
	}

	var collector telemetry.Collector = sqliteCollector
	if cfg.RedisAddr != "" {
		fanout := telemetry.NewRedisFanoutCollector(sqliteCollector, cfg.RedisAddr)
		defer func() { _ = fanout.Close() }()
		collector = fanout
	}

	o := finops.NewOrchestrator(
		guardrails.New(nil),
		providers,
		strategy.NewDefaultRegistry(),
		collector,
		breakers,
	)

	srv := &httpapi.Server{
		Orchestrator: o,
		APIKey:       cfg.APIKey,
		PromHandler:  promHandler,
	}

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: srv.Router(),
	}

	go func() {
		log.Info("router_listening", "port", cfg.Port, "providers", providers.Names())
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("http_server_failed", "port", cfg.Port, "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("server_shutdown_start")
	ctxTimeout, cancelTimeout := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelTimeout()

	if err := httpServer.Shutdown(ctxTimeout); err != nil {
		log.Error("server_shutdown_forced", "error", err)
		os.Exit(1)
	}
	if err := sqliteCollector.Close(); err != nil {
		log.Error("telemetry_close_failed", "error", err)
	}
	log.Info("server_shutdown_complete")
}
