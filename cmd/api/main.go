// Package main is the entry point for the API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/bookcrews/community-platform/internal/config"
	"github.com/bookcrews/community-platform/internal/engine"
	"github.com/bookcrews/community-platform/internal/events"
	"github.com/bookcrews/community-platform/internal/handler"
	"github.com/bookcrews/community-platform/internal/llm"
	"github.com/bookcrews/community-platform/internal/middleware"
	"github.com/bookcrews/community-platform/internal/session"
	"github.com/bookcrews/community-platform/internal/trending"
	"github.com/bookcrews/community-platform/pkg/logger"
	"github.com/bookcrews/community-platform/pkg/tracing"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	logger.SetGlobal(log)

	log.Info("starting API server")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize tracing if enabled
	if cfg.TracingEnabled {
		tp, err := tracing.InitTracer(ctx, "community-platform", cfg.TracingEndpoint)
		if err != nil {
			log.Warn("failed to initialize tracing", zap.Error(err))
		} else {
			defer tracing.Shutdown(context.Background(), tp)
		}
	}

	// Connect to NATS for activity events; the platform degrades to a noop
	// publisher when disabled or unreachable.
	var publisher events.Publisher = events.Noop{}
	var natsClient *events.Client
	if cfg.NATSEnabled {
		natsClient, err = events.Connect(ctx, events.Config{
			URL:      cfg.NATSURL,
			CAFile:   cfg.NATSCAFile,
			CertFile: cfg.NATSCertFile,
			KeyFile:  cfg.NATSKeyFile,
			Token:    cfg.NATSToken,
		}, log)
		if err != nil {
			log.Warn("failed to connect to NATS, events disabled", zap.Error(err))
		} else {
			defer natsClient.Close()
			sp := events.NewStreamPublisher(natsClient)
			if err := sp.EnsureStream(ctx); err != nil {
				log.Warn("failed to ensure event stream, events disabled", zap.Error(err))
			} else {
				publisher = sp
			}
		}
	}

	// Initialize the LLM client. A missing key is logged once here; every
	// request then permanently takes the deterministic catalog path.
	var llmClient llm.Client
	if cfg.AnthropicAPIKey != "" || cfg.OpenAIAPIKey != "" {
		provider := llm.Provider(cfg.DefaultLLM)
		apiKey := cfg.AnthropicAPIKey
		if provider == llm.ProviderOpenAI || (apiKey == "" && cfg.OpenAIAPIKey != "") {
			provider = llm.ProviderOpenAI
			apiKey = cfg.OpenAIAPIKey
		}
		llmClient, err = llm.NewClient(provider, apiKey)
		if err != nil {
			log.Warn("failed to create LLM client, generative features disabled", zap.Error(err))
		}
	} else {
		log.Warn("no LLM API key configured, generative features disabled")
	}

	// Initialize stores and the recommendation engine
	sessions := session.NewMemoryStore(cfg.SessionRetention, log)
	trendingCache := trending.New(llmClient, publisher, cfg.TrendingTTL, log)
	eng := engine.New(llmClient, sessions, publisher, log, engine.Options{
		HistoryWindow: cfg.HistoryWindow,
		ForceAt:       cfg.MaxExchangesToForce,
	})

	// Background maintenance: session sweep, startup cache prime, midnight
	// freshness nudge.
	go session.RunSweeper(ctx, sessions, cfg.SessionSweepPeriod)
	go trendingCache.Prime(ctx)
	go trendingCache.RunMidnightRefresh(ctx)

	// Initialize handlers
	healthHandler := handler.NewHealthHandler(natsClient)
	chatHandler := handler.NewChatHandler(eng, log)
	trendingHandler := handler.NewTrendingHandler(trendingCache, log)
	recommendHandler := handler.NewRecommendHandler(eng, log)

	// Create router
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging(log))
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		ExposedHeaders:   []string{"Link", "X-Correlation-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health endpoints (no auth required)
	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)

	// Metrics endpoint
	r.Handle("/metrics", promhttp.Handler())

	// API routes with authentication
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWTSecret))
		r.Use(middleware.RateLimit(cfg.RateLimitRequests, cfg.RateLimitWindow))

		r.Route("/books", func(r chi.Router) {
			r.Get("/trending", trendingHandler.List)
			r.Get("/detail", recommendHandler.Detail)
		})

		r.Route("/recommendations", func(r chi.Router) {
			r.Post("/chat", chatHandler.Chat)
			r.Post("/search", recommendHandler.Search)
			r.Post("/character", recommendHandler.ByCharacter)
			r.Post("/similar", recommendHandler.Similar)
		})
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      r,
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info("server listening", zap.String("port", cfg.ServerPort))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", zap.Error(err))
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")
	cancel()

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}

	log.Info("server stopped")
}
