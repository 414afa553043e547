package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/harborml/ragward/internal/auth"
	"github.com/harborml/ragward/internal/config"
	"github.com/harborml/ragward/internal/embedding"
	"github.com/harborml/ragward/internal/gateway"
	"github.com/harborml/ragward/internal/guardrail"
	"github.com/harborml/ragward/internal/guardrail/harmful"
	"github.com/harborml/ragward/internal/guardrail/injection"
	"github.com/harborml/ragward/internal/guardrail/pii"
	"github.com/harborml/ragward/internal/llm"
	"github.com/harborml/ragward/internal/ratelimit"
	"github.com/harborml/ragward/internal/retrieval"
	"github.com/harborml/ragward/internal/telemetry"
)

var version = "dev"

func main() {
	configDir := flag.String("config", "configs", "path to configuration directory")
	flag.Parse()

	loader := config.NewLoader(*configDir, slog.Default())
	if err := loader.Load(); err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	cfg := loader.Config()

	logger := newLogger(cfg.Telemetry)
	slog.SetDefault(logger)

	if err := loader.Watch(); err != nil {
		logger.Warn("failed to start config watcher", "error", err)
	}

	// Connect to PostgreSQL
	dbPool, err := pgxpool.New(context.Background(), cfg.Database.DSN())
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	if err := dbPool.Ping(context.Background()); err != nil {
		logger.Warn("database not reachable (retrieval will fail until it is)", "error", err)
	} else {
		logger.Info("database connected")
	}

	// Connect to Redis
	var rdb *redis.Client
	if cfg.Redis.Address != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			logger.Warn("redis not reachable (key cache and rate limiting disabled)", "error", err)
			rdb = nil
		} else {
			logger.Info("redis connected")
		}
	}

	metrics := telemetry.NewMetrics()

	// Embedding with a versioned query cache; config reloads invalidate it.
	embedder := embedding.NewOpenAIEmbedder(func() config.EmbeddingConfig {
		return loader.Config().Embedding
	}, http.DefaultClient)
	embedCache := embedding.NewCache(embedding.DefaultCacheCapacity, cfg.Embedding.Version)
	cachedEmbedder := embedding.NewCachedEmbedder(embedder, embedCache, metrics)

	loader.OnReload(func() {
		embedCache.Invalidate(loader.Config().Embedding.Version)
		logger.Info("configuration reloaded", "embedding_version", loader.Config().Embedding.Version)
	})

	// LLM provider bound at startup, failing fast on bad credentials.
	provider, err := llm.ParseProvider(cfg.LLM.Provider)
	if err != nil {
		logger.Error("invalid llm provider", "error", err)
		os.Exit(1)
	}
	model := llm.ResolveModel(provider, cfg.LLM.Model, "")
	client, err := llm.Resolve(context.Background(), provider, model, &http.Client{Timeout: cfg.LLM.Timeout})
	if err != nil {
		logger.Error("failed to initialise llm provider", "provider", provider, "error", err)
		os.Exit(1)
	}
	logger.Info("llm provider ready", "provider", provider, "model", model)

	generator := llm.NewGenerator(client, logger, metrics)

	store := retrieval.NewStore(dbPool)
	handler := gateway.NewHandler(loader.Config, cachedEmbedder, store, generator, metrics)

	// Guardrail checkers share the hot-reloadable input-checks config.
	inputChecks := func() config.InputChecksConfig {
		return loader.Guardrail().InputChecks
	}
	guard := guardrail.NewGateway(loader.Guardrail, []guardrail.Checker{
		pii.NewChecker(inputChecks),
		injection.NewChecker(inputChecks),
		harmful.NewChecker(inputChecks),
		guardrail.NewLengthChecker(inputChecks),
	}, metrics)

	keyStore := auth.NewCachedKeyStore(dbPool, rdb)
	limiter := ratelimit.NewLimiter(rdb)

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestIDMiddleware)

	r.Get("/health", healthHandler)

	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware(keyStore))
		r.Use(ratelimit.Middleware(limiter, func() config.RateLimitConfig {
			return loader.Config().RateLimit
		}, metrics))
		r.Use(guard.Middleware)
		r.Post("/chat", handler.Chat)
		r.Post("/query", handler.Query)
	})

	// Metrics on a separate listener.
	if port := cfg.Telemetry.MetricsPort; port > 0 {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			addr := fmt.Sprintf(":%d", port)
			logger.Info("metrics server starting", "addr", addr)
			if err := http.ListenAndServe(addr, mux); err != nil {
				logger.Error("metrics server failed", "error", err)
			}
		}()
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("ragward starting", "addr", addr, "version", version)
		errCh <- srv.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		logger.Info("received shutdown signal", "signal", sig)
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.GracefulShutdown)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
	logger.Info("ragward stopped")
}

func newLogger(cfg config.TelemetryConfig) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.LogFormat == "text" {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "healthy",
		"version": version,
	})
}

func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get("X-Request-ID")
		if reqID == "" {
			reqID = generateRequestID()
		}
		w.Header().Set("X-Request-ID", reqID)
		next.ServeHTTP(w, r)
	})
}

func generateRequestID() string {
	b := make([]byte, 8)
	rand.Read(b)
	return fmt.Sprintf("req_%d_%s", time.Now().UnixMilli(), hex.EncodeToString(b))
}
