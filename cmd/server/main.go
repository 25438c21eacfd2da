// Package main is the entry point for the dormdesk BFF server.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"dormdesk/internal/config"
	appctx "dormdesk/internal/core/context"
	"dormdesk/internal/domain/paymentplan"
	"dormdesk/internal/domain/registration"
	"dormdesk/internal/infrastructure/backend"
	"dormdesk/internal/infrastructure/draftstore"
	v1 "dormdesk/internal/infrastructure/http/v1"
	"dormdesk/internal/infrastructure/http/v1/handlers"
	"dormdesk/internal/infrastructure/http/v1/middleware"
	"dormdesk/pkg/logger"
)

func main() {
	// A missing .env is fine; the environment may already be populated.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.LogLevel,
		Development: cfg.IsDevelopment(),
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := appctx.WithTrace(logger.WithLogger(context.Background(), log), appctx.NewTraceContext())
	log.Infow("starting dormdesk server", "env", cfg.AppEnv, "backend", cfg.BackendBaseURL)

	// --- Backend ---
	api := backend.NewAPI(backend.NewClient(backend.Config{
		BaseURL: cfg.BackendBaseURL,
		Timeout: cfg.BackendTimeout,
		Tokens:  backend.ContextTokenSource{},
	}))

	// --- Draft store ---
	codec, err := draftstore.NewCodec(cfg.DraftCompressThreshold)
	if err != nil {
		log.Fatalw("failed to create draft codec", "error", err)
	}

	readiness := map[string]handlers.Pinger{"backend": api.Client}

	var drafts registration.DraftRepository
	switch cfg.DraftStore {
	case config.DraftStoreRedis:
		client, err := draftstore.Connect(ctx, cfg.RedisAddr)
		if err != nil {
			log.Fatalw("failed to connect to redis", "addr", cfg.RedisAddr, "error", err)
		}
		defer client.Close()

		store := draftstore.NewRedis(client, codec, cfg.DraftTTL)
		readiness["draft_store"] = store
		drafts = store
		log.Infow("draft store ready", "kind", "redis", "addr", cfg.RedisAddr, "ttl", cfg.DraftTTL)
	default:
		drafts = draftstore.NewMemory(codec, cfg.DraftTTL)
		log.Infow("draft store ready", "kind", "memory", "ttl", cfg.DraftTTL)
	}

	// --- Services ---
	registrations := registration.NewService(registration.ServiceConfig{
		Drafts:  drafts,
		Rooms:   api,
		Prices:  api,
		Gateway: api,
	})
	reconciler := paymentplan.NewReconciler(api, paymentplan.WithCacheTTL(cfg.PaymentCacheTTL))

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Logger:              log,
		API:                 api,
		Registrations:       registrations,
		Reconciler:          reconciler,
		TokenParser:         middleware.NewClaimsParser(),
		ReadinessChecks:     readiness,
		Production:          cfg.IsProduction(),
		DefaultInstallments: cfg.DefaultInstallments,
	})

	// --- HTTP Server ---
	server := &http.Server{
		Addr:         ":" + cfg.AppPort,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "port", cfg.AppPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}
