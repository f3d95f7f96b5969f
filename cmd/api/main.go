package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"claim-backend/internal/llm/openai"
	"claim-backend/internal/server"
	"claim-backend/internal/shared/config"
	"claim-backend/internal/shared/telemetry"
)

func main() {
	cfg := config.Load()
	telemetry.SetLevel(cfg.LogLevel)

	if cfg.OpenAIAPIKey == "" {
		log.Fatal("OPENAI_API_KEY is required")
	}
	llmClient, err := openai.NewClient(cfg.OpenAIAPIKey, cfg.LLMModel, openai.Options{
		Timeout:        time.Duration(cfg.LLMTimeoutSecs) * time.Second,
		RequestsPerSec: cfg.LLMRequestsPerSec,
		Burst:          cfg.LLMWorkers,
	})
	if err != nil {
		log.Fatalf("llm client: %v", err)
	}

	engine, cleanup := server.NewRouter(cfg, llmClient)

	addr := server.Addr(cfg.Port)
	srv := &http.Server{Addr: addr, Handler: engine}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("Starting API server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown: %v", err)
	}
	cleanup()
}
