// Package server wires configuration, middleware, and routes into the Gin
// engine.
package server

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"claim-backend/internal/claims"
	"claim-backend/internal/extract"
	"claim-backend/internal/llm"
	"claim-backend/internal/services/health"
	"claim-backend/internal/shared/config"
	"claim-backend/internal/shared/metrics"
	"claim-backend/internal/shared/server/middleware"
	"claim-backend/internal/shared/server/respond"
	"claim-backend/internal/shared/workpool"
)

const apiVersion = "1.0.0"

// NewRouter constructs the Gin engine with middleware and routes registered.
// The returned cleanup drains the worker pools and must run on shutdown.
func NewRouter(cfg config.Config, llmClient llm.Client) (*gin.Engine, func()) {
	gin.SetMode(ginMode(cfg.Env))
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(cfg.CORSAllowOrigin),
	)

	// Dependencies
	m := metrics.New("claim-processor")
	resilient := llm.NewResilientClient(llmClient, m)
	extractPool := workpool.New(cfg.ExtractWorkers)
	llmPool := workpool.New(cfg.LLMWorkers)
	extractor := extract.NewPDFExtractor()
	orchestrator := claims.NewOrchestrator(extractor, resilient, extractPool, llmPool, m)

	healthSvc := health.NewService()

	r.GET("/", func(c *gin.Context) {
		respond.OK(c, gin.H{
			"message": "Claim Processor API",
			"version": apiVersion,
		})
	})
	r.GET("/health", func(c *gin.Context) {
		respond.OK(c, healthSvc.Status())
	})
	r.GET("/metrics", m.Handler())

	claims.NewHandler(orchestrator).RegisterRoutes(r)

	cleanup := func() {
		extractPool.Shutdown()
		llmPool.Shutdown()
	}
	return r, cleanup
}

// ginMode maps the deployment environment onto the Gin mode. Shared and
// production-like environments run quiet; local development keeps the debug
// route dump.
func ginMode(env string) string {
	switch env {
	case "production", "staging":
		return gin.ReleaseMode
	default:
		return gin.DebugMode
	}
}

// Addr returns a normalized listen address for the given port.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return fmt.Sprintf(":%s", port)
}
