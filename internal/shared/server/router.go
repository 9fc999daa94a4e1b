package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"thoughts-backend/internal/llm"
	"thoughts-backend/internal/llm/openai"
	"thoughts-backend/internal/shared/config"
	"thoughts-backend/internal/shared/metrics"
	"thoughts-backend/internal/shared/server/middleware"
	"thoughts-backend/internal/shared/server/respond"
	"thoughts-backend/internal/shared/storage/db"
	"thoughts-backend/internal/shared/telemetry"
	"thoughts-backend/internal/thoughts"
)

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(cfg config.Config) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(cfg.CORSAllowOrigin),
		middleware.RateLimit(analysisRateLimits()),
	)

	for _, warning := range cfg.Warnings() {
		telemetry.Warn("config.warning", map[string]any{"warning": warning})
	}

	// Dependencies. The file mirror is the default store; Postgres takes over
	// when DATABASE_URL is set and reachable.
	var repo thoughts.Repo
	if cfg.DatabaseURL != "" {
		dbConn, err := db.Connect(context.Background(), cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
		if err != nil {
			telemetry.Warn("db.connect_failed", map[string]any{"error": err.Error()})
		} else if err := db.RunMigrations(context.Background(), dbConn); err != nil {
			telemetry.Warn("db.migrate_failed", map[string]any{"error": err.Error()})
		} else {
			repo = &thoughts.PGRepo{DB: dbConn}
		}
	}
	if repo == nil {
		repo = thoughts.NewFileRepo(cfg.StorePath)
	}

	var llmClient llm.Client
	client, err := openai.NewClient(cfg.OpenAIAPIKey, cfg.LLMModel)
	if err != nil {
		telemetry.Error("llm.client_init_failed", map[string]any{"error": err.Error()})
	} else {
		llmClient = client
	}

	svc := &thoughts.Service{Repo: repo, LLM: llmClient}
	handler := thoughts.NewHandler(svc)

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	handler.RegisterRoutes(api)

	r.GET("/metrics", metrics.Handler())

	return r
}

// analysisRateLimits throttles routes that trigger a completion request more
// tightly than read-only routes.
func analysisRateLimits() middleware.RateLimitConfig {
	groupFor := func(c *gin.Context) string {
		switch {
		case c.Request.Method == http.MethodPost && c.FullPath() == "/api/v1/thoughts":
			return "ANALYZE"
		case c.Request.Method == http.MethodPost && c.FullPath() == "/api/v1/thoughts/import":
			return "ANALYZE"
		case c.Request.Method == http.MethodPost && c.FullPath() == "/api/v1/thoughts/:id/reanalyze":
			return "ANALYZE"
		case c.Request.Method == http.MethodPut && c.FullPath() == "/api/v1/thoughts/:id":
			return "ANALYZE"
		default:
			return "DEFAULT"
		}
	}
	return middleware.RateLimitConfig{
		DefaultGroup: "DEFAULT",
		GroupFor:     groupFor,
		Rules: map[string]middleware.RateLimitRule{
			"DEFAULT": {Rate: 20, Burst: 40},
			"ANALYZE": {Rate: 1, Burst: 5},
		},
	}
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
