package handlers

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/logosreach/pathway-engine/pkg/cache"
	"github.com/logosreach/pathway-engine/pkg/llm"
)

// healthCheckTimeout bounds each dependency probe so a hung dependency cannot
// stall the health endpoint.
const healthCheckTimeout = 5 * time.Second

// DBPinger is the database surface the health handler needs.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// CacheHealthChecker reports cache layer health.
type CacheHealthChecker interface {
	Health(ctx context.Context) cache.HealthStatus
}

// HealthResponse is the public GET /health response body.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// ComponentStatus describes one dependency in the detailed health report.
type ComponentStatus struct {
	Status string `json:"status"`
	Detail string `json:"detail,omitempty"`
}

// DetailedHealthResponse is the GET /health/detailed response body.
type DetailedHealthResponse struct {
	Status   string             `json:"status"`
	Version  string             `json:"version"`
	Database ComponentStatus    `json:"database"`
	Cache    cache.HealthStatus `json:"cache"`
	Upstream ComponentStatus    `json:"ai_upstream"`
	Config   map[string]bool    `json:"config"`
}

// HealthHandler serves liveness and dependency health endpoints.
type HealthHandler struct {
	version      string
	db           DBPinger
	cache        CacheHealthChecker
	llmClient    llm.LLMClient
	aiConfigured bool
	redisEnabled bool
	logger       *zap.Logger
}

// NewHealthHandler creates a new HealthHandler. db may be nil in degraded
// deployments; the detailed report will say so.
func NewHealthHandler(version string, db DBPinger, cacheChecker CacheHealthChecker, llmClient llm.LLMClient, aiConfigured, redisEnabled bool, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		version:      version,
		db:           db,
		cache:        cacheChecker,
		llmClient:    llmClient,
		aiConfigured: aiConfigured,
		redisEnabled: redisEnabled,
		logger:       logger,
	}
}

// RegisterRoutes registers the health endpoints. GET /health stays public
// for load balancer probes; /health/detailed goes through the wrapped chain.
func (h *HealthHandler) RegisterRoutes(mux *http.ServeMux, wrap func(http.Handler) http.Handler) {
	mux.HandleFunc("GET /health", h.Health)
	mux.Handle("GET /health/detailed", wrap(http.HandlerFunc(h.DetailedHealth)))
}

// Health handles GET /health. It reports process liveness only and never
// touches dependencies.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if err := WriteJSON(w, http.StatusOK, HealthResponse{Status: "healthy", Version: h.version}); err != nil {
		h.logger.Error("Failed to encode health response", zap.Error(err))
	}
}

// DetailedHealth handles GET /health/detailed. The service is unhealthy only
// when the database is down; cache and AI upstream problems degrade it,
// since submissions cannot be served without storage but the cache has a
// fallback and upstream failures are retried per request.
func (h *HealthHandler) DetailedHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	response := DetailedHealthResponse{
		Status:   "healthy",
		Version:  h.version,
		Database: h.checkDatabase(ctx),
		Cache:    h.cache.Health(ctx),
		Upstream: h.checkUpstream(ctx),
		Config: map[string]bool{
			"ai_configured":       h.aiConfigured,
			"redis_configured":    h.redisEnabled,
			"database_configured": h.db != nil,
		},
	}

	if response.Database.Status != "healthy" {
		response.Status = "unhealthy"
	} else if response.Cache.Status != "healthy" || response.Upstream.Status != "healthy" {
		response.Status = "degraded"
	}

	if err := WriteJSON(w, http.StatusOK, response); err != nil {
		h.logger.Error("Failed to encode detailed health response", zap.Error(err))
	}
}

func (h *HealthHandler) checkDatabase(ctx context.Context) ComponentStatus {
	if h.db == nil {
		return ComponentStatus{Status: "unhealthy", Detail: "database is not configured"}
	}
	if err := h.db.Ping(ctx); err != nil {
		return ComponentStatus{Status: "unhealthy", Detail: err.Error()}
	}
	return ComponentStatus{Status: "healthy"}
}

func (h *HealthHandler) checkUpstream(ctx context.Context) ComponentStatus {
	if !h.aiConfigured {
		return ComponentStatus{Status: "unhealthy", Detail: "AI upstream is not configured"}
	}

	if err := h.llmClient.Probe(ctx); err != nil {
		// Bad credentials will not fix themselves; transient upstream trouble
		// might.
		if llm.GetErrorType(err) == llm.ErrorTypeAuth {
			return ComponentStatus{Status: "unhealthy", Detail: "authentication with AI upstream failed"}
		}
		return ComponentStatus{Status: "degraded", Detail: err.Error()}
	}

	return ComponentStatus{Status: "healthy", Detail: h.llmClient.GetModel()}
}
