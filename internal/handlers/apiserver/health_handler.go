package apiserver

import (
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// HealthHandler exposes the operational probes. Liveness is unconditional;
// readiness requires the database; the full health report also covers redis.
type HealthHandler struct {
	db        *gorm.DB
	redis     *redis.Client // may be nil when the blacklist is disabled
	version   string
	startedAt time.Time
}

// NewHealthHandler creates a new HealthHandler instance.
func NewHealthHandler(db *gorm.DB, redisClient *redis.Client, version string) *HealthHandler {
	return &HealthHandler{
		db:        db,
		redis:     redisClient,
		version:   version,
		startedAt: time.Now(),
	}
}

// Live handles GET /live.
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	writeJSONResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Ready handles GET /ready.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	if err := h.pingDB(r); err != nil {
		writeJSONResponse(w, http.StatusServiceUnavailable, map[string]string{
			"status": "unavailable",
			"error":  err.Error(),
		})
		return
	}
	writeJSONResponse(w, http.StatusOK, map[string]string{"status": "ready"})
}

// Health handles GET /health.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	dbStatus := "healthy"
	overall := "ok"
	if err := h.pingDB(r); err != nil {
		dbStatus = "unhealthy"
		overall = "error"
	}

	redisStatus := "disabled"
	if h.redis != nil {
		redisStatus = "healthy"
		if err := h.redis.Ping(r.Context()).Err(); err != nil {
			redisStatus = "unhealthy"
			if overall == "ok" {
				overall = "degraded"
			}
		}
	}

	status := http.StatusOK
	if overall == "error" {
		status = http.StatusServiceUnavailable
	}

	writeJSONResponse(w, status, map[string]any{
		"status":    overall,
		"version":   h.version,
		"uptime":    time.Since(h.startedAt).Round(time.Second).String(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"services": map[string]string{
			"database": dbStatus,
			"redis":    redisStatus,
		},
	})
}

func (h *HealthHandler) pingDB(r *http.Request) error {
	sqlDB, err := h.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(r.Context())
}
