// Package health exposes the /api/v1/health and /api/v1/ready HTTP handlers.
package health

import (
	"context"
	"net/http"
	"time"

	"github.com/d9705996/ideaportal/internal/api/respond"
	"github.com/d9705996/ideaportal/internal/version"
)

// Pinger is implemented by anything that can check a downstream dependency.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler holds dependencies for the health and ready endpoints.
type Handler struct {
	db        Pinger
	cache     Pinger
	startTime time.Time
}

// New creates a Handler. db may be nil during startup before the pool is
// established; in that case /ready will return 503 immediately. cache is
// optional and only checked when set.
func New(db, cache Pinger) *Handler {
	return &Handler{db: db, cache: cache, startTime: time.Now()}
}

// Status is the body of both endpoints.
type Status struct {
	Status        string `json:"status"`
	Version       string `json:"version,omitempty"`
	Commit        string `json:"commit,omitempty"`
	BuildDate     string `json:"build_date,omitempty"`
	UptimeSeconds int64  `json:"uptime_seconds,omitempty"`
}

// ServeHealth handles GET /api/v1/health.
func (h *Handler) ServeHealth(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, Status{
		Status:        "ok",
		Version:       version.Version,
		Commit:        version.Commit,
		BuildDate:     version.Date,
		UptimeSeconds: int64(time.Since(h.startTime).Seconds()),
	})
}

// ServeReady handles GET /api/v1/ready.
// Returns 200 when the database (and Redis, if configured) is reachable;
// 503 otherwise.
func (h *Handler) ServeReady(w http.ResponseWriter, r *http.Request) {
	if h.db == nil {
		respond.Error(w, http.StatusServiceUnavailable, "database connection is not initialised")
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		respond.Error(w, http.StatusServiceUnavailable, "database is unreachable: "+err.Error())
		return
	}
	if h.cache != nil {
		if err := h.cache.Ping(ctx); err != nil {
			respond.Error(w, http.StatusServiceUnavailable, "cache is unreachable: "+err.Error())
			return
		}
	}

	respond.JSON(w, http.StatusOK, Status{Status: "ok"})
}
