package handler

import (
	"log/slog"
	"net/http"

	"github.com/d9705996/ideaportal/internal/analytics"
	"github.com/d9705996/ideaportal/internal/api/respond"
	"github.com/d9705996/ideaportal/internal/model"
)

// AnalyticsHandler handles /api/v1/analytics.
type AnalyticsHandler struct {
	svc *analytics.Service
	log *slog.Logger
}

// NewAnalyticsHandler creates an AnalyticsHandler.
func NewAnalyticsHandler(svc *analytics.Service, log *slog.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{svc: svc, log: log}
}

// Report handles GET /api/v1/analytics?department=.
func (h *AnalyticsHandler) Report(w http.ResponseWriter, r *http.Request) {
	dept := model.Department(r.URL.Query().Get("department"))
	report, err := h.svc.Report(r.Context(), dept)
	if err != nil {
		respond.Fail(w, r, h.log, err, "failed to fetch analytics")
		return
	}
	respond.JSON(w, http.StatusOK, report)
}
