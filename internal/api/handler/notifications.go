package handler

import (
	"log/slog"
	"net/http"

	"github.com/d9705996/ideaportal/internal/api/respond"
	"github.com/d9705996/ideaportal/internal/apperr"
	"github.com/d9705996/ideaportal/internal/notify"
)

// NotificationHandler handles /api/v1/notifications.
type NotificationHandler struct {
	svc *notify.Service
	log *slog.Logger
}

// NewNotificationHandler creates a NotificationHandler.
func NewNotificationHandler(svc *notify.Service, log *slog.Logger) *NotificationHandler {
	return &NotificationHandler{svc: svc, log: log}
}

// List handles GET /api/v1/notifications.
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.ListForUser(r.Context(), callerID(r))
	if err != nil {
		respond.Fail(w, r, h.log, err, "failed to fetch notifications")
		return
	}
	respond.JSON(w, http.StatusOK, out)
}

type markReadRequest struct {
	ID uint `json:"id"`
}

// MarkRead handles PUT /api/v1/notifications with body {"id": n}.
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	const fallback = "failed to update notification"
	var req markReadRequest
	if err := respond.Decode(w, r, &req); err != nil {
		respond.Fail(w, r, h.log, err, fallback)
		return
	}
	if req.ID == 0 {
		respond.Fail(w, r, h.log, apperr.Validation("id is required"), fallback)
		return
	}
	n, err := h.svc.MarkRead(r.Context(), req.ID, callerID(r))
	if err != nil {
		respond.Fail(w, r, h.log, err, fallback)
		return
	}
	respond.JSON(w, http.StatusOK, n)
}

// UnreadCount is the body of GET /api/v1/notifications/unread.
type UnreadCount struct {
	Unread int64 `json:"unread"`
}

// Unread handles GET /api/v1/notifications/unread.
func (h *NotificationHandler) Unread(w http.ResponseWriter, r *http.Request) {
	n, err := h.svc.UnreadCount(r.Context(), callerID(r))
	if err != nil {
		respond.Fail(w, r, h.log, err, "failed to count notifications")
		return
	}
	respond.JSON(w, http.StatusOK, UnreadCount{Unread: n})
}
