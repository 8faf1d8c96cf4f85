package handler

import (
	"log/slog"
	"net/http"

	"github.com/d9705996/ideaportal/internal/api/respond"
	"github.com/d9705996/ideaportal/internal/notes"
)

// NotesHandler handles /api/v1/ideas/{id}/notes.
type NotesHandler struct {
	svc *notes.Service
	log *slog.Logger
}

// NewNotesHandler creates a NotesHandler.
func NewNotesHandler(svc *notes.Service, log *slog.Logger) *NotesHandler {
	return &NotesHandler{svc: svc, log: log}
}

type replaceNotesRequest struct {
	Notes []notes.Input `json:"notes"`
}

// List handles GET /api/v1/ideas/{id}/notes.
func (h *NotesHandler) List(w http.ResponseWriter, r *http.Request) {
	id, err := respond.PathID(r, "id")
	if err != nil {
		respond.Fail(w, r, h.log, err, "failed to fetch notes")
		return
	}
	out, err := h.svc.List(r.Context(), id)
	if err != nil {
		respond.Fail(w, r, h.log, err, "failed to fetch notes")
		return
	}
	respond.JSON(w, http.StatusOK, out)
}

// Replace handles PUT /api/v1/ideas/{id}/notes with body {"notes": [...]}.
// The array order becomes the display order.
func (h *NotesHandler) Replace(w http.ResponseWriter, r *http.Request) {
	const fallback = "failed to update notes"
	id, err := respond.PathID(r, "id")
	if err != nil {
		respond.Fail(w, r, h.log, err, fallback)
		return
	}
	var req replaceNotesRequest
	if err := respond.Decode(w, r, &req); err != nil {
		respond.Fail(w, r, h.log, err, fallback)
		return
	}
	out, err := h.svc.Replace(r.Context(), id, req.Notes, callerID(r))
	if err != nil {
		respond.Fail(w, r, h.log, err, fallback)
		return
	}
	respond.JSON(w, http.StatusOK, out)
}
