package handler

import (
	"log/slog"
	"net/http"

	"github.com/d9705996/ideaportal/internal/api/respond"
	"github.com/d9705996/ideaportal/internal/engagement"
	"github.com/d9705996/ideaportal/internal/ideas"
	"github.com/d9705996/ideaportal/internal/model"
	"github.com/d9705996/ideaportal/internal/notes"
	"github.com/d9705996/ideaportal/internal/store"
)

// IdeaHandler handles /api/v1/ideas and /api/v1/approvals.
type IdeaHandler struct {
	ideas      *ideas.Service
	engagement *engagement.Service
	notes      *notes.Service
	log        *slog.Logger
}

// NewIdeaHandler creates an IdeaHandler.
func NewIdeaHandler(i *ideas.Service, e *engagement.Service, n *notes.Service, log *slog.Logger) *IdeaHandler {
	return &IdeaHandler{ideas: i, engagement: e, notes: n, log: log}
}

// IdeaDetail is the body of GET /ideas/{id}.
type IdeaDetail struct {
	store.IdeaSummary
	Likes    []string            `json:"likes"`
	Comments []engagement.Thread `json:"comments"`
	Notes    []model.Note        `json:"notes"`
}

// List handles GET /api/v1/ideas?department=&status=.
func (h *IdeaHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	out, err := h.ideas.List(r.Context(), ideas.Filter{
		Department: model.Department(q.Get("department")),
		Status:     model.Status(q.Get("status")),
	})
	if err != nil {
		respond.Fail(w, r, h.log, err, "failed to fetch ideas")
		return
	}
	respond.JSON(w, http.StatusOK, out)
}

// Approvals handles GET /api/v1/approvals?status=, defaulting to pending.
func (h *IdeaHandler) Approvals(w http.ResponseWriter, r *http.Request) {
	status := model.Status(r.URL.Query().Get("status"))
	if status == "" {
		status = model.StatusPending
	}
	out, err := h.ideas.List(r.Context(), ideas.Filter{Status: status})
	if err != nil {
		respond.Fail(w, r, h.log, err, "failed to fetch approvals")
		return
	}
	respond.JSON(w, http.StatusOK, out)
}

// Create handles POST /api/v1/ideas.
func (h *IdeaHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in ideas.CreateInput
	if err := respond.Decode(w, r, &in); err != nil {
		respond.Fail(w, r, h.log, err, "failed to create idea")
		return
	}
	idea, err := h.ideas.Create(r.Context(), in, callerID(r))
	if err != nil {
		respond.Fail(w, r, h.log, err, "failed to create idea")
		return
	}
	respond.JSON(w, http.StatusCreated, idea)
}

// Get handles GET /api/v1/ideas/{id}.
func (h *IdeaHandler) Get(w http.ResponseWriter, r *http.Request) {
	const fallback = "failed to fetch idea"
	id, err := respond.PathID(r, "id")
	if err != nil {
		respond.Fail(w, r, h.log, err, fallback)
		return
	}
	ctx := r.Context()
	idea, err := h.ideas.Get(ctx, id)
	if err != nil {
		respond.Fail(w, r, h.log, err, fallback)
		return
	}
	detail := IdeaDetail{IdeaSummary: *idea}
	if detail.Likes, err = h.engagement.Likers(ctx, id); err != nil {
		respond.Fail(w, r, h.log, err, fallback)
		return
	}
	if detail.Comments, err = h.engagement.ListComments(ctx, id); err != nil {
		respond.Fail(w, r, h.log, err, fallback)
		return
	}
	if detail.Notes, err = h.notes.List(ctx, id); err != nil {
		respond.Fail(w, r, h.log, err, fallback)
		return
	}
	respond.JSON(w, http.StatusOK, detail)
}

// Update handles PUT /api/v1/ideas/{id}.
func (h *IdeaHandler) Update(w http.ResponseWriter, r *http.Request) {
	const fallback = "failed to update idea"
	id, err := respond.PathID(r, "id")
	if err != nil {
		respond.Fail(w, r, h.log, err, fallback)
		return
	}
	var in ideas.UpdateInput
	if err := respond.Decode(w, r, &in); err != nil {
		respond.Fail(w, r, h.log, err, fallback)
		return
	}
	idea, err := h.ideas.Update(r.Context(), id, in, callerID(r))
	if err != nil {
		respond.Fail(w, r, h.log, err, fallback)
		return
	}
	respond.JSON(w, http.StatusOK, idea)
}

// Delete handles DELETE /api/v1/ideas/{id}.
func (h *IdeaHandler) Delete(w http.ResponseWriter, r *http.Request) {
	const fallback = "failed to delete idea"
	id, err := respond.PathID(r, "id")
	if err != nil {
		respond.Fail(w, r, h.log, err, fallback)
		return
	}
	if err := h.ideas.Delete(r.Context(), id, callerID(r)); err != nil {
		respond.Fail(w, r, h.log, err, fallback)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type statusRequest struct {
	Status model.Status `json:"status"`
}

// SetStatus handles PUT /api/v1/ideas/{id}/status.
func (h *IdeaHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	const fallback = "failed to update status"
	id, err := respond.PathID(r, "id")
	if err != nil {
		respond.Fail(w, r, h.log, err, fallback)
		return
	}
	var req statusRequest
	if err := respond.Decode(w, r, &req); err != nil {
		respond.Fail(w, r, h.log, err, fallback)
		return
	}
	idea, err := h.ideas.SetStatus(r.Context(), id, req.Status, callerID(r))
	if err != nil {
		respond.Fail(w, r, h.log, err, fallback)
		return
	}
	respond.JSON(w, http.StatusOK, idea)
}
