package handler

import (
	"log/slog"
	"net/http"

	"github.com/d9705996/ideaportal/internal/api/respond"
	"github.com/d9705996/ideaportal/internal/engagement"
)

// EngagementHandler handles likes and comments under /api/v1/ideas/{id}.
type EngagementHandler struct {
	svc *engagement.Service
	log *slog.Logger
}

// NewEngagementHandler creates an EngagementHandler.
func NewEngagementHandler(svc *engagement.Service, log *slog.Logger) *EngagementHandler {
	return &EngagementHandler{svc: svc, log: log}
}

// LikeResult is the body returned by a successful like.
type LikeResult struct {
	IdeaID uint  `json:"idea_id"`
	Likes  int64 `json:"likes"`
}

// Like handles POST /api/v1/ideas/{id}/like.
func (h *EngagementHandler) Like(w http.ResponseWriter, r *http.Request) {
	const fallback = "failed to like idea"
	id, err := respond.PathID(r, "id")
	if err != nil {
		respond.Fail(w, r, h.log, err, fallback)
		return
	}
	n, err := h.svc.Like(r.Context(), id, callerID(r))
	if err != nil {
		respond.Fail(w, r, h.log, err, fallback)
		return
	}
	respond.JSON(w, http.StatusCreated, LikeResult{IdeaID: id, Likes: n})
}

// ListComments handles GET /api/v1/ideas/{id}/comments.
func (h *EngagementHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	const fallback = "failed to fetch comments"
	id, err := respond.PathID(r, "id")
	if err != nil {
		respond.Fail(w, r, h.log, err, fallback)
		return
	}
	threads, err := h.svc.ListComments(r.Context(), id)
	if err != nil {
		respond.Fail(w, r, h.log, err, fallback)
		return
	}
	respond.JSON(w, http.StatusOK, threads)
}

// AddComment handles POST /api/v1/ideas/{id}/comments.
func (h *EngagementHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	const fallback = "failed to create comment"
	id, err := respond.PathID(r, "id")
	if err != nil {
		respond.Fail(w, r, h.log, err, fallback)
		return
	}
	var in engagement.AddCommentInput
	if err := respond.Decode(w, r, &in); err != nil {
		respond.Fail(w, r, h.log, err, fallback)
		return
	}
	c, err := h.svc.AddComment(r.Context(), id, callerID(r), in)
	if err != nil {
		respond.Fail(w, r, h.log, err, fallback)
		return
	}
	respond.JSON(w, http.StatusCreated, c)
}

// DeleteComment handles DELETE /api/v1/ideas/{id}/comments/{commentId}.
func (h *EngagementHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	const fallback = "failed to delete comment"
	id, err := respond.PathID(r, "id")
	if err != nil {
		respond.Fail(w, r, h.log, err, fallback)
		return
	}
	commentID, err := respond.PathID(r, "commentId")
	if err != nil {
		respond.Fail(w, r, h.log, err, fallback)
		return
	}
	if err := h.svc.DeleteComment(r.Context(), id, commentID, callerID(r)); err != nil {
		respond.Fail(w, r, h.log, err, fallback)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
