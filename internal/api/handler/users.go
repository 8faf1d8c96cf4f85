package handler

import (
	"log/slog"
	"net/http"

	"github.com/d9705996/ideaportal/internal/api/respond"
	"github.com/d9705996/ideaportal/internal/model"
	"github.com/d9705996/ideaportal/internal/users"
)

// UserHandler handles /api/v1/users.
type UserHandler struct {
	svc *users.Service
	log *slog.Logger
}

// NewUserHandler creates a UserHandler.
func NewUserHandler(svc *users.Service, log *slog.Logger) *UserHandler {
	return &UserHandler{svc: svc, log: log}
}

// List handles GET /api/v1/users.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.List(r.Context())
	if err != nil {
		respond.Fail(w, r, h.log, err, "failed to fetch users")
		return
	}
	respond.JSON(w, http.StatusOK, out)
}

// Create handles POST /api/v1/users.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in users.InviteInput
	if err := respond.Decode(w, r, &in); err != nil {
		respond.Fail(w, r, h.log, err, "failed to create user")
		return
	}
	u, err := h.svc.Invite(r.Context(), in)
	if err != nil {
		respond.Fail(w, r, h.log, err, "failed to create user")
		return
	}
	respond.JSON(w, http.StatusCreated, u)
}

type roleRequest struct {
	Role model.Role `json:"role"`
}

// SetRole handles PUT /api/v1/users/{id}/role.
func (h *UserHandler) SetRole(w http.ResponseWriter, r *http.Request) {
	var req roleRequest
	if err := respond.Decode(w, r, &req); err != nil {
		respond.Fail(w, r, h.log, err, "failed to update role")
		return
	}
	u, err := h.svc.SetRole(r.Context(), r.PathValue("id"), req.Role)
	if err != nil {
		respond.Fail(w, r, h.log, err, "failed to update role")
		return
	}
	respond.JSON(w, http.StatusOK, u)
}
