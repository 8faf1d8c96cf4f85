// Package api wires all API routes onto the provided ServeMux.
package api

import (
	"net/http"

	"github.com/d9705996/ideaportal/internal/api/handler"
	"github.com/d9705996/ideaportal/internal/api/middleware"
	"github.com/d9705996/ideaportal/internal/api/respond"
	"github.com/d9705996/ideaportal/internal/health"
)

// Handlers bundles every resource handler the router mounts.
type Handlers struct {
	Health        *health.Handler
	Ideas         *handler.IdeaHandler
	Engagement    *handler.EngagementHandler
	Notes         *handler.NotesHandler
	Notifications *handler.NotificationHandler
	Users         *handler.UserHandler
	Analytics     *handler.AnalyticsHandler
}

// RegisterRoutes registers all application routes on mux.
func RegisterRoutes(mux *http.ServeMux, h Handlers, authn *middleware.Authenticator) {
	// Public health endpoints (no auth required)
	mux.HandleFunc("GET /api/v1/health", h.Health.ServeHealth)
	mux.HandleFunc("GET /api/v1/ready", h.Health.ServeReady)

	// Everything else requires a caller and a permission for the route.
	route := func(pattern, perm string, fn http.HandlerFunc) {
		mux.Handle(pattern, authn.RequireAuth(middleware.RequirePermission(perm)(fn)))
	}

	mux.Handle("GET /api/v1/me", authn.RequireAuth(http.HandlerFunc(handler.Me)))

	route("GET /api/v1/ideas", middleware.PermIdeaRead, h.Ideas.List)
	route("POST /api/v1/ideas", middleware.PermIdeaWrite, h.Ideas.Create)
	route("GET /api/v1/ideas/{id}", middleware.PermIdeaRead, h.Ideas.Get)
	route("PUT /api/v1/ideas/{id}", middleware.PermIdeaWrite, h.Ideas.Update)
	route("DELETE /api/v1/ideas/{id}", middleware.PermIdeaWrite, h.Ideas.Delete)
	route("PUT /api/v1/ideas/{id}/status", middleware.PermIdeaTriage, h.Ideas.SetStatus)
	route("GET /api/v1/approvals", middleware.PermIdeaTriage, h.Ideas.Approvals)

	route("POST /api/v1/ideas/{id}/like", middleware.PermIdeaEngage, h.Engagement.Like)
	route("GET /api/v1/ideas/{id}/comments", middleware.PermIdeaRead, h.Engagement.ListComments)
	route("POST /api/v1/ideas/{id}/comments", middleware.PermIdeaEngage, h.Engagement.AddComment)
	route("DELETE /api/v1/ideas/{id}/comments/{commentId}", middleware.PermIdeaEngage, h.Engagement.DeleteComment)

	route("GET /api/v1/ideas/{id}/notes", middleware.PermIdeaRead, h.Notes.List)
	route("PUT /api/v1/ideas/{id}/notes", middleware.PermIdeaWrite, h.Notes.Replace)

	route("GET /api/v1/notifications", middleware.PermNotificationRead, h.Notifications.List)
	route("PUT /api/v1/notifications", middleware.PermNotificationRead, h.Notifications.MarkRead)
	route("GET /api/v1/notifications/unread", middleware.PermNotificationRead, h.Notifications.Unread)

	route("GET /api/v1/users", middleware.PermUserRead, h.Users.List)
	route("POST /api/v1/users", middleware.PermUserManage, h.Users.Create)
	route("PUT /api/v1/users/{id}/role", middleware.PermUserManage, h.Users.SetRole)

	route("GET /api/v1/analytics", middleware.PermAnalyticsRead, h.Analytics.Report)

	// Catch-all 404
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		respond.Error(w, http.StatusNotFound, "not found")
	})
}
