// Package middleware provides HTTP middleware for the ideas portal.
package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/d9705996/ideaportal/internal/api/respond"
	"github.com/d9705996/ideaportal/internal/apperr"
	"github.com/d9705996/ideaportal/internal/auth"
	"github.com/d9705996/ideaportal/internal/model"
	"github.com/d9705996/ideaportal/internal/users"
)

type contextKey string

const callerKey contextKey = "caller"

// UserSyncer records a sign-in and returns the caller's directory entry.
type UserSyncer interface {
	Sync(ctx context.Context, p users.Profile) (*model.User, error)
}

// Authenticator validates bearer tokens from the identity provider.
type Authenticator struct {
	Secret string
	Issuer string
	Users  UserSyncer
	Log    *slog.Logger
}

// RequireAuth validates the Bearer JWT in the Authorization header, syncs
// the caller into the user directory and injects the *model.User into the
// request context. On failure it writes a 401.
func (a *Authenticator) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractBearerToken(r)
		if token == "" {
			respond.Error(w, http.StatusUnauthorized, "authorization header is required")
			return
		}

		claims, err := auth.ParseAccessToken(token, a.Secret, a.Issuer)
		if err != nil {
			a.Log.DebugContext(r.Context(), "rejected access token", "error", err)
			respond.Error(w, http.StatusUnauthorized, "access token is invalid or expired")
			return
		}

		user, err := a.Users.Sync(r.Context(), users.Profile{
			ID:        claims.CallerID(),
			Email:     claims.Email,
			FirstName: claims.FirstName,
			LastName:  claims.LastName,
			ImageURL:  claims.ImageURL,
		})
		if err != nil {
			if errors.Is(err, apperr.ErrUnauthenticated) {
				respond.Error(w, http.StatusUnauthorized, apperr.Message(err, "unauthenticated"))
				return
			}
			respond.Fail(w, r, a.Log, err, "failed to resolve caller")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithCaller(r.Context(), user)))
	})
}

// WithCaller returns a copy of ctx carrying u.
func WithCaller(ctx context.Context, u *model.User) context.Context {
	return context.WithValue(ctx, callerKey, u)
}

// CallerFromContext extracts the authenticated user from the request
// context. Returns nil if not present.
func CallerFromContext(ctx context.Context) *model.User {
	u, _ := ctx.Value(callerKey).(*model.User)
	return u
}

// RequirePermission checks that the authenticated user's role grants the
// given permission string. Must be chained after RequireAuth.
func RequirePermission(perm string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := CallerFromContext(r.Context())
			if user == nil {
				respond.Error(w, http.StatusUnauthorized, "authentication required")
				return
			}
			if !HasPermission(user.Role, perm) {
				respond.Error(w, http.StatusForbidden, "your role does not grant the '"+perm+"' permission")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func extractBearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// Permissions checked by the router.
const (
	PermIdeaRead         = "idea:read"
	PermIdeaWrite        = "idea:write"
	PermIdeaEngage       = "idea:engage"
	PermIdeaTriage       = "idea:triage"
	PermNotificationRead = "notification:read"
	PermAnalyticsRead    = "analytics:read"
	PermUserRead         = "user:read"
	PermUserManage       = "user:manage"
)

// rolePermissions maps roles to their allowed permission strings. Ownership
// checks on individual ideas and comments happen in the services.
var rolePermissions = map[model.Role][]string{
	model.RoleUser: {
		PermIdeaRead, PermIdeaWrite, PermIdeaEngage,
		PermNotificationRead,
	},
	model.RoleModerator: {
		PermIdeaRead, PermIdeaWrite, PermIdeaEngage, PermIdeaTriage,
		PermNotificationRead,
		PermAnalyticsRead,
		PermUserRead,
	},
	model.RoleAdmin: {"*"},
}

// HasPermission reports whether role grants perm.
func HasPermission(role model.Role, perm string) bool {
	for _, p := range rolePermissions[role] {
		if p == "*" || p == perm {
			return true
		}
	}
	return false
}
