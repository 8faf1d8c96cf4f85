// Package handler contains HTTP handlers grouped by resource.
package handler

import (
	"net/http"

	"github.com/d9705996/ideaportal/internal/api/middleware"
	"github.com/d9705996/ideaportal/internal/model"
)

// callerID returns the authenticated caller's id. Routes using it are
// always behind RequireAuth.
func callerID(r *http.Request) string {
	if u := middleware.CallerFromContext(r.Context()); u != nil {
		return u.ID
	}
	return ""
}

func caller(r *http.Request) *model.User {
	return middleware.CallerFromContext(r.Context())
}
