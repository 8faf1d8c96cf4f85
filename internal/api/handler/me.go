package handler

import (
	"net/http"

	"github.com/d9705996/ideaportal/internal/api/respond"
)

// Me handles GET /api/v1/me: the caller's directory entry as synced from
// the identity provider.
func Me(w http.ResponseWriter, r *http.Request) {
	u := caller(r)
	if u == nil {
		respond.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}
	respond.JSON(w, http.StatusOK, u)
}
