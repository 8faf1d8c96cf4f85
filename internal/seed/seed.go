// Package seed promotes a configured identity to admin on first boot when
// no admin exists yet.
package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/d9705996/ideaportal/internal/apperr"
	"github.com/d9705996/ideaportal/internal/model"
	"github.com/d9705996/ideaportal/internal/store"
)

// AdminOptions configures the seed admin user.
type AdminOptions struct {
	// ID is the identity provider subject of the first admin.
	ID    string
	Email string
}

// EnsureAdmin makes opts.ID an admin if no admin exists. A user row is
// created for an identity that has never signed in. The function is
// idempotent and safe to call on every startup.
func EnsureAdmin(ctx context.Context, st *store.Store, opts AdminOptions, log *slog.Logger) error {
	admins, err := st.CountUsersWithRole(ctx, model.RoleAdmin)
	if err != nil {
		return fmt.Errorf("count admins: %w", err)
	}
	if admins > 0 {
		log.Info("seed admin already exists")
		return nil
	}
	if opts.ID == "" {
		log.Warn("no admin exists and SEED_ADMIN_ID is not set; user management is unavailable")
		return nil
	}

	_, err = st.SetUserRole(ctx, opts.ID, model.RoleAdmin)
	switch {
	case err == nil:
		log.Info("seed admin promoted", "user_id", opts.ID)
		return nil
	case !errors.Is(err, apperr.ErrNotFound):
		return fmt.Errorf("promote seed admin: %w", err)
	}

	u := &model.User{ID: opts.ID, Email: opts.Email, FirstName: "Seed", LastName: "Admin", Role: model.RoleAdmin}
	if err := st.CreateUser(ctx, u); err != nil {
		return fmt.Errorf("insert seed admin: %w", err)
	}
	log.Info("seed admin created", "user_id", opts.ID, "email", opts.Email)
	return nil
}
