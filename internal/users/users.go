// Package users keeps the platform's user directory in step with the
// identity provider and lets admins invite users and assign roles.
package users

import (
	"context"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/d9705996/ideaportal/internal/apperr"
	"github.com/d9705996/ideaportal/internal/model"
	"github.com/d9705996/ideaportal/internal/store"
)

// Profile is what the identity provider tells us about a signed-in caller.
type Profile struct {
	ID        string
	Email     string
	FirstName string
	LastName  string
	ImageURL  string
}

// Service is the user directory.
type Service struct {
	store *store.Store
	log   *slog.Logger
	now   func() time.Time
}

// New creates a Service.
func New(st *store.Store, log *slog.Logger) *Service {
	return &Service{store: st, log: log, now: time.Now}
}

// Sync records a sign-in, creating the user on first sight.
func (s *Service) Sync(ctx context.Context, p Profile) (*model.User, error) {
	if p.ID == "" {
		return nil, apperr.Unauthenticated("token has no subject")
	}
	u := &model.User{
		ID:        p.ID,
		Email:     strings.ToLower(strings.TrimSpace(p.Email)),
		FirstName: p.FirstName,
		LastName:  p.LastName,
		ImageURL:  p.ImageURL,
	}
	out, err := s.store.UpsertSignIn(ctx, u, s.now().UTC())
	if err != nil {
		return nil, fmt.Errorf("sync user: %w", err)
	}
	return out, nil
}

// Get loads one user.
func (s *Service) Get(ctx context.Context, id string) (*model.User, error) {
	return s.store.GetUser(ctx, id)
}

// List returns every user, newest first.
func (s *Service) List(ctx context.Context) ([]model.User, error) {
	out, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return out, nil
}

// InviteInput is the payload for Invite.
type InviteInput struct {
	ID         string           `json:"id"`
	Email      string           `json:"email"`
	FirstName  string           `json:"first_name"`
	LastName   string           `json:"last_name"`
	Department model.Department `json:"department"`
	Role       model.Role       `json:"role"`
}

// Invite adds a user ahead of their first sign-in. ID should be the
// identity provider's subject when known; otherwise one is generated.
func (s *Service) Invite(ctx context.Context, in InviteInput) (*model.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" {
		return nil, apperr.Validation("email is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, apperr.Validation("invalid email %q", in.Email)
	}
	if in.Department != "" && !in.Department.Valid() {
		return nil, apperr.Validation("invalid department %q", in.Department)
	}
	if in.Role == "" {
		in.Role = model.RoleUser
	}
	if !in.Role.Valid() {
		return nil, apperr.Validation("invalid role %q", in.Role)
	}

	u := &model.User{
		ID:         strings.TrimSpace(in.ID),
		Email:      email,
		FirstName:  strings.TrimSpace(in.FirstName),
		LastName:   strings.TrimSpace(in.LastName),
		Department: in.Department,
		Role:       in.Role,
	}
	err := s.store.Transaction(ctx, func(tx *store.Store) error {
		exists, err := tx.UserEmailExists(ctx, email)
		if err != nil {
			return err
		}
		if exists {
			return apperr.Conflict("a user with email %s already exists", email)
		}
		return tx.CreateUser(ctx, u)
	})
	if err != nil {
		return nil, fmt.Errorf("invite user: %w", err)
	}
	s.log.InfoContext(ctx, "user invited", "user_id", u.ID, "role", u.Role)
	return u, nil
}

// SetRole changes a user's role.
func (s *Service) SetRole(ctx context.Context, id string, role model.Role) (*model.User, error) {
	if !role.Valid() {
		return nil, apperr.Validation("invalid role %q", role)
	}
	u, err := s.store.SetUserRole(ctx, id, role)
	if err != nil {
		return nil, fmt.Errorf("set role: %w", err)
	}
	s.log.InfoContext(ctx, "user role changed", "user_id", id, "role", role)
	return u, nil
}
