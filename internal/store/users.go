package store

import (
	"context"
	"time"

	"github.com/d9705996/ideaportal/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GetUser loads a user by id.
func (s *Store) GetUser(ctx context.Context, id string) (*model.User, error) {
	var u model.User
	if err := s.conn(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		return nil, translate(err, "user")
	}
	return &u, nil
}

// UserEmailExists reports whether any user already has email.
func (s *Store) UserEmailExists(ctx context.Context, email string) (bool, error) {
	var n int64
	if err := s.conn(ctx).Model(&model.User{}).Where("email = ?", email).Count(&n).Error; err != nil {
		return false, translate(err, "user")
	}
	return n > 0, nil
}

// ListUsers returns every user, newest first.
func (s *Store) ListUsers(ctx context.Context) ([]model.User, error) {
	users := []model.User{}
	if err := s.conn(ctx).Order("created_at DESC, id ASC").Find(&users).Error; err != nil {
		return nil, translate(err, "users")
	}
	return users, nil
}

// CreateUser inserts u. A duplicate id is reported as a conflict.
func (s *Store) CreateUser(ctx context.Context, u *model.User) error {
	return translate(s.conn(ctx).Create(u).Error, "user")
}

// UpsertSignIn records a sign-in for u: the row is created if missing,
// otherwise last_sign_in_at and the non-empty profile fields of u are
// refreshed. Empty claims keep the stored value. Role and department are never
// touched by a sign-in.
func (s *Store) UpsertSignIn(ctx context.Context, u *model.User, at time.Time) (*model.User, error) {
	u.LastSignInAt = &at
	if u.Role == "" {
		u.Role = model.RoleUser
	}
	updates := map[string]any{
		"last_sign_in_at": at,
		"updated_at":      at,
	}
	for col, v := range map[string]string{
		"email":      u.Email,
		"first_name": u.FirstName,
		"last_name":  u.LastName,
		"image_url":  u.ImageURL,
	} {
		if v != "" {
			updates[col] = v
		}
	}
	err := s.conn(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.Assignments(updates),
	}).Create(u).Error
	if err != nil {
		return nil, translate(err, "user")
	}
	return s.GetUser(ctx, u.ID)
}

// SetUserRole changes the role of an existing user.
func (s *Store) SetUserRole(ctx context.Context, id string, role model.Role) (*model.User, error) {
	res := s.conn(ctx).Model(&model.User{}).Where("id = ?", id).
		Updates(map[string]any{"role": role, "updated_at": time.Now()})
	if res.Error != nil {
		return nil, translate(res.Error, "user")
	}
	if res.RowsAffected == 0 {
		return nil, translate(gorm.ErrRecordNotFound, "user")
	}
	return s.GetUser(ctx, id)
}

// CountUsersWithRole counts users holding role.
func (s *Store) CountUsersWithRole(ctx context.Context, role model.Role) (int64, error) {
	var n int64
	if err := s.conn(ctx).Model(&model.User{}).Where("role = ?", role).Count(&n).Error; err != nil {
		return 0, translate(err, "users")
	}
	return n, nil
}
