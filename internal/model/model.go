// Package model contains GORM model definitions shared across packages.
// All models are driver-agnostic: they work with both PostgreSQL and SQLite.
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is a platform member. The ID is issued by the identity provider, or
// generated when an administrator invites someone who has not signed in yet.
type User struct {
	ID           string     `gorm:"type:text;primaryKey" json:"id"`
	Email        string     `gorm:"type:text;not null;default:'';index" json:"email"`
	FirstName    string     `gorm:"type:text;not null;default:''" json:"first_name"`
	LastName     string     `gorm:"type:text;not null;default:''" json:"last_name"`
	Department   Department `gorm:"type:text;not null;default:''" json:"department"`
	Role         Role       `gorm:"type:text;not null;default:'user'" json:"role"`
	ImageURL     string     `gorm:"type:text;not null;default:''" json:"image_url"`
	LastSignInAt *time.Time `json:"last_sign_in_at"`
	CreatedAt    time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"not null" json:"updated_at"`
}

// BeforeCreate generates a UUID primary key if not set.
func (u *User) BeforeCreate(_ *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	if u.Role == "" {
		u.Role = RoleUser
	}
	return nil
}

// Idea is a submitted improvement proposal.
type Idea struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Title       string     `gorm:"type:text;not null" json:"title"`
	Description string     `gorm:"type:text;not null;default:''" json:"description"`
	Category    string     `gorm:"type:text;not null;default:''" json:"category"`
	Department  Department `gorm:"type:text;not null;index" json:"department"`
	AuthorID    string     `gorm:"type:text;not null;index" json:"author_id"`
	Status      Status     `gorm:"type:text;not null;default:'pending';index" json:"status"`
	CreatedAt   time.Time  `gorm:"not null;index" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"not null" json:"updated_at"`
}

// Comment belongs to an idea. ParentID is set for replies; replies are one
// level deep.
type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	IdeaID    uint      `gorm:"not null;index" json:"idea_id"`
	UserID    string    `gorm:"type:text;not null" json:"user_id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	ParentID  *uint     `gorm:"index" json:"parent_id,omitempty"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

// IdeaLike records that a user liked an idea. The composite key makes a
// second like by the same user impossible.
type IdeaLike struct {
	IdeaID    uint      `gorm:"primaryKey;autoIncrement:false" json:"idea_id"`
	UserID    string    `gorm:"type:text;primaryKey" json:"user_id"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

// Notification is addressed to a single recipient.
type Notification struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    string    `gorm:"type:text;not null;index" json:"user_id"`
	Type      string    `gorm:"type:text;not null" json:"type"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	IdeaID    *uint     `gorm:"index" json:"idea_id"`
	Read      bool      `gorm:"not null;default:false" json:"read"`
	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
}

// NotificationStatusChange is the type recorded when an idea changes status.
const NotificationStatusChange = "status_change"

// Note is a sticky note pinned to an idea. IDs come from the client and are
// unique per idea.
type Note struct {
	ID      string `gorm:"type:text;primaryKey" json:"id"`
	IdeaID  uint   `gorm:"primaryKey;autoIncrement:false" json:"idea_id"`
	Content string `gorm:"type:text;not null;default:''" json:"content"`
	Color   string `gorm:"type:text;not null;default:''" json:"color"`
	Order   int    `gorm:"column:position;not null;default:0" json:"order"`
}

// BeforeCreate generates a UUID primary key if not set.
func (n *Note) BeforeCreate(_ *gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	return nil
}

// All lists every model, in dependency order, for AutoMigrate.
func All() []any {
	return []any{
		&User{},
		&Idea{},
		&Comment{},
		&IdeaLike{},
		&Notification{},
		&Note{},
	}
}
