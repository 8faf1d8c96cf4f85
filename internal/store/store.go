// Package store is the persistence gateway: typed create/read/update/delete
// operations over the relational schema, shared by every service.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/d9705996/ideaportal/internal/apperr"
	"go.opentelemetry.io/otel"
	"gorm.io/gorm"
)

var tracer = otel.Tracer("github.com/d9705996/ideaportal/internal/store")

// Store wraps a *gorm.DB. A Store obtained inside Transaction is bound to the
// open transaction.
type Store struct {
	db *gorm.DB
}

// New creates a Store backed by the given GORM DB.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// DB exposes the underlying handle for callers that need raw access (tests,
// health checks).
func (s *Store) DB() *gorm.DB { return s.db }

// Transaction runs fn inside a single database transaction. Any error
// returned by fn, or a panic, rolls back every write fn made.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	ctx, span := tracer.Start(ctx, "store.Transaction")
	defer span.End()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
	if err != nil {
		span.RecordError(err)
	}
	return err
}

func (s *Store) conn(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

// translate maps GORM sentinel errors onto apperr kinds.
func translate(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperr.NotFound("%s not found", what)
	case errors.Is(err, gorm.ErrDuplicatedKey), isUniqueViolation(err):
		return apperr.Conflict("%s already exists", what)
	default:
		return fmt.Errorf("%s: %w", what, err)
	}
}

// isUniqueViolation catches driver errors that were not translated to
// gorm.ErrDuplicatedKey.
func isUniqueViolation(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value violates unique constraint")
}
