package store

import (
	"context"

	"github.com/d9705996/ideaportal/internal/model"
)

// ListNotes returns an idea's notes in display order.
func (s *Store) ListNotes(ctx context.Context, ideaID uint) ([]model.Note, error) {
	notes := []model.Note{}
	if err := s.conn(ctx).Where("idea_id = ?", ideaID).Order("position ASC").Find(&notes).Error; err != nil {
		return nil, translate(err, "notes")
	}
	return notes, nil
}

// DeleteNotesByIdea removes every note attached to ideaID.
func (s *Store) DeleteNotesByIdea(ctx context.Context, ideaID uint) error {
	return translate(s.conn(ctx).Where("idea_id = ?", ideaID).Delete(&model.Note{}).Error, "notes")
}

// CreateNotes inserts notes in one batch. An empty slice is a no-op.
func (s *Store) CreateNotes(ctx context.Context, notes []model.Note) error {
	if len(notes) == 0 {
		return nil
	}
	return translate(s.conn(ctx).Create(&notes).Error, "notes")
}
