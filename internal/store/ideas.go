package store

import (
	"context"
	"time"

	"github.com/d9705996/ideaportal/internal/model"
	"gorm.io/gorm"
)

// IdeaSummary is an idea with its like and comment counts, both counted from
// the underlying rows at read time.
type IdeaSummary struct {
	model.Idea
	LikeCount    int64 `json:"like_count"`
	CommentCount int64 `json:"comment_count"`
}

// IdeaFilter narrows ListIdeas. Zero fields do not filter.
type IdeaFilter struct {
	Department model.Department
	Status     model.Status
	AuthorID   string
}

const summaryColumns = `ideas.*,
	(SELECT COUNT(*) FROM idea_likes WHERE idea_likes.idea_id = ideas.id) AS like_count,
	(SELECT COUNT(*) FROM comments WHERE comments.idea_id = ideas.id) AS comment_count`

// CreateIdea inserts idea and fills in its generated id and timestamps.
func (s *Store) CreateIdea(ctx context.Context, idea *model.Idea) error {
	return translate(s.conn(ctx).Create(idea).Error, "idea")
}

// GetIdea loads a single idea row.
func (s *Store) GetIdea(ctx context.Context, id uint) (*model.Idea, error) {
	var idea model.Idea
	if err := s.conn(ctx).Where("id = ?", id).First(&idea).Error; err != nil {
		return nil, translate(err, "idea")
	}
	return &idea, nil
}

// GetIdeaSummary loads a single idea with its counts.
func (s *Store) GetIdeaSummary(ctx context.Context, id uint) (*IdeaSummary, error) {
	var rows []IdeaSummary
	err := s.conn(ctx).Model(&model.Idea{}).
		Select(summaryColumns).
		Where("ideas.id = ?", id).
		Limit(1).
		Scan(&rows).Error
	if err != nil {
		return nil, translate(err, "idea")
	}
	if len(rows) == 0 {
		return nil, translate(gorm.ErrRecordNotFound, "idea")
	}
	return &rows[0], nil
}

// ListIdeas returns ideas matching f, newest first, with counts.
func (s *Store) ListIdeas(ctx context.Context, f IdeaFilter) ([]IdeaSummary, error) {
	q := s.conn(ctx).Model(&model.Idea{}).Select(summaryColumns)
	if f.Department != "" {
		q = q.Where("ideas.department = ?", f.Department)
	}
	if f.Status != "" {
		q = q.Where("ideas.status = ?", f.Status)
	}
	if f.AuthorID != "" {
		q = q.Where("ideas.author_id = ?", f.AuthorID)
	}
	rows := []IdeaSummary{}
	if err := q.Order("ideas.created_at DESC, ideas.id DESC").Scan(&rows).Error; err != nil {
		return nil, translate(err, "ideas")
	}
	return rows, nil
}

// UpdateIdea applies the given column values to an idea and bumps
// updated_at. Columns absent from fields are left untouched.
func (s *Store) UpdateIdea(ctx context.Context, id uint, fields map[string]any) error {
	fields["updated_at"] = time.Now()
	res := s.conn(ctx).Model(&model.Idea{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return translate(res.Error, "idea")
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "idea")
	}
	return nil
}

// DeleteIdea removes the idea row only. Callers delete dependent rows first,
// inside the same transaction.
func (s *Store) DeleteIdea(ctx context.Context, id uint) error {
	res := s.conn(ctx).Where("id = ?", id).Delete(&model.Idea{})
	if res.Error != nil {
		return translate(res.Error, "idea")
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "idea")
	}
	return nil
}
