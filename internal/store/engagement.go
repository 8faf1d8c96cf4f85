package store

import (
	"context"

	"github.com/d9705996/ideaportal/internal/model"
	"gorm.io/gorm"
)

// LikeExists reports whether userID already liked ideaID.
func (s *Store) LikeExists(ctx context.Context, ideaID uint, userID string) (bool, error) {
	var n int64
	err := s.conn(ctx).Model(&model.IdeaLike{}).
		Where("idea_id = ? AND user_id = ?", ideaID, userID).
		Count(&n).Error
	if err != nil {
		return false, translate(err, "like")
	}
	return n > 0, nil
}

// CreateLike inserts a like. A second like for the same pair is a conflict.
func (s *Store) CreateLike(ctx context.Context, like *model.IdeaLike) error {
	return translate(s.conn(ctx).Create(like).Error, "like")
}

// ListLikes returns the likes on an idea, oldest first.
func (s *Store) ListLikes(ctx context.Context, ideaID uint) ([]model.IdeaLike, error) {
	likes := []model.IdeaLike{}
	err := s.conn(ctx).Where("idea_id = ?", ideaID).
		Order("created_at ASC, user_id ASC").
		Find(&likes).Error
	if err != nil {
		return nil, translate(err, "likes")
	}
	return likes, nil
}

// CountLikes counts the likes on an idea.
func (s *Store) CountLikes(ctx context.Context, ideaID uint) (int64, error) {
	var n int64
	if err := s.conn(ctx).Model(&model.IdeaLike{}).Where("idea_id = ?", ideaID).Count(&n).Error; err != nil {
		return 0, translate(err, "likes")
	}
	return n, nil
}

// DeleteLikesByIdea removes every like on an idea.
func (s *Store) DeleteLikesByIdea(ctx context.Context, ideaID uint) error {
	return translate(s.conn(ctx).Where("idea_id = ?", ideaID).Delete(&model.IdeaLike{}).Error, "likes")
}

// CreateComment inserts c and fills in its id and timestamp.
func (s *Store) CreateComment(ctx context.Context, c *model.Comment) error {
	return translate(s.conn(ctx).Create(c).Error, "comment")
}

// GetComment loads a comment by id.
func (s *Store) GetComment(ctx context.Context, id uint) (*model.Comment, error) {
	var c model.Comment
	if err := s.conn(ctx).Where("id = ?", id).First(&c).Error; err != nil {
		return nil, translate(err, "comment")
	}
	return &c, nil
}

// ListComments returns every comment on an idea, replies included, newest
// first.
func (s *Store) ListComments(ctx context.Context, ideaID uint) ([]model.Comment, error) {
	comments := []model.Comment{}
	err := s.conn(ctx).Where("idea_id = ?", ideaID).
		Order("created_at DESC, id DESC").
		Find(&comments).Error
	if err != nil {
		return nil, translate(err, "comments")
	}
	return comments, nil
}

// DeleteCommentThread removes a comment together with its replies.
func (s *Store) DeleteCommentThread(ctx context.Context, id uint) error {
	if err := s.conn(ctx).Where("parent_id = ?", id).Delete(&model.Comment{}).Error; err != nil {
		return translate(err, "replies")
	}
	res := s.conn(ctx).Where("id = ?", id).Delete(&model.Comment{})
	if res.Error != nil {
		return translate(res.Error, "comment")
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "comment")
	}
	return nil
}

// DeleteCommentsByIdea removes every comment on an idea, replies first so
// the parent reference never dangles.
func (s *Store) DeleteCommentsByIdea(ctx context.Context, ideaID uint) error {
	if err := s.conn(ctx).Where("idea_id = ? AND parent_id IS NOT NULL", ideaID).Delete(&model.Comment{}).Error; err != nil {
		return translate(err, "replies")
	}
	return translate(s.conn(ctx).Where("idea_id = ?", ideaID).Delete(&model.Comment{}).Error, "comments")
}
