// Package engagement handles likes and threaded comments on ideas.
package engagement

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/d9705996/ideaportal/internal/apperr"
	"github.com/d9705996/ideaportal/internal/metrics"
	"github.com/d9705996/ideaportal/internal/model"
	"github.com/d9705996/ideaportal/internal/store"
)

// maxCommentLength bounds comment bodies.
const maxCommentLength = 4000

// Service is the engagement service.
type Service struct {
	store *store.Store
	log   *slog.Logger
}

// New creates a Service.
func New(st *store.Store, log *slog.Logger) *Service {
	return &Service{store: st, log: log}
}

// Like records that userID likes ideaID and returns the new like count. A
// second like by the same user is a conflict. Counts are always derived
// from the like rows.
func (s *Service) Like(ctx context.Context, ideaID uint, userID string) (int64, error) {
	var count int64
	err := s.store.Transaction(ctx, func(tx *store.Store) error {
		if _, err := tx.GetIdea(ctx, ideaID); err != nil {
			return err
		}
		exists, err := tx.LikeExists(ctx, ideaID, userID)
		if err != nil {
			return err
		}
		if exists {
			return apperr.Conflict("idea %d is already liked", ideaID)
		}
		if err := tx.CreateLike(ctx, &model.IdeaLike{IdeaID: ideaID, UserID: userID}); err != nil {
			return err
		}
		count, err = tx.CountLikes(ctx, ideaID)
		return err
	})
	if err != nil {
		if errors.Is(err, apperr.ErrConflict) {
			metrics.Liked("duplicate")
		}
		return 0, fmt.Errorf("like idea: %w", err)
	}
	metrics.Liked("ok")
	return count, nil
}

// Likers returns the ids of users who liked ideaID, oldest like first.
func (s *Service) Likers(ctx context.Context, ideaID uint) ([]string, error) {
	likes, err := s.store.ListLikes(ctx, ideaID)
	if err != nil {
		return nil, fmt.Errorf("list likes: %w", err)
	}
	out := make([]string, len(likes))
	for i, l := range likes {
		out[i] = l.UserID
	}
	return out, nil
}

// Thread is a top-level comment with its replies.
type Thread struct {
	model.Comment
	Replies []model.Comment `json:"replies"`
}

// AddCommentInput is the payload for AddComment.
type AddCommentInput struct {
	Content  string `json:"content"`
	ParentID *uint  `json:"parent_id"`
}

// AddComment attaches a comment to ideaID. A reply's parent must be a
// top-level comment on the same idea.
func (s *Service) AddComment(ctx context.Context, ideaID uint, userID string, in AddCommentInput) (*model.Comment, error) {
	content := strings.TrimSpace(in.Content)
	if content == "" {
		return nil, apperr.Validation("content is required")
	}
	if len(content) > maxCommentLength {
		return nil, apperr.Validation("content exceeds %d characters", maxCommentLength)
	}
	if _, err := s.store.GetIdea(ctx, ideaID); err != nil {
		return nil, err
	}
	if in.ParentID != nil {
		parent, err := s.store.GetComment(ctx, *in.ParentID)
		if err != nil {
			if errors.Is(err, apperr.ErrNotFound) {
				return nil, apperr.Validation("parent comment %d does not exist", *in.ParentID)
			}
			return nil, fmt.Errorf("load parent comment: %w", err)
		}
		if parent.IdeaID != ideaID {
			return nil, apperr.Validation("parent comment %d belongs to another idea", *in.ParentID)
		}
		if parent.ParentID != nil {
			return nil, apperr.Validation("replies cannot be nested")
		}
	}
	c := &model.Comment{IdeaID: ideaID, UserID: userID, Content: content, ParentID: in.ParentID}
	if err := s.store.CreateComment(ctx, c); err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	kind := "comment"
	if c.ParentID != nil {
		kind = "reply"
	}
	metrics.Commented(kind)
	return c, nil
}

// DeleteComment removes a comment, and its replies, on behalf of its author.
func (s *Service) DeleteComment(ctx context.Context, ideaID, commentID uint, callerID string) error {
	err := s.store.Transaction(ctx, func(tx *store.Store) error {
		c, err := tx.GetComment(ctx, commentID)
		if err != nil {
			return err
		}
		if c.IdeaID != ideaID {
			return apperr.NotFound("comment %d not found on idea %d", commentID, ideaID)
		}
		if c.UserID != callerID {
			return apperr.Forbidden("only the author may delete comment %d", commentID)
		}
		return tx.DeleteCommentThread(ctx, commentID)
	})
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	s.log.InfoContext(ctx, "comment deleted", "idea_id", ideaID, "comment_id", commentID)
	return nil
}

// ListComments returns top-level comments newest first, each with replies
// oldest first.
func (s *Service) ListComments(ctx context.Context, ideaID uint) ([]Thread, error) {
	if _, err := s.store.GetIdea(ctx, ideaID); err != nil {
		return nil, err
	}
	all, err := s.store.ListComments(ctx, ideaID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return buildThreads(all), nil
}

// buildThreads groups comments, given newest first, into threads.
func buildThreads(newestFirst []model.Comment) []Thread {
	threads := []Thread{}
	index := map[uint]int{}
	for _, c := range newestFirst {
		if c.ParentID == nil {
			index[c.ID] = len(threads)
			threads = append(threads, Thread{Comment: c, Replies: []model.Comment{}})
		}
	}
	// Walk backwards so replies come out oldest first.
	for i := len(newestFirst) - 1; i >= 0; i-- {
		c := newestFirst[i]
		if c.ParentID == nil {
			continue
		}
		if pos, ok := index[*c.ParentID]; ok {
			threads[pos].Replies = append(threads[pos].Replies, c)
		}
	}
	return threads
}
