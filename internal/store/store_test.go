package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/d9705996/ideaportal/internal/apperr"
	"github.com/d9705996/ideaportal/internal/dbtest"
	"github.com/d9705996/ideaportal/internal/model"
	"github.com/d9705996/ideaportal/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *store.Store {
	t.Helper()
	return store.New(dbtest.Open(t))
}

func createIdea(t *testing.T, s *store.Store, dept model.Department) *model.Idea {
	t.Helper()
	idea := &model.Idea{Title: "t", Description: "d", Category: "feature", Department: dept, AuthorID: "author", Status: model.StatusPending}
	require.NoError(t, s.CreateIdea(context.Background(), idea))
	return idea
}

func TestGetIdea_NotFound(t *testing.T) {
	s := newStore(t)
	_, err := s.GetIdea(context.Background(), 42)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestCreateLike_DuplicateIsConflict(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	idea := createIdea(t, s, model.DepartmentEngineering)

	require.NoError(t, s.CreateLike(ctx, &model.IdeaLike{IdeaID: idea.ID, UserID: "u1"}))
	err := s.CreateLike(ctx, &model.IdeaLike{IdeaID: idea.ID, UserID: "u1"})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrConflict)
}

func TestListIdeas_CountsAndOrder(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	first := createIdea(t, s, model.DepartmentEngineering)
	second := createIdea(t, s, model.DepartmentOperations)

	require.NoError(t, s.CreateLike(ctx, &model.IdeaLike{IdeaID: first.ID, UserID: "u1"}))
	require.NoError(t, s.CreateLike(ctx, &model.IdeaLike{IdeaID: first.ID, UserID: "u2"}))
	require.NoError(t, s.CreateComment(ctx, &model.Comment{IdeaID: first.ID, UserID: "u1", Content: "nice"}))

	all, err := s.ListIdeas(ctx, store.IdeaFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, second.ID, all[0].ID, "newest first")
	assert.Equal(t, int64(2), all[1].LikeCount)
	assert.Equal(t, int64(1), all[1].CommentCount)

	eng, err := s.ListIdeas(ctx, store.IdeaFilter{Department: model.DepartmentEngineering})
	require.NoError(t, err)
	require.Len(t, eng, 1)
	assert.Equal(t, first.ID, eng[0].ID)
}

func TestTransaction_RollsBackOnError(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	idea := createIdea(t, s, model.DepartmentEngineering)

	boom := errors.New("boom")
	err := s.Transaction(ctx, func(tx *store.Store) error {
		require.NoError(t, tx.CreateLike(ctx, &model.IdeaLike{IdeaID: idea.ID, UserID: "u1"}))
		return boom
	})
	require.ErrorIs(t, err, boom)

	n, err := s.CountLikes(ctx, idea.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestUpsertSignIn_PreservesRole(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	u, err := s.UpsertSignIn(ctx, &model.User{ID: "user_1", Email: "a@example.com"}, time.Now())
	require.NoError(t, err)
	assert.Equal(t, model.RoleUser, u.Role)

	_, err = s.SetUserRole(ctx, "user_1", model.RoleAdmin)
	require.NoError(t, err)

	u, err = s.UpsertSignIn(ctx, &model.User{ID: "user_1", Email: "new@example.com", FirstName: "Ada"}, time.Now())
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, u.Role)
	assert.Equal(t, "new@example.com", u.Email)
	assert.Equal(t, "Ada", u.FirstName)
	require.NotNil(t, u.LastSignInAt)
}

func TestPurgeReadNotifications(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	old := time.Now().Add(-48 * time.Hour)

	require.NoError(t, s.CreateNotification(ctx, &model.Notification{UserID: "u", Type: "t", Message: "read old", Read: true, CreatedAt: old}))
	require.NoError(t, s.CreateNotification(ctx, &model.Notification{UserID: "u", Type: "t", Message: "unread old", CreatedAt: old}))
	require.NoError(t, s.CreateNotification(ctx, &model.Notification{UserID: "u", Type: "t", Message: "read new", Read: true}))

	n, err := s.PurgeReadNotifications(ctx, time.Now().Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	left, err := s.ListNotifications(ctx, "u", 10)
	require.NoError(t, err)
	assert.Len(t, left, 2)
}
