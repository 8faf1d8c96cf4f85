package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/d9705996/ideaportal/internal/analytics"
	"github.com/d9705996/ideaportal/internal/api"
	"github.com/d9705996/ideaportal/internal/api/handler"
	"github.com/d9705996/ideaportal/internal/api/middleware"
	"github.com/d9705996/ideaportal/internal/auth"
	"github.com/d9705996/ideaportal/internal/cache"
	"github.com/d9705996/ideaportal/internal/db"
	"github.com/d9705996/ideaportal/internal/dbtest"
	"github.com/d9705996/ideaportal/internal/engagement"
	"github.com/d9705996/ideaportal/internal/health"
	"github.com/d9705996/ideaportal/internal/ideas"
	"github.com/d9705996/ideaportal/internal/model"
	"github.com/d9705996/ideaportal/internal/notes"
	"github.com/d9705996/ideaportal/internal/notify"
	"github.com/d9705996/ideaportal/internal/store"
	"github.com/d9705996/ideaportal/internal/users"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret-at-least-32-bytes-long"

type testServer struct {
	t     *testing.T
	srv   *httptest.Server
	store *store.Store
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gdb := dbtest.Open(t)
	st := store.New(gdb)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	notifier := notify.New(st, notify.DefaultPageSize, log)
	stats := analytics.New(st, cache.NewMemory(), time.Minute, log)
	ideaSvc := ideas.New(st, notifier, stats.Invalidate, log)
	engage := engagement.New(st, log)
	noteSvc := notes.New(st, log)
	userSvc := users.New(st, log)

	mux := http.NewServeMux()
	api.RegisterRoutes(mux, api.Handlers{
		Health:        health.New(db.NewPinger(gdb), nil),
		Ideas:         handler.NewIdeaHandler(ideaSvc, engage, noteSvc, log),
		Engagement:    handler.NewEngagementHandler(engage, log),
		Notes:         handler.NewNotesHandler(noteSvc, log),
		Notifications: handler.NewNotificationHandler(notifier, log),
		Users:         handler.NewUserHandler(userSvc, log),
		Analytics:     handler.NewAnalyticsHandler(stats, log),
	}, &middleware.Authenticator{Secret: secret, Users: userSvc, Log: log})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	// The admin exists before signing in, as the seed would create them.
	require.NoError(t, st.CreateUser(context.Background(), &model.User{ID: "admin", Email: "admin@example.com", Role: model.RoleAdmin}))
	return &testServer{t: t, srv: srv, store: st}
}

func (s *testServer) do(method, path, user string, body any) (int, []byte) {
	s.t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(s.t, err)
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, s.srv.URL+path, rd)
	require.NoError(s.t, err)
	if user != "" {
		tok, err := auth.IssueAccessToken(auth.Identity{UserID: user, Email: user + "@example.com"}, secret, "", time.Minute)
		require.NoError(s.t, err)
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(s.t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(s.t, err)
	return resp.StatusCode, out
}

func (s *testServer) decode(raw []byte, v any) {
	s.t.Helper()
	require.NoError(s.t, json.Unmarshal(raw, v), string(raw))
}

type ideaBody struct {
	ID           uint   `json:"id"`
	Status       string `json:"status"`
	AuthorID     string `json:"author_id"`
	LikeCount    int64  `json:"like_count"`
	CommentCount int64  `json:"comment_count"`
}

func TestIdeaLifecycle(t *testing.T) {
	s := newTestServer(t)

	code, raw := s.do(http.MethodPost, "/api/v1/ideas", "user-a", map[string]string{
		"title": "X", "description": "Y", "category": "feature", "department": "Engineering",
	})
	require.Equal(t, http.StatusCreated, code, string(raw))
	var created ideaBody
	s.decode(raw, &created)
	ideaPath := fmt.Sprintf("/api/v1/ideas/%d", created.ID)

	code, raw = s.do(http.MethodGet, ideaPath, "user-a", nil)
	require.Equal(t, http.StatusOK, code, string(raw))
	var got ideaBody
	s.decode(raw, &got)
	assert.Equal(t, "pending", got.Status)
	assert.Zero(t, got.LikeCount)
	assert.Zero(t, got.CommentCount)

	code, raw = s.do(http.MethodPost, ideaPath+"/like", "user-b", nil)
	require.Equal(t, http.StatusCreated, code, string(raw))
	code, _ = s.do(http.MethodPost, ideaPath+"/like", "user-b", nil)
	assert.Equal(t, http.StatusConflict, code)

	_, raw = s.do(http.MethodGet, ideaPath, "user-a", nil)
	s.decode(raw, &got)
	assert.Equal(t, int64(1), got.LikeCount)

	// Plain users cannot triage.
	code, _ = s.do(http.MethodPut, ideaPath+"/status", "user-b", map[string]string{"status": "approved"})
	assert.Equal(t, http.StatusForbidden, code)

	code, raw = s.do(http.MethodPut, ideaPath+"/status", "admin", map[string]string{"status": "approved"})
	require.Equal(t, http.StatusOK, code, string(raw))
	s.decode(raw, &got)
	assert.Equal(t, "approved", got.Status)

	code, raw = s.do(http.MethodGet, "/api/v1/notifications", "user-a", nil)
	require.Equal(t, http.StatusOK, code)
	var inbox []store.NotificationView
	s.decode(raw, &inbox)
	require.Len(t, inbox, 1)
	assert.Contains(t, inbox[0].Message, "approved")
	assert.Equal(t, "X", inbox[0].IdeaTitle)

	code, raw = s.do(http.MethodGet, "/api/v1/notifications/unread", "user-a", nil)
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"unread":1}`, string(raw))

	code, _ = s.do(http.MethodPut, "/api/v1/notifications", "user-b", map[string]uint{"id": inbox[0].ID})
	assert.Equal(t, http.StatusForbidden, code)
	code, _ = s.do(http.MethodPut, "/api/v1/notifications", "user-a", map[string]uint{"id": inbox[0].ID})
	assert.Equal(t, http.StatusOK, code)

	code, _ = s.do(http.MethodDelete, ideaPath, "user-b", nil)
	assert.Equal(t, http.StatusForbidden, code)
	code, _ = s.do(http.MethodDelete, ideaPath, "user-a", nil)
	assert.Equal(t, http.StatusNoContent, code)
	code, _ = s.do(http.MethodGet, ideaPath, "user-a", nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestCommentDeletion(t *testing.T) {
	s := newTestServer(t)
	_, raw := s.do(http.MethodPost, "/api/v1/ideas", "user-a", map[string]string{
		"title": "X", "description": "Y", "category": "feature", "department": "Operations",
	})
	var idea ideaBody
	s.decode(raw, &idea)
	base := fmt.Sprintf("/api/v1/ideas/%d/comments", idea.ID)

	code, raw := s.do(http.MethodPost, base, "user-a", map[string]string{"content": "hello"})
	require.Equal(t, http.StatusCreated, code, string(raw))
	var c model.Comment
	s.decode(raw, &c)

	code, _ = s.do(http.MethodDelete, fmt.Sprintf("%s/%d", base, c.ID), "user-c", nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = s.do(http.MethodDelete, fmt.Sprintf("%s/%d", base, c.ID), "user-a", nil)
	assert.Equal(t, http.StatusNoContent, code)

	code, raw = s.do(http.MethodGet, base, "user-a", nil)
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `[]`, string(raw))
}

func TestNotesReplace(t *testing.T) {
	s := newTestServer(t)
	_, raw := s.do(http.MethodPost, "/api/v1/ideas", "user-a", map[string]string{
		"title": "X", "description": "Y", "category": "feature", "department": "Engineering",
	})
	var idea ideaBody
	s.decode(raw, &idea)
	path := fmt.Sprintf("/api/v1/ideas/%d/notes", idea.ID)

	body := map[string]any{"notes": []map[string]string{
		{"id": "n1", "content": "one", "color": "yellow"},
		{"id": "n2", "content": "two", "color": "blue"},
	}}
	code, _ := s.do(http.MethodPut, path, "user-b", body)
	assert.Equal(t, http.StatusForbidden, code)

	code, raw = s.do(http.MethodPut, path, "user-a", body)
	require.Equal(t, http.StatusOK, code, string(raw))

	_, raw = s.do(http.MethodGet, path, "user-b", nil)
	var got []model.Note
	s.decode(raw, &got)
	require.Len(t, got, 2)
	assert.Equal(t, "n1", got[0].ID)
	assert.Equal(t, 1, got[1].Order)
}

func TestErrorsAndAuth(t *testing.T) {
	s := newTestServer(t)

	code, raw := s.do(http.MethodGet, "/api/v1/ideas", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Contains(t, string(raw), `"error"`)

	code, _ = s.do(http.MethodGet, "/api/v1/ideas/abc", "user-a", nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = s.do(http.MethodGet, "/api/v1/ideas?department=Sales", "user-a", nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = s.do(http.MethodPost, "/api/v1/ideas", "user-a", map[string]any{
		"title": "X", "description": "Y", "category": "c", "department": "Engineering", "likes": 99,
	})
	assert.Equal(t, http.StatusBadRequest, code, "unknown fields are rejected")

	code, _ = s.do(http.MethodGet, "/api/v1/analytics", "user-a", nil)
	assert.Equal(t, http.StatusForbidden, code)
	code, _ = s.do(http.MethodGet, "/api/v1/analytics", "admin", nil)
	assert.Equal(t, http.StatusOK, code)

	code, _ = s.do(http.MethodGet, "/api/v1/health", "", nil)
	assert.Equal(t, http.StatusOK, code)
	code, _ = s.do(http.MethodGet, "/api/v1/ready", "", nil)
	assert.Equal(t, http.StatusOK, code)
}

func TestUsersAndApprovals(t *testing.T) {
	s := newTestServer(t)

	code, raw := s.do(http.MethodPost, "/api/v1/users", "admin", map[string]string{"id": "mod", "email": "mod@example.com", "role": "moderator"})
	require.Equal(t, http.StatusCreated, code, string(raw))

	code, _ = s.do(http.MethodPost, "/api/v1/users", "user-a", map[string]string{"email": "x@example.com"})
	assert.Equal(t, http.StatusForbidden, code)

	_, _ = s.do(http.MethodPost, "/api/v1/ideas", "user-a", map[string]string{
		"title": "X", "description": "Y", "category": "feature", "department": "Engineering",
	})
	code, raw = s.do(http.MethodGet, "/api/v1/approvals", "mod", nil)
	require.Equal(t, http.StatusOK, code, string(raw))
	var queue []ideaBody
	s.decode(raw, &queue)
	assert.Len(t, queue, 1)

	code, _ = s.do(http.MethodGet, "/api/v1/approvals?status=shipped", "mod", nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code, raw = s.do(http.MethodPut, "/api/v1/users/user-a/role", "admin", map[string]string{"role": "moderator"})
	require.Equal(t, http.StatusOK, code, string(raw))

	code, raw = s.do(http.MethodGet, "/api/v1/me", "user-a", nil)
	require.Equal(t, http.StatusOK, code)
	var me model.User
	s.decode(raw, &me)
	assert.Equal(t, model.RoleModerator, me.Role)
}
