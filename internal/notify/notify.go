// Package notify appends and serves per-user notifications.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/d9705996/ideaportal/internal/apperr"
	"github.com/d9705996/ideaportal/internal/metrics"
	"github.com/d9705996/ideaportal/internal/model"
	"github.com/d9705996/ideaportal/internal/store"
)

// DefaultPageSize caps ListForUser when no page size is configured.
const DefaultPageSize = 10

// Service is the notification service.
type Service struct {
	store    *store.Store
	pageSize int
	log      *slog.Logger
}

// New creates a Service. A non-positive pageSize selects DefaultPageSize.
func New(st *store.Store, pageSize int, log *slog.Logger) *Service {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Service{store: st, pageSize: pageSize, log: log}
}

// Notify appends a notification for userID. It only fails on persistence
// errors. Pass the transaction-bound store as st to make the append part of
// a larger unit of work, or nil to use the service's own store. With a
// transaction-bound store the caller counts the notification once its
// transaction commits.
func (s *Service) Notify(ctx context.Context, st *store.Store, userID string, ideaID *uint, message, typ string) (*model.Notification, error) {
	committed := st == nil
	if committed {
		st = s.store
	}
	n := &model.Notification{
		UserID:  userID,
		IdeaID:  ideaID,
		Message: message,
		Type:    typ,
	}
	if err := st.CreateNotification(ctx, n); err != nil {
		return nil, fmt.Errorf("append notification: %w", err)
	}
	if committed {
		metrics.NotificationCreated(typ)
	}
	s.log.DebugContext(ctx, "notification appended", "user_id", userID, "type", typ, "id", n.ID)
	return n, nil
}

// ListForUser returns the newest notifications for userID, capped at the
// configured page size, each with the title of its idea.
func (s *Service) ListForUser(ctx context.Context, userID string) ([]store.NotificationView, error) {
	out, err := s.store.ListNotifications(ctx, userID, s.pageSize)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return out, nil
}

// MarkRead marks a notification read on behalf of callerID. Repeating the
// call is harmless. Only the recipient may mark a notification.
func (s *Service) MarkRead(ctx context.Context, id uint, callerID string) (*model.Notification, error) {
	n, err := s.store.GetNotification(ctx, id)
	if err != nil {
		return nil, err
	}
	if n.UserID != callerID {
		return nil, apperr.Forbidden("notification %d belongs to another user", id)
	}
	if n.Read {
		return n, nil
	}
	if err := s.store.MarkNotificationRead(ctx, id); err != nil {
		return nil, fmt.Errorf("mark notification read: %w", err)
	}
	n.Read = true
	return n, nil
}

// UnreadCount counts userID's unread notifications at read time.
func (s *Service) UnreadCount(ctx context.Context, userID string) (int64, error) {
	n, err := s.store.CountUnread(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("count unread: %w", err)
	}
	return n, nil
}

// PurgeRead removes read notifications older than retention.
func (s *Service) PurgeRead(ctx context.Context, retention time.Duration) (int64, error) {
	n, err := s.store.PurgeReadNotifications(ctx, time.Now().Add(-retention))
	if err != nil {
		return 0, fmt.Errorf("purge notifications: %w", err)
	}
	metrics.NotificationsPurged(n)
	if n > 0 {
		s.log.InfoContext(ctx, "purged read notifications", "count", n, "retention", retention.String())
	}
	return n, nil
}

// StatusChangeMessage renders the message sent to an idea's author when its
// status changes.
func StatusChangeMessage(title string, status model.Status) string {
	return fmt.Sprintf("Your idea \"%s\" has been %s", title, status)
}
