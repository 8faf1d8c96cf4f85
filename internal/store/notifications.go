package store

import (
	"context"
	"time"

	"github.com/d9705996/ideaportal/internal/model"
)

// CreateNotification inserts n.
func (s *Store) CreateNotification(ctx context.Context, n *model.Notification) error {
	return translate(s.conn(ctx).Create(n).Error, "notification")
}

// GetNotification loads a notification by id.
func (s *Store) GetNotification(ctx context.Context, id uint) (*model.Notification, error) {
	var n model.Notification
	if err := s.conn(ctx).Where("id = ?", id).First(&n).Error; err != nil {
		return nil, translate(err, "notification")
	}
	return &n, nil
}

// NotificationView is a notification with the title of the idea it refers
// to, so clients can link to it. IdeaTitle is empty when the notification has
// no idea.
type NotificationView struct {
	model.Notification
	IdeaTitle string `json:"idea_title,omitempty"`
}

// ListNotifications returns up to limit notifications for userID, newest
// first.
func (s *Store) ListNotifications(ctx context.Context, userID string, limit int) ([]NotificationView, error) {
	out := []NotificationView{}
	err := s.conn(ctx).Model(&model.Notification{}).
		Select("notifications.*, COALESCE(ideas.title, '') AS idea_title").
		Joins("LEFT JOIN ideas ON ideas.id = notifications.idea_id").
		Where("notifications.user_id = ?", userID).
		Order("notifications.created_at DESC, notifications.id DESC").
		Limit(limit).
		Scan(&out).Error
	if err != nil {
		return nil, translate(err, "notifications")
	}
	return out, nil
}

// ListNotificationsByIdea returns every notification referencing ideaID.
func (s *Store) ListNotificationsByIdea(ctx context.Context, ideaID uint) ([]model.Notification, error) {
	out := []model.Notification{}
	if err := s.conn(ctx).Where("idea_id = ?", ideaID).Order("id ASC").Find(&out).Error; err != nil {
		return nil, translate(err, "notifications")
	}
	return out, nil
}

// MarkNotificationRead sets read=true. Marking an already read notification
// is not an error.
func (s *Store) MarkNotificationRead(ctx context.Context, id uint) error {
	err := s.conn(ctx).Model(&model.Notification{}).Where("id = ?", id).Update("read", true).Error
	return translate(err, "notification")
}

// CountUnread counts userID's unread notifications.
func (s *Store) CountUnread(ctx context.Context, userID string) (int64, error) {
	var n int64
	err := s.conn(ctx).Model(&model.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Count(&n).Error
	if err != nil {
		return 0, translate(err, "notifications")
	}
	return n, nil
}

// DeleteNotificationsByIdea removes every notification referencing ideaID.
func (s *Store) DeleteNotificationsByIdea(ctx context.Context, ideaID uint) error {
	return translate(s.conn(ctx).Where("idea_id = ?", ideaID).Delete(&model.Notification{}).Error, "notifications")
}

// PurgeReadNotifications deletes read notifications created before cutoff
// and returns how many were removed.
func (s *Store) PurgeReadNotifications(ctx context.Context, cutoff time.Time) (int64, error) {
	res := s.conn(ctx).Where("read = ? AND created_at < ?", true, cutoff).Delete(&model.Notification{})
	if res.Error != nil {
		return 0, translate(res.Error, "notifications")
	}
	return res.RowsAffected, nil
}
