package db

import (
	"context"

	"github.com/cheerhub/cheerhub/internal/models"
)

// NotificationRepository provides notification database operations
type NotificationRepository struct {
	*Repository
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(repo *Repository) *NotificationRepository {
	return &NotificationRepository{Repository: repo}
}

// Create creates a new notification
func (r *NotificationRepository) Create(ctx context.Context, notif *models.Notification) error {
	return r.db.WithContext(ctx).Create(notif).Error
}

// ListForRecipient lists the recipient's notifications newest-first
func (r *NotificationRepository) ListForRecipient(ctx context.Context, recipientID int64, limit int) ([]*models.Notification, error) {
	var notifs []*models.Notification
	err := r.db.WithContext(ctx).
		Where("recipient_id = ?", recipientID).
		Order("id DESC").
		Limit(limit).
		Find(&notifs).Error
	return notifs, err
}

// ListAfter lists notifications strictly newer than the cursor, oldest
// first, so a poller (or a future push layer) can resume from where it
// left off
func (r *NotificationRepository) ListAfter(ctx context.Context, recipientID, afterID int64, limit int) ([]*models.Notification, error) {
	var notifs []*models.Notification
	err := r.db.WithContext(ctx).
		Where("recipient_id = ? AND id > ?", recipientID, afterID).
		Order("id ASC").
		Limit(limit).
		Find(&notifs).Error
	return notifs, err
}

// CountUnread counts unread notifications for a recipient
func (r *NotificationRepository) CountUnread(ctx context.Context, recipientID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("recipient_id = ? AND is_read = ?", recipientID, false).
		Count(&count).Error
	return count, err
}

// MarkRead flags the given notifications read; scoped to the recipient so
// one user cannot toggle another's rows. Already-read rows are untouched.
func (r *NotificationRepository) MarkRead(ctx context.Context, recipientID int64, ids []int64) error {
	return r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("recipient_id = ? AND id IN ?", recipientID, ids).
		Update("is_read", true).Error
}

// MarkAllRead flags every unread notification of the recipient read
func (r *NotificationRepository) MarkAllRead(ctx context.Context, recipientID int64) error {
	return r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("recipient_id = ? AND is_read = ?", recipientID, false).
		Update("is_read", true).Error
}
