package repository

import (
	"context"

	"elearnhub/internal/models"

	"gorm.io/gorm"
)

type NotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	// CreateBatch inserts all rows in a single statement; used by the bulk
	// material-upload job.
	CreateBatch(ctx context.Context, notifications []models.Notification) error
	ListByRecipient(ctx context.Context, recipientID string, limit int) ([]models.Notification, error)
	GetUnreadByRecipient(ctx context.Context, recipientID string) ([]models.Notification, error)
	MarkAsRead(ctx context.Context, recipientID string, notificationID int64) (int64, error)
	MarkAllAsRead(ctx context.Context, recipientID string) error
	CountUnread(ctx context.Context, recipientID string) (int64, error)
}

type notificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	return r.db.WithContext(ctx).Create(notification).Error
}

func (r *notificationRepository) CreateBatch(ctx context.Context, notifications []models.Notification) error {
	if len(notifications) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&notifications).Error
}

func (r *notificationRepository) ListByRecipient(ctx context.Context, recipientID string, limit int) ([]models.Notification, error) {
	var notifications []models.Notification
	err := r.db.WithContext(ctx).
		Where("recipient_id = ?", recipientID).
		Order("created_at DESC").
		Limit(limit).
		Find(&notifications).Error
	return notifications, err
}

func (r *notificationRepository) GetUnreadByRecipient(ctx context.Context, recipientID string) ([]models.Notification, error) {
	var notifications []models.Notification
	err := r.db.WithContext(ctx).
		Where("recipient_id = ? AND is_read = false", recipientID).
		Order("created_at DESC").
		Find(&notifications).Error
	return notifications, err
}

// MarkAsRead scopes the update to the recipient so one user cannot flip
// another user's notifications. Returns rows affected.
func (r *notificationRepository) MarkAsRead(ctx context.Context, recipientID string, notificationID int64) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("id = ? AND recipient_id = ?", notificationID, recipientID).
		Update("is_read", true)
	return result.RowsAffected, result.Error
}

func (r *notificationRepository) MarkAllAsRead(ctx context.Context, recipientID string) error {
	return r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("recipient_id = ? AND is_read = false", recipientID).
		Update("is_read", true).Error
}

func (r *notificationRepository) CountUnread(ctx context.Context, recipientID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("recipient_id = ? AND is_read = false", recipientID).
		Count(&count).Error
	return count, err
}
