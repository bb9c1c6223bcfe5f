package repository

import (
	"context"

	"elearnhub/internal/models"

	"gorm.io/gorm"
)

type MessageRepository interface {
	Create(ctx context.Context, message *models.Message) error
	// ListByRoom returns the most recent `limit` messages in ascending
	// timestamp order, the replay window clients reconcile live traffic against.
	ListByRoom(ctx context.Context, roomID int64, limit int) ([]models.Message, error)
	MarkRead(ctx context.Context, roomID int64, readerID string) error
}

type messageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(ctx context.Context, message *models.Message) error {
	return r.db.WithContext(ctx).Create(message).Error
}

func (r *messageRepository) ListByRoom(ctx context.Context, roomID int64, limit int) ([]models.Message, error) {
	// Take the newest N, then flip to chronological order for display.
	var messages []models.Message
	err := r.db.WithContext(ctx).
		Preload("Sender").
		Where("room_id = ?", roomID).
		Order("timestamp DESC").
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

// MarkRead flags everything in the room not sent by the reader.
func (r *messageRepository) MarkRead(ctx context.Context, roomID int64, readerID string) error {
	return r.db.WithContext(ctx).
		Model(&models.Message{}).
		Where("room_id = ? AND sender_id <> ? AND is_read = false", roomID, readerID).
		Update("is_read", true).Error
}
