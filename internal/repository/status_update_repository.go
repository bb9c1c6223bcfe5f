package repository

import (
	"context"

	"elearnhub/internal/models"

	"gorm.io/gorm"
)

type StatusUpdateRepository interface {
	Create(ctx context.Context, update *models.StatusUpdate) error
	FindByID(ctx context.Context, id int64) (*models.StatusUpdate, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]models.StatusUpdate, error)
	Delete(ctx context.Context, id int64) error
}

type statusUpdateRepository struct {
	db *gorm.DB
}

func NewStatusUpdateRepository(db *gorm.DB) StatusUpdateRepository {
	return &statusUpdateRepository{db: db}
}

func (r *statusUpdateRepository) Create(ctx context.Context, update *models.StatusUpdate) error {
	return r.db.WithContext(ctx).Create(update).Error
}

func (r *statusUpdateRepository) FindByID(ctx context.Context, id int64) (*models.StatusUpdate, error) {
	var update models.StatusUpdate
	if err := r.db.WithContext(ctx).First(&update, id).Error; err != nil {
		return nil, err
	}
	return &update, nil
}

func (r *statusUpdateRepository) ListByUser(ctx context.Context, userID string, limit int) ([]models.StatusUpdate, error) {
	var updates []models.StatusUpdate
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&updates).Error
	return updates, err
}

func (r *statusUpdateRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&models.StatusUpdate{}, id).Error
}
