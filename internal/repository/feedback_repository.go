package repository

import (
	"context"

	"elearnhub/internal/models"

	"gorm.io/gorm"
)

type FeedbackRepository interface {
	Create(ctx context.Context, feedback *models.Feedback) error
	FindByPair(ctx context.Context, courseID int64, studentID string) (*models.Feedback, error)
	ListByCourse(ctx context.Context, courseID int64) ([]models.Feedback, error)
}

type feedbackRepository struct {
	db *gorm.DB
}

func NewFeedbackRepository(db *gorm.DB) FeedbackRepository {
	return &feedbackRepository{db: db}
}

func (r *feedbackRepository) Create(ctx context.Context, feedback *models.Feedback) error {
	return r.db.WithContext(ctx).Create(feedback).Error
}

func (r *feedbackRepository) FindByPair(ctx context.Context, courseID int64, studentID string) (*models.Feedback, error) {
	var feedback models.Feedback
	err := r.db.WithContext(ctx).
		Where("course_id = ? AND student_id = ?", courseID, studentID).
		First(&feedback).Error
	if err != nil {
		return nil, err
	}
	return &feedback, nil
}

func (r *feedbackRepository) ListByCourse(ctx context.Context, courseID int64) ([]models.Feedback, error) {
	var feedbacks []models.Feedback
	err := r.db.WithContext(ctx).
		Preload("Student").
		Where("course_id = ?", courseID).
		Order("created_at DESC").
		Find(&feedbacks).Error
	return feedbacks, err
}
