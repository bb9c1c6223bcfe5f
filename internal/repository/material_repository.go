package repository

import (
	"context"

	"elearnhub/internal/models"

	"gorm.io/gorm"
)

type MaterialRepository interface {
	Create(ctx context.Context, material *models.CourseMaterial) error
	FindByID(ctx context.Context, id int64) (*models.CourseMaterial, error)
	ListByCourse(ctx context.Context, courseID int64) ([]models.CourseMaterial, error)
	Delete(ctx context.Context, id int64) error
}

type materialRepository struct {
	db *gorm.DB
}

func NewMaterialRepository(db *gorm.DB) MaterialRepository {
	return &materialRepository{db: db}
}

func (r *materialRepository) Create(ctx context.Context, material *models.CourseMaterial) error {
	return r.db.WithContext(ctx).Create(material).Error
}

func (r *materialRepository) FindByID(ctx context.Context, id int64) (*models.CourseMaterial, error) {
	var material models.CourseMaterial
	if err := r.db.WithContext(ctx).First(&material, id).Error; err != nil {
		return nil, err
	}
	return &material, nil
}

func (r *materialRepository) ListByCourse(ctx context.Context, courseID int64) ([]models.CourseMaterial, error) {
	var materials []models.CourseMaterial
	err := r.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("uploaded_at DESC").
		Find(&materials).Error
	return materials, err
}

func (r *materialRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&models.CourseMaterial{}, id).Error
}
