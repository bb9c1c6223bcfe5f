package repository

import (
	"context"

	"elearnhub/internal/models"

	"gorm.io/gorm"
)

type CourseRepository interface {
	Create(ctx context.Context, course *models.Course) error
	Update(ctx context.Context, course *models.Course) error
	FindByID(ctx context.Context, id int64) (*models.Course, error)
	FindByCode(ctx context.Context, code string) (*models.Course, error)
	List(ctx context.Context, query, category string) ([]models.Course, error)
	ListByTeacher(ctx context.Context, teacherID string) ([]models.Course, error)
	CountActiveEnrollments(ctx context.Context, courseID int64) (int64, error)
}

type courseRepository struct {
	db *gorm.DB
}

func NewCourseRepository(db *gorm.DB) CourseRepository {
	return &courseRepository{db: db}
}

func (r *courseRepository) Create(ctx context.Context, course *models.Course) error {
	return r.db.WithContext(ctx).Create(course).Error
}

func (r *courseRepository) Update(ctx context.Context, course *models.Course) error {
	return r.db.WithContext(ctx).Save(course).Error
}

func (r *courseRepository) FindByID(ctx context.Context, id int64) (*models.Course, error) {
	var course models.Course
	if err := r.db.WithContext(ctx).Preload("Teacher").First(&course, id).Error; err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *courseRepository) FindByCode(ctx context.Context, code string) (*models.Course, error) {
	var course models.Course
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&course).Error; err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *courseRepository) List(ctx context.Context, query, category string) ([]models.Course, error) {
	var courses []models.Course
	q := r.db.WithContext(ctx).Preload("Teacher").Order("created_at DESC")
	if query != "" {
		pattern := "%" + query + "%"
		q = q.Where("title ILIKE ? OR code ILIKE ? OR description ILIKE ?", pattern, pattern, pattern)
	}
	if category != "" {
		q = q.Where("category = ?", category)
	}
	err := q.Find(&courses).Error
	return courses, err
}

func (r *courseRepository) ListByTeacher(ctx context.Context, teacherID string) ([]models.Course, error) {
	var courses []models.Course
	err := r.db.WithContext(ctx).
		Where("teacher_id = ?", teacherID).
		Order("created_at DESC").
		Find(&courses).Error
	return courses, err
}

// CountActiveEnrollments is the capacity check input: only active rows count.
func (r *courseRepository) CountActiveEnrollments(ctx context.Context, courseID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Enrollment{}).
		Where("course_id = ? AND status = ?", courseID, models.EnrollmentActive).
		Count(&count).Error
	return count, err
}
