package repository

import (
	"context"

	"elearnhub/internal/models"

	"gorm.io/gorm"
)

type EnrollmentRepository interface {
	Create(ctx context.Context, enrollment *models.Enrollment) error
	Update(ctx context.Context, enrollment *models.Enrollment) error
	Find(ctx context.Context, studentID string, courseID int64) (*models.Enrollment, error)
	ListByCourse(ctx context.Context, courseID int64) ([]models.Enrollment, error)
	ListActiveByStudent(ctx context.Context, studentID string) ([]models.Enrollment, error)
	ListActiveStudentIDs(ctx context.Context, courseID int64) ([]string, error)
	HasActive(ctx context.Context, studentID string, courseID int64) (bool, error)
}

type enrollmentRepository struct {
	db *gorm.DB
}

func NewEnrollmentRepository(db *gorm.DB) EnrollmentRepository {
	return &enrollmentRepository{db: db}
}

func (r *enrollmentRepository) Create(ctx context.Context, enrollment *models.Enrollment) error {
	return r.db.WithContext(ctx).Create(enrollment).Error
}

func (r *enrollmentRepository) Update(ctx context.Context, enrollment *models.Enrollment) error {
	return r.db.WithContext(ctx).Save(enrollment).Error
}

func (r *enrollmentRepository) Find(ctx context.Context, studentID string, courseID int64) (*models.Enrollment, error) {
	var enrollment models.Enrollment
	err := r.db.WithContext(ctx).
		Where("student_id = ? AND course_id = ?", studentID, courseID).
		First(&enrollment).Error
	if err != nil {
		return nil, err
	}
	return &enrollment, nil
}

func (r *enrollmentRepository) ListByCourse(ctx context.Context, courseID int64) ([]models.Enrollment, error) {
	var enrollments []models.Enrollment
	err := r.db.WithContext(ctx).
		Preload("Student").
		Where("course_id = ?", courseID).
		Order("enrolled_at DESC").
		Find(&enrollments).Error
	return enrollments, err
}

func (r *enrollmentRepository) ListActiveByStudent(ctx context.Context, studentID string) ([]models.Enrollment, error) {
	var enrollments []models.Enrollment
	err := r.db.WithContext(ctx).
		Preload("Course").
		Where("student_id = ? AND status = ?", studentID, models.EnrollmentActive).
		Order("enrolled_at DESC").
		Find(&enrollments).Error
	return enrollments, err
}

// ListActiveStudentIDs feeds the bulk material notification: the recipient
// set is re-queried at job execution time, not captured at trigger time.
func (r *enrollmentRepository) ListActiveStudentIDs(ctx context.Context, courseID int64) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&models.Enrollment{}).
		Where("course_id = ? AND status = ?", courseID, models.EnrollmentActive).
		Pluck("student_id", &ids).Error
	return ids, err
}

func (r *enrollmentRepository) HasActive(ctx context.Context, studentID string, courseID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Enrollment{}).
		Where("student_id = ? AND course_id = ? AND status = ?", studentID, courseID, models.EnrollmentActive).
		Count(&count).Error
	return count > 0, err
}
