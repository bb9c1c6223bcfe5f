package service

import (
	"context"
	"errors"

	"elearnhub/internal/dto"
	"elearnhub/internal/models"
	"elearnhub/internal/repository"
)

var (
	ErrCourseNotFound = errors.New("course not found")
	ErrCodeInUse      = errors.New("course code already in use")
	ErrNotCourseOwner = errors.New("not the owner of this course")
)

const defaultMaxStudents = 50

type CourseService interface {
	Create(ctx context.Context, teacherID string, req *dto.CreateCourseRequest) (*models.Course, error)
	Update(ctx context.Context, teacherID string, courseID int64, req *dto.UpdateCourseRequest) (*models.Course, error)
	Get(ctx context.Context, courseID int64) (*models.Course, int64, error)
	List(ctx context.Context, query, category string) ([]models.Course, error)
	ListByTeacher(ctx context.Context, teacherID string) ([]models.Course, error)
	// ListStudents returns the full enrollment roster, all statuses.
	// Owner only: the roster exposes blocked and dropped rows.
	ListStudents(ctx context.Context, teacherID string, courseID int64) ([]models.Enrollment, error)
}

type courseService struct {
	courseRepo     repository.CourseRepository
	enrollmentRepo repository.EnrollmentRepository
}

func NewCourseService(
	courseRepo repository.CourseRepository,
	enrollmentRepo repository.EnrollmentRepository,
) CourseService {
	return &courseService{
		courseRepo:     courseRepo,
		enrollmentRepo: enrollmentRepo,
	}
}

func (s *courseService) Create(ctx context.Context, teacherID string, req *dto.CreateCourseRequest) (*models.Course, error) {
	// Course codes are globally unique
	if _, err := s.courseRepo.FindByCode(ctx, req.Code); err == nil {
		return nil, ErrCodeInUse
	}

	maxStudents := req.MaxStudents
	if maxStudents <= 0 {
		maxStudents = defaultMaxStudents
	}

	course := &models.Course{
		TeacherID:   teacherID,
		Title:       req.Title,
		Code:        req.Code,
		Description: req.Description,
		Category:    req.Category,
		MaxStudents: maxStudents,
		IsActive:    true,
	}

	if err := s.courseRepo.Create(ctx, course); err != nil {
		return nil, err
	}
	return course, nil
}

func (s *courseService) Update(ctx context.Context, teacherID string, courseID int64, req *dto.UpdateCourseRequest) (*models.Course, error) {
	course, err := s.courseRepo.FindByID(ctx, courseID)
	if err != nil {
		return nil, ErrCourseNotFound
	}
	if course.TeacherID != teacherID {
		return nil, ErrNotCourseOwner
	}

	if req.Title != "" {
		course.Title = req.Title
	}
	if req.Description != "" {
		course.Description = req.Description
	}
	if req.Category != "" {
		course.Category = req.Category
	}
	if req.MaxStudents > 0 {
		// Lowering the cap never drops existing enrollments, it only
		// gates new ones.
		course.MaxStudents = req.MaxStudents
	}
	if req.IsActive != nil {
		course.IsActive = *req.IsActive
	}

	if err := s.courseRepo.Update(ctx, course); err != nil {
		return nil, err
	}
	return course, nil
}

func (s *courseService) Get(ctx context.Context, courseID int64) (*models.Course, int64, error) {
	course, err := s.courseRepo.FindByID(ctx, courseID)
	if err != nil {
		return nil, 0, ErrCourseNotFound
	}
	count, err := s.courseRepo.CountActiveEnrollments(ctx, courseID)
	if err != nil {
		return nil, 0, err
	}
	return course, count, nil
}

func (s *courseService) List(ctx context.Context, query, category string) ([]models.Course, error) {
	return s.courseRepo.List(ctx, query, category)
}

func (s *courseService) ListByTeacher(ctx context.Context, teacherID string) ([]models.Course, error) {
	return s.courseRepo.ListByTeacher(ctx, teacherID)
}

func (s *courseService) ListStudents(ctx context.Context, teacherID string, courseID int64) ([]models.Enrollment, error) {
	course, err := s.courseRepo.FindByID(ctx, courseID)
	if err != nil {
		return nil, ErrCourseNotFound
	}
	if course.TeacherID != teacherID {
		return nil, ErrNotCourseOwner
	}
	return s.enrollmentRepo.ListByCourse(ctx, courseID)
}
