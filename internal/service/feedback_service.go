package service

import (
	"context"
	"errors"

	"elearnhub/internal/dto"
	"elearnhub/internal/models"
	"elearnhub/internal/repository"
)

var ErrFeedbackExists = errors.New("feedback already left for this course")

type FeedbackService interface {
	// Create requires an active enrollment and allows one feedback per
	// (course, student) pair.
	Create(ctx context.Context, studentID string, courseID int64, req *dto.CreateFeedbackRequest) (*models.Feedback, error)
	ListByCourse(ctx context.Context, courseID int64) ([]models.Feedback, error)
}

type feedbackService struct {
	feedbackRepo   repository.FeedbackRepository
	courseRepo     repository.CourseRepository
	enrollmentRepo repository.EnrollmentRepository
}

func NewFeedbackService(
	feedbackRepo repository.FeedbackRepository,
	courseRepo repository.CourseRepository,
	enrollmentRepo repository.EnrollmentRepository,
) FeedbackService {
	return &feedbackService{
		feedbackRepo:   feedbackRepo,
		courseRepo:     courseRepo,
		enrollmentRepo: enrollmentRepo,
	}
}

func (s *feedbackService) Create(ctx context.Context, studentID string, courseID int64, req *dto.CreateFeedbackRequest) (*models.Feedback, error) {
	if _, err := s.courseRepo.FindByID(ctx, courseID); err != nil {
		return nil, ErrCourseNotFound
	}

	active, err := s.enrollmentRepo.HasActive(ctx, studentID, courseID)
	if err != nil {
		return nil, err
	}
	if !active {
		return nil, ErrNotEnrolled
	}

	if _, err := s.feedbackRepo.FindByPair(ctx, courseID, studentID); err == nil {
		return nil, ErrFeedbackExists
	}

	feedback := &models.Feedback{
		CourseID:  courseID,
		StudentID: studentID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	}
	if err := s.feedbackRepo.Create(ctx, feedback); err != nil {
		return nil, err
	}
	return feedback, nil
}

func (s *feedbackService) ListByCourse(ctx context.Context, courseID int64) ([]models.Feedback, error) {
	if _, err := s.courseRepo.FindByID(ctx, courseID); err != nil {
		return nil, ErrCourseNotFound
	}
	return s.feedbackRepo.ListByCourse(ctx, courseID)
}
