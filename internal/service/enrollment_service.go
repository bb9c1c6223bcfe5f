package service

import (
	"context"
	"errors"
	"time"

	"elearnhub/internal/dispatch"
	"elearnhub/internal/models"
	"elearnhub/internal/repository"

	"gorm.io/gorm"
)

var (
	ErrAlreadyEnrolled   = errors.New("already enrolled in this course")
	ErrEnrollmentBlocked = errors.New("enrollment blocked for this course")
	ErrCourseFull        = errors.New("course is full")
	ErrCourseInactive    = errors.New("course is not active")
	ErrNotEnrolled       = errors.New("no active enrollment for this course")
	ErrEnrollmentMissing = errors.New("enrollment not found")
	ErrTeacherSelfEnroll = errors.New("course teacher cannot enroll")
)

type EnrollmentService interface {
	// Enroll moves the (student, course) pair to active:
	// creates the row, or reactivates a dropped one. Blocked is terminal
	// from the student's side.
	Enroll(ctx context.Context, studentID string, courseID int64) (*models.Enrollment, error)
	Unenroll(ctx context.Context, studentID string, courseID int64) error
	BlockStudent(ctx context.Context, teacherID, studentID string, courseID int64) error
	RemoveStudent(ctx context.Context, teacherID, studentID string, courseID int64) error
	ListMyCourses(ctx context.Context, studentID string) ([]models.Enrollment, error)
}

type enrollmentService struct {
	enrollmentRepo repository.EnrollmentRepository
	courseRepo     repository.CourseRepository
	userRepo       repository.UserRepository
	notifier       *dispatch.Notifier
}

func NewEnrollmentService(
	enrollmentRepo repository.EnrollmentRepository,
	courseRepo repository.CourseRepository,
	userRepo repository.UserRepository,
	notifier *dispatch.Notifier,
) EnrollmentService {
	return &enrollmentService{
		enrollmentRepo: enrollmentRepo,
		courseRepo:     courseRepo,
		userRepo:       userRepo,
		notifier:       notifier,
	}
}

func (s *enrollmentService) Enroll(ctx context.Context, studentID string, courseID int64) (*models.Enrollment, error) {
	course, err := s.courseRepo.FindByID(ctx, courseID)
	if err != nil {
		return nil, ErrCourseNotFound
	}
	if !course.IsActive {
		return nil, ErrCourseInactive
	}
	if course.TeacherID == studentID {
		return nil, ErrTeacherSelfEnroll
	}

	// Capacity is checked before the write. Two concurrent enrollments
	// into the last seat can both pass; the cap is best-effort, the
	// unique (student, course) index is the hard invariant.
	count, err := s.courseRepo.CountActiveEnrollments(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if count >= int64(course.MaxStudents) {
		return nil, ErrCourseFull
	}

	existing, err := s.enrollmentRepo.Find(ctx, studentID, courseID)
	switch {
	case err == nil:
		switch existing.Status {
		case models.EnrollmentBlocked:
			return nil, ErrEnrollmentBlocked
		case models.EnrollmentActive:
			return nil, ErrAlreadyEnrolled
		case models.EnrollmentDropped:
			// Re-enrollment mutates the existing row. The teacher was
			// notified on first enrollment; reactivation stays quiet.
			existing.Status = models.EnrollmentActive
			existing.DroppedAt = nil
			if err := s.enrollmentRepo.Update(ctx, existing); err != nil {
				return nil, err
			}
			return existing, nil
		}
		return nil, ErrEnrollmentMissing
	case errors.Is(err, gorm.ErrRecordNotFound):
		// fall through to create
	default:
		return nil, err
	}

	enrollment := &models.Enrollment{
		StudentID: studentID,
		CourseID:  courseID,
		Status:    models.EnrollmentActive,
	}
	if err := s.enrollmentRepo.Create(ctx, enrollment); err != nil {
		return nil, err
	}

	student, err := s.userRepo.FindByID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if err := s.notifier.StudentEnrolled(ctx, course, student); err != nil {
		return nil, err
	}

	return enrollment, nil
}

func (s *enrollmentService) Unenroll(ctx context.Context, studentID string, courseID int64) error {
	enrollment, err := s.enrollmentRepo.Find(ctx, studentID, courseID)
	if err != nil || enrollment.Status != models.EnrollmentActive {
		return ErrNotEnrolled
	}

	now := time.Now()
	enrollment.Status = models.EnrollmentDropped
	enrollment.DroppedAt = &now
	return s.enrollmentRepo.Update(ctx, enrollment)
}

// BlockStudent marks the enrollment blocked. The student cannot
// re-enroll until the teacher lifts the block by removing them instead.
func (s *enrollmentService) BlockStudent(ctx context.Context, teacherID, studentID string, courseID int64) error {
	enrollment, err := s.findForTeacher(ctx, teacherID, studentID, courseID)
	if err != nil {
		return err
	}

	// Only the status changes; dropped_at stays whatever it was.
	enrollment.Status = models.EnrollmentBlocked
	return s.enrollmentRepo.Update(ctx, enrollment)
}

// RemoveStudent drops the enrollment on the teacher's initiative. Unlike
// a block, the student may enroll again later.
func (s *enrollmentService) RemoveStudent(ctx context.Context, teacherID, studentID string, courseID int64) error {
	enrollment, err := s.findForTeacher(ctx, teacherID, studentID, courseID)
	if err != nil {
		return err
	}

	now := time.Now()
	enrollment.Status = models.EnrollmentDropped
	enrollment.DroppedAt = &now
	return s.enrollmentRepo.Update(ctx, enrollment)
}

func (s *enrollmentService) ListMyCourses(ctx context.Context, studentID string) ([]models.Enrollment, error) {
	return s.enrollmentRepo.ListActiveByStudent(ctx, studentID)
}

func (s *enrollmentService) findForTeacher(ctx context.Context, teacherID, studentID string, courseID int64) (*models.Enrollment, error) {
	course, err := s.courseRepo.FindByID(ctx, courseID)
	if err != nil {
		return nil, ErrCourseNotFound
	}
	if course.TeacherID != teacherID {
		return nil, ErrNotCourseOwner
	}

	enrollment, err := s.enrollmentRepo.Find(ctx, studentID, courseID)
	if err != nil {
		return nil, ErrEnrollmentMissing
	}
	return enrollment, nil
}
