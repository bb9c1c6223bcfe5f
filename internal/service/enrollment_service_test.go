package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"elearnhub/internal/dispatch"
	"elearnhub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

// MockEnrollmentRepository mocks the EnrollmentRepository interface
type MockEnrollmentRepository struct {
	mock.Mock
}

func (m *MockEnrollmentRepository) Create(ctx context.Context, enrollment *models.Enrollment) error {
	args := m.Called(ctx, enrollment)
	return args.Error(0)
}

func (m *MockEnrollmentRepository) Update(ctx context.Context, enrollment *models.Enrollment) error {
	args := m.Called(ctx, enrollment)
	return args.Error(0)
}

func (m *MockEnrollmentRepository) Find(ctx context.Context, studentID string, courseID int64) (*models.Enrollment, error) {
	args := m.Called(ctx, studentID, courseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Enrollment), args.Error(1)
}

func (m *MockEnrollmentRepository) ListByCourse(ctx context.Context, courseID int64) ([]models.Enrollment, error) {
	args := m.Called(ctx, courseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Enrollment), args.Error(1)
}

func (m *MockEnrollmentRepository) ListActiveByStudent(ctx context.Context, studentID string) ([]models.Enrollment, error) {
	args := m.Called(ctx, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Enrollment), args.Error(1)
}

func (m *MockEnrollmentRepository) ListActiveStudentIDs(ctx context.Context, courseID int64) ([]string, error) {
	args := m.Called(ctx, courseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockEnrollmentRepository) HasActive(ctx context.Context, studentID string, courseID int64) (bool, error) {
	args := m.Called(ctx, studentID, courseID)
	return args.Bool(0), args.Error(1)
}

// MockCourseRepository mocks the CourseRepository interface
type MockCourseRepository struct {
	mock.Mock
}

func (m *MockCourseRepository) Create(ctx context.Context, course *models.Course) error {
	args := m.Called(ctx, course)
	return args.Error(0)
}

func (m *MockCourseRepository) Update(ctx context.Context, course *models.Course) error {
	args := m.Called(ctx, course)
	return args.Error(0)
}

func (m *MockCourseRepository) FindByID(ctx context.Context, id int64) (*models.Course, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Course), args.Error(1)
}

func (m *MockCourseRepository) FindByCode(ctx context.Context, code string) (*models.Course, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Course), args.Error(1)
}

func (m *MockCourseRepository) List(ctx context.Context, query, category string) ([]models.Course, error) {
	args := m.Called(ctx, query, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Course), args.Error(1)
}

func (m *MockCourseRepository) ListByTeacher(ctx context.Context, teacherID string) ([]models.Course, error) {
	args := m.Called(ctx, teacherID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Course), args.Error(1)
}

func (m *MockCourseRepository) CountActiveEnrollments(ctx context.Context, courseID int64) (int64, error) {
	args := m.Called(ctx, courseID)
	return args.Get(0).(int64), args.Error(1)
}

// MockNotificationRepository mocks the NotificationRepository interface
type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	args := m.Called(ctx, notification)
	return args.Error(0)
}

func (m *MockNotificationRepository) CreateBatch(ctx context.Context, notifications []models.Notification) error {
	args := m.Called(ctx, notifications)
	return args.Error(0)
}

func (m *MockNotificationRepository) ListByRecipient(ctx context.Context, recipientID string, limit int) ([]models.Notification, error) {
	args := m.Called(ctx, recipientID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Notification), args.Error(1)
}

func (m *MockNotificationRepository) GetUnreadByRecipient(ctx context.Context, recipientID string) ([]models.Notification, error) {
	args := m.Called(ctx, recipientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Notification), args.Error(1)
}

func (m *MockNotificationRepository) MarkAsRead(ctx context.Context, recipientID string, notificationID int64) (int64, error) {
	args := m.Called(ctx, recipientID, notificationID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationRepository) MarkAllAsRead(ctx context.Context, recipientID string) error {
	args := m.Called(ctx, recipientID)
	return args.Error(0)
}

func (m *MockNotificationRepository) CountUnread(ctx context.Context, recipientID string) (int64, error) {
	args := m.Called(ctx, recipientID)
	return args.Get(0).(int64), args.Error(1)
}

type enrollmentFixture struct {
	enrollmentRepo *MockEnrollmentRepository
	courseRepo     *MockCourseRepository
	userRepo       *MockUserRepository
	notifRepo      *MockNotificationRepository
	svc            EnrollmentService
}

func newEnrollmentFixture() *enrollmentFixture {
	f := &enrollmentFixture{
		enrollmentRepo: new(MockEnrollmentRepository),
		courseRepo:     new(MockCourseRepository),
		userRepo:       new(MockUserRepository),
		notifRepo:      new(MockNotificationRepository),
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	notifier := dispatch.NewNotifier(dispatch.NewEagerQueue(), f.notifRepo, f.enrollmentRepo, logger)
	f.svc = NewEnrollmentService(f.enrollmentRepo, f.courseRepo, f.userRepo, notifier)
	return f
}

func testCourse() *models.Course {
	return &models.Course{
		ID:          7,
		TeacherID:   "teacher-1",
		Title:       "Distributed Systems",
		Code:        "CS301",
		MaxStudents: 2,
		IsActive:    true,
	}
}

func TestEnroll_CreatesAndNotifiesTeacher(t *testing.T) {
	f := newEnrollmentFixture()
	course := testCourse()

	f.courseRepo.On("FindByID", mock.Anything, int64(7)).Return(course, nil)
	f.courseRepo.On("CountActiveEnrollments", mock.Anything, int64(7)).Return(int64(0), nil)
	f.enrollmentRepo.On("Find", mock.Anything, "student-1", int64(7)).Return(nil, gorm.ErrRecordNotFound)
	f.enrollmentRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.Enrollment")).Return(nil)
	f.userRepo.On("FindByID", mock.Anything, "student-1").Return(&models.User{
		ID:        "student-1",
		Username:  "bob",
		FirstName: "Bob",
		LastName:  "Smith",
	}, nil)
	f.notifRepo.On("Create", mock.Anything, mock.MatchedBy(func(n *models.Notification) bool {
		return n.RecipientID == "teacher-1" && n.Type == models.NotificationEnrollment
	})).Return(nil)

	enrollment, err := f.svc.Enroll(context.Background(), "student-1", 7)

	assert.NoError(t, err)
	assert.Equal(t, models.EnrollmentActive, enrollment.Status)
	f.notifRepo.AssertNumberOfCalls(t, "Create", 1)
	f.enrollmentRepo.AssertExpectations(t)
	f.notifRepo.AssertExpectations(t)
}

func TestEnroll_BlockedIsTerminal(t *testing.T) {
	f := newEnrollmentFixture()
	course := testCourse()

	f.courseRepo.On("FindByID", mock.Anything, int64(7)).Return(course, nil)
	f.courseRepo.On("CountActiveEnrollments", mock.Anything, int64(7)).Return(int64(0), nil)
	f.enrollmentRepo.On("Find", mock.Anything, "student-1", int64(7)).Return(&models.Enrollment{
		StudentID: "student-1",
		CourseID:  7,
		Status:    models.EnrollmentBlocked,
	}, nil)

	_, err := f.svc.Enroll(context.Background(), "student-1", 7)

	assert.Equal(t, ErrEnrollmentBlocked, err)
	f.enrollmentRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	f.notifRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestEnroll_ActiveIsRejected(t *testing.T) {
	f := newEnrollmentFixture()
	course := testCourse()

	f.courseRepo.On("FindByID", mock.Anything, int64(7)).Return(course, nil)
	f.courseRepo.On("CountActiveEnrollments", mock.Anything, int64(7)).Return(int64(1), nil)
	f.enrollmentRepo.On("Find", mock.Anything, "student-1", int64(7)).Return(&models.Enrollment{
		Status: models.EnrollmentActive,
	}, nil)

	_, err := f.svc.Enroll(context.Background(), "student-1", 7)
	assert.Equal(t, ErrAlreadyEnrolled, err)
}

func TestEnroll_DroppedReactivatesQuietly(t *testing.T) {
	f := newEnrollmentFixture()
	course := testCourse()
	droppedAt := time.Now().Add(-24 * time.Hour)
	existing := &models.Enrollment{
		ID:        3,
		StudentID: "student-1",
		CourseID:  7,
		Status:    models.EnrollmentDropped,
		DroppedAt: &droppedAt,
	}

	f.courseRepo.On("FindByID", mock.Anything, int64(7)).Return(course, nil)
	f.courseRepo.On("CountActiveEnrollments", mock.Anything, int64(7)).Return(int64(0), nil)
	f.enrollmentRepo.On("Find", mock.Anything, "student-1", int64(7)).Return(existing, nil)
	f.enrollmentRepo.On("Update", mock.Anything, existing).Return(nil)

	enrollment, err := f.svc.Enroll(context.Background(), "student-1", 7)

	assert.NoError(t, err)
	assert.Equal(t, int64(3), enrollment.ID) // same row, mutated
	assert.Equal(t, models.EnrollmentActive, enrollment.Status)
	assert.Nil(t, enrollment.DroppedAt)
	// Reactivation does not notify the teacher again
	f.notifRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestEnroll_CourseFull(t *testing.T) {
	f := newEnrollmentFixture()
	course := testCourse() // MaxStudents: 2

	f.courseRepo.On("FindByID", mock.Anything, int64(7)).Return(course, nil)
	f.courseRepo.On("CountActiveEnrollments", mock.Anything, int64(7)).Return(int64(2), nil)

	_, err := f.svc.Enroll(context.Background(), "student-1", 7)

	assert.Equal(t, ErrCourseFull, err)
	f.enrollmentRepo.AssertNotCalled(t, "Find", mock.Anything, mock.Anything, mock.Anything)
}

func TestEnroll_TeacherOwnCourse(t *testing.T) {
	f := newEnrollmentFixture()
	f.courseRepo.On("FindByID", mock.Anything, int64(7)).Return(testCourse(), nil)

	_, err := f.svc.Enroll(context.Background(), "teacher-1", 7)
	assert.Equal(t, ErrTeacherSelfEnroll, err)
}

func TestUnenroll_DropsActiveEnrollment(t *testing.T) {
	f := newEnrollmentFixture()
	existing := &models.Enrollment{
		StudentID: "student-1",
		CourseID:  7,
		Status:    models.EnrollmentActive,
	}

	f.enrollmentRepo.On("Find", mock.Anything, "student-1", int64(7)).Return(existing, nil)
	f.enrollmentRepo.On("Update", mock.Anything, existing).Return(nil)

	err := f.svc.Unenroll(context.Background(), "student-1", 7)

	assert.NoError(t, err)
	assert.Equal(t, models.EnrollmentDropped, existing.Status)
	assert.NotNil(t, existing.DroppedAt)
}

func TestUnenroll_NotActive(t *testing.T) {
	f := newEnrollmentFixture()
	f.enrollmentRepo.On("Find", mock.Anything, "student-1", int64(7)).Return(&models.Enrollment{
		Status: models.EnrollmentDropped,
	}, nil)

	err := f.svc.Unenroll(context.Background(), "student-1", 7)
	assert.Equal(t, ErrNotEnrolled, err)
}

func TestBlockStudent_OwnerOnly(t *testing.T) {
	f := newEnrollmentFixture()
	f.courseRepo.On("FindByID", mock.Anything, int64(7)).Return(testCourse(), nil)

	err := f.svc.BlockStudent(context.Background(), "someone-else", "student-1", 7)
	assert.Equal(t, ErrNotCourseOwner, err)
}

func TestBlockStudent_SetsBlocked(t *testing.T) {
	f := newEnrollmentFixture()
	existing := &models.Enrollment{
		StudentID: "student-1",
		CourseID:  7,
		Status:    models.EnrollmentActive,
	}

	f.courseRepo.On("FindByID", mock.Anything, int64(7)).Return(testCourse(), nil)
	f.enrollmentRepo.On("Find", mock.Anything, "student-1", int64(7)).Return(existing, nil)
	f.enrollmentRepo.On("Update", mock.Anything, existing).Return(nil)

	err := f.svc.BlockStudent(context.Background(), "teacher-1", "student-1", 7)

	assert.NoError(t, err)
	assert.Equal(t, models.EnrollmentBlocked, existing.Status)
	// Blocking changes the status and nothing else
	assert.Nil(t, existing.DroppedAt)
}
