package service

import (
	"context"
	"testing"

	"elearnhub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

// MockChatRoomRepository mocks the ChatRoomRepository interface
type MockChatRoomRepository struct {
	mock.Mock
}

func (m *MockChatRoomRepository) FindByID(ctx context.Context, id int64) (*models.ChatRoom, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ChatRoom), args.Error(1)
}

func (m *MockChatRoomRepository) FindDirectBetween(ctx context.Context, userA, userB string) (*models.ChatRoom, error) {
	args := m.Called(ctx, userA, userB)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ChatRoom), args.Error(1)
}

func (m *MockChatRoomRepository) CreateDirect(ctx context.Context, name string, userA, userB *models.User) (*models.ChatRoom, error) {
	args := m.Called(ctx, name, userA, userB)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ChatRoom), args.Error(1)
}

func (m *MockChatRoomRepository) GetOrCreateCourseRoom(ctx context.Context, courseID int64, defaultName string) (*models.ChatRoom, error) {
	args := m.Called(ctx, courseID, defaultName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ChatRoom), args.Error(1)
}

func (m *MockChatRoomRepository) IsParticipant(ctx context.Context, roomID int64, userID string) (bool, error) {
	args := m.Called(ctx, roomID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockChatRoomRepository) AddParticipant(ctx context.Context, roomID int64, userID string) error {
	args := m.Called(ctx, roomID, userID)
	return args.Error(0)
}

func (m *MockChatRoomRepository) ListForUser(ctx context.Context, userID string) ([]models.ChatRoom, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ChatRoom), args.Error(1)
}

// MockMessageRepository mocks the MessageRepository interface
type MockMessageRepository struct {
	mock.Mock
}

func (m *MockMessageRepository) Create(ctx context.Context, message *models.Message) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

func (m *MockMessageRepository) ListByRoom(ctx context.Context, roomID int64, limit int) ([]models.Message, error) {
	args := m.Called(ctx, roomID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Message), args.Error(1)
}

func (m *MockMessageRepository) MarkRead(ctx context.Context, roomID int64, readerID string) error {
	args := m.Called(ctx, roomID, readerID)
	return args.Error(0)
}

type chatFixture struct {
	roomRepo       *MockChatRoomRepository
	messageRepo    *MockMessageRepository
	userRepo       *MockUserRepository
	courseRepo     *MockCourseRepository
	enrollmentRepo *MockEnrollmentRepository
	svc            ChatService
}

func newChatFixture() *chatFixture {
	f := &chatFixture{
		roomRepo:       new(MockChatRoomRepository),
		messageRepo:    new(MockMessageRepository),
		userRepo:       new(MockUserRepository),
		courseRepo:     new(MockCourseRepository),
		enrollmentRepo: new(MockEnrollmentRepository),
	}
	f.svc = NewChatService(f.roomRepo, f.messageRepo, f.userRepo, f.courseRepo, f.enrollmentRepo)
	return f
}

func TestOpenDirectRoom_Self(t *testing.T) {
	f := newChatFixture()

	_, _, err := f.svc.OpenDirectRoom(context.Background(), "user-1", "user-1")
	assert.Equal(t, ErrSelfChat, err)
}

func TestOpenDirectRoom_ReusesExistingRoom(t *testing.T) {
	f := newChatFixture()
	room := &models.ChatRoom{ID: 5, RoomType: models.RoomDirect}

	f.userRepo.On("FindByID", mock.Anything, "user-1").Return(&models.User{ID: "user-1", Username: "alice"}, nil)
	f.userRepo.On("FindByID", mock.Anything, "user-2").Return(&models.User{ID: "user-2", Username: "bob"}, nil)
	f.roomRepo.On("FindDirectBetween", mock.Anything, "user-1", "user-2").Return(room, nil)
	f.messageRepo.On("ListByRoom", mock.Anything, int64(5), 100).Return([]models.Message{}, nil)

	got, history, err := f.svc.OpenDirectRoom(context.Background(), "user-1", "user-2")

	assert.NoError(t, err)
	assert.Equal(t, int64(5), got.ID)
	assert.Empty(t, history)
	f.roomRepo.AssertNotCalled(t, "CreateDirect", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestOpenDirectRoom_CreatesWhenMissing(t *testing.T) {
	f := newChatFixture()
	alice := &models.User{ID: "user-1", Username: "alice"}
	bob := &models.User{ID: "user-2", Username: "bob"}
	created := &models.ChatRoom{ID: 9, RoomType: models.RoomDirect, Name: "alice & bob"}

	f.userRepo.On("FindByID", mock.Anything, "user-1").Return(alice, nil)
	f.userRepo.On("FindByID", mock.Anything, "user-2").Return(bob, nil)
	f.roomRepo.On("FindDirectBetween", mock.Anything, "user-1", "user-2").Return(nil, gorm.ErrRecordNotFound)
	f.roomRepo.On("CreateDirect", mock.Anything, "alice & bob", alice, bob).Return(created, nil)
	f.messageRepo.On("ListByRoom", mock.Anything, int64(9), 100).Return([]models.Message{}, nil)

	got, _, err := f.svc.OpenDirectRoom(context.Background(), "user-1", "user-2")

	assert.NoError(t, err)
	assert.Equal(t, int64(9), got.ID)
	f.roomRepo.AssertExpectations(t)
}

func TestEnsureCourseRoom_MissingCourseFailsClosed(t *testing.T) {
	f := newChatFixture()
	f.courseRepo.On("FindByID", mock.Anything, int64(404)).Return(nil, gorm.ErrRecordNotFound)

	_, err := f.svc.EnsureCourseRoom(context.Background(), 404, "user-1")
	assert.Equal(t, ErrRoomAccess, err)
}

func TestEnsureCourseRoom_RequiresActiveEnrollment(t *testing.T) {
	f := newChatFixture()
	f.courseRepo.On("FindByID", mock.Anything, int64(7)).Return(&models.Course{
		ID: 7, TeacherID: "teacher-1", Code: "CS301",
	}, nil)
	f.enrollmentRepo.On("HasActive", mock.Anything, "outsider", int64(7)).Return(false, nil)

	_, err := f.svc.EnsureCourseRoom(context.Background(), 7, "outsider")
	assert.Equal(t, ErrRoomAccess, err)
	f.roomRepo.AssertNotCalled(t, "GetOrCreateCourseRoom", mock.Anything, mock.Anything, mock.Anything)
}

func TestEnsureCourseRoom_TeacherGetsRoomAndJoins(t *testing.T) {
	f := newChatFixture()
	room := &models.ChatRoom{ID: 11, RoomType: models.RoomCourse}

	f.courseRepo.On("FindByID", mock.Anything, int64(7)).Return(&models.Course{
		ID: 7, TeacherID: "teacher-1", Code: "CS301",
	}, nil)
	f.roomRepo.On("GetOrCreateCourseRoom", mock.Anything, int64(7), "CS301 - Group Chat").Return(room, nil)
	f.roomRepo.On("AddParticipant", mock.Anything, int64(11), "teacher-1").Return(nil)

	got, err := f.svc.EnsureCourseRoom(context.Background(), 7, "teacher-1")

	assert.NoError(t, err)
	assert.Equal(t, int64(11), got.ID)
	// No enrollment check for the course owner
	f.enrollmentRepo.AssertNotCalled(t, "HasActive", mock.Anything, mock.Anything, mock.Anything)
	f.roomRepo.AssertExpectations(t)
}

func TestCanAccessDirectRoom_MissingRoom(t *testing.T) {
	f := newChatFixture()
	f.roomRepo.On("FindByID", mock.Anything, int64(42)).Return(nil, gorm.ErrRecordNotFound)

	ok, err := f.svc.CanAccessDirectRoom(context.Background(), 42, "user-1")
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestCanAccessDirectRoom_CourseRoomRejected(t *testing.T) {
	f := newChatFixture()
	f.roomRepo.On("FindByID", mock.Anything, int64(11)).Return(&models.ChatRoom{
		ID: 11, RoomType: models.RoomCourse,
	}, nil)

	ok, err := f.svc.CanAccessDirectRoom(context.Background(), 11, "user-1")
	assert.NoError(t, err)
	assert.False(t, ok)
	f.roomRepo.AssertNotCalled(t, "IsParticipant", mock.Anything, mock.Anything, mock.Anything)
}

func TestRoomMessages_DoesNotTouchReadState(t *testing.T) {
	f := newChatFixture()
	messages := []models.Message{{ID: 1, RoomID: 5, SenderID: "user-2", Content: "hi"}}

	f.roomRepo.On("IsParticipant", mock.Anything, int64(5), "user-1").Return(true, nil)
	f.messageRepo.On("ListByRoom", mock.Anything, int64(5), 50).Return(messages, nil)

	got, err := f.svc.RoomMessages(context.Background(), "user-1", 5, 0)

	assert.NoError(t, err)
	assert.Len(t, got, 1)
	// Reading history is not the same as marking it read
	f.messageRepo.AssertNotCalled(t, "MarkRead", mock.Anything, mock.Anything, mock.Anything)
}

func TestMarkRoomRead_ParticipantOnly(t *testing.T) {
	f := newChatFixture()
	f.roomRepo.On("IsParticipant", mock.Anything, int64(5), "outsider").Return(false, nil)

	err := f.svc.MarkRoomRead(context.Background(), "outsider", 5)
	assert.Equal(t, ErrRoomAccess, err)
	f.messageRepo.AssertNotCalled(t, "MarkRead", mock.Anything, mock.Anything, mock.Anything)
}

func TestMarkRoomRead_MarksOthersMessages(t *testing.T) {
	f := newChatFixture()
	f.roomRepo.On("IsParticipant", mock.Anything, int64(5), "user-1").Return(true, nil)
	f.messageRepo.On("MarkRead", mock.Anything, int64(5), "user-1").Return(nil)

	err := f.svc.MarkRoomRead(context.Background(), "user-1", 5)
	assert.NoError(t, err)
	f.messageRepo.AssertExpectations(t)
}

func TestSendMessage_NonParticipant(t *testing.T) {
	f := newChatFixture()
	f.roomRepo.On("IsParticipant", mock.Anything, int64(5), "outsider").Return(false, nil)

	_, err := f.svc.SendMessage(context.Background(), "outsider", 5, "hello")
	assert.Equal(t, ErrRoomAccess, err)
	f.messageRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}
