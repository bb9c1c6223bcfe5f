package service

import (
	"context"
	"errors"
	"fmt"

	"elearnhub/internal/models"
	"elearnhub/internal/repository"

	"gorm.io/gorm"
)

var (
	ErrSelfChat   = errors.New("cannot open a chat with yourself")
	ErrRoomAccess = errors.New("no access to this room")
)

const (
	// historyPageSize is the replay window handed out when a room is
	// opened; messagePageSize is the cap for the message list endpoint.
	historyPageSize = 100
	messagePageSize = 50
)

type ChatService interface {
	// OpenDirectRoom finds or creates the one direct room between the
	// caller and the other user and returns it with recent history.
	OpenDirectRoom(ctx context.Context, userID, otherUserID string) (*models.ChatRoom, []models.Message, error)
	// OpenCourseRoom authorizes the caller against the course (teacher
	// or active enrollee), lazily creating the room and adding the
	// caller to its participant list.
	OpenCourseRoom(ctx context.Context, userID string, courseID int64) (*models.ChatRoom, []models.Message, error)
	ListRooms(ctx context.Context, userID string) ([]models.ChatRoom, error)
	// RoomMessages returns recent messages. Fetching history does not
	// touch read state; that is an explicit MarkRoomRead call.
	RoomMessages(ctx context.Context, userID string, roomID int64, limit int) ([]models.Message, error)
	// MarkRoomRead flags the other participants' messages in the room as read.
	MarkRoomRead(ctx context.Context, userID string, roomID int64) error
	// SendMessage persists a message over REST. It does not broadcast:
	// connected WebSocket clients will not see it until they reload history.
	SendMessage(ctx context.Context, userID string, roomID int64, content string) (*models.Message, error)

	// Connection-gate methods used by the WebSocket layer.
	CanAccessDirectRoom(ctx context.Context, roomID int64, userID string) (bool, error)
	EnsureCourseRoom(ctx context.Context, courseID int64, userID string) (*models.ChatRoom, error)
	SaveDirectMessage(ctx context.Context, roomID int64, senderID, content string) (*models.Message, error)
	SaveCourseMessage(ctx context.Context, courseID int64, senderID, content string) (*models.Message, error)
}

type chatService struct {
	roomRepo       repository.ChatRoomRepository
	messageRepo    repository.MessageRepository
	userRepo       repository.UserRepository
	courseRepo     repository.CourseRepository
	enrollmentRepo repository.EnrollmentRepository
}

func NewChatService(
	roomRepo repository.ChatRoomRepository,
	messageRepo repository.MessageRepository,
	userRepo repository.UserRepository,
	courseRepo repository.CourseRepository,
	enrollmentRepo repository.EnrollmentRepository,
) ChatService {
	return &chatService{
		roomRepo:       roomRepo,
		messageRepo:    messageRepo,
		userRepo:       userRepo,
		courseRepo:     courseRepo,
		enrollmentRepo: enrollmentRepo,
	}
}

func (s *chatService) OpenDirectRoom(ctx context.Context, userID, otherUserID string) (*models.ChatRoom, []models.Message, error) {
	if userID == otherUserID {
		return nil, nil, ErrSelfChat
	}

	me, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, nil, ErrUserNotFound
	}
	other, err := s.userRepo.FindByID(ctx, otherUserID)
	if err != nil {
		return nil, nil, ErrUserNotFound
	}

	room, err := s.roomRepo.FindDirectBetween(ctx, userID, otherUserID)
	switch {
	case err == nil:
		// existing room, fall through to history
	case errors.Is(err, gorm.ErrRecordNotFound):
		name := fmt.Sprintf("%s & %s", me.Username, other.Username)
		room, err = s.roomRepo.CreateDirect(ctx, name, me, other)
		if err != nil {
			return nil, nil, err
		}
	default:
		return nil, nil, err
	}

	history, err := s.messageRepo.ListByRoom(ctx, room.ID, historyPageSize)
	if err != nil {
		return nil, nil, err
	}
	return room, history, nil
}

func (s *chatService) OpenCourseRoom(ctx context.Context, userID string, courseID int64) (*models.ChatRoom, []models.Message, error) {
	room, err := s.EnsureCourseRoom(ctx, courseID, userID)
	if err != nil {
		return nil, nil, err
	}

	history, err := s.messageRepo.ListByRoom(ctx, room.ID, historyPageSize)
	if err != nil {
		return nil, nil, err
	}
	return room, history, nil
}

func (s *chatService) ListRooms(ctx context.Context, userID string) ([]models.ChatRoom, error) {
	return s.roomRepo.ListForUser(ctx, userID)
}

func (s *chatService) RoomMessages(ctx context.Context, userID string, roomID int64, limit int) ([]models.Message, error) {
	ok, err := s.roomRepo.IsParticipant(ctx, roomID, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrRoomAccess
	}

	if limit <= 0 || limit > messagePageSize {
		limit = messagePageSize
	}
	return s.messageRepo.ListByRoom(ctx, roomID, limit)
}

func (s *chatService) MarkRoomRead(ctx context.Context, userID string, roomID int64) error {
	ok, err := s.roomRepo.IsParticipant(ctx, roomID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrRoomAccess
	}
	return s.messageRepo.MarkRead(ctx, roomID, userID)
}

func (s *chatService) SendMessage(ctx context.Context, userID string, roomID int64, content string) (*models.Message, error) {
	ok, err := s.roomRepo.IsParticipant(ctx, roomID, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrRoomAccess
	}

	message := &models.Message{
		RoomID:   roomID,
		SenderID: userID,
		Content:  content,
	}
	if err := s.messageRepo.Create(ctx, message); err != nil {
		return nil, err
	}
	return message, nil
}

// CanAccessDirectRoom reports whether the user may attach to the room's
// live stream. False for missing rooms, course rooms reached via the DM
// path, and non-participants alike.
func (s *chatService) CanAccessDirectRoom(ctx context.Context, roomID int64, userID string) (bool, error) {
	room, err := s.roomRepo.FindByID(ctx, roomID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	if room.RoomType != models.RoomDirect {
		return false, nil
	}
	return s.roomRepo.IsParticipant(ctx, roomID, userID)
}

// EnsureCourseRoom resolves the course, checks teacher-or-active-enrollee,
// get-or-creates the room and adds the caller as a participant.
func (s *chatService) EnsureCourseRoom(ctx context.Context, courseID int64, userID string) (*models.ChatRoom, error) {
	course, err := s.courseRepo.FindByID(ctx, courseID)
	if err != nil {
		// Fail closed: a missing course is an access failure, not a 404.
		return nil, ErrRoomAccess
	}

	if course.TeacherID != userID {
		active, err := s.enrollmentRepo.HasActive(ctx, userID, courseID)
		if err != nil {
			return nil, err
		}
		if !active {
			return nil, ErrRoomAccess
		}
	}

	room, err := s.roomRepo.GetOrCreateCourseRoom(ctx, courseID, fmt.Sprintf("%s - Group Chat", course.Code))
	if err != nil {
		return nil, err
	}
	if err := s.roomRepo.AddParticipant(ctx, room.ID, userID); err != nil {
		return nil, err
	}
	return room, nil
}

func (s *chatService) SaveDirectMessage(ctx context.Context, roomID int64, senderID, content string) (*models.Message, error) {
	message := &models.Message{
		RoomID:   roomID,
		SenderID: senderID,
		Content:  content,
	}
	if err := s.messageRepo.Create(ctx, message); err != nil {
		return nil, err
	}
	return message, nil
}

func (s *chatService) SaveCourseMessage(ctx context.Context, courseID int64, senderID, content string) (*models.Message, error) {
	// Authorization was checked at connect time; the room lookup is
	// repeated because messages carry the room id, not the course id.
	room, err := s.EnsureCourseRoom(ctx, courseID, senderID)
	if err != nil {
		return nil, err
	}
	return s.SaveDirectMessage(ctx, room.ID, senderID, content)
}
