package repository

import (
	"context"

	"elearnhub/internal/models"

	"gorm.io/gorm"
)

type ChatRoomRepository interface {
	FindByID(ctx context.Context, id int64) (*models.ChatRoom, error)
	// FindDirectBetween returns the direct room whose participant set is
	// exactly {userA, userB}, or gorm.ErrRecordNotFound.
	FindDirectBetween(ctx context.Context, userA, userB string) (*models.ChatRoom, error)
	CreateDirect(ctx context.Context, name string, userA, userB *models.User) (*models.ChatRoom, error)
	// GetOrCreateCourseRoom is keyed on (course_id, room_type=course);
	// defaultName applies only when the room is first created.
	GetOrCreateCourseRoom(ctx context.Context, courseID int64, defaultName string) (*models.ChatRoom, error)
	IsParticipant(ctx context.Context, roomID int64, userID string) (bool, error)
	AddParticipant(ctx context.Context, roomID int64, userID string) error
	ListForUser(ctx context.Context, userID string) ([]models.ChatRoom, error)
}

type chatRoomRepository struct {
	db *gorm.DB
}

func NewChatRoomRepository(db *gorm.DB) ChatRoomRepository {
	return &chatRoomRepository{db: db}
}

func (r *chatRoomRepository) FindByID(ctx context.Context, id int64) (*models.ChatRoom, error) {
	var room models.ChatRoom
	if err := r.db.WithContext(ctx).Preload("Participants").First(&room, id).Error; err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *chatRoomRepository) FindDirectBetween(ctx context.Context, userA, userB string) (*models.ChatRoom, error) {
	var room models.ChatRoom
	// Self-join on the participant table: the room must contain both users.
	// Direct rooms only ever hold two participants, so that is sufficient.
	err := r.db.WithContext(ctx).
		Joins("JOIN chat_room_participants p1 ON p1.chat_room_id = chat_rooms.id AND p1.user_id = ?", userA).
		Joins("JOIN chat_room_participants p2 ON p2.chat_room_id = chat_rooms.id AND p2.user_id = ?", userB).
		Where("chat_rooms.room_type = ?", models.RoomDirect).
		First(&room).Error
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *chatRoomRepository) CreateDirect(ctx context.Context, name string, userA, userB *models.User) (*models.ChatRoom, error) {
	room := &models.ChatRoom{
		Name:         name,
		RoomType:     models.RoomDirect,
		Participants: []models.User{*userA, *userB},
	}
	if err := r.db.WithContext(ctx).Create(room).Error; err != nil {
		return nil, err
	}
	return room, nil
}

func (r *chatRoomRepository) GetOrCreateCourseRoom(ctx context.Context, courseID int64, defaultName string) (*models.ChatRoom, error) {
	var room models.ChatRoom
	err := r.db.WithContext(ctx).
		Where(&models.ChatRoom{CourseID: &courseID, RoomType: models.RoomCourse}).
		Attrs(&models.ChatRoom{Name: defaultName}).
		FirstOrCreate(&room).Error
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *chatRoomRepository) IsParticipant(ctx context.Context, roomID int64, userID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("chat_room_participants").
		Where("chat_room_id = ? AND user_id = ?", roomID, userID).
		Count(&count).Error
	return count > 0, err
}

// AddParticipant is idempotent: adding an existing participant is a no-op.
func (r *chatRoomRepository) AddParticipant(ctx context.Context, roomID int64, userID string) error {
	member, err := r.IsParticipant(ctx, roomID, userID)
	if err != nil {
		return err
	}
	if member {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.ChatRoom{ID: roomID}).
		Association("Participants").
		Append(&models.User{ID: userID})
}

func (r *chatRoomRepository) ListForUser(ctx context.Context, userID string) ([]models.ChatRoom, error) {
	var rooms []models.ChatRoom
	err := r.db.WithContext(ctx).
		Preload("Participants").
		Preload("Course").
		Joins("JOIN chat_room_participants p ON p.chat_room_id = chat_rooms.id AND p.user_id = ?", userID).
		Order("chat_rooms.created_at DESC").
		Find(&rooms).Error
	return rooms, err
}
