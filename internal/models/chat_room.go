package models

import "time"

// RoomType distinguishes the two chat room shapes. A direct room has
// exactly two participants and no course; a course room is linked 1:1
// to its course and accumulates participants over time.
type RoomType string

const (
	RoomDirect RoomType = "direct"
	RoomCourse RoomType = "course"
)

// ChatRoom scopes message persistence and broadcast fan-out.
//
// Rooms are created lazily: a direct room on the first DM bootstrap
// between a pair of users, a course room on first access to the course
// chat. They are never deleted by normal flow. Direct-room uniqueness
// per participant pair is enforced at the application level, there is
// no schema constraint for it.
type ChatRoom struct {
	ID        int64    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string   `gorm:"size:200" json:"name"`
	RoomType  RoomType `gorm:"type:varchar(10);not null" json:"room_type"`
	CourseID  *int64   `gorm:"uniqueIndex" json:"course_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`

	// Associations
	Course       *Course `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"course,omitempty"`
	Participants []User  `gorm:"many2many:chat_room_participants" json:"participants,omitempty"`
}

func (ChatRoom) TableName() string {
	return "chat_rooms"
}
