package models

import "time"

// Message is a single chat message. Immutable after creation except for
// the read flag. Replay order is timestamp ascending within a room.
type Message struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	RoomID    int64     `gorm:"not null;index:idx_messages_room_id" json:"room_id"`
	SenderID  string    `gorm:"type:uuid;not null;index" json:"sender_id"`
	Content   string    `gorm:"size:5000;not null" json:"content"`
	Timestamp time.Time `gorm:"autoCreateTime" json:"timestamp"`
	IsRead    bool      `gorm:"default:false" json:"is_read"`

	// Associations
	Room   *ChatRoom `gorm:"foreignKey:RoomID;constraint:OnDelete:CASCADE" json:"room,omitempty"`
	Sender *User     `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
}

func (Message) TableName() string {
	return "messages"
}
