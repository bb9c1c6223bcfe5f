package models

import "time"

// Notification types. The dispatcher sets these; user actions never
// create notifications directly.
const (
	NotificationEnrollment  = "enrollment"
	NotificationNewMaterial = "new_material"
	NotificationFeedback    = "feedback"
	NotificationGeneral     = "general"
)

type Notification struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	RecipientID string    `gorm:"type:uuid;not null;index" json:"recipient_id"`
	Type        string    `gorm:"size:20;not null" json:"type"`
	Title       string    `gorm:"size:200;not null" json:"title"`
	Message     string    `gorm:"type:text" json:"message"`
	Link        string    `gorm:"size:500" json:"link"`
	IsRead      bool      `gorm:"default:false" json:"is_read"`
	CreatedAt   time.Time `json:"created_at"`

	// Associations
	Recipient *User `gorm:"foreignKey:RecipientID;constraint:OnDelete:CASCADE" json:"recipient,omitempty"`
}

func (Notification) TableName() string {
	return "notifications"
}
