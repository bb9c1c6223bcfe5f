package dto

import (
	"time"

	"elearnhub/internal/models"
)

// NotificationResponse for returning a notification
type NotificationResponse struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Link      string    `json:"link"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

// FromModelToNotificationResponse converts a Notification model to its DTO
func FromModelToNotificationResponse(n *models.Notification) *NotificationResponse {
	return &NotificationResponse{
		ID:        n.ID,
		Type:      n.Type,
		Title:     n.Title,
		Message:   n.Message,
		Link:      n.Link,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt,
	}
}

// UnreadCountResponse for the unread counter badge
type UnreadCountResponse struct {
	Count int64 `json:"count"`
}
