package dto

import (
	"time"

	"elearnhub/internal/models"
)

// SendMessageRequest for the REST message send endpoint
type SendMessageRequest struct {
	Content string `json:"content" binding:"required,min=1,max=5000"`
}

// MessageResponse for returning a stored chat message
type MessageResponse struct {
	ID             int64     `json:"id"`
	RoomID         int64     `json:"room_id"`
	SenderID       string    `json:"sender_id"`
	SenderUsername string    `json:"sender_username,omitempty"`
	Content        string    `json:"content"`
	Timestamp      time.Time `json:"timestamp"`
	IsRead         bool      `json:"is_read"`
}

// FromModelToMessageResponse converts a Message model to MessageResponse DTO
func FromModelToMessageResponse(msg *models.Message) *MessageResponse {
	resp := &MessageResponse{
		ID:        msg.ID,
		RoomID:    msg.RoomID,
		SenderID:  msg.SenderID,
		Content:   msg.Content,
		Timestamp: msg.Timestamp,
		IsRead:    msg.IsRead,
	}
	if msg.Sender != nil {
		resp.SenderUsername = msg.Sender.Username
	}
	return resp
}

// ChatRoomResponse for returning a chat room summary
type ChatRoomResponse struct {
	ID           int64           `json:"id"`
	Name         string          `json:"name"`
	RoomType     string          `json:"room_type"`
	CourseID     *int64          `json:"course_id,omitempty"`
	Participants []*UserResponse `json:"participants,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

// FromModelToChatRoomResponse converts a ChatRoom model to its DTO
func FromModelToChatRoomResponse(room *models.ChatRoom) *ChatRoomResponse {
	resp := &ChatRoomResponse{
		ID:        room.ID,
		Name:      room.Name,
		RoomType:  string(room.RoomType),
		CourseID:  room.CourseID,
		CreatedAt: room.CreatedAt,
	}
	for i := range room.Participants {
		resp.Participants = append(resp.Participants, FromModelToUserResponse(&room.Participants[i]))
	}
	return resp
}

// RoomWithHistoryResponse bundles a room with its recent messages, as
// returned by the DM bootstrap and course chat endpoints.
type RoomWithHistoryResponse struct {
	Room     *ChatRoomResponse  `json:"room"`
	Messages []*MessageResponse `json:"messages"`
}
