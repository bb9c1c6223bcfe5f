package ws

import (
	"fmt"
	"time"
)

// InboundFrame is what the client sends over an open connection.
type InboundFrame struct {
	Message string `json:"message"`
}

// OutboundFrame is broadcast to every connection in a room's group,
// including the sender's own. Timestamp is the server-assigned
// persistence time in ISO-8601.
type OutboundFrame struct {
	Message        string `json:"message"`
	SenderID       string `json:"sender_id"`
	SenderUsername string `json:"sender_username"`
	Timestamp      string `json:"timestamp"`
}

// NewOutboundFrame builds the broadcast frame for a persisted message.
func NewOutboundFrame(message, senderID, senderUsername string, ts time.Time) OutboundFrame {
	return OutboundFrame{
		Message:        message,
		SenderID:       senderID,
		SenderUsername: senderUsername,
		Timestamp:      ts.UTC().Format(time.RFC3339),
	}
}

// DirectGroup names the broadcast group for a direct-message room.
func DirectGroup(roomID int64) string {
	return fmt.Sprintf("dm_%d", roomID)
}

// CourseGroup names the broadcast group for a course chat. Keyed on the
// course ID, not the room ID: the room may not exist yet at connect time.
func CourseGroup(courseID int64) string {
	return fmt.Sprintf("course_chat_%d", courseID)
}
