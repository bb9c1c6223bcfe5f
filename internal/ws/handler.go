package ws

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"elearnhub/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// HTTP upgrade handlers for the two chat room types. Authorization is
// decided before the handshake completes: a rejected caller never
// reaches a broadcast group and learns nothing about room existence.

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// allow all origins for development purpose; can restrict later
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// RoomAccess is the slice of the chat service the gate needs: room
// authorization checks and message persistence.
type RoomAccess interface {
	CanAccessDirectRoom(ctx context.Context, roomID int64, userID string) (bool, error)
	EnsureCourseRoom(ctx context.Context, courseID int64, userID string) (*models.ChatRoom, error)
	SaveDirectMessage(ctx context.Context, roomID int64, senderID, content string) (*models.Message, error)
	SaveCourseMessage(ctx context.Context, courseID int64, senderID, content string) (*models.Message, error)
}

// DirectChatHandler gates connections to /ws/chat/:room_id.
//
// The room must already exist and the caller must be one of its
// participants; the DM WebSocket path never creates rooms (the HTTP
// bootstrap endpoint does).
func DirectChatHandler(hub *Hub, access RoomAccess, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, username, ok := identityFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		roomID, err := strconv.ParseInt(c.Param("room_id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
			return
		}

		// Not-found and not-a-participant are indistinguishable on purpose.
		allowed, err := access.CanAccessDirectRoom(c.Request.Context(), roomID, userID)
		if err != nil || !allowed {
			c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
			return
		}

		group := DirectGroup(roomID)
		ingest := func(ctx context.Context, text string) {
			msg, err := access.SaveDirectMessage(ctx, roomID, userID, text)
			if err != nil {
				// Persistence failure: no broadcast, nothing back to the sender.
				logger.Error("ws save direct message", "room", roomID, "user", userID, "error", err)
				return
			}
			frame := NewOutboundFrame(text, userID, username, msg.Timestamp)
			if err := hub.Broadcast(ctx, group, frame); err != nil {
				logger.Error("ws broadcast", "group", group, "error", err)
			}
		}

		serveConnection(c, hub, group, userID, username, ingest, logger)
	}
}

// CourseChatHandler gates connections to /ws/course/:course_id.
//
// Authorized iff the caller is the course teacher or holds an active
// enrollment. Unlike the DM path, the room is created lazily on first
// authorized connection.
func CourseChatHandler(hub *Hub, access RoomAccess, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, username, ok := identityFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		courseID, err := strconv.ParseInt(c.Param("course_id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
			return
		}

		// Resolves the course (fail closed), checks teacher-or-active-
		// enrollee, and get-or-creates the room.
		if _, err := access.EnsureCourseRoom(c.Request.Context(), courseID, userID); err != nil {
			c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
			return
		}

		group := CourseGroup(courseID)
		ingest := func(ctx context.Context, text string) {
			// Re-resolves the room via the same get-or-create as connect
			// time, in case it vanished between connect and first message.
			msg, err := access.SaveCourseMessage(ctx, courseID, userID, text)
			if err != nil {
				logger.Error("ws save course message", "course", courseID, "user", userID, "error", err)
				return
			}
			frame := NewOutboundFrame(text, userID, username, msg.Timestamp)
			if err := hub.Broadcast(ctx, group, frame); err != nil {
				logger.Error("ws broadcast", "group", group, "error", err)
			}
		}

		serveConnection(c, hub, group, userID, username, ingest, logger)
	}
}

// serveConnection upgrades the request, registers the client in its
// broadcast group, and starts the pumps.
func serveConnection(c *gin.Context, hub *Hub, group, userID, username string, ingest IngestFunc, logger *slog.Logger) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error response.
		logger.Error("ws upgrade", "user", userID, "error", err)
		return
	}

	client := NewClient(hub, conn, userID, username, group, ingest, logger)
	if err := hub.Join(group, client); err != nil {
		logger.Error("ws join group", "group", group, "user", userID, "error", err)
		conn.Close()
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	client.Start(ctx, cancel)
}

func identityFromContext(c *gin.Context) (userID, username string, ok bool) {
	idVal, exists := c.Get("userID")
	if !exists {
		return "", "", false
	}
	id, ok := idVal.(string)
	if !ok || id == "" {
		return "", "", false
	}
	name := ""
	if nameVal, exists := c.Get("username"); exists {
		name, _ = nameVal.(string)
	}
	return id, name, true
}
