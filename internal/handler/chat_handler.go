package handler

import (
	"net/http"
	"strconv"

	"elearnhub/internal/dto"
	"elearnhub/internal/models"
	"elearnhub/internal/service"

	"github.com/gin-gonic/gin"
)

type ChatHandler struct {
	chatService service.ChatService
}

func NewChatHandler(chatService service.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

func (h *ChatHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/rooms", h.ListRooms)
	rg.POST("/dm/:user_id", h.OpenDirectRoom)
	rg.POST("/course/:course_id", h.OpenCourseRoom)
	rg.GET("/rooms/:room_id/messages", h.RoomMessages)
	rg.POST("/rooms/:room_id/messages", h.SendMessage)
	rg.POST("/rooms/:room_id/read", h.MarkRoomRead)
}

func (h *ChatHandler) ListRooms(c *gin.Context) {
	rooms, err := h.chatService.ListRooms(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	results := make([]*dto.ChatRoomResponse, 0, len(rooms))
	for i := range rooms {
		results = append(results, dto.FromModelToChatRoomResponse(&rooms[i]))
	}
	c.JSON(http.StatusOK, gin.H{"rooms": results})
}

// OpenDirectRoom is the DM bootstrap: find or create the room with the
// other user, return it with recent history.
func (h *ChatHandler) OpenDirectRoom(c *gin.Context) {
	room, history, err := h.chatService.OpenDirectRoom(c.Request.Context(), c.GetString("userID"), c.Param("user_id"))
	switch err {
	case nil:
		c.JSON(http.StatusOK, roomWithHistory(room, history))
	case service.ErrSelfChat:
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot chat with yourself"})
	case service.ErrUserNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func (h *ChatHandler) OpenCourseRoom(c *gin.Context) {
	courseID, err := strconv.ParseInt(c.Param("course_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid course id"})
		return
	}

	room, history, err := h.chatService.OpenCourseRoom(c.Request.Context(), c.GetString("userID"), courseID)
	switch err {
	case nil:
		c.JSON(http.StatusOK, roomWithHistory(room, history))
	case service.ErrRoomAccess:
		c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func (h *ChatHandler) RoomMessages(c *gin.Context) {
	roomID, err := strconv.ParseInt(c.Param("room_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid room id"})
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	messages, err := h.chatService.RoomMessages(c.Request.Context(), c.GetString("userID"), roomID, limit)
	switch err {
	case nil:
		c.JSON(http.StatusOK, gin.H{"messages": messageResponses(messages)})
	case service.ErrRoomAccess:
		c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// SendMessage persists a message without broadcasting it to connected
// WebSocket clients.
func (h *ChatHandler) SendMessage(c *gin.Context) {
	roomID, err := strconv.ParseInt(c.Param("room_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid room id"})
		return
	}

	var req dto.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	message, err := h.chatService.SendMessage(c.Request.Context(), c.GetString("userID"), roomID, req.Content)
	switch err {
	case nil:
		c.JSON(http.StatusCreated, dto.FromModelToMessageResponse(message))
	case service.ErrRoomAccess:
		c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// MarkRoomRead marks the other participants' messages in the room as
// read. History fetches never change read state on their own.
func (h *ChatHandler) MarkRoomRead(c *gin.Context) {
	roomID, err := strconv.ParseInt(c.Param("room_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid room id"})
		return
	}

	err = h.chatService.MarkRoomRead(c.Request.Context(), c.GetString("userID"), roomID)
	switch err {
	case nil:
		c.JSON(http.StatusOK, gin.H{"message": "messages marked as read"})
	case service.ErrRoomAccess:
		c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func roomWithHistory(room *models.ChatRoom, history []models.Message) *dto.RoomWithHistoryResponse {
	return &dto.RoomWithHistoryResponse{
		Room:     dto.FromModelToChatRoomResponse(room),
		Messages: messageResponses(history),
	}
}

func messageResponses(messages []models.Message) []*dto.MessageResponse {
	results := make([]*dto.MessageResponse, 0, len(messages))
	for i := range messages {
		results = append(results, dto.FromModelToMessageResponse(&messages[i]))
	}
	return results
}
