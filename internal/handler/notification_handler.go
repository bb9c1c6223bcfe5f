package handler

import (
	"net/http"
	"strconv"

	"elearnhub/internal/dto"
	"elearnhub/internal/service"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	svc service.NotificationService
}

func NewNotificationHandler(svc service.NotificationService) *NotificationHandler {
	return &NotificationHandler{svc: svc}
}

func (h *NotificationHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.GET("/unread", h.ListUnread)
	rg.GET("/unread/count", h.UnreadCount)
	rg.PUT("/:id/read", h.MarkRead)
	rg.PUT("/read-all", h.MarkAllRead)
}

func (h *NotificationHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	notifications, err := h.svc.List(c.Request.Context(), c.GetString("userID"), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	results := make([]*dto.NotificationResponse, 0, len(notifications))
	for i := range notifications {
		results = append(results, dto.FromModelToNotificationResponse(&notifications[i]))
	}
	c.JSON(http.StatusOK, gin.H{"notifications": results})
}

func (h *NotificationHandler) ListUnread(c *gin.Context) {
	notifications, err := h.svc.ListUnread(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	results := make([]*dto.NotificationResponse, 0, len(notifications))
	for i := range notifications {
		results = append(results, dto.FromModelToNotificationResponse(&notifications[i]))
	}
	c.JSON(http.StatusOK, gin.H{"notifications": results})
}

func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	count, err := h.svc.UnreadCount(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.UnreadCountResponse{Count: count})
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid notification id"})
		return
	}

	err = h.svc.MarkRead(c.Request.Context(), c.GetString("userID"), id)
	switch err {
	case nil:
		c.Status(http.StatusNoContent)
	case service.ErrNotificationMissing:
		c.JSON(http.StatusNotFound, gin.H{"error": "notification not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	if err := h.svc.MarkAllRead(c.Request.Context(), c.GetString("userID")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}
