package handler

import (
	"net/http"
	"strconv"

	"elearnhub/internal/dto"
	"elearnhub/internal/service"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userService service.UserService
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func (h *UserHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/me", h.Me)
	rg.PUT("/me/profile", h.UpdateProfile)
	rg.POST("/me/status", h.PostStatusUpdate)
	rg.DELETE("/me/status/:id", h.DeleteStatusUpdate)
	rg.GET("/search", h.Search)
	rg.GET("/:user_id", h.GetUser)
	rg.GET("/:user_id/status", h.ListStatusUpdates)
}

func (h *UserHandler) Me(c *gin.Context) {
	userID := c.GetString("userID")

	user, err := h.userService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	c.JSON(http.StatusOK, dto.ProfileResponse{
		User:    dto.FromModelToUserResponse(user),
		Profile: user.Profile,
	})
}

func (h *UserHandler) GetUser(c *gin.Context) {
	user, err := h.userService.GetProfile(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	c.JSON(http.StatusOK, dto.FromModelToUserResponse(user))
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profile, err := h.userService.UpdateProfile(c.Request.Context(), c.GetString("userID"), &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *UserHandler) Search(c *gin.Context) {
	query := c.Query("q")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	users, err := h.userService.Search(c.Request.Context(), query, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	results := make([]*dto.UserResponse, 0, len(users))
	for i := range users {
		results = append(results, dto.FromModelToUserResponse(&users[i]))
	}
	c.JSON(http.StatusOK, gin.H{"users": results})
}

func (h *UserHandler) PostStatusUpdate(c *gin.Context) {
	var req dto.CreateStatusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	update, err := h.userService.PostStatusUpdate(c.Request.Context(), c.GetString("userID"), req.Content)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, update)
}

func (h *UserHandler) ListStatusUpdates(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	updates, err := h.userService.ListStatusUpdates(c.Request.Context(), c.Param("user_id"), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	results := make([]*dto.StatusUpdateResponse, 0, len(updates))
	for i := range updates {
		results = append(results, dto.FromModelToStatusUpdateResponse(&updates[i]))
	}
	c.JSON(http.StatusOK, gin.H{"status_updates": results})
}

func (h *UserHandler) DeleteStatusUpdate(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status update id"})
		return
	}

	err = h.userService.DeleteStatusUpdate(c.Request.Context(), c.GetString("userID"), id)
	switch err {
	case nil:
		c.Status(http.StatusNoContent)
	case service.ErrNotOwner:
		c.JSON(http.StatusForbidden, gin.H{"error": "not the author"})
	default:
		c.JSON(http.StatusNotFound, gin.H{"error": "status update not found"})
	}
}
