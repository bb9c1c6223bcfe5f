package dto

import (
	"time"

	"elearnhub/internal/models"
)

// UserResponse for returning public user information
type UserResponse struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role"`
}

// FromModelToUserResponse converts a User model to UserResponse DTO
func FromModelToUserResponse(user *models.User) *UserResponse {
	return &UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Role:      string(user.Role),
	}
}

// UpdateProfileRequest for editing the caller's own profile
type UpdateProfileRequest struct {
	Bio            string     `json:"bio" binding:"max=500"`
	Phone          string     `json:"phone" binding:"max=20"`
	DateOfBirth    *time.Time `json:"date_of_birth,omitempty"`
	Department     string     `json:"department" binding:"max=100"`
	StudentID      *string    `json:"student_id,omitempty"`
	EnrollmentYear *int       `json:"enrollment_year,omitempty"`
}

// ProfileResponse for returning a user together with profile details
type ProfileResponse struct {
	User    *UserResponse   `json:"user"`
	Profile *models.Profile `json:"profile,omitempty"`
}

// CreateStatusUpdateRequest for posting a status update
type CreateStatusUpdateRequest struct {
	Content string `json:"content" binding:"required,min=1,max=1000"`
}

// StatusUpdateResponse for returning a status update with its author
type StatusUpdateResponse struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// FromModelToStatusUpdateResponse converts a StatusUpdate model to its DTO
func FromModelToStatusUpdateResponse(su *models.StatusUpdate) *StatusUpdateResponse {
	resp := &StatusUpdateResponse{
		ID:        su.ID,
		Content:   su.Content,
		CreatedAt: su.CreatedAt,
	}
	if su.User != nil {
		resp.Username = su.User.Username
	}
	return resp
}
