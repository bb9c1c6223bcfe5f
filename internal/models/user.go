package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserRole is a closed enum: every account is either a student or a teacher.
type UserRole string

const (
	RoleStudent UserRole = "student"
	RoleTeacher UserRole = "teacher"
)

type User struct {
	ID        string     `gorm:"primaryKey;type:uuid" json:"id"`
	Username  string     `gorm:"uniqueIndex;not null" json:"username"`
	Email     string     `gorm:"uniqueIndex;not null" json:"email"`
	Password  string     `gorm:"column:password_hash;not null" json:"-"` // Not show in JSON
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	Role      UserRole   `gorm:"type:varchar(10);default:'student';not null" json:"role"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	LastLogin *time.Time `json:"last_login,omitempty"`

	// Associations
	Profile *Profile `gorm:"foreignKey:UserID" json:"profile,omitempty"`
}

// BeforeCreate hook to set UUID before creating a User
func (user *User) BeforeCreate(tx *gorm.DB) (err error) {
	// If the ID is not already set, generate a new one.
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	return
}

// IsTeacher reports whether this account has the teacher role.
func (user *User) IsTeacher() bool {
	return user.Role == RoleTeacher
}

// IsStudent reports whether this account has the student role.
func (user *User) IsStudent() bool {
	return user.Role == RoleStudent
}

// FullName returns "First Last", falling back to the username.
func (user *User) FullName() string {
	name := strings.TrimSpace(user.FirstName + " " + user.LastName)
	if name == "" {
		return user.Username
	}
	return name
}

func (User) TableName() string {
	return "users"
}
