package models

import "time"

// Profile holds the extended biographical data for a user. One row per
// account, created together with the User on registration. Some fields
// only make sense for one role (department for teachers, student_id and
// enrollment_year for students) and stay empty for the other.
type Profile struct {
	ID          int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      string     `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	Bio         string     `gorm:"size:500" json:"bio"`
	AvatarPath  string     `json:"avatar_path"`
	DateOfBirth *time.Time `json:"date_of_birth,omitempty"`
	Phone       string     `gorm:"size:20" json:"phone"`

	// Teacher-specific
	Department string `gorm:"size:100" json:"department"`

	// Student-specific
	StudentID      *string `gorm:"size:20;uniqueIndex" json:"student_id,omitempty"`
	EnrollmentYear *int    `json:"enrollment_year,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Profile) TableName() string {
	return "profiles"
}
