package models

import "time"

// Course is created and owned by a teacher. The code is the human-facing
// unique identifier ("CS101"); max_students caps active enrollments.
type Course struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	TeacherID   string    `gorm:"type:uuid;not null;index" json:"teacher_id"`
	Title       string    `gorm:"not null" json:"title"`
	Code        string    `gorm:"uniqueIndex;size:20;not null" json:"code"`
	Description string    `gorm:"type:text;not null" json:"description"`
	Category    string    `gorm:"size:100" json:"category"`
	MaxStudents int       `gorm:"default:50;not null" json:"max_students"`
	IsActive    bool      `gorm:"default:true;not null" json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Associations
	Teacher *User `gorm:"foreignKey:TeacherID" json:"teacher,omitempty"`
}

func (Course) TableName() string {
	return "courses"
}
