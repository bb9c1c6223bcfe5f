package models

import "time"

// Feedback is a rating plus comment left by a student for a course.
// One per (course, student) pair, enforced by the composite unique index.
type Feedback struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	CourseID  int64     `gorm:"not null;uniqueIndex:idx_feedback_course_student" json:"course_id"`
	StudentID string    `gorm:"type:uuid;not null;uniqueIndex:idx_feedback_course_student" json:"student_id"`
	Rating    int       `gorm:"not null;check:rating >= 1 AND rating <= 5" json:"rating"`
	Comment   string    `gorm:"size:2000;not null" json:"comment"`
	CreatedAt time.Time `json:"created_at"`

	// Associations
	Course  *Course `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"course,omitempty"`
	Student *User   `gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE" json:"student,omitempty"`
}

func (Feedback) TableName() string {
	return "feedback"
}
