package models

import "time"

// EnrollmentStatus is the enrollment state machine:
//
//	(new) -> active -> dropped -> active (re-enroll, same row)
//	active/dropped -> blocked (teacher action, terminal for the student)
type EnrollmentStatus string

const (
	EnrollmentActive  EnrollmentStatus = "active"
	EnrollmentDropped EnrollmentStatus = "dropped"
	EnrollmentBlocked EnrollmentStatus = "blocked"
)

// Enrollment links a student to a course. Exactly one row per
// (student, course) pair; re-enrollment mutates the existing row.
type Enrollment struct {
	ID         int64            `gorm:"primaryKey;autoIncrement" json:"id"`
	StudentID  string           `gorm:"type:uuid;not null;uniqueIndex:idx_enrollments_student_course" json:"student_id"`
	CourseID   int64            `gorm:"not null;uniqueIndex:idx_enrollments_student_course;index" json:"course_id"`
	Status     EnrollmentStatus `gorm:"type:varchar(10);default:'active';not null" json:"status"`
	EnrolledAt time.Time        `gorm:"autoCreateTime" json:"enrolled_at"`
	DroppedAt  *time.Time       `json:"dropped_at,omitempty"`

	// Associations
	Student *User   `gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE" json:"student,omitempty"`
	Course  *Course `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"course,omitempty"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}
