package models

import "time"

// MaterialType classifies an uploaded file for display purposes.
const (
	MaterialPDF      = "pdf"
	MaterialImage    = "image"
	MaterialVideo    = "video"
	MaterialDocument = "document"
	MaterialOther    = "other"
)

// CourseMaterial is a file uploaded by the course teacher. Creating one
// triggers a bulk notification to all actively enrolled students.
type CourseMaterial struct {
	ID           int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	CourseID     int64     `gorm:"not null;index" json:"course_id"`
	UploadedByID string    `gorm:"type:uuid;not null" json:"uploaded_by_id"`
	Title        string    `gorm:"not null" json:"title"`
	Description  string    `gorm:"type:text" json:"description"`
	FilePath     string    `gorm:"not null" json:"file_path"`
	MaterialType string    `gorm:"size:20;default:'other'" json:"material_type"`
	FileSize     int64     `gorm:"default:0" json:"file_size"`
	UploadedAt   time.Time `gorm:"autoCreateTime" json:"uploaded_at"`

	// Associations
	Course     *Course `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"course,omitempty"`
	UploadedBy *User   `gorm:"foreignKey:UploadedByID" json:"uploaded_by,omitempty"`
}

func (CourseMaterial) TableName() string {
	return "course_materials"
}
