package dto

import (
	"time"

	"elearnhub/internal/models"
)

// CreateCourseRequest for creating a course (teacher only)
type CreateCourseRequest struct {
	Title       string `json:"title" binding:"required,min=3,max=200"`
	Code        string `json:"code" binding:"required,min=2,max=20"`
	Description string `json:"description" binding:"required"`
	Category    string `json:"category" binding:"max=100"`
	MaxStudents int    `json:"max_students" binding:"omitempty,min=1,max=1000"`
}

// UpdateCourseRequest for editing a course (owner only)
type UpdateCourseRequest struct {
	Title       string `json:"title" binding:"omitempty,min=3,max=200"`
	Description string `json:"description"`
	Category    string `json:"category" binding:"max=100"`
	MaxStudents int    `json:"max_students" binding:"omitempty,min=1,max=1000"`
	IsActive    *bool  `json:"is_active,omitempty"`
}

// CourseResponse for returning course information
type CourseResponse struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title"`
	Code          string    `json:"code"`
	Description   string    `json:"description"`
	Category      string    `json:"category"`
	MaxStudents   int       `json:"max_students"`
	IsActive      bool      `json:"is_active"`
	TeacherID     string    `json:"teacher_id"`
	TeacherName   string    `json:"teacher_name,omitempty"`
	EnrolledCount int64     `json:"enrolled_count"`
	CreatedAt     time.Time `json:"created_at"`
}

// FromModelToCourseResponse converts a Course model to CourseResponse DTO
func FromModelToCourseResponse(course *models.Course, enrolledCount int64) *CourseResponse {
	resp := &CourseResponse{
		ID:            course.ID,
		Title:         course.Title,
		Code:          course.Code,
		Description:   course.Description,
		Category:      course.Category,
		MaxStudents:   course.MaxStudents,
		IsActive:      course.IsActive,
		TeacherID:     course.TeacherID,
		EnrolledCount: enrolledCount,
		CreatedAt:     course.CreatedAt,
	}
	if course.Teacher != nil {
		resp.TeacherName = course.Teacher.FullName()
	}
	return resp
}

// EnrollmentResponse for returning an enrollment record
type EnrollmentResponse struct {
	ID         int64      `json:"id"`
	CourseID   int64      `json:"course_id"`
	StudentID  string     `json:"student_id"`
	Student    string     `json:"student,omitempty"`
	Status     string     `json:"status"`
	EnrolledAt time.Time  `json:"enrolled_at"`
	DroppedAt  *time.Time `json:"dropped_at,omitempty"`
}

// FromModelToEnrollmentResponse converts an Enrollment model to its DTO
func FromModelToEnrollmentResponse(e *models.Enrollment) *EnrollmentResponse {
	resp := &EnrollmentResponse{
		ID:         e.ID,
		CourseID:   e.CourseID,
		StudentID:  e.StudentID,
		Status:     string(e.Status),
		EnrolledAt: e.EnrolledAt,
		DroppedAt:  e.DroppedAt,
	}
	if e.Student != nil {
		resp.Student = e.Student.FullName()
	}
	return resp
}

// CreateMaterialRequest for the metadata part of a material upload
type CreateMaterialRequest struct {
	Title       string `form:"title" binding:"required,min=1,max=200"`
	Description string `form:"description"`
}

// MaterialResponse for returning course material information
type MaterialResponse struct {
	ID           int64     `json:"id"`
	CourseID     int64     `json:"course_id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	FilePath     string    `json:"file_path"`
	MaterialType string    `json:"material_type"`
	FileSize     int64     `json:"file_size"`
	UploadedAt   time.Time `json:"uploaded_at"`
}

// FromModelToMaterialResponse converts a CourseMaterial model to its DTO
func FromModelToMaterialResponse(m *models.CourseMaterial) *MaterialResponse {
	return &MaterialResponse{
		ID:           m.ID,
		CourseID:     m.CourseID,
		Title:        m.Title,
		Description:  m.Description,
		FilePath:     m.FilePath,
		MaterialType: m.MaterialType,
		FileSize:     m.FileSize,
		UploadedAt:   m.UploadedAt,
	}
}

// CreateFeedbackRequest for leaving course feedback
type CreateFeedbackRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment" binding:"required,min=1,max=2000"`
}

// FeedbackResponse for returning feedback with its author
type FeedbackResponse struct {
	ID        int64     `json:"id"`
	CourseID  int64     `json:"course_id"`
	Student   string    `json:"student"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

// FromModelToFeedbackResponse converts a Feedback model to its DTO
func FromModelToFeedbackResponse(f *models.Feedback) *FeedbackResponse {
	resp := &FeedbackResponse{
		ID:        f.ID,
		CourseID:  f.CourseID,
		Rating:    f.Rating,
		Comment:   f.Comment,
		CreatedAt: f.CreatedAt,
	}
	if f.Student != nil {
		resp.Student = f.Student.FullName()
	}
	return resp
}
