package handler

import (
	"context"
	"net/http"
	"strconv"

	"elearnhub/internal/dto"
	"elearnhub/internal/middleware"
	"elearnhub/internal/service"

	"github.com/gin-gonic/gin"
)

type CourseHandler struct {
	courseService     service.CourseService
	enrollmentService service.EnrollmentService
	materialService   service.MaterialService
	feedbackService   service.FeedbackService
}

func NewCourseHandler(
	courseService service.CourseService,
	enrollmentService service.EnrollmentService,
	materialService service.MaterialService,
	feedbackService service.FeedbackService,
) *CourseHandler {
	return &CourseHandler{
		courseService:     courseService,
		enrollmentService: enrollmentService,
		materialService:   materialService,
		feedbackService:   feedbackService,
	}
}

func (h *CourseHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", middleware.RequireTeacher(), h.Create)
	rg.GET("/teaching", middleware.RequireTeacher(), h.ListTeaching)
	rg.GET("/enrolled", middleware.RequireStudent(), h.ListEnrolled)
	rg.GET("/:course_id", h.Get)
	rg.PUT("/:course_id", middleware.RequireTeacher(), h.Update)

	rg.POST("/:course_id/enroll", middleware.RequireStudent(), h.Enroll)
	rg.POST("/:course_id/unenroll", middleware.RequireStudent(), h.Unenroll)
	rg.GET("/:course_id/students", middleware.RequireTeacher(), h.ListStudents)
	rg.POST("/:course_id/students/:student_id/block", middleware.RequireTeacher(), h.BlockStudent)
	rg.DELETE("/:course_id/students/:student_id", middleware.RequireTeacher(), h.RemoveStudent)

	rg.GET("/:course_id/materials", h.ListMaterials)
	rg.POST("/:course_id/materials", middleware.RequireTeacher(), h.UploadMaterial)
	rg.DELETE("/:course_id/materials/:material_id", middleware.RequireTeacher(), h.DeleteMaterial)

	rg.GET("/:course_id/feedback", h.ListFeedback)
	rg.POST("/:course_id/feedback", middleware.RequireStudent(), h.CreateFeedback)
}

func courseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("course_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid course id"})
		return 0, false
	}
	return id, true
}

func (h *CourseHandler) Create(c *gin.Context) {
	var req dto.CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	course, err := h.courseService.Create(c.Request.Context(), c.GetString("userID"), &req)
	if err == service.ErrCodeInUse {
		c.JSON(http.StatusConflict, gin.H{"error": "course code already in use"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, dto.FromModelToCourseResponse(course, 0))
}

func (h *CourseHandler) Update(c *gin.Context) {
	id, ok := courseID(c)
	if !ok {
		return
	}
	var req dto.UpdateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	course, err := h.courseService.Update(c.Request.Context(), c.GetString("userID"), id, &req)
	switch err {
	case nil:
		c.JSON(http.StatusOK, dto.FromModelToCourseResponse(course, 0))
	case service.ErrCourseNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": "course not found"})
	case service.ErrNotCourseOwner:
		c.JSON(http.StatusForbidden, gin.H{"error": "not the course owner"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func (h *CourseHandler) Get(c *gin.Context) {
	id, ok := courseID(c)
	if !ok {
		return
	}

	course, enrolled, err := h.courseService.Get(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "course not found"})
		return
	}
	c.JSON(http.StatusOK, dto.FromModelToCourseResponse(course, enrolled))
}

func (h *CourseHandler) List(c *gin.Context) {
	courses, err := h.courseService.List(c.Request.Context(), c.Query("q"), c.Query("category"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	results := make([]*dto.CourseResponse, 0, len(courses))
	for i := range courses {
		results = append(results, dto.FromModelToCourseResponse(&courses[i], 0))
	}
	c.JSON(http.StatusOK, gin.H{"courses": results})
}

func (h *CourseHandler) ListTeaching(c *gin.Context) {
	courses, err := h.courseService.ListByTeacher(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	results := make([]*dto.CourseResponse, 0, len(courses))
	for i := range courses {
		results = append(results, dto.FromModelToCourseResponse(&courses[i], 0))
	}
	c.JSON(http.StatusOK, gin.H{"courses": results})
}

func (h *CourseHandler) ListEnrolled(c *gin.Context) {
	enrollments, err := h.enrollmentService.ListMyCourses(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	results := make([]*dto.CourseResponse, 0, len(enrollments))
	for i := range enrollments {
		if enrollments[i].Course != nil {
			results = append(results, dto.FromModelToCourseResponse(enrollments[i].Course, 0))
		}
	}
	c.JSON(http.StatusOK, gin.H{"courses": results})
}

func (h *CourseHandler) Enroll(c *gin.Context) {
	id, ok := courseID(c)
	if !ok {
		return
	}

	enrollment, err := h.enrollmentService.Enroll(c.Request.Context(), c.GetString("userID"), id)
	switch err {
	case nil:
		c.JSON(http.StatusCreated, dto.FromModelToEnrollmentResponse(enrollment))
	case service.ErrCourseNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": "course not found"})
	case service.ErrCourseInactive, service.ErrCourseFull:
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case service.ErrAlreadyEnrolled:
		c.JSON(http.StatusConflict, gin.H{"error": "already enrolled"})
	case service.ErrEnrollmentBlocked:
		c.JSON(http.StatusForbidden, gin.H{"error": "enrollment blocked"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func (h *CourseHandler) Unenroll(c *gin.Context) {
	id, ok := courseID(c)
	if !ok {
		return
	}

	err := h.enrollmentService.Unenroll(c.Request.Context(), c.GetString("userID"), id)
	switch err {
	case nil:
		c.Status(http.StatusNoContent)
	case service.ErrNotEnrolled:
		c.JSON(http.StatusConflict, gin.H{"error": "not enrolled"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func (h *CourseHandler) ListStudents(c *gin.Context) {
	id, ok := courseID(c)
	if !ok {
		return
	}

	enrollments, err := h.courseService.ListStudents(c.Request.Context(), c.GetString("userID"), id)
	switch err {
	case nil:
	case service.ErrCourseNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": "course not found"})
		return
	case service.ErrNotCourseOwner:
		c.JSON(http.StatusForbidden, gin.H{"error": "not the course owner"})
		return
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	results := make([]*dto.EnrollmentResponse, 0, len(enrollments))
	for i := range enrollments {
		results = append(results, dto.FromModelToEnrollmentResponse(&enrollments[i]))
	}
	c.JSON(http.StatusOK, gin.H{"students": results})
}

func (h *CourseHandler) BlockStudent(c *gin.Context) {
	h.moderate(c, h.enrollmentService.BlockStudent)
}

func (h *CourseHandler) RemoveStudent(c *gin.Context) {
	h.moderate(c, h.enrollmentService.RemoveStudent)
}

func (h *CourseHandler) moderate(c *gin.Context, action func(ctx context.Context, teacherID, studentID string, courseID int64) error) {
	id, ok := courseID(c)
	if !ok {
		return
	}

	err := action(c.Request.Context(), c.GetString("userID"), c.Param("student_id"), id)
	switch err {
	case nil:
		c.Status(http.StatusNoContent)
	case service.ErrCourseNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": "course not found"})
	case service.ErrNotCourseOwner:
		c.JSON(http.StatusForbidden, gin.H{"error": "not the course owner"})
	case service.ErrEnrollmentMissing:
		c.JSON(http.StatusNotFound, gin.H{"error": "enrollment not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func (h *CourseHandler) UploadMaterial(c *gin.Context) {
	id, ok := courseID(c)
	if !ok {
		return
	}

	var req dto.CreateMaterialRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}

	material, err := h.materialService.Upload(c.Request.Context(), c.GetString("userID"), id, &req, file)
	switch err {
	case nil:
		c.JSON(http.StatusCreated, dto.FromModelToMaterialResponse(material))
	case service.ErrCourseNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": "course not found"})
	case service.ErrNotCourseOwner:
		c.JSON(http.StatusForbidden, gin.H{"error": "not the course owner"})
	case service.ErrFileTooLarge:
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file too large"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func (h *CourseHandler) ListMaterials(c *gin.Context) {
	id, ok := courseID(c)
	if !ok {
		return
	}

	materials, err := h.materialService.List(c.Request.Context(), c.GetString("userID"), id)
	switch err {
	case nil:
	case service.ErrCourseNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": "course not found"})
		return
	case service.ErrNotEnrolled:
		c.JSON(http.StatusForbidden, gin.H{"error": "not enrolled in this course"})
		return
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	results := make([]*dto.MaterialResponse, 0, len(materials))
	for i := range materials {
		results = append(results, dto.FromModelToMaterialResponse(&materials[i]))
	}
	c.JSON(http.StatusOK, gin.H{"materials": results})
}

func (h *CourseHandler) DeleteMaterial(c *gin.Context) {
	materialID, err := strconv.ParseInt(c.Param("material_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid material id"})
		return
	}

	err = h.materialService.Delete(c.Request.Context(), c.GetString("userID"), materialID)
	switch err {
	case nil:
		c.Status(http.StatusNoContent)
	case service.ErrMaterialMissing:
		c.JSON(http.StatusNotFound, gin.H{"error": "material not found"})
	case service.ErrNotCourseOwner:
		c.JSON(http.StatusForbidden, gin.H{"error": "not the course owner"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func (h *CourseHandler) CreateFeedback(c *gin.Context) {
	id, ok := courseID(c)
	if !ok {
		return
	}

	var req dto.CreateFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	feedback, err := h.feedbackService.Create(c.Request.Context(), c.GetString("userID"), id, &req)
	switch err {
	case nil:
		c.JSON(http.StatusCreated, dto.FromModelToFeedbackResponse(feedback))
	case service.ErrCourseNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": "course not found"})
	case service.ErrNotEnrolled:
		c.JSON(http.StatusForbidden, gin.H{"error": "active enrollment required"})
	case service.ErrFeedbackExists:
		c.JSON(http.StatusConflict, gin.H{"error": "feedback already left"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func (h *CourseHandler) ListFeedback(c *gin.Context) {
	id, ok := courseID(c)
	if !ok {
		return
	}

	feedback, err := h.feedbackService.ListByCourse(c.Request.Context(), id)
	if err == service.ErrCourseNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "course not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	results := make([]*dto.FeedbackResponse, 0, len(feedback))
	for i := range feedback {
		results = append(results, dto.FromModelToFeedbackResponse(&feedback[i]))
	}
	c.JSON(http.StatusOK, gin.H{"feedback": results})
}
