package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"elearnhub/internal/config"
	"elearnhub/internal/dispatch"
	"elearnhub/internal/dto"
	"elearnhub/internal/models"
	"elearnhub/internal/repository"
)

var (
	ErrFileTooLarge    = errors.New("file exceeds the upload size limit")
	ErrMaterialMissing = errors.New("material not found")
)

type MaterialService interface {
	// Upload stores the file under the upload root and records the
	// material, then queues the bulk student notification.
	Upload(ctx context.Context, teacherID string, courseID int64, req *dto.CreateMaterialRequest, file *multipart.FileHeader) (*models.CourseMaterial, error)
	// List requires the caller to be the course teacher or an active enrollee.
	List(ctx context.Context, userID string, courseID int64) ([]models.CourseMaterial, error)
	Delete(ctx context.Context, teacherID string, materialID int64) error
}

type materialService struct {
	materialRepo   repository.MaterialRepository
	courseRepo     repository.CourseRepository
	enrollmentRepo repository.EnrollmentRepository
	notifier       *dispatch.Notifier
	uploadPath     string
	uploadMaxSize  int64
}

func NewMaterialService(
	materialRepo repository.MaterialRepository,
	courseRepo repository.CourseRepository,
	enrollmentRepo repository.EnrollmentRepository,
	notifier *dispatch.Notifier,
	cfg *config.Config,
) MaterialService {
	return &materialService{
		materialRepo:   materialRepo,
		courseRepo:     courseRepo,
		enrollmentRepo: enrollmentRepo,
		notifier:       notifier,
		uploadPath:     cfg.UploadPath,
		uploadMaxSize:  cfg.UploadMaxSize,
	}
}

func (s *materialService) Upload(ctx context.Context, teacherID string, courseID int64, req *dto.CreateMaterialRequest, file *multipart.FileHeader) (*models.CourseMaterial, error) {
	course, err := s.courseRepo.FindByID(ctx, courseID)
	if err != nil {
		return nil, ErrCourseNotFound
	}
	if course.TeacherID != teacherID {
		return nil, ErrNotCourseOwner
	}
	if file.Size > s.uploadMaxSize {
		return nil, ErrFileTooLarge
	}

	destPath, err := s.saveFile(courseID, file)
	if err != nil {
		return nil, err
	}

	material := &models.CourseMaterial{
		CourseID:     courseID,
		UploadedByID: teacherID,
		Title:        req.Title,
		Description:  req.Description,
		FilePath:     destPath,
		MaterialType: classifyMaterial(file.Filename),
		FileSize:     file.Size,
	}
	if err := s.materialRepo.Create(ctx, material); err != nil {
		os.Remove(destPath)
		return nil, err
	}

	if err := s.notifier.MaterialUploaded(ctx, course, material); err != nil {
		return nil, err
	}
	return material, nil
}

func (s *materialService) List(ctx context.Context, userID string, courseID int64) ([]models.CourseMaterial, error) {
	course, err := s.courseRepo.FindByID(ctx, courseID)
	if err != nil {
		return nil, ErrCourseNotFound
	}
	if course.TeacherID != userID {
		active, err := s.enrollmentRepo.HasActive(ctx, userID, courseID)
		if err != nil {
			return nil, err
		}
		if !active {
			return nil, ErrNotEnrolled
		}
	}
	return s.materialRepo.ListByCourse(ctx, courseID)
}

func (s *materialService) Delete(ctx context.Context, teacherID string, materialID int64) error {
	material, err := s.materialRepo.FindByID(ctx, materialID)
	if err != nil {
		return ErrMaterialMissing
	}
	course, err := s.courseRepo.FindByID(ctx, material.CourseID)
	if err != nil {
		return ErrCourseNotFound
	}
	if course.TeacherID != teacherID {
		return ErrNotCourseOwner
	}

	if err := s.materialRepo.Delete(ctx, materialID); err != nil {
		return err
	}
	// Best effort: a missing file on disk is not worth failing the request.
	os.Remove(material.FilePath)
	return nil
}

// saveFile copies the upload under <root>/courses/<id>/, prefixing the
// name with a timestamp to avoid collisions between same-named files.
func (s *materialService) saveFile(courseID int64, file *multipart.FileHeader) (string, error) {
	dir := filepath.Join(s.uploadPath, "courses", fmt.Sprintf("%d", courseID))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	name := fmt.Sprintf("%d_%s", time.Now().UnixNano(), filepath.Base(file.Filename))
	destPath := filepath.Join(dir, name)

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	dst, err := os.Create(destPath)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(destPath)
		return "", err
	}
	return destPath, nil
}

func classifyMaterial(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return models.MaterialPDF
	case ".png", ".jpg", ".jpeg", ".gif", ".webp":
		return models.MaterialImage
	case ".mp4", ".webm", ".mkv", ".mov":
		return models.MaterialVideo
	case ".doc", ".docx", ".ppt", ".pptx", ".xls", ".xlsx", ".txt", ".md":
		return models.MaterialDocument
	default:
		return models.MaterialOther
	}
}
