package service

import (
	"context"
	"errors"

	"elearnhub/internal/dto"
	"elearnhub/internal/models"
	"elearnhub/internal/repository"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrNotOwner     = errors.New("not the owner of this resource")
)

type UserService interface {
	GetProfile(ctx context.Context, userID string) (*models.User, error)
	UpdateProfile(ctx context.Context, userID string, req *dto.UpdateProfileRequest) (*models.Profile, error)
	Search(ctx context.Context, query string, limit int) ([]models.User, error)
	PostStatusUpdate(ctx context.Context, userID, content string) (*models.StatusUpdate, error)
	ListStatusUpdates(ctx context.Context, userID string, limit int) ([]models.StatusUpdate, error)
	DeleteStatusUpdate(ctx context.Context, userID string, updateID int64) error
}

type userService struct {
	userRepo         repository.UserRepository
	profileRepo      repository.ProfileRepository
	statusUpdateRepo repository.StatusUpdateRepository
}

func NewUserService(
	userRepo repository.UserRepository,
	profileRepo repository.ProfileRepository,
	statusUpdateRepo repository.StatusUpdateRepository,
) UserService {
	return &userService{
		userRepo:         userRepo,
		profileRepo:      profileRepo,
		statusUpdateRepo: statusUpdateRepo,
	}
}

// GetProfile returns the user with the profile association loaded.
func (s *userService) GetProfile(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *userService) UpdateProfile(ctx context.Context, userID string, req *dto.UpdateProfileRequest) (*models.Profile, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	profile.Bio = req.Bio
	profile.Phone = req.Phone
	profile.DateOfBirth = req.DateOfBirth
	profile.Department = req.Department
	profile.StudentID = req.StudentID
	profile.EnrollmentYear = req.EnrollmentYear

	if err := s.profileRepo.Update(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func (s *userService) Search(ctx context.Context, query string, limit int) ([]models.User, error) {
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	return s.userRepo.Search(ctx, query, limit)
}

func (s *userService) PostStatusUpdate(ctx context.Context, userID, content string) (*models.StatusUpdate, error) {
	update := &models.StatusUpdate{
		UserID:  userID,
		Content: content,
	}
	if err := s.statusUpdateRepo.Create(ctx, update); err != nil {
		return nil, err
	}
	return update, nil
}

func (s *userService) ListStatusUpdates(ctx context.Context, userID string, limit int) ([]models.StatusUpdate, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.statusUpdateRepo.ListByUser(ctx, userID, limit)
}

// DeleteStatusUpdate removes a post. Only the author may delete it.
func (s *userService) DeleteStatusUpdate(ctx context.Context, userID string, updateID int64) error {
	update, err := s.statusUpdateRepo.FindByID(ctx, updateID)
	if err != nil {
		return err
	}
	if update.UserID != userID {
		return ErrNotOwner
	}
	return s.statusUpdateRepo.Delete(ctx, updateID)
}
