package service

import (
	"context"
	"testing"
	"time"

	"elearnhub/internal/config"
	"elearnhub/internal/dto"
	"elearnhub/internal/middleware/auth"
	"elearnhub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

// MockUserRepository mocks the UserRepository interface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Search(ctx context.Context, query string, limit int) ([]models.User, error) {
	args := m.Called(ctx, query, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockUserRepository) UpdateLastLogin(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockProfileRepository mocks the ProfileRepository interface
type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) Create(ctx context.Context, profile *models.Profile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *MockProfileRepository) GetByUserID(ctx context.Context, userID string) (*models.Profile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

func (m *MockProfileRepository) Update(ctx context.Context, profile *models.Profile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

// MockRefreshTokenRepository mocks the RefreshTokenRepository interface
type MockRefreshTokenRepository struct {
	mock.Mock
}

func (m *MockRefreshTokenRepository) Create(ctx context.Context, token *models.RefreshToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockRefreshTokenRepository) FindByToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RefreshToken), args.Error(1)
}

func (m *MockRefreshTokenRepository) Revoke(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRefreshTokenRepository) DeleteExpired(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:       "test-secret",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 7 * 24 * time.Hour,
	}
}

func TestRegister_Success(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockProfileRepo := new(MockProfileRepository)
	mockRefreshTokenRepo := new(MockRefreshTokenRepository)
	authService := NewAuthService(mockUserRepo, mockProfileRepo, mockRefreshTokenRepo, testConfig())

	mockUserRepo.On("FindByUsername", mock.Anything, "alice").Return(nil, gorm.ErrRecordNotFound)
	mockUserRepo.On("FindByEmail", mock.Anything, "alice@example.com").Return(nil, gorm.ErrRecordNotFound)
	mockUserRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.User")).Return(nil)
	mockProfileRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.Profile")).Return(nil)

	user, err := authService.Register(context.Background(), &dto.RegisterRequest{
		Username: "alice",
		Password: "password123",
		Email:    "alice@example.com",
		Role:     "student",
	})

	assert.NoError(t, err)
	assert.NotNil(t, user)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, models.RoleStudent, user.Role)
	assert.NotEmpty(t, user.ID)
	assert.NotNil(t, user.Profile)
	mockUserRepo.AssertExpectations(t)
	mockProfileRepo.AssertExpectations(t)
}

func TestRegister_UsernameExists(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockProfileRepo := new(MockProfileRepository)
	mockRefreshTokenRepo := new(MockRefreshTokenRepository)
	authService := NewAuthService(mockUserRepo, mockProfileRepo, mockRefreshTokenRepo, testConfig())

	mockUserRepo.On("FindByUsername", mock.Anything, "alice").Return(&models.User{Username: "alice"}, nil)

	user, err := authService.Register(context.Background(), &dto.RegisterRequest{
		Username: "alice",
		Password: "password123",
		Email:    "alice@example.com",
		Role:     "teacher",
	})

	assert.Equal(t, ErrNameInUse, err)
	assert.Nil(t, user)
	mockUserRepo.AssertExpectations(t)
}

func TestLogin_Success(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockProfileRepo := new(MockProfileRepository)
	mockRefreshTokenRepo := new(MockRefreshTokenRepository)
	authService := NewAuthService(mockUserRepo, mockProfileRepo, mockRefreshTokenRepo, testConfig())

	hashed, err := auth.HashPassword("password123")
	assert.NoError(t, err)
	user := &models.User{
		ID:       "user-1",
		Username: "alice",
		Password: hashed,
		Role:     models.RoleStudent,
	}

	mockUserRepo.On("FindByUsername", mock.Anything, "alice").Return(user, nil)
	mockUserRepo.On("UpdateLastLogin", mock.Anything, "user-1").Return(nil)
	mockRefreshTokenRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.RefreshToken")).Return(nil)

	accessToken, refreshToken, loggedIn, err := authService.Login(context.Background(), "alice", "password123")

	assert.NoError(t, err)
	assert.NotEmpty(t, accessToken)
	assert.NotEmpty(t, refreshToken)
	assert.Equal(t, "user-1", loggedIn.ID)

	// The issued access token round-trips through validation
	claims, err := authService.ValidateToken(accessToken)
	assert.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "student", claims.Role)
	mockUserRepo.AssertExpectations(t)
	mockRefreshTokenRepo.AssertExpectations(t)
}

func TestLogin_WrongPassword(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockProfileRepo := new(MockProfileRepository)
	mockRefreshTokenRepo := new(MockRefreshTokenRepository)
	authService := NewAuthService(mockUserRepo, mockProfileRepo, mockRefreshTokenRepo, testConfig())

	hashed, _ := auth.HashPassword("password123")
	mockUserRepo.On("FindByUsername", mock.Anything, "alice").Return(&models.User{
		ID:       "user-1",
		Username: "alice",
		Password: hashed,
	}, nil)

	_, _, _, err := authService.Login(context.Background(), "alice", "wrong-password")
	assert.Equal(t, ErrInvalidCredentials, err)
}

func TestValidateToken_Garbage(t *testing.T) {
	authService := NewAuthService(new(MockUserRepository), new(MockProfileRepository), new(MockRefreshTokenRepository), testConfig())

	claims, err := authService.ValidateToken("not-a-jwt")
	assert.Error(t, err)
	assert.Nil(t, claims)
}
