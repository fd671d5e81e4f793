package services_test

import (
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	"bytestore/internal/apperrors"
	"bytestore/internal/auth"
	"bytestore/internal/models"
	"bytestore/internal/services"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

// MockUserRepository is a mock implementation of repositories.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(id string) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func TestMain(m *testing.M) {
	// Suppress logging during tests for cleaner output
	log.SetOutput(os.Stdout)
	code := m.Run()
	os.Exit(code)
}

func newTestAuthService(repo *MockUserRepository) *services.AuthService {
	return services.NewAuthService(repo, "test_jwt_secret", "bytestore-test", "bytestore-test-clients", time.Hour)
}

func TestAuthService_Register(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := newTestAuthService(mockRepo)

	// Successful registration
	mockRepo.On("GetByEmail", "new@example.com").Return(nil, apperrors.ErrNotFound).Once()
	mockRepo.On("Create", mock.AnythingOfType("*models.User")).Return(nil).Once()

	user, err := authService.Register("New User", "new@example.com", "password123", auth.RoleUser)
	assert.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, auth.RoleUser, user.Role)
	// Stored credential must be a hash, never the plaintext
	assert.NotEqual(t, "password123", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("password123")))
	mockRepo.AssertExpectations(t)

	// Email already registered
	mockRepo.On("GetByEmail", "taken@example.com").Return(&models.User{ID: "user-1"}, nil).Once()
	_, err = authService.Register("Someone", "taken@example.com", "password123", auth.RoleUser)
	assert.ErrorIs(t, err, apperrors.ErrEmailTaken)
	mockRepo.AssertExpectations(t)

	// Duplicate slipping past the check is caught by the unique index
	mockRepo.On("GetByEmail", "raced@example.com").Return(nil, apperrors.ErrNotFound).Once()
	mockRepo.On("Create", mock.AnythingOfType("*models.User")).Return(apperrors.ErrEmailTaken).Once()
	_, err = authService.Register("Racer", "raced@example.com", "password123", auth.RoleUser)
	assert.ErrorIs(t, err, apperrors.ErrEmailTaken)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_Login(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := newTestAuthService(mockRepo)

	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	user := &models.User{
		ID:           "user-123",
		FullName:     "Test User",
		Email:        "test@example.com",
		PasswordHash: string(hashedPassword),
		Role:         auth.RoleUser,
	}

	// Successful login
	mockRepo.On("GetByEmail", user.Email).Return(user, nil).Once()
	result, err := authService.Login(user.Email, "password123")
	assert.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, user.Email, result.Email)
	assert.Equal(t, auth.RoleUser, result.Role)
	assert.True(t, result.ExpiresAt.After(time.Now()))

	// Inspect the issued claims
	parsedToken, err := jwt.Parse(result.Token, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte("test_jwt_secret"), nil
	})
	assert.NoError(t, err)
	claims, ok := parsedToken.Claims.(jwt.MapClaims)
	assert.True(t, ok)
	assert.Equal(t, user.ID, claims["sub"])
	assert.Equal(t, user.Email, claims["email"])
	assert.Equal(t, auth.RoleUser, claims["role"])
	assert.Equal(t, "bytestore-test", claims["iss"])
	assert.Equal(t, "bytestore-test-clients", claims["aud"])
	assert.NotEmpty(t, claims["jti"])
	mockRepo.AssertExpectations(t)

	// Wrong password
	mockRepo.On("GetByEmail", user.Email).Return(user, nil).Once()
	_, wrongPassErr := authService.Login(user.Email, "wrongpassword")
	assert.ErrorIs(t, wrongPassErr, apperrors.ErrInvalidCredentials)
	mockRepo.AssertExpectations(t)

	// Unknown email fails with the same message as a wrong password, so the
	// response never reveals whether an account exists
	mockRepo.On("GetByEmail", "nobody@example.com").Return(nil, apperrors.ErrNotFound).Once()
	_, unknownErr := authService.Login("nobody@example.com", "password123")
	assert.ErrorIs(t, unknownErr, apperrors.ErrInvalidCredentials)
	assert.Equal(t, wrongPassErr.Error(), unknownErr.Error())
	mockRepo.AssertExpectations(t)
}

func TestAuthService_VerifyToken(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := newTestAuthService(mockRepo)

	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	admin := &models.User{
		ID:           "admin-1",
		Email:        "admin@example.com",
		PasswordHash: string(hashedPassword),
		Role:         auth.RoleAdmin,
	}

	// Round-trip: a token issued by Login verifies back to the same identity
	mockRepo.On("GetByEmail", admin.Email).Return(admin, nil).Once()
	result, err := authService.Login(admin.Email, "password123")
	assert.NoError(t, err)

	identity, err := authService.VerifyToken(result.Token)
	assert.NoError(t, err)
	assert.Equal(t, admin.ID, identity.UserID)
	assert.Equal(t, admin.Email, identity.Email)
	assert.True(t, identity.IsAdmin())

	// Garbage token
	_, err = authService.VerifyToken("invalid.token.string")
	assert.Error(t, err)

	// Token signed with a different secret
	otherService := services.NewAuthService(mockRepo, "other_secret", "bytestore-test", "bytestore-test-clients", time.Hour)
	mockRepo.On("GetByEmail", admin.Email).Return(admin, nil).Once()
	otherResult, err := otherService.Login(admin.Email, "password123")
	assert.NoError(t, err)
	_, err = authService.VerifyToken(otherResult.Token)
	assert.Error(t, err)

	// Expired token
	expiredService := services.NewAuthService(mockRepo, "test_jwt_secret", "bytestore-test", "bytestore-test-clients", -time.Hour)
	mockRepo.On("GetByEmail", admin.Email).Return(admin, nil).Once()
	expiredResult, err := expiredService.Login(admin.Email, "password123")
	assert.NoError(t, err)
	_, err = authService.VerifyToken(expiredResult.Token)
	assert.Error(t, err)

	mockRepo.AssertExpectations(t)
}
