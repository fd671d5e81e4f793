package services

import (
	"errors"
	"fmt"
	"time"

	"bytestore/internal/apperrors"
	"bytestore/internal/auth"
	"bytestore/internal/models"
	"bytestore/internal/repositories"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// AuthService handles registration, login and token verification.
type AuthService struct {
	userRepo  repositories.UserRepository
	jwtSecret []byte
	issuer    string
	audience  string
	tokenTTL  time.Duration
}

// LoginResult is returned on a successful login.
type LoginResult struct {
	Token     string    `json:"token"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, jwtSecret, issuer, audience string, tokenTTL time.Duration) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		jwtSecret: []byte(jwtSecret),
		issuer:    issuer,
		audience:  audience,
		tokenTTL:  tokenTTL,
	}
}

// Register creates a new account with a bcrypt-hashed password. The email
// check here gives a friendly error; the unique index on users.email is what
// actually guarantees exclusivity under concurrent registrations.
func (s *AuthService) Register(fullName, email, password, role string) (*models.User, error) {
	if _, err := s.userRepo.GetByEmail(email); err == nil {
		return nil, apperrors.ErrEmailTaken
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing email: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.New().String(),
		FullName:     fullName,
		Email:        email,
		PasswordHash: string(hashed),
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login authenticates by email and password and issues a signed token.
// Unknown email and wrong password produce the identical error so the
// response never reveals whether an account exists.
func (s *AuthService) Login(email, password string) (*LoginResult, error) {
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	expiresAt := time.Now().Add(s.tokenTTL)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   user.ID,
		"email": user.Email,
		"role":  user.Role,
		"jti":   uuid.New().String(),
		"iss":   s.issuer,
		"aud":   s.audience,
		"exp":   expiresAt.Unix(),
		"iat":   time.Now().Unix(),
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &LoginResult{
		Token:     tokenString,
		Email:     user.Email,
		Role:      user.Role,
		ExpiresAt: expiresAt,
	}, nil
}

// VerifyToken parses and validates a token and extracts the caller identity.
func (s *AuthService) VerifyToken(tokenString string) (auth.Identity, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return auth.Identity{}, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return auth.Identity{}, fmt.Errorf("invalid token")
	}

	sub, _ := claims["sub"].(string)
	email, _ := claims["email"].(string)
	role, _ := claims["role"].(string)
	if sub == "" || role == "" {
		return auth.Identity{}, fmt.Errorf("invalid token: missing identity claims")
	}

	return auth.Identity{UserID: sub, Email: email, Role: role}, nil
}
